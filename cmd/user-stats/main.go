package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"ecnelisfly/application/services"
	"ecnelisfly/cmd/internal/bootstrap"
	"ecnelisfly/infrastructure/di"
)

var container *di.Container

// Handler counts identity provider users for the admin dashboard
func Handler(ctx context.Context) (*services.UserStats, error) {
	stats, err := container.UserStats.Compute(ctx, time.Now())
	if err != nil {
		container.Logger.Error("User stats failed", zap.Error(err))
		return nil, err
	}
	return stats, nil
}

func main() {
	container = bootstrap.MustContainer()
	lambda.Start(Handler)
}
