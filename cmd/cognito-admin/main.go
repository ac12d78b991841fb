package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"ecnelisfly/application/adminactions"
	"ecnelisfly/cmd/internal/bootstrap"
	"ecnelisfly/infrastructure/di"
)

var container *di.Container

// Handler runs one identity provider admin action
func Handler(ctx context.Context, req adminactions.Request) (*adminactions.Response, error) {
	resp, err := container.AdminActions.Dispatch(ctx, req)
	if err != nil {
		container.Logger.Error("Admin action failed",
			zap.String("action", req.Action),
			zap.String("username", req.Username),
			zap.Error(err),
		)
		return nil, err
	}
	return resp, nil
}

func main() {
	container = bootstrap.MustContainer()
	lambda.Start(Handler)
}
