package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"ecnelisfly/application/services"
	"ecnelisfly/cmd/internal/bootstrap"
	"ecnelisfly/infrastructure/di"
)

var container *di.Container

// Handler picks the featured sound of the day
func Handler(ctx context.Context, event events.CloudWatchEvent) (*services.PickResult, error) {
	now, force := bootstrap.ScheduledRun(event)
	result, err := container.PickJobs.RunFeatured(ctx, now, force)
	if err != nil {
		container.Logger.Error("Featured pick failed", zap.Time("at", now), zap.Error(err))
		return nil, err
	}
	return result, nil
}

func main() {
	container = bootstrap.MustContainer()
	lambda.Start(Handler)
}
