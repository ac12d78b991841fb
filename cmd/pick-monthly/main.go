package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"ecnelisfly/application/services"
	"ecnelisfly/cmd/internal/bootstrap"
	"ecnelisfly/infrastructure/di"
)

var container *di.Container

// Handler picks the zone and the journey of the month. Both run even when
// one fails; the first error is returned.
func Handler(ctx context.Context, event events.CloudWatchEvent) ([]*services.PickResult, error) {
	now, force := bootstrap.ScheduledRun(event)

	var (
		results  []*services.PickResult
		firstErr error
	)
	for _, run := range []func(context.Context, time.Time, bool) (*services.PickResult, error){
		container.PickJobs.RunMonthlyZone,
		container.PickJobs.RunMonthlyJourney,
	} {
		result, err := run(ctx, now, force)
		if err != nil {
			container.Logger.Error("Monthly pick failed", zap.Time("at", now), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		results = append(results, result)
	}
	return results, firstErr
}

func main() {
	container = bootstrap.MustContainer()
	lambda.Start(Handler)
}
