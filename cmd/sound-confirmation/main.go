package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"ecnelisfly/application/services"
	"ecnelisfly/cmd/internal/bootstrap"
	"ecnelisfly/infrastructure/di"
)

var container *di.Container

// Handler sends the "sound received" or "sound approved" email
func Handler(ctx context.Context, req services.SoundConfirmation) (*services.SoundConfirmationResult, error) {
	return container.Notifications.SendSoundConfirmation(ctx, req)
}

func main() {
	container = bootstrap.MustContainer()
	lambda.Start(Handler)
}
