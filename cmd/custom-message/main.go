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

// Handler rewrites verification and password reset emails. Other triggers
// pass through so Cognito sends its default message.
func Handler(ctx context.Context, event events.CognitoEventUserPoolsCustomMessage) (events.CognitoEventUserPoolsCustomMessage, error) {
	templateType, ok := services.TemplateForTrigger(event.TriggerSource)
	if !ok {
		return event, nil
	}

	subject, body := container.Notifications.ResolveTemplate(ctx, templateType, event.Request.CodeParameter)
	event.Response.EmailSubject = subject
	event.Response.EmailMessage = body

	container.Logger.Info("Custom message rendered",
		zap.String("triggerSource", event.TriggerSource),
		zap.String("templateType", templateType),
		zap.String("userName", event.UserName),
	)
	return event, nil
}

func main() {
	container = bootstrap.MustContainer()
	lambda.Start(Handler)
}
