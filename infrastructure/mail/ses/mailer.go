// Package ses sends transactional email through SES v2.
package ses

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"ecnelisfly/application/ports"
	pkgerrors "ecnelisfly/pkg/errors"
	"ecnelisfly/pkg/resilience"
)

const charset = "UTF-8"

// API is the subset of the SES v2 client the mailer uses.
type API interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Mailer implements ports.Mailer.
type Mailer struct {
	api     API
	breaker *resilience.Breaker
	logger  *zap.Logger
}

var _ ports.Mailer = (*Mailer)(nil)

// NewMailer creates a new SES mailer
func NewMailer(api API, logger *zap.Logger) *Mailer {
	return &Mailer{
		api:     api,
		breaker: resilience.NewBreaker(resilience.DefaultBreakerConfig("ses"), logger),
		logger:  logger,
	}
}

// Send sends email and returns the SES message id
func (m *Mailer) Send(ctx context.Context, email ports.Email) (string, error) {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(email.From),
		Destination:      &types.Destination{ToAddresses: email.To},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(email.Subject), Charset: aws.String(charset)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(email.HTMLBody), Charset: aws.String(charset)},
				},
			},
		},
	}

	out, err := resilience.Do(m.breaker, func() (*sesv2.SendEmailOutput, error) {
		return m.api.SendEmail(ctx, input)
	})
	if err != nil {
		m.logger.Error("Failed to send email",
			zap.Strings("to", email.To),
			zap.String("subject", email.Subject),
			zap.Error(err),
		)
		return "", pkgerrors.NewExternalError("ses", err)
	}

	messageID := aws.ToString(out.MessageId)
	m.logger.Info("Email sent",
		zap.Strings("to", email.To),
		zap.String("messageID", messageID),
	)
	return messageID, nil
}
