package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ecnelisfly/application/ports"
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/infrastructure/persistence/schema"
	pkgerrors "ecnelisfly/pkg/errors"
)

func TestTemplateForTrigger(t *testing.T) {
	tests := []struct {
		trigger  string
		expected string
		ok       bool
	}{
		{TriggerSignUp, entities.TemplateVerification, true},
		{TriggerResendCode, entities.TemplateVerification, true},
		{TriggerForgotPassword, entities.TemplatePasswordReset, true},
		{"CustomMessage_AdminCreateUser", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.trigger, func(t *testing.T) {
			got, ok := TemplateForTrigger(tt.trigger)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestResolveTemplate_DefaultAndOverride(t *testing.T) {
	tables := newMemoryTables()
	svc := NewNotificationService(tables.emailTemplates, nil, NotificationConfig{}, zap.NewNop())
	ctx := context.Background()

	subject, body := svc.ResolveTemplate(ctx, entities.TemplateVerification, "123456")
	assert.Contains(t, subject, "Vérifiez")
	assert.Contains(t, body, "<strong>123456</strong>")
	assert.NotContains(t, body, CodePlaceholder)

	_, err := tables.emailTemplates.Create(ctx, schema.EmailTemplate{
		Type:     entities.TemplatePasswordReset,
		Subject:  "Reset {{code}}",
		HTMLBody: "<p>Use {{code}} now</p>",
	})
	require.NoError(t, err)

	subject, body = svc.ResolveTemplate(ctx, entities.TemplatePasswordReset, "9")
	assert.Equal(t, "Reset 9", subject)
	assert.Equal(t, "<p>Use 9 now</p>", body)
}

func TestResolveTemplate_IncompleteOverrideAndLookupFailure(t *testing.T) {
	tables := newMemoryTables()
	svc := NewNotificationService(tables.emailTemplates, nil, NotificationConfig{}, zap.NewNop())
	ctx := context.Background()
	_, err := tables.emailTemplates.Create(ctx, schema.EmailTemplate{Type: entities.TemplateVerification, Subject: "only a subject"})
	require.NoError(t, err)

	subject, _ := svc.ResolveTemplate(ctx, entities.TemplateVerification, "1")
	assert.Contains(t, subject, "Ecnelis FLY")

	tables.emailTemplates.FailNext(1, errors.New("throttled"))
	subject, body := svc.ResolveTemplate(ctx, entities.TemplatePasswordReset, "2")
	assert.Contains(t, subject, "Réinitialisation")
	assert.Contains(t, body, "2")
}

func TestRenderSoundConfirmation(t *testing.T) {
	svc := NewNotificationService(nil, nil, NotificationConfig{}, zap.NewNop())

	subject, body, lang, err := svc.RenderSoundConfirmation(SoundConfirmation{
		Username: "<bob>", SoundTitle: "Rain", Status: "public", Language: "EN",
	})
	require.NoError(t, err)
	assert.Equal(t, "en", lang)
	assert.Equal(t, "Your sound is live on Ecnelis FLY", subject)
	assert.Contains(t, body, "&lt;bob&gt;")
	assert.Contains(t, body, "Rain")

	subject, _, lang, err = svc.RenderSoundConfirmation(SoundConfirmation{SoundTitle: "Rain", Status: "public_to_be_approved", Language: "de"})
	require.NoError(t, err)
	assert.Equal(t, "fr", lang)
	assert.Equal(t, "Nous avons bien reçu votre son", subject)
}

func TestSendSoundConfirmation_DryRunWhenDisabled(t *testing.T) {
	mailer := new(MockMailer)
	svc := NewNotificationService(nil, mailer, NotificationConfig{Enabled: false}, zap.NewNop())

	result, err := svc.SendSoundConfirmation(context.Background(), SoundConfirmation{Email: "a@example.com", SoundTitle: "Rain"})

	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.False(t, result.Sent)
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSendSoundConfirmation_Sends(t *testing.T) {
	mailer := new(MockMailer)
	mailer.On("Send", mock.Anything, mock.MatchedBy(func(e ports.Email) bool {
		return e.From == "noreply@example.com" && len(e.To) == 1 && e.To[0] == "a@example.com"
	})).Return("msg-1", nil)
	svc := NewNotificationService(nil, mailer, NotificationConfig{Enabled: true, From: "noreply@example.com"}, zap.NewNop())

	result, err := svc.SendSoundConfirmation(context.Background(), SoundConfirmation{Email: "a@example.com", SoundTitle: "Rain", Status: "approved", Language: "es"})

	require.NoError(t, err)
	assert.True(t, result.Sent)
	assert.Equal(t, "msg-1", result.MessageID)
	assert.Equal(t, "es", result.Language)
	mailer.AssertExpectations(t)
}

func TestSendSoundConfirmation_FailureIsReported(t *testing.T) {
	mailer := new(MockMailer)
	mailer.On("Send", mock.Anything, mock.Anything).Return("", errors.New("MessageRejected"))
	svc := NewNotificationService(nil, mailer, NotificationConfig{Enabled: true}, zap.NewNop())

	result, err := svc.SendSoundConfirmation(context.Background(), SoundConfirmation{Email: "a@example.com"})

	require.NoError(t, err)
	assert.False(t, result.Sent)
	assert.Equal(t, "MessageRejected", result.Error)
}

func TestSendSoundConfirmation_RequiresEmail(t *testing.T) {
	svc := NewNotificationService(nil, nil, NotificationConfig{}, zap.NewNop())

	_, err := svc.SendSoundConfirmation(context.Background(), SoundConfirmation{Email: " "})

	assert.True(t, pkgerrors.IsValidation(err))
}
