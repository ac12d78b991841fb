package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"go.uber.org/zap"

	"ecnelisfly/application/mappers"
	"ecnelisfly/application/ports"
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/core/valueobjects"
	"ecnelisfly/infrastructure/persistence/schema"
	pkgerrors "ecnelisfly/pkg/errors"
)

// CodePlaceholder is replaced by the verification code in email templates.
const CodePlaceholder = "{{code}}"

// Cognito custom message trigger sources.
const (
	TriggerSignUp         = "CustomMessage_SignUp"
	TriggerResendCode     = "CustomMessage_ResendCode"
	TriggerForgotPassword = "CustomMessage_ForgotPassword"
)

var defaultTemplates = map[string]entities.EmailTemplate{
	entities.TemplateVerification: {
		Type:    entities.TemplateVerification,
		Subject: "Ecnelis FLY - Vérifiez votre adresse email",
		HTMLBody: `<p>Bienvenue sur Ecnelis FLY !</p>` +
			`<p>Votre code de vérification est : <strong>{{code}}</strong></p>`,
	},
	entities.TemplatePasswordReset: {
		Type:    entities.TemplatePasswordReset,
		Subject: "Ecnelis FLY - Réinitialisation du mot de passe",
		HTMLBody: `<p>Vous avez demandé à réinitialiser votre mot de passe.</p>` +
			`<p>Votre code est : <strong>{{code}}</strong></p>`,
	},
}

// TemplateForTrigger maps a custom message trigger to a template type.
func TemplateForTrigger(trigger string) (string, bool) {
	switch trigger {
	case TriggerSignUp, TriggerResendCode:
		return entities.TemplateVerification, true
	case TriggerForgotPassword:
		return entities.TemplatePasswordReset, true
	default:
		return "", false
	}
}

// NotificationConfig controls transactional email.
type NotificationConfig struct {
	From            string
	Enabled         bool
	DefaultLanguage string
}

// NotificationService renders and sends transactional email.
type NotificationService struct {
	templates ports.Collection[schema.EmailTemplate]
	mailer    ports.Mailer
	cfg       NotificationConfig
	logger    *zap.Logger
}

// NewNotificationService creates the service. mailer may be nil when
// sending is disabled.
func NewNotificationService(
	templates ports.Collection[schema.EmailTemplate],
	mailer ports.Mailer,
	cfg NotificationConfig,
	logger *zap.Logger,
) *NotificationService {
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "fr"
	}
	return &NotificationService{templates: templates, mailer: mailer, cfg: cfg, logger: logger}
}

// ResolveTemplate returns the subject and body for templateType with code
// substituted. Stored overrides win; a missing override or a failed lookup
// falls back to the built-in template.
func (s *NotificationService) ResolveTemplate(ctx context.Context, templateType, code string) (string, string) {
	tmpl, ok := defaultTemplates[templateType]
	if !ok {
		tmpl = defaultTemplates[entities.TemplateVerification]
	}

	if s.templates != nil {
		rec, err := s.templates.Get(ctx, templateType)
		switch {
		case err != nil:
			s.logger.Warn("Template lookup failed, using default",
				zap.String("templateType", templateType),
				zap.Error(err),
			)
		case rec != nil && rec.Subject != "" && rec.HTMLBody != "":
			tmpl = *mappers.EmailTemplateFromRecord(*rec)
		}
	}

	return strings.ReplaceAll(tmpl.Subject, CodePlaceholder, code),
		strings.ReplaceAll(tmpl.HTMLBody, CodePlaceholder, code)
}

// SoundConfirmation asks for a "sound received" or "sound approved" email.
type SoundConfirmation struct {
	Email      string `json:"email"`
	Username   string `json:"username"`
	SoundTitle string `json:"soundTitle"`
	Status     string `json:"status"`
	Language   string `json:"language"`
}

// SoundConfirmationResult reports what happened to the email.
type SoundConfirmationResult struct {
	Sent      bool   `json:"sent"`
	DryRun    bool   `json:"dryRun"`
	MessageID string `json:"messageId,omitempty"`
	Subject   string `json:"subject"`
	Language  string `json:"language"`
	Error     string `json:"error,omitempty"`
}

type confirmationCopy struct {
	approvedSubject string
	pendingSubject  string
	greeting        string
	approved        string
	pending         string
	signature       string
}

var confirmationCopies = map[string]confirmationCopy{
	"fr": {
		approvedSubject: "Votre son a été publié sur Ecnelis FLY",
		pendingSubject:  "Nous avons bien reçu votre son",
		greeting:        "Bonjour",
		approved:        "Votre son « %s » a été validé et est maintenant visible sur la carte.",
		pending:         "Votre son « %s » a bien été reçu. Il sera publié après modération.",
		signature:       "L'équipe Ecnelis FLY",
	},
	"en": {
		approvedSubject: "Your sound is live on Ecnelis FLY",
		pendingSubject:  "We received your sound",
		greeting:        "Hello",
		approved:        "Your sound \"%s\" has been approved and is now visible on the map.",
		pending:         "Your sound \"%s\" has been received. It will be published after moderation.",
		signature:       "The Ecnelis FLY team",
	},
	"es": {
		approvedSubject: "Tu sonido ya está publicado en Ecnelis FLY",
		pendingSubject:  "Hemos recibido tu sonido",
		greeting:        "Hola",
		approved:        "Tu sonido «%s» ha sido aprobado y ya es visible en el mapa.",
		pending:         "Tu sonido «%s» ha sido recibido. Se publicará tras la moderación.",
		signature:       "El equipo de Ecnelis FLY",
	},
}

var confirmationBody = template.Must(template.New("confirmation").Parse(
	`<p>{{.Greeting}} {{.Username}},</p><p>{{.Message}}</p><p>{{.Signature}}</p>`))

// RenderSoundConfirmation returns the subject and HTML body for req and
// the language actually used.
func (s *NotificationService) RenderSoundConfirmation(req SoundConfirmation) (subject, body, lang string, err error) {
	lang = strings.ToLower(strings.TrimSpace(req.Language))
	text, ok := confirmationCopies[lang]
	if !ok {
		lang = s.cfg.DefaultLanguage
		text = confirmationCopies[lang]
	}

	approved := req.Status == string(valueobjects.SoundStatusPublic) || req.Status == "approved"
	subject, message := text.pendingSubject, text.pending
	if approved {
		subject, message = text.approvedSubject, text.approved
	}

	var buf bytes.Buffer
	err = confirmationBody.Execute(&buf, map[string]string{
		"Greeting":  text.greeting,
		"Username":  req.Username,
		"Message":   fmt.Sprintf(message, req.SoundTitle),
		"Signature": text.signature,
	})
	if err != nil {
		return "", "", lang, err
	}
	return subject, buf.String(), lang, nil
}

// SendSoundConfirmation renders and sends the confirmation email. When
// sending is disabled it returns a dry-run result. Send failures are
// logged and reported in the result, never returned.
func (s *NotificationService) SendSoundConfirmation(ctx context.Context, req SoundConfirmation) (*SoundConfirmationResult, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, pkgerrors.NewValidationError("recipient email is required")
	}

	subject, body, lang, err := s.RenderSoundConfirmation(req)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to render email").WithCause(err)
	}
	result := &SoundConfirmationResult{Subject: subject, Language: lang}

	if !s.cfg.Enabled || s.mailer == nil {
		s.logger.Info("Email sending disabled, dry run",
			zap.String("to", req.Email),
			zap.String("subject", subject),
		)
		result.DryRun = true
		return result, nil
	}

	messageID, err := s.mailer.Send(ctx, ports.Email{
		From:     s.cfg.From,
		To:       []string{req.Email},
		Subject:  subject,
		HTMLBody: body,
	})
	if err != nil {
		s.logger.Warn("Failed to send sound confirmation",
			zap.String("to", req.Email),
			zap.Error(err),
		)
		result.Error = err.Error()
		return result, nil
	}

	result.Sent = true
	result.MessageID = messageID
	return result, nil
}
