package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lshigami/StudyBuddy/config"
	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type Mailer interface {
	SendResetCode(ctx context.Context, toName, toEmail, code string) error
}

// NewMailer sends through SendGrid when an API key is configured and logs
// the message otherwise.
func NewMailer(cfg *config.Config) Mailer {
	if cfg.Mail.SendGridApiKey == "" {
		log.Warn().Msg("SENDGRID_API_KEY is not set. Emails will be written to the log.")
		return &logMailer{}
	}
	return &sendgridMailer{
		key:        cfg.Mail.SendGridApiKey,
		from:       sgmail.NewEmail(cfg.AppName, cfg.Mail.From),
		subjPrefix: "[" + cfg.AppName + "] ",
		ttlMinutes: int(cfg.Mail.ResetCodeTTL.Minutes()),
	}
}

type sendgridMailer struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
	ttlMinutes int
}

func (m *sendgridMailer) SendResetCode(_ context.Context, toName, toEmail, code string) error {
	p := sgmail.NewPersonalization()
	p.Subject = m.subjPrefix + "Password reset code"
	p.AddTos(sgmail.NewEmail(toName, toEmail))

	msg := sgmail.NewV3Mail()
	msg.SetFrom(m.from)
	msg.AddPersonalizations(p)
	msg.AddContent(
		sgmail.NewContent("text/plain", resetCodeText(code, m.ttlMinutes)),
		sgmail.NewContent("text/html", fmt.Sprintf("<p>Your password reset code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>", code, m.ttlMinutes)),
	)

	req := sendgrid.GetRequest(m.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(msg)

	res, err := sendgrid.API(req)
	if err != nil {
		log.Error().Err(err).Str("to", toEmail).Msg("SendResetCode: sendgrid request failed")
		return fmt.Errorf("failed to send email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		log.Error().Int("status", res.StatusCode).Str("body", res.Body).Str("to", toEmail).Msg("SendResetCode: sendgrid rejected message")
		return fmt.Errorf("failed to send email: sendgrid status %d", res.StatusCode)
	}
	return nil
}

type logMailer struct{}

func (m *logMailer) SendResetCode(_ context.Context, toName, toEmail, code string) error {
	log.Info().Str("to", toEmail).Str("name", toName).Str("code", code).Msg("Password reset code (mail delivery disabled)")
	return nil
}

func resetCodeText(code string, ttlMinutes int) string {
	return fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.", code, ttlMinutes)
}
