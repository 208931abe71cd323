// utils/email.go
package utils

import (
	"fmt"
	"strings"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// EmailService sends listing confirmations through the configured provider
type EmailService struct {
	provider string
	from     string
	send     func(to, subject, htmlContent string) error
	logger   *zap.Logger
}

// NewEmailService picks postmark, sendgrid or log (no delivery) from cfg
func NewEmailService(cfg Config, logger *zap.Logger) (*EmailService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	es := &EmailService{
		provider: strings.ToLower(cfg.EmailProvider),
		from:     cfg.EmailSender,
		logger:   logger,
	}

	switch es.provider {
	case "postmark":
		if cfg.PostmarkToken == "" {
			return nil, fmt.Errorf("POSTMARK_API_TOKEN is not set in environment variables")
		}
		client := postmark.NewClient(cfg.PostmarkToken, "")
		es.send = func(to, subject, htmlContent string) error {
			_, err := client.SendEmail(postmark.Email{
				From:     es.from,
				To:       to,
				Subject:  subject,
				HtmlBody: htmlContent,
				TextBody: htmlContent,
			})
			return err
		}
	case "sendgrid":
		if cfg.SendgridKey == "" {
			return nil, fmt.Errorf("SENDGRID_API_KEY is not set in environment variables")
		}
		client := sendgrid.NewSendClient(cfg.SendgridKey)
		es.send = func(to, subject, htmlContent string) error {
			message := mail.NewSingleEmail(mail.NewEmail("Storefront", es.from), subject, mail.NewEmail("", to), htmlContent, htmlContent)
			resp, err := client.Send(message)
			if err != nil {
				return err
			}
			if resp.StatusCode >= 300 {
				return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
			}
			return nil
		}
	case "", "log":
		es.provider = "log"
		es.send = func(to, subject, _ string) error {
			logger.Info("email not delivered (log provider)", zap.String("to", to), zap.String("subject", subject))
			return nil
		}
	default:
		return nil, fmt.Errorf("unknown EMAIL_PROVIDER %q", cfg.EmailProvider)
	}
	return es, nil
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if err := es.send(toEmail, subject, htmlContent); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	es.logger.Debug("email sent", zap.String("provider", es.provider), zap.String("to", toEmail))
	return nil
}

func (es *EmailService) Provider() string { return es.provider }
