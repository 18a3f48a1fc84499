// utils/email.go
package utils

import (
	"context"
	"fmt"
	"html"
	"insta-marketplace/models"

	"github.com/keighl/postmark"
	"github.com/rs/zerolog/log"
)

// Mailer sends account notifications.
type Mailer interface {
	SendWelcomeEmail(ctx context.Context, toEmail, name, role string) error
}

// NopMailer drops every message. Used when no Postmark token is configured.
type NopMailer struct{}

func (NopMailer) SendWelcomeEmail(ctx context.Context, toEmail, name, role string) error {
	log.Ctx(ctx).Debug().Str("component", "NopMailer").Str("to", toEmail).Msg("welcome email skipped")
	return nil
}

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
	sender string
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService(apiToken, sender string) *EmailService {
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: sender,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent, textContent, tag string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: textContent,
		Tag:      tag,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendWelcomeEmail greets a newly registered customer or seller.
func (es *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, name, role string) error {
	subject := "Welcome to InstaSeller"
	text := fmt.Sprintf("Hi %s,\n\nThanks for joining InstaSeller. Happy shopping!\n", name)
	if role == models.RoleSeller {
		subject = "Your InstaSeller store is ready"
		text = fmt.Sprintf("Hi %s,\n\nYour seller account is set up. Head to your dashboard to list your first product.\n", name)
	}
	htmlContent := fmt.Sprintf("<p>%s</p>", html.EscapeString(text))

	if err := es.SendEmail(toEmail, subject, htmlContent, text, "welcome-"+role); err != nil {
		return err
	}

	log.Ctx(ctx).Info().Str("component", "SendWelcomeEmail").Str("to", toEmail).Msg("welcome email sent")
	return nil
}
