package services

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// EmailSender dispatches the signup verification mail. Signup is not
// complete until the dispatch call returns success.
type EmailSender interface {
	SendVerificationEmail(ctx context.Context, email, name, verificationURL string) error
}

// SMTPSender implements EmailSender over plain SMTP.
type SMTPSender struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// SendVerificationEmail sends the templated verification mail.
func (s *SMTPSender) SendVerificationEmail(ctx context.Context, email, name, verificationURL string) error {
	msg := s.buildMessage(email, name, verificationURL)

	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}

	addr := s.Host + ":" + s.Port
	if err := smtp.SendMail(addr, auth, s.From, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send verification email to %s: %w", email, err)
	}
	return nil
}

func (s *SMTPSender) buildMessage(email, name, verificationURL string) string {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.FromName, s.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", email))
	msg.WriteString("Subject: Please verify your email address\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(fmt.Sprintf(`<div style="font-family: Arial, sans-serif; line-height: 1.6;">
  <h2>Hi %s!</h2>
  <p>Thanks for signing up. Click the button below to verify your email address and activate your account.</p>
  <a href="%s" style="display: inline-block; padding: 12px 24px; background-color: #4A90E2; color: #ffffff; text-decoration: none; border-radius: 5px;">Verify email</a>
  <p>This link is valid for one hour.</p>
  <p style="font-size: 12px; color: #888;">If the button does not work, paste this address into your browser:<br>%s</p>
</div>`, name, verificationURL, verificationURL))
	msg.WriteString("\r\n")
	return msg.String()
}
