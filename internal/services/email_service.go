package services

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"gotours/internal/config"
	"gotours/internal/models"
	"gotours/pkg/logger"
)

// EmailService delivers transactional mail. Sends are best-effort from the
// caller's point of view except for password resets, where a failed send
// must surface so the issued token can be invalidated.
type EmailService interface {
	SendWelcome(ctx context.Context, user *models.User, loginURL string) error
	SendPasswordReset(ctx context.Context, user *models.User, resetURL string) error
}

type emailService struct {
	config *config.SMTPConfig
	logger *logger.Logger
}

func NewEmailService(cfg *config.SMTPConfig, log *logger.Logger) EmailService {
	return &emailService{
		config: cfg,
		logger: log,
	}
}

func (s *emailService) SendWelcome(ctx context.Context, user *models.User, loginURL string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome to the family! We're glad to have you.\n\nLog in at %s to set up your profile and browse tours.\n",
		firstName(user.Name), loginURL,
	)
	return s.send(ctx, user.Email, "Welcome to GoTours!", body)
}

func (s *emailService) SendPasswordReset(ctx context.Context, user *models.User, resetURL string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nForgot your password? Submit a PATCH request with your new password to:\n\n%s\n\nThe link is valid for 10 minutes. If you didn't forget your password, please ignore this email.\n",
		firstName(user.Name), resetURL,
	)
	return s.send(ctx, user.Email, "Your password reset token (valid for 10 minutes)", body)
}

func (s *emailService) send(ctx context.Context, to, subject, body string) error {
	// Without an SMTP host configured mail goes to the log. Development
	// and test setups rely on this.
	if s.config.Host == "" {
		s.logger.WithContext(ctx).WithFields(map[string]interface{}{
			"to":      to,
			"subject": subject,
		}).Info("Email delivery skipped, no SMTP host configured")
		return nil
	}

	from := s.config.FromEmail
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", s.config.FromName, from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg)); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"to":      to,
		"subject": subject,
	}).Info("Email sent")
	return nil
}

func firstName(name string) string {
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}
