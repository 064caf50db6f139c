package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/barracks/account-service/internal/core/ports"
)

// Config holds the SMTP relay settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPSender delivers mail through a plain-auth SMTP relay.
type SMTPSender struct {
	cfg Config
}

func NewSMTPSender(cfg Config) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send delivers one message synchronously. Callers that must not block
// should go through the queue dispatcher instead of calling this directly.
func (s *SMTPSender) Send(_ context.Context, msg ports.MailMessage) error {
	body := msg.HTMLBody
	contentType := "text/html; charset=\"UTF-8\""
	if body == "" {
		body = msg.TextBody
		contentType = "text/plain; charset=\"UTF-8\""
	}

	raw := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: %s\r\n\r\n%s",
		s.cfg.From, msg.To, msg.Subject, contentType, body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{msg.To}, []byte(raw)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
