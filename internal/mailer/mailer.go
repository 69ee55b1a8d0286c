package mailer

import (
	"fmt"
	"net/smtp"

	"clinic-appointment-server/internal/config"

	"github.com/google/uuid"
)

// Mailer sends HTML emails. Implementations return the provider's message
// id on success; errors are plain messages surfaced to the caller with no
// retry.
type Mailer interface {
	Send(to, subject, htmlBody string) (string, error)
}

type smtpMailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

// NewMailer creates an SMTP-backed Mailer from the application config.
func NewMailer(cfg *config.Config) Mailer {
	return &smtpMailer{
		host:     cfg.Mailer.Host,
		port:     cfg.Mailer.Port,
		from:     cfg.Mailer.DefaultFrom,
		username: cfg.Mailer.Username,
		password: cfg.Mailer.Password,
	}
}

func (m *smtpMailer) Send(to, subject, htmlBody string) (string, error) {
	messageID := uuid.New().String()
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMessage-ID: <%s@%s>\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.from, to, subject, messageID, m.host, htmlBody)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return "", err
	}
	return messageID, nil
}
