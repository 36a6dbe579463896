package mail

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/spec-kit/contacts-service/internal/config"
)

// Message is a rendered outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers notification email. Delivery is best-effort; callers log
// and swallow failures.
type Mailer interface {
	Send(msg Message) error
}

// NewMailer returns an SMTP mailer when mail is configured and a log-only
// mailer otherwise.
func NewMailer(cfg config.MailConfig, logger *zap.Logger) Mailer {
	if !cfg.Enabled() {
		logger.Warn("MAIL_SERVER not configured; outbound email will be logged only")
		return &logMailer{logger: logger}
	}
	return &smtpMailer{cfg: cfg}
}

type smtpMailer struct {
	cfg config.MailConfig
}

func (m *smtpMailer) Send(msg Message) error {
	addr := m.cfg.Host + ":" + m.cfg.Port
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	payload := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s\r\n",
		m.cfg.From, msg.To, msg.Subject, msg.Body)

	return smtp.SendMail(addr, auth, m.cfg.From, []string{msg.To}, []byte(payload))
}

type logMailer struct {
	logger *zap.Logger
}

func (m *logMailer) Send(msg Message) error {
	m.logger.Info("email (not delivered)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
