package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/tacmedikal/fieldtrack-api/pkg/logger"
)

// Sender delivers transactional mail. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a Sender backed by an SMTP server.
func NewSMTPSender(cfg Config) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpSender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type logSender struct {
	logger *logger.Logger
}

// NewLogSender creates a Sender that only logs, for local development.
func NewLogSender(log *logger.Logger) Sender {
	return &logSender{logger: log}
}

func (s *logSender) Send(to, subject, _ string) error {
	s.logger.Info("email suppressed", "to", to, "subject", subject)
	return nil
}
