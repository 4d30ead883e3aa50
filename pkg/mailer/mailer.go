// Package mailer delivers outgoing mail such as signup confirmation codes.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"

	"review-catalog/pkg/utils"

	"github.com/jordan-wright/email"
	"go.uber.org/zap"
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New returns an SMTP sender, or a sender that only logs when no SMTP host
// is configured.
func New(config utils.EmailConfig, log *zap.Logger) Sender {
	if config.Host == "" {
		log.Warn("SMTP_HOST is empty, outgoing mail will only be logged")
		return &LogSender{log: log.With(zap.String("mailer", "log"))}
	}
	return &SMTPSender{config: config, log: log.With(zap.String("mailer", "smtp"))}
}

type SMTPSender struct {
	config utils.EmailConfig
	log    *zap.Logger
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = s.config.From
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var auth smtp.Auth
	if s.config.User != "" {
		auth = smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	}

	tlsConfig := &tls.Config{
		ServerName: s.config.Host,
		MinVersion: tls.VersionTLS12,
	}

	var err error
	switch {
	case s.config.UseTLS && s.config.Port == 465:
		err = e.SendWithTLS(addr, auth, tlsConfig)
	case s.config.UseTLS:
		err = e.SendWithStartTLS(addr, auth, tlsConfig)
	default:
		err = e.Send(addr, auth)
	}

	if err != nil {
		s.log.Error("Failed to send mail",
			zap.Error(err),
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	s.log.Info("Mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// LogSender writes the message to the log instead of delivering it.
type LogSender struct {
	log *zap.Logger
}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.log.Info("Mail not delivered (development mode)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
