package mail

import (
	"context"
	"fmt"
	"net/mail"

	"gopkg.in/gomail.v2"
)

// SMTPConfig holds the relay settings for SMTPSender.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

// SMTPSender delivers messages through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
}

// NewSMTP creates an SMTP sender. No connection is made until Send.
func NewSMTP(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)}
}

// Name identifies the provider in logs.
func (s *SMTPSender) Name() string { return "smtp" }

// Send dials the relay and submits one message. gomail has no context
// support; cancellation is only checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := buildSMTPMessage(msg)
	if err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp %s:%d: %w", s.dialer.Host, s.dialer.Port, err)
	}
	return nil
}

func buildSMTPMessage(msg Message) (*gomail.Message, error) {
	from, err := mail.ParseAddress(msg.From)
	if err != nil {
		return nil, fmt.Errorf("parse sender %q: %w", msg.From, err)
	}

	m := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	m.SetAddressHeader("From", from.Address, from.Name)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	return m, nil
}
