// Package mail envío de correo por SMTP.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/pkg/config"
)

var _ ports.Mailer = (*SMTPMailer)(nil)

// SMTPMailer implementa ports.Mailer con jordan-wright/email y PlainAuth.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
	send func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSMTPMailer construye el mailer; From por defecto es el usuario SMTP.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: from,
		auth: auth,
		send: func(e *email.Email, addr string, auth smtp.Auth) error { return e.Send(addr, auth) },
	}
}

// Send compone y envía el correo. El contexto solo se comprueba antes de enviar.
func (m *SMTPMailer) Send(ctx context.Context, msg ports.MailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e, err := m.build(msg)
	if err != nil {
		return err
	}
	if err := m.send(e, m.addr, m.auth); err != nil {
		return fmt.Errorf("mail: smtp %s: %w", m.addr, err)
	}
	return nil
}

func (m *SMTPMailer) build(msg ports.MailMessage) (*email.Email, error) {
	if len(msg.To) == 0 {
		return nil, errors.New("mail: sin destinatarios")
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = msg.To
	e.Subject = msg.Subject
	e.Text = []byte(msg.Text)
	if msg.HTML != "" {
		e.HTML = []byte(msg.HTML)
	}
	for _, a := range msg.Attachments {
		if _, err := e.Attach(bytes.NewReader(a.Content), a.Filename, a.ContentType); err != nil {
			return nil, fmt.Errorf("mail: adjuntar %s: %w", a.Filename, err)
		}
	}
	return e, nil
}
