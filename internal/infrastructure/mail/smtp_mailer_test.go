package mail

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/pkg/config"
)

func TestSend_ComponeCorreoConAdjunto(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{Host: "smtp.local", Port: 587, User: "tienda@libreria.es", Password: "x"})
	var sent *email.Email
	var addr string
	m.send = func(e *email.Email, a string, _ smtp.Auth) error {
		sent, addr = e, a
		return nil
	}

	err := m.Send(context.Background(), ports.MailMessage{
		To: []string{"ana@example.com"}, Subject: "Factura F2026-00001", Text: "Adjunta", HTML: "<p>Adjunta</p>",
		Attachments: []ports.Attachment{{Filename: "factura.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.4")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "smtp.local:587", addr)
	assert.Equal(t, "tienda@libreria.es", sent.From)
	assert.Equal(t, []string{"ana@example.com"}, sent.To)
	require.Len(t, sent.Attachments, 1)
	assert.Equal(t, "factura.pdf", sent.Attachments[0].Filename)
}

func TestSend_Errores(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{Host: "smtp.local", Port: 25, From: "no-reply@libreria.es"})
	m.send = func(*email.Email, string, smtp.Auth) error { return errors.New("conexión rechazada") }

	assert.Error(t, m.Send(context.Background(), ports.MailMessage{Subject: "sin destinatario"}))
	assert.Error(t, m.Send(context.Background(), ports.MailMessage{To: []string{"a@b.es"}}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, ports.MailMessage{To: []string{"a@b.es"}}), context.Canceled)
}
