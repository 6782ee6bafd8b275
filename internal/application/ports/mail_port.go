package ports

import "context"

// Attachment fichero adjunto de un correo.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}

// MailMessage correo ya renderizado.
type MailMessage struct {
	To          []string     `json:"to"`
	Subject     string       `json:"subject"`
	Text        string       `json:"text"`
	HTML        string       `json:"html"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Mailer puerto de envío de correo.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}
