package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/go-mail/mail/v2"
)

//go:embed "templates"
var templateFS embed.FS

type Mailer interface {
	Send(recipient, templateFile string, data any) error
}

// SMTPMailer renders templates/<templateFile> and delivers it over SMTP. Each
// template defines "subject", "plainBody" and "htmlBody".
type SMTPMailer struct {
	dialer *mail.Dialer
	sender string
}

func NewSMTPMailer(host string, port int, username, password, sender string) *SMTPMailer {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second

	return &SMTPMailer{
		dialer: dialer,
		sender: sender,
	}
}

func (m *SMTPMailer) Send(recipient, templateFile string, data any) error {
	msg, err := render(templateFile, data)
	if err != nil {
		return err
	}

	message := mail.NewMessage()
	message.SetHeader("To", recipient)
	message.SetHeader("From", m.sender)
	message.SetHeader("Subject", msg.subject)
	message.SetBody("text/plain", msg.plainBody)
	message.AddAlternative("text/html", msg.htmlBody)

	for i := 1; i <= 3; i++ {
		err = m.dialer.DialAndSend(message)
		if err == nil {
			return nil
		}

		time.Sleep(500 * time.Millisecond)
	}

	return fmt.Errorf("failed to send %s to %s: %w", templateFile, recipient, err)
}

type renderedMessage struct {
	subject   string
	plainBody string
	htmlBody  string
}

func render(templateFile string, data any) (*renderedMessage, error) {
	tmpl, err := template.New("email").ParseFS(templateFS, "templates/"+templateFile)
	if err != nil {
		return nil, err
	}

	var msg renderedMessage

	parts := []struct {
		name string
		dst  *string
	}{
		{"subject", &msg.subject},
		{"plainBody", &msg.plainBody},
		{"htmlBody", &msg.htmlBody},
	}

	for _, p := range parts {
		buf := new(bytes.Buffer)
		if err := tmpl.ExecuteTemplate(buf, p.name, data); err != nil {
			return nil, err
		}

		*p.dst = buf.String()
	}

	return &msg, nil
}
