package notifier

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"
)

// EmailNotifier sends messages over SMTP. Scan messages are composed for
// Telegram's HTML parse mode, so the markup is stripped before sending.
type EmailNotifier struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	Subject  string
}

// NewEmailNotifier creates an SMTP notifier. Authentication is skipped when
// username is empty, for relays on trusted networks.
func NewEmailNotifier(host string, port int, username, password, from string, to []string, subject string) *EmailNotifier {
	if subject == "" {
		subject = "Impulse scan"
	}
	return &EmailNotifier{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		To:       to,
		Subject:  subject,
	}
}

func (e *EmailNotifier) Name() string { return "email" }

// Send delivers the message in a single attempt.
func (e *EmailNotifier) Send(text string) error {
	addr := fmt.Sprintf("%s:%d", e.Host, e.Port)
	var auth smtp.Auth
	if e.Username != "" {
		auth = smtp.PlainAuth("", e.Username, e.Password, e.Host)
	}
	if err := smtp.SendMail(addr, auth, e.From, e.To, e.buildMessage(text)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (e *EmailNotifier) buildMessage(text string) []byte {
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", e.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(e.To, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", e.Subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(stripHTML(text))
	msg.WriteString("\r\n")
	return msg.Bytes()
}

// stripHTML removes the small tag set the formatter emits.
func stripHTML(s string) string {
	r := strings.NewReplacer(
		"<b>", "", "</b>", "",
		"<i>", "", "</i>", "",
		"<code>", "", "</code>", "",
	)
	return r.Replace(s)
}
