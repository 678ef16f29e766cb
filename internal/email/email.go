package email

import (
	"fmt"
	"log"
	"net/smtp"
)

// Sender dispatches one transactional email. Sends are fire-and-forget from
// the caller's point of view: failures are surfaced but never retried.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends mail through a plain SMTP relay.
type SMTPSender struct {
	Host string
	Port int
	From string
	User string
	Pass string
}

func (s *SMTPSender) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	msg := []byte("From: " + s.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body + "\r\n")
	var a smtp.Auth
	if s.User != "" {
		a = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}
	return smtp.SendMail(addr, a, s.From, []string{to}, msg)
}

// LogSender logs mail instead of sending it. Used in development and when no
// SMTP relay is configured.
type LogSender struct{}

func (LogSender) Send(to, subject, body string) error {
	log.Printf("email (not sent): to=%s subject=%q body=%q", to, subject, body)
	return nil
}
