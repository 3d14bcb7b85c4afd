package email

import (
	"fmt"
	"net/smtp"
)

// Sender delivers plain text e-mail over SMTP.
type Sender struct {
	host     string
	port     string
	from     string
	password string
}

func NewSender(host, port, from, password string) *Sender {
	return &Sender{host: host, port: port, from: from, password: password}
}

// SendEmail sends a plain text email using SMTP.
func (s *Sender) SendEmail(to, subject, body string) error {
	auth := smtp.PlainAuth("", s.from, s.password, s.host)

	err := smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{to}, BuildMessage(to, subject, body))
	if err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// BuildMessage renders the RFC 5322 message sent by SendEmail.
func BuildMessage(to, subject, body string) []byte {
	return []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" + body + "\r\n")
}
