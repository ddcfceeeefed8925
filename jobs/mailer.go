package jobs

import (
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPSender delivers emails over plain SMTP, pointed at a relay such as
// Mailpit in development.
type SMTPSender struct {
	Host string
	Port int
	From string
}

// Send delivers one email.
func (s SMTPSender) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	msg := strings.Join([]string{
		"From: " + s.From,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")
	if err := smtp.SendMail(addr, nil, s.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("jobs: send mail: %w", err)
	}
	return nil
}
