package utils

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"gopkg.in/gomail.v2"
)

// Mailer sends notification mail through the office SMTP relay.
// A nil Mailer is safe to call and drops messages, mirroring how the
// Redis helpers behave before their client is connected.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewMailerFromEnv builds a Mailer from EMAIL_HOST / EMAIL_PORT /
// EMAIL_HOST_USER / EMAIL_HOST_PASSWORD. Returns nil when the host user is
// unset so local development runs without a relay.
func NewMailerFromEnv() *Mailer {
	username := strings.TrimSpace(os.Getenv("EMAIL_HOST_USER"))
	if username == "" {
		return nil
	}

	host := strings.TrimSpace(os.Getenv("EMAIL_HOST"))
	if host == "" {
		host = "smtp.gmail.com"
	}
	port, err := strconv.Atoi(os.Getenv("EMAIL_PORT"))
	if err != nil {
		port = 587
	}

	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: os.Getenv("EMAIL_HOST_PASSWORD"),
		from:     username,
	}
}

func (m *Mailer) Send(to []string, subject string, body string) error {
	if m == nil {
		return nil
	}
	if len(to) == 0 {
		return errors.New("no recipients")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)
	return dialer.DialAndSend(msg)
}
