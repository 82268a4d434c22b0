package notify

import (
	"context"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer hatırlatma e-postalarını gönderir.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

func (m *SMTPMailer) Send(_ context.Context, to []string, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	return m.dialer.DialAndSend(msg)
}

// LogMailer SMTP tanımlı değilken e-postaları sadece loglar.
type LogMailer struct {
	Logger *zap.Logger
}

func (m LogMailer) Send(_ context.Context, to []string, subject, _ string) error {
	m.Logger.Info("e-posta (smtp kapalı)", zap.Strings("to", to), zap.String("subject", subject))
	return nil
}
