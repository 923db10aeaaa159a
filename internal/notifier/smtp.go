// Package notifier delivers outbound customer notifications. The booking
// engine only sees the domain.Notifier interface; SMTP and AMQP backends are
// picked at wiring time.
package notifier

import (
	"context"
	"time"

	"github.com/cinehall/cinehall/internal/domain"
	mail "github.com/go-mail/mail/v2"
)

// SMTPNotifier sends notifications as plain-text emails.
type SMTPNotifier struct {
	dialer *mail.Dialer
	sender string
}

func NewSMTPNotifier(host string, port int, username, password, sender string) *SMTPNotifier {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second

	return &SMTPNotifier{
		dialer: dialer,
		sender: sender,
	}
}

func (n *SMTPNotifier) Notify(ctx context.Context, recipient, subject, body string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", n.sender)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	// Two retries with a short pause smooth over transient SMTP hiccups.
	var err error
	for range 3 {
		if err = ctx.Err(); err != nil {
			break
		}
		if err = n.dialer.DialAndSend(msg); err == nil {
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}

	return &domain.NotificationError{Recipient: recipient, Err: err}
}
