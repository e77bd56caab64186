// Package email sends case notification emails through SendGrid and fans a
// batch of notices out concurrently.
package email

import (
	"fmt"
	"os"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Notice is one email to be delivered to one recipient.
type Notice struct {
	ToName   string
	ToEmail  string
	Subject  string
	HTMLBody string
	Plain    string
}

// Sender delivers a single notice. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(notice Notice) error
}

// SendGridSender delivers notices through the SendGrid v3 API.
type SendGridSender struct {
	FromName  string
	FromEmail string
	APIKey    string
}

// NewSendGridSender reads SENDGRID_API_KEY and MAIL_FROM from the
// environment.
func NewSendGridSender() *SendGridSender {
	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "alerts@findhope.app"
	}
	return &SendGridSender{
		FromName:  "FindHope Alerts",
		FromEmail: from,
		APIKey:    os.Getenv("SENDGRID_API_KEY"),
	}
}

// Send delivers one notice. A non-2xx SendGrid response counts as a failure.
func (s *SendGridSender) Send(notice Notice) error {
	from := mail.NewEmail(s.FromName, s.FromEmail)
	to := mail.NewEmail(notice.ToName, notice.ToEmail)
	message := mail.NewSingleEmail(from, notice.Subject, to, notice.Plain, notice.HTMLBody)

	client := sendgrid.NewSendClient(s.APIKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

// Dispatcher fans notices out to a Sender.
type Dispatcher struct {
	Sender Sender
}

// SendAll delivers every notice concurrently and waits for all of them. A
// failed send is logged and counted but never blocks or cancels the others;
// partial delivery is acceptable.
func (d *Dispatcher) SendAll(notices []Notice) (sent int, failed int) {
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, notice := range notices {
		wg.Add(1)
		go func(n Notice) {
			defer wg.Done()
			if err := d.Sender.Send(n); err != nil {
				zap.S().Errorw("failed to send notification email",
					"to", n.ToEmail,
					"subject", n.Subject,
					"error", err,
				)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			mu.Lock()
			sent++
			mu.Unlock()
		}(notice)
	}
	wg.Wait()
	return sent, failed
}
