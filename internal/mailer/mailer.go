// Package mailer delivers rendered emails.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"

	"claimcountdown.app/server/common/logger"
)

var ErrSendTimeout = errors.New("mail send timed out")

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer sends one message. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return NewResendMailerWithClient(resend.NewClient(apiKey), from)
}

func NewResendMailerWithClient(client *resend.Client, from string) *ResendMailer {
	return &ResendMailer{client: client, from: from}
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("sending via resend: %w", err)
	}

	slog.DebugContext(ctx, "email accepted by resend",
		"message_id", sent.Id,
		"to", logger.MaskEmail(msg.To))
	return nil
}

// LogMailer logs messages instead of sending them. Used when no mail provider
// is configured.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	slog.InfoContext(ctx, "email not sent, no mail provider configured",
		"to", logger.MaskEmail(msg.To),
		"subject", msg.Subject)
	return nil
}

// WithTimeout bounds every send. It returns once the timeout elapses even if
// the wrapped mailer ignores context cancellation.
func WithTimeout(next Mailer, timeout time.Duration) Mailer {
	if timeout <= 0 {
		return next
	}
	return &timeoutMailer{next: next, timeout: timeout}
}

type timeoutMailer struct {
	next    Mailer
	timeout time.Duration
}

func (m *timeoutMailer) Send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- m.next.Send(ctx, msg)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrSendTimeout, m.timeout)
		}
		return ctx.Err()
	}
}
