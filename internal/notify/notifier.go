// Package notify delivers outbound reminder email and SMS. Delivery is best
// effort everywhere: a failed send is logged and dropped, never bubbled up
// into the evaluation loop.
package notify

import "context"

type Notifier interface {
	SendEmail(ctx context.Context, to []string, subject, body string) error
	SendSMS(ctx context.Context, phone, message string) error
}

// NoopNotifier is used in development and tests, where reminders should
// evaluate but not actually reach anyone.
type NoopNotifier struct{}

func (NoopNotifier) SendEmail(ctx context.Context, to []string, subject, body string) error {
	return nil
}

func (NoopNotifier) SendSMS(ctx context.Context, phone, message string) error {
	return nil
}

var _ Notifier = NoopNotifier{}
