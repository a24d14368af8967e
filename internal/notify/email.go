package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/suryard0605/medtrack/internal"
)

type SendGridNotifier struct {
	client   *sendgrid.Client
	from     *mail.Email
	fallback Notifier // SMS side, composed below
	logger   internal.Logger
}

func NewSendGridNotifier(apiKey, fromAddr string, sms Notifier, logger internal.Logger) *SendGridNotifier {
	return &SendGridNotifier{
		client:   sendgrid.NewSendClient(apiKey),
		from:     mail.NewEmail("Medicine Tracker", fromAddr),
		fallback: sms,
		logger:   logger,
	}
}

func (n *SendGridNotifier) SendEmail(ctx context.Context, to []string, subject, body string) error {
	for _, addr := range to {
		msg := mail.NewSingleEmail(n.from, subject, mail.NewEmail("", addr), body, "")
		resp, err := n.client.SendWithContext(ctx, msg)
		if err != nil {
			n.logger.Errorf("notify: email to %s failed: %v", addr, err)
			continue
		}
		if resp.StatusCode >= 300 {
			n.logger.Errorf("notify: email to %s rejected with status %d", addr, resp.StatusCode)
			continue
		}
		n.logger.Infof("notify: email sent to %s", addr)
	}
	return nil
}

func (n *SendGridNotifier) SendSMS(ctx context.Context, phone, message string) error {
	if n.fallback == nil {
		return fmt.Errorf("notify: no SMS sender configured")
	}
	return n.fallback.SendSMS(ctx, phone, message)
}

var _ Notifier = (*SendGridNotifier)(nil)
