package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/suryard0605/medtrack/internal"
)

const twilioBaseURL = "https://api.twilio.com/2010-04-01"

// TwilioNotifier sends SMS through the Twilio REST API. Stored phone numbers
// without a country code get the configured prefix prepended.
type TwilioNotifier struct {
	client      *resty.Client
	sid         string
	from        string
	phonePrefix string
	logger      internal.Logger
}

func NewTwilioNotifier(sid, authToken, from, phonePrefix string, logger internal.Logger) *TwilioNotifier {
	client := resty.New().SetBaseURL(twilioBaseURL).SetBasicAuth(sid, authToken)
	return &TwilioNotifier{
		client:      client,
		sid:         sid,
		from:        from,
		phonePrefix: phonePrefix,
		logger:      logger,
	}
}

func (n *TwilioNotifier) SendEmail(ctx context.Context, to []string, subject, body string) error {
	return fmt.Errorf("notify: twilio sender cannot deliver email")
}

func (n *TwilioNotifier) SendSMS(ctx context.Context, phone, message string) error {
	if !strings.HasPrefix(phone, "+") {
		phone = n.phonePrefix + phone
	}
	resp, err := n.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"To":   phone,
			"From": n.from,
			"Body": message,
		}).
		Post(fmt.Sprintf("/Accounts/%s/Messages.json", n.sid))
	if err != nil {
		n.logger.Errorf("notify: SMS to %s failed: %v", phone, err)
		return err
	}
	if resp.IsError() {
		n.logger.Errorf("notify: SMS to %s rejected with status %d", phone, resp.StatusCode())
		return fmt.Errorf("notify: twilio returned %d", resp.StatusCode())
	}
	n.logger.Infof("notify: SMS sent to %s", phone)
	return nil
}

var _ Notifier = (*TwilioNotifier)(nil)
