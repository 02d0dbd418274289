// Package notify posts donation notifications to the chat webhook.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/dustin/go-humanize"
)

// requestTimeout bounds every webhook POST; there are no retries.
const requestTimeout = 60 * time.Second

type payload struct {
	Date      string `json:"date"`
	Amount    string `json:"amount"`
	Frequency string `json:"frequency"`
}

func New(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: requestTimeout},
	}
}

// Notifier posts one JSON message per donation to the configured webhook.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

// Notify posts the donation to the webhook. The amount is rendered with
// thousands separators and the 円 unit, matching the mail it came from.
func (n *Notifier) Notify(ctx context.Context, date string, amount int, frequency string) error {
	body := payload{
		Date:      date,
		Amount:    humanize.Comma(int64(amount)) + "円",
		Frequency: frequency,
	}

	err := requests.
		URL(n.webhookURL).
		Client(n.client).
		BodyJSON(&body).
		Post().
		Fetch(ctx)
	if err != nil {
		return fmt.Errorf("webhook POST failed: %w", err)
	}

	return nil
}
