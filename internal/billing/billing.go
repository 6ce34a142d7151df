// Package billing meters completed analyses against Stripe so usage-based
// plans can be invoiced. Metering is optional: without a Stripe key and a
// metered subscription item the Meter is a no-op and the relay runs free.
package billing

import (
	"log/slog"
	"time"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

// Meter reports one usage unit per completed analysis.
type Meter struct {
	api              *client.API
	subscriptionItem string
}

// NewMeter creates a meter. With an empty apiKey or subscriptionItem the
// returned meter is disabled.
func NewMeter(apiKey, subscriptionItem string) *Meter {
	if apiKey == "" || subscriptionItem == "" {
		return &Meter{}
	}

	api := &client.API{}
	api.Init(apiKey, nil)
	return &Meter{api: api, subscriptionItem: subscriptionItem}
}

// Enabled reports whether usage records will actually be sent.
func (m *Meter) Enabled() bool {
	return m.api != nil
}

// RecordAnalysis increments the metered usage for one completed analysis.
// Failures are logged, never surfaced: billing must not break analysis.
func (m *Meter) RecordAnalysis(userID, model string) {
	if !m.Enabled() {
		return
	}

	params := &stripe.UsageRecordParams{
		SubscriptionItem: stripe.String(m.subscriptionItem),
		Quantity:         stripe.Int64(1),
		Timestamp:        stripe.Int64(time.Now().Unix()),
		Action:           stripe.String(stripe.UsageRecordActionIncrement),
	}

	if _, err := m.api.UsageRecords.New(params); err != nil {
		slog.Warn("failed to record usage", "user", userID, "model", model, "error", err)
		return
	}
	slog.Debug("usage recorded", "user", userID, "model", model)
}
