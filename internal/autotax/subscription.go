package autotax

import "time"

// AutomaticTax mirrors the automatic_tax block of a Stripe subscription.
type AutomaticTax struct {
	Enabled bool `json:"enabled" firestore:"enabled"`
}

// Plan is the denormalized Stripe plan stored alongside a subscription.
type Plan struct {
	ID            string `json:"id" firestore:"id"`
	Nickname      string `json:"nickname" firestore:"nickname"`
	Interval      string `json:"interval" firestore:"interval"`
	IntervalCount int64  `json:"interval_count" firestore:"interval_count"`
	Product       string `json:"product" firestore:"product"`
}

// SubscriptionItem is a single line of a subscription.
type SubscriptionItem struct {
	ID   string `json:"id" firestore:"id"`
	Plan Plan   `json:"plan" firestore:"plan"`
}

// SubscriptionItems wraps the Stripe list object holding subscription items.
type SubscriptionItems struct {
	Data []SubscriptionItem `json:"data" firestore:"data"`
}

// Subscription is a Stripe subscription as mirrored into the document store,
// with the customer, plan and price expanded by the sync process.
type Subscription struct {
	ID                string            `json:"id" firestore:"id"`
	Customer          string            `json:"customer" firestore:"customer"`
	Status            string            `json:"status" firestore:"status"`
	CancelAt          *int64            `json:"cancel_at" firestore:"cancel_at"`
	CancelAtPeriodEnd bool              `json:"cancel_at_period_end" firestore:"cancel_at_period_end"`
	CurrentPeriodEnd  int64             `json:"current_period_end" firestore:"current_period_end"`
	AutomaticTax      AutomaticTax      `json:"automatic_tax" firestore:"automatic_tax"`
	Plan              Plan              `json:"plan" firestore:"plan"`
	Items             SubscriptionItems `json:"items" firestore:"items"`
}

// Interval returns the billing interval of the subscription's primary item,
// falling back to the denormalized plan.
func (s Subscription) Interval() string {
	if len(s.Items.Data) > 0 && s.Items.Data[0].Plan.Interval != "" {
		return s.Items.Data[0].Plan.Interval
	}
	return s.Plan.Interval
}

// RenewalDate is the end of the current period, when the subscription renews.
func (s Subscription) RenewalDate() time.Time {
	return time.Unix(s.CurrentPeriodEnd, 0).UTC()
}

// TaxAmount is one tax line of an invoice, with its tax rate's display name resolved.
type TaxAmount struct {
	Amount      int64
	DisplayName string
}

// InvoicePreview is the upcoming invoice Stripe would generate for a subscription.
type InvoicePreview struct {
	TotalExcludingTax int64
	Tax               int64
	Total             int64
	TaxAmounts        []TaxAmount
}
