package autotax

import (
	"strings"
	"time"

	"github.com/mozilla/fxa-autotax/internal/constants"
	"github.com/stripe/stripe-go/v82"
)

const (
	// MonthlyNoticeDays is the minimum number of days before a monthly renewal
	// for a subscription to be moved to automatic tax.
	MonthlyNoticeDays = 14
	// YearlyNoticeDays is the minimum number of days before a 6-month or yearly
	// renewal for a subscription to be moved to automatic tax.
	YearlyNoticeDays = 30
)

// SpecialTaxAmounts are the Canadian tax components reported separately.
type SpecialTaxAmounts struct {
	HST int64
	GST int64
	PST int64
	QST int64
	RST int64
}

// Helpers holds the pure eligibility and tax helpers used by the converter.
type Helpers struct {
	now func() time.Time
}

// NewHelpers creates helpers that read the wall clock.
func NewHelpers() *Helpers {
	return NewHelpersWithClock(time.Now)
}

// NewHelpersWithClock creates helpers with a custom clock.
func NewHelpersWithClock(now func() time.Time) *Helpers {
	return &Helpers{now: now}
}

// IsTaxEligible reports whether the customer is in a location Stripe can tax.
func (h *Helpers) IsTaxEligible(customer *stripe.Customer) bool {
	return customer != nil &&
		customer.Tax != nil &&
		customer.Tax.AutomaticTax == stripe.CustomerTaxAutomaticTaxSupported
}

// FilterEligibleSubscriptions returns the subscriptions that can be moved to
// Stripe automatic tax, preserving their order.
func (h *Helpers) FilterEligibleSubscriptions(subscriptions []Subscription) []Subscription {
	eligible := make([]Subscription, 0, len(subscriptions))
	for _, sub := range subscriptions {
		if h.WillBeRenewed(sub) && h.IsStripeTaxDisabled(sub) && h.IsWithinNoticePeriod(sub) {
			eligible = append(eligible, sub)
		}
	}
	return eligible
}

// WillBeRenewed reports whether the subscription is active and not scheduled to cancel.
func (h *Helpers) WillBeRenewed(sub Subscription) bool {
	return sub.CancelAt == nil &&
		!sub.CancelAtPeriodEnd &&
		sub.Status == constants.SubscriptionStatusActive
}

// IsStripeTaxDisabled reports whether automatic tax is still off for the subscription.
func (h *Helpers) IsStripeTaxDisabled(sub Subscription) bool {
	return !sub.AutomaticTax.Enabled
}

// IsWithinNoticePeriod reports whether the subscription renews far enough in
// the future to give the customer notice: 14 days for monthly plans and 30
// days for everything else. Intervals shorter than a month are not supported.
// A renewal landing exactly on the notice boundary is not eligible.
func (h *Helpers) IsWithinNoticePeriod(sub Subscription) bool {
	noticeDays := YearlyNoticeDays
	if sub.Interval() == constants.IntervalMonth {
		noticeDays = MonthlyNoticeDays
	}

	noSoonerThan := h.now().UTC().AddDate(0, 0, noticeDays)
	return noSoonerThan.Before(sub.RenewalDate())
}

// GetSpecialTaxAmounts sums the Canadian tax components out of an invoice's
// tax lines. Automatic tax rate ids change on every invoice, so lines are
// matched on the display name. Unmatched lines are ignored.
func (h *Helpers) GetSpecialTaxAmounts(taxAmounts []TaxAmount) SpecialTaxAmounts {
	var amounts SpecialTaxAmounts

	for _, taxAmount := range taxAmounts {
		switch strings.ToLower(taxAmount.DisplayName) {
		case "hst":
			amounts.HST += taxAmount.Amount
		case "gst":
			amounts.GST += taxAmount.Amount
		case "pst":
			amounts.PST += taxAmount.Amount
		case "qst":
			amounts.QST += taxAmount.Amount
		case "rst":
			amounts.RST += taxAmount.Amount
		}
	}

	return amounts
}
