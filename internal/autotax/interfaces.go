package autotax

import (
	"context"

	"github.com/stripe/stripe-go/v82"
)

//go:generate mockgen -destination=../mocks/autotax_mocks.go -package=mocks github.com/mozilla/fxa-autotax/internal/autotax SubscriptionStore,BillingClient

// SubscriptionStore pages through mirrored subscriptions ordered by id.
type SubscriptionStore interface {
	// FetchBatch returns up to limit subscriptions whose id sorts strictly
	// after afterID, or from the start when afterID is empty. An empty
	// result means there is nothing left.
	FetchBatch(ctx context.Context, afterID string, limit int) ([]Subscription, error)
}

// BillingClient is the part of the Stripe API the converter calls.
type BillingClient interface {
	// RetrieveCustomer fetches a customer with tax details expanded. It
	// returns nil when the customer does not exist or was deleted.
	RetrieveCustomer(ctx context.Context, customerID string) (*stripe.Customer, error)
	// UpdateCustomerTax sets the customer's tax IP address. An empty
	// ipAddress leaves it unset.
	UpdateCustomerTax(ctx context.Context, customerID string, ipAddress string) (*stripe.Customer, error)
	// EnableSubscriptionAutomaticTax turns on automatic tax for a subscription.
	EnableSubscriptionAutomaticTax(ctx context.Context, subscriptionID string) error
	// RetrieveProduct fetches a product.
	RetrieveProduct(ctx context.Context, productID string) (*stripe.Product, error)
	// PreviewInvoice computes the upcoming invoice of a subscription. With
	// enableAutomaticTax set, the preview is computed as if automatic tax
	// were already on, without changing the subscription.
	PreviewInvoice(ctx context.Context, subscriptionID string, enableAutomaticTax bool) (*InvoicePreview, error)
}
