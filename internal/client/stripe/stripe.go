package stripe

import (
	"context"
	"fmt"

	"github.com/mozilla/fxa-autotax/internal/autotax"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Ensure Client implements the converter's BillingClient interface
var _ autotax.BillingClient = (*Client)(nil)

// CustomersAPI Stripe customers interface.
type CustomersAPI interface {
	Retrieve(ctx context.Context, id string, params *stripe.CustomerRetrieveParams) (*stripe.Customer, error)
	Update(ctx context.Context, id string, params *stripe.CustomerUpdateParams) (*stripe.Customer, error)
}

// SubscriptionsAPI Stripe subscriptions interface.
type SubscriptionsAPI interface {
	Update(ctx context.Context, id string, params *stripe.SubscriptionUpdateParams) (*stripe.Subscription, error)
}

// ProductsAPI Stripe products interface.
type ProductsAPI interface {
	Retrieve(ctx context.Context, id string, params *stripe.ProductRetrieveParams) (*stripe.Product, error)
}

// InvoicesAPI Stripe invoices interface.
type InvoicesAPI interface {
	CreatePreview(ctx context.Context, params *stripe.InvoiceCreatePreviewParams) (*stripe.Invoice, error)
}

// TaxRatesAPI Stripe tax rates interface.
type TaxRatesAPI interface {
	Retrieve(ctx context.Context, id string, params *stripe.TaxRateRetrieveParams) (*stripe.TaxRate, error)
}

// API groups the Stripe services the client calls.
type API struct {
	Customers     CustomersAPI
	Subscriptions SubscriptionsAPI
	Products      ProductsAPI
	Invoices      InvoicesAPI
	TaxRates      TaxRatesAPI
}

// NewAPI exposes the services of a configured stripe-go client.
func NewAPI(sc *stripe.Client) API {
	return API{
		Customers:     sc.V1Customers,
		Subscriptions: sc.V1Subscriptions,
		Products:      sc.V1Products,
		Invoices:      sc.V1Invoices,
		TaxRates:      sc.V1TaxRates,
	}
}

// Config configures the Stripe client.
type Config struct {
	APIKey string
	// RequestsPerSecond caps the request rate. Zero or less disables the limit.
	RequestsPerSecond float64
	Burst             int
	Retry             RetryConfig
}

// DefaultConfig returns a config that stays under Stripe's live mode rate limit.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:            apiKey,
		RequestsPerSecond: 25,
		Burst:             5,
		Retry:             DefaultRetryConfig(),
	}
}

// Client calls the Stripe API on behalf of the converter, pacing requests
// and retrying transient failures.
type Client struct {
	api     API
	logger  *zap.Logger
	limiter *rate.Limiter
	retry   RetryConfig
}

// NewClient creates a Stripe client from configuration.
func NewClient(logger *zap.Logger, config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("stripe API key not provided in configuration")
	}

	return NewClientWithAPI(logger, NewAPI(stripe.NewClient(config.APIKey)), config), nil
}

// NewClientWithAPI creates a client around the given Stripe services.
func NewClientWithAPI(logger *zap.Logger, api API, config Config) *Client {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if config.RequestsPerSecond > 0 {
		burst := config.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}

	return &Client{
		api:     api,
		logger:  logger,
		limiter: limiter,
		retry:   config.Retry,
	}
}
