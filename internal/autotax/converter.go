package autotax

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mozilla/fxa-autotax/internal/constants"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

// DefaultBatchSize is the number of subscriptions fetched per page.
const DefaultBatchSize = 100

// ConverterConfig holds the construction parameters of a converter.
type ConverterConfig struct {
	DryRun       bool
	BatchSize    int
	IPAddressMap IPAddressMap
	// Now overrides the clock used for the notice period check.
	Now func() time.Time
}

// RunStats summarizes a conversion run. Reported counts report rows
// written; Converted counts only subscriptions actually changed in Stripe,
// so it stays zero on a dry run.
type RunStats struct {
	Batches   int
	Fetched   int
	Eligible  int
	Reported  int
	Converted int
	Skipped   int
}

// StripeAutomaticTaxConverter moves eligible subscriptions to Stripe
// automatic tax and reports the effect on their next invoice.
type StripeAutomaticTaxConverter struct {
	logger       *zap.Logger
	log          *zap.Logger
	helpers      *Helpers
	store        SubscriptionStore
	billing      BillingClient
	report       ReportSink
	dryRun       bool
	batchSize    int
	ipAddressMap IPAddressMap
	stats        RunStats
}

// NewStripeAutomaticTaxConverter creates a converter.
func NewStripeAutomaticTaxConverter(
	logger *zap.Logger,
	store SubscriptionStore,
	billing BillingClient,
	report ReportSink,
	config ConverterConfig,
) *StripeAutomaticTaxConverter {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.IPAddressMap == nil {
		config.IPAddressMap = IPAddressMap{}
	}
	helpers := NewHelpers()
	if config.Now != nil {
		helpers = NewHelpersWithClock(config.Now)
	}

	return &StripeAutomaticTaxConverter{
		logger:       logger,
		log:          logger,
		helpers:      helpers,
		store:        store,
		billing:      billing,
		report:       report,
		dryRun:       config.DryRun,
		batchSize:    config.BatchSize,
		ipAddressMap: config.IPAddressMap,
	}
}

// Convert pages through every subscription, converting and reporting the
// eligible ones one at a time. The first error aborts the run; re-running is
// safe since converted subscriptions are no longer eligible.
func (c *StripeAutomaticTaxConverter) Convert(ctx context.Context) (RunStats, error) {
	c.stats = RunStats{}
	c.log = c.logger.With(zap.String("run_id", uuid.NewString()))
	c.log.Info("Starting Stripe automatic tax conversion",
		zap.Bool("dry_run", c.dryRun),
		zap.Int("batch_size", c.batchSize),
	)

	startAfter := ""
	for {
		subscriptions, err := c.FetchSubsBatch(ctx, startAfter)
		if err != nil {
			return c.stats, err
		}
		if len(subscriptions) == 0 {
			break
		}

		c.stats.Batches++
		c.stats.Fetched += len(subscriptions)
		startAfter = subscriptions[len(subscriptions)-1].ID

		eligible := c.helpers.FilterEligibleSubscriptions(subscriptions)
		c.stats.Eligible += len(eligible)
		c.log.Debug("Fetched subscription batch",
			zap.Int("fetched", len(subscriptions)),
			zap.Int("eligible", len(eligible)),
			zap.String("cursor", startAfter),
		)

		for _, sub := range eligible {
			if err := c.GenerateReportForSubscription(ctx, sub); err != nil {
				return c.stats, err
			}
		}
	}

	if err := c.report.Flush(); err != nil {
		return c.stats, err
	}

	c.log.Info("Stripe automatic tax conversion finished",
		zap.Int("batches", c.stats.Batches),
		zap.Int("fetched", c.stats.Fetched),
		zap.Int("eligible", c.stats.Eligible),
		zap.Int("reported", c.stats.Reported),
		zap.Int("converted", c.stats.Converted),
		zap.Int("skipped", c.stats.Skipped),
	)
	return c.stats, nil
}

// FetchSubsBatch fetches the next page of subscriptions after startAfter.
func (c *StripeAutomaticTaxConverter) FetchSubsBatch(ctx context.Context, startAfter string) ([]Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	subscriptions, err := c.store.FetchBatch(ctx, startAfter, c.batchSize)
	if err != nil {
		return nil, fmt.Errorf("fetch subscriptions after %q: %w", startAfter, err)
	}
	return subscriptions, nil
}

// GenerateReportForSubscription converts a single subscription and writes its
// report row. Missing or untaxable customers are skipped silently.
func (c *StripeAutomaticTaxConverter) GenerateReportForSubscription(ctx context.Context, sub Subscription) error {
	customer, err := c.FetchCustomer(ctx, sub.Customer)
	if err != nil {
		return err
	}
	if customer == nil {
		c.stats.Skipped++
		return nil
	}

	if !c.dryRun {
		taxable, err := c.EnableTaxForCustomer(ctx, customer)
		if err != nil {
			return err
		}
		if !taxable {
			c.stats.Skipped++
			return nil
		}

		if err := c.EnableTaxForSubscription(ctx, sub.ID); err != nil {
			return err
		}
	}

	product, err := c.billing.RetrieveProduct(ctx, sub.Plan.Product)
	if err != nil {
		return fmt.Errorf("retrieve product %s: %w", sub.Plan.Product, err)
	}

	preview, err := c.FetchInvoicePreview(ctx, sub.ID)
	if err != nil {
		return err
	}

	row := c.BuildReport(customer, sub, product, sub.Plan, preview)
	c.log.Info("report:", zap.Strings("report", row))

	if err := c.report.Write(row); err != nil {
		return err
	}
	c.stats.Reported++
	if !c.dryRun {
		c.stats.Converted++
	}
	return nil
}

// FetchCustomer retrieves a customer with tax details, or nil when it is gone.
func (c *StripeAutomaticTaxConverter) FetchCustomer(ctx context.Context, customerID string) (*stripe.Customer, error) {
	customer, err := c.billing.RetrieveCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("retrieve customer %s: %w", customerID, err)
	}
	if customer == nil || customer.Deleted {
		return nil, nil
	}
	return customer, nil
}

// EnableTaxForCustomer makes the customer taxable, using their last known IP
// address to place them. It returns whether Stripe now considers the customer
// taxable; false means the subscription must be left alone.
func (c *StripeAutomaticTaxConverter) EnableTaxForCustomer(ctx context.Context, customer *stripe.Customer) (bool, error) {
	if c.helpers.IsTaxEligible(customer) {
		return true, nil
	}

	ipAddress := c.ipAddressMap.Lookup(customer.Metadata[constants.UserIDMetadataKey])
	if _, err := c.billing.UpdateCustomerTax(ctx, customer.ID, ipAddress); err != nil {
		return false, fmt.Errorf("update tax for customer %s: %w", customer.ID, err)
	}

	updated, err := c.FetchCustomer(ctx, customer.ID)
	if err != nil {
		return false, err
	}
	return c.helpers.IsTaxEligible(updated), nil
}

// EnableTaxForSubscription turns on automatic tax for the subscription.
func (c *StripeAutomaticTaxConverter) EnableTaxForSubscription(ctx context.Context, subscriptionID string) error {
	if err := c.billing.EnableSubscriptionAutomaticTax(ctx, subscriptionID); err != nil {
		return fmt.Errorf("enable automatic tax for subscription %s: %w", subscriptionID, err)
	}
	return nil
}

// FetchInvoicePreview fetches the upcoming invoice for the subscription. On a
// dry run automatic tax is not on yet, so the preview asks Stripe to apply it.
func (c *StripeAutomaticTaxConverter) FetchInvoicePreview(ctx context.Context, subscriptionID string) (*InvoicePreview, error) {
	preview, err := c.billing.PreviewInvoice(ctx, subscriptionID, c.dryRun)
	if err != nil {
		return nil, fmt.Errorf("preview invoice for subscription %s: %w", subscriptionID, err)
	}
	return preview, nil
}
