package stripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

// EnableSubscriptionAutomaticTax turns on automatic tax for a subscription.
// Repeating the call on an already converted subscription is harmless.
func (c *Client) EnableSubscriptionAutomaticTax(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionUpdateParams{
		AutomaticTax: &stripe.SubscriptionUpdateAutomaticTaxParams{
			Enabled: stripe.Bool(true),
		},
	}

	c.logger.Info("Enabling automatic tax on Stripe subscription", zap.String("stripe_subscription_id", subscriptionID))

	err := c.call(ctx, "subscriptions.update", func() error {
		_, err := c.api.Subscriptions.Update(ctx, subscriptionID, params)
		return err
	})
	if err != nil {
		return fmt.Errorf("stripe_client.EnableSubscriptionAutomaticTax: %w", err)
	}
	return nil
}
