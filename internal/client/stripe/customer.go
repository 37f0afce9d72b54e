package stripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

// RetrieveCustomer fetches a customer with its tax details expanded.
// Missing and deleted customers yield nil without an error.
func (c *Client) RetrieveCustomer(ctx context.Context, customerID string) (*stripe.Customer, error) {
	params := &stripe.CustomerRetrieveParams{}
	params.AddExpand("tax")

	var customer *stripe.Customer
	err := c.call(ctx, "customers.retrieve", func() error {
		var err error
		customer, err = c.api.Customers.Retrieve(ctx, customerID, params)
		return err
	})
	if isResourceMissing(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stripe_client.RetrieveCustomer: %w", err)
	}
	if customer == nil || customer.Deleted {
		return nil, nil
	}
	return customer, nil
}

// UpdateCustomerTax sets the IP address Stripe uses to locate the customer
// for tax purposes. An empty address is left out of the request.
func (c *Client) UpdateCustomerTax(ctx context.Context, customerID string, ipAddress string) (*stripe.Customer, error) {
	params := &stripe.CustomerUpdateParams{
		Tax: &stripe.CustomerUpdateTaxParams{},
	}
	if ipAddress != "" {
		params.Tax.IPAddress = stripe.String(ipAddress)
	}
	params.AddExpand("tax")

	c.logger.Info("Updating Stripe customer tax settings",
		zap.String("stripe_customer_id", customerID),
		zap.Bool("has_ip_address", ipAddress != ""),
	)

	var customer *stripe.Customer
	err := c.call(ctx, "customers.update", func() error {
		var err error
		customer, err = c.api.Customers.Update(ctx, customerID, params)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("stripe_client.UpdateCustomerTax: %w", err)
	}
	return customer, nil
}
