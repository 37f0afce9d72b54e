package stripe

import (
	"context"
	"fmt"

	"github.com/mozilla/fxa-autotax/internal/autotax"
	"github.com/stripe/stripe-go/v82"
)

// PreviewInvoice computes the upcoming invoice of a subscription and resolves
// the display name of every tax rate applied to it.
func (c *Client) PreviewInvoice(ctx context.Context, subscriptionID string, enableAutomaticTax bool) (*autotax.InvoicePreview, error) {
	params := &stripe.InvoiceCreatePreviewParams{
		Subscription: stripe.String(subscriptionID),
	}
	if enableAutomaticTax {
		params.AutomaticTax = &stripe.InvoiceCreatePreviewAutomaticTaxParams{
			Enabled: stripe.Bool(true),
		}
	}

	var invoice *stripe.Invoice
	err := c.call(ctx, "invoices.create_preview", func() error {
		var err error
		invoice, err = c.api.Invoices.CreatePreview(ctx, params)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("stripe_client.PreviewInvoice: %w", err)
	}

	return c.mapInvoicePreview(ctx, invoice)
}

func (c *Client) mapInvoicePreview(ctx context.Context, invoice *stripe.Invoice) (*autotax.InvoicePreview, error) {
	preview := &autotax.InvoicePreview{
		TotalExcludingTax: invoice.TotalExcludingTax,
		Total:             invoice.Total,
	}

	// Tax rate ids differ between invoices, only the display name is stable.
	displayNames := map[string]string{}
	for _, tax := range invoice.TotalTaxes {
		if tax == nil {
			continue
		}
		preview.Tax += tax.Amount

		var displayName string
		if tax.TaxRateDetails != nil && tax.TaxRateDetails.TaxRate != "" {
			rateID := tax.TaxRateDetails.TaxRate
			name, ok := displayNames[rateID]
			if !ok {
				rate, err := c.retrieveTaxRate(ctx, rateID)
				if err != nil {
					return nil, err
				}
				name = rate.DisplayName
				displayNames[rateID] = name
			}
			displayName = name
		}

		preview.TaxAmounts = append(preview.TaxAmounts, autotax.TaxAmount{
			Amount:      tax.Amount,
			DisplayName: displayName,
		})
	}

	return preview, nil
}

func (c *Client) retrieveTaxRate(ctx context.Context, taxRateID string) (*stripe.TaxRate, error) {
	params := &stripe.TaxRateRetrieveParams{}

	var taxRate *stripe.TaxRate
	err := c.call(ctx, "tax_rates.retrieve", func() error {
		var err error
		taxRate, err = c.api.TaxRates.Retrieve(ctx, taxRateID, params)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("stripe_client.retrieveTaxRate: %w", err)
	}
	return taxRate, nil
}
