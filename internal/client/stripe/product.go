package stripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
)

// RetrieveProduct fetches a product.
func (c *Client) RetrieveProduct(ctx context.Context, productID string) (*stripe.Product, error) {
	params := &stripe.ProductRetrieveParams{}

	var product *stripe.Product
	err := c.call(ctx, "products.retrieve", func() error {
		var err error
		product, err = c.api.Products.Retrieve(ctx, productID, params)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("stripe_client.RetrieveProduct: %w", err)
	}
	return product, nil
}
