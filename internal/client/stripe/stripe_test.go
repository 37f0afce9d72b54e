package stripe

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/mozilla/fxa-autotax/internal/autotax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeCustomers struct {
	retrieveErrs  []error
	customer      *stripe.Customer
	retrieveCalls int
	updateParams  *stripe.CustomerUpdateParams
	updateErr     error
}

func (f *fakeCustomers) Retrieve(ctx context.Context, id string, params *stripe.CustomerRetrieveParams) (*stripe.Customer, error) {
	f.retrieveCalls++
	if len(f.retrieveErrs) > 0 {
		err := f.retrieveErrs[0]
		f.retrieveErrs = f.retrieveErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.customer, nil
}

func (f *fakeCustomers) Update(ctx context.Context, id string, params *stripe.CustomerUpdateParams) (*stripe.Customer, error) {
	f.updateParams = params
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.customer, nil
}

type fakeSubscriptions struct {
	id     string
	params *stripe.SubscriptionUpdateParams
	err    error
}

func (f *fakeSubscriptions) Update(ctx context.Context, id string, params *stripe.SubscriptionUpdateParams) (*stripe.Subscription, error) {
	f.id = id
	f.params = params
	return &stripe.Subscription{ID: id}, f.err
}

type fakeProducts struct{}

func (fakeProducts) Retrieve(ctx context.Context, id string, params *stripe.ProductRetrieveParams) (*stripe.Product, error) {
	return &stripe.Product{ID: id, Name: "123Done Pro"}, nil
}

type fakeInvoices struct {
	params  *stripe.InvoiceCreatePreviewParams
	invoice *stripe.Invoice
}

func (f *fakeInvoices) CreatePreview(ctx context.Context, params *stripe.InvoiceCreatePreviewParams) (*stripe.Invoice, error) {
	f.params = params
	return f.invoice, nil
}

type fakeTaxRates struct {
	names map[string]string
	calls int
}

func (f *fakeTaxRates) Retrieve(ctx context.Context, id string, params *stripe.TaxRateRetrieveParams) (*stripe.TaxRate, error) {
	f.calls++
	name, ok := f.names[id]
	if !ok {
		return nil, &stripe.Error{HTTPStatusCode: http.StatusNotFound, Code: stripe.ErrorCodeResourceMissing}
	}
	return &stripe.TaxRate{ID: id, DisplayName: name}, nil
}

func testConfig() Config {
	return Config{
		Retry: RetryConfig{
			MaxRetries:      2,
			InitialInterval: time.Millisecond,
			MaxInterval:     time.Millisecond,
			Multiplier:      1,
			MaxElapsedTime:  time.Second,
		},
	}
}

func newTestClient(api API) *Client {
	return NewClientWithAPI(zap.NewNop(), api, testConfig())
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(zap.NewNop(), Config{})
	assert.Error(t, err)

	client, err := NewClient(zap.NewNop(), DefaultConfig("sk_test_123"))
	require.NoError(t, err)
	assert.NotNil(t, client.api.Customers)
	assert.NotNil(t, client.api.Invoices)
}

func TestClient_RetrieveCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the customer", func(t *testing.T) {
		customers := &fakeCustomers{customer: &stripe.Customer{ID: "cus_1"}}
		got, err := newTestClient(API{Customers: customers}).RetrieveCustomer(ctx, "cus_1")
		require.NoError(t, err)
		assert.Equal(t, "cus_1", got.ID)
	})

	t.Run("deleted customers are absent", func(t *testing.T) {
		customers := &fakeCustomers{customer: &stripe.Customer{ID: "cus_1", Deleted: true}}
		got, err := newTestClient(API{Customers: customers}).RetrieveCustomer(ctx, "cus_1")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("missing customers are absent and skipped silently", func(t *testing.T) {
		customers := &fakeCustomers{retrieveErrs: []error{
			&stripe.Error{HTTPStatusCode: http.StatusNotFound, Code: stripe.ErrorCodeResourceMissing},
		}}
		core, logs := observer.New(zap.DebugLevel)
		client := NewClientWithAPI(zap.New(core), API{Customers: customers}, testConfig())

		got, err := client.RetrieveCustomer(ctx, "cus_1")
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Equal(t, 1, customers.retrieveCalls)
		assert.Zero(t, logs.Len())
	})

	t.Run("retries rate limited requests", func(t *testing.T) {
		customers := &fakeCustomers{
			customer: &stripe.Customer{ID: "cus_1"},
			retrieveErrs: []error{
				&stripe.Error{HTTPStatusCode: http.StatusTooManyRequests},
				&stripe.Error{HTTPStatusCode: http.StatusBadGateway},
			},
		}
		got, err := newTestClient(API{Customers: customers}).RetrieveCustomer(ctx, "cus_1")
		require.NoError(t, err)
		assert.Equal(t, "cus_1", got.ID)
		assert.Equal(t, 3, customers.retrieveCalls)
	})

	t.Run("gives up after the configured retries", func(t *testing.T) {
		unavailable := &stripe.Error{HTTPStatusCode: http.StatusServiceUnavailable}
		customers := &fakeCustomers{retrieveErrs: []error{unavailable, unavailable, unavailable, unavailable}}
		_, err := newTestClient(API{Customers: customers}).RetrieveCustomer(ctx, "cus_1")
		require.Error(t, err)
		assert.Equal(t, 3, customers.retrieveCalls)
	})

	t.Run("does not retry invalid requests", func(t *testing.T) {
		invalid := &stripe.Error{HTTPStatusCode: http.StatusBadRequest, Type: stripe.ErrorTypeInvalidRequest}
		customers := &fakeCustomers{retrieveErrs: []error{invalid}}
		_, err := newTestClient(API{Customers: customers}).RetrieveCustomer(ctx, "cus_1")
		require.Error(t, err)
		assert.ErrorIs(t, err, invalid)
		assert.Equal(t, 1, customers.retrieveCalls)
	})
}

func TestClient_UpdateCustomerTax(t *testing.T) {
	ctx := context.Background()

	t.Run("sends the IP address", func(t *testing.T) {
		customers := &fakeCustomers{customer: &stripe.Customer{ID: "cus_1"}}
		_, err := newTestClient(API{Customers: customers}).UpdateCustomerTax(ctx, "cus_1", "203.0.113.7")
		require.NoError(t, err)
		require.NotNil(t, customers.updateParams.Tax)
		assert.Equal(t, "203.0.113.7", *customers.updateParams.Tax.IPAddress)
	})

	t.Run("omits an unknown IP address", func(t *testing.T) {
		customers := &fakeCustomers{customer: &stripe.Customer{ID: "cus_1"}}
		_, err := newTestClient(API{Customers: customers}).UpdateCustomerTax(ctx, "cus_1", "")
		require.NoError(t, err)
		require.NotNil(t, customers.updateParams.Tax)
		assert.Nil(t, customers.updateParams.Tax.IPAddress)
	})

	t.Run("wraps errors", func(t *testing.T) {
		customers := &fakeCustomers{updateErr: &stripe.Error{HTTPStatusCode: http.StatusBadRequest}}
		_, err := newTestClient(API{Customers: customers}).UpdateCustomerTax(ctx, "cus_1", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stripe_client.UpdateCustomerTax")
	})
}

func TestClient_EnableSubscriptionAutomaticTax(t *testing.T) {
	subscriptions := &fakeSubscriptions{}
	err := newTestClient(API{Subscriptions: subscriptions}).EnableSubscriptionAutomaticTax(context.Background(), "sub_1")
	require.NoError(t, err)

	assert.Equal(t, "sub_1", subscriptions.id)
	require.NotNil(t, subscriptions.params.AutomaticTax)
	assert.True(t, *subscriptions.params.AutomaticTax.Enabled)
}

func TestClient_RetrieveProduct(t *testing.T) {
	product, err := newTestClient(API{Products: fakeProducts{}}).RetrieveProduct(context.Background(), "prod_1")
	require.NoError(t, err)
	assert.Equal(t, "prod_1", product.ID)
}

func TestClient_PreviewInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("maps totals and resolves tax rate display names once", func(t *testing.T) {
		invoices := &fakeInvoices{invoice: &stripe.Invoice{
			TotalExcludingTax: 1000,
			Total:             1150,
			TotalTaxes: []*stripe.InvoiceTotalTax{
				{Amount: 50, TaxRateDetails: &stripe.InvoiceTotalTaxTaxRateDetails{TaxRate: "txr_gst"}},
				{Amount: 100, TaxRateDetails: &stripe.InvoiceTotalTaxTaxRateDetails{TaxRate: "txr_qst"}},
				{Amount: 0, TaxRateDetails: &stripe.InvoiceTotalTaxTaxRateDetails{TaxRate: "txr_gst"}},
				nil,
			},
		}}
		taxRates := &fakeTaxRates{names: map[string]string{"txr_gst": "GST", "txr_qst": "QST"}}

		preview, err := newTestClient(API{Invoices: invoices, TaxRates: taxRates}).PreviewInvoice(ctx, "sub_1", false)
		require.NoError(t, err)

		assert.Equal(t, "sub_1", *invoices.params.Subscription)
		assert.Nil(t, invoices.params.AutomaticTax)
		assert.Equal(t, &autotax.InvoicePreview{
			TotalExcludingTax: 1000,
			Tax:               150,
			Total:             1150,
			TaxAmounts: []autotax.TaxAmount{
				{Amount: 50, DisplayName: "GST"},
				{Amount: 100, DisplayName: "QST"},
				{Amount: 0, DisplayName: "GST"},
			},
		}, preview)
		assert.Equal(t, 2, taxRates.calls)
	})

	t.Run("previews with automatic tax when asked to", func(t *testing.T) {
		invoices := &fakeInvoices{invoice: &stripe.Invoice{TotalExcludingTax: 1000, Total: 1000}}

		_, err := newTestClient(API{Invoices: invoices, TaxRates: &fakeTaxRates{}}).PreviewInvoice(ctx, "sub_1", true)
		require.NoError(t, err)
		require.NotNil(t, invoices.params.AutomaticTax)
		assert.True(t, *invoices.params.AutomaticTax.Enabled)
	})

	t.Run("untaxed invoices have no tax lines", func(t *testing.T) {
		invoices := &fakeInvoices{invoice: &stripe.Invoice{TotalExcludingTax: 1000, Total: 1000}}

		preview, err := newTestClient(API{Invoices: invoices, TaxRates: &fakeTaxRates{}}).PreviewInvoice(ctx, "sub_1", false)
		require.NoError(t, err)
		assert.Zero(t, preview.Tax)
		assert.Empty(t, preview.TaxAmounts)
	})

	t.Run("tax rate lookup failures propagate", func(t *testing.T) {
		invoices := &fakeInvoices{invoice: &stripe.Invoice{
			TotalTaxes: []*stripe.InvoiceTotalTax{
				{Amount: 50, TaxRateDetails: &stripe.InvoiceTotalTaxTaxRateDetails{TaxRate: "txr_missing"}},
			},
		}}

		_, err := newTestClient(API{Invoices: invoices, TaxRates: &fakeTaxRates{}}).PreviewInvoice(ctx, "sub_1", false)
		assert.Error(t, err)
	})
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "rate limited", err: &stripe.Error{HTTPStatusCode: http.StatusTooManyRequests}, want: true},
		{name: "lock timeout", err: &stripe.Error{HTTPStatusCode: http.StatusConflict}, want: true},
		{name: "server error", err: &stripe.Error{HTTPStatusCode: http.StatusInternalServerError}, want: true},
		{name: "invalid request", err: &stripe.Error{HTTPStatusCode: http.StatusBadRequest}, want: false},
		{name: "not found", err: &stripe.Error{HTTPStatusCode: http.StatusNotFound}, want: false},
		{name: "transport failure", err: errors.New("connection reset by peer"), want: true},
		{name: "cancelled", err: context.Canceled, want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryable(tt.err))
		})
	}
}

func TestClient_CallStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	customers := &fakeCustomers{customer: &stripe.Customer{ID: "cus_1"}}
	client := NewClientWithAPI(zap.NewNop(), API{Customers: customers}, Config{RequestsPerSecond: 1, Burst: 1, Retry: testConfig().Retry})
	_, err := client.RetrieveCustomer(ctx, "cus_1")
	require.Error(t, err)
	assert.Zero(t, customers.retrieveCalls)
}
