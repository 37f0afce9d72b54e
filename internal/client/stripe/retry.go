package stripe

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

// RetryConfig configures the exponential backoff applied to Stripe calls.
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	MaxElapsedTime  time.Duration
}

// DefaultRetryConfig provides sensible defaults for retries
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      5,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
		Multiplier:      2.0,
		MaxElapsedTime:  2 * time.Minute,
	}
}

// call runs op after waiting for the rate limiter, retrying retryable
// failures with exponential backoff.
func (c *Client) call(ctx context.Context, operation string, op func() error) error {
	attempt := 0
	wrapped := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		err := op()
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return backoff.Permanent(err)
		}

		c.logger.Warn("Stripe request failed, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return err
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = c.retry.InitialInterval
	expBackoff.MaxInterval = c.retry.MaxInterval
	expBackoff.Multiplier = c.retry.Multiplier
	expBackoff.MaxElapsedTime = c.retry.MaxElapsedTime

	var policy backoff.BackOff = expBackoff
	if c.retry.MaxRetries >= 0 {
		policy = backoff.WithMaxRetries(expBackoff, uint64(c.retry.MaxRetries))
	}

	return backoff.Retry(wrapped, backoff.WithContext(policy, ctx))
}

// isRetryable reports whether a failed Stripe call may succeed if repeated:
// rate limiting, lock contention, server errors and transport failures.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return true
	}

	switch {
	case stripeErr.HTTPStatusCode == http.StatusTooManyRequests:
		return true
	case stripeErr.HTTPStatusCode == http.StatusConflict:
		return true
	case stripeErr.HTTPStatusCode >= http.StatusInternalServerError:
		return true
	default:
		return false
	}
}

// isResourceMissing reports whether Stripe answered that the object does not exist.
func isResourceMissing(err error) bool {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return false
	}
	return stripeErr.Code == stripe.ErrorCodeResourceMissing || stripeErr.HTTPStatusCode == http.StatusNotFound
}
