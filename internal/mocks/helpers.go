package mocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// NewMockSubscriptionStoreForTest creates a new mock SubscriptionStore for testing
func NewMockSubscriptionStoreForTest(t *testing.T) *MockSubscriptionStore {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockSubscriptionStore(ctrl)
}

// NewMockBillingClientForTest creates a new mock BillingClient for testing
func NewMockBillingClientForTest(t *testing.T) *MockBillingClient {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockBillingClient(ctrl)
}
