package constants

// Common string constants used throughout the codebase
const (
	// Log levels
	ErrorLevel = "error"

	// Environments
	ProdEnvironment = "prod"

	// Service name attached to structured logs
	ServiceName = "fxa-stripe-automatic-tax"
)

// Stripe values the converter relies on
const (
	// SubscriptionStatusActive is the only status that renews
	SubscriptionStatusActive = "active"

	// IntervalMonth is the Stripe plan interval for monthly billing
	IntervalMonth = "month"

	// UserIDMetadataKey is the customer metadata key holding the FxA uid
	UserIDMetadataKey = "userid"
)
