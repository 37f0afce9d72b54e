package main

import (
	"fmt"
	"os"

	"github.com/mozilla/fxa-autotax/internal/autotax"
	"github.com/mozilla/fxa-autotax/internal/store"
	"github.com/spf13/cobra"
)

const (
	storeFirestore = "firestore"
	storePostgres  = "postgres"

	defaultReportOutput = "convert-customers-to-stripe-automatic-tax.csv"
	defaultRateLimit    = 25
)

// options holds the command line flags and the environment the run needs.
type options struct {
	dryRun       bool
	batchSize    int
	reportOutput string
	ipAddressMap string
	store        string
	rateLimit    float64

	firestoreProjectID       string
	firestoreCredentialsFile string
	firestoreCollection      string
	postgresTable            string
}

func (o *options) bindFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolVarP(&o.dryRun, "dry-run", "n", true, "Report what would be converted without updating Stripe")
	flags.IntVarP(&o.batchSize, "batch-size", "b", autotax.DefaultBatchSize, "Number of subscriptions fetched per batch")
	flags.StringVarP(&o.reportOutput, "report-output", "o", defaultReportOutput, "CSV file the report rows are appended to, dry runs append to <name>.dry-run<ext>")
	flags.StringVar(&o.ipAddressMap, "ip-address-map", "", "JSON file mapping account uids to IP addresses")
	flags.StringVar(&o.store, "store", storeFirestore, "Subscription store to read from (firestore|postgres)")
	flags.Float64Var(&o.rateLimit, "rate-limit", defaultRateLimit, "Maximum Stripe requests per second, 0 disables the limit")
}

func (o *options) loadEnv() {
	o.firestoreProjectID = os.Getenv("FIRESTORE_PROJECT_ID")
	o.firestoreCredentialsFile = os.Getenv("FIRESTORE_CREDENTIALS_FILE")
	o.firestoreCollection = getEnvWithDefault("FIRESTORE_SUBSCRIPTIONS_COLLECTION", store.DefaultSubscriptionsCollection)
	o.postgresTable = getEnvWithDefault("POSTGRES_SUBSCRIPTIONS_TABLE", store.DefaultSubscriptionsTable)
}

func (o *options) validate() error {
	if o.batchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", o.batchSize)
	}
	if o.reportOutput == "" {
		return fmt.Errorf("report output file is required")
	}
	if o.rateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %v", o.rateLimit)
	}
	switch o.store {
	case storeFirestore:
		if o.firestoreProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID is required for the firestore store")
		}
	case storePostgres:
	default:
		return fmt.Errorf("unknown store %q, must be one of: %s, %s", o.store, storeFirestore, storePostgres)
	}
	return nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
