package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mozilla/fxa-autotax/internal/autotax"
	awsclient "github.com/mozilla/fxa-autotax/internal/client/aws"
	stripeclient "github.com/mozilla/fxa-autotax/internal/client/stripe"
	"github.com/mozilla/fxa-autotax/internal/helpers"
	"github.com/mozilla/fxa-autotax/internal/logger"
	"github.com/mozilla/fxa-autotax/internal/store"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	// Load .env file for local development
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v. Proceeding with environment variables/secrets.", err)
	}

	stage, defaulted, err := helpers.ResolveStage(os.Getenv("STAGE"))
	if err != nil {
		log.Fatalf("Invalid STAGE environment variable: %v", err)
	}
	if defaulted {
		log.Printf("Warning: STAGE environment variable not set, defaulting to '%s'", stage)
	}

	logger.InitLogger(stage)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(stage).ExecuteContext(ctx); err != nil {
		logger.Fatal("Conversion to Stripe automatic tax failed", zap.Error(err))
	}
}

func newRootCommand(stage string) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "convert-customers-to-stripe-automatic-tax",
		Short: "Enable Stripe automatic tax for renewing subscriptions",
		Long: `Walks the active subscriptions mirrored from Stripe, enables automatic tax
for the customers and subscriptions that can use it, and appends a CSV row
per converted subscription describing its next invoice.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.loadEnv()
			if err := opts.validate(); err != nil {
				return err
			}
			logger.Info("Starting conversion to Stripe automatic tax",
				zap.String("stage", stage),
				zap.Bool("dry_run", opts.dryRun),
				zap.Int("batch_size", opts.batchSize),
				zap.String("store", opts.store),
				zap.String("report_output", opts.reportOutput),
			)
			return run(cmd.Context(), opts)
		},
	}
	opts.bindFlags(cmd)

	return cmd
}

func run(ctx context.Context, opts *options) error {
	secretsClient, err := awsclient.NewSecretsManagerClient(ctx, logger.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize AWS Secrets Manager client: %w", err)
	}

	stripeAPIKey, err := secretsClient.GetSecretString(ctx, "STRIPE_API_KEY_ARN", "STRIPE_API_KEY")
	if err != nil {
		return fmt.Errorf("failed to get Stripe API key: %w", err)
	}
	stripeConfig := stripeclient.DefaultConfig(stripeAPIKey)
	stripeConfig.RequestsPerSecond = opts.rateLimit
	billing, err := stripeclient.NewClient(logger.Log, stripeConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize Stripe client: %w", err)
	}

	subscriptions, closeStore, err := openStore(ctx, opts, secretsClient)
	if err != nil {
		return err
	}
	defer closeStore()

	ipAddressMap, err := autotax.LoadIPAddressMap(opts.ipAddressMap)
	if err != nil {
		return err
	}

	report, err := autotax.OpenCSVReportFile(autotax.ReportOutputPath(opts.reportOutput, opts.dryRun))
	if err != nil {
		return err
	}
	defer func() {
		if err := report.Close(); err != nil {
			logger.Error("Failed to close report file", zap.Error(err))
		}
	}()

	converter := autotax.NewStripeAutomaticTaxConverter(logger.Log, subscriptions, billing, report, autotax.ConverterConfig{
		DryRun:       opts.dryRun,
		BatchSize:    opts.batchSize,
		IPAddressMap: ipAddressMap,
	})

	_, err = converter.Convert(ctx)
	return err
}

func openStore(ctx context.Context, opts *options, secretsClient *awsclient.SecretsManagerClient) (autotax.SubscriptionStore, func(), error) {
	switch opts.store {
	case storePostgres:
		dsn, err := secretsClient.GetSecretString(ctx, "DATABASE_URL_ARN", "DATABASE_URL")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get DATABASE_URL: %w", err)
		}
		if dsn == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for the postgres store and not found")
		}
		pool, err := store.NewPostgresPool(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgresStore(pool, opts.postgresTable, logger.Log), pool.Close, nil
	default:
		firestoreStore, err := store.NewFirestoreStore(ctx, store.FirestoreConfig{
			ProjectID:       opts.firestoreProjectID,
			CredentialsFile: opts.firestoreCredentialsFile,
			Collection:      opts.firestoreCollection,
		}, logger.Log)
		if err != nil {
			return nil, nil, err
		}
		return firestoreStore, func() {
			if err := firestoreStore.Close(); err != nil {
				logger.Warn("Failed to close firestore client", zap.Error(err))
			}
		}, nil
	}
}
