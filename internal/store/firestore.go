package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/mozilla/fxa-autotax/internal/autotax"
	"github.com/mozilla/fxa-autotax/internal/constants"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// DefaultSubscriptionsCollection is the collection group holding mirrored subscriptions.
const DefaultSubscriptionsCollection = "subscriptions"

var _ autotax.SubscriptionStore = (*FirestoreStore)(nil)

// FirestoreConfig configures the Firestore subscription store.
type FirestoreConfig struct {
	ProjectID string
	// CredentialsFile is optional; application default credentials are used
	// when empty, and FIRESTORE_EMULATOR_HOST is honored by the SDK.
	CredentialsFile string
	Collection      string
}

// FirestoreStore reads subscriptions from the Firestore mirror. Subscriptions
// live in per-customer subcollections, so they are queried as a collection group.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
	logger     *zap.Logger
}

// NewFirestoreStore connects to Firestore.
func NewFirestoreStore(ctx context.Context, config FirestoreConfig, logger *zap.Logger) (*FirestoreStore, error) {
	if config.ProjectID == "" {
		return nil, fmt.Errorf("firestore project id not provided in configuration")
	}

	var opts []option.ClientOption
	if config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, config.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return NewFirestoreStoreWithClient(client, config.Collection, logger), nil
}

// NewFirestoreStoreWithClient creates a store around an existing client.
func NewFirestoreStoreWithClient(client *firestore.Client, collection string, logger *zap.Logger) *FirestoreStore {
	if collection == "" {
		collection = DefaultSubscriptionsCollection
	}
	return &FirestoreStore{
		client:     client,
		collection: collection,
		logger:     logger,
	}
}

// batchQuery describes one page of the subscriptions collection group.
type batchQuery struct {
	collection string
	status     string
	orderBy    string
	startAfter string
	limit      int
}

func newBatchQuery(collection, afterID string, limit int) batchQuery {
	return batchQuery{
		collection: collection,
		status:     constants.SubscriptionStatusActive,
		orderBy:    "id",
		startAfter: afterID,
		limit:      limit,
	}
}

func (q batchQuery) build(client *firestore.Client) firestore.Query {
	query := client.CollectionGroup(q.collection).
		Where("status", "==", q.status).
		OrderBy(q.orderBy, firestore.Asc)
	if q.startAfter != "" {
		query = query.StartAfter(q.startAfter)
	}
	return query.Limit(q.limit)
}

// FetchBatch returns the next page of active subscriptions ordered by id.
func (s *FirestoreStore) FetchBatch(ctx context.Context, afterID string, limit int) ([]autotax.Subscription, error) {
	query := newBatchQuery(s.collection, afterID, limit).build(s.client)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestore_store.FetchBatch: %w", err)
	}

	subs := make([]autotax.Subscription, 0, len(docs))
	for _, doc := range docs {
		var sub autotax.Subscription
		if err := doc.DataTo(&sub); err != nil {
			return nil, fmt.Errorf("firestore_store.FetchBatch: decode %s: %w", doc.Ref.Path, err)
		}
		subs = append(subs, sub)
	}

	s.logger.Debug("Fetched subscriptions from firestore",
		zap.String("collection", s.collection),
		zap.String("after_id", afterID),
		zap.Int("count", len(subs)),
	)
	return subs, nil
}

// Close releases the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
