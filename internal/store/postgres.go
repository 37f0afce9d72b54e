package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mozilla/fxa-autotax/internal/autotax"
	"github.com/mozilla/fxa-autotax/internal/constants"
	"go.uber.org/zap"
)

// DefaultSubscriptionsTable is the table holding the jsonb subscription mirror.
const DefaultSubscriptionsTable = "stripe_subscriptions"

var _ autotax.SubscriptionStore = (*PostgresStore)(nil)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore reads subscriptions from a Postgres table with the columns
// id text, status text and data jsonb, where data is the Stripe subscription.
type PostgresStore struct {
	db     Querier
	query  string
	logger *zap.Logger
}

// NewPostgresPool opens a small connection pool sized for a single sequential reader.
func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database DSN: %w", err)
	}
	poolConfig.MaxConns = 2
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 15

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	return pool, nil
}

// NewPostgresStore creates a store reading from table.
func NewPostgresStore(db Querier, table string, logger *zap.Logger) *PostgresStore {
	if table == "" {
		table = DefaultSubscriptionsTable
	}
	return &PostgresStore{
		db:     db,
		query:  fetchBatchQuery(table),
		logger: logger,
	}
}

func fetchBatchQuery(table string) string {
	return fmt.Sprintf(
		"SELECT data FROM %s WHERE status = $1 AND id > $2 ORDER BY id LIMIT $3",
		pgx.Identifier{table}.Sanitize(),
	)
}

// FetchBatch returns the next page of active subscriptions ordered by id.
func (s *PostgresStore) FetchBatch(ctx context.Context, afterID string, limit int) ([]autotax.Subscription, error) {
	rows, err := s.db.Query(ctx, s.query, constants.SubscriptionStatusActive, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_store.FetchBatch: %w", err)
	}

	subs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (autotax.Subscription, error) {
		var data []byte
		if err := row.Scan(&data); err != nil {
			return autotax.Subscription{}, err
		}
		return decodeSubscription(data)
	})
	if err != nil {
		return nil, fmt.Errorf("postgres_store.FetchBatch: %w", err)
	}

	s.logger.Debug("Fetched subscriptions from postgres",
		zap.String("after_id", afterID),
		zap.Int("count", len(subs)),
	)
	return subs, nil
}

func decodeSubscription(data []byte) (autotax.Subscription, error) {
	var sub autotax.Subscription
	if err := json.Unmarshal(data, &sub); err != nil {
		return autotax.Subscription{}, fmt.Errorf("decode subscription: %w", err)
	}
	return sub, nil
}
