package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRows struct {
	data   [][]byte
	pos    int
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return []any{r.data[r.pos-1]}, nil }
func (r *fakeRows) RawValues() [][]byte                          { return [][]byte{r.data[r.pos-1]} }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	*(dest[0].(*[]byte)) = r.data[r.pos-1]
	return nil
}

type fakeQuerier struct {
	rows *fakeRows
	err  error
	sql  string
	args []any
}

func (q *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.sql = sql
	q.args = args
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func TestFetchBatchQuery(t *testing.T) {
	assert.Equal(t,
		`SELECT data FROM "stripe_subscriptions" WHERE status = $1 AND id > $2 ORDER BY id LIMIT $3`,
		fetchBatchQuery(DefaultSubscriptionsTable),
	)
	assert.Equal(t,
		`SELECT data FROM "bad""name" WHERE status = $1 AND id > $2 ORDER BY id LIMIT $3`,
		fetchBatchQuery(`bad"name`),
	)
}

func TestPostgresStore_FetchBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes rows in order", func(t *testing.T) {
		rows := &fakeRows{data: [][]byte{
			[]byte(`{"id":"sub_1","customer":"cus_1","status":"active","current_period_end":1700000000,"plan":{"id":"plan_1","interval":"month","interval_count":1,"product":"prod_1"}}`),
			[]byte(`{"id":"sub_2","customer":"cus_2","status":"active","cancel_at":1700000000,"items":{"data":[{"id":"si_1","plan":{"interval":"year"}}]}}`),
		}}
		querier := &fakeQuerier{rows: rows}
		store := NewPostgresStore(querier, "", zap.NewNop())

		subs, err := store.FetchBatch(ctx, "sub_0", 10)
		require.NoError(t, err)
		require.Len(t, subs, 2)

		assert.Equal(t, []any{"active", "sub_0", 10}, querier.args)
		assert.Equal(t, "sub_1", subs[0].ID)
		assert.Equal(t, "prod_1", subs[0].Plan.Product)
		assert.Equal(t, int64(1700000000), subs[0].CurrentPeriodEnd)
		require.NotNil(t, subs[1].CancelAt)
		assert.Equal(t, "year", subs[1].Interval())
		assert.True(t, rows.closed)
	})

	t.Run("empty page", func(t *testing.T) {
		store := NewPostgresStore(&fakeQuerier{rows: &fakeRows{}}, "", zap.NewNop())
		subs, err := store.FetchBatch(ctx, "sub_9", 10)
		require.NoError(t, err)
		assert.Empty(t, subs)
	})

	t.Run("query error", func(t *testing.T) {
		store := NewPostgresStore(&fakeQuerier{err: errors.New("connection refused")}, "", zap.NewNop())
		_, err := store.FetchBatch(ctx, "", 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres_store.FetchBatch")
	})

	t.Run("malformed document", func(t *testing.T) {
		store := NewPostgresStore(&fakeQuerier{rows: &fakeRows{data: [][]byte{[]byte(`{"id":`)}}}, "", zap.NewNop())
		_, err := store.FetchBatch(ctx, "", 10)
		assert.Error(t, err)
	})
}

func TestPostgresStore_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := NewPostgresPool(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	// Temp tables are per connection, so pin one.
	conn, err := pool.Acquire(ctx)
	require.NoError(t, err)
	defer conn.Release()
	_, err = conn.Exec(ctx, `CREATE TEMP TABLE autotax_subscriptions (id text PRIMARY KEY, status text NOT NULL, data jsonb NOT NULL)`)
	require.NoError(t, err)
	_, err = conn.Exec(ctx, `INSERT INTO autotax_subscriptions (id, status, data) VALUES
		('sub_a', 'active', '{"id":"sub_a","status":"active"}'),
		('sub_b', 'canceled', '{"id":"sub_b","status":"canceled"}'),
		('sub_c', 'active', '{"id":"sub_c","status":"active"}'),
		('sub_d', 'active', '{"id":"sub_d","status":"active"}')`)
	require.NoError(t, err)

	store := NewPostgresStore(conn, "autotax_subscriptions", zap.NewNop())

	first, err := store.FetchBatch(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "sub_a", first[0].ID)
	assert.Equal(t, "sub_c", first[1].ID)

	second, err := store.FetchBatch(ctx, first[1].ID, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "sub_d", second[0].ID)

	last, err := store.FetchBatch(ctx, second[0].ID, 2)
	require.NoError(t, err)
	assert.Empty(t, last)
}
