package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/NikaNal/dept-of-excellence-training/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DefaultTable holds one row per feed: feed_key, body, updated_at.
const DefaultTable = "training_feeds"

// DBTX is the subset of *pgxpool.Pool used by Postgres.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres reads feed bodies from a table keyed by feed kind.
type Postgres struct {
	db    DBTX
	table string
}

// NewPostgres creates a source over db. An empty table means DefaultTable.
func NewPostgres(db DBTX, table string) *Postgres {
	if table == "" {
		table = DefaultTable
	}
	return &Postgres{db: db, table: table}
}

func (p *Postgres) ident() string {
	return pgx.Identifier{p.table}.Sanitize()
}

// EnsureSchema creates the feed table if it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	feed_key   TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, p.ident())

	if _, err := p.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("create %s: %w", p.table, err)
	}
	return nil
}

// Fetch returns the stored body for kind. A missing row is
// ErrFeedNotConfigured.
func (p *Postgres) Fetch(ctx context.Context, kind core.FeedKind) (string, error) {
	query := fmt.Sprintf("SELECT body FROM %s WHERE feed_key = $1", p.ident())

	var body string
	err := p.db.QueryRow(ctx, query, string(kind)).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", kind, ErrFeedNotConfigured)
	}
	if err != nil {
		return "", fmt.Errorf("query %s feed: %w", kind, err)
	}
	return body, nil
}

// Put stores body for kind, replacing any previous body.
func (p *Postgres) Put(ctx context.Context, kind core.FeedKind, body string) error {
	query := fmt.Sprintf(`INSERT INTO %s (feed_key, body, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (feed_key) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`, p.ident())

	_, err := p.db.Exec(ctx, query, string(kind), body)
	return err
}
