package listings

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/PIN-11-07/Turboo/internal/domain"
	"github.com/PIN-11-07/Turboo/internal/feed"
)

// feedSelect reads feed rows straight from Postgres. Text columns are
// coalesced so NULLs scan into plain strings, and the id is cast to text
// for domain.ListingID. WHERE and the qualified ORDER BY see the original
// columns, never the text alias.
const feedSelect = `
	SELECT l.id::text AS id, l.created_at,
		COALESCE(l.title, '') AS title,
		COALESCE(l.make, '') AS make,
		COALESCE(l.model, '') AS model,
		COALESCE(l.description, '') AS description,
		COALESCE(l.location, '') AS location,
		l.price::float8 AS price, l.year, l.mileage, l.doors,
		COALESCE(l.fuel_type, '') AS fuel_type,
		COALESCE(l.transmission, '') AS transmission,
		COALESCE(l.color, '') AS color
	FROM listings l
	WHERE l.is_active = true`

const feedOrder = `
	ORDER BY l.created_at DESC, l.id DESC
	LIMIT $1`

// PostgresSource serves the feed from a direct database connection
type PostgresSource struct {
	db *sqlx.DB
}

// NewPostgresSource wraps an open connection
func NewPostgresSource(db *sqlx.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

// OpenPostgres connects to dsn and returns a source
func OpenPostgres(ctx context.Context, dsn string) (*PostgresSource, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewPostgresSource(db), nil
}

// PageSQL builds the feed statement for q
func PageSQL(q feed.PageQuery) (string, []any) {
	var b strings.Builder
	b.WriteString(feedSelect)
	args := []any{q.Limit}
	if q.Cursor != nil {
		clause, cursorArgs := q.Cursor.SQL(2)
		b.WriteString("\n\t  AND ")
		b.WriteString(clause)
		args = append(args, cursorArgs...)
	}
	b.WriteString(feedOrder)
	return b.String(), args
}

// FetchPage implements feed.Fetcher
func (s *PostgresSource) FetchPage(ctx context.Context, q feed.PageQuery) ([]domain.ListingSummary, error) {
	query, args := PageSQL(q)

	var rows []domain.ListingSummary
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	log.Printf("Listings: postgres page %s returned %d rows", q.RequestID, len(rows))
	return rows, nil
}

// Close closes the database connection
func (s *PostgresSource) Close() error {
	return s.db.Close()
}
