package listings

import (
	"context"
	"fmt"

	"github.com/PIN-11-07/Turboo/internal/backend"
	"github.com/PIN-11-07/Turboo/internal/domain"
	"github.com/PIN-11-07/Turboo/internal/feed"
)

// Table is the listings table name
const Table = "listings"

// FeedColumns are the columns selected for feed rows
var FeedColumns = []string{
	"id", "title", "description", "price", "make", "model", "year", "mileage",
	"fuel_type", "transmission", "doors", "color", "location", "images", "created_at",
}

// DetailColumns are the columns selected for a single listing
var DetailColumns = append(append([]string{}, FeedColumns...), "user_id", "is_active")

// RESTSource reads and writes listings through the data API
type RESTSource struct {
	api *backend.Client
}

// NewRESTSource creates a source on top of api
func NewRESTSource(api *backend.Client) *RESTSource {
	return &RESTSource{api: api}
}

// FetchPage implements feed.Fetcher
func (s *RESTSource) FetchPage(ctx context.Context, q feed.PageQuery) ([]domain.ListingSummary, error) {
	query := s.api.From(Table).
		Select(FeedColumns...).
		Eq("is_active", true).
		Order("created_at", false).
		Order("id", false).
		Limit(q.Limit)
	if q.Cursor != nil {
		query.Or(q.Cursor.PostgRESTFilter())
	}

	var rows []domain.ListingSummary
	if err := query.Execute(backend.WithRequestID(ctx, q.RequestID), &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	return rows, nil
}

// Detail loads one listing. It returns nil when the listing does not exist.
func (s *RESTSource) Detail(ctx context.Context, id domain.ListingID) (*domain.Listing, error) {
	var l *domain.Listing
	err := s.api.From(Table).
		Select(DetailColumns...).
		Eq("id", id).
		MaybeSingle().
		Execute(ctx, &l)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing %s: %w", id, err)
	}
	return l, nil
}

// ByOwner returns every listing of userID, newest first
func (s *RESTSource) ByOwner(ctx context.Context, userID string) ([]domain.ListingSummary, error) {
	var rows []domain.ListingSummary
	err := s.api.From(Table).
		Select(FeedColumns...).
		Eq("user_id", userID).
		Order("created_at", false).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings of %s: %w", userID, err)
	}
	return rows, nil
}

// Insert stores a new listing
func (s *RESTSource) Insert(ctx context.Context, l domain.NewListing) error {
	if err := s.api.Insert(ctx, Table, l, nil); err != nil {
		return fmt.Errorf("failed to insert listing: %w", err)
	}
	return nil
}
