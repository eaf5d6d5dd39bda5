package feed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/PIN-11-07/Turboo/internal/domain"
	"github.com/PIN-11-07/Turboo/internal/eventbus"
)

// DefaultPageSize is the number of listings requested per page
const DefaultPageSize = 10

// FetchFailedMessage is the user-facing text shown for any failed fetch
const FetchFailedMessage = "Unable to load listings. Please try again later."

// ErrFetchFailed matches every *FetchError via errors.Is
var ErrFetchFailed = errors.New("fetch failed")

var errFetchAborted = errors.New("fetch aborted")

// Phase identifies one of the loading phases of the feed
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInitial
	PhaseRefresh
	PhaseLoadMore
)

func (p Phase) String() string {
	switch p {
	case PhaseInitial:
		return "initial"
	case PhaseRefresh:
		return "refresh"
	case PhaseLoadMore:
		return "load-more"
	default:
		return "idle"
	}
}

// PageQuery describes one page request
type PageQuery struct {
	Cursor    *Cursor // nil for the first page
	Limit     int
	RequestID string
}

// Fetcher retrieves one page of listings in feed order
type Fetcher interface {
	FetchPage(ctx context.Context, q PageQuery) ([]domain.ListingSummary, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, q PageQuery) ([]domain.ListingSummary, error)

func (f FetcherFunc) FetchPage(ctx context.Context, q PageQuery) ([]domain.ListingSummary, error) {
	return f(ctx, q)
}

// FetchError records a failed page fetch
type FetchError struct {
	Phase     Phase
	RequestID string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch %s failed: %v", e.Phase, e.RequestID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }

// Request is an accepted page request. It is handed back to Complete.
type Request struct {
	ID    string
	Phase Phase
	Query PageQuery
}

// Option configures a Feed
type Option func(*Feed)

// WithPageSize overrides DefaultPageSize
func WithPageSize(n int) Option {
	return func(f *Feed) {
		if n > 0 {
			f.pageSize = n
		}
	}
}

// WithBus publishes FeedLoaded / FeedFailed events on bus
func WithBus(bus eventbus.EventBus) Option {
	return func(f *Feed) {
		f.bus = bus
	}
}

// WithRequestIDs replaces the request id generator
func WithRequestIDs(next func() string) Option {
	return func(f *Feed) {
		f.nextID = next
	}
}

// Feed coordinates the initial load, refresh and load-more phases over one
// in-memory listing set. A request for a phase whose guard fails is dropped,
// never queued.
type Feed struct {
	mu       sync.Mutex
	fetcher  Fetcher
	bus      eventbus.EventBus
	pageSize int
	nextID   func() string

	store          *Store
	initialLoading bool
	refreshing     bool
	loadingMore    bool
	hasMore        bool
	err            *FetchError
	query          string
}

// New creates an empty feed backed by fetcher
func New(fetcher Fetcher, opts ...Option) *Feed {
	f := &Feed{
		fetcher:  fetcher,
		pageSize: DefaultPageSize,
		store:    NewStore(),
		hasMore:  true,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.nextID == nil {
		entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
		f.nextID = func() string {
			return ulid.MustNew(ulid.Now(), entropy).String()
		}
	}
	return f
}

// Begin applies the guard of phase and marks it in flight.
// It returns false when the request must be dropped.
func (f *Feed) Begin(phase Phase) (Request, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	q := PageQuery{Limit: f.pageSize}

	switch phase {
	case PhaseInitial:
		if f.initialLoading || f.refreshing || f.loadingMore {
			return Request{}, false
		}
		f.initialLoading = true

	case PhaseRefresh:
		if f.refreshing {
			return Request{}, false
		}
		f.refreshing = true

	case PhaseLoadMore:
		if f.loadingMore || f.initialLoading || !f.hasMore || NormalizeQuery(f.query) != "" {
			return Request{}, false
		}
		last, ok := f.store.Last()
		if !ok {
			return Request{}, false
		}
		q.Cursor = &Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
		f.loadingMore = true

	default:
		return Request{}, false
	}

	req := Request{ID: f.nextID(), Phase: phase, Query: q}
	req.Query.RequestID = req.ID
	if q.Cursor != nil {
		log.Printf("Feed: %s request %s after %s", phase, req.ID, q.Cursor)
	} else {
		log.Printf("Feed: %s request %s", phase, req.ID)
	}
	return req, true
}

// Complete applies the outcome of req and clears its in-flight flag.
// On error the listing set and hasMore are left untouched.
func (f *Feed) Complete(req Request, rows []domain.ListingSummary, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer f.clear(req.Phase)

	if err != nil {
		f.err = &FetchError{Phase: req.Phase, RequestID: req.ID, Err: err}
		log.Printf("Feed: %v", f.err)
		if f.bus != nil {
			f.bus.Publish(eventbus.FeedFailedEvent{Phase: req.Phase.String(), RequestID: req.ID, Err: err})
		}
		return
	}

	f.err = nil
	f.hasMore = len(rows) == f.pageSize

	switch req.Phase {
	case PhaseInitial, PhaseRefresh:
		f.store.Replace(rows)
	case PhaseLoadMore:
		if added := f.store.Append(rows); added != len(rows) {
			log.Printf("Feed: %s request %s dropped %d overlapping rows", req.Phase, req.ID, len(rows)-added)
		}
	}

	log.Printf("Feed: %s request %s applied %d rows (total %d, hasMore=%t)", req.Phase, req.ID, len(rows), f.store.Len(), f.hasMore)
	if f.bus != nil {
		f.bus.Publish(eventbus.FeedLoadedEvent{Phase: req.Phase.String(), RequestID: req.ID, Rows: len(rows), HasMore: f.hasMore})
	}
}

func (f *Feed) clear(phase Phase) {
	switch phase {
	case PhaseInitial:
		f.initialLoading = false
	case PhaseRefresh:
		f.refreshing = false
	case PhaseLoadMore:
		f.loadingMore = false
	}
}

// Fetch runs the fetcher for an accepted request
func (f *Feed) Fetch(ctx context.Context, req Request) ([]domain.ListingSummary, error) {
	return f.fetcher.FetchPage(ctx, req.Query)
}

// LoadInitial fetches the first page and replaces the set.
// It returns false when the request was dropped by its guard.
func (f *Feed) LoadInitial(ctx context.Context) bool {
	return f.run(ctx, PhaseInitial)
}

// Refresh refetches the first page and replaces the set
func (f *Feed) Refresh(ctx context.Context) bool {
	return f.run(ctx, PhaseRefresh)
}

// LoadMore fetches the page after the last listing and appends it
func (f *Feed) LoadMore(ctx context.Context) bool {
	return f.run(ctx, PhaseLoadMore)
}

func (f *Feed) run(ctx context.Context, phase Phase) bool {
	req, ok := f.Begin(phase)
	if !ok {
		return false
	}

	var rows []domain.ListingSummary
	fetchErr := errFetchAborted
	defer func() {
		f.Complete(req, rows, fetchErr)
	}()

	rows, fetchErr = f.Fetch(ctx, req)
	return true
}

// SetQuery sets the local search query
func (f *Feed) SetQuery(query string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.query = query
}

// Query returns the raw local search query
func (f *Feed) Query() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

// Items returns every fetched listing in feed order
func (f *Feed) Items() []domain.ListingSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store.Items()
}

// Visible returns the fetched listings that pass the search filter
func (f *Feed) Visible() []domain.ListingSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Filter(f.store.Items(), f.query)
}

// Cursor returns the position the next load-more would start from
func (f *Feed) Cursor() (Cursor, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	last, ok := f.store.Last()
	if !ok {
		return Cursor{}, false
	}
	return Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, true
}

// HasMore reports whether the last page was full
func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasMore
}

// IsLoading reports whether any phase is in flight
func (f *Feed) IsLoading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initialLoading || f.refreshing || f.loadingMore
}

// InFlight reports whether phase is in flight
func (f *Feed) InFlight(phase Phase) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch phase {
	case PhaseInitial:
		return f.initialLoading
	case PhaseRefresh:
		return f.refreshing
	case PhaseLoadMore:
		return f.loadingMore
	}
	return false
}

// Phase returns the most visible phase in flight, initial load first
func (f *Feed) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case f.initialLoading:
		return PhaseInitial
	case f.refreshing:
		return PhaseRefresh
	case f.loadingMore:
		return PhaseLoadMore
	}
	return PhaseIdle
}

// Err returns the last fetch failure, or nil after a success
func (f *Feed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err == nil {
		return nil
	}
	return f.err
}

// ErrorMessage returns FetchFailedMessage while the last fetch failed
func (f *Feed) ErrorMessage() string {
	if f.Err() == nil {
		return ""
	}
	return FetchFailedMessage
}
