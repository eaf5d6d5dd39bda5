package feed

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/PIN-11-07/Turboo/internal/domain"
)

var baseTime = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

func listing(id int, createdAt time.Time) domain.ListingSummary {
	return domain.ListingSummary{
		ID:        domain.ListingID(strconv.Itoa(id)),
		CreatedAt: createdAt,
		Title:     "Listing " + strconv.Itoa(id),
	}
}

// distinctRows returns n listings with ids 1..n, each a minute newer than the previous
func distinctRows(n int) []domain.ListingSummary {
	rows := make([]domain.ListingSummary, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, listing(i, baseTime.Add(time.Duration(i)*time.Minute)))
	}
	return rows
}

// fakeSource serves pages from an in-memory table honouring cursor and limit
type fakeSource struct {
	mu      sync.Mutex
	rows    []domain.ListingSummary
	err     error
	calls   int
	queries []PageQuery

	started chan struct{} // signalled when a fetch begins
	release chan struct{} // fetch blocks until closed
}

func (s *fakeSource) setRows(rows []domain.ListingSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = rows
}

func (s *fakeSource) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *fakeSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *fakeSource) FetchPage(ctx context.Context, q PageQuery) ([]domain.ListingSummary, error) {
	s.mu.Lock()
	s.calls++
	s.queries = append(s.queries, q)
	err := s.err
	rows := make([]domain.ListingSummary, len(s.rows))
	copy(rows, s.rows)
	started, release := s.started, s.release
	s.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(rows, func(i, j int) bool { return Less(rows[i], rows[j]) })
	page := make([]domain.ListingSummary, 0, q.Limit)
	for _, r := range rows {
		if q.Cursor != nil && !q.Cursor.Includes(r) {
			continue
		}
		page = append(page, r)
		if len(page) == q.Limit {
			break
		}
	}
	return page, nil
}

func ids(items []domain.ListingSummary) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, string(it.ID))
	}
	return out
}
