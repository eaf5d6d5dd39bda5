package feed

import (
	"sort"

	"github.com/PIN-11-07/Turboo/internal/domain"
)

// Less is the feed order: newest first, higher id first on equal timestamps
func Less(a, b domain.ListingSummary) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.Compare(b.ID) > 0
}

// Store holds the fetched listings in feed order without duplicate ids.
// It is not safe for concurrent use; Feed guards it.
type Store struct {
	items []domain.ListingSummary
	ids   map[domain.ListingID]struct{}
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{ids: make(map[domain.ListingID]struct{})}
}

// Replace discards the current contents and loads rows
func (s *Store) Replace(rows []domain.ListingSummary) {
	s.items = make([]domain.ListingSummary, 0, len(rows))
	s.ids = make(map[domain.ListingID]struct{}, len(rows))
	s.Append(rows)
}

// Append adds the rows that sort strictly after the current tail and whose
// id is not already present. It returns the number of rows added.
func (s *Store) Append(rows []domain.ListingSummary) int {
	sorted := make([]domain.ListingSummary, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return Less(sorted[i], sorted[j]) })

	added := 0
	for _, row := range sorted {
		if _, seen := s.ids[row.ID]; seen {
			continue
		}
		if n := len(s.items); n > 0 && !Less(s.items[n-1], row) {
			continue
		}
		s.items = append(s.items, row)
		s.ids[row.ID] = struct{}{}
		added++
	}
	return added
}

// Items returns a copy of the listings in feed order
func (s *Store) Items() []domain.ListingSummary {
	out := make([]domain.ListingSummary, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of listings held
func (s *Store) Len() int {
	return len(s.items)
}

// Last returns the oldest listing held
func (s *Store) Last() (domain.ListingSummary, bool) {
	if len(s.items) == 0 {
		return domain.ListingSummary{}, false
	}
	return s.items[len(s.items)-1], true
}
