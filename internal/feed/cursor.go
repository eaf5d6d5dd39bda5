package feed

import (
	"fmt"
	"time"

	"github.com/PIN-11-07/Turboo/internal/domain"
)

// Cursor marks a position in the (created_at DESC, id DESC) feed order.
// The next page holds every row strictly older than the cursor.
type Cursor struct {
	CreatedAt time.Time
	ID        domain.ListingID
}

// CursorAfter derives the cursor from the last element of items
func CursorAfter(items []domain.ListingSummary) (Cursor, bool) {
	if len(items) == 0 {
		return Cursor{}, false
	}
	last := items[len(items)-1]
	return Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, true
}

// Includes reports whether r belongs after the cursor:
// created_at < c.created_at OR (created_at = c.created_at AND id < c.id)
func (c Cursor) Includes(r domain.ListingSummary) bool {
	if r.CreatedAt.Before(c.CreatedAt) {
		return true
	}
	return r.CreatedAt.Equal(c.CreatedAt) && r.ID.Compare(c.ID) < 0
}

// Timestamp renders created_at the way the data API compares it. Sub-second
// digits are kept; truncating to milliseconds would skip rows stored with
// microsecond precision.
func (c Cursor) Timestamp() string {
	return c.CreatedAt.UTC().Format(time.RFC3339Nano)
}

// PostgRESTFilter renders the constraint as the body of an or=(...) filter
func (c Cursor) PostgRESTFilter() string {
	ts := c.Timestamp()
	return fmt.Sprintf("created_at.lt.%s,and(created_at.eq.%s,id.lt.%s)", ts, ts, c.ID)
}

// SQL renders the constraint as a WHERE fragment using positional
// parameters starting at $startArg, and returns the matching arguments.
func (c Cursor) SQL(startArg int) (string, []any) {
	clause := fmt.Sprintf("(created_at < $%d OR (created_at = $%d AND id < $%d))", startArg, startArg, startArg+1)
	return clause, []any{c.CreatedAt.UTC(), string(c.ID)}
}

func (c Cursor) String() string {
	return fmt.Sprintf("(%s, %s)", c.Timestamp(), c.ID)
}
