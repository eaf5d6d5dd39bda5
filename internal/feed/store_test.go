package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PIN-11-07/Turboo/internal/domain"
)

func TestLessOrdersByCreatedAtThenID(t *testing.T) {
	newer := listing(1, baseTime.Add(time.Second))
	older := listing(2, baseTime)
	tieHigh := listing(10, baseTime)
	tieLow := listing(9, baseTime)

	assert.True(t, Less(newer, older))
	assert.False(t, Less(older, newer))
	assert.True(t, Less(tieHigh, tieLow))
	assert.False(t, Less(tieLow, tieHigh))
	assert.False(t, Less(tieLow, tieLow))
}

func TestStoreReplaceSortsAndDeduplicates(t *testing.T) {
	s := NewStore()
	s.Replace(distinctRows(3))
	require.Equal(t, []string{"3", "2", "1"}, ids(s.Items()))

	dup := listing(2, baseTime.Add(2*time.Minute))
	s.Replace(append(distinctRows(2), dup))
	assert.Equal(t, []string{"2", "1"}, ids(s.Items()))
}

func TestStoreAppendKeepsOrderAndSkipsDuplicates(t *testing.T) {
	rows := distinctRows(6)
	s := NewStore()
	s.Replace(rows[3:]) // 6,5,4

	// 4 is already held, 1..3 follow the tail
	added := s.Append(rows[:4])
	assert.Equal(t, 3, added)
	assert.Equal(t, []string{"6", "5", "4", "3", "2", "1"}, ids(s.Items()))
}

func TestStoreAppendDropsRowsBeforeTail(t *testing.T) {
	s := NewStore()
	s.Replace(distinctRows(3)[:2]) // 2,1

	newer := listing(9, baseTime.Add(time.Hour))
	older := listing(0, baseTime)
	added := s.Append([]domain.ListingSummary{newer, older})
	assert.Equal(t, 1, added)
	assert.Equal(t, []string{"2", "1", "0"}, ids(s.Items()))
}

func TestStoreLastAndItemsCopy(t *testing.T) {
	s := NewStore()
	_, ok := s.Last()
	require.False(t, ok)

	s.Replace(distinctRows(2))
	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, "1", string(last.ID))

	items := s.Items()
	items[0].Title = "changed"
	assert.NotEqual(t, "changed", s.Items()[0].Title, "Items must return a copy")
	assert.Equal(t, 2, s.Len())
}
