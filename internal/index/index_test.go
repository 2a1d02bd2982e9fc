package index_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/kvignite/internal/index"
)

func TestSetGetRemove(t *testing.T) {
	idx := index.New()

	_, ok := idx.Get("missing")
	require.False(t, ok)

	idx.Set("a", index.Pointer{SegmentID: 1, Offset: 0, Length: 10})
	ptr, ok := idx.Get("a")
	require.True(t, ok)
	require.Equal(t, index.Pointer{SegmentID: 1, Offset: 0, Length: 10}, ptr)

	require.Equal(t, 1, idx.Len())

	require.True(t, idx.Remove("a"))
	_, ok = idx.Get("a")
	require.False(t, ok)
	require.False(t, idx.Remove("a"))
}

func TestOverwrite(t *testing.T) {
	idx := index.New()
	idx.Set("a", index.Pointer{SegmentID: 1, Offset: 0, Length: 5})
	idx.Set("a", index.Pointer{SegmentID: 2, Offset: 100, Length: 5})

	ptr, ok := idx.Get("a")
	require.True(t, ok)
	require.Equal(t, uint64(2), ptr.SegmentID)
}

func TestUpdateIsNoOpWhenAbsent(t *testing.T) {
	idx := index.New()
	idx.Update("missing", index.Pointer{SegmentID: 1})
	_, ok := idx.Get("missing")
	require.False(t, ok)
}

func TestRangeVisitsAllEntries(t *testing.T) {
	idx := index.New()
	idx.Set("a", index.Pointer{SegmentID: 1})
	idx.Set("b", index.Pointer{SegmentID: 2})

	seen := map[string]bool{}
	idx.Range(func(key string, ptr index.Pointer) bool {
		seen[key] = true
		return true
	})

	require.Equal(t, map[string]bool{"a": true, "b": true}, seen)
}
