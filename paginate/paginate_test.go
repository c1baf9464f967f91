package paginate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name                          string
		total, perPage, number        int
		wantPages, wantStart, wantEnd int
	}{
		{"first of many", 20, 8, 1, 3, 0, 8},
		{"middle", 20, 8, 2, 3, 8, 16},
		{"partial last", 20, 8, 3, 3, 16, 20},
		{"exact fit", 16, 8, 2, 2, 8, 16},
		{"empty listing", 0, 8, 1, 1, 0, 0},
		{"non-positive size falls back", 25, 0, 3, 3, 20, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.total, tt.perPage, tt.number)
			require.NoError(t, err)
			require.Equal(t, tt.wantPages, p.TotalPages)
			require.Equal(t, tt.wantStart, p.Start)
			require.Equal(t, tt.wantEnd, p.End)
		})
	}
}

func TestNewOutOfRange(t *testing.T) {
	for _, n := range []int{0, -1, 4} {
		_, err := New(20, 8, n)
		require.ErrorIs(t, err, ErrPageOutOfRange, "page %d", n)
	}
	_, err := New(0, 8, 2)
	require.ErrorIs(t, err, ErrPageOutOfRange)
}

func TestPrevNext(t *testing.T) {
	first, _ := New(20, 8, 1)
	require.False(t, first.HasPrev())
	require.True(t, first.HasNext())

	last, _ := New(20, 8, 3)
	require.True(t, last.HasPrev())
	require.False(t, last.HasNext())
	require.Equal(t, []int{1, 2, 3}, last.Numbers())
}

func TestSlice(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	p, _ := New(len(items), 2, 3)
	require.Equal(t, []string{"e"}, Slice(items, p))

	p, _ = New(len(items), 2, 1)
	require.Equal(t, []string{"a", "b"}, Slice(items, p))

	p, _ = New(0, 2, 1)
	require.Empty(t, Slice([]string(nil), p))
}

func TestPerPage(t *testing.T) {
	require.Equal(t, 8, PerPage(8, true))
	require.Equal(t, DefaultPerPage, PerPage(0, false))
	require.Equal(t, DefaultPerPage, PerPage(-2, true))
}

func TestURL(t *testing.T) {
	require.Equal(t, "/blog/", URL("/blog", 1))
	require.Equal(t, "/blog/page/2/", URL("/blog/", 2))
	require.Equal(t, "/tags/go/page/3/", URL("tags/go", 3))
	require.Equal(t, "/", URL("", 1))
	require.Equal(t, "/page/2/", URL("/", 2))
}
