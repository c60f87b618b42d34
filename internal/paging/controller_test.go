package paging

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestTotalPagesFor(t *testing.T) {
	cases := []struct {
		items, size, want int
	}{
		{0, 5, 1},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{23, 5, 5},
		{100, 10, 10},
		{101, 10, 11},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TotalPagesFor(tc.items, tc.size), "items=%d size=%d", tc.items, tc.size)
	}
}

func TestNewRejectsInvalidPageSize(t *testing.T) {
	_, err := NewStatic(0, seq(3))
	require.ErrorIs(t, err, ErrInvalidPageSize)

	_, err = NewRemote(-1, func(context.Context, int) (Page[int], error) { return Page[int]{}, nil })
	require.ErrorIs(t, err, ErrInvalidPageSize)

	_, err = NewRemote[int](5, nil)
	require.Error(t, err)
}

func TestStaticTwentyThreeItems(t *testing.T) {
	ctx := context.Background()
	c, err := NewStatic(5, seq(23))
	require.NoError(t, err)

	assert.Equal(t, 5, c.TotalPages())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, c.VisibleItems())

	require.NoError(t, c.GoTo(ctx, 4))
	assert.Equal(t, []int{20, 21, 22}, c.VisibleItems())

	require.NoError(t, c.GoTo(ctx, 5))
	assert.Equal(t, 4, c.Index())

	require.NoError(t, c.GoTo(ctx, -1))
	assert.Equal(t, 4, c.Index())

	st := c.State()
	assert.Equal(t, 23, st.TotalItems)
	assert.False(t, st.HasNext)
	assert.True(t, st.HasPrevious)
}

func TestStaticPageLengths(t *testing.T) {
	ctx := context.Background()
	for _, total := range []int{1, 4, 5, 9, 10, 11, 37} {
		for _, size := range []int{1, 3, 5, 10} {
			c, err := NewStatic(size, seq(total))
			require.NoError(t, err)
			pages := c.TotalPages()
			for p := 0; p < pages; p++ {
				require.NoError(t, c.GoTo(ctx, p))
				want := size
				if p == pages-1 {
					want = total - p*size
				}
				assert.Len(t, c.VisibleItems(), want, "total=%d size=%d page=%d", total, size, p)
			}
		}
	}
}

func TestStaticEmptyCollection(t *testing.T) {
	c, err := NewStatic[int](5, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, c.TotalPages())
	assert.Empty(t, c.VisibleItems())
	assert.Equal(t, []int{0}, c.PageButtons(5))

	st := c.State()
	assert.False(t, st.HasNext)
	assert.False(t, st.HasPrevious)
}

func TestSetItemsResetsIndex(t *testing.T) {
	c, err := NewStatic(5, seq(30))
	require.NoError(t, err)
	require.NoError(t, c.GoTo(context.Background(), 3))

	c.SetItems(seq(12))
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, 3, c.TotalPages())
}

type fakeSource struct {
	mu    sync.Mutex
	total int
	size  int
	calls []int
	fail  error
}

func (f *fakeSource) fetch(_ context.Context, page int) (Page[int], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, page)
	if f.fail != nil {
		return Page[int]{}, f.fail
	}
	pages := TotalPagesFor(f.total, f.size)
	var items []int
	for i := page * f.size; i < (page+1)*f.size && i < f.total; i++ {
		items = append(items, i)
	}
	return Page[int]{
		Items:       items,
		TotalPages:  pages,
		TotalItems:  f.total,
		HasNext:     page < pages-1,
		HasPrevious: page > 0,
	}, nil
}

func TestRemoteLoadAndNavigate(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{total: 42, size: 10}
	c, err := NewRemote(10, src.fetch)
	require.NoError(t, err)
	assert.False(t, c.Loaded())

	require.NoError(t, c.Load(ctx, 2))
	assert.True(t, c.Loaded())
	assert.Equal(t, 2, c.Index())
	assert.Equal(t, 5, c.TotalPages())
	assert.Equal(t, []int{20, 21, 22, 23, 24, 25, 26, 27, 28, 29}, c.VisibleItems())

	require.NoError(t, c.GoTo(ctx, 4))
	assert.Equal(t, []int{40, 41}, c.VisibleItems())

	require.NoError(t, c.GoTo(ctx, 5))
	require.NoError(t, c.GoTo(ctx, -1))
	assert.Equal(t, 4, c.Index())
	assert.Equal(t, []int{2, 4}, src.calls)

	st := c.State()
	assert.Equal(t, ModeRemote, st.Mode)
	assert.Equal(t, 42, st.TotalItems)
	assert.False(t, st.HasNext)
	assert.True(t, st.HasPrevious)
}

func TestRemoteLoadPastEndFallsBackToLastPage(t *testing.T) {
	src := &fakeSource{total: 12, size: 10}
	c, err := NewRemote(10, src.fetch)
	require.NoError(t, err)

	require.NoError(t, c.Load(context.Background(), 9))
	assert.Equal(t, 1, c.Index())
	assert.Equal(t, []int{9, 1}, src.calls)
	assert.Equal(t, []int{10, 11}, c.VisibleItems())
}

func TestRemoteLoadPastEndWithShrinkingTotal(t *testing.T) {
	// a source that only ever counts up to the page asked for
	var calls []int
	fetch := func(_ context.Context, page int) (Page[int], error) {
		calls = append(calls, page)
		if page == 0 {
			return Page[int]{Items: []int{1, 2}, TotalPages: 1}, nil
		}
		return Page[int]{TotalPages: page}, nil
	}
	c, err := NewRemote(10, fetch)
	require.NoError(t, err)

	require.NoError(t, c.Load(context.Background(), 7))
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, []int{7, 6, 0}, calls)
	assert.Equal(t, []int{1, 2}, c.VisibleItems())
}

func TestRemoteLoadNegativeLoadsFirstPage(t *testing.T) {
	src := &fakeSource{total: 12, size: 10}
	c, err := NewRemote(10, src.fetch)
	require.NoError(t, err)

	require.NoError(t, c.Load(context.Background(), -3))
	assert.Equal(t, []int{0}, src.calls)
}

func TestRemoteFailureKeepsPreviousPage(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{total: 30, size: 10}
	c, err := NewRemote(10, src.fetch)
	require.NoError(t, err)
	require.NoError(t, c.Load(ctx, 1))

	boom := errors.New("backend down")
	src.fail = boom
	err = c.GoTo(ctx, 2)
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, c.Err(), boom)
	assert.Equal(t, 1, c.Index())
	assert.Equal(t, 10, c.VisibleItems()[0])

	src.fail = nil
	require.NoError(t, c.GoTo(ctx, 2))
	assert.NoError(t, c.Err())
	assert.Equal(t, 20, c.VisibleItems()[0])
}

func TestRemoteFailureBeforeFirstLoad(t *testing.T) {
	boom := errors.New("timeout")
	c, err := NewRemote(10, func(context.Context, int) (Page[string], error) {
		return Page[string]{}, boom
	})
	require.NoError(t, err)

	require.ErrorIs(t, c.Load(context.Background(), 0), boom)
	assert.False(t, c.Loaded())
	assert.Empty(t, c.VisibleItems())
	assert.Equal(t, 1, c.TotalPages())
}

func TestRemoteResetRefetchesFirstPage(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{total: 50, size: 10}
	c, err := NewRemote(10, src.fetch)
	require.NoError(t, err)
	require.NoError(t, c.Load(ctx, 3))

	require.NoError(t, c.Reset(ctx))
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, []int{3, 0}, src.calls)
}

func TestRemoteStaleResponseIsDiscarded(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	started := make(chan struct{})
	fetch := func(_ context.Context, page int) (Page[int], error) {
		if page == 1 {
			close(started)
			<-release
		}
		return Page[int]{Items: []int{page * 100}, TotalPages: 5}, nil
	}
	c, err := NewRemote(1, fetch)
	require.NoError(t, err)
	require.NoError(t, c.Load(ctx, 0))

	done := make(chan error, 1)
	go func() { done <- c.GoTo(ctx, 1) }()
	<-started

	require.NoError(t, c.GoTo(ctx, 3))
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, 3, c.Index())
	assert.Equal(t, []int{300}, c.VisibleItems())
}

func TestParsePage(t *testing.T) {
	cases := map[string]int{
		"/x":           0,
		"/x?page=":     0,
		"/x?page=abc":  0,
		"/x?page=4":    4,
		"/x?page=-2":   -2,
		"/x?page=%207": 7,
	}
	for target, want := range cases {
		r := httptest.NewRequest("GET", target, nil)
		assert.Equal(t, want, ParsePage(r, "page"), target)
	}
}
