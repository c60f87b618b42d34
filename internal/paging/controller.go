package paging

import (
	"context"
	"errors"
	"sync"
)

// ErrInvalidPageSize is returned when a controller is created with a page size below 1.
var ErrInvalidPageSize = errors.New("paging: page size must be greater than zero")

// Page is one page of a server-paginated list as reported by the backend.
type Page[T any] struct {
	Items       []T
	TotalPages  int
	TotalItems  int
	HasNext     bool
	HasPrevious bool
}

// FetchFunc loads a single zero-based page from a server-paginated source.
type FetchFunc[T any] func(ctx context.Context, page int) (Page[T], error)

// Mode tells whether a controller slices a local collection or tracks remote pages.
type Mode int

const (
	ModeStatic Mode = iota
	ModeRemote
)

// State is a snapshot of a controller's paging metadata.
type State struct {
	Mode        Mode
	Index       int
	Size        int
	TotalItems  int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// Controller owns the paging state of one list view.
//
// A static controller slices an in-memory collection; a remote controller
// remembers the last page returned by its FetchFunc. Remote fetches are
// numbered, and a response that arrives after a newer fetch was issued is
// discarded.
type Controller[T any] struct {
	mu    sync.Mutex
	mode  Mode
	size  int
	index int

	items []T

	fetch  FetchFunc[T]
	page   Page[T]
	gen    uint64
	err    error
	loaded bool
}

// NewStatic creates a controller over a fully loaded, ordered collection.
func NewStatic[T any](pageSize int, items []T) (*Controller[T], error) {
	if pageSize <= 0 {
		return nil, ErrInvalidPageSize
	}
	return &Controller[T]{mode: ModeStatic, size: pageSize, items: items}, nil
}

// NewRemote creates a controller over a server-paginated source. Nothing is
// fetched until Load, Reset or GoTo is called.
func NewRemote[T any](pageSize int, fetch FetchFunc[T]) (*Controller[T], error) {
	if pageSize <= 0 {
		return nil, ErrInvalidPageSize
	}
	if fetch == nil {
		return nil, errors.New("paging: remote controller needs a fetch function")
	}
	return &Controller[T]{mode: ModeRemote, size: pageSize, fetch: fetch}, nil
}

// SetItems replaces the collection of a static controller and returns to the first page.
func (c *Controller[T]) SetItems(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.index = 0
}

// Reset returns to the first page. Remote controllers refetch it.
func (c *Controller[T]) Reset(ctx context.Context) error {
	if c.mode == ModeStatic {
		c.mu.Lock()
		c.index = 0
		c.mu.Unlock()
		return nil
	}
	return c.fetchPage(ctx, 0)
}

// Load opens the list at page. A static controller behaves as GoTo. A
// remote controller fetches page directly; when the backend reports that
// page is past the end, the last page it reports is loaded instead, and
// the first page if that one is past the end as well.
func (c *Controller[T]) Load(ctx context.Context, page int) error {
	if c.mode == ModeStatic {
		return c.GoTo(ctx, page)
	}
	if page < 0 {
		page = 0
	}
	if err := c.fetchPage(ctx, page); err != nil {
		return err
	}
	last, past := c.pastEnd(page)
	if !past {
		return nil
	}
	if err := c.fetchPage(ctx, last); err != nil {
		return err
	}
	if _, past := c.pastEnd(last); past {
		return c.fetchPage(ctx, 0)
	}
	return nil
}

// pastEnd reports whether the loaded page is page and lies beyond the
// reported page count, together with the last reported page.
func (c *Controller[T]) pastEnd(page int) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := totalPages(c.page.TotalPages)
	return total - 1, c.index == page && page >= total
}

// GoTo moves to page. Pages outside [0, TotalPages) are ignored. In remote
// mode the call blocks until the fetch completes; on failure the previous
// page stays visible and the error is also kept for Err.
func (c *Controller[T]) GoTo(ctx context.Context, page int) error {
	c.mu.Lock()
	if page < 0 || page >= c.totalPagesLocked() {
		c.mu.Unlock()
		return nil
	}
	if c.mode == ModeStatic {
		c.index = page
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()
	return c.fetchPage(ctx, page)
}

func (c *Controller[T]) fetchPage(ctx context.Context, page int) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	res, err := c.fetch(ctx, page)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil
	}
	if err != nil {
		c.err = err
		return err
	}
	c.page = res
	c.index = page
	c.err = nil
	c.loaded = true
	return nil
}

// VisibleItems returns the items of the current page.
func (c *Controller[T]) VisibleItems() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeRemote {
		return c.page.Items
	}
	start := c.index * c.size
	if start >= len(c.items) {
		return nil
	}
	end := start + c.size
	if end > len(c.items) {
		end = len(c.items)
	}
	return c.items[start:end]
}

// Index returns the zero-based current page.
func (c *Controller[T]) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// TotalPages returns the page count, which is never below one.
func (c *Controller[T]) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPagesLocked()
}

func (c *Controller[T]) totalPagesLocked() int {
	if c.mode == ModeRemote {
		return totalPages(c.page.TotalPages)
	}
	return TotalPagesFor(len(c.items), c.size)
}

// Err returns the error of the last remote fetch, or nil once a fetch succeeds.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Loaded reports whether a remote controller holds a fetched page. Static
// controllers are always loaded.
func (c *Controller[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode == ModeStatic || c.loaded
}

// State returns a snapshot of the paging metadata.
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := State{
		Mode:       c.mode,
		Index:      c.index,
		Size:       c.size,
		TotalPages: c.totalPagesLocked(),
	}
	if c.mode == ModeRemote {
		st.TotalItems = c.page.TotalItems
		st.HasNext = c.page.HasNext
		st.HasPrevious = c.page.HasPrevious
		return st
	}
	st.TotalItems = len(c.items)
	st.HasNext = c.index < st.TotalPages-1
	st.HasPrevious = c.index > 0
	return st
}

// PageButtons returns the page indexes to render as buttons around the current page.
func (c *Controller[T]) PageButtons(maxButtons int) []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Window(c.index, c.totalPagesLocked(), maxButtons)
}

// TotalPagesFor computes max(1, ceil(totalItems/pageSize)).
func TotalPagesFor(totalItems, pageSize int) int {
	if pageSize <= 0 || totalItems <= 0 {
		return 1
	}
	return totalPages((totalItems + pageSize - 1) / pageSize)
}

func totalPages(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
