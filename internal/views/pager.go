package views

import (
	"fmt"
	"net/url"
	"strconv"

	"roomadmin/internal/paging"
)

// PageLink is one numbered page button.
type PageLink struct {
	Label  int
	URL    string
	Active bool
}

// Pager is the view model of a list's paging controls. Labels are
// one-based; the query parameter carries the zero-based index.
type Pager struct {
	Links   []PageLink
	PrevURL string
	NextURL string
	HasPrev bool
	HasNext bool
	Summary string

	page, totalPages int
}

// NewPager builds the controls for st with one link per page in buttons.
// The page links copy every other query parameter of current so filters
// and the pages of sibling tables survive navigation.
func NewPager(st paging.State, buttons []int, current *url.URL, key string) Pager {
	link := func(page int) string {
		q := current.Query()
		q.Set(key, strconv.Itoa(page))
		return current.Path + "?" + q.Encode()
	}

	p := Pager{
		HasPrev:    st.Index > 0,
		HasNext:    st.Index < st.TotalPages-1,
		Summary:    fmt.Sprintf("Page %d of %d (%d items)", st.Index+1, st.TotalPages, st.TotalItems),
		page:       st.Index,
		totalPages: st.TotalPages,
	}
	for _, i := range buttons {
		p.Links = append(p.Links, PageLink{Label: i + 1, URL: link(i), Active: i == st.Index})
	}
	if p.HasPrev {
		p.PrevURL = link(st.Index - 1)
	}
	if p.HasNext {
		p.NextURL = link(st.Index + 1)
	}
	return p
}

// PagerFor is NewPager over a controller's current state. A remote list
// that never loaded gets no summary.
func PagerFor[T any](c *paging.Controller[T], current *url.URL, key string) Pager {
	p := NewPager(c.State(), c.PageButtons(paging.DefaultButtons), current, key)
	if !c.Loaded() {
		p.Summary = ""
	}
	return p
}

// WithoutCount drops the item count from the summary, for lists whose
// size the backend does not report.
func (p Pager) WithoutCount() Pager {
	if p.Summary != "" {
		p.Summary = fmt.Sprintf("Page %d of %d", p.page+1, p.totalPages)
	}
	return p
}
