package views

import (
	"strconv"

	"github.com/dmitrijs2005/ums/internal/client/models"
)

const pagerWindow = 5

// PagerLink is one numbered link. Page is zero-based; Label is one-based.
type PagerLink struct {
	Page    int
	Label   int
	Current bool
}

type Pager struct {
	Visible bool

	Current      int
	Prev, Next   int
	PrevDisabled bool
	NextDisabled bool

	// First and Last are shortcuts shown when the window does not reach the
	// ends. The gaps get an ellipsis.
	ShowFirst bool
	FirstGap  bool
	ShowLast  bool
	LastGap   bool
	LastPage  int
	LastLabel int

	Links []PagerLink
}

// NewPager lays out a window of up to five page links centred on the current
// page. Nothing is rendered when there is at most one page. A current page
// outside the range is pinned to the nearest end.
func NewPager(p models.Pagination) Pager {
	if p.TotalPages <= 1 {
		return Pager{}
	}
	last := p.TotalPages - 1
	current := min(max(p.CurrentPage, 0), last)

	start := max(0, current-pagerWindow/2)
	end := min(last, start+pagerWindow-1)
	if end-start < pagerWindow-1 {
		start = max(0, end-pagerWindow+1)
	}

	pg := Pager{
		Visible:      true,
		Current:      current,
		Prev:         current - 1,
		Next:         current + 1,
		PrevDisabled: current == 0,
		NextDisabled: current == last,
		ShowFirst:    start > 0,
		FirstGap:     start > 1,
		ShowLast:     end < last,
		LastGap:      end < last-1,
		LastPage:     last,
		LastLabel:    p.TotalPages,
	}
	for i := start; i <= end; i++ {
		pg.Links = append(pg.Links, PagerLink{Page: i, Label: i + 1, Current: i == current})
	}
	return pg
}

// Labels renders the pager as text, for the CLI and for tests:
// "‹ 1 … 4 [5] 6 … 10 ›". Disabled arrows are omitted.
func (p Pager) Labels() []string {
	if !p.Visible {
		return nil
	}
	var out []string
	if !p.PrevDisabled {
		out = append(out, "‹")
	}
	if p.ShowFirst {
		out = append(out, "1")
		if p.FirstGap {
			out = append(out, "…")
		}
	}
	for _, l := range p.Links {
		s := strconv.Itoa(l.Label)
		if l.Current {
			s = "[" + s + "]"
		}
		out = append(out, s)
	}
	if p.ShowLast {
		if p.LastGap {
			out = append(out, "…")
		}
		out = append(out, strconv.Itoa(p.LastLabel))
	}
	if !p.NextDisabled {
		out = append(out, "›")
	}
	return out
}
