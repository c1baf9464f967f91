// Package paginate splits listings into fixed-size pages.
package paginate

import (
	"errors"
	"strconv"
	"strings"
)

// DefaultPerPage is used when the site configuration does not set a page size.
const DefaultPerPage = 10

// ErrPageOutOfRange is returned for page numbers below 1 or past the last page.
var ErrPageOutOfRange = errors.New("paginate: page out of range")

// Page describes one page of a listing. Start and End index the full listing,
// End exclusive.
type Page struct {
	Number     int
	PerPage    int
	Total      int
	TotalPages int
	Start      int
	End        int
}

// PerPage returns n when ok, otherwise DefaultPerPage. It matches the
// (value, ok) accessors of siteconfig.Site.
func PerPage(n int, ok bool) int {
	if !ok || n <= 0 {
		return DefaultPerPage
	}
	return n
}

// New computes page number of a listing with total items. Page 1 of an empty
// listing is valid and has no items.
func New(total, perPage, number int) (Page, error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if total < 0 {
		total = 0
	}
	pages := (total + perPage - 1) / perPage
	if pages == 0 {
		pages = 1
	}
	if number < 1 || number > pages {
		return Page{}, ErrPageOutOfRange
	}
	start := (number - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}
	return Page{
		Number:     number,
		PerPage:    perPage,
		Total:      total,
		TotalPages: pages,
		Start:      start,
		End:        end,
	}, nil
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Numbers returns 1..TotalPages for rendering page links.
func (p Page) Numbers() []int {
	out := make([]int, p.TotalPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Slice returns the items that belong on page p.
func Slice[T any](items []T, p Page) []T {
	if p.Start >= len(items) {
		return nil
	}
	end := p.End
	if end > len(items) {
		end = len(items)
	}
	return items[p.Start:end]
}

// URL returns the address of page n of the listing rooted at base: base itself
// for the first page, base/page/n/ afterwards.
func URL(base string, n int) string {
	base = "/" + strings.Trim(base, "/") + "/"
	if base == "//" {
		base = "/"
	}
	if n <= 1 {
		return base
	}
	return base + "page/" + strconv.Itoa(n) + "/"
}
