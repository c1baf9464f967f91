package views

import (
	"time"

	"github.com/eringen/kilobite/paginate"
	"github.com/eringen/kilobite/siteconfig"
)

// Layout carries everything a page needs around its body. Handlers build one
// per request.
type Layout struct {
	Site  *siteconfig.Site
	Meta  PageMeta
	Path  string // request path, marks the active navigation link
	CSRF  string
	Flash string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image; the site image when empty
	JSONLD      string // pre-encoded schema.org document
	NoIndex     bool
}

// Subscriber is one row of the admin subscriber table.
type Subscriber struct {
	Email string
	Since time.Time
}

// TagCount is one entry of the tag index.
type TagCount struct {
	Tag   string
	Count int
}

// Pager renders the page links of a paginated listing rooted at Base.
type Pager struct {
	Page paginate.Page
	Base string
}

// PageLink is one numbered link in a Pager.
type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// Show reports whether the listing spans more than one page.
func (p Pager) Show() bool { return p.Page.TotalPages > 1 }

// PrevURL returns the previous page address, or "" on the first page.
func (p Pager) PrevURL() string {
	if !p.Page.HasPrev() {
		return ""
	}
	return paginate.URL(p.Base, p.Page.Number-1)
}

// NextURL returns the next page address, or "" on the last page.
func (p Pager) NextURL() string {
	if !p.Page.HasNext() {
		return ""
	}
	return paginate.URL(p.Base, p.Page.Number+1)
}

// Links returns one link per page.
func (p Pager) Links() []PageLink {
	nums := p.Page.Numbers()
	links := make([]PageLink, len(nums))
	for i, n := range nums {
		links[i] = PageLink{Number: n, URL: paginate.URL(p.Base, n), Current: n == p.Page.Number}
	}
	return links
}
