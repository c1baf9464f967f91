// Package views renders the Kilobite pages. Templates are embedded
// html/template files; every page is exposed as a templ.Component so the
// server and the static build render them the same way.
package views

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/kilobite/content"
	"github.com/eringen/kilobite/siteconfig"
)

//go:embed templates
var templateFS embed.FS

var parsed = sync.OnceValues(parseTemplates)

// parseTemplates clones the shared layout once per page so each page can
// define its own "content" block.
func parseTemplates() (map[string]*template.Template, error) {
	base, err := template.New("layout").Funcs(funcs()).ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("views: parse layout: %w", err)
	}
	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("views: parse %s: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}
	return pages, nil
}

// chrome is the site configuration flattened for templates, which cannot
// call the two-value accessors of siteconfig.Site.
type chrome struct {
	Title       string
	Description string
	Logo        string
	Subtitle    string
	Image       *siteconfig.Image
	HeaderNav   []siteconfig.Link
	FooterNav   []siteconfig.Link
	Social      []siteconfig.Link
	Hero        *siteconfig.Hero
	Subscribe   *siteconfig.Subscribe
}

func newChrome(s *siteconfig.Site) chrome {
	if s == nil {
		s = siteconfig.Default()
	}
	c := chrome{
		Title:       s.Title(),
		Description: s.Description(),
		HeaderNav:   s.HeaderNavLinks(),
		FooterNav:   s.FooterNavLinks(),
		Social:      s.SocialLinks(),
	}
	c.Logo, _ = s.Logo()
	c.Subtitle, _ = s.Subtitle()
	if img, ok := s.Image(); ok {
		c.Image = &img
	}
	if hero, ok := s.Hero(); ok {
		c.Hero = &hero
	}
	if sub, ok := s.Subscribe(); ok {
		c.Subscribe = &sub
	}
	return c
}

type document struct {
	Site  chrome
	Meta  PageMeta
	Path  string
	CSRF  string
	Flash string
	Year  int
	Body  any
}

// page renders the named page template into the layout. Output is buffered so
// a template error never leaves a half-written response.
func page(name string, l Layout, body any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		pages, err := parsed()
		if err != nil {
			return err
		}
		t, ok := pages[name]
		if !ok {
			return fmt.Errorf("views: unknown page %q", name)
		}
		doc := document{
			Site:  newChrome(l.Site),
			Meta:  l.Meta,
			Path:  l.Path,
			CSRF:  l.CSRF,
			Flash: l.Flash,
			Year:  time.Now().Year(),
			Body:  body,
		}
		var buf bytes.Buffer
		if err := t.ExecuteTemplate(&buf, "layout", doc); err != nil {
			return fmt.Errorf("views: render %s: %w", name, err)
		}
		_, err = buf.WriteTo(w)
		return err
	})
}

// Home renders the landing page: hero, featured posts and the latest posts.
func Home(l Layout, featured, recent []content.Post, more bool) templ.Component {
	return page("home", l, struct {
		Featured []content.Post
		Recent   []content.Post
		More     bool
	}{featured, recent, more})
}

// Blog renders one page of the post listing.
func Blog(l Layout, posts []content.Post, pager Pager) templ.Component {
	return page("blog", l, struct {
		Posts []content.Post
		Pager Pager
	}{posts, pager})
}

// Post renders a single post with related posts.
func Post(l Layout, post content.Post, related []content.Post) templ.Component {
	return page("post", l, struct {
		Post    content.Post
		Related []content.Post
	}{post, related})
}

// Tags renders the tag index.
func Tags(l Layout, tags []TagCount) templ.Component {
	return page("tags", l, struct{ Tags []TagCount }{tags})
}

// Tag renders one page of the posts carrying tag.
func Tag(l Layout, tag string, posts []content.Post, pager Pager) templ.Component {
	return page("tag", l, struct {
		Tag   string
		Posts []content.Post
		Pager Pager
	}{tag, posts, pager})
}

// Projects renders one page of the project listing.
func Projects(l Layout, projects []content.Project, pager Pager) templ.Component {
	return page("projects", l, struct {
		Projects []content.Project
		Pager    Pager
	}{projects, pager})
}

// Project renders a single project.
func Project(l Layout, project content.Project) templ.Component {
	return page("project", l, struct{ Project content.Project }{project})
}

// Page renders a standalone content page.
func Page(l Layout, p content.Page) templ.Component {
	return page("page", l, struct{ Page content.Page }{p})
}

// AdminLogin renders the admin password form.
func AdminLogin(l Layout, showError bool) templ.Component {
	return page("admin_login", l, struct{ ShowError bool }{showError})
}

// AdminSubscribers renders the subscriber table.
func AdminSubscribers(l Layout, subs []Subscriber, message string) templ.Component {
	return page("admin_subscribers", l, struct {
		Subscribers []Subscriber
		Message     string
	}{subs, message})
}

// NotFound renders the 404 page.
func NotFound(l Layout) templ.Component {
	return page("not_found", l, nil)
}

// ServerError renders the 500 page.
func ServerError(l Layout) templ.Component {
	return page("server_error", l, nil)
}
