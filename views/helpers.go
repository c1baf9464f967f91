package views

import (
	"html"
	"html/template"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/eringen/kilobite/markdown"
	"github.com/eringen/kilobite/siteconfig"
)

var titleCaser = cases.Title(language.English)

func funcs() template.FuncMap {
	return template.FuncMap{
		"href":     Href,
		"inline":   func(s string) template.HTML { return template.HTML(markdown.Inline(s)) },
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
		"jsonld":   func(s string) template.JS { return template.JS(s) },
		"date":     func(t time.Time) string { return t.Format("Jan 2, 2006") },
		"isoDate":  func(t time.Time) string { return t.Format("2006-01-02") },
		"tagTitle": TagTitle,
		"tagURL":   TagURL,
		"alt": func(img *siteconfig.Image) string {
			if img == nil {
				return ""
			}
			return img.AltText()
		},
		"active": IsActive,
		"local":  isLocal,
		"deref": func(p *string) string {
			if p == nil {
				return ""
			}
			return *p
		},
	}
}

// Href returns raw as a template URL when it is site-relative, a fragment or
// uses an allowed scheme, and "#" otherwise.
func Href(raw string) template.URL {
	safe := markdown.SafeURL(raw)
	if safe == "" {
		return "#"
	}
	return template.URL(html.UnescapeString(safe))
}

// TagTitle formats a normalized tag for headings: "machine-learning" becomes
// "Machine Learning".
func TagTitle(tag string) string {
	return titleCaser.String(strings.ReplaceAll(tag, "-", " "))
}

// TagURL returns the listing address of a tag.
func TagURL(tag string) string {
	return "/tags/" + url.PathEscape(tag) + "/"
}

// IsActive reports whether the navigation link href points at the section
// containing path. The root link only matches the root itself.
func IsActive(path, href string) bool {
	href = strings.TrimSuffix(href, "/")
	path = strings.TrimSuffix(path, "/")
	if href == "" {
		return path == ""
	}
	if !strings.HasPrefix(href, "/") {
		return false
	}
	return path == href || strings.HasPrefix(path, href+"/")
}

func isLocal(u string) bool {
	return strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "//") && !strings.HasPrefix(u, "/\\")
}
