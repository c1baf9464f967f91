// Package content loads the Markdown posts, projects and pages of a site.
//
// Files live under <dir>/blog, <dir>/projects and <dir>/pages. Each file starts
// with a YAML front matter block; the file name (without extension) is the slug.
package content

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/eringen/kilobite/siteconfig"
)

const (
	// BlogDir, ProjectsDir and PagesDir are the subdirectories read by Load.
	BlogDir     = "blog"
	ProjectsDir = "projects"
	PagesDir    = "pages"

	wordsPerMinute = 200
	excerptLength  = 200
)

// Post is a blog post.
type Post struct {
	Slug        string
	Title       string
	Excerpt     string
	PublishDate time.Time
	UpdatedDate time.Time // zero when never updated
	Featured    bool
	Draft       bool
	Tags        []string
	Image       *siteconfig.Image
	Body        string // Markdown source
	HTML        string // rendered, sanitized body
	ReadingTime int    // minutes
}

// Link returns the site-relative URL of the post.
func (p Post) Link() string {
	return "/blog/" + p.Slug + "/"
}

// Project is a portfolio entry.
type Project struct {
	Slug        string
	Title       string
	Description string
	PublishDate time.Time
	Featured    bool
	Tags        []string
	Image       *siteconfig.Image
	URL         string // external project URL, optional
	Body        string
	HTML        string
}

// Link returns the site-relative URL of the project.
func (p Project) Link() string {
	return "/projects/" + p.Slug + "/"
}

// Page is a standalone page such as /about/.
type Page struct {
	Slug        string
	Title       string
	Description string
	Body        string
	HTML        string
}

// Link returns the site-relative URL of the page.
func (p Page) Link() string {
	return "/" + p.Slug + "/"
}

// Collection is everything Load found.
type Collection struct {
	Posts    []Post
	Projects []Project
	Pages    []Page
}

// Tags returns every tag used by the posts, sorted and deduplicated.
func (c *Collection) Tags() []string {
	set := make(map[string]struct{})
	for _, p := range c.Posts {
		for _, t := range p.Tags {
			set[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Slugify converts a title or file name to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// NormalizeTags lower-cases, trims and deduplicates tags, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// ParseDate accepts the date layouts used in front matter. It returns an error
// for anything else so typos are not silently dropped.
func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02 15:04",
		"2006/01/02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", v)
}

func readingTime(body string) int {
	words := len(strings.Fields(body))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
