package kilobite

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/kilobite/content"
	"github.com/eringen/kilobite/siteconfig"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// AbsURL resolves a site-relative reference such as an image src against
// base. Absolute references are returned unchanged.
func AbsURL(base, ref string) string {
	r, err := url.Parse(ref)
	if err != nil || r.IsAbs() {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// FilterRelatedPosts finds up to limit posts that share at least one tag with
// current.
func FilterRelatedPosts(current content.Post, posts []content.Post, limit int) []content.Post {
	tagSet := make(map[string]struct{}, len(current.Tags))
	for _, t := range current.Tags {
		tagSet[t] = struct{}{}
	}
	var related []content.Post
	for _, p := range posts {
		if len(related) == limit {
			break
		}
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[t]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// WebsiteJSONLD returns a JSON-LD string for a WebSite schema.
func WebsiteJSONLD(site *siteconfig.Site, baseURL string) string {
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        site.Title(),
		"url":         BuildURL(baseURL),
		"description": site.Description(),
	}
	if img, ok := site.Image(); ok {
		data["image"] = AbsURL(baseURL, img.Src)
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJSONLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJSONLD(post content.Post, site *siteconfig.Site, baseURL string) string {
	postURL := BuildURL(baseURL, "blog", post.Slug)
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Excerpt,
		"datePublished": post.PublishDate.Format("2006-01-02"),
		"url":           postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Title(),
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if !post.UpdatedDate.IsZero() {
		data["dateModified"] = post.UpdatedDate.Format("2006-01-02")
	}
	if post.Image != nil {
		data["image"] = AbsURL(baseURL, post.Image.Src)
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
