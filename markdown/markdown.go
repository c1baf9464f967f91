// Package markdown renders Markdown to sanitized HTML, as strings or templ components.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	// Post bodies: user-generated-content policy plus code language classes
	// and heading anchors.
	blockPolicy = func() *bluemonday.Policy {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+#-]+$`)).OnElements("code")
		p.AllowAttrs("id").Matching(regexp.MustCompile(`^[\w-]+$`)).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
		p.RequireNoFollowOnLinks(false)
		return p
	}()

	// Hero text and other one-liners: emphasis, code and links only.
	inlinePolicy = func() *bluemonday.Policy {
		p := bluemonday.NewPolicy()
		p.AllowElements("em", "strong", "code", "del")
		p.AllowAttrs("href").OnElements("a")
		p.AllowStandardURLs()
		p.RequireNoFollowOnLinks(false)
		p.AllowRelativeURLs(true)
		return p
	}()
)

// Render converts md to sanitized HTML.
func Render(content string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return blockPolicy.Sanitize(buf.String()), nil
}

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := Render(content)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}

// Inline renders a single line of Markdown (emphasis, strong, code, links)
// without a surrounding paragraph.
func Inline(s string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(strings.TrimSpace(s)), &buf); err != nil {
		return html.EscapeString(s)
	}
	out := strings.TrimSpace(buf.String())
	out = strings.TrimPrefix(out, "<p>")
	out = strings.TrimSuffix(out, "</p>")
	return inlinePolicy.Sanitize(out)
}

// Excerpt returns the plain text of the first paragraph of md, cut at max runes.
func Excerpt(content string, max int) string {
	var para []string
	inCode := false
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "```") {
			inCode = !inCode
			continue
		}
		if inCode {
			continue
		}
		if line == "" {
			if len(para) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") || strings.HasPrefix(line, "|") {
			continue
		}
		para = append(para, line)
	}
	text := bluemonday.StrictPolicy().Sanitize(Inline(strings.Join(para, " ")))
	text = html.UnescapeString(text)
	if r := []rune(text); max > 0 && len(r) > max {
		text = strings.TrimSpace(string(r[:max])) + "…"
	}
	return text
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	// Protocol-relative "//host" leaves the site, so it needs an explicit scheme.
	if isSitePath(val) || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}

// isSitePath reports whether u is a path on this site rather than a
// protocol-relative reference to another host.
func isSitePath(u string) bool {
	return strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "//") && !strings.HasPrefix(u, "/\\")
}
