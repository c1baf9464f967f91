package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func mustRender(t *testing.T, input string) string {
	t.Helper()
	got, err := Render(input)
	if err != nil {
		t.Fatalf("Render(%q) failed: %v", input, err)
	}
	return got
}

func TestInlineEmphasis(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"__bold__", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"_italic_", "<em>italic</em>"},
		{"text **bold** more", "text <strong>bold</strong> more"},
		{"**bold *italic* text**", "<strong>bold <em>italic</em> text</strong>"},
		{"use `go test`", "use <code>go test</code>"},
	}
	for _, tt := range tests {
		got := Inline(tt.input)
		if got != tt.expected {
			t.Errorf("Inline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestInlineStripsBlockMarkup(t *testing.T) {
	got := Inline("hello <script>alert(1)</script> world")
	if strings.Contains(got, "<script") {
		t.Errorf("Inline should drop script tags: %q", got)
	}
	if strings.HasPrefix(got, "<p>") {
		t.Errorf("Inline should not wrap in a paragraph: %q", got)
	}
}

func TestInlineLinks(t *testing.T) {
	got := Inline("read [the blog](/blog)")
	if !strings.Contains(got, `<a href="/blog">the blog</a>`) {
		t.Errorf("Inline link = %q", got)
	}
	if strings.Contains(got, "nofollow") {
		t.Errorf("Inline link should not be nofollow: %q", got)
	}
	got = Inline("[bad](javascript:alert(1))")
	if strings.Contains(got, "javascript:") {
		t.Errorf("Inline should drop javascript links: %q", got)
	}
}

func TestRenderCodeBlockWithLanguage(t *testing.T) {
	got := mustRender(t, "```go\nfmt.Println(\"hello\")\n```")
	if !strings.Contains(got, `class="language-go"`) {
		t.Errorf("code block should have language-go class: %q", got)
	}
	if !strings.Contains(got, "<pre>") {
		t.Errorf("code block should be wrapped in pre: %q", got)
	}
}

func TestRenderCodeBlockWithoutLanguage(t *testing.T) {
	got := mustRender(t, "```\nplain code\n```")
	if strings.Contains(got, "language-") {
		t.Errorf("code block without language should not have a class: %q", got)
	}
	if !strings.Contains(got, "plain code") {
		t.Errorf("code block missing content: %q", got)
	}
}

func TestRenderHeadingsHaveIDs(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading One", `<h1 id="heading-one">Heading One</h1>`},
		{"## Heading Two", `<h2 id="heading-two">Heading Two</h2>`},
		{"### Heading Three", `<h3 id="heading-three">Heading Three</h3>`},
	}
	for _, tt := range tests {
		got := mustRender(t, tt.input)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("Render(%q) = %q, want to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderTable(t *testing.T) {
	got := mustRender(t, "| a | b |\n|---|---|\n| 1 | 2 |")
	for _, want := range []string{"<table>", "<th>a</th>", "<td>2</td>"} {
		if !strings.Contains(got, want) {
			t.Errorf("Render table missing %q: %q", want, got)
		}
	}
}

func TestRenderSanitizesHTML(t *testing.T) {
	got := mustRender(t, "<script>alert(1)</script>\n\n<img src=x onerror=alert(1)>")
	if strings.Contains(got, "<script") || strings.Contains(got, "onerror") {
		t.Errorf("Render should sanitize raw HTML: %q", got)
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("Hello **world**").Render(context.Background(), &buf); err != nil {
		t.Fatalf("render component: %v", err)
	}
	if !strings.Contains(buf.String(), "<strong>world</strong>") {
		t.Errorf("component output = %q", buf.String())
	}
}

func TestExcerpt(t *testing.T) {
	input := "# Title\n\nFirst **paragraph** spans\ntwo lines.\n\nSecond paragraph."
	got := Excerpt(input, 0)
	if got != "First paragraph spans two lines." {
		t.Errorf("Excerpt = %q", got)
	}
	got = Excerpt("A rather long sentence", 8)
	if got != "A rather…" {
		t.Errorf("Excerpt truncated = %q", got)
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/blog", "/blog"},
		{"#", "#"},
		{"https://example.com", "https://example.com"},
		{"mailto:me@example.com", "mailto:me@example.com"},
		{"javascript:alert(1)", ""},
		{"relative/path", ""},
		{"//evil.example/x", ""},
		{"/\\evil.example/x", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
