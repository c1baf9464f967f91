package siteconfig

import (
	"fmt"
	"strings"
)

// FieldError describes one rejected field.
type FieldError struct {
	Path   string // e.g. "postsPerPage", "headerNavLinks[1].href"
	Reason string
}

func (f FieldError) String() string {
	return f.Path + ": " + f.Reason
}

// ValidationError is returned when a configuration is malformed. It lists every
// offending field path.
type ValidationError struct {
	fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.fields))
	for i, f := range e.fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("siteconfig: invalid configuration [%s]", strings.Join(parts, "; "))
}

// Fields returns a copy of the rejected fields in the order they were found.
func (e *ValidationError) Fields() []FieldError {
	out := make([]FieldError, len(e.fields))
	copy(out, e.fields)
	return out
}

// Paths returns the rejected field paths.
func (e *ValidationError) Paths() []string {
	out := make([]string, len(e.fields))
	for i, f := range e.fields {
		out[i] = f.Path
	}
	return out
}

// HasField reports whether path was rejected.
func (e *ValidationError) HasField(path string) bool {
	for _, f := range e.fields {
		if f.Path == path {
			return true
		}
	}
	return false
}

type validator struct {
	fields []FieldError
}

func (v *validator) fail(path, format string, args ...any) {
	v.fields = append(v.fields, FieldError{Path: path, Reason: fmt.Sprintf(format, args...)})
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{fields: v.fields}
}

func (v *validator) required(path, value string) {
	if strings.TrimSpace(value) == "" {
		v.fail(path, "is required")
	}
}

func (v *validator) positive(path string, n *int) {
	if n != nil && *n <= 0 {
		v.fail(path, "must be a positive integer, got %d", *n)
	}
}

func (v *validator) image(path string, img *Image) {
	if img == nil {
		return
	}
	v.required(path+".src", img.Src)
}

func (v *validator) links(path string, links []Link) {
	for i, l := range links {
		p := fmt.Sprintf("%s[%d]", path, i)
		v.required(p+".text", l.Text)
		v.required(p+".href", l.Href)
	}
}

func validate(c Config) error {
	v := &validator{}
	v.required("title", c.Title)
	v.required("description", c.Description)
	v.image("image", c.Image)
	v.links("headerNavLinks", c.HeaderNavLinks)
	v.links("footerNavLinks", c.FooterNavLinks)
	v.links("socialLinks", c.SocialLinks)
	if c.Hero != nil {
		v.image("hero.image", c.Hero.Image)
		v.links("hero.actions", c.Hero.Actions)
	}
	if c.Subscribe != nil && c.Subscribe.FormURL == "" {
		v.fail("subscribe.formUrl", "is required when subscribe is set")
	}
	v.positive("postsPerPage", c.PostsPerPage)
	v.positive("projectsPerPage", c.ProjectsPerPage)
	return v.err()
}
