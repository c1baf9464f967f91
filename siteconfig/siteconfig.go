// Package siteconfig defines the site-wide settings of a Kilobite site: metadata,
// navigation, hero section, subscribe form and listing page sizes.
//
// A Config holds the literal fields. New validates a Config and freezes it into a
// Site, which exposes read-only accessors and is safe to share between goroutines.
// Optional fields are pointers; nil means absent.
package siteconfig

// Image is a picture reference used for the site preview, the hero and post covers.
type Image struct {
	Src     string  `json:"src" yaml:"src"`
	Alt     *string `json:"alt,omitempty" yaml:"alt,omitempty"`
	Caption *string `json:"caption,omitempty" yaml:"caption,omitempty"`
}

// AltText returns the alt text, or "" when none is configured.
func (i Image) AltText() string {
	if i.Alt == nil {
		return ""
	}
	return *i.Alt
}

// Link is a labelled destination. Href may be absolute or site-relative.
type Link struct {
	Text string `json:"text" yaml:"text"`
	Href string `json:"href" yaml:"href"`
}

// Hero is the introductory section of the landing page.
type Hero struct {
	Title   *string `json:"title,omitempty" yaml:"title,omitempty"`
	Text    *string `json:"text,omitempty" yaml:"text,omitempty"` // inline Markdown
	Image   *Image  `json:"image,omitempty" yaml:"image,omitempty"`
	Actions []Link  `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// Subscribe is the newsletter call-to-action.
type Subscribe struct {
	Title   *string `json:"title,omitempty" yaml:"title,omitempty"`
	Text    *string `json:"text,omitempty" yaml:"text,omitempty"`
	FormURL string  `json:"formUrl" yaml:"formUrl"`
}

// Config is the literal form of the site settings. Field order here is the order
// used when the configuration is serialized.
type Config struct {
	Title           string     `json:"title" yaml:"title"`
	Description     string     `json:"description" yaml:"description"`
	Logo            *string    `json:"logo,omitempty" yaml:"logo,omitempty"`
	Subtitle        *string    `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Image           *Image     `json:"image,omitempty" yaml:"image,omitempty"`
	HeaderNavLinks  []Link     `json:"headerNavLinks,omitempty" yaml:"headerNavLinks,omitempty"`
	FooterNavLinks  []Link     `json:"footerNavLinks,omitempty" yaml:"footerNavLinks,omitempty"`
	SocialLinks     []Link     `json:"socialLinks,omitempty" yaml:"socialLinks,omitempty"`
	Hero            *Hero      `json:"hero,omitempty" yaml:"hero,omitempty"`
	Subscribe       *Subscribe `json:"subscribe,omitempty" yaml:"subscribe,omitempty"`
	PostsPerPage    *int       `json:"postsPerPage,omitempty" yaml:"postsPerPage,omitempty"`
	ProjectsPerPage *int       `json:"projectsPerPage,omitempty" yaml:"projectsPerPage,omitempty"`
}

// String returns a pointer to s, for filling optional fields in literals.
func String(s string) *string { return &s }

// Int returns a pointer to n, for filling optional fields in literals.
func Int(n int) *int { return &n }

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

// cloneLinks copies links; an empty sequence becomes nil since absence and
// emptiness mean the same thing.
func cloneLinks(links []Link) []Link {
	if len(links) == 0 {
		return nil
	}
	out := make([]Link, len(links))
	copy(out, links)
	return out
}

func (i *Image) clone() *Image {
	if i == nil {
		return nil
	}
	return &Image{
		Src:     i.Src,
		Alt:     cloneString(i.Alt),
		Caption: cloneString(i.Caption),
	}
}

func (h *Hero) clone() *Hero {
	if h == nil {
		return nil
	}
	return &Hero{
		Title:   cloneString(h.Title),
		Text:    cloneString(h.Text),
		Image:   h.Image.clone(),
		Actions: cloneLinks(h.Actions),
	}
}

func (s *Subscribe) clone() *Subscribe {
	if s == nil {
		return nil
	}
	return &Subscribe{
		Title:   cloneString(s.Title),
		Text:    cloneString(s.Text),
		FormURL: s.FormURL,
	}
}

func (c Config) clone() Config {
	return Config{
		Title:           c.Title,
		Description:     c.Description,
		Logo:            cloneString(c.Logo),
		Subtitle:        cloneString(c.Subtitle),
		Image:           c.Image.clone(),
		HeaderNavLinks:  cloneLinks(c.HeaderNavLinks),
		FooterNavLinks:  cloneLinks(c.FooterNavLinks),
		SocialLinks:     cloneLinks(c.SocialLinks),
		Hero:            c.Hero.clone(),
		Subscribe:       c.Subscribe.clone(),
		PostsPerPage:    cloneInt(c.PostsPerPage),
		ProjectsPerPage: cloneInt(c.ProjectsPerPage),
	}
}
