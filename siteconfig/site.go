package siteconfig

// Site is a validated, frozen site configuration. It has no mutators; every
// accessor hands out copies, so a Site can be shared freely between goroutines.
type Site struct {
	cfg Config
}

// New validates cfg and returns a frozen Site holding a deep copy of it.
// Malformed configurations fail with a *ValidationError.
func New(cfg Config) (*Site, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return &Site{cfg: cfg.clone()}, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew(cfg Config) *Site {
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// Config returns a deep copy of the literal configuration.
func (s *Site) Config() Config {
	return s.cfg.clone()
}

// Title returns the site title.
func (s *Site) Title() string {
	return s.cfg.Title
}

// Description returns the site description.
func (s *Site) Description() string {
	return s.cfg.Description
}

// Logo returns the logo path, if configured.
func (s *Site) Logo() (string, bool) {
	return deref(s.cfg.Logo)
}

// Subtitle returns the subtitle, if configured.
func (s *Site) Subtitle() (string, bool) {
	return deref(s.cfg.Subtitle)
}

// Image returns the site preview image, if configured.
func (s *Site) Image() (Image, bool) {
	if s.cfg.Image == nil {
		return Image{}, false
	}
	return *s.cfg.Image.clone(), true
}

// HeaderNavLinks returns the header navigation in configured order.
func (s *Site) HeaderNavLinks() []Link {
	return cloneLinks(s.cfg.HeaderNavLinks)
}

// FooterNavLinks returns the footer navigation in configured order.
func (s *Site) FooterNavLinks() []Link {
	return cloneLinks(s.cfg.FooterNavLinks)
}

// SocialLinks returns the social profile links in configured order.
func (s *Site) SocialLinks() []Link {
	return cloneLinks(s.cfg.SocialLinks)
}

// Hero returns the hero section. ok is false when the site has no hero, in
// which case the section must not be rendered at all.
func (s *Site) Hero() (hero Hero, ok bool) {
	if s.cfg.Hero == nil {
		return Hero{}, false
	}
	return *s.cfg.Hero.clone(), true
}

// Subscribe returns the subscribe block, if configured.
func (s *Site) Subscribe() (Subscribe, bool) {
	if s.cfg.Subscribe == nil {
		return Subscribe{}, false
	}
	return *s.cfg.Subscribe.clone(), true
}

// PostsPerPage returns the blog listing page size, if configured.
func (s *Site) PostsPerPage() (int, bool) {
	return derefInt(s.cfg.PostsPerPage)
}

// ProjectsPerPage returns the project listing page size, if configured.
func (s *Site) ProjectsPerPage() (int, bool) {
	return derefInt(s.cfg.ProjectsPerPage)
}

func deref(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}

func derefInt(p *int) (int, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
