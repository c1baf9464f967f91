package kilobite

import (
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/eringen/kilobite/content"
)

// ErrNotFound is returned when a requested post, project, page or subscriber
// does not exist.
var ErrNotFound = sql.ErrNoRows

// snapshot is one consistent read of the store.
type snapshot struct {
	posts    []content.Post
	projects []content.Project
	pages    []content.Page
	tags     []string
}

// PostCache is an in-memory cache of the indexed content with TTL. The
// content reload invalidates it.
type PostCache struct {
	mu      sync.RWMutex
	snap    *snapshot
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.snap != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

func (c *PostCache) load() error {
	if c.valid() {
		return nil
	}
	var (
		s   snapshot
		err error
	)
	if s.posts, err = c.store.ListPosts(""); err != nil {
		return err
	}
	if s.projects, err = c.store.ListProjects(); err != nil {
		return err
	}
	if s.pages, err = c.store.ListPages(); err != nil {
		return err
	}
	if s.tags, err = c.store.ListTags(); err != nil {
		return err
	}
	c.snap = &s
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns the cached snapshot after ensuring it is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded() (*snapshot, error) {
	c.mu.RLock()
	if c.valid() {
		s := c.snap
		c.mu.RUnlock()
		return s, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, err
	}
	return c.snap, nil
}

// ListPosts returns posts newest first, optionally filtered by tag.
func (c *PostCache) ListPosts(tag string) ([]content.Post, error) {
	s, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return s.posts, nil
	}
	normalized := normalizeTag(tag)
	var filtered []content.Post
	for _, p := range s.posts {
		for _, t := range p.Tags {
			if t == normalized {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// FeaturedPosts returns up to limit posts marked isFeatured.
func (c *PostCache) FeaturedPosts(limit int) ([]content.Post, error) {
	s, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	var featured []content.Post
	for _, p := range s.posts {
		if len(featured) == limit {
			break
		}
		if p.Featured {
			featured = append(featured, p)
		}
	}
	return featured, nil
}

// ListTags returns all unique post tags.
func (c *PostCache) ListTags() ([]string, error) {
	s, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	return s.tags, nil
}

// TagCounts returns how many posts carry each tag, keyed by tag.
func (c *PostCache) TagCounts() (map[string]int, error) {
	s, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(s.tags))
	for _, p := range s.posts {
		for _, t := range p.Tags {
			counts[t]++
		}
	}
	return counts, nil
}

// GetPost returns a single post by slug from the cache.
func (c *PostCache) GetPost(slug string) (content.Post, error) {
	s, err := c.ensureLoaded()
	if err != nil {
		return content.Post{}, err
	}
	for _, p := range s.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return content.Post{}, ErrNotFound
}

// ListProjects returns projects newest first.
func (c *PostCache) ListProjects() ([]content.Project, error) {
	s, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	return s.projects, nil
}

// GetProject returns a single project by slug from the cache.
func (c *PostCache) GetProject(slug string) (content.Project, error) {
	s, err := c.ensureLoaded()
	if err != nil {
		return content.Project{}, err
	}
	for _, p := range s.projects {
		if p.Slug == slug {
			return p, nil
		}
	}
	return content.Project{}, ErrNotFound
}

// ListPages returns every standalone page.
func (c *PostCache) ListPages() ([]content.Page, error) {
	s, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	return s.pages, nil
}

// GetPage returns a standalone page by slug from the cache.
func (c *PostCache) GetPage(slug string) (content.Page, error) {
	s, err := c.ensureLoaded()
	if err != nil {
		return content.Page{}, err
	}
	for _, p := range s.pages {
		if p.Slug == slug {
			return p, nil
		}
	}
	return content.Page{}, ErrNotFound
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
