package kilobite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/kilobite/content"
	"github.com/eringen/kilobite/siteconfig"
)

// Store indexes the loaded content in SQLite and keeps the newsletter
// subscribers. Posts, projects and pages are rebuilt from disk by SyncContent;
// subscribers are the only rows written by visitors.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the content reload write while pages are being read.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    publish_date TEXT NOT NULL,
    updated_date TEXT NOT NULL DEFAULT '',
    featured INTEGER NOT NULL DEFAULT 0,
    draft INTEGER NOT NULL DEFAULT 0,
    tags TEXT NOT NULL,
    image_src TEXT NOT NULL DEFAULT '',
    image_alt TEXT,
    image_caption TEXT,
    html TEXT NOT NULL,
    reading_time INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS projects (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    publish_date TEXT NOT NULL,
    featured INTEGER NOT NULL DEFAULT 0,
    tags TEXT NOT NULL,
    image_src TEXT NOT NULL DEFAULT '',
    image_alt TEXT,
    image_caption TEXT,
    url TEXT NOT NULL DEFAULT '',
    html TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS pages (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    html TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS subscribers (
    email TEXT PRIMARY KEY,
    created_at TEXT NOT NULL
);
`)
	return err
}

// SyncContent replaces every post, project and page with the contents of c in
// a single transaction, so readers never see a half-loaded site.
func (s *Store) SyncContent(c *content.Collection) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"posts", "projects", "pages"} {
		if _, err = tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for _, p := range c.Posts {
		src, alt, caption := imageColumns(p.Image)
		_, err = tx.Exec(`INSERT INTO posts (slug, title, excerpt, publish_date, updated_date, featured, draft, tags, image_src, image_alt, image_caption, html, reading_time) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Slug, p.Title, p.Excerpt, formatDate(p.PublishDate), formatDate(p.UpdatedDate),
			boolInt(p.Featured), boolInt(p.Draft), joinTags(p.Tags), src, alt, caption, p.HTML, p.ReadingTime)
		if err != nil {
			return fmt.Errorf("insert post %s: %w", p.Slug, err)
		}
	}
	for _, p := range c.Projects {
		src, alt, caption := imageColumns(p.Image)
		_, err = tx.Exec(`INSERT INTO projects (slug, title, description, publish_date, featured, tags, image_src, image_alt, image_caption, url, html) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Slug, p.Title, p.Description, formatDate(p.PublishDate), boolInt(p.Featured),
			joinTags(p.Tags), src, alt, caption, p.URL, p.HTML)
		if err != nil {
			return fmt.Errorf("insert project %s: %w", p.Slug, err)
		}
	}
	for _, p := range c.Pages {
		_, err = tx.Exec(`INSERT INTO pages (slug, title, description, html) VALUES (?, ?, ?, ?)`,
			p.Slug, p.Title, p.Description, p.HTML)
		if err != nil {
			return fmt.Errorf("insert page %s: %w", p.Slug, err)
		}
	}
	return tx.Commit()
}

const postColumns = `slug, title, excerpt, publish_date, updated_date, featured, draft, tags, image_src, image_alt, image_caption, html, reading_time`

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (content.Post, error) {
	var (
		p                  content.Post
		published, updated string
		featured, draft    int
		tags, src          string
		alt, caption       sql.NullString
	)
	err := row.Scan(&p.Slug, &p.Title, &p.Excerpt, &published, &updated, &featured, &draft,
		&tags, &src, &alt, &caption, &p.HTML, &p.ReadingTime)
	if err != nil {
		return content.Post{}, err
	}
	p.PublishDate = parseDate(published)
	p.UpdatedDate = parseDate(updated)
	p.Featured = featured == 1
	p.Draft = draft == 1
	p.Tags = ParseTags(tags)
	p.Image = imageFromColumns(src, alt, caption)
	return p, nil
}

// ListPosts returns posts ordered by publish date descending. If tag is
// non-empty, results are filtered to posts carrying that tag.
func (s *Store) ListPosts(tag string) ([]content.Post, error) {
	var rows *sql.Rows
	var err error
	if tag == "" {
		rows, err = s.db.Query(`SELECT ` + postColumns + ` FROM posts ORDER BY publish_date DESC, slug`)
	} else {
		rows, err = s.db.Query(`SELECT `+postColumns+` FROM posts WHERE instr(tags, ',' || ? || ',') > 0 ORDER BY publish_date DESC, slug`, normalizeTag(tag))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []content.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPost returns a single post by slug.
func (s *Store) GetPost(slug string) (content.Post, error) {
	return scanPost(s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug))
}

// ListTags returns a sorted, deduplicated slice of all post tags.
func (s *Store) ListTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM posts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTags(tags) {
			set[t] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var result []string
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

const projectColumns = `slug, title, description, publish_date, featured, tags, image_src, image_alt, image_caption, url, html`

func scanProject(row scanner) (content.Project, error) {
	var (
		p            content.Project
		published    string
		featured     int
		tags, src    string
		alt, caption sql.NullString
	)
	err := row.Scan(&p.Slug, &p.Title, &p.Description, &published, &featured, &tags,
		&src, &alt, &caption, &p.URL, &p.HTML)
	if err != nil {
		return content.Project{}, err
	}
	p.PublishDate = parseDate(published)
	p.Featured = featured == 1
	p.Tags = ParseTags(tags)
	p.Image = imageFromColumns(src, alt, caption)
	return p, nil
}

// ListProjects returns projects ordered by publish date descending.
func (s *Store) ListProjects() ([]content.Project, error) {
	rows, err := s.db.Query(`SELECT ` + projectColumns + ` FROM projects ORDER BY publish_date DESC, slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []content.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProject returns a single project by slug.
func (s *Store) GetProject(slug string) (content.Project, error) {
	return scanProject(s.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE slug = ?`, slug))
}

// ListPages returns every standalone page ordered by slug.
func (s *Store) ListPages() ([]content.Page, error) {
	rows, err := s.db.Query(`SELECT slug, title, description, html FROM pages ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []content.Page
	for rows.Next() {
		var p content.Page
		if err := rows.Scan(&p.Slug, &p.Title, &p.Description, &p.HTML); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// AddSubscriber records email. It reports false when the address was already
// subscribed; that is not an error.
func (s *Store) AddSubscriber(email string) (bool, error) {
	res, err := s.db.Exec(`INSERT INTO subscribers (email, created_at) VALUES (?, ?) ON CONFLICT(email) DO NOTHING`,
		strings.ToLower(strings.TrimSpace(email)), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ListSubscribers returns every subscriber, newest first.
func (s *Store) ListSubscribers() ([]Subscriber, error) {
	rows, err := s.db.Query(`SELECT email, created_at FROM subscribers ORDER BY created_at DESC, email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Subscriber
	for rows.Next() {
		var sub Subscriber
		var created string
		if err := rows.Scan(&sub.Email, &created); err != nil {
			return nil, err
		}
		sub.CreatedAt = parseDate(created)
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// DeleteSubscriber removes a subscriber. Deleting an unknown address returns
// ErrNotFound.
func (s *Store) DeleteSubscriber(email string) error {
	res, err := s.db.Exec(`DELETE FROM subscribers WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func joinTags(tags []string) string {
	normalized := content.NormalizeTags(tags)
	if len(normalized) == 0 {
		return ","
	}
	return "," + strings.Join(normalized, ",") + ","
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func imageColumns(img *siteconfig.Image) (src string, alt, caption sql.NullString) {
	if img == nil {
		return "", alt, caption
	}
	if img.Alt != nil {
		alt = sql.NullString{String: *img.Alt, Valid: true}
	}
	if img.Caption != nil {
		caption = sql.NullString{String: *img.Caption, Valid: true}
	}
	return img.Src, alt, caption
}

func imageFromColumns(src string, alt, caption sql.NullString) *siteconfig.Image {
	if src == "" {
		return nil
	}
	img := &siteconfig.Image{Src: src}
	if alt.Valid {
		img.Alt = siteconfig.String(alt.String)
	}
	if caption.Valid {
		img.Caption = siteconfig.String(caption.String)
	}
	return img
}
