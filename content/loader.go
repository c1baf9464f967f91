package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/eringen/kilobite/markdown"
	"github.com/eringen/kilobite/siteconfig"
)

// LoadOptions tunes Load.
type LoadOptions struct {
	IncludeDrafts bool
}

type postFrontMatter struct {
	Title       string            `yaml:"title"`
	Excerpt     string            `yaml:"excerpt"`
	PublishDate string            `yaml:"publishDate"`
	UpdatedDate string            `yaml:"updatedDate"`
	IsFeatured  bool              `yaml:"isFeatured"`
	Draft       bool              `yaml:"draft"`
	Tags        []string          `yaml:"tags"`
	Image       *siteconfig.Image `yaml:"image"`
}

type projectFrontMatter struct {
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	PublishDate string            `yaml:"publishDate"`
	IsFeatured  bool              `yaml:"isFeatured"`
	Tags        []string          `yaml:"tags"`
	Image       *siteconfig.Image `yaml:"image"`
	URL         string            `yaml:"url"`
}

type pageFrontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Load reads every Markdown file under dir. Missing subdirectories are treated
// as empty. Posts and projects come back newest first, pages by slug.
func Load(dir string, opts LoadOptions) (*Collection, error) {
	c := &Collection{}

	err := eachMarkdown(filepath.Join(dir, BlogDir), func(path, slug string, data []byte) error {
		p, err := ParsePost(slug, data)
		if err != nil {
			return fmt.Errorf("content: %s: %w", path, err)
		}
		if p.Draft && !opts.IncludeDrafts {
			return nil
		}
		c.Posts = append(c.Posts, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachMarkdown(filepath.Join(dir, ProjectsDir), func(path, slug string, data []byte) error {
		p, err := ParseProject(slug, data)
		if err != nil {
			return fmt.Errorf("content: %s: %w", path, err)
		}
		c.Projects = append(c.Projects, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachMarkdown(filepath.Join(dir, PagesDir), func(path, slug string, data []byte) error {
		p, err := ParsePage(slug, data)
		if err != nil {
			return fmt.Errorf("content: %s: %w", path, err)
		}
		c.Pages = append(c.Pages, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(c.Posts, func(i, j int) bool {
		a, b := c.Posts[i], c.Posts[j]
		if !a.PublishDate.Equal(b.PublishDate) {
			return a.PublishDate.After(b.PublishDate)
		}
		return a.Slug < b.Slug
	})
	sort.SliceStable(c.Projects, func(i, j int) bool {
		a, b := c.Projects[i], c.Projects[j]
		if !a.PublishDate.Equal(b.PublishDate) {
			return a.PublishDate.After(b.PublishDate)
		}
		return a.Slug < b.Slug
	})
	sort.Slice(c.Pages, func(i, j int) bool { return c.Pages[i].Slug < c.Pages[j].Slug })
	return c, nil
}

func eachMarkdown(dir string, fn func(path, slug string, data []byte) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("content: read %s: %w", dir, err)
	}
	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if e.IsDir() || (ext != ".md" && ext != ".markdown") || strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		slug := Slugify(strings.TrimSuffix(name, filepath.Ext(name)))
		if slug == "" {
			return fmt.Errorf("content: %s: file name does not produce a slug", path)
		}
		if other, ok := seen[slug]; ok {
			return fmt.Errorf("content: %s: slug %q already used by %s", path, slug, other)
		}
		seen[slug] = path
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("content: read %s: %w", path, err)
		}
		if err := fn(path, slug, data); err != nil {
			return err
		}
	}
	return nil
}

func parseFrontMatter(data []byte, v any) (string, error) {
	body, err := frontmatter.Parse(bytes.NewReader(data), v)
	if err != nil {
		return "", fmt.Errorf("parse front matter: %w", err)
	}
	return strings.TrimLeft(string(body), "\r\n"), nil
}

func checkImage(img *siteconfig.Image) error {
	if img != nil && strings.TrimSpace(img.Src) == "" {
		return errors.New("image.src is required")
	}
	return nil
}

// ParsePost parses one post file.
func ParsePost(slug string, data []byte) (Post, error) {
	var fm postFrontMatter
	body, err := parseFrontMatter(data, &fm)
	if err != nil {
		return Post{}, err
	}
	if strings.TrimSpace(fm.Title) == "" {
		return Post{}, errors.New("title is required")
	}
	if strings.TrimSpace(fm.PublishDate) == "" {
		return Post{}, errors.New("publishDate is required")
	}
	published, err := ParseDate(fm.PublishDate)
	if err != nil {
		return Post{}, fmt.Errorf("publishDate: %w", err)
	}
	p := Post{
		Slug:        slug,
		Title:       strings.TrimSpace(fm.Title),
		Excerpt:     strings.TrimSpace(fm.Excerpt),
		PublishDate: published,
		Featured:    fm.IsFeatured,
		Draft:       fm.Draft,
		Tags:        NormalizeTags(fm.Tags),
		Image:       fm.Image,
		Body:        body,
		ReadingTime: readingTime(body),
	}
	if strings.TrimSpace(fm.UpdatedDate) != "" {
		if p.UpdatedDate, err = ParseDate(fm.UpdatedDate); err != nil {
			return Post{}, fmt.Errorf("updatedDate: %w", err)
		}
	}
	if err := checkImage(p.Image); err != nil {
		return Post{}, err
	}
	if p.Excerpt == "" {
		p.Excerpt = markdown.Excerpt(body, excerptLength)
	}
	if p.HTML, err = markdown.Render(body); err != nil {
		return Post{}, fmt.Errorf("render: %w", err)
	}
	return p, nil
}

// ParseProject parses one project file.
func ParseProject(slug string, data []byte) (Project, error) {
	var fm projectFrontMatter
	body, err := parseFrontMatter(data, &fm)
	if err != nil {
		return Project{}, err
	}
	if strings.TrimSpace(fm.Title) == "" {
		return Project{}, errors.New("title is required")
	}
	if strings.TrimSpace(fm.PublishDate) == "" {
		return Project{}, errors.New("publishDate is required")
	}
	published, err := ParseDate(fm.PublishDate)
	if err != nil {
		return Project{}, fmt.Errorf("publishDate: %w", err)
	}
	p := Project{
		Slug:        slug,
		Title:       strings.TrimSpace(fm.Title),
		Description: strings.TrimSpace(fm.Description),
		PublishDate: published,
		Featured:    fm.IsFeatured,
		Tags:        NormalizeTags(fm.Tags),
		Image:       fm.Image,
		URL:         strings.TrimSpace(fm.URL),
		Body:        body,
	}
	if err := checkImage(p.Image); err != nil {
		return Project{}, err
	}
	if p.Description == "" {
		p.Description = markdown.Excerpt(body, excerptLength)
	}
	if p.HTML, err = markdown.Render(body); err != nil {
		return Project{}, fmt.Errorf("render: %w", err)
	}
	return p, nil
}

// ParsePage parses one standalone page file. A missing title falls back to the
// slug with its first letter upper-cased.
func ParsePage(slug string, data []byte) (Page, error) {
	if slug == "" {
		return Page{}, errors.New("slug is required")
	}
	var fm pageFrontMatter
	body, err := parseFrontMatter(data, &fm)
	if err != nil {
		return Page{}, err
	}
	p := Page{
		Slug:        slug,
		Title:       strings.TrimSpace(fm.Title),
		Description: strings.TrimSpace(fm.Description),
		Body:        body,
	}
	if p.Title == "" {
		p.Title = strings.ToUpper(slug[:1]) + strings.ReplaceAll(slug[1:], "-", " ")
	}
	if p.HTML, err = markdown.Render(body); err != nil {
		return Page{}, fmt.Errorf("render: %w", err)
	}
	return p, nil
}
