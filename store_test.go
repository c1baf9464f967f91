package kilobite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/eringen/kilobite/content"
	"github.com/eringen/kilobite/siteconfig"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testCollection() *content.Collection {
	return &content.Collection{
		Posts: []content.Post{
			{
				Slug:        "rag-in-small-bites",
				Title:       "RAG in small bites",
				Excerpt:     "Retrieval first.",
				PublishDate: day(2024, 5, 2),
				UpdatedDate: day(2024, 5, 10),
				Featured:    true,
				Tags:        []string{"ai", "rag"},
				Image:       &siteconfig.Image{Src: "/images/rag.jpg", Alt: siteconfig.String("Diagram")},
				HTML:        "<p>Retrieval first.</p>",
				ReadingTime: 4,
			},
			{
				Slug:        "go-notes",
				Title:       "Go notes",
				Excerpt:     "Small notes.",
				PublishDate: day(2024, 1, 15),
				Tags:        []string{"go"},
				HTML:        "<p>Small notes.</p>",
				ReadingTime: 1,
			},
		},
		Projects: []content.Project{
			{
				Slug:        "kilobite",
				Title:       "Kilobite",
				Description: "The site engine.",
				PublishDate: day(2024, 2, 1),
				Tags:        []string{"go"},
				URL:         "https://example.com",
				HTML:        "<p>The site engine.</p>",
			},
		},
		Pages: []content.Page{
			{Slug: "terms", Title: "Terms", HTML: "<p>Terms.</p>"},
			{Slug: "about", Title: "About", Description: "Who writes here.", HTML: "<p>Hi.</p>"},
		},
	}
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestSyncContentAndGetPost(t *testing.T) {
	s := setupTestStore(t)
	if err := s.SyncContent(testCollection()); err != nil {
		t.Fatalf("SyncContent failed: %v", err)
	}

	got, err := s.GetPost("rag-in-small-bites")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != "RAG in small bites" {
		t.Errorf("Title = %q, want %q", got.Title, "RAG in small bites")
	}
	if !got.PublishDate.Equal(day(2024, 5, 2)) {
		t.Errorf("PublishDate = %v, want 2024-05-02", got.PublishDate)
	}
	if !got.UpdatedDate.Equal(day(2024, 5, 10)) {
		t.Errorf("UpdatedDate = %v, want 2024-05-10", got.UpdatedDate)
	}
	if !got.Featured {
		t.Error("Featured should be true")
	}
	if got.ReadingTime != 4 {
		t.Errorf("ReadingTime = %d, want 4", got.ReadingTime)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "ai" || got.Tags[1] != "rag" {
		t.Errorf("Tags = %v, want [ai rag]", got.Tags)
	}
	if got.Image == nil || got.Image.Src != "/images/rag.jpg" || got.Image.AltText() != "Diagram" {
		t.Errorf("Image = %+v, want /images/rag.jpg with alt", got.Image)
	}
	if got.Image != nil && got.Image.Caption != nil {
		t.Errorf("Caption = %q, want absent", *got.Image.Caption)
	}
	if got.Link() != "/blog/rag-in-small-bites/" {
		t.Errorf("Link = %q", got.Link())
	}

	other, err := s.GetPost("go-notes")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if other.Image != nil {
		t.Errorf("Image = %+v, want nil", other.Image)
	}
	if !other.UpdatedDate.IsZero() {
		t.Errorf("UpdatedDate = %v, want zero", other.UpdatedDate)
	}
}

func TestGetPostNotFound(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.GetPost("nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPost error = %v, want ErrNotFound", err)
	}
	_, err = s.GetProject("nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetProject error = %v, want ErrNotFound", err)
	}
}

func TestListPostsOrderAndTagFilter(t *testing.T) {
	s := setupTestStore(t)
	if err := s.SyncContent(testCollection()); err != nil {
		t.Fatalf("SyncContent failed: %v", err)
	}

	posts, err := s.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}
	if posts[0].Slug != "rag-in-small-bites" || posts[1].Slug != "go-notes" {
		t.Errorf("order = [%s %s], want newest first", posts[0].Slug, posts[1].Slug)
	}

	tests := []struct {
		tag  string
		want int
	}{
		{"go", 1},
		{"GO", 1},
		{" rag ", 1},
		{"missing", 0},
	}
	for _, tt := range tests {
		got, err := s.ListPosts(tt.tag)
		if err != nil {
			t.Fatalf("ListPosts(%q) failed: %v", tt.tag, err)
		}
		if len(got) != tt.want {
			t.Errorf("ListPosts(%q) = %d posts, want %d", tt.tag, len(got), tt.want)
		}
	}
}

func TestListTags(t *testing.T) {
	s := setupTestStore(t)
	if err := s.SyncContent(testCollection()); err != nil {
		t.Fatalf("SyncContent failed: %v", err)
	}
	tags, err := s.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	want := []string{"ai", "go", "rag"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i], want[i])
		}
	}
}

func TestStoreProjectsAndPages(t *testing.T) {
	s := setupTestStore(t)
	if err := s.SyncContent(testCollection()); err != nil {
		t.Fatalf("SyncContent failed: %v", err)
	}

	projects, err := s.ListProjects()
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(projects) != 1 || projects[0].URL != "https://example.com" {
		t.Fatalf("projects = %+v", projects)
	}

	pages, err := s.ListPages()
	if err != nil {
		t.Fatalf("ListPages failed: %v", err)
	}
	if len(pages) != 2 || pages[0].Slug != "about" || pages[1].Slug != "terms" {
		t.Fatalf("pages = %+v, want about then terms", pages)
	}
	if pages[0].Description != "Who writes here." {
		t.Errorf("Description = %q", pages[0].Description)
	}
}

func TestSyncContentReplacesPreviousContent(t *testing.T) {
	s := setupTestStore(t)
	if err := s.SyncContent(testCollection()); err != nil {
		t.Fatalf("SyncContent failed: %v", err)
	}

	next := testCollection()
	next.Posts = next.Posts[1:]
	next.Projects = nil
	if err := s.SyncContent(next); err != nil {
		t.Fatalf("second SyncContent failed: %v", err)
	}

	posts, _ := s.ListPosts("")
	if len(posts) != 1 || posts[0].Slug != "go-notes" {
		t.Errorf("posts after resync = %+v", posts)
	}
	projects, _ := s.ListProjects()
	if len(projects) != 0 {
		t.Errorf("projects after resync = %d, want 0", len(projects))
	}
}

func TestSyncContentRollsBackOnError(t *testing.T) {
	s := setupTestStore(t)
	if err := s.SyncContent(testCollection()); err != nil {
		t.Fatalf("SyncContent failed: %v", err)
	}

	bad := testCollection()
	bad.Pages = append(bad.Pages, bad.Pages[0])
	if err := s.SyncContent(bad); err == nil {
		t.Fatal("expected duplicate page slug to fail")
	}

	posts, _ := s.ListPosts("")
	if len(posts) != 2 {
		t.Errorf("posts after failed sync = %d, want 2", len(posts))
	}
}

func TestSubscribers(t *testing.T) {
	s := setupTestStore(t)

	created, err := s.AddSubscriber("Reader@Example.com")
	if err != nil {
		t.Fatalf("AddSubscriber failed: %v", err)
	}
	if !created {
		t.Error("first AddSubscriber should report created")
	}
	created, err = s.AddSubscriber(" reader@example.com ")
	if err != nil {
		t.Fatalf("second AddSubscriber failed: %v", err)
	}
	if created {
		t.Error("duplicate AddSubscriber should not report created")
	}

	subs, err := s.ListSubscribers()
	if err != nil {
		t.Fatalf("ListSubscribers failed: %v", err)
	}
	if len(subs) != 1 || subs[0].Email != "reader@example.com" {
		t.Fatalf("subscribers = %+v", subs)
	}
	if subs[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	if err := s.DeleteSubscriber("reader@example.com"); err != nil {
		t.Fatalf("DeleteSubscriber failed: %v", err)
	}
	if err := s.DeleteSubscriber("reader@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteSubscriber = %v, want ErrNotFound", err)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{",go,web,", []string{"go", "web"}},
		{",single,", []string{"single"}},
		{",", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := ParseTags(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("ParseTags(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseTags(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestJoinTagsNormalizes(t *testing.T) {
	if got := joinTags([]string{"Go", " web", "go"}); got != ",go,web," {
		t.Errorf("joinTags = %q, want %q", got, ",go,web,")
	}
	if got := joinTags(nil); got != "," {
		t.Errorf("joinTags(nil) = %q, want %q", got, ",")
	}
}
