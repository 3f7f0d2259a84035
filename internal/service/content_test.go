package service

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestContent(t *testing.T, pages map[string]string) *ContentService {
	t.Helper()

	dir := t.TempDir()
	pagesDir := filepath.Join(dir, "pages")
	if err := os.MkdirAll(pagesDir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	for name, body := range pages {
		if err := os.WriteFile(filepath.Join(pagesDir, name), []byte(body), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	return NewContentService(dir)
}

func TestContentPageWithFrontmatter(t *testing.T) {
	content := newTestContent(t, map[string]string{
		"about.md": "---\ntitle: About Us\n---\n\nWe make **lists**.\n",
	})

	page, err := content.Page("about")
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if page.Title != "About Us" {
		t.Errorf("Title = %q, want About Us", page.Title)
	}
	if !strings.Contains(page.Content, "<strong>lists</strong>") {
		t.Errorf("markdown not rendered: %q", page.Content)
	}
}

func TestContentTitleFallback(t *testing.T) {
	content := newTestContent(t, map[string]string{
		"getting-started.md": "No frontmatter here.\n",
	})

	page, err := content.Page("getting-started")
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if page.Title != "Getting Started" {
		t.Errorf("Title = %q, want Getting Started", page.Title)
	}
}

func TestContentPageNotFound(t *testing.T) {
	content := newTestContent(t, nil)

	if _, err := content.Page("missing"); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("Page error = %v, want ErrPageNotFound", err)
	}
}
