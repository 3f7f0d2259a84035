package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tasklight/tasklight/internal/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrPageNotFound = errors.New("page not found")

// ContentPage is a static site page rendered from a markdown file.
type ContentPage struct {
	Title   string
	Slug    string
	Content string
}

// ContentService serves markdown pages (about, privacy, help) from the
// content/pages directory.
type ContentService struct {
	contentDir string
	pages      map[string]*ContentPage
}

func NewContentService(contentDir string) *ContentService {
	return &ContentService{
		contentDir: filepath.Join(contentDir, "pages"),
		pages:      make(map[string]*ContentPage),
	}
}

func (s *ContentService) LoadPages() error {
	files, err := os.ReadDir(s.contentDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read pages directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".md") {
			continue
		}

		slug := strings.TrimSuffix(file.Name(), ".md")
		page, err := s.loadPage(slug)
		if err != nil {
			return fmt.Errorf("failed to load page %s: %w", slug, err)
		}

		s.pages[slug] = page
	}

	return nil
}

func (s *ContentService) loadPage(slug string) (*ContentPage, error) {
	source, err := os.ReadFile(filepath.Join(s.contentDir, slug+".md"))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	parser := markdown.NewParser()
	html, meta, err := parser.ParseWithFrontmatter(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}

	title, _ := meta["title"].(string)
	if title == "" {
		title = cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
	}

	return &ContentPage{
		Title:   title,
		Slug:    slug,
		Content: string(html),
	}, nil
}

// Page returns the page for a slug, reloading from disk so content
// edits show up without a restart.
func (s *ContentService) Page(slug string) (*ContentPage, error) {
	err := s.LoadPages()
	if err != nil {
		return nil, err
	}

	page, ok := s.pages[slug]
	if !ok {
		return nil, ErrPageNotFound
	}

	return page, nil
}
