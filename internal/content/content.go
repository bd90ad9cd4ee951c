package content

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// ErrNotFound indicates no page exists for the requested slug.
var ErrNotFound = errors.New("content: not found")

const defaultContentDir = "content"

// Page is a static storefront page (about, affiliate disclosure) sourced
// from local markdown with YAML front matter.
type Page struct {
	Slug      string
	Title     string
	Summary   string
	Body      template.HTML
	UpdatedAt time.Time
}

type frontMatter struct {
	Title     string `yaml:"title"`
	Summary   string `yaml:"summary"`
	UpdatedAt string `yaml:"updated_at"`
}

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	policy   = bluemonday.UGCPolicy()
)

// Library loads and caches rendered pages from a directory.
type Library struct {
	dir string

	mu    sync.RWMutex
	items map[string]cacheEntry
	ttl   time.Duration
}

type cacheEntry struct {
	page    Page
	expires time.Time
}

// NewLibrary builds a page library over the given directory.
func NewLibrary(dir string) *Library {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultContentDir
	}
	return &Library{
		dir:   dir,
		items: map[string]cacheEntry{},
		ttl:   5 * time.Minute,
	}
}

// SetCacheDuration overrides the cache TTL (primarily for tests).
func (l *Library) SetCacheDuration(d time.Duration) {
	if d <= 0 {
		d = time.Minute
	}
	l.mu.Lock()
	l.ttl = d
	l.mu.Unlock()
}

// Page returns the rendered page for a slug.
func (l *Library) Page(slug string) (Page, error) {
	slug = sanitizeSlug(slug)
	if slug == "" {
		return Page{}, ErrNotFound
	}

	l.mu.RLock()
	entry, ok := l.items[slug]
	l.mu.RUnlock()
	if ok && time.Now().Before(entry.expires) {
		return entry.page, nil
	}

	page, err := l.readPage(slug)
	if err != nil {
		return Page{}, err
	}

	l.mu.Lock()
	l.items[slug] = cacheEntry{page: page, expires: time.Now().Add(l.ttl)}
	l.mu.Unlock()
	return page, nil
}

func (l *Library) readPage(slug string) (Page, error) {
	file := filepath.Join(l.dir, slug+".md")
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Page{}, ErrNotFound
		}
		return Page{}, err
	}

	fm, body := splitFrontMatter(string(data))
	front := frontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Page{}, fmt.Errorf("content: parse front matter %s: %w", file, err)
		}
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		return Page{}, fmt.Errorf("content: render %s: %w", file, err)
	}

	page := Page{
		Slug:    slug,
		Title:   strings.TrimSpace(front.Title),
		Summary: strings.TrimSpace(front.Summary),
		Body:    template.HTML(policy.SanitizeBytes(buf.Bytes())),
	}
	if page.Title == "" {
		page.Title = prettifySlug(slug)
	}
	page.UpdatedAt = parseDate(front.UpdatedAt)
	if page.UpdatedAt.IsZero() {
		if info, err := os.Stat(file); err == nil {
			page.UpdatedAt = info.ModTime()
		}
	}
	return page, nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\uFEFF")
	lines := strings.Split(input, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006/01/02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func sanitizeSlug(slug string) string {
	slug = strings.TrimSpace(strings.ToLower(slug))
	slug = strings.Trim(slug, "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsRune(slug, os.PathSeparator) {
		return ""
	}
	return slug
}

func prettifySlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		if runes[0] >= 'a' && runes[0] <= 'z' {
			runes[0] -= 'a' - 'A'
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
