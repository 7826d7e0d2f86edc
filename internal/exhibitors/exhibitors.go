// Package exhibitors scrapes exhibitor name lists from configured target
// pages and attaches them to matching store records.
//
// Targets are static pages only: names are pulled with a CSS selector from
// the fetched HTML. Pages that render their lists client-side yield nothing
// and are skipped.
package exhibitors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"

	"github.com/tmcewan/expowatch/internal/event"
)

// Target names one exhibitor list to scrape: the store title fragment it
// applies to, the page URL, and the CSS selector for exhibitor names.
type Target struct {
	Match    string `yaml:"match"`
	URL      string `yaml:"url"`
	Selector string `yaml:"selector"`
}

// List is the persisted output for one target.
type List struct {
	Match      string   `json:"match"`
	Exhibitors []string `json:"exhibitors"`
}

// Fetcher retrieves the body of a URL.
type Fetcher interface {
	Get(url string) ([]byte, error)
}

// LoadTargets reads the targets file. A missing file yields no targets and
// no error.
func LoadTargets(path string) ([]Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading exhibitor targets: %w", err)
	}

	var targets []Target
	if err := yaml.Unmarshal(data, &targets); err != nil {
		return nil, fmt.Errorf("parsing exhibitor targets: %w", err)
	}
	return targets, nil
}

// Scraper fetches target pages and extracts exhibitor names.
type Scraper struct {
	fetcher Fetcher
}

// NewScraper creates a Scraper using the given fetcher.
func NewScraper(fetcher Fetcher) *Scraper {
	return &Scraper{fetcher: fetcher}
}

// Names fetches a target's page and returns the trimmed, deduplicated text
// of every element matching its selector.
func (s *Scraper) Names(t Target) ([]string, error) {
	body, err := s.fetcher.Get(t.URL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing exhibitor page: %w", err)
	}

	var names []string
	doc.Find(t.Selector).Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			names = append(names, text)
		}
	})
	return Dedupe(names), nil
}

// Dedupe drops blank entries and case-insensitive duplicates, preserving
// first-seen order.
func Dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}

var slugPat = regexp.MustCompile(`[^a-z0-9]+`)

// Slug converts a match title into a filesystem-safe file stem.
func Slug(s string) string {
	return strings.Trim(slugPat.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// SaveList writes one target's list as JSON under dir, returning the path.
func SaveList(dir string, l List) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating exhibitors directory: %w", err)
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding exhibitor list: %w", err)
	}

	path := filepath.Join(dir, Slug(l.Match)+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing exhibitor list: %w", err)
	}
	return path, nil
}

// Apply copies each list onto store records whose lowercased title contains
// the list's match string, returning how many records were updated.
func Apply(events []*event.Event, lists []List) int {
	applied := 0
	for _, l := range lists {
		match := strings.ToLower(strings.TrimSpace(l.Match))
		if match == "" {
			continue
		}
		for _, e := range events {
			if strings.Contains(strings.ToLower(e.Title), match) {
				e.Exhibitors = l.Exhibitors
				applied++
			}
		}
	}
	return applied
}
