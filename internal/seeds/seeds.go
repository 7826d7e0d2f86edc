// Package seeds loads manually curated event records from YAML, so known
// fixtures are never dropped while waiting to surface in search results.
package seeds

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tmcewan/expowatch/internal/dates"
	"github.com/tmcewan/expowatch/internal/event"
)

type seed struct {
	Title string `yaml:"title"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	Venue string `yaml:"venue"`
	URL   string `yaml:"url"`
}

// Load reads manual seed records from path. A missing file yields no seeds
// and no error. Entries with an empty title or unparsable start are
// skipped; a missing end defaults to start+8h.
func Load(path string, classify event.Classifier) ([]*event.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading manual seeds: %w", err)
	}

	var entries []seed
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing manual seeds: %w", err)
	}

	var out []*event.Event
	for _, s := range entries {
		title := strings.TrimSpace(s.Title)
		start, ok := dates.ParseStamp(s.Start)
		if title == "" || !ok {
			continue
		}
		end, ok := dates.ParseStamp(s.End)
		if !ok {
			end = start.Add(dates.DefaultSpan)
		}
		out = append(out, event.Unify(title, start, end, s.Venue, s.URL, classify))
	}
	return out, nil
}
