// Package site injects the current event window into the static page.
package site

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/tmcewan/expowatch/internal/event"
)

var eventsBlob = regexp.MustCompile(`(?s)const allEvents = \[.*?\];`)

// Inject replaces the allEvents array literal in the page with the given
// records. A page without the marker is left untouched.
func Inject(path string, events []*event.Event) error {
	html, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading page: %w", err)
	}
	if !eventsBlob.Match(html) {
		return nil
	}

	blob, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encoding events: %w", err)
	}

	out := eventsBlob.ReplaceAllLiteral(html, []byte("const allEvents = "+string(blob)+";"))
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}
	return nil
}
