// Package report writes the human-readable change log for operator review.
package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tmcewan/expowatch/internal/event"
)

// Append writes one dated block summarizing a run's added and changed
// records to the running changelog. It is a no-op when both lists are
// empty, so quiet weeks leave no trace.
func Append(path string, added, changed []*event.Event, now time.Time) error {
	if len(added) == 0 && len(changed) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s Weekly discovery\n", now.UTC().Format("2006-01-02"))
	fmt.Fprintf(&b, "- NEW: %d\n", len(added))
	fmt.Fprintf(&b, "- DATE CHANGED: %d\n", len(changed))
	b.WriteString("\n")
	for _, e := range added {
		writeLine(&b, "NEW", e)
	}
	for _, e := range changed {
		writeLine(&b, "DATE CHANGED", e)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening changelog: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("writing changelog: %w", err)
	}
	return nil
}

func writeLine(b *strings.Builder, label string, e *event.Event) {
	fmt.Fprintf(b, "  - %s • %s — %s — %s → %s • %s\n",
		label, e.Title, e.Venue, day(e.Start), day(e.End), e.URL)
}

func day(iso string) string {
	if len(iso) > 10 {
		return iso[:10]
	}
	return iso
}
