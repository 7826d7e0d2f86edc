package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tmcewan/expowatch/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteEvents writes the record sequence in the specified format.
func WriteEvents(w io.Writer, events []*event.Event, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(events)
	case FormatText:
		return writeText(w, events, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeText(w io.Writer, events []*event.Event, verbose bool) error {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events in store.")
		return nil
	}

	for _, e := range events {
		fmt.Fprintf(w, "%s — %s — %s → %s\n", e.Title, e.Venue, day(e.Start), day(e.End))
		if verbose {
			if e.URL != "" {
				fmt.Fprintf(w, "     URL: %s\n", e.URL)
			}
			if len(e.Sector) > 0 {
				fmt.Fprintf(w, "     Sector: %s\n", e.Sector[0])
			}
			if len(e.Exhibitors) > 0 {
				fmt.Fprintf(w, "     Exhibitors: %d\n", len(e.Exhibitors))
			}
			if e.Free {
				fmt.Fprintln(w, "     Free entry")
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %d events\n", len(events))
	return nil
}

func day(iso string) string {
	if len(iso) > 10 {
		return iso[:10]
	}
	return iso
}
