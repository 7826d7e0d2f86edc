// Package feed writes the published iCalendar file covering the site's
// forward window.
package feed

import (
	"fmt"
	"os"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/tmcewan/expowatch/internal/dates"
	"github.com/tmcewan/expowatch/internal/event"
)

// WindowDays bounds the feed and the static site to the next ~3 months.
const WindowDays = 92

// Window returns the records whose start parses and falls within
// [now, now+WindowDays]. Order is preserved.
func Window(events []*event.Event, now time.Time) []*event.Event {
	horizon := now.Add(WindowDays * 24 * time.Hour)
	out := make([]*event.Event, 0, len(events))
	for _, e := range events {
		start, ok := e.StartTime()
		if !ok || start.Before(now) || start.After(horizon) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Write serializes the given records as a VCALENDAR at path. Timestamps are
// emitted in UTC Z form so Outlook reads them correctly.
func Write(path string, events []*event.Event, now time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//expowatch//London Expos//EN")
	cal.SetCalscale("GREGORIAN")
	cal.SetXWRCalName("London Expos (Next 3 Months)")

	for _, e := range events {
		start, ok := e.StartTime()
		if !ok {
			continue
		}
		end, ok := e.EndTime()
		if !ok {
			end = start.Add(dates.DefaultSpan)
		}

		ve := cal.AddEvent(fmt.Sprintf("%s@expowatch", uuid.NewString()))
		ve.SetDtStampTime(now.UTC())
		ve.SetStartAt(start.UTC())
		ve.SetEndAt(end.UTC())
		ve.SetSummary(e.Title)
		ve.SetLocation(e.Venue)

		desc := fmt.Sprintf("%s — %s", e.Title, e.URL)
		if e.Free {
			desc += " (Free event)"
		}
		ve.SetDescription(desc)
		if e.URL != "" {
			ve.SetURL(e.URL)
		}
	}

	if err := os.WriteFile(path, []byte(cal.Serialize()), 0644); err != nil {
		return fmt.Errorf("writing calendar feed: %w", err)
	}
	return nil
}
