package event

import (
	"strings"
	"time"

	"github.com/tmcewan/expowatch/internal/dates"
)

// DefaultVenue is used when a source carries no usable location signal.
const DefaultVenue = "London"

// Event is the canonical record persisted in events.json. Start and End are
// ISO-8601 strings carrying an offset; they are kept as text rather than
// time.Time so that records whose instants no longer parse still round-trip
// unharmed (pruning fails open on them).
type Event struct {
	Title      string   `json:"title"`
	Start      string   `json:"start"`
	End        string   `json:"end"`
	URL        string   `json:"url"`
	Venue      string   `json:"venue"`
	Sector     []string `json:"sector"`
	Exhibitors []string `json:"exhibitors"`
	Free       bool     `json:"free"`
}

// Key identifies a logical event. Two records with equal keys are the same
// event regardless of date drift between discovery runs.
type Key struct {
	Title string
	Venue string
}

// Key returns the record's identity key: lowercased trimmed title plus venue.
func (e *Event) Key() Key {
	return Key{
		Title: strings.ToLower(strings.TrimSpace(e.Title)),
		Venue: e.Venue,
	}
}

// StartTime parses the record's start instant. ok is false when the stored
// value is not a recognizable timestamp.
func (e *Event) StartTime() (time.Time, bool) {
	return dates.ParseStamp(e.Start)
}

// EndTime parses the record's end instant.
func (e *Event) EndTime() (time.Time, bool) {
	return dates.ParseStamp(e.End)
}

// Classifier tags a title with zero or one industry sector.
type Classifier interface {
	Classify(title string) (string, bool)
}

// New assembles a canonical record from a raw extraction tuple. The title is
// trimmed, an empty venue defaults to DefaultVenue, and an end preceding the
// start is repaired to start+8h. sector may be empty.
func New(title string, start, end time.Time, venue, url, sector string) *Event {
	if end.Before(start) {
		end = start.Add(dates.DefaultSpan)
	}
	if venue == "" {
		venue = DefaultVenue
	}
	sectors := make([]string, 0, 1)
	if sector != "" {
		sectors = append(sectors, sector)
	}
	return &Event{
		Title:      strings.TrimSpace(title),
		Start:      start.Format(time.RFC3339),
		End:        end.Format(time.RFC3339),
		URL:        url,
		Venue:      venue,
		Sector:     sectors,
		Exhibitors: make([]string, 0),
		Free:       false,
	}
}

// Unify combines a raw tuple with the classifier's verdict into a canonical
// record. A nil classifier leaves the sector empty.
func Unify(title string, start, end time.Time, venue, url string, c Classifier) *Event {
	sector := ""
	if c != nil {
		if s, ok := c.Classify(title); ok {
			sector = s
		}
	}
	return New(title, start, end, venue, url, sector)
}
