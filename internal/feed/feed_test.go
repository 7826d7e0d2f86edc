package feed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tmcewan/expowatch/internal/event"
)

func sample(title, start, end string) *event.Event {
	return &event.Event{Title: title, Start: start, End: end, Venue: "ExCeL London"}
}

func TestWindow(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	past := sample("Past", "2025-05-01T09:00:00+01:00", "")
	inside := sample("Inside", "2025-07-15T09:00:00+01:00", "")
	beyond := sample("Beyond", "2025-10-01T09:00:00+01:00", "")
	broken := sample("Broken", "tba", "")

	got := Window([]*event.Event{past, inside, beyond, broken}, now)
	if len(got) != 1 || got[0].Title != "Inside" {
		t.Errorf("Window kept %+v, want only Inside", got)
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "London_Expos.ics")
	now := time.Date(2025, time.June, 2, 8, 0, 0, 0, time.UTC)

	free := sample("Robotics Expo", "2025-06-10T09:00:00+01:00", "2025-06-12T17:00:00+01:00")
	free.URL = "https://sh.example/r"
	free.Free = true
	noEnd := sample("Fintech Forum", "2025-07-01T09:00:00+01:00", "nonsense")

	if err := Write(path, []*event.Event{free, noEnd}, now); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"METHOD:PUBLISH",
		"PRODID:-//expowatch//London Expos//EN",
		"X-WR-CALNAME:London Expos (Next 3 Months)",
		"SUMMARY:Robotics Expo",
		"LOCATION:ExCeL London",
		"DTSTART:20250610T080000Z",
		"DTEND:20250612T160000Z",
		"URL:https://sh.example/r",
		"(Free event)",
		"SUMMARY:Fintech Forum",
		// unparsable end falls back to the default span
		"DTEND:20250701T160000Z",
		"END:VCALENDAR",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("feed missing %q", want)
		}
	}

	if got := strings.Count(got, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("got %d VEVENTs, want 2", got)
	}
	if got := strings.Count(got, "DTSTAMP:20250602T080000Z"); got != 2 {
		t.Errorf("got %d matching DTSTAMPs, want 2", got)
	}
}
