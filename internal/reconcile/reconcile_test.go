package reconcile

import (
	"reflect"
	"testing"
	"time"

	"github.com/tmcewan/expowatch/internal/event"
)

func record(title, venue, start, end, url string) *event.Event {
	return &event.Event{
		Title:      title,
		Start:      start,
		End:        end,
		URL:        url,
		Venue:      venue,
		Sector:     []string{},
		Exhibitors: []string{},
	}
}

func keysUnique(t *testing.T, events []*event.Event) {
	t.Helper()
	seen := make(map[event.Key]string)
	for _, e := range events {
		if prev, dup := seen[e.Key()]; dup {
			t.Errorf("duplicate key %v: %q and %q", e.Key(), prev, e.Title)
		}
		seen[e.Key()] = e.Title
	}
}

func TestMergeAddsUnknownCandidates(t *testing.T) {
	existing := []*event.Event{
		record("Fintech Forum", "ExCeL London", "2025-05-01T09:00:00+01:00", "2025-05-02T17:00:00+01:00", "https://a"),
	}
	candidates := []*event.Event{
		record("Robotics Expo", "ExCeL London", "2025-06-10T09:00:00+01:00", "2025-06-12T17:00:00+01:00", "https://b"),
	}

	res := Merge(existing, nil, candidates)

	if len(res.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(res.Events))
	}
	if len(res.Added) != 1 || res.Added[0].Title != "Robotics Expo" {
		t.Errorf("Added = %+v", res.Added)
	}
	if len(res.Changed) != 0 {
		t.Errorf("Changed = %+v", res.Changed)
	}
	keysUnique(t, res.Events)
}

func TestMergeDetectsDateDrift(t *testing.T) {
	prev := record("Robotics Expo", "ExCeL London", "2025-06-10T09:00:00+01:00", "2025-06-12T17:00:00+01:00", "https://a")
	prev.Sector = []string{"Engineering & Manufacturing"}
	prev.Exhibitors = []string{"Acme Robotics"}
	prev.Free = true

	cand := record("Robotics Expo", "ExCeL London", "2025-06-17T09:00:00+01:00", "2025-06-19T17:00:00+01:00", "https://b")
	cand.Sector = []string{"Fintech"} // candidate's own classification must lose

	res := Merge([]*event.Event{prev}, nil, []*event.Event{cand})

	if len(res.Added) != 0 {
		t.Fatalf("date drift reported as added: %+v", res.Added)
	}
	if len(res.Changed) != 1 {
		t.Fatalf("got %d changed, want 1", len(res.Changed))
	}

	merged := res.Events[0]
	if merged.Start != "2025-06-17T09:00:00+01:00" {
		t.Errorf("Start = %q, not refreshed", merged.Start)
	}
	if !reflect.DeepEqual(merged.Sector, []string{"Engineering & Manufacturing"}) {
		t.Errorf("Sector = %v, curated value not preserved", merged.Sector)
	}
	if !reflect.DeepEqual(merged.Exhibitors, []string{"Acme Robotics"}) {
		t.Errorf("Exhibitors = %v, curated value not preserved", merged.Exhibitors)
	}
	if !merged.Free {
		t.Error("Free flag not preserved")
	}
}

func TestMergeKeepsCandidateSectorWhenPersistedEmpty(t *testing.T) {
	prev := record("Robotics Expo", "ExCeL London", "2025-06-10T09:00:00+01:00", "2025-06-12T17:00:00+01:00", "")
	cand := record("Robotics Expo", "ExCeL London", "2025-06-17T09:00:00+01:00", "2025-06-19T17:00:00+01:00", "")
	cand.Sector = []string{"Engineering & Manufacturing"}

	res := Merge([]*event.Event{prev}, nil, []*event.Event{cand})
	if got := res.Events[0].Sector; !reflect.DeepEqual(got, []string{"Engineering & Manufacturing"}) {
		t.Errorf("Sector = %v, want candidate's classification kept", got)
	}
}

func TestMergeIgnoresTimeOfDayDrift(t *testing.T) {
	prev := record("Robotics Expo", "ExCeL London", "2025-06-10T09:00:00+01:00", "2025-06-12T17:00:00+01:00", "https://a")
	cand := record("Robotics Expo", "ExCeL London", "2025-06-10T14:00:00+01:00", "2025-06-12T20:00:00+01:00", "https://b")

	res := Merge([]*event.Event{prev}, nil, []*event.Event{cand})

	if len(res.Added) != 0 || len(res.Changed) != 0 {
		t.Errorf("same-day drift reported: added=%d changed=%d", len(res.Added), len(res.Changed))
	}
	if res.Events[0].Start != "2025-06-10T09:00:00+01:00" {
		t.Errorf("Start = %q, record should be untouched", res.Events[0].Start)
	}
}

func TestMergeBackfillsEmptyURL(t *testing.T) {
	prev := record("Robotics Expo", "ExCeL London", "2025-06-10T09:00:00+01:00", "2025-06-12T17:00:00+01:00", "")
	cand := record("Robotics Expo", "ExCeL London", "2025-06-10T09:00:00+01:00", "2025-06-12T17:00:00+01:00", "https://found")

	res := Merge([]*event.Event{prev}, nil, []*event.Event{cand})

	if res.Events[0].URL != "https://found" {
		t.Errorf("URL = %q, want backfilled", res.Events[0].URL)
	}
	if len(res.Added)+len(res.Changed) != 0 {
		t.Error("backfill must not count as added or changed")
	}
}

func TestMergeNoChurnWhenBothURLsEmpty(t *testing.T) {
	prev := record("Robotics Expo", "ExCeL London", "2025-06-10T09:00:00+01:00", "2025-06-12T17:00:00+01:00", "")
	cand := record("Robotics Expo", "ExCeL London", "2025-06-10T09:00:00+01:00", "2025-06-12T17:00:00+01:00", "")

	res := Merge([]*event.Event{prev}, nil, []*event.Event{cand})

	if res.Events[0].URL != "" {
		t.Errorf("URL = %q, want empty", res.Events[0].URL)
	}
	if len(res.Added)+len(res.Changed) != 0 {
		t.Error("record reported despite no change")
	}
}

func TestMergeSeeds(t *testing.T) {
	existing := []*event.Event{
		record("Fintech Forum", "ExCeL London", "2025-05-01T09:00:00+01:00", "2025-05-02T17:00:00+01:00", ""),
	}
	seeds := []*event.Event{
		record("Fintech Forum", "ExCeL London", "2025-05-08T09:00:00+01:00", "2025-05-09T17:00:00+01:00", ""),
		record("Curated Conference", "QEII Centre", "2025-07-01T09:00:00+01:00", "2025-07-01T17:00:00+01:00", ""),
	}

	res := Merge(existing, seeds, nil)

	if len(res.Events) != 2 {
		t.Fatalf("got %d events, want 2 (seed with existing key skipped)", len(res.Events))
	}
	if res.Events[0].Start != "2025-05-01T09:00:00+01:00" {
		t.Error("seed overwrote an existing record")
	}
	if len(res.Added)+len(res.Changed) != 0 {
		t.Error("seeds must never count as added or changed")
	}
	keysUnique(t, res.Events)
}

func TestMergeIdempotent(t *testing.T) {
	existing := []*event.Event{
		record("Fintech Forum", "ExCeL London", "2025-05-01T09:00:00+01:00", "2025-05-02T17:00:00+01:00", "https://a"),
	}
	candidates := []*event.Event{
		record("Robotics Expo", "ExCeL London", "2025-06-10T09:00:00+01:00", "2025-06-12T17:00:00+01:00", "https://b"),
		record("Fintech Forum", "ExCeL London", "2025-05-03T09:00:00+01:00", "2025-05-04T17:00:00+01:00", "https://c"),
	}

	first := Merge(existing, nil, candidates)
	second := Merge(first.Events, nil, candidates)

	if !reflect.DeepEqual(first.Events, second.Events) {
		t.Error("second merge altered the store")
	}
	if len(second.Added) != 0 || len(second.Changed) != 0 {
		t.Errorf("second merge reported added=%d changed=%d, want 0/0", len(second.Added), len(second.Changed))
	}
	keysUnique(t, second.Events)
}

func TestMergeAddedAndChangedDisjoint(t *testing.T) {
	existing := []*event.Event{
		record("Fintech Forum", "ExCeL London", "2025-05-01T09:00:00+01:00", "2025-05-02T17:00:00+01:00", ""),
	}
	candidates := []*event.Event{
		record("Fintech Forum", "ExCeL London", "2025-05-03T09:00:00+01:00", "2025-05-04T17:00:00+01:00", ""),
		record("Robotics Expo", "ExCeL London", "2025-06-10T09:00:00+01:00", "2025-06-12T17:00:00+01:00", ""),
	}

	res := Merge(existing, nil, candidates)

	for _, a := range res.Added {
		for _, c := range res.Changed {
			if a.Key() == c.Key() {
				t.Errorf("key %v in both added and changed", a.Key())
			}
		}
	}
}

func TestPrune(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	horizon := now.Add(190 * 24 * time.Hour)

	near := record("Near", "London", "2025-07-01T09:00:00+01:00", "2025-07-01T17:00:00+01:00", "")
	far := record("Far", "London", "2026-09-01T09:00:00+01:00", "2026-09-01T17:00:00+01:00", "")
	broken := record("Broken", "London", "sometime next year", "", "")

	kept := Prune([]*event.Event{near, far, broken}, horizon)

	titles := make([]string, 0, len(kept))
	for _, e := range kept {
		titles = append(titles, e.Title)
	}
	if !reflect.DeepEqual(titles, []string{"Near", "Broken"}) {
		t.Errorf("kept = %v, want [Near Broken] (beyond-horizon dropped, unparsable retained)", titles)
	}
}

func TestWithinWindow(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	window := 84 * 24 * time.Hour

	tests := []struct {
		name  string
		start string
		want  bool
	}{
		{"inside window", "2025-07-01T09:00:00+01:00", true},
		{"before now", "2025-05-01T09:00:00+01:00", false},
		{"beyond window", "2025-12-01T09:00:00Z", false},
		{"unparsable", "next spring", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := record("Probe", "London", tt.start, tt.start, "")
			if got := WithinWindow(e, now, window); got != tt.want {
				t.Errorf("WithinWindow(%q) = %v, want %v", tt.start, got, tt.want)
			}
		})
	}
}
