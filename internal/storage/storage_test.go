package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tmcewan/expowatch/internal/event"
)

func mustStart(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
}

func TestLoadMissingFile(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "events.json"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	events, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events from a missing store, want 0", len(events))
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := store.Load(); err == nil {
		t.Error("corrupt store loaded without error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "events.json"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	events := []*event.Event{
		{
			Title:      "Robotics Expo",
			Start:      "2025-06-10T09:00:00+01:00",
			End:        "2025-06-12T17:00:00+01:00",
			URL:        "https://shows.example.com/robotics",
			Venue:      "ExCeL London",
			Sector:     []string{"Engineering & Manufacturing"},
			Exhibitors: []string{"Acme Robotics"},
			Free:       true,
		},
		{
			Title:      "Fintech Forum",
			Start:      "2025-07-01T09:00:00+01:00",
			End:        "2025-07-01T17:00:00+01:00",
			Venue:      "QEII Centre",
			Sector:     []string{},
			Exhibitors: []string{},
		},
	}

	if err := store.Save(events); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, events) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, events)
	}
}

func TestSaveEmitsArraysForEmptySlices(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "events.json"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := store.Save([]*event.Event{event.New("Bare", mustStart(t), mustStart(t), "", "", "")}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if strings.Contains(got, "null") {
		t.Errorf("snapshot contains null where [] expected:\n%s", got)
	}
}

func TestNewCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "events.json")

	store, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := store.Save([]*event.Event{}); err != nil {
		t.Fatalf("Save into created directory: %v", err)
	}
}
