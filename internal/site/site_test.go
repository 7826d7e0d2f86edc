package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tmcewan/expowatch/internal/event"
)

const page = `<!DOCTYPE html>
<html>
<body>
<script>
const allEvents = [
  {"title": "Stale Expo", "start": "2024-01-01T09:00:00Z"}
];
renderCalendar(allEvents);
</script>
</body>
</html>
`

func TestInject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		t.Fatal(err)
	}

	events := []*event.Event{
		{
			Title:      "Robotics Expo",
			Start:      "2025-06-10T09:00:00+01:00",
			End:        "2025-06-12T17:00:00+01:00",
			Venue:      "ExCeL London",
			Sector:     []string{},
			Exhibitors: []string{},
		},
	}

	if err := Inject(path, events); err != nil {
		t.Fatalf("Inject: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)

	if strings.Contains(got, "Stale Expo") {
		t.Error("old array literal survived")
	}
	if !strings.Contains(got, `const allEvents = [{"title":"Robotics Expo"`) {
		t.Errorf("new array not injected:\n%s", got)
	}
	if !strings.Contains(got, "renderCalendar(allEvents);") {
		t.Error("surrounding script damaged")
	}
}

func TestInjectDollarSignsSurvive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		t.Fatal(err)
	}

	events := []*event.Event{{Title: "Pricing from $1,000 Expo", Sector: []string{}, Exhibitors: []string{}}}
	if err := Inject(path, events); err != nil {
		t.Fatalf("Inject: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Pricing from $1,000 Expo") {
		t.Errorf("dollar sign mangled by replacement:\n%s", data)
	}
}

func TestInjectWithoutMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	original := "<html><body>hand-written page</body></html>"
	if err := os.WriteFile(path, []byte(original), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Inject(path, nil); err != nil {
		t.Fatalf("Inject: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != original {
		t.Errorf("page without marker rewritten:\n%s", data)
	}
}

func TestInjectMissingPage(t *testing.T) {
	if err := Inject(filepath.Join(t.TempDir(), "absent.html"), nil); err == nil {
		t.Error("missing page injected without error")
	}
}
