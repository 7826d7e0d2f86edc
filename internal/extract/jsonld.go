package extract

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tmcewan/expowatch/internal/dates"
	"github.com/tmcewan/expowatch/internal/event"
)

// eventTypes are the schema.org @type values treated as a concrete event.
var eventTypes = map[string]bool{
	"event":            true,
	"businessevent":    true,
	"exhibitionevent":  true,
	"conferencesevent": true,
	"festival":         true,
	"expositionevent":  true,
}

// fromJSONLD walks every application/ld+json payload on the page for
// event-like nodes. Nodes are deduplicated by canonical serialization so an
// identical sub-object reached through two graph edges only counts once.
func (x *Extractor) fromJSONLD(doc *goquery.Document, pageURL string) []*event.Event {
	var out []*event.Event
	emitted := make(map[string]struct{})

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var data interface{}
		if err := json.Unmarshal([]byte(sel.Text()), &data); err != nil {
			// Malformed payload: skip this script, keep scanning the page.
			return
		}
		for _, node := range eventNodes(data) {
			id := canonical(node)
			if _, dup := emitted[id]; dup {
				continue
			}
			emitted[id] = struct{}{}
			if evt := x.unifyNode(node, pageURL); evt != nil {
				out = append(out, evt)
			}
		}
	})

	return out
}

// eventNodes traverses a parsed JSON-LD structure with an explicit worklist
// and returns every event-like node, with EventSeries fields inherited as
// defaults into each subEvent/eventSchedule child. The visited set, keyed on
// (node, inherited) canonical forms, breaks cycles introduced by merging
// series fields into children that lack a type of their own.
func eventNodes(root interface{}) []map[string]interface{} {
	type frame struct {
		value     interface{}
		inherited map[string]interface{}
	}

	var out []map[string]interface{}
	queue := []frame{{value: root}}
	visited := make(map[string]struct{})

	for len(queue) > 0 {
		fr := queue[0]
		queue = queue[1:]

		switch v := fr.value.(type) {
		case []interface{}:
			for _, item := range v {
				queue = append(queue, frame{value: item, inherited: fr.inherited})
			}

		case map[string]interface{}:
			id := canonical(v) + "|" + canonical(fr.inherited)
			if _, seen := visited[id]; seen {
				continue
			}
			visited[id] = struct{}{}

			types := typeSet(v["@type"])
			series := types["eventseries"]

			switch {
			case series:
				base := merge(fr.inherited, v)
				children := toList(v["subEvent"])
				if len(children) == 0 {
					children = toList(v["eventSchedule"])
				}
				for _, sub := range children {
					if child, ok := sub.(map[string]interface{}); ok {
						queue = append(queue, frame{value: merge(base, child), inherited: base})
					}
				}
			case intersects(types, eventTypes):
				out = append(out, merge(fr.inherited, v))
			}

			// Nested structures can hold further events; scan every value.
			// Series children were already enqueued merged, so their keys
			// are skipped to avoid emitting an un-inherited duplicate.
			for _, key := range sortedKeys(v) {
				if series && (key == "subEvent" || key == "eventSchedule") {
					continue
				}
				queue = append(queue, frame{value: v[key], inherited: fr.inherited})
			}
		}
	}

	return out
}

// unifyNode converts one qualifying JSON-LD node into a canonical record.
// Nodes without a parsable start are discarded; a missing or inverted end
// becomes start+8h.
func (x *Extractor) unifyNode(node map[string]interface{}, pageURL string) *event.Event {
	name := strings.TrimSpace(stringField(node, "name"))

	startRaw := stringField(node, "startDate", "startTime")
	if startRaw == "" {
		return nil
	}
	start, ok := dates.ParseStamp(startRaw)
	if !ok {
		return nil
	}

	end, ok := dates.ParseStamp(stringField(node, "endDate", "endTime"))
	if !ok || end.Before(start) {
		end = start.Add(dates.DefaultSpan)
	}

	url := stringField(node, "url", "mainEntityOfPage", "@id")
	if url == "" {
		url = pageURL
	}

	return event.Unify(name, start, end, venueOf(node), url, x.classify)
}

// venueOf extracts a venue name from the node's location, which in the wild
// is an object, an array of objects, or a plain string. Objects prefer an
// explicit name over the address locality.
func venueOf(node map[string]interface{}) string {
	loc := node["location"]
	if loc == nil {
		loc = node["eventVenue"]
	}

	switch v := loc.(type) {
	case map[string]interface{}:
		if name := stringField(v, "name", "addressLocality"); name != "" {
			return name
		}
	case []interface{}:
		for _, cand := range v {
			if obj, ok := cand.(map[string]interface{}); ok {
				if name := stringField(obj, "name", "addressLocality"); name != "" {
					return name
				}
			}
		}
	case string:
		return v
	}
	return ""
}

// canonical serializes a value deterministically; encoding/json sorts map
// keys, which is all the canonicalization structural equality needs.
func canonical(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func typeSet(v interface{}) map[string]bool {
	set := make(map[string]bool)
	switch t := v.(type) {
	case string:
		set[strings.ToLower(t)] = true
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok {
				set[strings.ToLower(s)] = true
			}
		}
	}
	return set
}

func intersects(have map[string]bool, want map[string]bool) bool {
	for k := range have {
		if want[k] {
			return true
		}
	}
	return false
}

// merge overlays child fields onto base defaults, returning a new map.
func merge(base, child map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(child))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range child {
		out[k] = v
	}
	return out
}

func toList(v interface{}) []interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case []interface{}:
		return t
	default:
		return []interface{}{t}
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// stringField returns the first key whose value is a non-blank string.
func stringField(node map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := node[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
