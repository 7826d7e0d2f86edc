package reconcile

import (
	"time"

	"github.com/tmcewan/expowatch/internal/event"
)

// Result is the outcome of one merge pass. Events is the updated persisted
// sequence; Added and Changed are disjoint report sequences.
type Result struct {
	Events  []*event.Event
	Added   []*event.Event
	Changed []*event.Event
}

// Merge folds seed and candidate records into the persisted sequence.
//
// Seeds are appended first when their key is absent, and never counted as
// added or changed. Candidates are processed in input order: an absent key
// appends the record and reports it added; a present key with day-granular
// start or end drift replaces the record in place, carrying forward the
// persisted sector (unless it was empty), exhibitors and free flag, and
// reports it changed; identical dates leave the record untouched except for
// backfilling an empty URL. The output never holds two records with the
// same key.
func Merge(existing, seeds, candidates []*event.Event) Result {
	events := make([]*event.Event, len(existing))
	copy(events, existing)

	index := make(map[event.Key]int, len(events))
	for i, e := range events {
		index[e.Key()] = i
	}

	for _, seed := range seeds {
		if _, ok := index[seed.Key()]; ok {
			continue
		}
		events = append(events, seed)
		index[seed.Key()] = len(events) - 1
	}

	var added, changed []*event.Event
	for _, cand := range candidates {
		key := cand.Key()
		i, ok := index[key]
		if !ok {
			events = append(events, cand)
			index[key] = len(events) - 1
			added = append(added, cand)
			continue
		}

		prev := events[i]
		if prev == cand {
			continue
		}
		if sameDay(prev.Start, cand.Start) && sameDay(prev.End, cand.End) {
			if prev.URL == "" {
				prev.URL = cand.URL
			}
			continue
		}

		// Date drift: the candidate replaces the record, curated state wins.
		if len(prev.Sector) > 0 {
			cand.Sector = prev.Sector
		}
		cand.Exhibitors = prev.Exhibitors
		cand.Free = prev.Free
		events[i] = cand
		changed = append(changed, cand)
	}

	return Result{Events: events, Added: added, Changed: changed}
}

// Prune drops records whose start lies beyond the retention horizon. A
// record whose start does not parse is retained: failing open beats
// silently deleting an entry an operator curated.
func Prune(events []*event.Event, horizon time.Time) []*event.Event {
	kept := make([]*event.Event, 0, len(events))
	for _, e := range events {
		if start, ok := e.StartTime(); ok && start.After(horizon) {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// WithinWindow reports whether a candidate's start falls inside the rolling
// discovery window [now, now+window]. Candidates without a parsable start
// are rejected.
func WithinWindow(e *event.Event, now time.Time, window time.Duration) bool {
	start, ok := e.StartTime()
	if !ok {
		return false
	}
	return !start.Before(now) && !start.After(now.Add(window))
}

// sameDay compares two stored ISO stamps at day granularity: by date
// prefix, ignoring time-of-day drift. This matches how the store has always
// detected date changes, so a same-day venue time correction is not churn.
func sameDay(a, b string) bool {
	return dayPrefix(a) == dayPrefix(b)
}

func dayPrefix(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
