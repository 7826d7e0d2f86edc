package dates

import (
	"regexp"
	"strings"
	"time"
)

// DefaultSpan is the assumed length of an event when a source only provides
// a start instant.
const DefaultSpan = 8 * time.Hour

// DayStart and DayEnd are the assumed opening and closing hours for events
// described only by calendar dates.
const (
	DayStartHour = 9
	DayEndHour   = 17
)

var london = loadLondon()

func loadLondon() *time.Location {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		// No tzdata available; UTC keeps instants well-defined.
		return time.UTC
	}
	return loc
}

// Local returns the venue-local timezone used when a source carries no
// offset of its own.
func Local() *time.Location {
	return london
}

var (
	compactDatePat = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
	compactTimePat = regexp.MustCompile(`^\d{8}T\d{6}Z?$`)
	rangePat       = regexp.MustCompile(`(\d{1,2})\s*(?:-|to)\s*(\d{1,2})\s+([A-Za-z]{3,})\s+(\d{4})`)
	singlePat      = regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]{3,})\s+(\d{4})`)
	isoFragmentPat = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
)

// ParseStamp parses a single timestamp value into a timezone-aware instant.
// Supported forms, first match wins: ISO-8601 date-times (a trailing Z maps
// to UTC, a missing offset to the venue-local timezone), bare ISO dates
// (09:00 local), compact YYYYMMDDTHHMMSS[Z], and compact YYYYMMDD (09:00
// local). Returns ok=false when no form matches; callers must never treat
// that as a zero instant.
func ParseStamp(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, v, london); err == nil {
			return t, true
		}
	}
	if t, err := time.ParseInLocation("2006-01-02", v, london); err == nil {
		return atHour(t, DayStartHour, london), true
	}

	if compactTimePat.MatchString(v) {
		loc := london
		if strings.HasSuffix(v, "Z") {
			loc = time.UTC
		}
		if t, err := time.ParseInLocation("20060102T150405", strings.TrimSuffix(v, "Z"), loc); err == nil {
			return t, true
		}
	}
	if compactDatePat.MatchString(v) {
		if t, err := time.ParseInLocation("20060102", v, london); err == nil {
			return atHour(t, DayStartHour, london), true
		}
	}

	return time.Time{}, false
}

// ParseRangeText scans free text for a date range. It recognizes, in order:
// "D1-D2 Month YYYY" (start 09:00 on D1, end 17:00 on D2), "D Month YYYY"
// (start 09:00, end start+8h), and a bare ISO date fragment anywhere in the
// text (start 09:00, end start+8h). Unicode dashes and non-breaking spaces
// are normalized before matching.
func ParseRangeText(text string) (time.Time, time.Time, bool) {
	t := normalize(text)

	if m := rangePat.FindStringSubmatch(t); m != nil {
		if month, ok := monthFromName(m[3]); ok {
			d1, d2 := atoi(m[1]), atoi(m[2])
			year := atoi(m[4])
			if validDay(d1) && validDay(d2) {
				start := time.Date(year, month, d1, DayStartHour, 0, 0, 0, london)
				end := time.Date(year, month, d2, DayEndHour, 0, 0, 0, london)
				return start, end, true
			}
		}
	}

	if m := singlePat.FindStringSubmatch(t); m != nil {
		if month, ok := monthFromName(m[2]); ok {
			d := atoi(m[1])
			if validDay(d) {
				start := time.Date(atoi(m[3]), month, d, DayStartHour, 0, 0, 0, london)
				return start, start.Add(DefaultSpan), true
			}
		}
	}

	if m := isoFragmentPat.FindStringSubmatch(t); m != nil {
		start := time.Date(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]), DayStartHour, 0, 0, 0, london)
		return start, start.Add(DefaultSpan), true
	}

	return time.Time{}, time.Time{}, false
}

// ParseICSStamp parses an RFC 5545 date or date-time value. A trailing Z
// maps to UTC; otherwise the TZID parameter is honored when the zone is
// resolvable, falling back to the venue-local timezone. Date-only values
// start at 09:00.
func ParseICSStamp(value, tzid string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}

	var loc *time.Location
	if strings.HasSuffix(v, "Z") {
		loc = time.UTC
	} else if tzid != "" {
		if l, err := time.LoadLocation(tzid); err == nil {
			loc = l
		}
	}
	if loc == nil {
		loc = london
	}

	clean := strings.TrimSuffix(v, "Z")
	if compactDatePat.MatchString(clean) {
		if t, err := time.ParseInLocation("20060102", clean, loc); err == nil {
			return atHour(t, DayStartHour, loc), true
		}
	}
	if t, err := time.ParseInLocation("20060102T150405", clean, loc); err == nil {
		return t, true
	}

	return ParseStamp(value)
}

// normalize maps unicode dash variants and non-breaking spaces to their
// ASCII equivalents so the patterns above only deal with one alphabet.
func normalize(s string) string {
	r := strings.NewReplacer("–", "-", "—", "-", " ", " ")
	return r.Replace(s)
}

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// monthFromName resolves a month from the first three letters of its name,
// case-insensitively. Unrecognized names fail the containing pattern.
func monthFromName(name string) (time.Month, bool) {
	if len(name) < 3 {
		return 0, false
	}
	m, ok := monthNames[strings.ToLower(name[:3])]
	return m, ok
}

func validDay(d int) bool {
	return d >= 1 && d <= 31
}

func atHour(t time.Time, hour int, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, loc)
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
