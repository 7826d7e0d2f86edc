package extract

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	ics "github.com/arran4/golang-ical"

	"github.com/tmcewan/expowatch/internal/dates"
	"github.com/tmcewan/expowatch/internal/event"
	"github.com/tmcewan/expowatch/internal/logger"
)

// fromICSLinks scans the page for anchors and link elements pointing at .ics
// files, fetches each one, and parses its VEVENTs. A failed fetch or parse
// skips that link only; the page is never fatal.
func (x *Extractor) fromICSLinks(doc *goquery.Document, pageURL string) []*event.Event {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var out []*event.Event
	seen := make(map[string]struct{})

	doc.Find("a[href], link[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.HasSuffix(strings.ToLower(href), ".ics") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		full := base.ResolveReference(ref).String()
		if _, dup := seen[full]; dup {
			return
		}
		seen[full] = struct{}{}

		body, err := x.fetcher.Get(full)
		if err != nil {
			logger.Warn("calendar link skipped", logger.Fields{"url": full, "error": err.Error()})
			return
		}
		out = append(out, x.parseICS(body, pageURL)...)
	})

	return out
}

// parseICS converts the VEVENTs of one calendar file into canonical records.
// An event needs at least SUMMARY and a parsable DTSTART; DTEND defaults to
// start+8h. TZID parameters are honored when the zone resolves.
func (x *Extractor) parseICS(body []byte, sourceURL string) []*event.Event {
	cal, err := ics.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		logger.Warn("calendar unparsable", logger.Fields{"source": sourceURL, "error": err.Error()})
		return nil
	}

	var out []*event.Event
	for _, ve := range cal.Events() {
		summary := propValue(ve, ics.ComponentPropertySummary)
		dtstart := ve.GetProperty(ics.ComponentPropertyDtStart)
		if summary == "" || dtstart == nil || dtstart.Value == "" {
			continue
		}

		start, ok := dates.ParseICSStamp(dtstart.Value, tzid(dtstart))
		if !ok {
			continue
		}

		end, endOK := dates.ParseICSStamp(propPair(ve, ics.ComponentPropertyDtEnd))
		if !endOK || end.Before(start) {
			end = start.Add(dates.DefaultSpan)
		}

		venue := propValue(ve, ics.ComponentPropertyLocation)
		link := propValue(ve, ics.ComponentPropertyUrl)
		if link == "" {
			link = sourceURL
		}

		out = append(out, event.Unify(summary, start, end, venue, link, x.classify))
	}
	return out
}

func propValue(ve *ics.VEvent, name ics.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return strings.TrimSpace(p.Value)
	}
	return ""
}

// propPair returns a property's value and TZID parameter together, shaped
// for dates.ParseICSStamp.
func propPair(ve *ics.VEvent, name ics.ComponentProperty) (string, string) {
	p := ve.GetProperty(name)
	if p == nil {
		return "", ""
	}
	return p.Value, tzid(p)
}

func tzid(p *ics.IANAProperty) string {
	if vals, ok := p.ICalParameters["TZID"]; ok && len(vals) > 0 {
		return vals[0]
	}
	return ""
}
