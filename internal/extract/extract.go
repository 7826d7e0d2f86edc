package extract

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tmcewan/expowatch/internal/dates"
	"github.com/tmcewan/expowatch/internal/event"
	"github.com/tmcewan/expowatch/internal/logger"
)

// Fetcher retrieves the body of a URL. The extractor only uses it for
// calendar-file links discovered on a page.
type Fetcher interface {
	Get(url string) ([]byte, error)
}

// Extractor turns one fetched document into zero or more canonical records.
type Extractor struct {
	fetcher  Fetcher
	classify event.Classifier
}

// New creates an Extractor. classify may be nil, in which case records are
// emitted without a sector.
func New(fetcher Fetcher, classify event.Classifier) *Extractor {
	return &Extractor{fetcher: fetcher, classify: classify}
}

// FromPage extracts event records from a page, trying strategies in order
// until one yields results: JSON-LD event graphs, embedded .ics links, then
// free-text date matching against the page title and body.
func (x *Extractor) FromPage(pageURL string, body []byte) []*event.Event {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		logger.Warn("page unparsable", logger.Fields{"url": pageURL, "error": err.Error()})
		return nil
	}

	if events := x.fromJSONLD(doc, pageURL); len(events) > 0 {
		return events
	}
	if events := x.fromICSLinks(doc, pageURL); len(events) > 0 {
		return events
	}
	return x.fromFreeText(doc, pageURL, body)
}

// fromFreeText is the last-resort strategy: the page title becomes the event
// name and the temporal patterns run against the title first, then the full
// body. Venue defaults to the city.
func (x *Extractor) fromFreeText(doc *goquery.Document, pageURL string, body []byte) []*event.Event {
	name := strings.TrimSpace(doc.Find("title").First().Text())
	if name == "" {
		name = pageURL
	}

	start, end, ok := dates.ParseRangeText(name)
	if !ok {
		start, end, ok = dates.ParseRangeText(string(body))
	}
	if !ok {
		return nil
	}

	return []*event.Event{event.Unify(name, start, end, event.DefaultVenue, pageURL, x.classify)}
}
