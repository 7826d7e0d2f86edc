// Package discover turns the sector taxonomy into search-provider queries
// and collects candidate page URLs from the results.
package discover

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/tmcewan/expowatch/internal/fetch"
	"github.com/tmcewan/expowatch/internal/logger"
	"github.com/tmcewan/expowatch/internal/sector"
)

const (
	defaultEndpoint = "https://www.googleapis.com/customsearch/v1"

	// BaseQuery anchors every search on London exhibition language; sector
	// and venue fragments are appended per query.
	BaseQuery = `(expo OR "trade show" OR exhibition OR fair OR conference) "London"`

	// ResultsPerQuery is the number of links requested per search.
	ResultsPerQuery = 10

	// queryDelay is a courtesy pause between successive provider queries.
	// It is rate-limit politeness, not backpressure.
	queryDelay = 250 * time.Millisecond
)

// venueQueries cover the major London exhibition venues that rarely carry a
// sector keyword of their own.
var venueQueries = []string{
	`"ExCeL London"`,
	`"Olympia London"`,
	`"Business Design Centre"`,
	`"QEII Centre"`,
	`"Tobacco Dock"`,
	`"Design Centre Chelsea Harbour"`,
	`"The O2"`,
	"site:excel.london",
	"site:olympia.london",
}

// ErrConfigMissing signals absent search credentials. The run aborts early
// with no partial write.
var ErrConfigMissing = errors.New("missing GOOGLE_API_KEY or GOOGLE_CX")

// Client queries the Google Custom Search JSON API.
type Client struct {
	apiKey   string
	cx       string
	endpoint string
	fetcher  *fetch.Client
}

// FromEnv builds a Client from the GOOGLE_API_KEY and GOOGLE_CX environment
// variables, returning ErrConfigMissing when either is absent.
func FromEnv(fetcher *fetch.Client) (*Client, error) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	cx := os.Getenv("GOOGLE_CX")
	if apiKey == "" || cx == "" {
		return nil, ErrConfigMissing
	}
	return &Client{apiKey: apiKey, cx: cx, endpoint: defaultEndpoint, fetcher: fetcher}, nil
}

// BuildQueries combines the base query with each sector's search fragment
// plus the fixed venue queries, in that order.
func BuildQueries(tax *sector.Taxonomy) []string {
	var queries []string
	for _, s := range tax.Sectors() {
		if s.Search == "" {
			continue
		}
		queries = append(queries, BaseQuery+" "+s.Search)
	}
	for _, v := range venueQueries {
		queries = append(queries, BaseQuery+" "+v)
	}
	return queries
}

type searchResponse struct {
	Items []struct {
		Link string `json:"link"`
	} `json:"items"`
}

// Search runs one query and returns the result links.
func (c *Client) Search(q string, num int) ([]string, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.cx)
	params.Set("q", q)
	params.Set("num", strconv.Itoa(num))
	params.Set("safe", "off")

	body, err := c.fetcher.Get(c.endpoint + "?" + params.Encode())
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	links := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Link != "" {
			links = append(links, item.Link)
		}
	}
	return links, nil
}

// Discover runs every query and returns the result URLs, deduplicated while
// preserving first-seen order. A failed query is logged and skipped; the
// pass continues with whatever the remaining queries yield.
func (c *Client) Discover(tax *sector.Taxonomy) []string {
	var urls []string
	seen := make(map[string]struct{})

	for i, q := range BuildQueries(tax) {
		if i > 0 {
			time.Sleep(queryDelay)
		}
		links, err := c.Search(q, ResultsPerQuery)
		if err != nil {
			logger.Warn("search failed", logger.Fields{"query": q, "error": err.Error()})
			continue
		}
		for _, link := range links {
			if _, dup := seen[link]; dup {
				continue
			}
			seen[link] = struct{}{}
			urls = append(urls, link)
		}
	}
	return urls
}
