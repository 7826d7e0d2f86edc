package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmcewan/expowatch/internal/discover"
	"github.com/tmcewan/expowatch/internal/event"
	"github.com/tmcewan/expowatch/internal/extract"
	"github.com/tmcewan/expowatch/internal/fetch"
	"github.com/tmcewan/expowatch/internal/logger"
	"github.com/tmcewan/expowatch/internal/reconcile"
	"github.com/tmcewan/expowatch/internal/report"
	"github.com/tmcewan/expowatch/internal/sector"
	"github.com/tmcewan/expowatch/internal/seeds"
	"github.com/tmcewan/expowatch/internal/storage"
)

var (
	flagSeeds       string
	flagWindowDays  int
	flagHorizonDays int
)

func newDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Run a discovery pass and reconcile the event store",
		Long: `Runs the sector and venue search queries, fetches each result page,
extracts event records, and merges them into the event store. Added and
changed records are appended to the change log.`,
		RunE: runDiscover,
	}

	cmd.Flags().StringVar(&flagSeeds, "seeds", "data/manual_events.yaml", "Manual seed events (optional)")
	cmd.Flags().IntVar(&flagWindowDays, "window-days", 84, "Accept candidates starting within this many days")
	cmd.Flags().IntVar(&flagHorizonDays, "horizon-days", 190, "Prune records starting beyond this many days")

	return cmd
}

func runDiscover(cmd *cobra.Command, args []string) error {
	fetcher := fetch.New(flagTimeout)

	// Missing credentials abort the whole run before anything is written.
	search, err := discover.FromEnv(fetcher)
	if err != nil {
		return err
	}

	tax := sector.Load(flagSectors)
	extractor := extract.New(fetcher, tax)

	urls := search.Discover(tax)
	if flagVerbose {
		fmt.Fprintf(os.Stderr, "Discovered %d candidate pages\n", len(urls))
	}

	now := time.Now().UTC()
	window := time.Duration(flagWindowDays) * 24 * time.Hour

	var candidates []*event.Event
	for _, pageURL := range urls {
		body, err := fetcher.Get(pageURL)
		if err != nil {
			logger.Warn("page skipped", logger.Fields{"url": pageURL, "error": err.Error()})
			continue
		}
		for _, cand := range extractor.FromPage(pageURL, body) {
			if !reconcile.WithinWindow(cand, now, window) {
				continue
			}
			candidates = append(candidates, cand)
		}
	}

	store, err := storage.New(flagEvents)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	existing, err := store.Load()
	if err != nil {
		return err
	}

	seedList, err := seeds.Load(flagSeeds, tax)
	if err != nil {
		logger.Warn("manual seeds skipped", logger.Fields{"path": flagSeeds, "error": err.Error()})
	}

	result := reconcile.Merge(existing, seedList, candidates)

	horizon := now.Add(time.Duration(flagHorizonDays) * 24 * time.Hour)
	final := reconcile.Prune(result.Events, horizon)

	if err := store.Save(final); err != nil {
		return err
	}
	if err := report.Append(flagChangelog, result.Added, result.Changed, now); err != nil {
		return err
	}

	fmt.Printf("candidates: %d, added: %d, changed: %d, total: %d\n",
		len(candidates), len(result.Added), len(result.Changed), len(final))

	if len(result.Added) > 0 || len(result.Changed) > 0 {
		os.Exit(ExitNewEvents)
	}
	return nil
}
