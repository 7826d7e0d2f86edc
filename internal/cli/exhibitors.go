package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tmcewan/expowatch/internal/exhibitors"
	"github.com/tmcewan/expowatch/internal/fetch"
	"github.com/tmcewan/expowatch/internal/logger"
	"github.com/tmcewan/expowatch/internal/storage"
)

var (
	flagTargets string
	flagOutDir  string
)

func newExhibitorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exhibitors",
		Short: "Scrape configured exhibitor lists and attach them to the store",
		RunE:  runExhibitors,
	}

	cmd.Flags().StringVar(&flagTargets, "targets", "data/exhibitors_targets.yaml", "Exhibitor scrape targets")
	cmd.Flags().StringVar(&flagOutDir, "out-dir", "data/exhibitors", "Directory for per-event exhibitor lists")

	return cmd
}

func runExhibitors(cmd *cobra.Command, args []string) error {
	targets, err := exhibitors.LoadTargets(flagTargets)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		fmt.Println("No exhibitor targets configured.")
		return nil
	}

	scraper := exhibitors.NewScraper(fetch.New(flagTimeout))

	var lists []exhibitors.List
	for _, t := range targets {
		names, err := scraper.Names(t)
		if err != nil {
			logger.Warn("exhibitor target skipped", logger.Fields{"match": t.Match, "error": err.Error()})
			continue
		}
		list := exhibitors.List{Match: t.Match, Exhibitors: names}
		path, err := exhibitors.SaveList(flagOutDir, list)
		if err != nil {
			return err
		}
		if flagVerbose {
			fmt.Fprintf(os.Stderr, "%s: saved %d exhibitors -> %s\n", t.Match, len(names), path)
		}
		lists = append(lists, list)
	}

	store, err := storage.New(flagEvents)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	events, err := store.Load()
	if err != nil {
		return err
	}

	applied := exhibitors.Apply(events, lists)
	if applied > 0 {
		if err := store.Save(events); err != nil {
			return err
		}
	}

	fmt.Printf("scraped %d targets, updated %d events\n", len(lists), applied)
	return nil
}
