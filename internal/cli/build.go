package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmcewan/expowatch/internal/feed"
	"github.com/tmcewan/expowatch/internal/site"
	"github.com/tmcewan/expowatch/internal/storage"
)

var (
	flagFeed string
	flagPage string
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write the calendar feed and inject site data from the store",
		RunE:  runBuild,
	}

	cmd.Flags().StringVar(&flagFeed, "feed", "London_Expos.ics", "Output calendar feed path")
	cmd.Flags().StringVar(&flagPage, "page", "index.html", "Static page to inject events into")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	store, err := storage.New(flagEvents)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	events, err := store.Load()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	window := feed.Window(events, now)

	if err := feed.Write(flagFeed, window, now); err != nil {
		return err
	}
	if err := site.Inject(flagPage, window); err != nil {
		return err
	}

	fmt.Printf("built %d events for the next %d days\n", len(window), feed.WindowDays)
	return nil
}
