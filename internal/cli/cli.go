package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNewEvents = 2
)

var (
	flagEvents    string
	flagChangelog string
	flagSectors   string
	flagTimeout   time.Duration
	flagVerbose   bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expowatch",
		Short: "Discover and track upcoming London expos",
		Long: `Discovers forthcoming exhibition and conference events in London,
extracts normalized records from the pages it finds, and reconciles them
into a persistent event store with a calendar feed and site data.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagEvents, "events", "events.json", "Path to the event store")
	cmd.PersistentFlags().StringVar(&flagChangelog, "changelog", "CHANGELOG.md", "Path to the running change log")
	cmd.PersistentFlags().StringVar(&flagSectors, "sectors", "data/industry_sectors.yaml", "Sector taxonomy config (built-in defaults when absent)")
	cmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "Per-request fetch timeout")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newDiscoverCmd())
	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newExhibitorsCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
