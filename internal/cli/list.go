package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tmcewan/expowatch/internal/storage"
)

var flagFormat string

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the current event store",
		RunE:  runList,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	store, err := storage.New(flagEvents)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	events, err := store.Load()
	if err != nil {
		return err
	}

	return WriteEvents(os.Stdout, events, format, flagVerbose)
}
