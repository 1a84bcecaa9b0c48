package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lectern-dev/lectern/internal/adapters/driving/watch"
)

var watchModels string

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Ingest files dropped into a directory",
	Long: `Watches a directory and ingests every file placed in it. Runs
until interrupted. Use --models to assign ingested documents to models.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchModels, "models", "m", "", "comma-separated models to assign")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	var opts []watch.Option
	if watchModels != "" {
		opts = append(opts, watch.WithAssignModels(strings.Split(watchModels, ",")))
	}

	watcher := watch.New(args[0], documentService, opts...)

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", args[0])
	return watcher.Run(cmd.Context())
}
