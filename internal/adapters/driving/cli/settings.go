package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long:  `View and configure retrieval budget and chunking parameters.`,
	RunE:  runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update settings",
	Long: `Update retrieval and chunking settings. Only the flags you pass
change; everything else keeps its current value.

Chunking changes apply to future uploads only; existing documents keep
the chunks they were ingested with.`,
	RunE: runSettingsSet,
}

var (
	setMaxChars  int
	setMaxDocs   int
	setMaxChunks int
	setChunkSize int
	setOverlap   int
)

func init() {
	settingsSetCmd.Flags().IntVar(&setMaxChars, "max-chars", 0, "character cap on assembled context")
	settingsSetCmd.Flags().IntVar(&setMaxDocs, "max-docs", 0, "maximum documents per query")
	settingsSetCmd.Flags().IntVar(&setMaxChunks, "max-chunks", 0, "maximum chunks quoted per document")
	settingsSetCmd.Flags().IntVar(&setChunkSize, "chunk-size", 0, "characters per chunk")
	settingsSetCmd.Flags().IntVar(&setOverlap, "overlap", -1, "overlapping characters between chunks")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("getting settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()
	cmd.Println("[Retrieval]")
	cmd.Printf("  Max context chars:   %d\n", settings.Retrieval.Budget.MaxTotalChars)
	cmd.Printf("  Max docs per query:  %d\n", settings.Retrieval.Budget.MaxDocsPerQuery)
	cmd.Printf("  Max chunks per doc:  %d\n", settings.Retrieval.Budget.MaxChunksPerDoc)
	cmd.Println()
	cmd.Println("[Chunking]")
	cmd.Printf("  Chunk size:          %d\n", settings.Chunking.ChunkSize)
	cmd.Printf("  Overlap:             %d\n", settings.Chunking.Overlap)
	return nil
}

func runSettingsSet(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("getting settings: %w", err)
	}

	if setMaxChars > 0 {
		settings.Retrieval.Budget.MaxTotalChars = setMaxChars
	}
	if setMaxDocs > 0 {
		settings.Retrieval.Budget.MaxDocsPerQuery = setMaxDocs
	}
	if setMaxChunks > 0 {
		settings.Retrieval.Budget.MaxChunksPerDoc = setMaxChunks
	}
	if setChunkSize > 0 {
		settings.Chunking.ChunkSize = setChunkSize
	}
	if setOverlap >= 0 {
		settings.Chunking.Overlap = setOverlap
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	cmd.Println("Settings saved.")
	return nil
}
