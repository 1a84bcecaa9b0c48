// Package cli provides the command-line interface for Lectern.
// Commands are thin adapters over the driving ports; all document and
// retrieval behaviour lives in the core services.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lectern-dev/lectern/internal/adapters/driven/config/file"
	"github.com/lectern-dev/lectern/internal/adapters/driven/storage/sqlite"
	"github.com/lectern-dev/lectern/internal/core/ports/driving"
	"github.com/lectern-dev/lectern/internal/core/services"
	"github.com/lectern-dev/lectern/internal/logger"
	"github.com/lectern-dev/lectern/internal/normalisers"
	"github.com/lectern-dev/lectern/internal/postprocessors"
	"github.com/lectern-dev/lectern/internal/scoring"
)

// version is set at build time via ldflags.
var version = "dev"

// Services wired by initServices. Package-level so commands can reach
// them and tests can substitute mocks.
var (
	documentService  driving.DocumentService
	retrievalService driving.RetrievalService
	settingsService  driving.SettingsService
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "lectern",
	Short: "Local document retrieval for chat models",
	Long: `Lectern indexes local documents and retrieves relevant context
for chat model prompts. Documents are chunked at ingestion, assigned to
models, and scored lexically at query time - no embeddings, no network.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute wires the production services and runs the root command.
func Execute(v string) error {
	version = v
	if err := initServices(); err != nil {
		return err
	}
	return rootCmd.Execute()
}

// initServices builds the production service graph. Already-set
// services are left alone so tests can inject mocks.
func initServices() error {
	if documentService != nil && retrievalService != nil && settingsService != nil {
		return nil
	}

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	if settingsService == nil {
		settingsService = services.NewSettingsService(configStore)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening document index: %w", err)
	}

	if documentService == nil {
		pipeline, err := buildPipeline(settings.Chunking.ChunkSize, settings.Chunking.Overlap)
		if err != nil {
			return err
		}

		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		filesDir := filepath.Join(home, ".lectern", "files")

		documentService = services.NewDocumentService(
			store,
			normalisers.NewDefaultRegistry(),
			pipeline,
			filesDir,
		)
	}

	if retrievalService == nil {
		retrievalService = services.NewRetrievalService(store, scoring.New(), settings.Retrieval.Budget)
	}

	return nil
}

// buildPipeline constructs the ingestion post-processor chain from
// chunking settings.
func buildPipeline(chunkSize, overlap int) (*postprocessors.Pipeline, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	chunkerProc, err := registry.Build("chunker", map[string]any{
		"chunk_size": chunkSize,
		"overlap":    overlap,
	})
	if err != nil {
		return nil, fmt.Errorf("building chunker: %w", err)
	}

	return postprocessors.NewPipeline(chunkerProc), nil
}
