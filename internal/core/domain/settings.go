package domain

// RetrievalSettings holds the context budget configuration.
type RetrievalSettings struct {
	// Budget bounds assembled context size and shape.
	Budget ContextBudget
}

// ChunkingSettings holds chunker parameters.
type ChunkingSettings struct {
	// ChunkSize is the proposed characters per chunk.
	ChunkSize int

	// Overlap is the characters shared between consecutive chunks.
	Overlap int
}

// Valid reports whether the parameters satisfy the chunker contract:
// positive size, non-negative overlap strictly below size.
func (c ChunkingSettings) Valid() bool {
	return c.ChunkSize > 0 && c.Overlap >= 0 && c.Overlap < c.ChunkSize
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Retrieval holds context budget settings.
	Retrieval RetrievalSettings

	// Chunking holds chunker parameters.
	Chunking ChunkingSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Retrieval: RetrievalSettings{
			Budget: DefaultContextBudget(),
		},
		Chunking: ChunkingSettings{
			ChunkSize: 1000,
			Overlap:   200,
		},
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config for extensibility - new processors can be
// added without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the default pipeline configuration.
// Works out-of-the-box with chunker using sensible defaults.
func DefaultPipelineConfig() PipelineConfig {
	defaults := DefaultAppSettings().Chunking
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": defaults.ChunkSize,
				"overlap":    defaults.Overlap,
			},
		},
	}
}
