package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lectern-dev/lectern/internal/core/domain"
)

var (
	retrieveModel    string
	retrieveJSON     bool
	retrieveMaxChars int
	retrieveMaxDocs  int
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Retrieve document context for a query",
	Long: `Scores the documents assigned to a model against the query and
prints the assembled context that would be injected into the prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().StringVarP(&retrieveModel, "model", "m", "", "model whose assigned documents are searched")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output results as JSON")
	retrieveCmd.Flags().IntVar(&retrieveMaxChars, "max-chars", 0, "character cap on the assembled context")
	retrieveCmd.Flags().IntVar(&retrieveMaxDocs, "max-docs", 0, "maximum documents included")
	_ = retrieveCmd.MarkFlagRequired("model")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	query := args[0]

	results, err := retrievalService.Retrieve(context.Background(), query, retrieveModel)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	budget := retrievalService.Budget()
	if retrieveMaxChars > 0 {
		budget.MaxTotalChars = retrieveMaxChars
	}
	if retrieveMaxDocs > 0 {
		budget.MaxDocsPerQuery = retrieveMaxDocs
	}
	assembled := retrievalService.AssembleContext(results, budget)

	if retrieveJSON {
		return outputRetrieveJSON(cmd, results, assembled)
	}
	return outputRetrieveText(cmd, results, assembled)
}

func outputRetrieveJSON(cmd *cobra.Command, results []domain.RetrievalResult, assembled domain.AssembledContext) error {
	payload := struct {
		Results   []domain.RetrievalResult `json:"results"`
		Context   string                   `json:"context"`
		Documents []string                 `json:"documents"`
		Truncated bool                     `json:"truncated"`
	}{results, assembled.Text, assembled.DocumentNames, assembled.Truncated}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputRetrieveText(cmd *cobra.Command, results []domain.RetrievalResult, assembled domain.AssembledContext) error {
	if len(results) == 0 {
		cmd.Println("No documents matched.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, res := range results {
		cmd.Printf("  [%d] %s (relevance %d)\n", i+1, res.Name, res.Relevance)
		if res.Fallback {
			cmd.Printf("      included by fallback\n")
		} else {
			cmd.Printf("      %d/%d chunks matched\n", res.MatchedChunks, res.TotalChunks)
		}
	}

	cmd.Println()
	cmd.Println("Assembled context:")
	cmd.Println(assembled.Text)
	if assembled.Truncated {
		cmd.Println("(context truncated to fit budget)")
	}
	return nil
}
