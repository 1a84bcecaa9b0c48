package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lectern-dev/lectern/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the local REST API used by chat frontends to manage
documents and fetch retrieval context.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8090", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	server, err := httpapi.NewServer(&httpapi.Ports{
		Document:  documentService,
		Retrieval: retrievalService,
		Settings:  settingsService,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "HTTP API listening on http://%s\n", serveAddr)
	return server.Run(cmd.Context(), serveAddr)
}
