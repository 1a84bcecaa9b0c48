package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lectern-dev/lectern/internal/core/ports/driving"
)

var (
	uploadModels string
	documentJSON bool
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage indexed documents",
	Long:  `List, inspect, assign, or delete indexed documents.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print extracted document text",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentAssignCmd = &cobra.Command{
	Use:   "assign [doc-id] [model...]",
	Short: "Replace a document's model assignments",
	Long: `Replaces the document's assignment list with the given models.
A document with no assignments is invisible to all retrieval.
Pass only the document ID to clear all assignments.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDocumentAssign,
}

var documentRemoveCmd = &cobra.Command{
	Use:   "remove [doc-id]",
	Short: "Delete a document from the index",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentRemove,
}

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Ingest a file into the document index",
	Long: `Reads the file, extracts its text, chunks it and stores the
document. Use --models to assign it to models at ingestion time.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadModels, "models", "m", "", "comma-separated models to assign")
	documentListCmd.Flags().BoolVar(&documentJSON, "json", false, "output as JSON")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentAssignCmd)
	documentCmd.AddCommand(documentRemoveCmd)
	rootCmd.AddCommand(documentCmd)
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var models []string
	if uploadModels != "" {
		models = strings.Split(uploadModels, ",")
	}

	doc, err := documentService.Upload(context.Background(), driving.UploadRequest{
		Name:         filepath.Base(path),
		Content:      content,
		AssignModels: models,
	})
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	cmd.Printf("Uploaded %s\n", doc.Name)
	cmd.Printf("  ID:     %s\n", doc.ID)
	cmd.Printf("  Type:   %s\n", doc.Type)
	cmd.Printf("  Chunks: %d\n", len(doc.Chunks()))
	if len(doc.AssignedModels) > 0 {
		cmd.Printf("  Models: %s\n", strings.Join(doc.AssignedModels, ", "))
	}
	return nil
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	summaries, err := documentService.List(context.Background())
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if documentJSON {
		data, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(summaries) == 0 {
		cmd.Println("No documents indexed.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for _, sum := range summaries {
		cmd.Printf("  %s  %s\n", sum.ID, sum.Name)
		cmd.Printf("      type=%s chunks=%d chars=%d\n", sum.Type, sum.ChunkCount, sum.FullTextLength)
		if len(sum.AssignedModels) > 0 {
			cmd.Printf("      models: %s\n", strings.Join(sum.AssignedModels, ", "))
		} else {
			cmd.Printf("      models: (none - invisible to retrieval)\n")
		}
		cmd.Println()
	}
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("getting document: %w", err)
	}

	cmd.Printf("Document %s\n", doc.ID)
	cmd.Printf("  Name:     %s\n", doc.Name)
	cmd.Printf("  Type:     %s\n", doc.Type)
	cmd.Printf("  Chunks:   %d\n", len(doc.Chunks()))
	cmd.Printf("  Length:   %d chars\n", doc.FullTextLength)
	cmd.Printf("  Uploaded: %s\n", doc.UploadedAt.Format("2006-01-02 15:04:05"))
	if len(doc.AssignedModels) > 0 {
		cmd.Printf("  Models:   %s\n", strings.Join(doc.AssignedModels, ", "))
	}
	if doc.TextPreview != "" {
		cmd.Println()
		cmd.Println("Preview:")
		cmd.Println(doc.TextPreview)
	}
	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	content, err := documentService.GetContent(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("getting content: %w", err)
	}

	cmd.Println(content)
	return nil
}

func runDocumentAssign(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	models := args[1:]

	if err := documentService.Assign(context.Background(), docID, models); err != nil {
		return fmt.Errorf("assigning models: %w", err)
	}

	if len(models) == 0 {
		cmd.Printf("Cleared assignments for %s\n", docID)
	} else {
		cmd.Printf("Assigned %s to: %s\n", docID, strings.Join(models, ", "))
	}
	return nil
}

func runDocumentRemove(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("removing document: %w", err)
	}

	cmd.Printf("Removed %s\n", args[0])
	return nil
}
