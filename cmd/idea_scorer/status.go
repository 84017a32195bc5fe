package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/venturelab/idea-scorer/internal/checkpoint"
	"github.com/venturelab/idea-scorer/internal/llm"
	"github.com/venturelab/idea-scorer/internal/observability"
)

var statusCommand = &cobra.Command{
	Use:   "status",
	Short: "Show checkpoint progress for a document and sector",
	RunE:  runStatusCmd,
}

var (
	statusDocument      string
	statusSector        string
	statusProvider      string
	statusModel         string
	statusCheckpointDir string
)

func init() {
	statusCommand.Flags().StringVarP(&statusDocument, "document", "d", "", "Document name (file base name without extension)")
	statusCommand.Flags().StringVarP(&statusSector, "sector", "s", "", "Business sector")
	statusCommand.Flags().StringVar(&statusProvider, "provider", "", "LLM provider")
	statusCommand.Flags().StringVar(&statusModel, "model", "", "Model name")
	statusCommand.Flags().StringVar(&statusCheckpointDir, "checkpoint-dir", "checkpoints", "Directory for checkpoint files")
	_ = statusCommand.MarkFlagRequired("document")
	_ = statusCommand.MarkFlagRequired("sector")

	rootCmd.AddCommand(statusCommand)
}

func statusRunContext() checkpoint.RunContext {
	defaults := llm.DefaultConfig()
	provider := statusProvider
	if provider == "" {
		provider = string(defaults.Provider)
	}
	model := statusModel
	if model == "" {
		model = defaults.Model
	}
	return checkpoint.RunContext{
		DocumentName: statusDocument,
		Sector:       statusSector,
		Provider:     provider,
		Model:        model,
	}
}

func runStatusCmd(_ *cobra.Command, _ []string) error {
	store, err := checkpoint.NewFileStore(statusCheckpointDir, statusRunContext(), true)
	if err != nil {
		return err
	}

	status, err := store.Status()
	if err != nil {
		return fmt.Errorf("failed to read checkpoint status: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintCheckpointStatus(status)
	return nil
}
