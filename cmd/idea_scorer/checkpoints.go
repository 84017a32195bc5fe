package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venturelab/idea-scorer/internal/checkpoint"
	"github.com/venturelab/idea-scorer/internal/llm"
)

var checkpointsCommand = &cobra.Command{
	Use:   "checkpoints",
	Short: "Manage checkpoint files",
}

var checkpointsClearCommand = &cobra.Command{
	Use:   "clear",
	Short: "Delete all checkpoints for a document and sector",
	RunE:  runCheckpointsClearCmd,
}

var checkpointsPruneCommand = &cobra.Command{
	Use:   "prune",
	Short: "Delete old checkpoint versions, keeping the most recent per step",
	RunE:  runCheckpointsPruneCmd,
}

var (
	cpDocument      string
	cpSector        string
	cpProvider      string
	cpModel         string
	cpCheckpointDir string
	cpKeepLatest    int
)

func init() {
	for _, cmd := range []*cobra.Command{checkpointsClearCommand, checkpointsPruneCommand} {
		cmd.Flags().StringVarP(&cpDocument, "document", "d", "", "Document name (file base name without extension)")
		cmd.Flags().StringVarP(&cpSector, "sector", "s", "", "Business sector")
		cmd.Flags().StringVar(&cpProvider, "provider", "", "LLM provider")
		cmd.Flags().StringVar(&cpModel, "model", "", "Model name")
		cmd.Flags().StringVar(&cpCheckpointDir, "checkpoint-dir", "checkpoints", "Directory for checkpoint files")
		_ = cmd.MarkFlagRequired("document")
		_ = cmd.MarkFlagRequired("sector")
	}
	checkpointsPruneCommand.Flags().IntVar(&cpKeepLatest, "keep", 1, "Number of versions to keep per step")

	checkpointsCommand.AddCommand(checkpointsClearCommand)
	checkpointsCommand.AddCommand(checkpointsPruneCommand)
	rootCmd.AddCommand(checkpointsCommand)
}

func checkpointsStore() (*checkpoint.FileStore, error) {
	defaults := llm.DefaultConfig()
	provider := cpProvider
	if provider == "" {
		provider = string(defaults.Provider)
	}
	model := cpModel
	if model == "" {
		model = defaults.Model
	}
	return checkpoint.NewFileStore(cpCheckpointDir, checkpoint.RunContext{
		DocumentName: cpDocument,
		Sector:       cpSector,
		Provider:     provider,
		Model:        model,
	}, true)
}

func runCheckpointsClearCmd(_ *cobra.Command, _ []string) error {
	store, err := checkpointsStore()
	if err != nil {
		return err
	}

	removed, err := store.Clear()
	if err != nil {
		return fmt.Errorf("failed to clear checkpoints: %w", err)
	}

	fmt.Printf("Removed %d checkpoint file(s)\n", removed)
	return nil
}

func runCheckpointsPruneCmd(_ *cobra.Command, _ []string) error {
	if cpKeepLatest < 1 {
		return fmt.Errorf("--keep must be at least 1")
	}

	store, err := checkpointsStore()
	if err != nil {
		return err
	}

	removed, err := store.Prune(cpKeepLatest)
	if err != nil {
		return fmt.Errorf("failed to prune checkpoints: %w", err)
	}

	fmt.Printf("Pruned %d checkpoint file(s)\n", removed)
	return nil
}
