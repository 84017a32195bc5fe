package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/venturelab/idea-scorer/internal/checkpoint"
	"github.com/venturelab/idea-scorer/internal/config"
	"github.com/venturelab/idea-scorer/internal/db"
	"github.com/venturelab/idea-scorer/internal/ingest"
	"github.com/venturelab/idea-scorer/internal/llm"
	"github.com/venturelab/idea-scorer/internal/observability"
	"github.com/venturelab/idea-scorer/internal/pipeline"
	"github.com/venturelab/idea-scorer/internal/schemas"
	"github.com/venturelab/idea-scorer/internal/types"
)

var scoreCommand = &cobra.Command{
	Use:   "score",
	Short: "Run the full evaluation pipeline end-to-end",
	Long: `Orchestrates the entire evaluation: content extraction -> idea generation -> 11 dimension evaluations -> synthesis -> final consolidation.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runScoreCmd,
}

var (
	scoreConfigPath    string
	scoreDocument      string
	scoreDocumentURL   string
	scoreSector        string
	scoreProvider      string
	scoreModel         string
	scoreNumIdeas      int
	scoreIdeaIndex     int
	scoreCheckpointDir string
	scoreNoCheckpoints bool
	scoreAPIKey        string
	scoreDatabaseURL   string
	scoreVerbose       bool
	scoreOutput        string
)

func init() {
	// Config file flag (processed first)
	scoreCommand.Flags().StringVar(&scoreConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	scoreCommand.Flags().StringVarP(&scoreDocument, "document", "d", "", "Path to source document text file (mutually exclusive with --document-url)")
	scoreCommand.Flags().StringVar(&scoreDocumentURL, "document-url", "", "URL to fetch the source document from (mutually exclusive with --document)")
	scoreCommand.Flags().StringVarP(&scoreSector, "sector", "s", "", "Business sector to evaluate against")
	scoreCommand.Flags().StringVar(&scoreProvider, "provider", "", "LLM provider: gemini, openai, anthropic")
	scoreCommand.Flags().StringVar(&scoreModel, "model", "", "Model name for the chosen provider")
	scoreCommand.Flags().IntVar(&scoreNumIdeas, "num-ideas", 0, "Number of business ideas to generate")
	scoreCommand.Flags().IntVar(&scoreIdeaIndex, "idea-index", 0, "Which generated idea to evaluate (0-based)")
	scoreCommand.Flags().StringVar(&scoreCheckpointDir, "checkpoint-dir", "", "Directory for checkpoint files")
	scoreCommand.Flags().BoolVar(&scoreNoCheckpoints, "no-checkpoints", false, "Disable checkpoint save and resume")
	scoreCommand.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print detailed debug information")
	scoreCommand.Flags().StringVarP(&scoreOutput, "output", "o", "", "Write the final report JSON to this file")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	scoreCommand.Flags().StringVar(&scoreAPIKey, "api-key", "", "Provider API key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for report persistence
	scoreCommand.Flags().StringVar(&scoreDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(scoreCommand)
}

// resolveScoreConfig merges the config file, CLI overrides, and defaults.
func resolveScoreConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if scoreConfigPath != "" {
		loadedCfg, err := config.LoadConfig(scoreConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loadedCfg
	}

	// CLI overrides win, but only when the flag was explicitly set
	if cmd.Flags().Changed("document") {
		cfg.Document = scoreDocument
	}
	if cmd.Flags().Changed("document-url") {
		cfg.DocumentURL = scoreDocumentURL
	}
	if cmd.Flags().Changed("sector") {
		cfg.Sector = scoreSector
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = scoreProvider
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = scoreModel
	}
	if cmd.Flags().Changed("num-ideas") {
		cfg.NumIdeas = scoreNumIdeas
	}
	if cmd.Flags().Changed("idea-index") {
		cfg.IdeaIndex = scoreIdeaIndex
	}
	if cmd.Flags().Changed("checkpoint-dir") {
		cfg.CheckpointDir = scoreCheckpointDir
	}
	if cmd.Flags().Changed("no-checkpoints") {
		cfg.NoCheckpoints = scoreNoCheckpoints
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = scoreAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = scoreDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = scoreVerbose
	}

	defaultModel := llm.DefaultConfig()
	cfg = cfg.MergeWithDefaults(config.Config{
		Provider:      string(defaultModel.Provider),
		Model:         defaultModel.Model,
		NumIdeas:      3,
		CheckpointDir: "checkpoints",
	})

	if cfg.Document == "" && cfg.DocumentURL == "" {
		return cfg, fmt.Errorf("either --document or --document-url must be provided (via flag or config)")
	}
	if cfg.Document != "" && cfg.DocumentURL != "" {
		return cfg, fmt.Errorf("--document and --document-url are mutually exclusive; provide only one")
	}
	if cfg.Sector == "" {
		return cfg, fmt.Errorf("--sector is required (via flag or config)")
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return cfg, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	return cfg, nil
}

func runScoreCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveScoreConfig(cmd)
	if err != nil {
		return err
	}

	var (
		text     string
		metadata *types.DocumentMetadata
	)
	if cfg.Document != "" {
		text, metadata, err = ingest.FromFile(cfg.Document)
	} else {
		text, metadata, err = ingest.FromURL(ctx, cfg.DocumentURL)
	}
	if err != nil {
		return err
	}

	llmConfig := &llm.Config{Provider: llm.Provider(cfg.Provider), Model: cfg.Model}

	store, err := checkpoint.NewFileStore(cfg.CheckpointDir, checkpoint.RunContext{
		DocumentName: metadata.Name,
		Sector:       cfg.Sector,
		Provider:     cfg.Provider,
		Model:        cfg.Model,
	}, !cfg.NoCheckpoints)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose && !cfg.NoCheckpoints {
		if status, err := store.Status(); err == nil {
			printer.PrintCheckpointStatus(status)
		}
	}

	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
	}

	var extracted string
	if database != nil {
		if cached, err := database.LookupExtraction(ctx, metadata.ContentHash, cfg.Sector, cfg.Provider, cfg.Model); err == nil && cached != nil {
			var payload struct {
				ExtractedText string `json:"extracted_text"`
			}
			if json.Unmarshal(cached, &payload) == nil && payload.ExtractedText != "" {
				extracted = payload.ExtractedText
				fmt.Println("Reusing cached extraction")
			}
		}
	}

	client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	report, err := pipeline.Run(ctx, pipeline.RunOptions{
		DocumentText:  text,
		ExtractedText: extracted,
		DocumentName:  metadata.Name,
		Sector:        cfg.Sector,
		NumIdeas:      cfg.NumIdeas,
		IdeaIndex:     cfg.IdeaIndex,
		Metadata:      metadata,
		Client:        client,
		Config:        llmConfig,
		Store:         store,
		OnProgress:    printProgress,
	})
	if err != nil {
		return err
	}

	if err := schemas.ValidateReport(report); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: report failed schema validation: %v\n", err)
	}

	printer.PrintFinalReport(report)
	if cfg.Verbose {
		printer.PrintDimensionScores(report.DimensionScores)
	}

	if scoreOutput != "" {
		if err := writeReport(scoreOutput, report); err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", scoreOutput)
	}

	if database != nil {
		if extracted == "" && report.ExtractedText != "" {
			payload := struct {
				ExtractedText string `json:"extracted_text"`
			}{ExtractedText: report.ExtractedText}
			if err := database.CacheExtraction(ctx, metadata.ContentHash, cfg.Sector, cfg.Provider, cfg.Model, payload); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to cache extraction: %v\n", err)
			}
		}

		id, err := database.SaveAnalysis(ctx, report)
		if err != nil {
			return fmt.Errorf("failed to store analysis: %w", err)
		}
		fmt.Printf("Analysis stored as %s\n", id)
	}

	return nil
}

// printProgress renders one line per step transition.
func printProgress(event pipeline.ProgressEvent) {
	switch event.Status {
	case pipeline.StatusRunning:
		fmt.Printf("[%2d/%d] %s (%s)...\n", event.Step, event.TotalSteps, event.Title, event.Agent)
	case pipeline.StatusError:
		fmt.Printf("[%2d/%d] %s failed\n", event.Step, event.TotalSteps, event.Title)
	}
}

func writeReport(path string, report *types.FinalReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
