package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/venturelab/idea-scorer/internal/config"
	"github.com/venturelab/idea-scorer/internal/server"
)

var (
	serveConfigPath    string
	serveAddr          string
	serveProvider      string
	serveModel         string
	serveCheckpointDir string
	serveNoCheckpoints bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for running evaluations, streaming progress over SSE, and browsing stored analyses.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Address to listen on")
	serveCmd.Flags().StringVar(&serveProvider, "provider", "", "LLM provider")
	serveCmd.Flags().StringVar(&serveModel, "model", "", "Model name")
	serveCmd.Flags().StringVar(&serveCheckpointDir, "checkpoint-dir", "checkpoints", "Directory for checkpoint files")
	serveCmd.Flags().BoolVar(&serveNoCheckpoints, "no-checkpoints", false, "Disable checkpoint save and resume")
	rootCmd.AddCommand(serveCmd)
}

// resolveServeConfig merges the config file with CLI flag overrides.
func resolveServeConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if serveConfigPath != "" {
		loadedCfg, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
	}

	if cmd.Flags().Changed("addr") || cfg.ListenAddr == "" {
		cfg.ListenAddr = serveAddr
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = serveProvider
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = serveModel
	}
	if cmd.Flags().Changed("checkpoint-dir") || cfg.CheckpointDir == "" {
		cfg.CheckpointDir = serveCheckpointDir
	}
	if cmd.Flags().Changed("no-checkpoints") {
		cfg.NoCheckpoints = serveNoCheckpoints
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return cfg, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveServeConfig(cmd)
	if err != nil {
		return err
	}

	// Database is optional; without it analyses run but are not stored.
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL not set; analyses will not be persisted")
	}

	srv, err := server.New(server.Config{
		Addr:          cfg.ListenAddr,
		DatabaseURL:   cfg.DatabaseURL,
		APIKey:        cfg.APIKey,
		Provider:      cfg.Provider,
		Model:         cfg.Model,
		CheckpointDir: cfg.CheckpointDir,
		NoCheckpoints: cfg.NoCheckpoints,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
