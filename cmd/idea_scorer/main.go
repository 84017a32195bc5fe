// Package main provides the entry point for the idea scorer CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "idea_scorer",
	Short: "Multi-agent business idea evaluator",
	Long:  "Idea Scorer extracts market context from a source document, generates business ideas, and scores one across 11 weighted dimensions using a five-agent LLM pipeline with checkpoint resume.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
