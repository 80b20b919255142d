package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/claim-pilot/internal/config"
	"github.com/sells-group/claim-pilot/internal/llm"
	"github.com/sells-group/claim-pilot/internal/pipeline"
	"github.com/sells-group/claim-pilot/pkg/anthropic"
)

var cfg *config.Config

// systemPrompt frames every pipeline completion request.
const systemPrompt = "You are an assistant inside an automated healthcare " +
	"claim-processing pipeline. Follow each request's instructions exactly " +
	"and respond in the requested format only."

var rootCmd = &cobra.Command{
	Use:   "claim-pilot",
	Short: "Healthcare claim-processing pipeline demo",
	Long:  "Runs claim intake through five agent steps (parse, verify, code, draft, review) backed by Claude, behind an HTTP endpoint and a form UI.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildPipeline wires the configured Anthropic client into a fresh pipeline.
// Fails when no API key is configured.
func buildPipeline() (*pipeline.Pipeline, error) {
	if err := cfg.RequireKey(); err != nil {
		return nil, err
	}

	client := anthropic.NewClient(cfg.Anthropic.Key)
	completer := llm.NewCompleter(client, llm.Options{
		Model:     cfg.Anthropic.Model,
		MaxTokens: cfg.Anthropic.MaxTokens,
		System:    systemPrompt,
	})
	return pipeline.New(completer), nil
}
