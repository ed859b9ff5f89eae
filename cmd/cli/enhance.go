package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/testforge-hq/testforge/internal/ai"
	"github.com/testforge-hq/testforge/internal/config"
	"github.com/testforge-hq/testforge/internal/enhance"
)

func enhanceCmd() *cobra.Command {
	var (
		suiteFile  string
		focusFlag  string
		outputFile string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "enhance",
		Short: "Enhance an existing suite with focus-specific checks",
		Long: `Applies an enhancement focus to a previously generated suite document.
Existing cases keep their position; derived cases are appended.

With AI_PROVIDER=remote and a running Ollama-compatible endpoint, the
general focus asks the model for extra steps instead of using the
built-in catalog.

Example:
  testforge enhance -s suite.json -f security -o enhanced.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			focus, err := parseFocusFlag(focusFlag)
			if err != nil {
				return err
			}
			if focus == "" {
				return fmt.Errorf("a focus is required (security, accessibility, performance, general)")
			}

			suite, err := loadSuiteFile(suiteFile)
			if err != nil {
				return err
			}

			before := len(suite.Cases)

			pipeline := enhance.NewPipeline(ai.FromConfig(cfg.AI.Provider, cfg.AI.URL, cfg.AI.Model))
			enhanced, err := pipeline.Enhance(ctx, suite.Cases, focus)
			if err != nil {
				return fmt.Errorf("enhancement failed: %w", err)
			}

			suite.Cases = enhanced
			suite.Focus = string(focus)

			data, err := marshalSuite(suite, format)
			if err != nil {
				return err
			}

			if outputFile != "" {
				if err := os.WriteFile(outputFile, data, 0644); err != nil {
					return fmt.Errorf("failed to write suite: %w", err)
				}
				fmt.Printf("✅ Enhanced suite written to %s (%d cases, %d added)\n", outputFile, len(enhanced), len(enhanced)-before)
			} else {
				fmt.Println(string(data))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&suiteFile, "suite", "s", "", "Suite document to enhance (required)")
	cmd.Flags().StringVarP(&focusFlag, "focus", "f", "", "Enhancement focus (security, accessibility, performance, general)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "", "Document format: json or yaml")
	cmd.MarkFlagRequired("suite")
	cmd.MarkFlagRequired("focus")

	return cmd
}
