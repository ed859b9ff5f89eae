package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/testforge-hq/testforge/internal/config"
	"github.com/testforge-hq/testforge/internal/coverage"
)

func coverageCmd() *cobra.Command {
	var (
		input      string
		sourceType string
		suiteFile  string
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Report which entities a suite covers",
		Long: `Compares a suite document against the entities extracted from the
input it was generated from and lists the entities no case mentions.

Examples:
  testforge coverage -i shop.postman_collection.json -s suite.json
  testforge coverage -i checkout.html -s suite.json --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			set, _, _, err := resolveInput(context.Background(), cfg, sourceType, input)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			suite, err := loadSuiteFile(suiteFile)
			if err != nil {
				return err
			}

			report := coverage.Analyze(set.All(), suite.Cases)

			if jsonOut {
				data, _ := json.MarshalIndent(report, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			displayCoverageReport(report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Collection or page the suite was generated from")
	cmd.Flags().StringVarP(&sourceType, "type", "t", "", "Source type (api, web; auto-detected if not specified)")
	cmd.Flags().StringVarP(&suiteFile, "suite", "s", "", "Suite document to check (required)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("suite")

	return cmd
}

// displayCoverageReport displays a coverage report in text format
func displayCoverageReport(report coverage.Report) {
	fmt.Printf("📊 Coverage Report\n")
	fmt.Printf("==================\n")
	fmt.Printf("Total Entities:   %d\n", report.TotalEntities)
	fmt.Printf("Covered Entities: %d\n", report.CoveredEntities)
	fmt.Printf("Coverage:         %.1f%%\n\n", report.Percent())

	if len(report.Gaps) == 0 {
		fmt.Printf("✅ Every entity is covered\n")
		return
	}

	fmt.Printf("Gaps (%d):\n", len(report.Gaps))
	for _, gap := range report.Gaps {
		fmt.Printf("  ❌ %s: missing %s\n", gap.EntityName, gap.MissingAspect)
	}
}
