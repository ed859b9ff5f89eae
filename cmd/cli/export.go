package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/testforge-hq/testforge/internal/config"
	"github.com/testforge-hq/testforge/internal/emitter"
)

func exportCmd() *cobra.Command {
	var (
		suiteFile    string
		outputDir    string
		emitterNames []string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a suite document as test code, tickets, or a spreadsheet",
		Long: `Renders a suite document through one or more emitters and writes the
artifacts into the output directory.

Supported emitters:
  - restassured: REST Assured + JUnit test class
  - selenium:    Selenium WebDriver + JUnit test class
  - jira:        Jira ticket descriptions
  - xlsx:        Excel workbook, one row per test case

Example:
  testforge export -s suite.json -o ./out -e restassured -e xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := loadSuiteFile(suiteFile)
			if err != nil {
				return err
			}

			fmt.Printf("📝 Loaded suite %q with %d cases\n", suite.Name, len(suite.Cases))

			// Project settings fill in what the flags leave unset.
			projectCfg, err := config.LoadProjectConfig(".")
			if err != nil {
				return fmt.Errorf("failed to load project config: %w", err)
			}
			if projectCfg != nil {
				if len(emitterNames) == 0 {
					emitterNames = projectCfg.Emitters
				}
				if outputDir == "" {
					outputDir = projectCfg.Output.Dir
				}
			}
			if outputDir == "" {
				outputDir = "./out"
			}

			registry := emitter.NewRegistry()
			if len(emitterNames) == 0 {
				emitterNames = registry.List()
			}

			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			filesWritten := 0
			for _, name := range emitterNames {
				em, err := registry.Get(name)
				if err != nil {
					return err
				}

				artifact, err := em.Emit(suite)
				if err != nil {
					return fmt.Errorf("failed to render suite with %s: %w", name, err)
				}

				path := filepath.Join(outputDir, emitter.ArtifactName(suite.Name, em))
				if err := os.WriteFile(path, artifact, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}

				fmt.Printf("✅ Written: %s (%s)\n", path, em.Language())
				filesWritten++
			}

			fmt.Printf("\n📦 Exported %d artifact(s) to %s\n", filesWritten, outputDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&suiteFile, "suite", "s", "", "Suite document to export (required)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for artifacts (default ./out)")
	cmd.Flags().StringSliceVarP(&emitterNames, "emitter", "e", nil, "Emitters to run (default: all)")
	cmd.MarkFlagRequired("suite")

	return cmd
}
