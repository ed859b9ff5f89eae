package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/testforge-hq/testforge/internal/ai"
	"github.com/testforge-hq/testforge/internal/config"
	"github.com/testforge-hq/testforge/internal/coverage"
	"github.com/testforge-hq/testforge/internal/enhance"
	"github.com/testforge-hq/testforge/internal/fetch"
	"github.com/testforge-hq/testforge/internal/generator"
	"github.com/testforge-hq/testforge/internal/ingest"
	"github.com/testforge-hq/testforge/pkg/model"
)

func generateCmd() *cobra.Command {
	var (
		input      string
		repoURL    string
		sourceType string
		suiteName  string
		focusFlag  string
		outputFile string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a test suite from a collection, page, or repository",
		Long: `Analyzes the input and generates one test case per extracted entity.
A focus adds security, accessibility, performance, or general checks on
top of the generated cases. With --repo, the repository is cloned and
every collection and page in it gets its own suite document.

Examples:
  testforge generate -i shop.postman_collection.json
  testforge generate -i checkout.html --focus accessibility
  testforge generate -i api.json -o suite.json          # save suite document
  testforge generate -i api.json --format yaml          # print as YAML
  testforge generate --repo https://github.com/acme/shop-api`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if (input == "") == (repoURL == "") {
				return fmt.Errorf("exactly one of --input and --repo is required")
			}
			if repoURL != "" {
				return generateFromRepo(ctx, cfg, repoURL, suiteName, focusFlag, outputFile, format)
			}

			// Project settings fill in what the flags leave unset.
			projectCfg, err := config.LoadProjectConfig(".")
			if err != nil {
				return fmt.Errorf("failed to load project config: %w", err)
			}
			if projectCfg != nil {
				if focusFlag == "" {
					focusFlag = projectCfg.Focus
				}
				if suiteName == "" {
					suiteName = projectCfg.Name
				}
			}

			focus, err := parseFocusFlag(focusFlag)
			if err != nil {
				return err
			}

			set, kind, name, err := resolveInput(ctx, cfg, sourceType, input)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			gen := generator.New()
			cases := gen.GenerateFromEndpoints(set.Endpoints)
			cases = append(cases, gen.GenerateFromElements(set.Elements)...)

			if focus != "" {
				pipeline := enhance.NewPipeline(ai.FromConfig(cfg.AI.Provider, cfg.AI.URL, cfg.AI.Model))
				cases, err = pipeline.Enhance(ctx, cases, focus)
				if err != nil {
					return fmt.Errorf("enhancement failed: %w", err)
				}
			}

			if suiteName != "" {
				name = suiteName
			}
			if name == "" {
				name = "Generated Suite"
			}
			suite := model.TestSuite{
				Name:      name,
				Source:    kind,
				Location:  input,
				Focus:     string(focus),
				Cases:     cases,
				CreatedAt: time.Now().UTC(),
			}

			report := coverage.Analyze(set.All(), cases)

			// Document output mode
			if outputFile != "" || format != "" {
				data, err := marshalSuite(suite, format)
				if err != nil {
					return err
				}
				if outputFile != "" {
					if err := os.WriteFile(outputFile, data, 0644); err != nil {
						return fmt.Errorf("failed to write suite: %w", err)
					}
					fmt.Printf("✅ Suite with %d cases written to %s\n", len(suite.Cases), outputFile)
				} else {
					fmt.Println(string(data))
				}
				return nil
			}

			// Human-readable summary
			fmt.Printf("✅ Generated %d test cases from %s\n\n", len(suite.Cases), input)
			for i, tc := range suite.Cases {
				fmt.Printf("%d. [%s] %s (%d steps)\n", i+1, tc.Type, tc.Name, len(tc.Steps))
			}
			fmt.Println()
			fmt.Printf("📊 Coverage: %d/%d entities (%.1f%%)\n", report.CoveredEntities, report.TotalEntities, report.Percent())
			if len(report.Gaps) > 0 {
				fmt.Printf("⚠️  %d gaps, run 'testforge coverage' for details\n", len(report.Gaps))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Collection or page to generate from (file path or URL)")
	cmd.Flags().StringVar(&repoURL, "repo", "", "Git repository URL; every collection and page found is processed")
	cmd.Flags().StringVarP(&sourceType, "type", "t", "", "Source type (api, web; auto-detected if not specified)")
	cmd.Flags().StringVarP(&suiteName, "name", "n", "", "Suite name (defaults to the source name)")
	cmd.Flags().StringVarP(&focusFlag, "focus", "f", "", "Enhancement focus (security, accessibility, performance, general)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for the suite document (directory in --repo mode)")
	cmd.Flags().StringVar(&format, "format", "", "Document format: json or yaml (implies document output)")

	return cmd
}

// generateFromRepo clones a repository and writes one suite document
// per collection or page found in it.
func generateFromRepo(ctx context.Context, cfg *config.Config, repoURL, suiteName, focusFlag, outputDir, format string) error {
	info, err := ingest.ParseRepoURL(repoURL)
	if err != nil {
		return fmt.Errorf("invalid repository URL: %w", err)
	}

	fmt.Printf("📥 Cloning %s/%s (%s)...\n", info.Owner, info.Name, info.Branch)
	clone, err := ingest.New(cfg.WorkspaceDir, cfg.GitHubToken).Clone(ctx, info)
	if err != nil {
		return fmt.Errorf("clone failed: %w", err)
	}

	// Project settings in the repository fill in what the flags leave
	// unset.
	projectCfg, err := config.LoadProjectConfig(clone.Path)
	if err != nil {
		return fmt.Errorf("failed to load project config: %w", err)
	}
	if projectCfg != nil {
		if focusFlag == "" {
			focusFlag = projectCfg.Focus
		}
		if outputDir == "" {
			outputDir = projectCfg.Output.Dir
		}
	}
	if outputDir == "" {
		outputDir = "generated-suites"
	}

	focus, err := parseFocusFlag(focusFlag)
	if err != nil {
		return err
	}

	sources, err := ingest.FindSources(clone.Path)
	if err != nil {
		return fmt.Errorf("failed to scan repository: %w", err)
	}
	if len(sources) == 0 {
		return fmt.Errorf("no collections or pages found in %s", repoURL)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", outputDir, err)
	}

	gen := generator.New()
	var pipeline *enhance.Pipeline
	if focus != "" {
		pipeline = enhance.NewPipeline(ai.FromConfig(cfg.AI.Provider, cfg.AI.URL, cfg.AI.Model))
	}

	written := 0
	for _, src := range sources {
		set, kind, name, err := resolveInput(ctx, cfg, string(src.Kind), src.Path)
		if err != nil {
			fmt.Printf("⚠️  %s: %v\n", src.RelPath, err)
			continue
		}

		cases := gen.GenerateFromEndpoints(set.Endpoints)
		cases = append(cases, gen.GenerateFromElements(set.Elements)...)
		if pipeline != nil {
			cases, err = pipeline.Enhance(ctx, cases, focus)
			if err != nil {
				return fmt.Errorf("enhancement failed for %s: %w", src.RelPath, err)
			}
		}

		if suiteName != "" {
			name = suiteName
		}
		suite := model.TestSuite{
			Name:      name,
			Source:    kind,
			Location:  src.RelPath,
			Focus:     string(focus),
			Cases:     cases,
			CreatedAt: time.Now().UTC(),
		}

		data, err := marshalSuite(suite, format)
		if err != nil {
			return err
		}
		path := filepath.Join(outputDir, suiteDocumentName(src.RelPath, format))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Printf("✅ %s: %d cases written to %s\n", src.RelPath, len(cases), path)
		written++
	}
	if written == 0 {
		return fmt.Errorf("no sources could be analyzed in %s", repoURL)
	}

	fmt.Printf("\n📦 Generated %d suite(s) in %s\n", written, outputDir)
	return nil
}

// suiteDocumentName maps a source path inside a repository to its suite
// document file name, keeping directory prefixes so same-named files in
// different directories do not collide.
func suiteDocumentName(relPath, format string) string {
	base := fetch.BaseName(strings.ReplaceAll(filepath.ToSlash(relPath), "/", "-"))
	if format == "yaml" {
		return base + ".suite.yaml"
	}
	return base + ".suite.json"
}
