package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/testforge-hq/testforge/internal/analyzer"
	"github.com/testforge-hq/testforge/internal/config"
	"github.com/testforge-hq/testforge/internal/enhance"
	"github.com/testforge-hq/testforge/internal/fetch"
	"github.com/testforge-hq/testforge/pkg/model"
)

var version = "dev"

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && level != zerolog.NoLevel {
		zerolog.SetGlobalLevel(level)
	}

	rootCmd := &cobra.Command{
		Use:     "testforge",
		Short:   "TestForge - test suite generation from API collections and web pages",
		Long:    `TestForge extracts testable entities from Postman collections and HTML pages, generates structured test suites from them, and exports the suites as test code, tracker tickets, or spreadsheets.`,
		Version: version,
	}

	// Add subcommands
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(enhanceCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(coverageCmd())
	rootCmd.AddCommand(emittersCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveInput fetches an input reference (file path or URL) and parses
// it into entities. An empty sourceType is detected from the reference
// and the document itself.
func resolveInput(ctx context.Context, cfg *config.Config, sourceType, input string) (model.EntitySet, model.SourceKind, string, error) {
	client := fetch.NewClient(cfg.FetchTimeout(), cfg.FetchRetryMax)
	body, err := client.Fetch(ctx, input)
	if err != nil {
		return model.EntitySet{}, "", "", err
	}
	content := string(body)

	kind := model.SourceKind(sourceType)
	if kind == "" {
		kind = analyzer.DetectKind(input, content)
	}

	name := fetch.BaseName(input)

	switch kind {
	case model.SourceAPI:
		endpoints, err := analyzer.AnalyzeCollection(content)
		if err != nil {
			return model.EntitySet{}, "", "", err
		}
		if n := analyzer.CollectionName(content); n != "" {
			name = n
		}
		return model.EntitySet{Endpoints: endpoints}, model.SourceAPI, name, nil
	case model.SourceWeb:
		elements, err := analyzer.AnalyzeHTML(content)
		if err != nil {
			return model.EntitySet{}, "", "", err
		}
		return model.EntitySet{Elements: elements}, model.SourceWeb, name, nil
	default:
		return model.EntitySet{}, "", "", fmt.Errorf("unsupported source type %q (api, web)", sourceType)
	}
}

// parseFocusFlag validates a --focus value. Empty means no enhancement.
func parseFocusFlag(s string) (enhance.Focus, error) {
	if s == "" {
		return "", nil
	}
	focus := enhance.ParseFocus(s)
	switch focus {
	case enhance.FocusSecurity, enhance.FocusAccessibility, enhance.FocusPerformance, enhance.FocusGeneral:
		return focus, nil
	}
	return "", fmt.Errorf("unknown focus %q (security, accessibility, performance, general)", s)
}

// loadSuiteFile reads a suite document written by generate or the API.
func loadSuiteFile(path string) (model.TestSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.TestSuite{}, fmt.Errorf("failed to read suite: %w", err)
	}

	var suite model.TestSuite
	if err := json.Unmarshal(data, &suite); err != nil {
		if yamlErr := yaml.Unmarshal(data, &suite); yamlErr != nil {
			return model.TestSuite{}, fmt.Errorf("failed to parse suite: %w", err)
		}
	}
	return suite, nil
}

// marshalSuite renders a suite document in the requested format.
func marshalSuite(suite model.TestSuite, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(suite)
	case "", "json":
		return json.MarshalIndent(suite, "", "  ")
	default:
		return nil, fmt.Errorf("unknown format %q (json, yaml)", format)
	}
}
