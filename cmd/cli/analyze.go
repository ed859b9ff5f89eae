package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/testforge-hq/testforge/internal/config"
	"github.com/testforge-hq/testforge/pkg/model"
)

func analyzeCmd() *cobra.Command {
	var (
		input      string
		sourceType string
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Extract testable entities from a collection or page",
		Long: `Parses a Postman collection or an HTML page and lists the entities
tests would be generated for.

Examples:
  testforge analyze -i shop.postman_collection.json     # API endpoints
  testforge analyze -i checkout.html                    # page elements
  testforge analyze -i https://example.com/login --type web
  testforge analyze -i api.json --json                  # output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			set, kind, name, err := resolveInput(context.Background(), cfg, sourceType, input)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			if jsonOut {
				data, _ := json.MarshalIndent(set, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			fmt.Printf("📄 Source: %s\n", input)
			fmt.Printf("🔍 Kind:   %s\n", kind)
			if name != "" {
				fmt.Printf("🏷️  Name:   %s\n", name)
			}
			fmt.Println()

			if kind == model.SourceAPI {
				fmt.Printf("Endpoints (%d):\n", len(set.Endpoints))
				for i, ep := range set.Endpoints {
					fmt.Printf("%d. %-6s %s\n", i+1, ep.Method, ep.Name)
					if ep.URL != "" {
						fmt.Printf("   %s\n", ep.URL)
					}
				}
			} else {
				fmt.Printf("Elements (%d):\n", len(set.Elements))
				for i, el := range set.Elements {
					fmt.Printf("%d. [%s] %s\n", i+1, el.Type, el.Identifier)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Collection or page to analyze (file path or URL)")
	cmd.Flags().StringVarP(&sourceType, "type", "t", "", "Source type (api, web; auto-detected if not specified)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.MarkFlagRequired("input")

	return cmd
}
