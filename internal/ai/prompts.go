package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/testforge-hq/testforge/pkg/model"
)

const suggestionSystemPrompt = `You are a senior QA engineer reviewing test cases.
Given a test case, suggest additional steps that strengthen it without duplicating existing steps.
Keep suggestions concrete and executable by a manual tester.

Respond with JSON only, in this shape:
{"steps": [{"action": "...", "expected": "..."}]}`

// SuggestionPrompt renders the user message for one case and focus.
func SuggestionPrompt(tc model.TestCase, focus string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest additional test steps for this %s test case (focus: %s).\n\n", tc.Type, focus)
	fmt.Fprintf(&b, "Name: %s\n", tc.Name)
	fmt.Fprintf(&b, "Description: %s\n", tc.Description)
	b.WriteString("Existing steps:\n")
	for i, s := range tc.Steps {
		fmt.Fprintf(&b, "%d. %s => %s\n", i+1, s.Action, s.Expected)
	}
	b.WriteString("\nOutput ONLY the JSON object, no explanation.")
	return b.String()
}

// ParseSteps extracts steps from a model response. Models wrap JSON in
// prose often enough that the parser locates the outermost object
// instead of decoding the content directly. Steps missing an action or
// expected outcome are dropped.
func ParseSteps(content string) ([]model.TestStep, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var payload struct {
		Steps []model.TestStep `json:"steps"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode steps: %w", err)
	}

	steps := make([]model.TestStep, 0, len(payload.Steps))
	for _, s := range payload.Steps {
		if strings.TrimSpace(s.Action) == "" || strings.TrimSpace(s.Expected) == "" {
			continue
		}
		steps = append(steps, s)
	}
	return steps, nil
}
