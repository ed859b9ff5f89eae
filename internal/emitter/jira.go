package emitter

import (
	"fmt"
	"strings"

	"github.com/testforge-hq/testforge/pkg/model"
)

// JiraEmitter renders a suite as Jira wiki-markup, one ticket section
// per case, ready to paste into an issue tracker.
type JiraEmitter struct{}

func (e *JiraEmitter) Name() string          { return "jira" }
func (e *JiraEmitter) Language() string      { return "wiki" }
func (e *JiraEmitter) Framework() string     { return "jira" }
func (e *JiraEmitter) FileExtension() string { return ".jira.txt" }

func (e *JiraEmitter) Emit(suite model.TestSuite) ([]byte, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "h1. Test Suite: %s\n\n", cellText(suite.Name))
	fmt.Fprintf(&sb, "*Source:* %s", suite.Source)
	if suite.Location != "" {
		fmt.Fprintf(&sb, " (%s)", cellText(suite.Location))
	}
	sb.WriteString("\n")
	if suite.Focus != "" {
		fmt.Fprintf(&sb, "*Focus:* %s\n", suite.Focus)
	}
	fmt.Fprintf(&sb, "*Cases:* %d\n\n", len(suite.Cases))

	for _, tc := range suite.Cases {
		fmt.Fprintf(&sb, "h2. %s\n\n", cellText(tc.Name))
		fmt.Fprintf(&sb, "*Type:* %s\n", tc.Type)
		if tc.Description != "" {
			fmt.Fprintf(&sb, "*Description:* %s\n", cellText(tc.Description))
		}
		sb.WriteString("\n||#||Action||Expected Result||\n")
		for i, step := range tc.Steps {
			fmt.Fprintf(&sb, "|%d|%s|%s|\n", i+1, cellText(step.Action), cellText(step.Expected))
		}
		sb.WriteString("\n")
	}

	return []byte(sb.String()), nil
}

// cellText keeps markup table rows intact: pipes delimit cells in
// Jira syntax, so any literal pipe is replaced.
func cellText(s string) string {
	return strings.ReplaceAll(s, "|", "/")
}
