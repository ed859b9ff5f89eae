// Package enhance extends generated test cases with focus-specific
// material. Enhancement is additive: input cases are cloned, existing
// steps keep their positions, and new steps or derived cases are only
// appended. Focus behavior is selected by value, and the suggestion
// capability is injected rather than baked in, so swapping a real
// suggestion backend in changes nothing here.
package enhance

import (
	"context"
	"fmt"
	"strings"

	"github.com/testforge-hq/testforge/internal/ai"
	"github.com/testforge-hq/testforge/pkg/model"
)

// Focus selects the enhancement applied to a case list.
type Focus string

const (
	FocusSecurity      Focus = "SECURITY"
	FocusAccessibility Focus = "ACCESSIBILITY"
	FocusPerformance   Focus = "PERFORMANCE"
	FocusGeneral       Focus = "GENERAL"
)

// Focuses lists the recognized focus values in display order.
func Focuses() []Focus {
	return []Focus{FocusSecurity, FocusAccessibility, FocusPerformance, FocusGeneral}
}

// ParseFocus normalizes user input to a Focus. Unrecognized values
// pass through upper-cased; the pipeline treats them as a no-op.
func ParseFocus(s string) Focus {
	return Focus(strings.ToUpper(strings.TrimSpace(s)))
}

// Pipeline applies focus enhancements to generated cases.
type Pipeline struct {
	suggester ai.Suggester
}

// NewPipeline creates a pipeline using the given suggestion
// capability. A nil suggester falls back to the deterministic static
// one, keeping the default path reproducible and offline.
func NewPipeline(suggester ai.Suggester) *Pipeline {
	if suggester == nil {
		suggester = ai.NewStatic()
	}
	return &Pipeline{suggester: suggester}
}

// Enhance returns a new case list: every input case (cloned, possibly
// with appended steps) at its original index, followed by any cases
// the focus derives. Cases a focus does not apply to pass through
// unchanged; that includes every case under an unrecognized focus.
// The input slice and its cases are never mutated.
func (p *Pipeline) Enhance(ctx context.Context, cases []model.TestCase, focus Focus) ([]model.TestCase, error) {
	out := make([]model.TestCase, 0, len(cases))
	var derived []model.TestCase

	for _, tc := range cases {
		enhanced := tc.Clone()

		switch focus {
		case FocusSecurity:
			if tc.Type == model.CaseAPI {
				appendSteps(&enhanced, securitySteps())
				derived = append(derived, derivedSecurityCase(tc))
			}
		case FocusAccessibility:
			if tc.Type == model.CaseUI {
				appendSteps(&enhanced, accessibilitySteps())
				derived = append(derived, derivedAccessibilityCase(tc))
			}
		case FocusPerformance:
			if tc.Type == model.CaseAPI {
				appendSteps(&enhanced, performanceSteps())
				derived = append(derived, derivedPerformanceCase(tc))
			}
		case FocusGeneral:
			steps, err := p.suggester.SuggestSteps(ctx, tc, string(focus))
			if err != nil {
				return nil, fmt.Errorf("suggesting steps for %q: %w", tc.Name, err)
			}
			appendSteps(&enhanced, steps)
		}

		out = append(out, enhanced)
	}

	return append(out, derived...), nil
}

func appendSteps(tc *model.TestCase, steps []model.TestStep) {
	for _, s := range steps {
		tc.AddStep(s.Action, s.Expected)
	}
}
