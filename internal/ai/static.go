package ai

import (
	"context"
	"fmt"

	"github.com/testforge-hq/testforge/pkg/model"
)

// Static is the default suggester: deterministic, offline, no
// dependencies. It derives a small set of exploratory steps from the
// case type so enhanced suites stay reproducible.
type Static struct{}

// NewStatic creates the deterministic suggester.
func NewStatic() *Static {
	return &Static{}
}

func (s *Static) Name() Provider {
	return ProviderStatic
}

func (s *Static) Available() bool {
	return true
}

// SuggestSteps returns the same steps for the same case every time.
func (s *Static) SuggestSteps(_ context.Context, tc model.TestCase, focus string) ([]model.TestStep, error) {
	steps := []model.TestStep{
		{
			Action:   fmt.Sprintf("Review the existing steps of %q for uncovered behavior", tc.Name),
			Expected: "Each documented behavior has at least one covering step",
		},
	}

	switch tc.Type {
	case model.CaseAPI:
		steps = append(steps, model.TestStep{
			Action:   "Repeat the request with boundary values for each parameter",
			Expected: "Responses stay well-formed and use documented status codes",
		})
	case model.CaseUI:
		steps = append(steps, model.TestStep{
			Action:   "Exercise the element at the smallest supported viewport",
			Expected: "Layout and behavior remain usable",
		})
	}

	return steps, nil
}
