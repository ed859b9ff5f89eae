// Package generator turns analyzed entities into structured test
// cases. Generation is table-driven: steps come from per-method and
// per-element lookup tables, so supporting a new HTTP method or
// element kind is a data addition, not new branching. Every entity
// yields exactly one case, in input order, and identical input always
// produces identical output.
package generator

import (
	"fmt"

	"github.com/testforge-hq/testforge/pkg/model"
)

// stepTemplate renders the steps for one canonical HTTP method.
type stepTemplate func(url string) []model.TestStep

// elementTemplate renders the steps for one element type.
type elementTemplate func(identifier string) []model.TestStep

// Generator builds test cases from entities. Construct with New; the
// zero value has no dispatch tables.
type Generator struct {
	methodSteps  map[string]stepTemplate
	elementSteps map[model.ElementType]elementTemplate
}

// New returns a Generator loaded with the built-in dispatch tables.
func New() *Generator {
	return &Generator{
		methodSteps:  defaultMethodSteps(),
		elementSteps: defaultElementSteps(),
	}
}

// GenerateFromEndpoints produces exactly one API test case per
// endpoint. Case i corresponds to endpoint i.
func (g *Generator) GenerateFromEndpoints(endpoints []model.Endpoint) []model.TestCase {
	cases := make([]model.TestCase, 0, len(endpoints))
	for _, ep := range endpoints {
		cases = append(cases, g.endpointCase(ep))
	}
	return cases
}

// GenerateFromElements produces exactly one UI test case per element.
// Case i corresponds to element i.
func (g *Generator) GenerateFromElements(elements []model.Element) []model.TestCase {
	cases := make([]model.TestCase, 0, len(elements))
	for _, el := range elements {
		cases = append(cases, g.elementCase(el))
	}
	return cases
}

func (g *Generator) endpointCase(ep model.Endpoint) model.TestCase {
	tc := model.NewTestCase(
		fmt.Sprintf("Test the %s endpoint", ep.Name),
		fmt.Sprintf("Verify the %s endpoint (%s %s) behaves as expected", ep.Name, ep.Method, ep.URL),
		model.CaseAPI,
	)
	if tmpl, ok := g.methodSteps[ep.Method]; ok {
		tc.Steps = tmpl(ep.URL)
	} else {
		tc.Steps = genericMethodSteps(ep.Method, ep.URL)
	}
	return tc
}

func (g *Generator) elementCase(el model.Element) model.TestCase {
	tc := model.NewTestCase(
		fmt.Sprintf("Test the %s %s", el.Identifier, el.Type),
		fmt.Sprintf("Verify the %s %s works as expected", el.Identifier, el.Type),
		model.CaseUI,
	)
	if tmpl, ok := g.elementSteps[el.Type]; ok {
		tc.Steps = tmpl(el.Identifier)
	} else {
		tc.Steps = genericElementSteps(el.Identifier)
	}
	return tc
}
