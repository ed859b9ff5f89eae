// Package model defines the entity and test-case types shared by every
// stage of the pipeline: analyzers produce entities, the generator
// turns entities into test cases, the enhancement pipeline extends
// them, and the coverage analyzer reports on both sides.
package model

// Entity is anything a test case can be generated from and coverage
// measured against. Endpoints and Elements both satisfy it.
type Entity interface {
	// EntityName returns the name coverage analysis matches against.
	EntityName() string
}

// Endpoint is a single API operation discovered in a collection export.
type Endpoint struct {
	Name   string `json:"name" yaml:"name"`
	URL    string `json:"url" yaml:"url"`
	Method string `json:"method" yaml:"method"` // canonical upper-case form
}

// EntityName implements Entity.
func (e Endpoint) EntityName() string { return e.Name }

// ElementType classifies an interactive element found on a web page.
// The four canonical values below have dedicated generation templates;
// anything else (select, textarea, custom widgets) is carried through
// as-is and handled generically.
type ElementType string

const (
	ElementForm   ElementType = "form"
	ElementButton ElementType = "button"
	ElementLink   ElementType = "link"
	ElementInput  ElementType = "input"
)

// Element is an interactive element discovered on a web page.
type Element struct {
	Type       ElementType       `json:"type" yaml:"type"`
	Identifier string            `json:"identifier" yaml:"identifier"` // id, name, or visible text
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// EntityName implements Entity.
func (e Element) EntityName() string { return e.Identifier }

// Entities converts a typed slice into the Entity interface form the
// coverage analyzer consumes, preserving order.
func Entities[T Entity](items []T) []Entity {
	out := make([]Entity, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// EntitySet is the serializable form analysis results travel in:
// entities grouped by concrete type so they survive a JSON round trip.
type EntitySet struct {
	Endpoints []Endpoint `json:"endpoints,omitempty" yaml:"endpoints,omitempty"`
	Elements  []Element  `json:"elements,omitempty" yaml:"elements,omitempty"`
}

// All returns every entity in the set, endpoints first, each group in
// its original order.
func (s EntitySet) All() []Entity {
	out := make([]Entity, 0, s.Len())
	for _, e := range s.Endpoints {
		out = append(out, e)
	}
	for _, e := range s.Elements {
		out = append(out, e)
	}
	return out
}

// Len returns the total number of entities in the set.
func (s EntitySet) Len() int {
	return len(s.Endpoints) + len(s.Elements)
}
