// Package coverage reports how well a set of test cases covers the
// entities they were generated from. Analysis is pure and read-only:
// no I/O, no mutation, and the same inputs always produce the same
// report.
package coverage

import (
	"strings"

	"github.com/testforge-hq/testforge/pkg/model"
)

// Gap is one uncovered entity and what is missing for it.
type Gap struct {
	EntityName    string `json:"entity_name" yaml:"entity_name"`
	MissingAspect string `json:"missing_aspect" yaml:"missing_aspect"`
}

// Report summarizes entity coverage.
type Report struct {
	TotalEntities   int   `json:"total_entities" yaml:"total_entities"`
	CoveredEntities int   `json:"covered_entities" yaml:"covered_entities"`
	Gaps            []Gap `json:"gaps,omitempty" yaml:"gaps,omitempty"`
}

// Percent returns the covered share as a percentage. An empty entity
// list is vacuously covered.
func (r Report) Percent() float64 {
	if r.TotalEntities == 0 {
		return 100.0
	}
	return float64(r.CoveredEntities) / float64(r.TotalEntities) * 100.0
}

const (
	aspectFunctional  = "functional test coverage"
	aspectInteraction = "interaction test coverage"
)

// Analyze reports which entities the cases cover. An entity is covered
// when at least one case references its name in the case's name or
// description. Gaps appear in entity input order, one per uncovered
// entity.
func Analyze(entities []model.Entity, cases []model.TestCase) Report {
	report := Report{TotalEntities: len(entities)}

	for _, entity := range entities {
		if isCovered(entity.EntityName(), cases) {
			report.CoveredEntities++
			continue
		}
		report.Gaps = append(report.Gaps, Gap{
			EntityName:    entity.EntityName(),
			MissingAspect: aspectFor(entity),
		})
	}
	return report
}

func isCovered(name string, cases []model.TestCase) bool {
	if name == "" {
		return false
	}
	for _, tc := range cases {
		if strings.Contains(tc.Name, name) || strings.Contains(tc.Description, name) {
			return true
		}
	}
	return false
}

func aspectFor(entity model.Entity) string {
	if _, ok := entity.(model.Element); ok {
		return aspectInteraction
	}
	return aspectFunctional
}
