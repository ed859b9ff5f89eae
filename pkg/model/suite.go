package model

import (
	"strings"
	"time"
)

// SourceKind identifies what kind of input entities came from. Suites
// carry api or web; source records may also point at a repository,
// whose discovered files are analyzed under their own kinds.
type SourceKind string

const (
	SourceAPI  SourceKind = "api"
	SourceWeb  SourceKind = "web"
	SourceRepo SourceKind = "repo"
)

// TestSuite groups the cases generated from one source together with
// enough metadata to store, export, and report on them.
type TestSuite struct {
	ID        string     `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string     `json:"name" yaml:"name"`
	Source    SourceKind `json:"source" yaml:"source"`
	Location  string     `json:"location,omitempty" yaml:"location,omitempty"` // file path, URL, or identifier
	Focus     string     `json:"focus,omitempty" yaml:"focus,omitempty"`       // enhancement focus applied, if any
	Cases     []TestCase `json:"cases" yaml:"cases"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
}

// Stats summarizes the suite: total cases and steps plus a per-type
// case count keyed by the lower-cased type name.
func (s TestSuite) Stats() map[string]int {
	stats := map[string]int{
		"cases": len(s.Cases),
		"steps": 0,
	}
	for _, tc := range s.Cases {
		stats["steps"] += len(tc.Steps)
		stats[strings.ToLower(string(tc.Type))]++
	}
	return stats
}

// CaseNames returns the case names in suite order.
func (s TestSuite) CaseNames() []string {
	names := make([]string, len(s.Cases))
	for i, tc := range s.Cases {
		names[i] = tc.Name
	}
	return names
}
