// Package emitter converts test suites into consumable artifacts:
// executable test scaffolds, tracker tickets, and spreadsheets.
package emitter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/testforge-hq/testforge/pkg/model"
)

// Emitter renders a test suite in one output format.
type Emitter interface {
	// Name returns the registry key (e.g., "restassured", "jira").
	Name() string

	// Language returns the output language or format family.
	Language() string

	// Framework returns the target framework, if any.
	Framework() string

	// FileExtension returns the suggested artifact extension.
	FileExtension() string

	// Emit renders the whole suite. Output is bytes because some
	// formats (xlsx) are binary.
	Emit(suite model.TestSuite) ([]byte, error)
}

// Registry holds all available emitters.
type Registry struct {
	emitters map[string]Emitter
}

// NewRegistry creates a registry with all built-in emitters.
func NewRegistry() *Registry {
	r := &Registry{
		emitters: make(map[string]Emitter),
	}

	r.Register(&RestAssuredEmitter{})
	r.Register(&SeleniumEmitter{})
	r.Register(&JiraEmitter{})
	r.Register(&XLSXEmitter{})

	return r
}

// Register adds an emitter to the registry.
func (r *Registry) Register(e Emitter) {
	r.emitters[e.Name()] = e
}

// Get returns an emitter by name.
func (r *Registry) Get(name string) (Emitter, error) {
	e, ok := r.emitters[name]
	if !ok {
		return nil, fmt.Errorf("emitter not found: %s (available: %s)", name, strings.Join(r.List(), ", "))
	}
	return e, nil
}

// List returns all registered emitter names, sorted for stable output.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.emitters))
	for name := range r.emitters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ArtifactName returns the file name e's rendering of a suite should
// be written under. Dot extensions take a hyphenated lower-case base;
// Java class files take the CamelCase base matching the public class
// inside them.
func ArtifactName(suiteName string, e Emitter) string {
	ext := e.FileExtension()
	words := splitWords(suiteName)

	if strings.HasPrefix(ext, ".") {
		for i, w := range words {
			words[i] = strings.ToLower(w)
		}
		base := strings.Join(words, "-")
		if base == "" {
			base = "suite"
		}
		return base + ext
	}

	var b strings.Builder
	for _, word := range words {
		b.WriteString(capitalize(word))
	}
	base := b.String()
	if base == "" || !isJavaIdentStart(rune(base[0])) {
		base = "Generated"
	}
	return base + ext
}
