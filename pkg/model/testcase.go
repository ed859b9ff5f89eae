package model

// CaseType classifies a generated test case.
type CaseType string

const (
	CaseAPI           CaseType = "API"
	CaseUI            CaseType = "UI"
	CaseSecurity      CaseType = "SECURITY"
	CaseAccessibility CaseType = "ACCESSIBILITY"
	CasePerformance   CaseType = "PERFORMANCE"
)

// TestStep is a single action a tester (or script) performs and the
// outcome that marks it passed.
type TestStep struct {
	Action   string `json:"action" yaml:"action"`
	Expected string `json:"expected" yaml:"expected"`
}

// TestCase is an ordered, append-only sequence of steps verifying one
// entity. Generated cases always carry at least one step.
type TestCase struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Type        CaseType   `json:"type" yaml:"type"`
	Steps       []TestStep `json:"steps" yaml:"steps"`
}

// NewTestCase returns a case with no steps yet.
func NewTestCase(name, description string, caseType CaseType) TestCase {
	return TestCase{
		Name:        name,
		Description: description,
		Type:        caseType,
	}
}

// AddStep appends a step. Steps are never reordered or removed.
func (tc *TestCase) AddStep(action, expected string) {
	tc.Steps = append(tc.Steps, TestStep{Action: action, Expected: expected})
}

// Clone returns a deep copy whose step slice is independent of the
// receiver's. The enhancement pipeline works on clones so callers'
// cases are never mutated.
func (tc TestCase) Clone() TestCase {
	out := tc
	out.Steps = make([]TestStep, len(tc.Steps))
	copy(out.Steps, tc.Steps)
	return out
}
