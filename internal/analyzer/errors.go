package analyzer

import "fmt"

// InvalidInputError reports input that cannot be analyzed at all:
// empty or whitespace-only text, or a blank page identifier. Callers
// distinguish it from AnalysisError to decide between "fix your
// request" and "fix your document".
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// AnalysisError reports input that was present but could not be
// parsed. The underlying parser error is preserved for errors.Is/As.
type AnalysisError struct {
	Cause error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed: %v", e.Cause)
}

func (e *AnalysisError) Unwrap() error { return e.Cause }
