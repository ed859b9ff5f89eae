package model

import "testing"

// =============================================================================
// TestCase Tests
// =============================================================================

func TestTestCase_AddStep(t *testing.T) {
	tc := NewTestCase("Test the Get Users endpoint", "GET https://api.example.com/users", CaseAPI)

	if len(tc.Steps) != 0 {
		t.Fatalf("new case has %d steps, want 0", len(tc.Steps))
	}

	tc.AddStep("Send GET request to https://api.example.com/users", "Response status code should be 200 OK")
	tc.AddStep("Verify response format", "Response should be in the expected format (JSON, XML, etc.)")

	if len(tc.Steps) != 2 {
		t.Fatalf("len(Steps) = %d, want 2", len(tc.Steps))
	}
	if tc.Steps[0].Action != "Send GET request to https://api.example.com/users" {
		t.Errorf("Steps[0].Action = %s", tc.Steps[0].Action)
	}
	if tc.Steps[1].Expected != "Response should be in the expected format (JSON, XML, etc.)" {
		t.Errorf("Steps[1].Expected = %s", tc.Steps[1].Expected)
	}
}

func TestTestCase_Clone(t *testing.T) {
	tc := NewTestCase("Test the login form", "Submit the form", CaseUI)
	tc.AddStep("Fill out the login form with valid data", "All fields accept input")

	clone := tc.Clone()
	clone.AddStep("Submit the login form", "The form submits successfully")
	clone.Steps[0].Action = "changed"

	t.Run("original unchanged", func(t *testing.T) {
		if len(tc.Steps) != 1 {
			t.Errorf("original has %d steps, want 1", len(tc.Steps))
		}
		if tc.Steps[0].Action != "Fill out the login form with valid data" {
			t.Errorf("original Steps[0].Action mutated: %s", tc.Steps[0].Action)
		}
	})

	t.Run("clone extended", func(t *testing.T) {
		if len(clone.Steps) != 2 {
			t.Errorf("clone has %d steps, want 2", len(clone.Steps))
		}
	})
}

// =============================================================================
// TestSuite Tests
// =============================================================================

func TestTestSuite_Stats(t *testing.T) {
	suite := TestSuite{
		Name:   "demo",
		Source: SourceAPI,
		Cases: []TestCase{
			{Name: "a", Type: CaseAPI, Steps: []TestStep{{Action: "x", Expected: "y"}}},
			{Name: "b", Type: CaseAPI, Steps: []TestStep{{Action: "x", Expected: "y"}, {Action: "z", Expected: "w"}}},
			{Name: "c", Type: CaseSecurity, Steps: []TestStep{{Action: "x", Expected: "y"}}},
		},
	}

	stats := suite.Stats()

	tests := []struct {
		key  string
		want int
	}{
		{"cases", 3},
		{"steps", 4},
		{"api", 2},
		{"security", 1},
	}

	for _, tt := range tests {
		if got := stats[tt.key]; got != tt.want {
			t.Errorf("Stats()[%s] = %d, want %d", tt.key, got, tt.want)
		}
	}
}

func TestTestSuite_CaseNames(t *testing.T) {
	suite := TestSuite{
		Cases: []TestCase{{Name: "one"}, {Name: "two"}},
	}

	names := suite.CaseNames()
	if len(names) != 2 || names[0] != "one" || names[1] != "two" {
		t.Errorf("CaseNames() = %v, want [one two]", names)
	}
}
