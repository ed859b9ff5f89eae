package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testforge-hq/testforge/pkg/model"
)

func TestGenerateFromEndpoints_GET(t *testing.T) {
	g := New()
	cases := g.GenerateFromEndpoints([]model.Endpoint{
		{Name: "Get Users", URL: "https://api.example.com/users", Method: "GET"},
	})

	require.Len(t, cases, 1)
	tc := cases[0]

	assert.Equal(t, "Test the Get Users endpoint", tc.Name)
	assert.Equal(t, model.CaseAPI, tc.Type)
	require.Len(t, tc.Steps, 2)
	assert.Equal(t, "Send GET request to https://api.example.com/users", tc.Steps[0].Action)
	assert.Equal(t, "Response status code should be 200 OK", tc.Steps[0].Expected)
	assert.Equal(t, "Verify response format", tc.Steps[1].Action)
	assert.Equal(t, "Response should be in the expected format (JSON, XML, etc.)", tc.Steps[1].Expected)
}

func TestGenerateFromEndpoints_POST(t *testing.T) {
	g := New()
	cases := g.GenerateFromEndpoints([]model.Endpoint{
		{Name: "Create User", URL: "https://api.example.com/users", Method: "POST"},
	})

	require.Len(t, cases, 1)
	tc := cases[0]

	assert.Equal(t, "Test the Create User endpoint", tc.Name)
	require.Len(t, tc.Steps, 2)
	assert.Equal(t, "Send POST request to https://api.example.com/users with valid data", tc.Steps[0].Action)
	assert.Equal(t, "Response status code should be 201 Created", tc.Steps[0].Expected)
	assert.Contains(t, tc.Steps[1].Expected, "ID", "second step should verify the created resource's ID")
}

func TestGenerateFromEndpoints_MethodTable(t *testing.T) {
	g := New()

	tests := []struct {
		method        string
		wantSteps     int
		wantFirstExp  string
		wantSecondExp string
	}{
		{"GET", 2, "Response status code should be 200 OK", "Response should be in the expected format (JSON, XML, etc.)"},
		{"POST", 2, "Response status code should be 201 Created", "The response should contain the created resource with an ID"},
		{"PUT", 2, "Response status code should be 200 OK", "The response should contain the updated resource"},
		{"DELETE", 2, "Response status code should be 204 No Content", "A subsequent GET request should return 404 Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			cases := g.GenerateFromEndpoints([]model.Endpoint{
				{Name: "X", URL: "https://api.example.com/x", Method: tt.method},
			})
			require.Len(t, cases, 1)
			require.Len(t, cases[0].Steps, tt.wantSteps)
			assert.Equal(t, tt.wantFirstExp, cases[0].Steps[0].Expected)
			assert.Equal(t, tt.wantSecondExp, cases[0].Steps[1].Expected)
		})
	}
}

func TestGenerateFromEndpoints_UnknownMethodFallsBack(t *testing.T) {
	g := New()

	for _, method := range []string{"PATCH", "HEAD", "OPTIONS", "BREW"} {
		cases := g.GenerateFromEndpoints([]model.Endpoint{
			{Name: "X", URL: "https://api.example.com/x", Method: method},
		})
		require.Len(t, cases, 1)
		require.NotEmpty(t, cases[0].Steps, "every generated case carries at least one step")
		assert.Equal(t, "Send "+method+" request to https://api.example.com/x", cases[0].Steps[0].Action)
		assert.Equal(t, "Response should have an appropriate status code", cases[0].Steps[0].Expected)
	}
}

func TestGenerateFromEndpoints_OrderAndCount(t *testing.T) {
	g := New()
	endpoints := []model.Endpoint{
		{Name: "Alpha", URL: "https://api.example.com/a", Method: "GET"},
		{Name: "Beta", URL: "https://api.example.com/b", Method: "POST"},
		{Name: "Gamma", URL: "https://api.example.com/c", Method: "DELETE"},
	}

	cases := g.GenerateFromEndpoints(endpoints)

	require.Len(t, cases, len(endpoints))
	for i, ep := range endpoints {
		assert.Equal(t, "Test the "+ep.Name+" endpoint", cases[i].Name, "case %d must match endpoint %d", i, i)
	}
}

func TestGenerateFromEndpoints_Deterministic(t *testing.T) {
	g := New()
	endpoints := []model.Endpoint{
		{Name: "Get Users", URL: "https://api.example.com/users", Method: "GET"},
		{Name: "Create User", URL: "https://api.example.com/users", Method: "POST"},
	}

	first := g.GenerateFromEndpoints(endpoints)
	second := g.GenerateFromEndpoints(endpoints)

	assert.Equal(t, first, second)
}

func TestGenerateFromElements(t *testing.T) {
	g := New()
	elements := []model.Element{
		{Type: model.ElementForm, Identifier: "login-form"},
		{Type: model.ElementButton, Identifier: "submit-button"},
		{Type: model.ElementLink, Identifier: "Sign Up"},
		{Type: model.ElementInput, Identifier: "username"},
	}

	cases := g.GenerateFromElements(elements)
	require.Len(t, cases, 4)

	assert.Equal(t, "Test the login-form form", cases[0].Name)
	assert.Equal(t, model.CaseUI, cases[0].Type)
	require.Len(t, cases[0].Steps, 2)
	assert.Equal(t, "Fill out the login-form form with valid data", cases[0].Steps[0].Action)
	assert.Equal(t, "Submit the login-form form", cases[0].Steps[1].Action)

	require.Len(t, cases[1].Steps, 1)
	assert.Equal(t, "Click the submit-button button", cases[1].Steps[0].Action)

	require.Len(t, cases[2].Steps, 1)
	assert.Equal(t, "Click the Sign Up link", cases[2].Steps[0].Action)

	require.Len(t, cases[3].Steps, 2)
	assert.Equal(t, "Enter valid text into the username input", cases[3].Steps[0].Action)
}

func TestGenerateFromElements_UnknownTypeFallsBack(t *testing.T) {
	g := New()
	cases := g.GenerateFromElements([]model.Element{
		{Type: model.ElementType("select"), Identifier: "country"},
	})

	require.Len(t, cases, 1)
	assert.Equal(t, "Test the country select", cases[0].Name)
	require.Len(t, cases[0].Steps, 1)
	assert.Equal(t, "Interact with the country element", cases[0].Steps[0].Action)
}

func TestGenerate_StepsAlwaysComplete(t *testing.T) {
	g := New()

	endpoints := []model.Endpoint{
		{Name: "A", URL: "https://x/a", Method: "GET"},
		{Name: "B", URL: "https://x/b", Method: "TRACE"},
	}
	elements := []model.Element{
		{Type: model.ElementForm, Identifier: "f"},
		{Type: model.ElementType("widget"), Identifier: "w"},
	}

	all := append(g.GenerateFromEndpoints(endpoints), g.GenerateFromElements(elements)...)
	for _, tc := range all {
		require.NotEmpty(t, tc.Steps, "case %q has no steps", tc.Name)
		for i, step := range tc.Steps {
			assert.False(t, strings.TrimSpace(step.Action) == "", "case %q step %d has empty action", tc.Name, i)
			assert.False(t, strings.TrimSpace(step.Expected) == "", "case %q step %d has empty expected", tc.Name, i)
		}
	}
}
