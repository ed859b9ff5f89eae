package generator

import (
	"fmt"

	"github.com/testforge-hq/testforge/pkg/model"
)

// defaultMethodSteps is the canonical method table. Adding a method
// (PATCH, HEAD, ...) means adding a row here.
func defaultMethodSteps() map[string]stepTemplate {
	return map[string]stepTemplate{
		"GET": func(url string) []model.TestStep {
			return []model.TestStep{
				{
					Action:   fmt.Sprintf("Send GET request to %s", url),
					Expected: "Response status code should be 200 OK",
				},
				{
					Action:   "Verify response format",
					Expected: "Response should be in the expected format (JSON, XML, etc.)",
				},
			}
		},
		"POST": func(url string) []model.TestStep {
			return []model.TestStep{
				{
					Action:   fmt.Sprintf("Send POST request to %s with valid data", url),
					Expected: "Response status code should be 201 Created",
				},
				{
					Action:   "Verify the created resource",
					Expected: "The response should contain the created resource with an ID",
				},
			}
		},
		"PUT": func(url string) []model.TestStep {
			return []model.TestStep{
				{
					Action:   fmt.Sprintf("Send PUT request to %s with valid data", url),
					Expected: "Response status code should be 200 OK",
				},
				{
					Action:   "Verify the updated resource",
					Expected: "The response should contain the updated resource",
				},
			}
		},
		"DELETE": func(url string) []model.TestStep {
			return []model.TestStep{
				{
					Action:   fmt.Sprintf("Send DELETE request to %s", url),
					Expected: "Response status code should be 204 No Content",
				},
				{
					Action:   "Verify the resource was deleted",
					Expected: "A subsequent GET request should return 404 Not Found",
				},
			}
		},
	}
}

// genericMethodSteps covers methods without a dedicated table row.
func genericMethodSteps(method, url string) []model.TestStep {
	return []model.TestStep{
		{
			Action:   fmt.Sprintf("Send %s request to %s", method, url),
			Expected: "Response should have an appropriate status code",
		},
	}
}

// defaultElementSteps is the element-type table mirroring the method
// table on the UI side.
func defaultElementSteps() map[model.ElementType]elementTemplate {
	return map[model.ElementType]elementTemplate{
		model.ElementForm: func(id string) []model.TestStep {
			return []model.TestStep{
				{
					Action:   fmt.Sprintf("Fill out the %s form with valid data", id),
					Expected: "All fields should accept the input",
				},
				{
					Action:   fmt.Sprintf("Submit the %s form", id),
					Expected: "The form should be submitted and a success response shown",
				},
			}
		},
		model.ElementButton: func(id string) []model.TestStep {
			return []model.TestStep{
				{
					Action:   fmt.Sprintf("Click the %s button", id),
					Expected: "The expected action should be triggered",
				},
			}
		},
		model.ElementLink: func(id string) []model.TestStep {
			return []model.TestStep{
				{
					Action:   fmt.Sprintf("Click the %s link", id),
					Expected: "The browser should navigate to the link target",
				},
			}
		},
		model.ElementInput: func(id string) []model.TestStep {
			return []model.TestStep{
				{
					Action:   fmt.Sprintf("Enter valid text into the %s input", id),
					Expected: "The input should accept the text",
				},
				{
					Action:   fmt.Sprintf("Enter invalid data into the %s input", id),
					Expected: "A validation message should be shown",
				},
			}
		},
	}
}

// genericElementSteps covers element types without a table row.
func genericElementSteps(identifier string) []model.TestStep {
	return []model.TestStep{
		{
			Action:   fmt.Sprintf("Interact with the %s element", identifier),
			Expected: "The element should respond as expected",
		},
	}
}
