package enhance

import (
	"fmt"

	"github.com/testforge-hq/testforge/pkg/model"
)

// The step catalogs below are data, not logic: changing what a focus
// appends means editing a list here.

func securitySteps() []model.TestStep {
	return []model.TestStep{
		{
			Action:   "Send the request with an XSS payload (<script>alert(1)</script>) in each text parameter",
			Expected: "The payload should be sanitized or rejected, never reflected unescaped",
		},
		{
			Action:   "Send the request with a SQL injection payload (' OR '1'='1) in each parameter",
			Expected: "The request should be rejected or treated as plain data, with no server error",
		},
	}
}

func accessibilitySteps() []model.TestStep {
	return []model.TestStep{
		{
			Action:   "Navigate to the element using only the keyboard (Tab / Shift+Tab / Enter)",
			Expected: "The element should be reachable and operable without a mouse",
		},
		{
			Action:   "Inspect the element with a screen reader",
			Expected: "The element should announce a meaningful name, role, and state",
		},
	}
}

func performanceSteps() []model.TestStep {
	return []model.TestStep{
		{
			Action:   "Measure the response time of the request under normal load",
			Expected: "The response should arrive within 2 seconds",
		},
	}
}

func derivedSecurityCase(tc model.TestCase) model.TestCase {
	out := model.NewTestCase(
		tc.Name+" - security checks",
		fmt.Sprintf("Probe the target of %q for authentication and abuse weaknesses", tc.Name),
		model.CaseSecurity,
	)
	out.AddStep(
		"Send the request without any authentication credentials",
		"Response status code should be 401 Unauthorized or 403 Forbidden",
	)
	out.AddStep(
		"Send the request with an expired or malformed token",
		"The request should be rejected without a server error",
	)
	out.AddStep(
		"Send 20 rapid repeated requests",
		"Rate limiting should answer with 429 Too Many Requests once the limit is hit",
	)
	return out
}

func derivedAccessibilityCase(tc model.TestCase) model.TestCase {
	out := model.NewTestCase(
		tc.Name+" - accessibility audit",
		fmt.Sprintf("Audit the element covered by %q against WCAG AA", tc.Name),
		model.CaseAccessibility,
	)
	out.AddStep(
		"Run an automated accessibility scan on the page containing the element",
		"No WCAG AA violations should be reported",
	)
	out.AddStep(
		"Check the color contrast of the element and its label",
		"The contrast ratio should be at least 4.5:1",
	)
	return out
}

func derivedPerformanceCase(tc model.TestCase) model.TestCase {
	out := model.NewTestCase(
		tc.Name+" - load profile",
		fmt.Sprintf("Exercise the target of %q under sustained load", tc.Name),
		model.CasePerformance,
	)
	out.AddStep(
		"Send 50 concurrent requests for 60 seconds",
		"The 95th percentile response time should stay under 2 seconds",
	)
	out.AddStep(
		"Monitor the error rate during the load window",
		"The error rate should stay below 1%",
	)
	return out
}
