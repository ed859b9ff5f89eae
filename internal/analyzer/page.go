package analyzer

import (
	"strings"

	"github.com/testforge-hq/testforge/pkg/model"
)

// AnalyzePage returns the element set for a page identifier. Live DOM
// scraping is not part of analysis; this stand-in yields a fixed,
// deterministic set modeling the interactive surface of a typical
// page, so downstream stages always receive realistic input. Markup
// that has already been fetched goes through AnalyzeHTML instead.
func AnalyzePage(identifier string) ([]model.Element, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, &InvalidInputError{Reason: "page identifier is empty"}
	}

	return []model.Element{
		{
			Type:       model.ElementForm,
			Identifier: "login-form",
			Attributes: map[string]string{"action": "/login", "method": "post"},
		},
		{
			Type:       model.ElementInput,
			Identifier: "username",
			Attributes: map[string]string{"type": "text", "placeholder": "Username"},
		},
		{
			Type:       model.ElementInput,
			Identifier: "password",
			Attributes: map[string]string{"type": "password", "placeholder": "Password"},
		},
		{
			Type:       model.ElementButton,
			Identifier: "submit-button",
			Attributes: map[string]string{"type": "submit"},
		},
		{
			Type:       model.ElementLink,
			Identifier: "Forgot Password",
			Attributes: map[string]string{"href": "/forgot-password"},
		},
		{
			Type:       model.ElementLink,
			Identifier: "Sign Up",
			Attributes: map[string]string{"href": "/signup"},
		},
	}, nil
}
