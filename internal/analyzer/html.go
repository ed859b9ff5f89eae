package analyzer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/testforge-hq/testforge/pkg/model"
)

// interactiveSelector matches every element kind worth generating UI
// tests for. A single combined selector keeps results in document
// order.
const interactiveSelector = "form, button, a[href], input, select, textarea"

// capturedAttrs is the attribute set copied onto extracted elements.
var capturedAttrs = []string{
	"id", "name", "type", "href", "action", "method",
	"placeholder", "value", "role", "aria-label",
}

// maxIdentifierLen caps identifiers derived from element text.
const maxIdentifierLen = 60

// AnalyzeHTML extracts interactive elements from already-fetched HTML
// markup, in document order. Empty input is an InvalidInputError;
// markup the parser rejects is an AnalysisError.
func AnalyzeHTML(html string) ([]model.Element, error) {
	if strings.TrimSpace(html) == "" {
		return nil, &InvalidInputError{Reason: "page HTML is empty"}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &AnalysisError{Cause: err}
	}

	var elements []model.Element
	doc.Find(interactiveSelector).Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, model.Element{
			Type:       elementTypeFor(goquery.NodeName(s)),
			Identifier: identifierFor(s),
			Attributes: attributesFor(s),
		})
	})
	return elements, nil
}

func elementTypeFor(tag string) model.ElementType {
	switch tag {
	case "form":
		return model.ElementForm
	case "button":
		return model.ElementButton
	case "a":
		return model.ElementLink
	case "input":
		return model.ElementInput
	default:
		// select, textarea and anything exotic keep their tag name.
		return model.ElementType(tag)
	}
}

// identifierFor picks the most stable handle available: id, then name,
// then visible text, then the tag itself.
func identifierFor(s *goquery.Selection) string {
	if id, ok := s.Attr("id"); ok && strings.TrimSpace(id) != "" {
		return strings.TrimSpace(id)
	}
	if name, ok := s.Attr("name"); ok && strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	if text := compactText(s.Text()); text != "" {
		return text
	}
	return goquery.NodeName(s)
}

func attributesFor(s *goquery.Selection) map[string]string {
	var attrs map[string]string
	for _, key := range capturedAttrs {
		if v, ok := s.Attr(key); ok && v != "" {
			if attrs == nil {
				attrs = make(map[string]string)
			}
			attrs[key] = v
		}
	}
	return attrs
}

// compactText collapses whitespace runs and truncates long text so
// link and button labels stay usable as identifiers.
func compactText(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	joined := strings.Join(fields, " ")
	runes := []rune(joined)
	if len(runes) > maxIdentifierLen {
		return string(runes[:maxIdentifierLen])
	}
	return joined
}
