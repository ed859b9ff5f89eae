// Package analyzer turns raw input text into the ordered entity lists
// the generator consumes. All analysis is pure: no network, no clock,
// and identical input always yields identical output.
package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/testforge-hq/testforge/pkg/model"
)

// collectionDoc mirrors the subset of the Postman-style collection
// export format the analyzer reads.
type collectionDoc struct {
	Info struct {
		Name string `json:"name"`
	} `json:"info"`
	Item []collectionItem `json:"item"`
}

type collectionItem struct {
	Name    string       `json:"name"`
	Request *requestSpec `json:"request"`
}

type requestSpec struct {
	Method string        `json:"method"`
	URL    collectionURL `json:"url"`
}

// collectionURL accepts both forms the export format allows: a plain
// string, or an object carrying the string in its "raw" field.
type collectionURL struct {
	Raw string
}

func (u *collectionURL) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &u.Raw)
	}
	var obj struct {
		Raw string `json:"raw"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	u.Raw = obj.Raw
	return nil
}

// AnalyzeCollection parses a collection export into an ordered list of
// endpoints. Endpoint order follows the document's item order. Empty
// or whitespace-only input is an InvalidInputError; text that is not
// valid JSON is an AnalysisError wrapping the parser's message.
func AnalyzeCollection(raw string) ([]model.Endpoint, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &InvalidInputError{Reason: "collection JSON is empty"}
	}

	var doc collectionDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &AnalysisError{Cause: err}
	}

	endpoints := make([]model.Endpoint, 0, len(doc.Item))
	for i, item := range doc.Item {
		// Folder entries and malformed items carry no request.
		if item.Request == nil {
			continue
		}
		name := strings.TrimSpace(item.Name)
		if name == "" {
			name = fmt.Sprintf("Request %d", i+1)
		}
		endpoints = append(endpoints, model.Endpoint{
			Name:   name,
			URL:    item.Request.URL.Raw,
			Method: CanonicalMethod(item.Request.Method),
		})
	}
	return endpoints, nil
}

// CollectionName returns the display name from a collection export's
// info block, or "" when the document does not carry one.
func CollectionName(raw string) string {
	var doc collectionDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Info.Name)
}

// CanonicalMethod trims and upper-cases an HTTP verb so the generator
// can dispatch on its canonical form. A missing verb defaults to GET,
// matching what collection tools assume.
func CanonicalMethod(method string) string {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return "GET"
	}
	return method
}
