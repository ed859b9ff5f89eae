package analyzer

import (
	"strings"

	"github.com/testforge-hq/testforge/pkg/model"
)

// DetectKind classifies source material whose kind the caller did not
// declare. The location's extension wins when it is recognizable;
// otherwise a document starting like JSON is taken for a collection
// and anything else for page markup.
func DetectKind(location, content string) model.SourceKind {
	lower := strings.ToLower(location)
	switch {
	case strings.HasSuffix(lower, ".json"):
		return model.SourceAPI
	case strings.HasSuffix(lower, ".html"), strings.HasSuffix(lower, ".htm"):
		return model.SourceWeb
	}

	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return model.SourceAPI
	}
	return model.SourceWeb
}
