package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/testforge-hq/testforge/internal/analyzer"
	"github.com/testforge-hq/testforge/internal/coverage"
	"github.com/testforge-hq/testforge/internal/enhance"
	"github.com/testforge-hq/testforge/internal/fetch"
	"github.com/testforge-hq/testforge/pkg/model"
)

// httpError carries a status code chosen at the point the failure is
// understood.
type httpError struct {
	status  int
	message string
}

func (e *httpError) Error() string { return e.message }

// AnalyzeRequest is the request body for synchronous analysis. Content
// is analyzed directly when present; otherwise Location is resolved.
type AnalyzeRequest struct {
	SourceType string `json:"source_type,omitempty" validate:"omitempty,oneof=api web repo"`
	Content    string `json:"content,omitempty"`
	Location   string `json:"location,omitempty"`
}

// AnalyzeResponse is the entity set extracted from one source.
type AnalyzeResponse struct {
	Kind      string           `json:"kind"`
	Name      string           `json:"name,omitempty"`
	Endpoints []model.Endpoint `json:"endpoints,omitempty"`
	Elements  []model.Element  `json:"elements,omitempty"`
}

// GenerateRequest is the request body for synchronous suite
// generation. Focus optionally runs the enhancement pass over the
// generated cases.
type GenerateRequest struct {
	SourceType string `json:"source_type,omitempty" validate:"omitempty,oneof=api web repo"`
	Content    string `json:"content,omitempty"`
	Location   string `json:"location,omitempty"`
	Focus      string `json:"focus,omitempty"`
}

// GenerateResponse pairs the generated suite with its coverage.
type GenerateResponse struct {
	Suite    model.TestSuite `json:"suite"`
	Coverage coverage.Report `json:"coverage"`
}

// analyzeSource extracts endpoints or elements from an inline document
// or a resolved location without persisting anything.
// POST /api/v1/analyze
func (s *Server) analyzeSource(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	set, kind, name, err := s.resolveEntities(r.Context(), req.SourceType, req.Content, req.Location)
	if err != nil {
		respondAnalysisError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, AnalyzeResponse{
		Kind:      string(kind),
		Name:      name,
		Endpoints: set.Endpoints,
		Elements:  set.Elements,
	})
}

// generateSuite runs the full synchronous path: analyze, generate,
// optionally enhance, and report coverage. Nothing is persisted.
// POST /api/v1/generate
func (s *Server) generateSuite(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validFocus(req.Focus) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown focus %q", req.Focus))
		return
	}

	set, kind, name, err := s.resolveEntities(r.Context(), req.SourceType, req.Content, req.Location)
	if err != nil {
		respondAnalysisError(w, err)
		return
	}

	cases := s.gen.GenerateFromEndpoints(set.Endpoints)
	cases = append(cases, s.gen.GenerateFromElements(set.Elements)...)

	focus := enhance.ParseFocus(req.Focus)
	if req.Focus != "" {
		enhanced, err := s.enhancer.Enhance(r.Context(), cases, focus)
		if err != nil {
			log.Error().Err(err).Str("focus", string(focus)).Msg("enhancement failed")
			respondError(w, http.StatusInternalServerError, "enhancement failed")
			return
		}
		cases = enhanced
	}

	if name == "" {
		name = "Generated Suite"
	}
	suite := model.TestSuite{
		ID:        uuid.New().String(),
		Name:      name,
		Source:    kind,
		Location:  req.Location,
		Cases:     cases,
		CreatedAt: time.Now().UTC(),
	}
	if req.Focus != "" {
		suite.Focus = string(focus)
	}

	respondJSON(w, http.StatusOK, GenerateResponse{
		Suite:    suite,
		Coverage: coverage.Analyze(set.All(), cases),
	})
}

// resolveEntities turns a request's content or location into an entity
// set. Repository sources are rejected here: cloning is too slow for a
// synchronous call and goes through the run pipeline instead.
func (s *Server) resolveEntities(ctx context.Context, sourceType, content, location string) (model.EntitySet, model.SourceKind, string, error) {
	kind := model.SourceKind(sourceType)
	if kind == model.SourceRepo {
		return model.EntitySet{}, "", "", &httpError{http.StatusBadRequest, "repository sources are analyzed through runs"}
	}
	if content == "" && location == "" {
		return model.EntitySet{}, "", "", &httpError{http.StatusBadRequest, "content or location is required"}
	}

	name := fetch.BaseName(location)

	// A declared web location with no inline content is modeled from
	// the identifier, the same as the page analyzer in the pipeline.
	if content == "" && kind == model.SourceWeb && fetch.IsURL(location) {
		elements, err := analyzer.AnalyzePage(location)
		if err != nil {
			return model.EntitySet{}, "", "", err
		}
		return model.EntitySet{Elements: elements}, model.SourceWeb, name, nil
	}

	if content == "" {
		body, err := s.fetcher.Fetch(ctx, location)
		if err != nil {
			return model.EntitySet{}, "", "", &httpError{http.StatusBadGateway, fmt.Sprintf("fetch %s: %v", location, err)}
		}
		content = string(body)
	}

	if kind == "" {
		kind = analyzer.DetectKind(location, content)
	}

	switch kind {
	case model.SourceAPI:
		endpoints, err := analyzer.AnalyzeCollection(content)
		if err != nil {
			return model.EntitySet{}, "", "", err
		}
		if n := analyzer.CollectionName(content); n != "" {
			name = n
		}
		return model.EntitySet{Endpoints: endpoints}, model.SourceAPI, name, nil
	case model.SourceWeb:
		elements, err := analyzer.AnalyzeHTML(content)
		if err != nil {
			return model.EntitySet{}, "", "", err
		}
		return model.EntitySet{Elements: elements}, model.SourceWeb, name, nil
	default:
		return model.EntitySet{}, "", "", &httpError{http.StatusBadRequest, fmt.Sprintf("unsupported source type %q", kind)}
	}
}

// respondAnalysisError maps analysis failures onto HTTP statuses:
// rejected input is the caller's fault, parse failures are
// unprocessable, fetch failures are upstream.
func respondAnalysisError(w http.ResponseWriter, err error) {
	var httpErr *httpError
	var invalidErr *analyzer.InvalidInputError
	var analysisErr *analyzer.AnalysisError

	switch {
	case errors.As(err, &httpErr):
		respondError(w, httpErr.status, httpErr.message)
	case errors.As(err, &invalidErr):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &analysisErr):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Error().Err(err).Msg("analysis failed")
		respondError(w, http.StatusInternalServerError, "analysis failed")
	}
}

// validFocus reports whether focus names a known enhancement. The
// empty string means no enhancement and is always valid.
func validFocus(focus string) bool {
	if focus == "" {
		return true
	}
	switch enhance.ParseFocus(focus) {
	case enhance.FocusSecurity, enhance.FocusAccessibility, enhance.FocusPerformance, enhance.FocusGeneral:
		return true
	}
	return false
}
