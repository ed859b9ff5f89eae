package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/testforge-hq/testforge/internal/db"
	"github.com/testforge-hq/testforge/internal/enhance"
	"github.com/testforge-hq/testforge/internal/jobs"
)

// CreateSourceRequest is the request body for registering a source
type CreateSourceRequest struct {
	Location string `json:"location" validate:"required"`
	Kind     string `json:"kind,omitempty" validate:"omitempty,oneof=api web repo"`
	Name     string `json:"name,omitempty"`
}

// StartRunRequest is the request body for starting a pipeline run.
// Everything is optional: an empty body analyzes and generates with
// defaults.
type StartRunRequest struct {
	Focus     string   `json:"focus,omitempty"`
	Enhance   bool     `json:"enhance,omitempty"`
	Emitters  []string `json:"emitters,omitempty"`
	OutputDir string   `json:"output_dir,omitempty"`
	Branch    string   `json:"branch,omitempty"`
}

// createSource registers a source for pipeline runs. Registering the
// same location twice returns the existing row.
// POST /api/v1/sources
func (s *Server) createSource(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "storage not available")
		return
	}

	var req CreateSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := s.store.GetSourceByLocation(r.Context(), req.Location)
	if err != nil {
		log.Error().Err(err).Msg("failed to look up source")
		respondError(w, http.StatusInternalServerError, "failed to create source")
		return
	}
	if existing != nil {
		respondJSON(w, http.StatusOK, existing)
		return
	}

	src := &db.Source{
		Location: req.Location,
		Kind:     req.Kind,
		Name:     req.Name,
	}
	if err := s.store.CreateSource(r.Context(), src); err != nil {
		log.Error().Err(err).Msg("failed to create source")
		respondError(w, http.StatusInternalServerError, "failed to create source")
		return
	}

	respondJSON(w, http.StatusCreated, src)
}

// listSources returns registered sources, newest first.
// GET /api/v1/sources
func (s *Server) listSources(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "storage not available")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	sources, err := s.store.ListSources(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("failed to list sources")
		respondError(w, http.StatusInternalServerError, "failed to list sources")
		return
	}

	respondJSON(w, http.StatusOK, sources)
}

// getSource returns a single source.
// GET /api/v1/sources/{sourceID}
func (s *Server) getSource(w http.ResponseWriter, r *http.Request) {
	sourceID, err := uuid.Parse(chi.URLParam(r, "sourceID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid source ID")
		return
	}
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "storage not available")
		return
	}

	src, err := s.store.GetSource(r.Context(), sourceID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get source")
		respondError(w, http.StatusInternalServerError, "failed to get source")
		return
	}
	if src == nil {
		respondError(w, http.StatusNotFound, "source not found")
		return
	}

	respondJSON(w, http.StatusOK, src)
}

// deleteSource removes a source and everything cascaded from it.
// DELETE /api/v1/sources/{sourceID}
func (s *Server) deleteSource(w http.ResponseWriter, r *http.Request) {
	sourceID, err := uuid.Parse(chi.URLParam(r, "sourceID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid source ID")
		return
	}
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "storage not available")
		return
	}

	if err := s.store.DeleteSource(r.Context(), sourceID); err != nil {
		log.Error().Err(err).Str("source_id", sourceID.String()).Msg("failed to delete source")
		respondError(w, http.StatusNotFound, "source not found")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// startRun queues an analysis job for the source; the workers chain
// the rest of the pipeline from its options.
// POST /api/v1/sources/{sourceID}/runs
func (s *Server) startRun(w http.ResponseWriter, r *http.Request) {
	sourceID, err := uuid.Parse(chi.URLParam(r, "sourceID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid source ID")
		return
	}
	if s.store == nil || s.pipeline == nil {
		respondError(w, http.StatusServiceUnavailable, "job system not available")
		return
	}

	var req StartRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !validFocus(req.Focus) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown focus %q", req.Focus))
		return
	}
	focus := req.Focus
	if focus != "" {
		focus = string(enhance.ParseFocus(focus))
	}
	for _, name := range req.Emitters {
		if _, err := s.emitters.Get(name); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	src, err := s.store.GetSource(r.Context(), sourceID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get source")
		respondError(w, http.StatusInternalServerError, "failed to get source")
		return
	}
	if src == nil {
		respondError(w, http.StatusNotFound, "source not found")
		return
	}

	payload := jobs.AnalysisPayload{
		SourceID: src.ID,
		Location: src.Location,
		Kind:     src.Kind,
		Branch:   req.Branch,
		Options: jobs.PipelineOptions{
			Focus:     focus,
			Emitters:  req.Emitters,
			Enhance:   req.Enhance,
			OutputDir: req.OutputDir,
		},
	}

	job, err := s.pipeline.StartAnalysis(r.Context(), payload)
	if err != nil {
		log.Error().Err(err).Str("source_id", sourceID.String()).Msg("failed to start run")
		respondError(w, http.StatusInternalServerError, "failed to start run")
		return
	}

	respondJSON(w, http.StatusCreated, job)
}

// listSourceRuns returns the pipeline runs recorded for a source,
// newest first.
// GET /api/v1/sources/{sourceID}/runs
func (s *Server) listSourceRuns(w http.ResponseWriter, r *http.Request) {
	sourceID, err := uuid.Parse(chi.URLParam(r, "sourceID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid source ID")
		return
	}
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "storage not available")
		return
	}

	runs, err := s.store.ListRunsBySource(r.Context(), sourceID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list runs")
		respondError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	respondJSON(w, http.StatusOK, runs)
}

// listSourceSuites returns the suites generated for a source, newest
// first.
// GET /api/v1/sources/{sourceID}/suites
func (s *Server) listSourceSuites(w http.ResponseWriter, r *http.Request) {
	sourceID, err := uuid.Parse(chi.URLParam(r, "sourceID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid source ID")
		return
	}
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "storage not available")
		return
	}

	suites, err := s.store.ListSuitesBySource(r.Context(), sourceID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list suites")
		respondError(w, http.StatusInternalServerError, "failed to list suites")
		return
	}

	respondJSON(w, http.StatusOK, suites)
}
