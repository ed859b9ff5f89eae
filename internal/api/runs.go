package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/testforge-hq/testforge/internal/emitter"
	"github.com/testforge-hq/testforge/pkg/model"
)

// EmitterInfo describes one output format.
type EmitterInfo struct {
	Name          string `json:"name"`
	Language      string `json:"language"`
	Framework     string `json:"framework,omitempty"`
	FileExtension string `json:"file_extension"`
}

// getRun returns a run with its status, entities, and summary.
// GET /api/v1/runs/{runID}
func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid run ID")
		return
	}
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "storage not available")
		return
	}

	run, err := s.store.GetRun(r.Context(), runID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get run")
		respondError(w, http.StatusInternalServerError, "failed to get run")
		return
	}
	if run == nil {
		respondError(w, http.StatusNotFound, "run not found")
		return
	}

	respondJSON(w, http.StatusOK, run)
}

// getRunSuite returns the suite generated by a run.
// GET /api/v1/runs/{runID}/suite
func (s *Server) getRunSuite(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid run ID")
		return
	}
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "storage not available")
		return
	}

	record, err := s.store.GetSuiteByRun(r.Context(), runID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get suite")
		respondError(w, http.StatusInternalServerError, "failed to get suite")
		return
	}
	if record == nil {
		respondError(w, http.StatusNotFound, "no suite for this run")
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// exportRunSuite renders a run's suite through one emitter and returns
// the artifact as a download.
// GET /api/v1/runs/{runID}/export/{emitter}
func (s *Server) exportRunSuite(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid run ID")
		return
	}
	em, err := s.emitters.Get(chi.URLParam(r, "emitter"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "storage not available")
		return
	}

	record, err := s.store.GetSuiteByRun(r.Context(), runID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get suite")
		respondError(w, http.StatusInternalServerError, "failed to get suite")
		return
	}
	if record == nil {
		respondError(w, http.StatusNotFound, "no suite for this run")
		return
	}

	var suite model.TestSuite
	if err := json.Unmarshal(record.SuiteData, &suite); err != nil {
		log.Error().Err(err).Str("suite_id", record.ID.String()).Msg("corrupt suite data")
		respondError(w, http.StatusInternalServerError, "corrupt suite data")
		return
	}

	artifact, err := em.Emit(suite)
	if err != nil {
		log.Error().Err(err).Str("emitter", em.Name()).Msg("failed to render suite")
		respondError(w, http.StatusInternalServerError, "failed to render suite")
		return
	}

	filename := emitter.ArtifactName(suite.Name, em)
	w.Header().Set("Content-Type", contentTypeFor(em))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(artifact)
}

// contentTypeFor picks a download content type by artifact extension.
func contentTypeFor(e emitter.Emitter) string {
	if strings.HasSuffix(e.FileExtension(), ".xlsx") {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/plain; charset=utf-8"
}

// listEmitters returns the available output formats.
// GET /api/v1/emitters
func (s *Server) listEmitters(w http.ResponseWriter, r *http.Request) {
	names := s.emitters.List()
	infos := make([]EmitterInfo, 0, len(names))
	for _, name := range names {
		em, err := s.emitters.Get(name)
		if err != nil {
			continue
		}
		infos = append(infos, EmitterInfo{
			Name:          em.Name(),
			Language:      em.Language(),
			Framework:     em.Framework(),
			FileExtension: em.FileExtension(),
		})
	}

	respondJSON(w, http.StatusOK, infos)
}
