package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/testforge-hq/testforge/internal/ai"
	"github.com/testforge-hq/testforge/internal/analyzer"
	"github.com/testforge-hq/testforge/internal/config"
	"github.com/testforge-hq/testforge/internal/coverage"
	"github.com/testforge-hq/testforge/internal/db"
	"github.com/testforge-hq/testforge/internal/emitter"
	"github.com/testforge-hq/testforge/internal/enhance"
	"github.com/testforge-hq/testforge/internal/fetch"
	"github.com/testforge-hq/testforge/internal/generator"
	"github.com/testforge-hq/testforge/internal/ingest"
	"github.com/testforge-hq/testforge/internal/jobs"
	"github.com/testforge-hq/testforge/pkg/model"
)

// defaultOutputDir receives export artifacts when the submission does
// not choose a directory.
const defaultOutputDir = "generated-tests"

// AnalysisWorker resolves a source location into its entity set and
// records it on a new run.
type AnalysisWorker struct {
	*BaseWorker
	cfg     *config.Config
	store   *db.Store
	fetcher *fetch.Client
}

func NewAnalysisWorker(base *BaseWorker, cfg *config.Config, store *db.Store) *AnalysisWorker {
	var timeout time.Duration
	retryMax := fetch.DefaultRetryMax
	if cfg != nil {
		timeout = cfg.FetchTimeout()
		retryMax = cfg.FetchRetryMax
	}

	w := &AnalysisWorker{
		BaseWorker: base,
		cfg:        cfg,
		store:      store,
		fetcher:    fetch.NewClient(timeout, retryMax),
	}
	base.handler = w.handleJob
	return w
}

func (w *AnalysisWorker) Name() string { return "analysis" }

func (w *AnalysisWorker) handleJob(ctx context.Context, job *jobs.Job) error {
	var payload jobs.AnalysisPayload
	if err := job.GetPayload(&payload); err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	log.Info().
		Str("location", payload.Location).
		Str("kind", payload.Kind).
		Str("source_id", payload.SourceID.String()).
		Msg("analyzing source")

	if w.store == nil {
		return fmt.Errorf("analysis requires a store")
	}

	run := &db.Run{SourceID: payload.SourceID}
	if payload.Options.Focus != "" {
		focus := payload.Options.Focus
		run.Focus = &focus
	}
	if optsJSON, err := json.Marshal(payload.Options); err == nil {
		run.Config = optsJSON
	}
	if err := w.store.CreateRun(ctx, run); err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	if err := w.store.UpdateRunStatus(ctx, run.ID, "running"); err != nil {
		log.Warn().Err(err).Msg("failed to mark run running")
	}

	set, name, opts, err := w.analyze(ctx, payload)
	if err != nil {
		return w.failAnalysis(ctx, run.ID, payload.SourceID, err)
	}

	entJSON, err := json.Marshal(set)
	if err != nil {
		return w.failAnalysis(ctx, run.ID, payload.SourceID, fmt.Errorf("failed to serialize entities: %w", err))
	}
	if err := w.store.SetRunEntities(ctx, run.ID, entJSON); err != nil {
		return w.failAnalysis(ctx, run.ID, payload.SourceID, err)
	}

	var namePtr *string
	if name != "" {
		namePtr = &name
	}
	if err := w.store.UpdateSourceStatus(ctx, payload.SourceID, "analyzed", namePtr); err != nil {
		log.Warn().Err(err).Msg("failed to update source status")
	}

	log.Info().
		Str("name", name).
		Int("endpoints", len(set.Endpoints)).
		Int("elements", len(set.Elements)).
		Msg("analysis complete")

	result := jobs.AnalysisResult{
		RunID:         run.ID,
		SourceName:    name,
		EndpointCount: len(set.Endpoints),
		ElementCount:  len(set.Elements),
	}
	if err := w.Repository().Complete(ctx, job.ID, result); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	if w.Pipeline() != nil {
		if _, err := w.Pipeline().CreateGenerationJob(ctx, job.ID, payload.SourceID, run.ID, opts); err != nil {
			log.Warn().Err(err).Msg("failed to create generation job")
		}
	}

	return nil
}

// failAnalysis records the failure on both the run and the source
// before handing the error back to the job loop.
func (w *AnalysisWorker) failAnalysis(ctx context.Context, runID, sourceID uuid.UUID, cause error) error {
	if err := w.store.UpdateSourceStatus(ctx, sourceID, "failed", nil); err != nil {
		log.Warn().Err(err).Str("source_id", sourceID.String()).Msg("failed to update source status")
	}
	return failRun(ctx, w.store, runID, cause)
}

// analyze resolves the location to an entity set, a display name for
// the source, and the effective pipeline options. Repository clones may
// carry a project config that fills options the submission left unset.
func (w *AnalysisWorker) analyze(ctx context.Context, payload jobs.AnalysisPayload) (model.EntitySet, string, jobs.PipelineOptions, error) {
	kind := strings.ToLower(strings.TrimSpace(payload.Kind))

	switch {
	case kind == string(model.SourceRepo) || (kind == "" && looksLikeRepo(payload.Location)):
		return w.analyzeRepo(ctx, payload)
	case kind == string(model.SourceWeb) && fetch.IsURL(payload.Location):
		// Live pages are not scraped; the page analyzer models the
		// interactive surface directly from the identifier.
		elements, err := analyzer.AnalyzePage(payload.Location)
		if err != nil {
			return model.EntitySet{}, "", payload.Options, err
		}
		return model.EntitySet{Elements: elements}, fetch.BaseName(payload.Location), payload.Options, nil
	default:
		set, name, err := w.analyzeDocument(ctx, payload, kind)
		return set, name, payload.Options, err
	}
}

// analyzeDocument fetches a single collection or page file and runs
// the matching analyzer over it.
func (w *AnalysisWorker) analyzeDocument(ctx context.Context, payload jobs.AnalysisPayload, kind string) (model.EntitySet, string, error) {
	data, err := w.fetcher.Fetch(ctx, payload.Location)
	if err != nil {
		return model.EntitySet{}, "", fmt.Errorf("failed to fetch source: %w", err)
	}
	text := string(data)

	if kind == "" {
		kind = string(analyzer.DetectKind(payload.Location, text))
	}

	switch kind {
	case string(model.SourceAPI):
		endpoints, err := analyzer.AnalyzeCollection(text)
		if err != nil {
			return model.EntitySet{}, "", err
		}
		name := analyzer.CollectionName(text)
		if name == "" {
			name = fetch.BaseName(payload.Location)
		}
		return model.EntitySet{Endpoints: endpoints}, name, nil
	case string(model.SourceWeb):
		elements, err := analyzer.AnalyzeHTML(text)
		if err != nil {
			return model.EntitySet{}, "", err
		}
		return model.EntitySet{Elements: elements}, fetch.BaseName(payload.Location), nil
	default:
		return model.EntitySet{}, "", fmt.Errorf("unsupported source kind: %s", kind)
	}
}

// analyzeRepo clones a repository, discovers its test sources, and
// merges everything they yield into one entity set.
func (w *AnalysisWorker) analyzeRepo(ctx context.Context, payload jobs.AnalysisPayload) (model.EntitySet, string, jobs.PipelineOptions, error) {
	opts := payload.Options

	info, err := ingest.ParseRepoURL(payload.Location)
	if err != nil {
		return model.EntitySet{}, "", opts, fmt.Errorf("failed to parse repository URL: %w", err)
	}
	if payload.Branch != "" {
		info.Branch = payload.Branch
	}

	baseDir := filepath.Join(os.TempDir(), "testforge")
	token := ""
	if w.cfg != nil {
		if w.cfg.WorkspaceDir != "" {
			baseDir = w.cfg.WorkspaceDir
		}
		token = w.cfg.GitHubToken
	}

	clone, err := ingest.New(baseDir, token).Clone(ctx, info)
	if err != nil {
		return model.EntitySet{}, "", opts, err
	}
	opts = applyProjectOptions(opts, clone.Path)

	sources, err := ingest.FindSources(clone.Path)
	if err != nil {
		return model.EntitySet{}, "", opts, err
	}
	if len(sources) == 0 {
		return model.EntitySet{}, "", opts, fmt.Errorf("no test sources found in %s", payload.Location)
	}

	var set model.EntitySet
	for _, src := range sources {
		data, err := os.ReadFile(src.Path)
		if err != nil {
			log.Warn().Err(err).Str("file", src.RelPath).Msg("failed to read source file")
			continue
		}
		switch src.Kind {
		case model.SourceAPI:
			endpoints, err := analyzer.AnalyzeCollection(string(data))
			if err != nil {
				log.Warn().Err(err).Str("file", src.RelPath).Msg("skipping unparseable collection")
				continue
			}
			set.Endpoints = append(set.Endpoints, endpoints...)
		case model.SourceWeb:
			elements, err := analyzer.AnalyzeHTML(string(data))
			if err != nil {
				log.Warn().Err(err).Str("file", src.RelPath).Msg("skipping unparseable page")
				continue
			}
			set.Elements = append(set.Elements, elements...)
		}
	}

	return set, info.Name, opts, nil
}

// applyProjectOptions fills options the submission left unset from the
// repository's .testforge.yaml, when one exists.
func applyProjectOptions(opts jobs.PipelineOptions, repoPath string) jobs.PipelineOptions {
	projectCfg, err := config.LoadProjectConfig(repoPath)
	if err != nil {
		log.Warn().Err(err).Msg("ignoring unreadable project config")
		return opts
	}
	if projectCfg == nil {
		return opts
	}

	if opts.Focus == "" && projectCfg.Focus != "" {
		opts.Focus = string(enhance.ParseFocus(projectCfg.Focus))
	}
	if !opts.Enhance {
		opts.Enhance = projectCfg.Generation.Enhance
	}
	if len(opts.Emitters) == 0 {
		opts.Emitters = projectCfg.Emitters
	}
	if opts.OutputDir == "" {
		opts.OutputDir = projectCfg.Output.Dir
	}
	return opts
}

// looksLikeRepo reports whether a location is a repository URL rather
// than a direct document reference.
func looksLikeRepo(location string) bool {
	if strings.HasPrefix(location, "git@") {
		return true
	}
	if !strings.Contains(location, "github.com") {
		return false
	}
	lower := strings.ToLower(location)
	return !strings.HasSuffix(lower, ".json") &&
		!strings.HasSuffix(lower, ".html") &&
		!strings.HasSuffix(lower, ".htm")
}

// GenerationWorker turns a run's entity set into a stored test suite.
type GenerationWorker struct {
	*BaseWorker
	store *db.Store
	gen   *generator.Generator
}

func NewGenerationWorker(base *BaseWorker, store *db.Store) *GenerationWorker {
	w := &GenerationWorker{
		BaseWorker: base,
		store:      store,
		gen:        generator.New(),
	}
	base.handler = w.handleJob
	return w
}

func (w *GenerationWorker) Name() string { return "generation" }

func (w *GenerationWorker) handleJob(ctx context.Context, job *jobs.Job) error {
	var payload jobs.GenerationPayload
	if err := job.GetPayload(&payload); err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	log.Info().
		Str("run_id", payload.RunID.String()).
		Msg("generating test cases")

	if w.store == nil {
		return fmt.Errorf("generation requires a store")
	}

	run, err := w.store.GetRun(ctx, payload.RunID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", payload.RunID)
	}
	if run.Entities == nil {
		return failRun(ctx, w.store, payload.RunID, fmt.Errorf("run %s has no entities", payload.RunID))
	}

	var set model.EntitySet
	if err := json.Unmarshal(*run.Entities, &set); err != nil {
		return failRun(ctx, w.store, payload.RunID, fmt.Errorf("failed to decode entities: %w", err))
	}

	cases := w.gen.GenerateFromEndpoints(set.Endpoints)
	cases = append(cases, w.gen.GenerateFromElements(set.Elements)...)

	source, err := w.store.GetSource(ctx, payload.SourceID)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load source")
	}

	suiteID := uuid.New()
	suite := model.TestSuite{
		ID:        suiteID.String(),
		Name:      suiteNameFor(source),
		Source:    suiteKindFor(set),
		Cases:     cases,
		CreatedAt: time.Now().UTC(),
	}
	if source != nil {
		suite.Location = source.Location
	}

	suiteJSON, err := json.Marshal(suite)
	if err != nil {
		return failRun(ctx, w.store, payload.RunID, fmt.Errorf("failed to serialize suite: %w", err))
	}

	record := &db.Suite{
		ID:        suiteID,
		RunID:     payload.RunID,
		SourceID:  payload.SourceID,
		Name:      suite.Name,
		CaseCount: len(cases),
		SuiteData: suiteJSON,
	}
	if err := w.store.CreateSuite(ctx, record); err != nil {
		return failRun(ctx, w.store, payload.RunID, fmt.Errorf("failed to persist suite: %w", err))
	}

	report := coverage.Analyze(set.All(), cases)
	covJSON, err := json.Marshal(report)
	if err != nil {
		covJSON = nil
	} else if err := w.store.SetSuiteCoverage(ctx, suiteID, covJSON); err != nil {
		log.Warn().Err(err).Msg("failed to store coverage")
	}

	stats := suite.Stats()
	log.Info().
		Str("suite_id", suiteID.String()).
		Int("cases", stats["cases"]).
		Int("steps", stats["steps"]).
		Float64("coverage_pct", report.Percent()).
		Msg("generated suite")

	result := jobs.GenerationResult{
		SuiteID:   suiteID,
		CaseCount: stats["cases"],
		StepCount: stats["steps"],
	}
	if err := w.Repository().Complete(ctx, job.ID, result); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	opts := payload.Options
	switch {
	case w.Pipeline() != nil && wantsEnhancement(opts):
		if _, err := w.Pipeline().CreateEnhancementJob(ctx, job.ID, payload.SourceID, payload.RunID, suiteID, opts); err != nil {
			log.Warn().Err(err).Msg("failed to create enhancement job")
		}
	case w.Pipeline() != nil && len(opts.Emitters) > 0:
		if _, err := w.Pipeline().CreateExportJob(ctx, job.ID, payload.SourceID, payload.RunID, suiteID, opts); err != nil {
			log.Warn().Err(err).Msg("failed to create export job")
		}
	default:
		finishRun(ctx, w.store, payload.RunID, runSummary{
			SuiteID:   suiteID.String(),
			CaseCount: stats["cases"],
			StepCount: stats["steps"],
			Coverage:  covJSON,
		})
	}

	return nil
}

// wantsEnhancement reports whether the submission asked for an
// enhancement pass, either explicitly or by choosing a focus.
func wantsEnhancement(opts jobs.PipelineOptions) bool {
	return opts.Enhance || opts.Focus != ""
}

// suiteNameFor names the generated suite after the analyzed source.
func suiteNameFor(source *db.Source) string {
	if source != nil && source.Name != "" {
		return source.Name
	}
	return "Generated Suite"
}

// suiteKindFor classifies a suite by what the entity set holds. Mixed
// sets from repository sources count as api; their web cases are still
// in the suite.
func suiteKindFor(set model.EntitySet) model.SourceKind {
	if len(set.Endpoints) > 0 {
		return model.SourceAPI
	}
	return model.SourceWeb
}

// EnhancementWorker applies the requested focus to a stored suite.
type EnhancementWorker struct {
	*BaseWorker
	store    *db.Store
	enhancer *enhance.Pipeline
}

func NewEnhancementWorker(base *BaseWorker, store *db.Store, suggester ai.Suggester) *EnhancementWorker {
	w := &EnhancementWorker{
		BaseWorker: base,
		store:      store,
		enhancer:   enhance.NewPipeline(suggester),
	}
	base.handler = w.handleJob
	return w
}

func (w *EnhancementWorker) Name() string { return "enhancement" }

func (w *EnhancementWorker) handleJob(ctx context.Context, job *jobs.Job) error {
	var payload jobs.EnhancementPayload
	if err := job.GetPayload(&payload); err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	focus := enhance.ParseFocus(payload.Options.Focus)
	if payload.Options.Focus == "" {
		// Enhancement was requested without a focus; GENERAL runs the
		// suggestion pass over every case.
		focus = enhance.FocusGeneral
	}

	log.Info().
		Str("suite_id", payload.SuiteID.String()).
		Str("focus", string(focus)).
		Msg("enhancing suite")

	if w.store == nil {
		return fmt.Errorf("enhancement requires a store")
	}

	record, err := w.store.GetSuite(ctx, payload.SuiteID)
	if err != nil {
		return err
	}
	if record == nil {
		return failRun(ctx, w.store, payload.RunID, fmt.Errorf("suite %s not found", payload.SuiteID))
	}

	var suite model.TestSuite
	if err := json.Unmarshal(record.SuiteData, &suite); err != nil {
		return failRun(ctx, w.store, payload.RunID, fmt.Errorf("failed to decode suite: %w", err))
	}

	enhanced, err := w.enhancer.Enhance(ctx, suite.Cases, focus)
	if err != nil {
		return failRun(ctx, w.store, payload.RunID, fmt.Errorf("enhancement failed: %w", err))
	}

	added := len(enhanced) - len(suite.Cases)
	suite.Cases = enhanced
	suite.Focus = string(focus)

	suiteJSON, err := json.Marshal(suite)
	if err != nil {
		return failRun(ctx, w.store, payload.RunID, fmt.Errorf("failed to serialize suite: %w", err))
	}

	focusStr := string(focus)
	if err := w.store.UpdateSuiteData(ctx, payload.SuiteID, suiteJSON, len(enhanced), &focusStr); err != nil {
		return failRun(ctx, w.store, payload.RunID, fmt.Errorf("failed to update suite: %w", err))
	}

	covJSON := w.recomputeCoverage(ctx, payload.RunID, payload.SuiteID, suite.Cases)

	stats := suite.Stats()
	log.Info().
		Str("suite_id", payload.SuiteID.String()).
		Int("cases", stats["cases"]).
		Int("added", added).
		Msg("suite enhanced")

	result := jobs.EnhancementResult{
		SuiteID:    payload.SuiteID,
		Focus:      string(focus),
		CaseCount:  len(enhanced),
		AddedCases: added,
	}
	if err := w.Repository().Complete(ctx, job.ID, result); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	if w.Pipeline() != nil && len(payload.Options.Emitters) > 0 {
		if _, err := w.Pipeline().CreateExportJob(ctx, job.ID, payload.SourceID, payload.RunID, payload.SuiteID, payload.Options); err != nil {
			log.Warn().Err(err).Msg("failed to create export job")
		}
	} else {
		finishRun(ctx, w.store, payload.RunID, runSummary{
			SuiteID:   payload.SuiteID.String(),
			CaseCount: stats["cases"],
			StepCount: stats["steps"],
			Focus:     string(focus),
			Coverage:  covJSON,
		})
	}

	return nil
}

// recomputeCoverage refreshes the stored coverage after the case list
// changed, returning the serialized report for the run summary.
func (w *EnhancementWorker) recomputeCoverage(ctx context.Context, runID, suiteID uuid.UUID, cases []model.TestCase) json.RawMessage {
	run, err := w.store.GetRun(ctx, runID)
	if err != nil || run == nil || run.Entities == nil {
		return nil
	}

	var set model.EntitySet
	if err := json.Unmarshal(*run.Entities, &set); err != nil {
		log.Warn().Err(err).Msg("failed to decode entities for coverage")
		return nil
	}

	covJSON, err := json.Marshal(coverage.Analyze(set.All(), cases))
	if err != nil {
		return nil
	}
	if err := w.store.SetSuiteCoverage(ctx, suiteID, covJSON); err != nil {
		log.Warn().Err(err).Msg("failed to store coverage")
	}
	return covJSON
}

// ExportWorker renders a stored suite through the requested emitters
// and finalizes the run.
type ExportWorker struct {
	*BaseWorker
	store    *db.Store
	registry *emitter.Registry
}

func NewExportWorker(base *BaseWorker, store *db.Store) *ExportWorker {
	w := &ExportWorker{
		BaseWorker: base,
		store:      store,
		registry:   emitter.NewRegistry(),
	}
	base.handler = w.handleJob
	return w
}

func (w *ExportWorker) Name() string { return "export" }

func (w *ExportWorker) handleJob(ctx context.Context, job *jobs.Job) error {
	var payload jobs.ExportPayload
	if err := job.GetPayload(&payload); err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	log.Info().
		Str("suite_id", payload.SuiteID.String()).
		Strs("emitters", payload.Options.Emitters).
		Msg("exporting suite")

	if w.store == nil {
		return fmt.Errorf("export requires a store")
	}

	record, err := w.store.GetSuite(ctx, payload.SuiteID)
	if err != nil {
		return err
	}
	if record == nil {
		return failRun(ctx, w.store, payload.RunID, fmt.Errorf("suite %s not found", payload.SuiteID))
	}

	var suite model.TestSuite
	if err := json.Unmarshal(record.SuiteData, &suite); err != nil {
		return failRun(ctx, w.store, payload.RunID, fmt.Errorf("failed to decode suite: %w", err))
	}

	outputDir := payload.Options.OutputDir
	if outputDir == "" {
		outputDir = defaultOutputDir
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return failRun(ctx, w.store, payload.RunID, fmt.Errorf("failed to create output directory: %w", err))
	}

	files, err := w.writeArtifacts(suite, payload.Options.Emitters, outputDir)
	if err != nil {
		return failRun(ctx, w.store, payload.RunID, err)
	}

	log.Info().Strs("files", files).Msg("suite exported")

	result := jobs.ExportResult{
		SuiteID: payload.SuiteID,
		Files:   files,
	}
	if err := w.Repository().Complete(ctx, job.ID, result); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	stats := suite.Stats()
	summary := runSummary{
		SuiteID:   payload.SuiteID.String(),
		CaseCount: stats["cases"],
		StepCount: stats["steps"],
		Focus:     suite.Focus,
		Files:     files,
	}
	if record.CoverageData != nil {
		summary.Coverage = *record.CoverageData
	}
	finishRun(ctx, w.store, payload.RunID, summary)

	return nil
}

// writeArtifacts renders the suite through each named emitter. An
// unknown emitter name fails the whole export rather than silently
// dropping requested output. An empty list exports every format.
func (w *ExportWorker) writeArtifacts(suite model.TestSuite, names []string, outputDir string) ([]string, error) {
	if len(names) == 0 {
		names = w.registry.List()
	}

	files := make([]string, 0, len(names))
	for _, name := range names {
		em, err := w.registry.Get(name)
		if err != nil {
			return nil, err
		}
		data, err := em.Emit(suite)
		if err != nil {
			return nil, fmt.Errorf("emitter %s failed: %w", name, err)
		}
		path := filepath.Join(outputDir, emitter.ArtifactName(suite.Name, em))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		log.Debug().Str("path", path).Str("emitter", name).Msg("wrote artifact")
		files = append(files, path)
	}
	return files, nil
}

// runSummary is the shape stored on runs.summary when a pipeline
// completes.
type runSummary struct {
	SuiteID   string          `json:"suite_id"`
	CaseCount int             `json:"case_count"`
	StepCount int             `json:"step_count"`
	Focus     string          `json:"focus,omitempty"`
	Coverage  json.RawMessage `json:"coverage,omitempty"`
	Files     []string        `json:"files,omitempty"`
}

// finishRun stores the summary and marks the run completed.
func finishRun(ctx context.Context, store *db.Store, runID uuid.UUID, summary runSummary) {
	data, err := json.Marshal(summary)
	if err != nil {
		log.Warn().Err(err).Msg("failed to serialize run summary")
	} else if err := store.SetRunSummary(ctx, runID, data); err != nil {
		log.Warn().Err(err).Str("run_id", runID.String()).Msg("failed to store run summary")
	}
	if err := store.UpdateRunStatus(ctx, runID, "completed"); err != nil {
		log.Warn().Err(err).Str("run_id", runID.String()).Msg("failed to complete run")
	}
	log.Info().Str("run_id", runID.String()).Str("suite_id", summary.SuiteID).Msg("run completed")
}

// failRun records a failure on the run so clients see the cause, then
// hands the error back for the job row.
func failRun(ctx context.Context, store *db.Store, runID uuid.UUID, cause error) error {
	if store != nil {
		if err := store.FailRun(ctx, runID, cause.Error()); err != nil {
			log.Warn().Err(err).Str("run_id", runID.String()).Msg("failed to record run failure")
		}
	}
	return cause
}
