package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/testforge-hq/testforge/internal/config"
	"github.com/testforge-hq/testforge/internal/db"
	"github.com/testforge-hq/testforge/internal/jobs"
	"github.com/testforge-hq/testforge/pkg/model"
)

func TestAnalysisWorker_Name(t *testing.T) {
	cfg := &config.Config{}
	base := NewBaseWorker(BaseWorkerConfig{
		Config:  cfg,
		JobType: jobs.JobTypeAnalysis,
	})
	worker := NewAnalysisWorker(base, cfg, nil)

	if worker.Name() != "analysis" {
		t.Errorf("Name() = %s, want analysis", worker.Name())
	}
}

func TestGenerationWorker_Name(t *testing.T) {
	base := NewBaseWorker(BaseWorkerConfig{
		JobType: jobs.JobTypeGeneration,
	})
	worker := NewGenerationWorker(base, nil)

	if worker.Name() != "generation" {
		t.Errorf("Name() = %s, want generation", worker.Name())
	}
}

func TestEnhancementWorker_Name(t *testing.T) {
	base := NewBaseWorker(BaseWorkerConfig{
		JobType: jobs.JobTypeEnhancement,
	})
	worker := NewEnhancementWorker(base, nil, nil)

	if worker.Name() != "enhancement" {
		t.Errorf("Name() = %s, want enhancement", worker.Name())
	}
}

func TestExportWorker_Name(t *testing.T) {
	base := NewBaseWorker(BaseWorkerConfig{
		JobType: jobs.JobTypeExport,
	})
	worker := NewExportWorker(base, nil)

	if worker.Name() != "export" {
		t.Errorf("Name() = %s, want export", worker.Name())
	}
}

func TestWorker_Interface(t *testing.T) {
	// Verify all workers implement the Worker interface
	cfg := &config.Config{}

	workers := []Worker{
		NewAnalysisWorker(NewBaseWorker(BaseWorkerConfig{Config: cfg, JobType: jobs.JobTypeAnalysis}), cfg, nil),
		NewGenerationWorker(NewBaseWorker(BaseWorkerConfig{JobType: jobs.JobTypeGeneration}), nil),
		NewEnhancementWorker(NewBaseWorker(BaseWorkerConfig{JobType: jobs.JobTypeEnhancement}), nil, nil),
		NewExportWorker(NewBaseWorker(BaseWorkerConfig{JobType: jobs.JobTypeExport}), nil),
	}

	expectedNames := []string{"analysis", "generation", "enhancement", "export"}

	for i, w := range workers {
		if w.Name() != expectedNames[i] {
			t.Errorf("worker[%d].Name() = %s, want %s", i, w.Name(), expectedNames[i])
		}
	}
}

func TestWorker_BaseWorkerEmbedding(t *testing.T) {
	base := NewBaseWorker(BaseWorkerConfig{
		WorkerID: "test-analysis-1",
		JobType:  jobs.JobTypeAnalysis,
	})
	worker := NewAnalysisWorker(base, nil, nil)

	// Should have access to base worker methods
	if worker.WorkerID() != "test-analysis-1" {
		t.Errorf("WorkerID() = %s, want test-analysis-1", worker.WorkerID())
	}

	if worker.JobType() != jobs.JobTypeAnalysis {
		t.Errorf("JobType() = %s, want analysis", worker.JobType())
	}
}

func TestAnalysisWorker_PayloadParsing(t *testing.T) {
	payload := jobs.AnalysisPayload{
		SourceID: uuid.New(),
		Location: "https://github.com/acme/shop",
		Kind:     "repo",
		Branch:   "develop",
		Options:  jobs.PipelineOptions{Focus: "SECURITY"},
	}

	job, err := jobs.NewJob(jobs.JobTypeAnalysis, payload)
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	var parsed jobs.AnalysisPayload
	if err := job.GetPayload(&parsed); err != nil {
		t.Fatalf("GetPayload failed: %v", err)
	}

	if parsed.SourceID != payload.SourceID {
		t.Error("SourceID mismatch")
	}
	if parsed.Location != payload.Location {
		t.Error("Location mismatch")
	}
	if parsed.Branch != "develop" {
		t.Errorf("Branch = %s, want develop", parsed.Branch)
	}
	if parsed.Options.Focus != "SECURITY" {
		t.Errorf("Options.Focus = %s, want SECURITY", parsed.Options.Focus)
	}
}

func TestGenerationWorker_PayloadParsing(t *testing.T) {
	payload := jobs.GenerationPayload{
		SourceID: uuid.New(),
		RunID:    uuid.New(),
		Options:  jobs.PipelineOptions{Emitters: []string{"jira", "xlsx"}},
	}

	job, err := jobs.NewJob(jobs.JobTypeGeneration, payload)
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	var parsed jobs.GenerationPayload
	if err := job.GetPayload(&parsed); err != nil {
		t.Fatalf("GetPayload failed: %v", err)
	}

	if parsed.RunID != payload.RunID {
		t.Error("RunID mismatch")
	}
	if len(parsed.Options.Emitters) != 2 {
		t.Errorf("len(Options.Emitters) = %d, want 2", len(parsed.Options.Emitters))
	}
}

func TestEnhancementWorker_PayloadParsing(t *testing.T) {
	payload := jobs.EnhancementPayload{
		SourceID: uuid.New(),
		RunID:    uuid.New(),
		SuiteID:  uuid.New(),
		Options:  jobs.PipelineOptions{Focus: "ACCESSIBILITY"},
	}

	job, err := jobs.NewJob(jobs.JobTypeEnhancement, payload)
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	var parsed jobs.EnhancementPayload
	if err := job.GetPayload(&parsed); err != nil {
		t.Fatalf("GetPayload failed: %v", err)
	}

	if parsed.SuiteID != payload.SuiteID {
		t.Error("SuiteID mismatch")
	}
	if parsed.Options.Focus != "ACCESSIBILITY" {
		t.Errorf("Options.Focus = %s, want ACCESSIBILITY", parsed.Options.Focus)
	}
}

func TestExportWorker_PayloadParsing(t *testing.T) {
	payload := jobs.ExportPayload{
		SourceID: uuid.New(),
		RunID:    uuid.New(),
		SuiteID:  uuid.New(),
		Options: jobs.PipelineOptions{
			Emitters:  []string{"restassured"},
			OutputDir: "out",
		},
	}

	job, err := jobs.NewJob(jobs.JobTypeExport, payload)
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	var parsed jobs.ExportPayload
	if err := job.GetPayload(&parsed); err != nil {
		t.Fatalf("GetPayload failed: %v", err)
	}

	if parsed.Options.OutputDir != "out" {
		t.Errorf("Options.OutputDir = %s, want out", parsed.Options.OutputDir)
	}
	if len(parsed.Options.Emitters) != 1 {
		t.Errorf("len(Options.Emitters) = %d, want 1", len(parsed.Options.Emitters))
	}
}

func TestWorkers_RequireStore(t *testing.T) {
	ctx := context.Background()

	analysis := NewAnalysisWorker(NewBaseWorker(BaseWorkerConfig{JobType: jobs.JobTypeAnalysis}), nil, nil)
	job, _ := jobs.NewJob(jobs.JobTypeAnalysis, jobs.AnalysisPayload{SourceID: uuid.New(), Location: "api.json"})
	if err := analysis.handleJob(ctx, job); err == nil {
		t.Error("analysis should fail without a store")
	}

	generation := NewGenerationWorker(NewBaseWorker(BaseWorkerConfig{JobType: jobs.JobTypeGeneration}), nil)
	job, _ = jobs.NewJob(jobs.JobTypeGeneration, jobs.GenerationPayload{SourceID: uuid.New(), RunID: uuid.New()})
	if err := generation.handleJob(ctx, job); err == nil {
		t.Error("generation should fail without a store")
	}

	enhancement := NewEnhancementWorker(NewBaseWorker(BaseWorkerConfig{JobType: jobs.JobTypeEnhancement}), nil, nil)
	job, _ = jobs.NewJob(jobs.JobTypeEnhancement, jobs.EnhancementPayload{SuiteID: uuid.New()})
	if err := enhancement.handleJob(ctx, job); err == nil {
		t.Error("enhancement should fail without a store")
	}

	export := NewExportWorker(NewBaseWorker(BaseWorkerConfig{JobType: jobs.JobTypeExport}), nil)
	job, _ = jobs.NewJob(jobs.JobTypeExport, jobs.ExportPayload{SuiteID: uuid.New()})
	if err := export.handleJob(ctx, job); err == nil {
		t.Error("export should fail without a store")
	}
}

func TestExportWorker_WriteArtifacts(t *testing.T) {
	base := NewBaseWorker(BaseWorkerConfig{JobType: jobs.JobTypeExport})
	worker := NewExportWorker(base, nil)

	suite := model.TestSuite{
		Name: "User Service",
		Cases: []model.TestCase{
			{
				Name:        "Test the Get Users endpoint",
				Description: "Verify that the Get Users endpoint works correctly",
				Type:        model.CaseAPI,
				Steps: []model.TestStep{
					{Action: "Send GET request to /users", Expected: "Receive 200 OK response"},
				},
			},
		},
	}

	dir := t.TempDir()
	files, err := worker.writeArtifacts(suite, []string{"jira", "restassured"}, dir)
	if err != nil {
		t.Fatalf("writeArtifacts failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "user-service.jira.txt"),
		filepath.Join(dir, "UserServiceTest.java"),
	}
	if len(files) != len(want) {
		t.Fatalf("len(files) = %d, want %d", len(files), len(want))
	}
	for i, path := range want {
		if files[i] != path {
			t.Errorf("files[%d] = %s, want %s", i, files[i], path)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("artifact %s not written: %v", path, err)
		}
	}
}

func TestExportWorker_WriteArtifacts_AllFormats(t *testing.T) {
	base := NewBaseWorker(BaseWorkerConfig{JobType: jobs.JobTypeExport})
	worker := NewExportWorker(base, nil)

	suite := model.TestSuite{Name: "Login Page"}

	// An empty emitter list exports every registered format.
	files, err := worker.writeArtifacts(suite, nil, t.TempDir())
	if err != nil {
		t.Fatalf("writeArtifacts failed: %v", err)
	}

	if len(files) != len(worker.registry.List()) {
		t.Errorf("len(files) = %d, want %d", len(files), len(worker.registry.List()))
	}
}

func TestExportWorker_WriteArtifacts_UnknownEmitter(t *testing.T) {
	base := NewBaseWorker(BaseWorkerConfig{JobType: jobs.JobTypeExport})
	worker := NewExportWorker(base, nil)

	_, err := worker.writeArtifacts(model.TestSuite{Name: "x"}, []string{"nope"}, t.TempDir())
	if err == nil {
		t.Error("expected error for unknown emitter")
	}
}

func TestLooksLikeRepo(t *testing.T) {
	tests := []struct {
		location string
		want     bool
	}{
		{"https://github.com/acme/shop", true},
		{"https://github.com/acme/shop/tree/develop", true},
		{"git@github.com:acme/shop.git", true},
		{"https://github.com/acme/shop/raw/main/api.postman_collection.json", false},
		{"https://example.com/page.html", false},
		{"./testdata/collection.json", false},
	}

	for _, tt := range tests {
		if got := looksLikeRepo(tt.location); got != tt.want {
			t.Errorf("looksLikeRepo(%q) = %v, want %v", tt.location, got, tt.want)
		}
	}
}

func TestWantsEnhancement(t *testing.T) {
	if wantsEnhancement(jobs.PipelineOptions{}) {
		t.Error("no focus and no flag should not enhance")
	}
	if !wantsEnhancement(jobs.PipelineOptions{Enhance: true}) {
		t.Error("Enhance flag should enhance")
	}
	if !wantsEnhancement(jobs.PipelineOptions{Focus: "SECURITY"}) {
		t.Error("focus should enhance")
	}
}

func TestSuiteKindFor(t *testing.T) {
	api := model.EntitySet{
		Endpoints: []model.Endpoint{{Name: "Get Users", URL: "/users", Method: "GET"}},
	}
	if got := suiteKindFor(api); got != model.SourceAPI {
		t.Errorf("suiteKindFor(api set) = %s, want %s", got, model.SourceAPI)
	}

	web := model.EntitySet{
		Elements: []model.Element{{Type: "form", Identifier: "login-form"}},
	}
	if got := suiteKindFor(web); got != model.SourceWeb {
		t.Errorf("suiteKindFor(web set) = %s, want %s", got, model.SourceWeb)
	}

	mixed := model.EntitySet{Endpoints: api.Endpoints, Elements: web.Elements}
	if got := suiteKindFor(mixed); got != model.SourceAPI {
		t.Errorf("suiteKindFor(mixed set) = %s, want %s", got, model.SourceAPI)
	}
}

func TestSuiteNameFor(t *testing.T) {
	if got := suiteNameFor(&db.Source{Name: "Shop API"}); got != "Shop API" {
		t.Errorf("suiteNameFor(named) = %s, want Shop API", got)
	}
	if got := suiteNameFor(&db.Source{}); got != "Generated Suite" {
		t.Errorf("suiteNameFor(unnamed) = %s, want Generated Suite", got)
	}
	if got := suiteNameFor(nil); got != "Generated Suite" {
		t.Errorf("suiteNameFor(nil) = %s, want Generated Suite", got)
	}
}

func TestApplyProjectOptions(t *testing.T) {
	dir := t.TempDir()
	content := `focus: security
emitters:
  - jira
output:
  dir: build/tests
generation:
  enhance: true
`
	if err := os.WriteFile(filepath.Join(dir, ".testforge.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	opts := applyProjectOptions(jobs.PipelineOptions{}, dir)
	if opts.Focus != "SECURITY" {
		t.Errorf("Focus = %q, want SECURITY", opts.Focus)
	}
	if !opts.Enhance {
		t.Error("Enhance should be set from the project config")
	}
	if len(opts.Emitters) != 1 || opts.Emitters[0] != "jira" {
		t.Errorf("Emitters = %v, want [jira]", opts.Emitters)
	}
	if opts.OutputDir != "build/tests" {
		t.Errorf("OutputDir = %q, want build/tests", opts.OutputDir)
	}
}

func TestApplyProjectOptions_SubmissionWins(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".testforge.yaml"), []byte("focus: security\nemitters: [jira]"), 0644); err != nil {
		t.Fatal(err)
	}

	submitted := jobs.PipelineOptions{
		Focus:    "PERFORMANCE",
		Emitters: []string{"xlsx"},
	}
	opts := applyProjectOptions(submitted, dir)
	if opts.Focus != "PERFORMANCE" {
		t.Errorf("Focus = %q, submitted focus should win", opts.Focus)
	}
	if len(opts.Emitters) != 1 || opts.Emitters[0] != "xlsx" {
		t.Errorf("Emitters = %v, submitted emitters should win", opts.Emitters)
	}
}

func TestApplyProjectOptions_NoConfig(t *testing.T) {
	opts := applyProjectOptions(jobs.PipelineOptions{Focus: "GENERAL"}, t.TempDir())
	if opts.Focus != "GENERAL" {
		t.Errorf("Focus = %q, want GENERAL", opts.Focus)
	}
	if opts.Enhance || len(opts.Emitters) != 0 || opts.OutputDir != "" {
		t.Errorf("options should pass through untouched without a project config: %+v", opts)
	}
}
