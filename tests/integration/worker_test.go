// Package integration provides worker system tests
package integration

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/testforge-hq/testforge/internal/jobs"
	"github.com/testforge-hq/testforge/internal/worker"
)

// TestWorkerPipelineFlow tests the job chaining workflow without database
func TestWorkerPipelineFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	sourceID := uuid.New()
	options := jobs.PipelineOptions{
		Focus:     "SECURITY",
		Emitters:  []string{"restassured", "jira"},
		Enhance:   true,
		OutputDir: "generated-tests",
	}

	// Stage 1: analysis job
	analysisPayload := jobs.AnalysisPayload{
		SourceID: sourceID,
		Location: "https://shop.example.com/collection.json",
		Kind:     "api",
		Options:  options,
	}
	analysisJob, err := jobs.NewJob(jobs.JobTypeAnalysis, analysisPayload)
	if err != nil {
		t.Fatalf("Failed to create analysis job: %v", err)
	}
	if analysisJob.Type != jobs.JobTypeAnalysis {
		t.Errorf("Job type = %s, want analysis", analysisJob.Type)
	}
	if analysisJob.Status != jobs.StatusPending {
		t.Errorf("Job status = %s, want pending", analysisJob.Status)
	}

	// Stage 2: generation job (chained from analysis, which created the run)
	runID := uuid.New()
	generationPayload := jobs.GenerationPayload{
		SourceID: sourceID,
		RunID:    runID,
		Options:  options,
	}
	generationJob, err := jobs.NewJob(jobs.JobTypeGeneration, generationPayload)
	if err != nil {
		t.Fatalf("Failed to create generation job: %v", err)
	}
	generationJob.ParentJobID = &analysisJob.ID

	// Stage 3: enhancement job (works on the suite generation stored)
	suiteID := uuid.New()
	enhancementPayload := jobs.EnhancementPayload{
		SourceID: sourceID,
		RunID:    runID,
		SuiteID:  suiteID,
		Options:  options,
	}
	enhancementJob, err := jobs.NewJob(jobs.JobTypeEnhancement, enhancementPayload)
	if err != nil {
		t.Fatalf("Failed to create enhancement job: %v", err)
	}
	enhancementJob.ParentJobID = &generationJob.ID

	// Stage 4: export job
	exportPayload := jobs.ExportPayload{
		SourceID: sourceID,
		RunID:    runID,
		SuiteID:  suiteID,
		Options:  options,
	}
	exportJob, err := jobs.NewJob(jobs.JobTypeExport, exportPayload)
	if err != nil {
		t.Fatalf("Failed to create export job: %v", err)
	}
	exportJob.ParentJobID = &enhancementJob.ID

	// Verify chain integrity
	allJobs := []*jobs.Job{analysisJob, generationJob, enhancementJob, exportJob}
	expectedTypes := []jobs.JobType{
		jobs.JobTypeAnalysis,
		jobs.JobTypeGeneration,
		jobs.JobTypeEnhancement,
		jobs.JobTypeExport,
	}

	for i, job := range allJobs {
		if job.Type != expectedTypes[i] {
			t.Errorf("Job[%d] type = %s, want %s", i, job.Type, expectedTypes[i])
		}
	}
	for i := 1; i < len(allJobs); i++ {
		if allJobs[i].ParentJobID == nil || *allJobs[i].ParentJobID != allJobs[i-1].ID {
			t.Errorf("Job[%d] parent not linked to job[%d]", i, i-1)
		}
	}

	// Options must survive the payload roundtrip at the end of the chain
	var decoded jobs.ExportPayload
	if err := exportJob.GetPayload(&decoded); err != nil {
		t.Fatalf("GetPayload failed: %v", err)
	}
	if decoded.SuiteID != suiteID {
		t.Errorf("SuiteID = %s, want %s", decoded.SuiteID, suiteID)
	}
	if decoded.Options.Focus != "SECURITY" {
		t.Errorf("Focus = %s, want SECURITY", decoded.Options.Focus)
	}
	if len(decoded.Options.Emitters) != 2 {
		t.Errorf("Emitters = %v, want 2 entries", decoded.Options.Emitters)
	}

	t.Logf("Pipeline flow test: created %d jobs in chain", len(allJobs))
}

// TestJobPayloadRoundtrip tests serialization/deserialization of all payloads
func TestJobPayloadRoundtrip(t *testing.T) {
	tests := []struct {
		name    string
		jobType jobs.JobType
		payload interface{}
	}{
		{
			name:    "analysis",
			jobType: jobs.JobTypeAnalysis,
			payload: jobs.AnalysisPayload{
				SourceID: uuid.New(),
				Location: "https://api.example.com/openapi.json",
				Kind:     "api",
				Branch:   "main",
				Options:  jobs.PipelineOptions{Focus: "PERFORMANCE", Enhance: true},
			},
		},
		{
			name:    "generation",
			jobType: jobs.JobTypeGeneration,
			payload: jobs.GenerationPayload{
				SourceID: uuid.New(),
				RunID:    uuid.New(),
				Options:  jobs.PipelineOptions{Emitters: []string{"selenium"}},
			},
		},
		{
			name:    "enhancement",
			jobType: jobs.JobTypeEnhancement,
			payload: jobs.EnhancementPayload{
				SourceID: uuid.New(),
				RunID:    uuid.New(),
				SuiteID:  uuid.New(),
				Options:  jobs.PipelineOptions{Focus: "ACCESSIBILITY"},
			},
		},
		{
			name:    "export",
			jobType: jobs.JobTypeExport,
			payload: jobs.ExportPayload{
				SourceID: uuid.New(),
				RunID:    uuid.New(),
				SuiteID:  uuid.New(),
				Options:  jobs.PipelineOptions{Emitters: []string{"restassured", "xlsx"}, OutputDir: "out"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create job with payload
			job, err := jobs.NewJob(tt.jobType, tt.payload)
			if err != nil {
				t.Fatalf("NewJob failed: %v", err)
			}

			// Serialize and deserialize
			jsonData, err := json.Marshal(job)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}

			var decoded jobs.Job
			if err := json.Unmarshal(jsonData, &decoded); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}

			// Verify job fields
			if decoded.Type != tt.jobType {
				t.Errorf("Type = %s, want %s", decoded.Type, tt.jobType)
			}
			if decoded.Status != jobs.StatusPending {
				t.Errorf("Status = %s, want pending", decoded.Status)
			}
			if decoded.MaxRetries != 3 {
				t.Errorf("MaxRetries = %d, want 3", decoded.MaxRetries)
			}
		})
	}
}

// TestJobResultRoundtrip tests serialization/deserialization of all results
func TestJobResultRoundtrip(t *testing.T) {
	tests := []struct {
		name   string
		result interface{}
	}{
		{
			name: "analysis",
			result: jobs.AnalysisResult{
				RunID:         uuid.New(),
				SourceName:    "Shop API",
				EndpointCount: 5,
				ElementCount:  0,
			},
		},
		{
			name: "generation",
			result: jobs.GenerationResult{
				SuiteID:   uuid.New(),
				CaseCount: 12,
				StepCount: 24,
			},
		},
		{
			name: "enhancement",
			result: jobs.EnhancementResult{
				SuiteID:    uuid.New(),
				Focus:      "SECURITY",
				CaseCount:  24,
				AddedCases: 12,
			},
		},
		{
			name: "export",
			result: jobs.ExportResult{
				SuiteID: uuid.New(),
				Files:   []string{"ShopAPITest.java", "shop-api.jira.txt"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create a job and set result
			job, _ := jobs.NewJob(jobs.JobTypeAnalysis, jobs.AnalysisPayload{})
			if err := job.SetResult(tt.result); err != nil {
				t.Fatalf("SetResult failed: %v", err)
			}

			// Serialize entire job
			jsonData, err := json.Marshal(job)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}

			var decoded jobs.Job
			if err := json.Unmarshal(jsonData, &decoded); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}

			// Verify result is preserved
			if decoded.Result == nil {
				t.Error("Result should not be nil")
			}
		})
	}
}

// TestJobResultHandoff tests that one stage's result carries the IDs
// the next stage's payload is built from
func TestJobResultHandoff(t *testing.T) {
	job, _ := jobs.NewJob(jobs.JobTypeAnalysis, jobs.AnalysisPayload{SourceID: uuid.New()})

	runID := uuid.New()
	if err := job.SetResult(jobs.AnalysisResult{
		RunID:         runID,
		SourceName:    "Shop API",
		EndpointCount: 5,
	}); err != nil {
		t.Fatalf("SetResult failed: %v", err)
	}

	var result jobs.AnalysisResult
	if err := job.GetResult(&result); err != nil {
		t.Fatalf("GetResult failed: %v", err)
	}
	if result.RunID != runID {
		t.Errorf("RunID = %s, want %s", result.RunID, runID)
	}
	if result.SourceName != "Shop API" {
		t.Errorf("SourceName = %s, want Shop API", result.SourceName)
	}

	// The generation payload for the next stage is built from the result
	next := jobs.GenerationPayload{RunID: result.RunID}
	if next.RunID != runID {
		t.Errorf("next stage RunID = %s, want %s", next.RunID, runID)
	}
}

// TestWorkerPoolCreation tests worker pool initialization
func TestWorkerPoolCreation(t *testing.T) {
	for _, workerType := range []string{"all", "analysis", "generation", "enhancement", "export"} {
		t.Run(workerType, func(t *testing.T) {
			pool, err := worker.NewPool(worker.PoolConfig{
				WorkerType: workerType,
			})
			if err != nil {
				t.Fatalf("NewPool failed: %v", err)
			}

			if pool == nil {
				t.Fatal("Pool should not be nil")
			}
		})
	}
}

// TestWorkerPoolUnknownType tests that unrecognized worker types are rejected
func TestWorkerPoolUnknownType(t *testing.T) {
	_, err := worker.NewPool(worker.PoolConfig{
		WorkerType: "modeling",
	})
	if err == nil {
		t.Fatal("NewPool should fail for an unknown worker type")
	}
}

// TestJobCanRetry tests retry logic
func TestJobCanRetry(t *testing.T) {
	job, _ := jobs.NewJob(jobs.JobTypeAnalysis, jobs.AnalysisPayload{})

	// Default max retries is 3
	if !job.CanRetry() {
		t.Error("Job with 0 retries should be retryable")
	}

	job.RetryCount = 2
	if !job.CanRetry() {
		t.Error("Job with 2 retries (max 3) should be retryable")
	}

	job.RetryCount = 3
	if job.CanRetry() {
		t.Error("Job with 3 retries (max 3) should not be retryable")
	}

	job.RetryCount = 4
	if job.CanRetry() {
		t.Error("Job with 4 retries should not be retryable")
	}
}

// TestJobMessage tests job message encoding/decoding
func TestJobMessage(t *testing.T) {
	msg := &jobs.JobMessage{
		JobID:    uuid.New(),
		Type:     jobs.JobTypeGeneration,
		Priority: 5,
	}

	// Encode
	data, err := msg.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// Decode
	decoded, err := jobs.DecodeJobMessage(data)
	if err != nil {
		t.Fatalf("DecodeJobMessage failed: %v", err)
	}

	if decoded.JobID != msg.JobID {
		t.Errorf("JobID = %s, want %s", decoded.JobID, msg.JobID)
	}
	if decoded.Type != msg.Type {
		t.Errorf("Type = %s, want %s", decoded.Type, msg.Type)
	}
	if decoded.Priority != msg.Priority {
		t.Errorf("Priority = %d, want %d", decoded.Priority, msg.Priority)
	}
}

// TestJobTimestamps tests job timestamp handling
func TestJobTimestamps(t *testing.T) {
	job, _ := jobs.NewJob(jobs.JobTypeAnalysis, jobs.AnalysisPayload{})

	// CreatedAt should be set
	if job.CreatedAt.IsZero() {
		t.Error("CreatedAt should not be zero")
	}

	// UpdatedAt should be set
	if job.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should not be zero")
	}

	// StartedAt should be nil for pending job
	if job.StartedAt != nil {
		t.Error("StartedAt should be nil for pending job")
	}

	// CompletedAt should be nil for pending job
	if job.CompletedAt != nil {
		t.Error("CompletedAt should be nil for pending job")
	}
}
