package jobs

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJobType_Constants(t *testing.T) {
	tests := []struct {
		jobType JobType
		want    string
	}{
		{JobTypeAnalysis, "analysis"},
		{JobTypeGeneration, "generation"},
		{JobTypeEnhancement, "enhancement"},
		{JobTypeExport, "export"},
	}

	for _, tt := range tests {
		if string(tt.jobType) != tt.want {
			t.Errorf("JobType %v = %s, want %s", tt.jobType, string(tt.jobType), tt.want)
		}
	}
}

func TestJobStatus_Constants(t *testing.T) {
	tests := []struct {
		status JobStatus
		want   string
	}{
		{StatusPending, "pending"},
		{StatusRunning, "running"},
		{StatusCompleted, "completed"},
		{StatusFailed, "failed"},
		{StatusRetrying, "retrying"},
		{StatusCancelled, "cancelled"},
	}

	for _, tt := range tests {
		if string(tt.status) != tt.want {
			t.Errorf("JobStatus %v = %s, want %s", tt.status, string(tt.status), tt.want)
		}
	}
}

func TestNewJob(t *testing.T) {
	payload := AnalysisPayload{
		SourceID: uuid.New(),
		Location: "https://example.com/users.postman_collection.json",
		Kind:     "api",
	}

	job, err := NewJob(JobTypeAnalysis, payload)
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	if job.ID == uuid.Nil {
		t.Error("job.ID should not be nil")
	}
	if job.Type != JobTypeAnalysis {
		t.Errorf("job.Type = %s, want analysis", job.Type)
	}
	if job.Status != StatusPending {
		t.Errorf("job.Status = %s, want pending", job.Status)
	}
	if job.RetryCount != 0 {
		t.Errorf("job.RetryCount = %d, want 0", job.RetryCount)
	}
	if job.MaxRetries != 3 {
		t.Errorf("job.MaxRetries = %d, want 3", job.MaxRetries)
	}
}

func TestJob_GetSetPayload(t *testing.T) {
	job := &Job{
		ID:        uuid.New(),
		Type:      JobTypeAnalysis,
		Status:    StatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	original := AnalysisPayload{
		SourceID: uuid.New(),
		Location: "https://example.com/login.html",
		Kind:     "web",
		Branch:   "develop",
		Options: PipelineOptions{
			Focus:    "SECURITY",
			Emitters: []string{"xlsx", "jira"},
			Enhance:  true,
		},
	}

	if err := job.SetPayload(original); err != nil {
		t.Fatalf("SetPayload failed: %v", err)
	}

	var retrieved AnalysisPayload
	if err := job.GetPayload(&retrieved); err != nil {
		t.Fatalf("GetPayload failed: %v", err)
	}

	if retrieved.SourceID != original.SourceID {
		t.Error("SourceID mismatch")
	}
	if retrieved.Location != original.Location {
		t.Errorf("Location = %s, want %s", retrieved.Location, original.Location)
	}
	if retrieved.Branch != original.Branch {
		t.Errorf("Branch = %s, want %s", retrieved.Branch, original.Branch)
	}
	if retrieved.Options.Focus != "SECURITY" {
		t.Errorf("Options.Focus = %s, want SECURITY", retrieved.Options.Focus)
	}
	if len(retrieved.Options.Emitters) != 2 {
		t.Errorf("len(Options.Emitters) = %d, want 2", len(retrieved.Options.Emitters))
	}
	if !retrieved.Options.Enhance {
		t.Error("Options.Enhance should be true")
	}
}

func TestJob_GetSetResult(t *testing.T) {
	job := &Job{
		ID:     uuid.New(),
		Type:   JobTypeAnalysis,
		Status: StatusCompleted,
	}

	original := AnalysisResult{
		RunID:         uuid.New(),
		SourceName:    "User Service",
		EndpointCount: 4,
		ElementCount:  0,
	}

	if err := job.SetResult(original); err != nil {
		t.Fatalf("SetResult failed: %v", err)
	}

	var retrieved AnalysisResult
	if err := job.GetResult(&retrieved); err != nil {
		t.Fatalf("GetResult failed: %v", err)
	}

	if retrieved.RunID != original.RunID {
		t.Errorf("RunID mismatch")
	}
	if retrieved.EndpointCount != original.EndpointCount {
		t.Errorf("EndpointCount = %d, want %d", retrieved.EndpointCount, original.EndpointCount)
	}
}

func TestJob_GetResult_Nil(t *testing.T) {
	job := &Job{ID: uuid.New()}

	var result AnalysisResult
	if err := job.GetResult(&result); err != nil {
		t.Errorf("GetResult on nil result should not error: %v", err)
	}
}

func TestJob_CanRetry(t *testing.T) {
	tests := []struct {
		name       string
		retryCount int
		maxRetries int
		want       bool
	}{
		{"can retry", 0, 3, true},
		{"can retry once more", 2, 3, true},
		{"cannot retry", 3, 3, false},
		{"exceeded", 5, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := &Job{
				RetryCount: tt.retryCount,
				MaxRetries: tt.maxRetries,
			}
			if got := job.CanRetry(); got != tt.want {
				t.Errorf("CanRetry() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJobMessage_Encode(t *testing.T) {
	msg := &JobMessage{
		JobID:    uuid.New(),
		Type:     JobTypeGeneration,
		Priority: 5,
	}

	data, err := msg.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := DecodeJobMessage(data)
	if err != nil {
		t.Fatalf("DecodeJobMessage failed: %v", err)
	}

	if decoded.JobID != msg.JobID {
		t.Errorf("JobID mismatch")
	}
	if decoded.Type != msg.Type {
		t.Errorf("Type = %s, want %s", decoded.Type, msg.Type)
	}
	if decoded.Priority != msg.Priority {
		t.Errorf("Priority = %d, want %d", decoded.Priority, msg.Priority)
	}
}

func TestDecodeJobMessage_Invalid(t *testing.T) {
	if _, err := DecodeJobMessage([]byte("not json")); err == nil {
		t.Error("DecodeJobMessage should fail on invalid JSON")
	}
}

func TestPayload_JSON(t *testing.T) {
	tests := []struct {
		name    string
		payload interface{}
	}{
		{"AnalysisPayload", AnalysisPayload{SourceID: uuid.New(), Location: "https://example.com/c.json", Kind: "api"}},
		{"GenerationPayload", GenerationPayload{SourceID: uuid.New(), RunID: uuid.New()}},
		{"EnhancementPayload", EnhancementPayload{SourceID: uuid.New(), RunID: uuid.New(), SuiteID: uuid.New()}},
		{"ExportPayload", ExportPayload{SuiteID: uuid.New(), Options: PipelineOptions{Emitters: []string{"xlsx"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.payload)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if len(data) == 0 {
				t.Error("marshaled data should not be empty")
			}
		})
	}
}

func TestResult_JSON(t *testing.T) {
	tests := []struct {
		name   string
		result interface{}
	}{
		{"AnalysisResult", AnalysisResult{RunID: uuid.New(), EndpointCount: 4, ElementCount: 2}},
		{"GenerationResult", GenerationResult{SuiteID: uuid.New(), CaseCount: 6, StepCount: 11}},
		{"EnhancementResult", EnhancementResult{SuiteID: uuid.New(), Focus: "SECURITY", AddedCases: 3}},
		{"ExportResult", ExportResult{SuiteID: uuid.New(), Files: []string{"tests.xlsx"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.result)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if len(data) == 0 {
				t.Error("marshaled data should not be empty")
			}
		})
	}
}
