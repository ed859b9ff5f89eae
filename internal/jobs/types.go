// Package jobs defines job types and payloads for async processing
package jobs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JobType represents the type of async job
type JobType string

const (
	JobTypeAnalysis    JobType = "analysis"
	JobTypeGeneration  JobType = "generation"
	JobTypeEnhancement JobType = "enhancement"
	JobTypeExport      JobType = "export"
)

// JobStatus represents the current state of a job
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusRetrying  JobStatus = "retrying"
	StatusCancelled JobStatus = "cancelled"
)

// Job represents an async job in the system
type Job struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	Type         JobType          `json:"type" db:"type"`
	Status       JobStatus        `json:"status" db:"status"`
	Priority     int              `json:"priority" db:"priority"`
	SourceID     *uuid.UUID       `json:"source_id,omitempty" db:"source_id"`
	RunID        *uuid.UUID       `json:"run_id,omitempty" db:"run_id"`
	ParentJobID  *uuid.UUID       `json:"parent_job_id,omitempty" db:"parent_job_id"`
	Payload      json.RawMessage  `json:"payload" db:"payload"`
	Result       *json.RawMessage `json:"result,omitempty" db:"result"`
	ErrorMessage *string          `json:"error_message,omitempty" db:"error_message"`
	RetryCount   int              `json:"retry_count" db:"retry_count"`
	MaxRetries   int              `json:"max_retries" db:"max_retries"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
	StartedAt    *time.Time       `json:"started_at,omitempty" db:"started_at"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty" db:"completed_at"`
	LockedUntil  *time.Time       `json:"locked_until,omitempty" db:"locked_until"`
	WorkerID     *string          `json:"worker_id,omitempty" db:"worker_id"`
}

// PipelineOptions travel with every payload in the chain so each stage
// knows how to hand off to the next
type PipelineOptions struct {
	Focus     string   `json:"focus,omitempty"`
	Emitters  []string `json:"emitters,omitempty"`
	Enhance   bool     `json:"enhance,omitempty"`
	OutputDir string   `json:"output_dir,omitempty"`
}

// AnalysisPayload is the payload for analysis jobs
type AnalysisPayload struct {
	SourceID uuid.UUID       `json:"source_id"`
	Location string          `json:"location"`
	Kind     string          `json:"kind,omitempty"`
	Branch   string          `json:"branch,omitempty"`
	Options  PipelineOptions `json:"options"`
}

// GenerationPayload is the payload for generation jobs
type GenerationPayload struct {
	SourceID uuid.UUID       `json:"source_id"`
	RunID    uuid.UUID       `json:"run_id"`
	Options  PipelineOptions `json:"options"`
}

// EnhancementPayload is the payload for enhancement jobs
type EnhancementPayload struct {
	SourceID uuid.UUID       `json:"source_id"`
	RunID    uuid.UUID       `json:"run_id"`
	SuiteID  uuid.UUID       `json:"suite_id"`
	Options  PipelineOptions `json:"options"`
}

// ExportPayload is the payload for export jobs
type ExportPayload struct {
	SourceID uuid.UUID       `json:"source_id"`
	RunID    uuid.UUID       `json:"run_id"`
	SuiteID  uuid.UUID       `json:"suite_id"`
	Options  PipelineOptions `json:"options"`
}

// AnalysisResult is the result of an analysis job
type AnalysisResult struct {
	RunID         uuid.UUID `json:"run_id"`
	SourceName    string    `json:"source_name"`
	EndpointCount int       `json:"endpoint_count"`
	ElementCount  int       `json:"element_count"`
}

// GenerationResult is the result of a generation job
type GenerationResult struct {
	SuiteID   uuid.UUID `json:"suite_id"`
	CaseCount int       `json:"case_count"`
	StepCount int       `json:"step_count"`
}

// EnhancementResult is the result of an enhancement job
type EnhancementResult struct {
	SuiteID    uuid.UUID `json:"suite_id"`
	Focus      string    `json:"focus"`
	CaseCount  int       `json:"case_count"`
	AddedCases int       `json:"added_cases"`
}

// ExportResult is the result of an export job
type ExportResult struct {
	SuiteID uuid.UUID `json:"suite_id"`
	Files   []string  `json:"files"`
}

// NewJob creates a new job with defaults
func NewJob(jobType JobType, payload interface{}) (*Job, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		Status:     StatusPending,
		Priority:   0,
		Payload:    payloadBytes,
		RetryCount: 0,
		MaxRetries: 3,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}, nil
}

// SetPayload marshals and sets the payload
func (j *Job) SetPayload(payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	j.Payload = data
	return nil
}

// GetPayload unmarshals the payload into the provided struct
func (j *Job) GetPayload(v interface{}) error {
	return json.Unmarshal(j.Payload, v)
}

// SetResult marshals and sets the result
func (j *Job) SetResult(result interface{}) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	raw := json.RawMessage(data)
	j.Result = &raw
	return nil
}

// GetResult unmarshals the result into the provided struct
func (j *Job) GetResult(v interface{}) error {
	if j.Result == nil {
		return nil
	}
	return json.Unmarshal(*j.Result, v)
}

// CanRetry returns true if the job can be retried
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// JobMessage is the message sent via NATS for job notifications
type JobMessage struct {
	JobID    uuid.UUID `json:"job_id"`
	Type     JobType   `json:"type"`
	Priority int       `json:"priority"`
}

// Encode serializes the job message to JSON
func (m *JobMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeJobMessage deserializes a job message from JSON
func DecodeJobMessage(data []byte) (*JobMessage, error) {
	var m JobMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
