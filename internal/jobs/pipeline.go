// Package jobs provides pipeline orchestration for test generation workflows
package jobs

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	forgenats "github.com/testforge-hq/testforge/internal/nats"
)

// Pipeline orchestrates the analysis and generation workflow
type Pipeline struct {
	repo *Repository
	nats *forgenats.Client
}

// NewPipeline creates a new pipeline manager
func NewPipeline(repo *Repository, nats *forgenats.Client) *Pipeline {
	return &Pipeline{
		repo: repo,
		nats: nats,
	}
}

// StartAnalysis starts the pipeline for a source. Subsequent stages are
// chained by workers as each stage completes.
func (p *Pipeline) StartAnalysis(ctx context.Context, payload AnalysisPayload) (*Job, error) {
	job, err := NewJob(JobTypeAnalysis, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	job.SourceID = &payload.SourceID

	if err := p.enqueue(ctx, job); err != nil {
		return nil, err
	}

	log.Info().
		Str("job_id", job.ID.String()).
		Str("location", payload.Location).
		Str("focus", payload.Options.Focus).
		Msg("started analysis pipeline")

	return job, nil
}

// CreateGenerationJob creates a generation job after analysis completes
func (p *Pipeline) CreateGenerationJob(ctx context.Context, parentID uuid.UUID, sourceID, runID uuid.UUID, opts PipelineOptions) (*Job, error) {
	payload := GenerationPayload{
		SourceID: sourceID,
		RunID:    runID,
		Options:  opts,
	}

	return p.chainJob(ctx, parentID, JobTypeGeneration, payload, sourceID, runID)
}

// CreateEnhancementJob creates an enhancement job after generation completes
func (p *Pipeline) CreateEnhancementJob(ctx context.Context, parentID uuid.UUID, sourceID, runID, suiteID uuid.UUID, opts PipelineOptions) (*Job, error) {
	payload := EnhancementPayload{
		SourceID: sourceID,
		RunID:    runID,
		SuiteID:  suiteID,
		Options:  opts,
	}

	return p.chainJob(ctx, parentID, JobTypeEnhancement, payload, sourceID, runID)
}

// CreateExportJob creates an export job for a finished suite
func (p *Pipeline) CreateExportJob(ctx context.Context, parentID uuid.UUID, sourceID, runID, suiteID uuid.UUID, opts PipelineOptions) (*Job, error) {
	payload := ExportPayload{
		SourceID: sourceID,
		RunID:    runID,
		SuiteID:  suiteID,
		Options:  opts,
	}

	return p.chainJob(ctx, parentID, JobTypeExport, payload, sourceID, runID)
}

// chainJob creates a child job linked to a parent, carrying the source
// and run identifiers so the job row can be listed by either
func (p *Pipeline) chainJob(ctx context.Context, parentID uuid.UUID, jobType JobType, payload interface{}, sourceID, runID uuid.UUID) (*Job, error) {
	job, err := NewJob(jobType, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	job.ParentJobID = &parentID
	job.SourceID = &sourceID
	job.RunID = &runID

	if err := p.enqueue(ctx, job); err != nil {
		return nil, err
	}

	log.Debug().
		Str("job_id", job.ID.String()).
		Str("parent_id", parentID.String()).
		Str("type", string(jobType)).
		Msg("created chained job")

	return job, nil
}

// enqueue persists the job and notifies workers
func (p *Pipeline) enqueue(ctx context.Context, job *Job) error {
	if err := p.repo.Create(ctx, job); err != nil {
		return fmt.Errorf("failed to persist job: %w", err)
	}

	if err := p.publishJob(ctx, job); err != nil {
		log.Error().Err(err).Str("job_id", job.ID.String()).Msg("failed to publish job")
		// Job is in DB, worker can poll for it
	}

	return nil
}

// publishJob publishes a job notification to NATS
func (p *Pipeline) publishJob(ctx context.Context, job *Job) error {
	if p.nats == nil {
		return nil // NATS not configured, workers will poll DB
	}

	msg := &JobMessage{
		JobID:    job.ID,
		Type:     job.Type,
		Priority: job.Priority,
	}

	data, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	subject := forgenats.SubjectForJobType(string(job.Type))
	if subject == "" {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}

	_, err = p.nats.Publish(ctx, subject, data)
	return err
}

// GetJobStatus returns the current status of a job and its children
func (p *Pipeline) GetJobStatus(ctx context.Context, jobID uuid.UUID) (*JobStatusReport, error) {
	job, err := p.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("job not found")
	}

	children, err := p.repo.GetChildJobs(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return &JobStatusReport{
		Job:      job,
		Children: children,
	}, nil
}

// JobStatusReport contains a job and its child jobs
type JobStatusReport struct {
	Job      *Job   `json:"job"`
	Children []*Job `json:"children,omitempty"`
}

// RetryFailedJobs requeues all jobs in retrying status
func (p *Pipeline) RetryFailedJobs(ctx context.Context) (int, error) {
	jobs, err := p.repo.ListByStatus(ctx, StatusRetrying, 100)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, job := range jobs {
		if err := p.repo.Retry(ctx, job.ID); err != nil {
			log.Warn().Err(err).Str("job_id", job.ID.String()).Msg("failed to retry job")
			continue
		}

		// Republish to NATS
		job.Status = StatusPending
		if err := p.publishJob(ctx, job); err != nil {
			log.Warn().Err(err).Str("job_id", job.ID.String()).Msg("failed to republish job")
		}

		count++
	}

	return count, nil
}
