// Package nats provides stream configuration for TestForge job processing
package nats

import (
	"context"
	"time"
)

// Stream names
const (
	StreamJobs = "FORGE_JOBS"
)

// Subject patterns for job routing
const (
	// SubjectJobsAll matches all job subjects
	SubjectJobsAll = "jobs.>"

	// Job type subjects
	SubjectJobAnalysis    = "jobs.analysis"
	SubjectJobGeneration  = "jobs.generation"
	SubjectJobEnhancement = "jobs.enhancement"
	SubjectJobExport      = "jobs.export"
)

// Consumer names
const (
	ConsumerAnalysis    = "analysis-worker"
	ConsumerGeneration  = "generation-worker"
	ConsumerEnhancement = "enhancement-worker"
	ConsumerExport      = "export-worker"
)

// DefaultStreamConfig returns the default stream configuration for jobs
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		Name:        StreamJobs,
		Subjects:    []string{SubjectJobsAll},
		MaxMsgs:     100000,
		MaxBytes:    1024 * 1024 * 500, // 500MB
		MaxAge:      7 * 24 * time.Hour,
		Replicas:    1,
		Description: "TestForge job processing stream",
	}
}

// SetupStreams creates all required streams and consumers
func (c *Client) SetupStreams(ctx context.Context) error {
	// Create main jobs stream
	_, err := c.CreateStream(ctx, DefaultStreamConfig())
	if err != nil {
		return err
	}

	// Create consumers for each worker type
	consumers := []struct {
		name    string
		subject string
	}{
		{ConsumerAnalysis, SubjectJobAnalysis},
		{ConsumerGeneration, SubjectJobGeneration},
		{ConsumerEnhancement, SubjectJobEnhancement},
		{ConsumerExport, SubjectJobExport},
	}

	for _, cons := range consumers {
		if _, err := c.CreateConsumer(ctx, StreamJobs, cons.name, cons.subject); err != nil {
			return err
		}
	}

	return nil
}

// SubjectForJobType returns the NATS subject for a job type
func SubjectForJobType(jobType string) string {
	switch jobType {
	case "analysis":
		return SubjectJobAnalysis
	case "generation":
		return SubjectJobGeneration
	case "enhancement":
		return SubjectJobEnhancement
	case "export":
		return SubjectJobExport
	default:
		return ""
	}
}

// ConsumerForJobType returns the consumer name for a job type
func ConsumerForJobType(jobType string) string {
	switch jobType {
	case "analysis":
		return ConsumerAnalysis
	case "generation":
		return ConsumerGeneration
	case "enhancement":
		return ConsumerEnhancement
	case "export":
		return ConsumerExport
	default:
		return ""
	}
}
