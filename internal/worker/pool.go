package worker

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/testforge-hq/testforge/internal/ai"
	"github.com/testforge-hq/testforge/internal/config"
	"github.com/testforge-hq/testforge/internal/db"
	"github.com/testforge-hq/testforge/internal/jobs"
	forgenats "github.com/testforge-hq/testforge/internal/nats"
)

// WorkerType selects which pipeline stages a process runs.
type WorkerType string

const (
	WorkerAnalysis    WorkerType = "analysis"
	WorkerGeneration  WorkerType = "generation"
	WorkerEnhancement WorkerType = "enhancement"
	WorkerExport      WorkerType = "export"
	WorkerAll         WorkerType = "all"
)

// Pool manages a set of workers sharing one database and NATS
// connection.
type Pool struct {
	cfg        *config.Config
	workerType WorkerType
	workers    []Worker
	nats       *forgenats.Client
	repo       *jobs.Repository
	pipeline   *jobs.Pipeline
	db         *db.DB
	store      *db.Store
	suggester  ai.Suggester
}

// Worker is the interface all workers must implement.
type Worker interface {
	Name() string
	Run(ctx context.Context) error
}

// PoolConfig configures the worker pool.
type PoolConfig struct {
	Config     *config.Config
	WorkerType string
	DB         *db.DB
	NATS       *forgenats.Client
	Store      *db.Store    // store for sources, runs, and suites
	Suggester  ai.Suggester // step suggestion capability for enhancement
}

// NewPool creates a worker pool of the requested type.
func NewPool(cfg PoolConfig) (*Pool, error) {
	p := &Pool{
		cfg:        cfg.Config,
		workerType: WorkerType(cfg.WorkerType),
		workers:    make([]Worker, 0),
		db:         cfg.DB,
		nats:       cfg.NATS,
		store:      cfg.Store,
		suggester:  cfg.Suggester,
	}

	if cfg.DB != nil {
		if p.store == nil {
			p.store = db.NewStore(cfg.DB)
		}
		p.repo = jobs.NewRepository(cfg.DB.Pool())
		p.pipeline = jobs.NewPipeline(p.repo, cfg.NATS)
	}

	if err := p.initWorkers(); err != nil {
		return nil, fmt.Errorf("failed to initialize workers: %w", err)
	}

	return p, nil
}

func (p *Pool) initWorkers() error {
	switch p.workerType {
	case WorkerAll:
		p.addWorker(jobs.JobTypeAnalysis)
		p.addWorker(jobs.JobTypeGeneration)
		p.addWorker(jobs.JobTypeEnhancement)
		p.addWorker(jobs.JobTypeExport)
	case WorkerAnalysis:
		p.addWorker(jobs.JobTypeAnalysis)
	case WorkerGeneration:
		p.addWorker(jobs.JobTypeGeneration)
	case WorkerEnhancement:
		p.addWorker(jobs.JobTypeEnhancement)
	case WorkerExport:
		p.addWorker(jobs.JobTypeExport)
	default:
		return fmt.Errorf("unknown worker type: %s", p.workerType)
	}

	return nil
}

func (p *Pool) addWorker(jobType jobs.JobType) {
	base := NewBaseWorker(BaseWorkerConfig{
		Config:     p.cfg,
		JobType:    jobType,
		Repository: p.repo,
		NATS:       p.nats,
		Pipeline:   p.pipeline,
	})

	var worker Worker
	switch jobType {
	case jobs.JobTypeAnalysis:
		worker = NewAnalysisWorker(base, p.cfg, p.store)
	case jobs.JobTypeGeneration:
		worker = NewGenerationWorker(base, p.store)
	case jobs.JobTypeEnhancement:
		worker = NewEnhancementWorker(base, p.store, p.suggester)
	case jobs.JobTypeExport:
		worker = NewExportWorker(base, p.store)
	}

	if worker != nil {
		p.workers = append(p.workers, worker)
	}
}

// Run starts all workers and blocks until context is cancelled or a
// worker fails.
func (p *Pool) Run(ctx context.Context) error {
	if len(p.workers) == 0 {
		return fmt.Errorf("no workers configured")
	}

	if p.nats != nil && p.nats.IsConnected() {
		if err := p.nats.SetupStreams(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to setup NATS streams, workers will poll DB")
		} else {
			log.Info().Msg("NATS streams configured")
		}
	}

	errCh := make(chan error, len(p.workers))

	for _, w := range p.workers {
		go func(worker Worker) {
			log.Info().Str("worker", worker.Name()).Msg("starting worker")
			if err := worker.Run(ctx); err != nil {
				errCh <- fmt.Errorf("worker %s failed: %w", worker.Name(), err)
			}
		}(w)
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("context cancelled, stopping workers")
		return nil
	case err := <-errCh:
		return err
	}
}

// Pipeline returns the job pipeline manager.
func (p *Pool) Pipeline() *jobs.Pipeline {
	return p.pipeline
}

// Repository returns the job repository.
func (p *Pool) Repository() *jobs.Repository {
	return p.repo
}

// NATS returns the NATS client.
func (p *Pool) NATS() *forgenats.Client {
	return p.nats
}
