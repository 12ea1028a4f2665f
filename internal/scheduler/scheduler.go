package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

// DefaultInterval is how often the maturation sweep runs when no override
// is configured.
const DefaultInterval = 5 * time.Minute

// SweepJobArgs is the payload of a scheduled maturation sweep. The sweep
// takes no parameters; it reads the wall clock when it runs.
type SweepJobArgs struct{}

func (SweepJobArgs) Kind() string { return "maturation_sweep" }

// Engine is the contract the sweep worker needs from the investment engine.
type Engine interface {
	MaturationSweep(ctx context.Context) (int, error)
}

// SweepWorker runs the maturation sweep as a River job.
type SweepWorker struct {
	river.WorkerDefaults[SweepJobArgs]
	engine Engine
	log    *slog.Logger
}

func NewSweepWorker(engine Engine, log *slog.Logger) *SweepWorker {
	if log == nil {
		log = slog.Default()
	}
	return &SweepWorker{engine: engine, log: log}
}

func (w *SweepWorker) Work(ctx context.Context, job *river.Job[SweepJobArgs]) error {
	matured, err := w.engine.MaturationSweep(ctx)
	if err != nil {
		return fmt.Errorf("maturation sweep: %w", err)
	}
	w.log.Info("scheduled maturation sweep finished", "matured", matured)
	return nil
}

// Scheduler owns the recurring maturation sweep: a River client configured
// with the sweep worker and a periodic job that fires at the given interval
// and once immediately on start. The caller starts and stops it with the
// process lifecycle; this timer is the sole liveness mechanism that turns
// active investments into realized profit.
type Scheduler struct {
	client *river.Client[pgx.Tx]
}

// New builds the scheduler. interval <= 0 falls back to DefaultInterval.
func New(pool *pgxpool.Pool, engine Engine, interval time.Duration, log *slog.Logger) (*Scheduler, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	workers := river.NewWorkers()
	river.AddWorker(workers, NewSweepWorker(engine, log))

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 1},
		},
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			river.NewPeriodicJob(
				river.PeriodicInterval(interval),
				func() (river.JobArgs, *river.InsertOpts) {
					return SweepJobArgs{}, nil
				},
				&river.PeriodicJobOpts{RunOnStart: true},
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create river client: %w", err)
	}
	return &Scheduler{client: client}, nil
}

func (s *Scheduler) Start(ctx context.Context) error {
	return s.client.Start(ctx)
}

func (s *Scheduler) Stop(ctx context.Context) error {
	return s.client.Stop(ctx)
}
