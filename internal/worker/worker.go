// Package worker bootstraps the River job queue and the periodic
// notification retention job.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
)

// PurgeInterval is how often the retention job runs.
const PurgeInterval = time.Hour

// PurgeReadNotificationsArgs deletes read notifications older than
// Retention.
type PurgeReadNotificationsArgs struct {
	Retention time.Duration `json:"retention"`
}

// Kind returns the unique job type identifier.
func (PurgeReadNotificationsArgs) Kind() string { return "purge_read_notifications" }

// Purger removes read notifications past their retention.
type Purger interface {
	PurgeRead(ctx context.Context, retention time.Duration) (int64, error)
}

type purgeWorker struct {
	river.WorkerDefaults[PurgeReadNotificationsArgs]
	purger Purger
}

func (w *purgeWorker) Work(ctx context.Context, job *river.Job[PurgeReadNotificationsArgs]) error {
	if _, err := w.purger.PurgeRead(ctx, job.Args.Retention); err != nil {
		return fmt.Errorf("purge read notifications: %w", err)
	}
	return nil
}

// Queue is the interface exposed by both the real River client and noopQueue.
type Queue interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Client wraps river.Client and exposes a Start/Stop lifecycle.
type Client struct {
	client *river.Client[pgx.Tx]
	log    *slog.Logger
}

// Start begins processing queued jobs.
func (c *Client) Start(ctx context.Context) error { return c.client.Start(ctx) }

// Stop gracefully shuts down the worker client.
func (c *Client) Stop(ctx context.Context) error { return c.client.Stop(ctx) }

// noopQueue is used when River is unavailable (e.g. DB_DRIVER=sqlite).
type noopQueue struct{ log *slog.Logger }

func (n *noopQueue) Start(_ context.Context) error {
	n.log.Info("worker queue disabled (sqlite driver, River requires postgres)")
	return nil
}
func (n *noopQueue) Stop(_ context.Context) error { return nil }

// Options configures New.
type Options struct {
	Driver      string
	Concurrency int
	Retention   time.Duration
	Purger      Purger
}

// New creates a queue implementation appropriate for the given driver.
//   - "postgres": returns a River client backed by pool that runs the
//     retention job every PurgeInterval.
//   - anything else: returns a no-op queue that logs a startup notice.
//
// pool may be nil when the driver is not postgres.
func New(pool *pgxpool.Pool, opts Options, log *slog.Logger) (Queue, error) {
	if opts.Driver != "postgres" {
		return &noopQueue{log: log}, nil
	}
	workers := river.NewWorkers()
	river.AddWorker(workers, &purgeWorker{purger: opts.Purger})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: opts.Concurrency},
		},
		Workers:      workers,
		PeriodicJobs: periodicJobs(opts.Retention),
		Logger:       log,
	})
	if err != nil {
		return nil, fmt.Errorf("create river client: %w", err)
	}
	return &Client{client: client, log: log}, nil
}

func periodicJobs(retention time.Duration) []*river.PeriodicJob {
	return []*river.PeriodicJob{
		river.NewPeriodicJob(
			river.PeriodicInterval(PurgeInterval),
			func() (river.JobArgs, *river.InsertOpts) {
				return PurgeReadNotificationsArgs{Retention: retention}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: true},
		),
	}
}

// MigrateRiver runs River's built-in schema migrations against the given pool.
// Only call this when DB_DRIVER=postgres.
func MigrateRiver(ctx context.Context, db *pgxpool.Pool) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(db), nil)
	if err != nil {
		return fmt.Errorf("create river migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		return fmt.Errorf("run river migrations: %w", err)
	}
	return nil
}
