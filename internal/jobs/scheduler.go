// Package jobs runs the periodic maintenance tasks.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/BruksfildServices01/student-teacher-portal/internal/journal"
)

type Sweeper interface {
	Sweep(ctx context.Context, olderThan time.Duration) (journal.Report, error)
}

type Exporter interface {
	Export(ctx context.Context) ([]string, error)
}

// Scheduler wraps a cron runner. Jobs skip a tick while the previous run
// is still going.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		timeout: 5 * time.Minute,
	}
}

func (s *Scheduler) AddReconcile(schedule string, sw Sweeper, grace time.Duration) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		ReconcileOnce(ctx, sw, grace)
	})
	return err
}

func (s *Scheduler) AddBackup(schedule string, e Exporter) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, err := e.Export(ctx); err != nil {
			log.Printf("jobs: backup failed: %v", err)
		}
	})
	return err
}

// ReconcileOnce runs a single sweep and logs repairs.
func ReconcileOnce(ctx context.Context, sw Sweeper, grace time.Duration) journal.Report {
	rep, err := sw.Sweep(ctx, grace)
	if err != nil {
		log.Printf("jobs: reconcile failed: %v", err)
		return rep
	}
	if rep.Scanned > 0 {
		log.Printf("jobs: reconcile scanned=%d repaired=%d failed=%d", rep.Scanned, rep.Repaired, rep.Failed)
	}
	return rep
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("jobs: %d scheduled", len(s.cron.Entries()))
}

// Stop waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
