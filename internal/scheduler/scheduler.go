// Package scheduler runs the periodic table lifecycle jobs.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type TableLifecycle interface {
	StartDueTables(ctx context.Context) (int, error)
	CompleteEndedTables(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron   *cron.Cron
	tables TableLifecycle
}

func New(tables TableLifecycle) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		tables: tables,
	}
}

// Register adds the lifecycle job on the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.RunLifecycle); err != nil {
		return fmt.Errorf("s.cron.AddFunc(%q) -> %w", spec, err)
	}
	return nil
}

// RunLifecycle starts tables whose window began and completes the ones whose
// window ended.
func (s *Scheduler) RunLifecycle() {
	ctx := context.Background()

	started, err := s.tables.StartDueTables(ctx)
	if err != nil {
		zap.L().Error("starting due tables", zap.Error(err))
	}
	completed, err := s.tables.CompleteEndedTables(ctx)
	if err != nil {
		zap.L().Error("completing ended tables", zap.Error(err))
	}

	if started > 0 || completed > 0 {
		zap.L().Info("table lifecycle run", zap.Int("started", started), zap.Int("completed", completed))
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
