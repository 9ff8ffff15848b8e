// Package jobs runs periodic maintenance tasks on a seconds-resolution cron.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/d60-Lab/inkwell/pkg/logger"
)

type Runner struct {
	cron    *cron.Cron
	baseCtx context.Context
}

func New(baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Runner{
		cron:    cron.New(cron.WithSeconds()),
		baseCtx: baseCtx,
	}
}

// Add schedules job under spec. Failures are logged, never retried.
func (r *Runner) Add(name, spec string, job func(context.Context) error) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		start := time.Now()
		if err := job(r.baseCtx); err != nil {
			logger.Warn("cron job failed", zap.String("job", name), zap.Error(err))
			return
		}
		logger.Debug("cron job done", zap.String("job", name), zap.Duration("took", time.Since(start)))
	})
}

// Run executes a scheduled entry immediately.
func (r *Runner) Run(id cron.EntryID) {
	if e := r.cron.Entry(id); e.Valid() {
		e.Job.Run()
	}
}

func (r *Runner) Start() {
	logger.Info("cron started", zap.Int("jobs", len(r.cron.Entries())))
	r.cron.Start()
}

// Stop waits for running jobs to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	logger.Info("cron stopped")
}
