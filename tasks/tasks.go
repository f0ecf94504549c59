package tasks

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/OpNop/TINY-API/service"
)

// Task is one unit of scheduled background work. Run is expected to be
// idempotent; the runner may invoke it again after a partial failure.
type Task interface {
	Name() string
	Run(ctx context.Context) error
}

// Runner executes a fixed set of tasks sequentially on an interval. A cycle
// never overlaps with the previous one and the whole cycle is skipped when
// the game API is unreachable.
type Runner struct {
	tasks    []Task
	gw2      service.GW2Client
	interval time.Duration
}

// NewRunner creates a runner over a static task list
func NewRunner(gw2Client service.GW2Client, interval time.Duration, tasks ...Task) *Runner {
	return &Runner{
		tasks:    tasks,
		gw2:      gw2Client,
		interval: interval,
	}
}

// Start runs one cycle immediately, then one per interval tick until the
// context is cancelled.
func (r *Runner) Start(ctx context.Context) {
	r.runCycle(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Task runner stopped")
			return
		case <-ticker.C:
			r.runCycle(ctx)
		}
	}
}

func (r *Runner) runCycle(ctx context.Context) {
	// Liveness check first, a down API would fail every task anyway
	if _, err := r.gw2.Build(ctx); err != nil {
		logrus.WithError(err).Warn("Game API unreachable, skipping task cycle")
		return
	}

	for _, task := range r.tasks {
		log := logrus.WithField("task", task.Name())
		start := time.Now()

		if err := task.Run(ctx); err != nil {
			log.WithError(err).Error("Task failed")
			continue
		}
		log.WithField("duration", time.Since(start).Round(time.Millisecond)).Debug("Task finished")
	}
}
