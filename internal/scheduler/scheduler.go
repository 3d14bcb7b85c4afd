package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Recipe_Manager/pkg/logger"
	"github.com/Dias221467/Recipe_Manager/pkg/metrics"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Task is a named unit of background work run on a cron spec such as "@hourly"
// or "0 0 * * *".
type Task struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// Scheduler runs registered tasks in the background. A task never overlaps a
// still-running invocation of itself.
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
	stop context.CancelFunc
}

func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	c := cron.New(cron.WithChain(
		cron.Recover(cron.PrintfLogger(logger.Log)),
		cron.SkipIfStillRunning(cron.PrintfLogger(logger.Log)),
	))
	return &Scheduler{cron: c, ctx: ctx, stop: cancel}
}

// Register adds a task. It fails on an unparseable spec.
func (s *Scheduler) Register(t Task) error {
	if t.Run == nil {
		return fmt.Errorf("task %s has no run function", t.Name)
	}
	_, err := s.cron.AddFunc(t.Spec, func() {
		_ = Execute(s.ctx, t)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule task %s: %w", t.Name, err)
	}
	logger.Log.WithFields(logrus.Fields{"task": t.Name, "spec": t.Spec}).Info("Task scheduled")
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running tasks' context and waits for them to return.
func (s *Scheduler) Stop() {
	s.stop()
	<-s.cron.Stop().Done()
}

// Execute runs a task once with logging and metrics.
func Execute(ctx context.Context, t Task) error {
	timer := metrics.NewTimer()
	err := t.Run(ctx)
	timer.ObserveDuration(metrics.JobDuration.WithLabelValues(t.Name))

	if err != nil {
		metrics.JobRunsTotal.WithLabelValues(t.Name, "failure").Inc()
		logrus.WithError(err).Errorf("%s failed", t.Name)
		return err
	}

	metrics.JobRunsTotal.WithLabelValues(t.Name, "success").Inc()
	logger.Log.WithFields(logrus.Fields{
		"task":     t.Name,
		"duration": timer.Duration().Round(time.Millisecond).String(),
	}).Info("Task completed")
	return nil
}
