package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Job is one recurring task.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context)

	mu sync.Mutex
}

// Scheduler drives registered jobs on fixed tickers. A tick that arrives
// while the same job is still running is skipped, never queued.
type Scheduler struct {
	jobs []*Job
	log  *logrus.Logger
	wg   sync.WaitGroup
}

func New(log *logrus.Logger) *Scheduler {
	return &Scheduler{log: log}
}

func (s *Scheduler) Register(name string, interval time.Duration, run func(ctx context.Context)) {
	s.jobs = append(s.jobs, &Job{Name: name, Interval: interval, Run: run})
}

// Start launches one ticker loop per job and blocks until ctx is cancelled
// and every in-flight run has returned.
func (s *Scheduler) Start(ctx context.Context) {
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, job)
	}
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, job *Job) {
	defer s.wg.Done()

	s.log.WithFields(logrus.Fields{
		"job":      job.Name,
		"interval": job.Interval.String(),
	}).Info("job scheduled")

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.WithField("job", job.Name).Info("job loop stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx, job)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, job *Job) {
	if !job.mu.TryLock() {
		s.log.WithField("job", job.Name).Warn("previous run still in progress, skipping tick")
		return
	}
	defer job.mu.Unlock()

	start := time.Now()
	job.Run(ctx)
	s.log.WithFields(logrus.Fields{
		"job":      job.Name,
		"duration": time.Since(start).String(),
	}).Info("job run completed")
}
