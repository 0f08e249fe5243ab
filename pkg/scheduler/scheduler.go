// Package scheduler runs the bot's background jobs on robfig/cron.
// A job never overlaps with itself, and a panic inside a job is recovered
// and logged instead of killing the scheduler.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/FloppaBotGo/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Job is a named periodic task
type Job struct {
	Name string
	// Spec is a cron spec or descriptor such as "@every 2m"
	Spec string
	// RunOnStart also runs the job once right after Start
	RunOnStart bool
	Run        func(ctx context.Context)
}

// Scheduler owns the background jobs and their lifetime
type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	jobs    []entry
	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

// entry is a job with its wrapped runner. Cron ticks and the start run share
// the runner so they are skipped while another run is in progress.
type entry struct {
	Job
	runner cron.Job
}

// cronLogger adapts the bot logger to cron.Logger
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug(formatKV(msg, keysAndValues), "Scheduler")
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error(fmt.Sprintf("%s: %v", formatKV(msg, keysAndValues), err), "Scheduler")
}

func formatKV(msg string, kv []interface{}) string {
	if len(kv) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	return b.String()
}

// New creates a scheduler evaluating specs in UTC
func New() *Scheduler {
	l := cronLogger{}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(l),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers a job. The spec is validated immediately.
func (s *Scheduler) Add(job Job) error {
	if job.Run == nil {
		return fmt.Errorf("job %q has no Run function", job.Name)
	}

	run := job.Run
	l := cronLogger{}
	runner := cron.NewChain(cron.Recover(l), cron.SkipIfStillRunning(l)).Then(cron.FuncJob(func() {
		if s.ctx.Err() != nil {
			return
		}
		run(s.ctx)
	}))
	if _, err := s.cron.AddJob(job.Spec, runner); err != nil {
		return fmt.Errorf("job %q: invalid schedule %q: %w", job.Name, job.Spec, err)
	}

	s.mu.Lock()
	s.jobs = append(s.jobs, entry{Job: job, runner: runner})
	s.mu.Unlock()

	logger.System(fmt.Sprintf("Job '%s' scheduled (%s)", job.Name, job.Spec), "Scheduler")
	return nil
}

// Start runs the cron loop and the jobs marked RunOnStart
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	s.cron.Start()

	for _, e := range s.jobs {
		if !e.RunOnStart {
			continue
		}
		runner := e.runner
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			runner.Run()
		}()
	}

	logger.Success(fmt.Sprintf("Scheduler started with %d jobs", len(s.jobs)), "Scheduler")
}

// Stop cancels the job context and waits for running jobs until ctx expires
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	cronDone := s.cron.Stop().Done()

	startDone := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(startDone)
	}()

	for _, done := range []<-chan struct{}{cronDone, startDone} {
		select {
		case <-done:
		case <-ctx.Done():
			return fmt.Errorf("scheduler stop: %w", ctx.Err())
		}
	}

	logger.System("Scheduler stopped", "Scheduler")
	return nil
}

// Jobs returns the registered job names
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for _, job := range s.jobs {
		names = append(names, job.Name)
	}
	return names
}
