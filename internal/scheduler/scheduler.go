package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// MinInterval is the smallest supported poll interval.
const MinInterval = time.Second

// fixedDelay fires exactly d after the previous firing, without the
// whole-second rounding of cron.Every.
type fixedDelay time.Duration

func (d fixedDelay) Next(t time.Time) time.Time {
	return t.Add(time.Duration(d))
}

// Job is one unit of scheduled work. It must return when ctx is done.
type Job func(ctx context.Context)

type Scheduler struct {
	interval time.Duration
	spec     string
	schedule cron.Schedule
	clock    Clock
	logger   *logrus.Logger
}

type Option func(*Scheduler)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

func NewScheduler(interval time.Duration, logger *logrus.Logger, opts ...Option) (*Scheduler, error) {
	if interval < MinInterval {
		return nil, fmt.Errorf("invalid interval %s: must be at least %s", interval, MinInterval)
	}
	return newScheduler(fixedDelay(interval), logger, opts, func(s *Scheduler) {
		s.interval = interval
		s.spec = interval.String()
	}), nil
}

// NewCronScheduler runs on a standard five-field cron expression or a
// descriptor such as "@hourly" or "@every 5m".
func NewCronScheduler(spec string, logger *logrus.Logger, opts ...Option) (*Scheduler, error) {
	schedule, err := ParseSpec(spec)
	if err != nil {
		return nil, err
	}
	return newScheduler(schedule, logger, opts, func(s *Scheduler) {
		s.spec = spec
	}), nil
}

// ParseSpec parses a cron expression as accepted by NewCronScheduler.
func ParseSpec(spec string) (cron.Schedule, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return schedule, nil
}

func newScheduler(schedule cron.Schedule, logger *logrus.Logger, opts []Option, init func(*Scheduler)) *Scheduler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Scheduler{
		schedule: schedule,
		clock:    realClock{},
		logger:   logger,
	}
	init(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interval is the fixed delay between runs, or zero for cron schedules.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Spec describes the schedule for logs.
func (s *Scheduler) Spec() string {
	return s.spec
}

// Task is a handle on a running repeating job.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop cancels the task and waits for the running job, if any, to return.
func (t *Task) Stop() {
	t.cancel()
	<-t.done
}

// Done is closed once the task has stopped.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Start runs job immediately and then once per interval until ctx is done or
// the task is stopped. Runs never overlap: a job that outlasts the interval
// delays the next run instead of racing it.
func (s *Scheduler) Start(ctx context.Context, job Job) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		s.logger.WithFields(logrus.Fields{
			"schedule": s.spec,
		}).Info("Scheduler started")

		job(ctx)
		next := s.schedule.Next(s.clock.Now())

		for {
			if next.IsZero() {
				// cron returns the zero time for expressions that never match
				s.logger.WithField("schedule", s.spec).Error("Schedule has no next run, stopping")
				return
			}
			timer := s.clock.NewTimer(next.Sub(s.clock.Now()))
			select {
			case <-ctx.Done():
				timer.Stop()
			case fired := <-timer.C():
				if ctx.Err() == nil {
					job(ctx)
					next = s.schedule.Next(fired)
					continue
				}
			}
			s.logger.Info("Scheduler stopped")
			return
		}
	}()

	return t
}
