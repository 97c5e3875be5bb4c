// Package cron runs plugin-registered scheduled tasks.
//
// Expressions use the standard five fields with an optional leading seconds
// field, plus the robfig descriptors:
//
//	"1 8 * * *"        08:01 every day
//	"*/5 * * * * *"    every five seconds
//	"@every 1m"        every minute from start
package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	robfigcron "github.com/robfig/cron/v3"

	"github.com/wwcxin/cyberbot-new/internal/plugin"
)

var parser = robfigcron.NewParser(
	robfigcron.SecondOptional | robfigcron.Minute | robfigcron.Hour |
		robfigcron.Dom | robfigcron.Month | robfigcron.Dow | robfigcron.Descriptor,
)

// ErrUnknownEntry is returned by Trigger for ids that were never registered.
var ErrUnknownEntry = errors.New("cron: unknown entry")

// Entry describes one registered schedule.
type Entry struct {
	ID       int
	Plugin   string
	Spec     string
	Next     time.Time
	Prev     time.Time
	Runs     int64
	Failures int64
}

type job struct {
	plugin   string
	spec     string
	fn       plugin.CronFunc
	runs     atomic.Int64
	failures atomic.Int64
}

// Scheduler owns one robfig cron instance. A failing or panicking task is
// logged and stays scheduled.
type Scheduler struct {
	robfig *robfigcron.Cron
	loc    *time.Location

	mu   sync.Mutex
	jobs map[robfigcron.EntryID]*job
	ctx  context.Context
}

// NewScheduler creates a scheduler evaluating expressions in loc
// (time.Local when nil).
func NewScheduler(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		robfig: robfigcron.New(robfigcron.WithLocation(loc), robfigcron.WithParser(parser)),
		loc:    loc,
		jobs:   make(map[robfigcron.EntryID]*job),
		ctx:    context.Background(),
	}
}

// Register schedules fn for owner on spec.
func (s *Scheduler) Register(owner, spec string, fn plugin.CronFunc) (int, error) {
	if fn == nil {
		return 0, fmt.Errorf("cron: nil task for %s", owner)
	}
	sched, err := parser.Parse(spec)
	if err != nil {
		return 0, fmt.Errorf("cron: invalid expression %q: %w", spec, err)
	}

	j := &job{plugin: owner, spec: spec, fn: fn}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.robfig.Schedule(sched, robfigcron.FuncJob(func() { s.execute(s.baseContext(), j) }))
	s.jobs[id] = j
	return int(id), nil
}

// Load calls p.Crons once and registers every schedule it declares.
// Invalid expressions are logged and skipped. It returns how many were
// registered.
func (s *Scheduler) Load(p *plugin.Plugin) int {
	if p == nil || p.Crons == nil {
		return 0
	}
	n := 0
	p.Crons(func(spec string, fn plugin.CronFunc) {
		if _, err := s.Register(p.Name, spec, fn); err != nil {
			slog.Warn("cron: invalid cron expression", "plugin", p.Name, "expr", spec, "err", err)
			return
		}
		n++
	})
	if n > 0 {
		slog.Info("cron: plugin schedules registered", "plugin", p.Name, "count", n)
	}
	return n
}

// Entries lists registered schedules ordered by id.
func (s *Scheduler) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.jobs))
	for _, e := range s.robfig.Entries() {
		j, ok := s.jobs[e.ID]
		if !ok {
			continue
		}
		out = append(out, Entry{
			ID:       int(e.ID),
			Plugin:   j.plugin,
			Spec:     j.spec,
			Next:     e.Next,
			Prev:     e.Prev,
			Runs:     j.runs.Load(),
			Failures: j.failures.Load(),
		})
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

// Trigger runs one entry immediately on the calling goroutine.
func (s *Scheduler) Trigger(ctx context.Context, id int) error {
	s.mu.Lock()
	j, ok := s.jobs[robfigcron.EntryID(id)]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownEntry, id)
	}
	s.execute(ctx, j)
	return nil
}

// Start runs the scheduler and blocks until ctx is cancelled, then waits for
// running tasks to return.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	n := len(s.jobs)
	s.mu.Unlock()

	s.robfig.Start()
	slog.Info("cron: started", "jobs", n, "location", s.loc.String())

	<-ctx.Done()

	<-s.robfig.Stop().Done()
	slog.Info("cron: stopped")
	return ctx.Err()
}

func (s *Scheduler) baseContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

func (s *Scheduler) execute(ctx context.Context, j *job) {
	j.runs.Add(1)
	slog.Debug("cron: executing job", "plugin", j.plugin, "expr", j.spec)

	defer func() {
		if r := recover(); r != nil {
			j.failures.Add(1)
			slog.Error("cron: job panicked",
				"plugin", j.plugin,
				"expr", j.spec,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	if err := j.fn(ctx); err != nil {
		j.failures.Add(1)
		slog.Error("cron: job failed", "plugin", j.plugin, "expr", j.spec, "err", err)
	}
}
