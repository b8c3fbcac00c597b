// Package reminder fires notifications for tasks whose reminder time has
// passed. A Scanner polls the task store on an interval and remembers which
// tasks it has already announced for the life of the process.
package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/workbench/pkg/types"
)

// DefaultInterval is the polling period of Run.
const DefaultInterval = 10 * time.Second

// TaskLister is the slice of types.TaskStore the scanner reads.
type TaskLister interface {
	ListTasks(ctx context.Context) ([]types.Task, error)
}

// Notifier announces a due task.
type Notifier interface {
	Notify(ctx context.Context, task types.Task) error
}

// Scanner checks tasks for due reminders.
type Scanner struct {
	tasks    TaskLister
	notifier Notifier
	interval time.Duration
	now      func() time.Time
	loc      *time.Location
	log      zerolog.Logger

	mu    sync.Mutex
	fired map[int64]struct{}
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithInterval sets the polling period. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(s *Scanner) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

// WithLocation sets the zone reminder times are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(s *Scanner) { s.loc = loc }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Scanner) { s.log = log }
}

// NewScanner returns a scanner reading tasks and announcing through n.
func NewScanner(tasks TaskLister, n Notifier, opts ...Option) *Scanner {
	s := &Scanner{
		tasks:    tasks,
		notifier: n,
		interval: DefaultInterval,
		now:      time.Now,
		loc:      time.Local,
		log:      zerolog.Nop(),
		fired:    make(map[int64]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interval returns the polling period.
func (s *Scanner) Interval() time.Duration {
	return s.interval
}

// Scan runs one check and returns how many tasks were announced. Done
// tasks, tasks without both a date and a time, and tasks already fired are
// skipped.
func (s *Scanner) Scan(ctx context.Context) (int, error) {
	tasks, err := s.tasks.ListTasks(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	fired := 0
	for _, task := range tasks {
		if task.Done || !task.HasReminder() || s.hasFired(task.ID) {
			continue
		}
		due, err := task.DueAt(s.loc)
		if err != nil {
			s.log.Warn().Err(err).Int64("task_id", task.ID).
				Str("reminder_date", task.ReminderDate).
				Str("reminder_time", task.ReminderTime).
				Msg("skipping unparseable reminder")
			continue
		}
		if due.After(now) {
			continue
		}
		if err := s.notifier.Notify(ctx, task); err != nil {
			s.log.Error().Err(err).Int64("task_id", task.ID).Msg("notify failed")
			continue
		}
		s.markFired(task.ID)
		fired++
	}
	return fired, nil
}

// Run scans every interval until ctx is cancelled. Scan errors are logged
// and do not stop the loop.
func (s *Scanner) Run(ctx context.Context) error {
	s.log.Info().Dur("interval", s.interval).Msg("reminder scanner started")
	s.scanAndLog(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("reminder scanner stopped")
			return nil
		case <-ticker.C:
			s.scanAndLog(ctx)
		}
	}
}

func (s *Scanner) scanAndLog(ctx context.Context) {
	n, err := s.Scan(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Error().Err(err).Msg("reminder scan failed")
		}
		return
	}
	if n > 0 {
		s.log.Debug().Int("fired", n).Msg("reminders sent")
	}
}

// Forget clears id from the fired set so an edited reminder can fire again.
func (s *Scanner) Forget(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fired, id)
}

// Fired reports whether id has been announced.
func (s *Scanner) Fired(id int64) bool {
	return s.hasFired(id)
}

func (s *Scanner) hasFired(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.fired[id]
	return ok
}

func (s *Scanner) markFired(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fired[id] = struct{}{}
}
