// Package session holds the per-process state the tools share: the
// attached store, which profile is loaded in the CV builder, the calculator
// and the reminder scanner.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/workbench/internal/calc"
	"github.com/mesh-intelligence/workbench/internal/reminder"
	"github.com/mesh-intelligence/workbench/pkg/types"
)

// Exporter writes a profile document to a path.
type Exporter interface {
	Export(p *types.Profile, path string) error
}

// Session is one run of the application.
type Session struct {
	ID uuid.UUID

	store    types.Workbench
	exporter Exporter
	calc     *calc.Calculator
	scanner  *reminder.Scanner
	log      zerolog.Logger

	notifier    reminder.Notifier
	scannerOpts []reminder.Option

	mu         sync.Mutex
	current    int64
	hasCurrent bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the base logger. Every line carries the session id.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithNotifier sets where due reminders are announced.
func WithNotifier(n reminder.Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithScannerOptions passes options through to the reminder scanner.
func WithScannerOptions(opts ...reminder.Option) Option {
	return func(s *Session) { s.scannerOpts = append(s.scannerOpts, opts...) }
}

// New starts a session over an attached store. Exports go through exporter.
func New(store types.Workbench, exporter Exporter, opts ...Option) (*Session, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("session id: %w", err)
	}

	s := &Session{
		ID:       id,
		store:    store,
		exporter: exporter,
		calc:     calc.New(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("session", id.String()).Logger()
	if s.notifier == nil {
		s.notifier = reminder.LogNotifier{Log: s.log}
	}
	scannerOpts := append([]reminder.Option{reminder.WithLogger(s.log)}, s.scannerOpts...)
	s.scanner = reminder.NewScanner(store.Tasks(), s.notifier, scannerOpts...)
	return s, nil
}

// Logger returns the session logger.
func (s *Session) Logger() zerolog.Logger { return s.log }

// Store returns the attached store.
func (s *Session) Store() types.Workbench { return s.store }

// Calculator returns the session calculator.
func (s *Session) Calculator() *calc.Calculator { return s.calc }

// Scanner returns the session reminder scanner.
func (s *Session) Scanner() *reminder.Scanner { return s.scanner }

// CurrentProfileID reports which profile is loaded, if any.
func (s *Session) CurrentProfileID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.hasCurrent
}

func (s *Session) setCurrent(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current, s.hasCurrent = id, true
}

// ClearCurrent forgets the loaded profile, as when the form is cleared.
func (s *Session) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current, s.hasCurrent = 0, false
}

// ListProfiles returns the profile picker entries.
func (s *Session) ListProfiles(ctx context.Context) ([]types.ProfileRef, error) {
	return s.store.Profiles().ListProfileNames(ctx)
}

// LoadProfile loads a profile and makes it current.
func (s *Session) LoadProfile(ctx context.Context, id int64) (*types.Profile, error) {
	p, err := s.store.Profiles().LoadProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	s.setCurrent(id)
	s.log.Debug().Int64("profile_id", id).Msg("profile loaded")
	return p, nil
}

// LoadProfileByName resolves name and loads that profile.
func (s *Session) LoadProfileByName(ctx context.Context, name string) (*types.Profile, error) {
	id, err := s.store.Profiles().FindProfileByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.LoadProfile(ctx, id)
}

// SaveAsNew stores p under name and makes the new profile current.
func (s *Session) SaveAsNew(ctx context.Context, name string, p *types.Profile) (int64, error) {
	p.ProfileName = name
	id, err := s.store.Profiles().CreateProfile(ctx, p)
	if err != nil {
		return 0, err
	}
	s.setCurrent(id)
	s.log.Info().Int64("profile_id", id).Str("profile_name", p.ProfileName).Msg("profile created")
	return id, nil
}

// SaveCurrent overwrites the loaded profile with p. Returns
// ErrNoCurrentProfile when nothing is loaded.
func (s *Session) SaveCurrent(ctx context.Context, p *types.Profile) error {
	id, ok := s.CurrentProfileID()
	if !ok {
		return types.ErrNoCurrentProfile
	}
	if err := s.store.Profiles().UpdateProfile(ctx, id, p); err != nil {
		return err
	}
	p.ID = id
	s.log.Info().Int64("profile_id", id).Msg("profile updated")
	return nil
}

// DeleteCurrent removes the loaded profile and clears the selection.
func (s *Session) DeleteCurrent(ctx context.Context) error {
	id, ok := s.CurrentProfileID()
	if !ok {
		return types.ErrNoCurrentProfile
	}
	if err := s.store.Profiles().DeleteProfile(ctx, id); err != nil {
		return err
	}
	s.ClearCurrent()
	s.log.Info().Int64("profile_id", id).Msg("profile deleted")
	return nil
}

// ExportProfile checks p against the export gate, photo included, and
// renders it to path.
func (s *Session) ExportProfile(p *types.Profile, path string) error {
	if err := p.ValidateForExport(); err != nil {
		return err
	}
	return s.exporter.Export(p, path)
}

// AddTask stores a new task.
func (s *Session) AddTask(ctx context.Context, t *types.Task) (int64, error) {
	return s.store.Tasks().AddTask(ctx, t)
}

// UpdateTask saves t and lets its reminder fire again.
func (s *Session) UpdateTask(ctx context.Context, t *types.Task) error {
	if err := s.store.Tasks().UpdateTask(ctx, t); err != nil {
		return err
	}
	s.scanner.Forget(t.ID)
	return nil
}

// DeleteTask removes the task and its fired marker.
func (s *Session) DeleteTask(ctx context.Context, id int64) error {
	if err := s.store.Tasks().DeleteTask(ctx, id); err != nil {
		return err
	}
	s.scanner.Forget(id)
	return nil
}
