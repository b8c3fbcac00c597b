// Package sqlite implements the workbench store on a single SQLite file.
// The schema is managed by embedded goose migrations; every multi-statement
// mutation runs in one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/workbench/pkg/types"
)

// Compile-time interface check.
var _ types.Workbench = (*Backend)(nil)

// Backend implements the Workbench interface using SQLite.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	log      zerolog.Logger

	profiles *profilesTable
	tasks    *tasksTable
	notes    *notesTable
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for migrations and transaction failures.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Backend) {
		b.log = log.With().Str("component", "store").Logger()
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	b.profiles = &profilesTable{backend: b}
	b.tasks = &tasksTable{backend: b}
	b.notes = &notesTable{backend: b}
	return b
}

// dsn enables foreign keys on every pooled connection so ON DELETE CASCADE
// is honored by the store itself.
func dsn(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, opens app_data.db and migrates it.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, types.DatabaseFile)
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return fmt.Errorf("open %s: %w", dbPath, err)
	}

	if err := migrate(context.Background(), db, b.log); err != nil {
		db.Close()
		return err
	}
	// SQLite allows one writer; a single connection keeps writers serialized.
	db.SetMaxOpenConns(1)

	b.db = db
	b.config = config
	b.attached = true

	b.log.Debug().Str("path", dbPath).Msg("store attached")
	return nil
}

// Detach closes the SQLite connection. After Detach, all operations return
// ErrDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	return nil
}

// Profiles returns the profile aggregate store.
func (b *Backend) Profiles() types.ProfileStore { return b.profiles }

// Tasks returns the to-do store.
func (b *Backend) Tasks() types.TaskStore { return b.tasks }

// Notes returns the notes store.
func (b *Backend) Notes() types.NoteStore { return b.notes }

// conn returns the open database or ErrDetached.
func (b *Backend) conn() (*sql.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}
	return b.db, nil
}
