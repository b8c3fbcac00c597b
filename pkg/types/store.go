package types

import "context"

// Workbench is the storage backend shared by every tool. Callers attach to a
// backend, use the typed stores, and detach when done.
type Workbench interface {
	// Attach opens the store described by config, creating DataDir and
	// migrating the schema as needed. Returns ErrAlreadyAttached if called
	// while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	Detach() error

	Profiles() ProfileStore
	Tasks() TaskStore
	Notes() NoteStore
}

// ProfileStore persists profile aggregates. Every mutation runs in one
// transaction: the profile and all of its children are written, or nothing is.
type ProfileStore interface {
	// ListProfileNames returns every profile id and name, sorted by name.
	ListProfileNames(ctx context.Context) ([]ProfileRef, error)

	// FindProfileByName returns the id of the profile with exactly this name.
	// Returns ErrNotFound if there is none.
	FindProfileByName(ctx context.Context, name string) (int64, error)

	// LoadProfile returns the profile with its children.
	// Returns ErrNotFound if no profile has that id.
	LoadProfile(ctx context.Context, id int64) (*Profile, error)

	// CreateProfile validates and inserts a new profile under p.ProfileName.
	// Returns ErrDuplicateName if the name is taken.
	CreateProfile(ctx context.Context, p *Profile) (int64, error)

	// UpdateProfile replaces the scalar fields and both child collections.
	// The profile name is not changed.
	UpdateProfile(ctx context.Context, id int64, p *Profile) error

	// DeleteProfile removes the profile and all of its children.
	DeleteProfile(ctx context.Context, id int64) error
}

// TaskStore persists to-do items.
type TaskStore interface {
	AddTask(ctx context.Context, t *Task) (int64, error)
	GetTask(ctx context.Context, id int64) (*Task, error)
	// ListTasks returns all tasks, newest first.
	ListTasks(ctx context.Context) ([]Task, error)
	UpdateTask(ctx context.Context, t *Task) error
	SetTaskDone(ctx context.Context, id int64, done bool) error
	DeleteTask(ctx context.Context, id int64) error
}

// NoteStore persists notes.
type NoteStore interface {
	AddNote(ctx context.Context, n *Note) (int64, error)
	GetNote(ctx context.Context, id int64) (*Note, error)
	// ListNotes returns all notes, newest first.
	ListNotes(ctx context.Context) ([]Note, error)
	// SearchNotes returns notes whose title or content contains query, newest first.
	SearchNotes(ctx context.Context, query string) ([]Note, error)
	UpdateNote(ctx context.Context, n *Note) error
	DeleteNote(ctx context.Context, id int64) error
}
