package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/mesh-intelligence/workbench/pkg/types"
)

// Backup file names, one JSONL file per tool.
const (
	profilesFile = "profiles.jsonl"
	tasksFile    = "tasks.jsonl"
	notesFile    = "notes.jsonl"
)

// BackupSummary counts the records a Dump wrote or a Restore loaded.
type BackupSummary struct {
	Profiles int `json:"profiles"`
	Tasks    int `json:"tasks"`
	Notes    int `json:"notes"`
	// Skipped counts restore records that were rejected: profile names
	// already taken and records failing validation.
	Skipped int `json:"skipped"`
}

// Dump writes every profile (with children), task and note to JSONL files in
// dir, creating dir if needed.
func (b *Backend) Dump(ctx context.Context, dir string) (BackupSummary, error) {
	var sum BackupSummary
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return sum, persistErr("create backup dir", err)
	}

	refs, err := b.profiles.ListProfileNames(ctx)
	if err != nil {
		return sum, err
	}
	profiles := make([]*types.Profile, 0, len(refs))
	for _, ref := range refs {
		p, err := b.profiles.LoadProfile(ctx, ref.ID)
		if err != nil {
			return sum, err
		}
		profiles = append(profiles, p)
	}
	tasks, err := b.tasks.ListTasks(ctx)
	if err != nil {
		return sum, err
	}
	notes, err := b.notes.ListNotes(ctx)
	if err != nil {
		return sum, err
	}

	// Oldest first, so a restore recreates ids in the original order.
	slices.Reverse(tasks)
	slices.Reverse(notes)

	if err := writeJSONL(filepath.Join(dir, profilesFile), profiles); err != nil {
		return sum, persistErr("write profiles backup", err)
	}
	if err := writeJSONL(filepath.Join(dir, tasksFile), tasks); err != nil {
		return sum, persistErr("write tasks backup", err)
	}
	if err := writeJSONL(filepath.Join(dir, notesFile), notes); err != nil {
		return sum, persistErr("write notes backup", err)
	}

	sum.Profiles, sum.Tasks, sum.Notes = len(profiles), len(tasks), len(notes)
	b.log.Info().Str("dir", dir).Int("profiles", sum.Profiles).Int("tasks", sum.Tasks).
		Int("notes", sum.Notes).Msg("backup written")
	return sum, nil
}

// Restore adds the records of a Dump in dir to the store. Records get new
// ids. Profiles whose name is already taken and records that fail validation
// are skipped; missing files are treated as empty.
func (b *Backend) Restore(ctx context.Context, dir string) (BackupSummary, error) {
	var sum BackupSummary

	err := eachRecord(filepath.Join(dir, profilesFile), func(raw json.RawMessage) error {
		var p types.Profile
		if err := json.Unmarshal(raw, &p); err != nil {
			sum.Skipped++
			return nil
		}
		p.ID = 0
		_, err := b.profiles.CreateProfile(ctx, &p)
		return b.countRestored(err, &sum.Profiles, &sum.Skipped, "profile")
	})
	if err != nil {
		return sum, err
	}

	err = eachRecord(filepath.Join(dir, tasksFile), func(raw json.RawMessage) error {
		var t types.Task
		if err := json.Unmarshal(raw, &t); err != nil {
			sum.Skipped++
			return nil
		}
		done := t.Done
		id, err := b.tasks.AddTask(ctx, &t)
		if err == nil && done {
			err = b.tasks.SetTaskDone(ctx, id, true)
		}
		return b.countRestored(err, &sum.Tasks, &sum.Skipped, "task")
	})
	if err != nil {
		return sum, err
	}

	err = eachRecord(filepath.Join(dir, notesFile), func(raw json.RawMessage) error {
		var n types.Note
		if err := json.Unmarshal(raw, &n); err != nil {
			sum.Skipped++
			return nil
		}
		_, err := b.notes.AddNote(ctx, &n)
		return b.countRestored(err, &sum.Notes, &sum.Skipped, "note")
	})
	if err != nil {
		return sum, err
	}

	b.log.Info().Str("dir", dir).Int("profiles", sum.Profiles).Int("tasks", sum.Tasks).
		Int("notes", sum.Notes).Int("skipped", sum.Skipped).Msg("backup restored")
	return sum, nil
}

// countRestored tallies one restore attempt. User errors skip the record;
// anything else aborts the restore.
func (b *Backend) countRestored(err error, restored, skipped *int, kind string) error {
	switch {
	case err == nil:
		*restored++
		return nil
	case types.IsUserError(err):
		b.log.Warn().Err(err).Str("kind", kind).Msg("skipping backup record")
		*skipped++
		return nil
	default:
		return err
	}
}

func eachRecord(path string, fn func(json.RawMessage) error) error {
	records, err := readJSONL(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return persistErr("read backup", err)
	}
	for _, rec := range records {
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}
