package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/workbench/pkg/types"
)

func TestTasks_Lifecycle(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	store := b.Tasks()

	task := &types.Task{Title: "  Renew passport ", Description: " bring photos \n", ReminderDate: "2026-11-01", ReminderTime: "09:00"}
	id, err := store.AddTask(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, id, task.ID)

	got, err := store.GetTask(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Renew passport", got.Title)
	assert.Equal(t, "bring photos", got.Description)
	assert.False(t, got.Done)
	assert.Equal(t, "2026-11-01", got.ReminderDate)
	assert.Equal(t, "09:00", got.ReminderTime)

	require.NoError(t, store.SetTaskDone(ctx, id, true))
	got, err = store.GetTask(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Done)

	got.Title = "Renew passport today"
	got.ReminderTime = ""
	require.NoError(t, store.UpdateTask(ctx, got))
	got, err = store.GetTask(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Renew passport today", got.Title)
	assert.Empty(t, got.ReminderTime)
	assert.True(t, got.Done, "update leaves done untouched")

	require.NoError(t, store.DeleteTask(ctx, id))
	_, err = store.GetTask(ctx, id)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestTasks_ReminderStoredAsNull(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	id, err := b.Tasks().AddTask(ctx, &types.Task{Title: "no reminder", ReminderDate: "2026-01-01"})
	require.NoError(t, err)

	var isNull bool
	require.NoError(t, b.db.QueryRow("SELECT reminder_time IS NULL FROM tasks WHERE id = ?", id).Scan(&isNull))
	assert.True(t, isNull)
}

func TestTasks_Validation(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	store := b.Tasks()

	_, err := store.AddTask(ctx, &types.Task{Title: "   "})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = store.AddTask(ctx, &types.Task{Title: "bad date", ReminderDate: "tomorrow"})
	assert.ErrorIs(t, err, types.ErrValidation)

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks, "invalid tasks are never persisted")
}

func TestTasks_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	store := b.Tasks()

	for _, title := range []string{"first", "second", "third"} {
		_, err := store.AddTask(ctx, &types.Task{Title: title})
		require.NoError(t, err)
	}

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "third", tasks[0].Title)
	assert.Equal(t, "first", tasks[2].Title)
}

func TestTasks_MissingIDs(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	store := b.Tasks()

	assert.ErrorIs(t, store.SetTaskDone(ctx, 7, true), types.ErrNotFound)
	assert.ErrorIs(t, store.DeleteTask(ctx, 7), types.ErrNotFound)
	assert.ErrorIs(t, store.UpdateTask(ctx, &types.Task{ID: 7, Title: "x"}), types.ErrNotFound)
	assert.ErrorIs(t, store.DeleteTask(ctx, 0), types.ErrInvalidID)
}
