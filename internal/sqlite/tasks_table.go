package sqlite

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/mesh-intelligence/workbench/pkg/types"
)

var _ types.TaskStore = (*tasksTable)(nil)

var taskColumns = []string{"id", "title", "description", "done", "reminder_date", "reminder_time"}

// tasksTable persists to-do items in the tasks table.
type tasksTable struct {
	backend *Backend
}

// AddTask trims and validates t, then inserts it as not done.
func (tt *tasksTable) AddTask(ctx context.Context, t *types.Task) (int64, error) {
	if t == nil {
		return 0, &types.ValidationError{Missing: []string{"Title"}}
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return 0, err
	}
	db, err := tt.backend.conn()
	if err != nil {
		return 0, err
	}

	query, args, err := sq.Insert(tableTasks).
		Columns("title", "description", "reminder_date", "reminder_time").
		Values(t.Title, t.Description, nullable(t.ReminderDate), nullable(t.ReminderTime)).
		ToSql()
	if err != nil {
		return 0, persistErr("build task insert", err)
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, persistErr("insert task", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, persistErr("insert task", err)
	}
	t.ID = id
	t.Done = false
	return id, nil
}

// GetTask returns the task with the given id.
func (tt *tasksTable) GetTask(ctx context.Context, id int64) (*types.Task, error) {
	if id <= 0 {
		return nil, types.ErrInvalidID
	}
	db, err := tt.backend.conn()
	if err != nil {
		return nil, err
	}
	query, args, err := sq.Select(taskColumns...).From(tableTasks).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, persistErr("build task get", err)
	}
	t, err := scanTask(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, persistErr("get task", err)
	}
	return t, nil
}

// ListTasks returns all tasks, newest first.
func (tt *tasksTable) ListTasks(ctx context.Context) ([]types.Task, error) {
	db, err := tt.backend.conn()
	if err != nil {
		return nil, err
	}
	query, args, err := sq.Select(taskColumns...).From(tableTasks).OrderBy("id DESC").ToSql()
	if err != nil {
		return nil, persistErr("build task list", err)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistErr("list tasks", err)
	}
	defer rows.Close()

	var tasks []types.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, persistErr("scan task", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list tasks", err)
	}
	return tasks, nil
}

// UpdateTask rewrites the title, description and reminder of t.ID. The done
// flag is left as stored; use SetTaskDone to change it.
func (tt *tasksTable) UpdateTask(ctx context.Context, t *types.Task) error {
	if t == nil || t.ID <= 0 {
		return types.ErrInvalidID
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return err
	}
	db, err := tt.backend.conn()
	if err != nil {
		return err
	}
	query, args, err := sq.Update(tableTasks).
		Set("title", t.Title).
		Set("description", t.Description).
		Set("reminder_date", nullable(t.ReminderDate)).
		Set("reminder_time", nullable(t.ReminderTime)).
		Where(sq.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return persistErr("build task update", err)
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return persistErr("update task", err)
	}
	return persistErr("update task", requireRow(res))
}

// SetTaskDone sets or clears the done flag.
func (tt *tasksTable) SetTaskDone(ctx context.Context, id int64, done bool) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	db, err := tt.backend.conn()
	if err != nil {
		return err
	}
	flag := 0
	if done {
		flag = 1
	}
	query, args, err := sq.Update(tableTasks).Set("done", flag).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return persistErr("build task status", err)
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return persistErr("update task status", err)
	}
	return persistErr("update task status", requireRow(res))
}

// DeleteTask removes the task with the given id.
func (tt *tasksTable) DeleteTask(ctx context.Context, id int64) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	db, err := tt.backend.conn()
	if err != nil {
		return err
	}
	query, args, err := sq.Delete(tableTasks).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return persistErr("build task delete", err)
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return persistErr("delete task", err)
	}
	return persistErr("delete task", requireRow(res))
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*types.Task, error) {
	var (
		t                        types.Task
		description, date, clock sql.NullString
		done                     int
	)
	if err := row.Scan(&t.ID, &t.Title, &description, &done, &date, &clock); err != nil {
		return nil, err
	}
	t.Description = description.String
	t.Done = done != 0
	t.ReminderDate = date.String
	t.ReminderTime = clock.String
	return &t, nil
}
