package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/mesh-intelligence/workbench/pkg/types"
)

var _ types.NoteStore = (*notesTable)(nil)

// notesTable persists notes in the notes table.
type notesTable struct {
	backend *Backend
}

// AddNote trims and validates n, then inserts it.
func (nt *notesTable) AddNote(ctx context.Context, n *types.Note) (int64, error) {
	if n == nil {
		return 0, &types.ValidationError{Missing: []string{"Title"}}
	}
	n.Normalize()
	if err := n.Validate(); err != nil {
		return 0, err
	}
	db, err := nt.backend.conn()
	if err != nil {
		return 0, err
	}
	query, args, err := sq.Insert(tableNotes).Columns("title", "content").Values(n.Title, n.Content).ToSql()
	if err != nil {
		return 0, persistErr("build note insert", err)
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, persistErr("insert note", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, persistErr("insert note", err)
	}
	n.ID = id
	return id, nil
}

// GetNote returns the note with the given id.
func (nt *notesTable) GetNote(ctx context.Context, id int64) (*types.Note, error) {
	if id <= 0 {
		return nil, types.ErrInvalidID
	}
	db, err := nt.backend.conn()
	if err != nil {
		return nil, err
	}
	query, args, err := sq.Select("id", "title", "content").From(tableNotes).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, persistErr("build note get", err)
	}
	var n types.Note
	err = db.QueryRowContext(ctx, query, args...).Scan(&n.ID, &n.Title, &n.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, persistErr("get note", err)
	}
	return &n, nil
}

// ListNotes returns all notes, newest first.
func (nt *notesTable) ListNotes(ctx context.Context) ([]types.Note, error) {
	return nt.selectNotes(ctx, sq.Select("id", "title", "content").From(tableNotes))
}

// SearchNotes matches query as a literal substring of title or content with
// LIKE, so the match is case-insensitive for ASCII. '%' and '_' in query match
// only themselves.
func (nt *notesTable) SearchNotes(ctx context.Context, query string) ([]types.Note, error) {
	pattern := "%" + likeEscaper.Replace(query) + "%"
	return nt.selectNotes(ctx, sq.Select("id", "title", "content").
		From(tableNotes).
		Where(sq.Or{
			sq.Expr("title LIKE ? ESCAPE '\\'", pattern),
			sq.Expr("content LIKE ? ESCAPE '\\'", pattern),
		}))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (nt *notesTable) selectNotes(ctx context.Context, b sq.SelectBuilder) ([]types.Note, error) {
	db, err := nt.backend.conn()
	if err != nil {
		return nil, err
	}
	query, args, err := b.OrderBy("id DESC").ToSql()
	if err != nil {
		return nil, persistErr("build note query", err)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistErr("query notes", err)
	}
	defer rows.Close()

	var notes []types.Note
	for rows.Next() {
		var n types.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content); err != nil {
			return nil, persistErr("scan note", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("query notes", err)
	}
	return notes, nil
}

// UpdateNote rewrites the title and content of n.ID.
func (nt *notesTable) UpdateNote(ctx context.Context, n *types.Note) error {
	if n == nil || n.ID <= 0 {
		return types.ErrInvalidID
	}
	n.Normalize()
	if err := n.Validate(); err != nil {
		return err
	}
	db, err := nt.backend.conn()
	if err != nil {
		return err
	}
	query, args, err := sq.Update(tableNotes).
		Set("title", n.Title).
		Set("content", n.Content).
		Where(sq.Eq{"id": n.ID}).
		ToSql()
	if err != nil {
		return persistErr("build note update", err)
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return persistErr("update note", err)
	}
	return persistErr("update note", requireRow(res))
}

// DeleteNote removes the note with the given id.
func (nt *notesTable) DeleteNote(ctx context.Context, id int64) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	db, err := nt.backend.conn()
	if err != nil {
		return err
	}
	query, args, err := sq.Delete(tableNotes).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return persistErr("build note delete", err)
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return persistErr("delete note", err)
	}
	return persistErr("delete note", requireRow(res))
}
