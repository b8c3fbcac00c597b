package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/mesh-intelligence/workbench/pkg/types"
)

var _ types.ProfileStore = (*profilesTable)(nil)

// profileColumns is the scalar column order shared by insert, update and load.
var profileColumns = []string{"name", "contact_number", "email", "location", "objective", "skills", "photo_path"}

// profilesTable persists Profile aggregates across the profile, education
// and work_experience tables.
type profilesTable struct {
	backend *Backend
}

// ListProfileNames returns every profile id and name sorted by name.
func (pt *profilesTable) ListProfileNames(ctx context.Context) ([]types.ProfileRef, error) {
	db, err := pt.backend.conn()
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Select("id", "profile_name").From(tableProfile).OrderBy("profile_name").ToSql()
	if err != nil {
		return nil, persistErr("build profile list", err)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistErr("list profiles", err)
	}
	defer rows.Close()

	var refs []types.ProfileRef
	for rows.Next() {
		var ref types.ProfileRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, persistErr("scan profile name", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list profiles", err)
	}
	return refs, nil
}

// FindProfileByName resolves an exact, case-sensitive profile name to its id.
func (pt *profilesTable) FindProfileByName(ctx context.Context, name string) (int64, error) {
	db, err := pt.backend.conn()
	if err != nil {
		return 0, err
	}
	id, err := lookupProfileName(ctx, db, name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, types.ErrNotFound
	}
	if err != nil {
		return 0, persistErr("find profile", err)
	}
	return id, nil
}

// queryRower is satisfied by *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func lookupProfileName(ctx context.Context, q queryRower, name string) (int64, error) {
	query, args, err := sq.Select("id").From(tableProfile).Where(sq.Eq{"profile_name": name}).ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	err = q.QueryRowContext(ctx, query, args...).Scan(&id)
	return id, err
}

// LoadProfile returns the profile with its education and experience entries
// in storage order.
func (pt *profilesTable) LoadProfile(ctx context.Context, id int64) (*types.Profile, error) {
	if id <= 0 {
		return nil, types.ErrInvalidID
	}
	db, err := pt.backend.conn()
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Select(append([]string{"id", "profile_name"}, profileColumns...)...).
		From(tableProfile).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, persistErr("build profile load", err)
	}

	var (
		p      types.Profile
		fields [7]sql.NullString
	)
	err = db.QueryRowContext(ctx, query, args...).Scan(
		&p.ID, &p.ProfileName,
		&fields[0], &fields[1], &fields[2], &fields[3], &fields[4], &fields[5], &fields[6],
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, persistErr("load profile", err)
	}
	p.Name = fields[0].String
	p.ContactNumber = fields[1].String
	p.Email = fields[2].String
	p.Location = fields[3].String
	p.Objective = fields[4].String
	p.Skills = fields[5].String
	p.PhotoPath = fields[6].String

	if p.Education, err = loadEducation(ctx, db, id); err != nil {
		return nil, persistErr("load education", err)
	}
	if p.Experience, err = loadExperience(ctx, db, id); err != nil {
		return nil, persistErr("load experience", err)
	}
	return &p, nil
}

func loadEducation(ctx context.Context, db *sql.DB, profileID int64) ([]types.EducationEntry, error) {
	query, args, err := sq.Select("course_name", "year_completion", "grade", "institution_name").
		From(tableEducation).
		Where(sq.Eq{"profile_id": profileID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []types.EducationEntry
	for rows.Next() {
		var course, year, grade, institution sql.NullString
		if err := rows.Scan(&course, &year, &grade, &institution); err != nil {
			return nil, err
		}
		entries = append(entries, types.EducationEntry{
			Course:         course.String,
			YearCompletion: year.String,
			Grade:          grade.String,
			Institution:    institution.String,
		})
	}
	return entries, rows.Err()
}

func loadExperience(ctx context.Context, db *sql.DB, profileID int64) ([]types.ExperienceEntry, error) {
	query, args, err := sq.Select("title", "description", "duration").
		From(tableWorkExperience).
		Where(sq.Eq{"profile_id": profileID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []types.ExperienceEntry
	for rows.Next() {
		var title, description, duration sql.NullString
		if err := rows.Scan(&title, &description, &duration); err != nil {
			return nil, err
		}
		entries = append(entries, types.ExperienceEntry{
			Title:       title.String,
			Description: description.String,
			Duration:    duration.String,
		})
	}
	return entries, rows.Err()
}

// CreateProfile validates p and inserts it with its kept children under
// p.ProfileName (trimmed). On success p.ID is set.
func (pt *profilesTable) CreateProfile(ctx context.Context, p *types.Profile) (int64, error) {
	if p == nil {
		return 0, &types.ValidationError{Missing: []string{"Profile"}}
	}
	name := strings.TrimSpace(p.ProfileName)
	if name == "" {
		return 0, &types.ValidationError{Missing: []string{"Profile Name"}}
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}
	db, err := pt.backend.conn()
	if err != nil {
		return 0, err
	}

	var id int64
	err = runInTransaction(ctx, db, pt.backend.log, func(ctx context.Context, tx *sql.Tx) error {
		_, err := lookupProfileName(ctx, tx, name)
		if err == nil {
			return types.ErrDuplicateName
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return persistErr("check profile name", err)
		}

		query, args, err := sq.Insert(tableProfile).
			Columns(append([]string{"profile_name"}, profileColumns...)...).
			Values(name, p.Name, p.ContactNumber, p.Email, p.Location, p.Objective, p.Skills, nullable(p.PhotoPath)).
			ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return persistErr("insert profile", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return persistErr("insert profile", err)
		}
		return insertChildren(ctx, tx, id, p)
	})
	if err != nil {
		pt.backend.log.Warn().Err(err).Str("profile", name).Msg("create profile failed")
		return 0, persistErr("create profile", err)
	}

	p.ID = id
	p.ProfileName = name
	return id, nil
}

// UpdateProfile overwrites the scalar fields of profile id and replaces both
// child collections. Child row ids are not preserved.
func (pt *profilesTable) UpdateProfile(ctx context.Context, id int64, p *types.Profile) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	if p == nil {
		return &types.ValidationError{Missing: []string{"Profile"}}
	}
	if err := p.Validate(); err != nil {
		return err
	}
	db, err := pt.backend.conn()
	if err != nil {
		return err
	}

	err = runInTransaction(ctx, db, pt.backend.log, func(ctx context.Context, tx *sql.Tx) error {
		query, args, err := sq.Update(tableProfile).
			SetMap(map[string]any{
				"name":           p.Name,
				"contact_number": p.ContactNumber,
				"email":          p.Email,
				"location":       p.Location,
				"objective":      p.Objective,
				"skills":         p.Skills,
				"photo_path":     nullable(p.PhotoPath),
			}).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return persistErr("update profile", err)
		}
		if err := requireRow(res); err != nil {
			return err
		}
		if err := deleteChildren(ctx, tx, id); err != nil {
			return err
		}
		return insertChildren(ctx, tx, id, p)
	})
	if err != nil {
		return persistErr("update profile", err)
	}
	p.ID = id
	return nil
}

// DeleteProfile removes profile id and its children. Children are deleted
// explicitly as well as by the foreign-key cascade.
func (pt *profilesTable) DeleteProfile(ctx context.Context, id int64) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	db, err := pt.backend.conn()
	if err != nil {
		return err
	}

	err = runInTransaction(ctx, db, pt.backend.log, func(ctx context.Context, tx *sql.Tx) error {
		if err := deleteChildren(ctx, tx, id); err != nil {
			return err
		}
		query, args, err := sq.Delete(tableProfile).Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return persistErr("delete profile", err)
		}
		return requireRow(res)
	})
	return persistErr("delete profile", err)
}

func deleteChildren(ctx context.Context, tx *sql.Tx, profileID int64) error {
	for _, table := range []string{tableWorkExperience, tableEducation} {
		query, args, err := sq.Delete(table).Where(sq.Eq{"profile_id": profileID}).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return persistErr("delete "+table, err)
		}
	}
	return nil
}

// insertChildren writes the kept experience and education entries of p.
// Blank entries are dropped silently.
func insertChildren(ctx context.Context, tx *sql.Tx, profileID int64, p *types.Profile) error {
	for _, exp := range p.KeptExperience() {
		query, args, err := sq.Insert(tableWorkExperience).
			Columns("profile_id", "title", "description", "duration").
			Values(profileID, exp.Title, exp.Description, exp.Duration).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return persistErr("insert work experience", err)
		}
	}
	for _, edu := range p.KeptEducation() {
		query, args, err := sq.Insert(tableEducation).
			Columns("profile_id", "course_name", "year_completion", "grade", "institution_name").
			Values(profileID, edu.Course, edu.YearCompletion, edu.Grade, edu.Institution).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return persistErr("insert education", err)
		}
	}
	return nil
}
