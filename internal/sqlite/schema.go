package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

// Table names. They match the files written by earlier installs.
const (
	tableProfile        = "profile"
	tableEducation      = "education"
	tableWorkExperience = "work_experience"
	tableTasks          = "tasks"
	tableNotes          = "notes"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrate brings the schema up to the latest embedded migration. The first
// migration uses CREATE TABLE IF NOT EXISTS so databases created before goose
// tracked versions migrate in place.
func migrate(ctx context.Context, db *sql.DB, log zerolog.Logger) error {
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, r := range results {
		log.Debug().
			Int64("version", r.Source.Version).
			Str("path", r.Source.Path).
			Dur("took", r.Duration).
			Msg("applied migration")
	}
	return nil
}
