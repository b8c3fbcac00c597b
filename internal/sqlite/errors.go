package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mesh-intelligence/workbench/pkg/types"
)

// persistErr classifies a store failure. Errors that already carry a
// workbench sentinel pass through; unique-constraint violations become
// ErrDuplicateName; anything else is wrapped as ErrPersistence.
func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{types.ErrDuplicateName, types.ErrNotFound, types.ErrPersistence, types.ErrValidation, types.ErrDetached} {
		if errors.Is(err, known) {
			return err
		}
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, types.ErrDuplicateName)
	}
	return fmt.Errorf("%s: %w: %w", op, types.ErrPersistence, err)
}

func isUniqueViolation(err error) bool {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

// nullable maps the empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// requireRow turns a zero-row update or delete into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}
