package types

import (
	"errors"
	"strings"
)

// Standard errors. Callers match them with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrDuplicateName     = errors.New("a profile with this name already exists")
	ErrNotFound          = errors.New("entity not found")
	ErrPersistence       = errors.New("persistence failure")
	ErrInvalidExpression = errors.New("invalid expression")
	ErrEvaluation        = errors.New("evaluation error")
	ErrRender            = errors.New("render failure")
	ErrNoCurrentProfile  = errors.New("no profile is currently loaded")
	ErrInvalidID         = errors.New("invalid entity ID")
)

// ValidationError reports mandatory fields that are blank and fields whose
// value is malformed. Labels are the user-facing field names, in form order.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing mandatory fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	if len(parts) == 0 {
		return ErrValidation.Error()
	}
	return strings.Join(parts, "; ")
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IsUserError reports whether err was caused by user input rather than by
// the store or the renderer.
func IsUserError(err error) bool {
	for _, target := range []error{
		ErrValidation, ErrDuplicateName, ErrNotFound, ErrInvalidExpression,
		ErrEvaluation, ErrNoCurrentProfile, ErrInvalidID,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
