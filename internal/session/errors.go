package session

import (
	"errors"
	"strings"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("session: invalid item")
	// ErrCommit is matched by every *CommitError.
	ErrCommit = errors.New("session: commit failed")
	// ErrCommitInProgress is returned when Commit is called while saving.
	ErrCommitInProgress = errors.New("session: commit already in progress")
	// ErrUnknownCandidate is returned when selecting an ID not in the results.
	ErrUnknownCandidate = errors.New("session: unknown candidate")
)

// Field names reported by validation.
const (
	FieldName      = "name"
	FieldDuration  = "duration"
	FieldLocation  = "location"
	FieldPlannedAt = "plannedAt"
)

// FieldError is one invalid or missing field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Problems []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, p := range e.Problems {
		if p.Field == field {
			return true
		}
	}
	return false
}

// Messages returns the user-facing messages joined into one line.
func (e *ValidationError) Messages() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Message)
	}
	return strings.Join(msgs, " ")
}

// CommitError wraps a failed item creation.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return ErrCommit.Error() + ": " + e.Err.Error()
}

// Unwrap exposes both ErrCommit and the underlying cause.
func (e *CommitError) Unwrap() []error { return []error{ErrCommit, e.Err} }
