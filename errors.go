package fastorm

import (
	"errors"
	"fmt"
)

// Error types shared across all fastorm packages.
var (
	// ErrDuplicateSchema is returned when a table name is registered twice.
	ErrDuplicateSchema = errors.New("schema already registered")

	// ErrNoPrimaryKey is returned when an operation requires a primary key
	// but the schema declares none.
	ErrNoPrimaryKey = errors.New("schema has no primary key")

	// ErrMissingKey is returned when an update or delete is attempted on a
	// record whose primary-key value is absent.
	ErrMissingKey = errors.New("record has no primary key value")

	// ErrInvalidArgument is returned for malformed builder or schema input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConstraintViolation is returned when the database rejects a write
	// due to a unique, not-null, or foreign-key constraint.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrNoSuchRelation is returned when no foreign key (or more than one)
	// links the two schemas of a relation lookup.
	ErrNoSuchRelation = errors.New("no such relation")

	// ErrStaleInstance is returned when a deleted record is saved or
	// deleted again.
	ErrStaleInstance = errors.New("record has been deleted")

	// ErrNotFound marks the absence of a row. Like sql.ErrNoRows it is a
	// lookup outcome, not a statement failure: First and BelongsTo return
	// it for zero rows, and it is never wrapped in a StatementError.
	ErrNotFound = errors.New("record not found")

	// ErrTransaction is returned when transaction calls arrive out of
	// order, such as a commit without a begin.
	ErrTransaction = errors.New("transaction error")
)

// StatementError carries the failing statement alongside an execution
// error so callers see exactly what was sent to the database.
type StatementError struct {
	Stmt  string
	Args  []any
	Cause error
}

// Error implements the error interface.
func (e *StatementError) Error() string {
	return fmt.Sprintf("%v (statement: %s)", e.Cause, e.Stmt)
}

// Unwrap returns the underlying error.
func (e *StatementError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *StatementError) Is(target error) bool {
	return errors.Is(e.Cause, target)
}

// NewStatementError wraps cause with the statement that produced it.
func NewStatementError(stmt string, args []any, cause error) *StatementError {
	return &StatementError{Stmt: stmt, Args: args, Cause: cause}
}
