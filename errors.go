package haku

import (
	"errors"

	"github.com/hakuorm/haku/logger"
)

var (
	// ErrRecordNotFound record not found error
	ErrRecordNotFound = logger.ErrRecordNotFound
	// ErrNotValidated save called on a model that did not pass validation
	ErrNotValidated = errors.New("model must be validated before save")
	// ErrUnknownRelation relation name not declared
	ErrUnknownRelation = errors.New("unknown relation")
	// ErrInvalidSearch search on a model without search declaration or with empty criteria
	ErrInvalidSearch = errors.New("invalid search criteria")
	// ErrNotPersistent operation requires a persisted model
	ErrNotPersistent = errors.New("model is not persistent")
	// ErrNotSoftDeleteable operation requires a deletedAt field
	ErrNotSoftDeleteable = errors.New("model is not soft deleteable")
	// ErrNotRegistered model must be registered to be instantiated
	ErrNotRegistered = errors.New("model is not registered")
	// ErrUnknownField field name not declared
	ErrUnknownField = errors.New("unknown field")
	// ErrMissingConnection db opened without connection
	ErrMissingConnection = errors.New("missing connection")
	// ErrDuplicatedKey occurs when there is a unique key constraint violation
	ErrDuplicatedKey = errors.New("duplicated key not allowed")
	// ErrForeignKeyViolated occurs when there is a foreign key constraint violation
	ErrForeignKeyViolated = errors.New("violates foreign key constraint")
)

// ModelError runtime misuse of a model
type ModelError struct {
	Model string
	Op    string
	Err   error
}

func (e *ModelError) Error() string {
	return "model " + e.Model + ": " + e.Op + ": " + e.Err.Error()
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// DatabaseError connection failure while running SQL
type DatabaseError struct {
	SQL string
	Err error
}

func (e *DatabaseError) Error() string {
	return "database: " + e.Err.Error() + " [" + e.SQL + "]"
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}
