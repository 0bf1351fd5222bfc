package errtranslator

import (
	"fmt"

	"github.com/hakuorm/haku"
)

// ErrTranslator maps driver errors onto the errors of haku
type ErrTranslator interface {
	Translate(err error) error
}

// ErrDuplicatedKey unique key violation reported by the driver
type ErrDuplicatedKey struct {
	Code    interface{}
	Message string
}

func (e ErrDuplicatedKey) Error() string {
	return fmt.Sprintf("duplicated key not allowed, code: %v, message: %s", e.Code, e.Message)
}

func (e ErrDuplicatedKey) Unwrap() error {
	return haku.ErrDuplicatedKey
}

// ErrForeignKeyViolated foreign key violation reported by the driver
type ErrForeignKeyViolated struct {
	Code    interface{}
	Message string
}

func (e ErrForeignKeyViolated) Error() string {
	return fmt.Sprintf("violates foreign key constraint, code: %v, message: %s", e.Code, e.Message)
}

func (e ErrForeignKeyViolated) Unwrap() error {
	return haku.ErrForeignKeyViolated
}
