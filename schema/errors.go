package schema

import "errors"

var (
	// ErrMissingTable model declared no entity table
	ErrMissingTable = errors.New("missing entity table declaration")
	// ErrMissingPrimaryKey model declared no primary key
	ErrMissingPrimaryKey = errors.New("missing primary key declaration")
	// ErrMultiplePrimaryKeys more than one field marked primary key
	ErrMultiplePrimaryKeys = errors.New("multiple primary keys declared")
	// ErrPrimaryKeyNotReadOnly primary key not marked read-only
	ErrPrimaryKeyNotReadOnly = errors.New("primary key must be read-only")
	// ErrMissingSetter restricted field declared without setter
	ErrMissingSetter = errors.New("restricted field has no setter")
	// ErrDuplicateField field declared twice
	ErrDuplicateField = errors.New("duplicate field")
	// ErrRelationColumnConflict relation declared with the name of a plain column
	ErrRelationColumnConflict = errors.New("relation conflicts with column")
	// ErrMissingForeignKey belongs-to relation whose foreign key field is not declared
	ErrMissingForeignKey = errors.New("foreign key field not declared")
	// ErrUnknownModel related or requested model is not registered
	ErrUnknownModel = errors.New("unknown model")
	// ErrInvalidRule validation rule could not be parsed
	ErrInvalidRule = errors.New("invalid validation rule")
	// ErrUnsupportedType field bound to a pointer of unsupported type
	ErrUnsupportedType = errors.New("unsupported field type")
)

// EntityError metadata extraction failure
type EntityError struct {
	Model string
	Field string
	Err   error
}

func (e *EntityError) Error() string {
	switch {
	case e.Model == "":
		return "entity: " + e.Err.Error()
	case e.Field == "":
		return "entity " + e.Model + ": " + e.Err.Error()
	}
	return "entity " + e.Model + "." + e.Field + ": " + e.Err.Error()
}

func (e *EntityError) Unwrap() error {
	return e.Err
}
