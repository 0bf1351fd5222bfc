package errtranslator

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var mysqlErrCodes = map[string]uint16{
	"uniqueConstraint":     1062,
	"rowIsReferenced":      1451,
	"noReferencedRow":      1452,
	"foreignKeyConstraint": 1216,
}

type MysqlErrTranslator struct{}

func (m *MysqlErrTranslator) Translate(err error) error {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return err
	}

	switch mysqlErr.Number {
	case mysqlErrCodes["uniqueConstraint"]:
		return ErrDuplicatedKey{Code: mysqlErr.Number, Message: mysqlErr.Message}
	case mysqlErrCodes["rowIsReferenced"], mysqlErrCodes["noReferencedRow"], mysqlErrCodes["foreignKeyConstraint"]:
		return ErrForeignKeyViolated{Code: mysqlErr.Number, Message: mysqlErr.Message}
	}
	return err
}
