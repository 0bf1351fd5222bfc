package errtranslator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"github.com/hakuorm/haku"
	"github.com/hakuorm/haku/errtranslator"
)

func TestMysqlErrTranslator(t *testing.T) {
	translator := &errtranslator.MysqlErrTranslator{}

	duplicated := translator.Translate(fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.c' for key 'uq_users_email'"}))
	assert.ErrorIs(t, duplicated, haku.ErrDuplicatedKey)
	assert.EqualError(t, duplicated, "duplicated key not allowed, code: 1062, message: Duplicate entry 'a@b.c' for key 'uq_users_email'")

	for _, code := range []uint16{1216, 1451, 1452} {
		err := translator.Translate(&mysql.MySQLError{Number: code, Message: "Cannot add or update a child row"})
		assert.ErrorIs(t, err, haku.ErrForeignKeyViolated, code)
	}

	other := &mysql.MySQLError{Number: 1146, Message: "Table 'haku.todos' doesn't exist"}
	assert.Same(t, other, translator.Translate(other))

	plain := errors.New("bad connection")
	assert.Same(t, plain, translator.Translate(plain))
}
