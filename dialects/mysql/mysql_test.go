package mysql_test

import (
	"testing"

	drv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakuorm/haku/dialects/mysql"
)

func TestDSN(t *testing.T) {
	assert.Equal(t, "haku:secret@tcp(localhost:3306)/haku", mysql.DSN("haku", "secret", "localhost", 3306, "haku"))
}

func TestFormatDSN(t *testing.T) {
	dsn, err := mysql.Config{DSN: "haku:secret@tcp(db:3306)/haku"}.FormatDSN()
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")

	cfg, err := drv.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db:3306", cfg.Addr)
	assert.Equal(t, "haku", cfg.DBName)
	assert.True(t, cfg.ParseTime)

	base := drv.NewConfig()
	base.Addr, base.Net = "db:3306", "tcp"
	dsn, err = mysql.Config{DSNConfig: base}.FormatDSN()
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")
	assert.False(t, base.ParseTime)

	_, err = mysql.Config{DSN: "haku@tcp(db:3306"}.FormatDSN()
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	conn, err := mysql.Open(mysql.Config{
		DSN:          "haku:secret@tcp(127.0.0.1:3306)/haku",
		MaxOpenConns: 4,
		PrepareStmt:  true,
	})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "mysql", conn.Dialect().Name())
	assert.Equal(t, "?", conn.Dialect().BindVar(3))
	assert.Equal(t, 4, conn.DB().Stats().MaxOpenConnections)
	assert.False(t, conn.InTransaction())
}
