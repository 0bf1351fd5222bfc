package mysql

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/hakuorm/haku/dialects"
	"github.com/hakuorm/haku/errtranslator"
)

// DriverName database/sql driver of MySQL
const DriverName = "mysql"

// Config MySQL connection settings
type Config struct {
	DSN             string
	DSNConfig       *mysql.Config
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// PrepareStmt caches prepared statements for StmtCacheTTL
	PrepareStmt  bool
	StmtCacheTTL time.Duration
}

type Dialector struct{}

func (Dialector) Name() string {
	return DriverName
}

func (Dialector) BindVar(int) string {
	return "?"
}

func (Dialector) Translator() errtranslator.ErrTranslator {
	return &errtranslator.MysqlErrTranslator{}
}

// FormatDSN data source name with time parsing enabled
func (c Config) FormatDSN() (string, error) {
	cfg := c.DSNConfig
	if cfg == nil {
		var err error
		if cfg, err = mysql.ParseDSN(c.DSN); err != nil {
			return "", err
		}
	} else {
		cfg = cfg.Clone()
	}

	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// Open connection pool of config; the database is not contacted
func Open(config Config) (*dialects.Conn, error) {
	dsn, err := config.FormatDSN()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, err
	}
	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(config.ConnMaxLifetime)
	}

	var opts []dialects.Option
	if config.PrepareStmt {
		opts = append(opts, dialects.WithPreparedStmt(config.StmtCacheTTL))
	}
	return dialects.New(db, Dialector{}, opts...), nil
}

// Connect open config and ping the server
func Connect(ctx context.Context, config Config) (*dialects.Conn, error) {
	conn, err := Open(config)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// DSN data source name of the given parts
func DSN(user, password, host string, port int, database string) string {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = host + ":" + strconv.Itoa(port)
	cfg.DBName = database
	return cfg.FormatDSN()
}
