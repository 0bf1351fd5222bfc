// Package config loads haku settings from yaml files and HAKU_ environment variables
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/hakuorm/haku/dialects/mysql"
	"github.com/hakuorm/haku/logger"
)

//go:embed config.yaml
var defaultConfig []byte

// EnvPrefix prefix of environment overrides, `HAKU_DATABASE_HOST` sets database.host
const EnvPrefix = "HAKU"

// ErrUnsupportedDriver database driver without dialect
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Settings haku settings
type Settings struct {
	Database   DatabaseSettings   `yaml:"database"`
	Log        LogSettings        `yaml:"log"`
	Pagination PaginationSettings `yaml:"pagination"`
	Metrics    MetricsSettings    `yaml:"metrics"`
}

// DatabaseSettings connection settings; DSN wins over the separate parts
type DatabaseSettings struct {
	Driver          string        `yaml:"driver"`
	DSN             string        `yaml:"dsn"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"maxopenconns"`
	MaxIdleConns    int           `yaml:"maxidleconns"`
	ConnMaxLifetime time.Duration `yaml:"connmaxlifetime"`
	PrepareStmt     bool          `yaml:"preparestmt"`
	StmtCacheTTL    time.Duration `yaml:"stmtcachettl"`
}

// LogSettings SQL logger settings
type LogSettings struct {
	Level                     string        `yaml:"level"`  // silent, error, warn, info
	Format                    string        `yaml:"format"` // console, json, logrus, zap
	SlowThreshold             time.Duration `yaml:"slowthreshold"`
	ParameterizedQueries      bool          `yaml:"parameterizedqueries"`
	IgnoreRecordNotFoundError bool          `yaml:"ignorerecordnotfounderror"`
}

// PaginationSettings paginate defaults
type PaginationSettings struct {
	DefaultLimit int `yaml:"defaultlimit"`
}

// MetricsSettings Prometheus exposition
type MetricsSettings struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Load settings from the embedded defaults, the optional yaml file at path and the environment
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultConfig)); err != nil {
		return nil, fmt.Errorf("error reading default config: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}
	return settings, nil
}

// YAML settings as a yaml document
func (s *Settings) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MySQL connection config of the database settings
func (d DatabaseSettings) MySQL() (mysql.Config, error) {
	if d.Driver != mysql.DriverName {
		return mysql.Config{}, fmt.Errorf("%w: %q", ErrUnsupportedDriver, d.Driver)
	}

	dsn := d.DSN
	if dsn == "" {
		dsn = mysql.DSN(d.User, d.Password, d.Host, d.Port, d.Name)
	}
	return mysql.Config{
		DSN:             dsn,
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		PrepareStmt:     d.PrepareStmt,
		StmtCacheTTL:    d.StmtCacheTTL,
	}, nil
}

// Logger SQL logger of the log settings
func (l LogSettings) Logger() (logger.Interface, error) {
	config := logger.Config{
		LogLevel:                  logger.ParseLevel(l.Level),
		SlowThreshold:             l.SlowThreshold,
		ParameterizedQueries:      l.ParameterizedQueries,
		IgnoreRecordNotFoundError: l.IgnoreRecordNotFoundError,
	}

	switch l.Format {
	case "", "console":
		return logger.NewZerologLoggerWithConfig(config), nil
	case "json":
		zl := zerolog.New(os.Stdout).Level(logger.ZerologLevel(config.LogLevel)).With().Timestamp().Logger()
		return logger.NewZerologLogger(zl, config), nil
	case "logrus":
		ll := logrus.New()
		ll.SetFormatter(&logrus.JSONFormatter{})
		return logger.NewLogrusLogger(ll, config), nil
	case "zap":
		return logger.NewZapLoggerWithConfig(config)
	}
	return nil, fmt.Errorf("unknown log format %q", l.Format)
}
