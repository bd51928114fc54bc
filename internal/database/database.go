// FilePath: internal/database/database.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/airx/beds/server/hub/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	nuts "github.com/vaudience/go-nuts"
)

// DB is the connection handle repositories depend on
type DB interface {
	Close() error
	Ping(ctx context.Context) error
	GetDB() *sqlx.DB
}

// PostgresDB represents a PostgreSQL database connection
type PostgresDB struct {
	db *sqlx.DB
}

// Transaction represents a database transaction
type Transaction interface {
	Commit() error
	Rollback() error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// Repository represents common repository operations
type Repository interface {
	BeginTx(ctx context.Context) (Transaction, error)
}

// NewPostgresDB connects using cfg.URL. The connection string is adjusted
// for sslmode before dialing.
func NewPostgresDB(cfg config.DatabaseConfig) (DB, error) {
	dsn, err := BuildDSN(cfg.URL, cfg.SSLMode)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to PostgreSQL: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	nuts.L.Infof("[PostgresDB] Connected to %s", redact(dsn))
	return &PostgresDB{db: db}, nil
}

// Wrap adapts an existing handle, e.g. one backed by sqlmock.
func Wrap(db *sqlx.DB) DB {
	return &PostgresDB{db: db}
}

// BuildDSN applies the sslmode rule: "disable" turns TLS off, anything else
// requires it. An sslmode already present in the URL wins.
func BuildDSN(rawURL, sslmode string) (string, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", fmt.Errorf("database url is empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		return "", fmt.Errorf("invalid database url")
	}
	q := u.Query()
	if q.Get("sslmode") == "" {
		if strings.EqualFold(sslmode, "disable") {
			q.Set("sslmode", "disable")
		} else {
			q.Set("sslmode", "require")
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func redact(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "postgres"
	}
	return u.Redacted()
}

// Implementation of DB interface for PostgresDB
func (p *PostgresDB) Close() error {
	return p.db.Close()
}

func (p *PostgresDB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.db.PingContext(ctx)
}

func (p *PostgresDB) GetDB() *sqlx.DB {
	return p.db
}
