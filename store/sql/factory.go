package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-socialauth/migrations"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config selects the database backing the activity log.
type Config struct {
	Driver      string        `koanf:"driver" env:"DB_DRIVER" envDefault:"sqlite3"`
	DSN         string        `koanf:"dsn" env:"DB_DSN" envDefault:"file:socialauth.db?cache=shared&_foreign_keys=on"`
	Debug       bool          `koanf:"debug" env:"DB_DEBUG"`
	PingTimeout time.Duration `koanf:"ping_timeout" env:"DB_PING_TIMEOUT" envDefault:"5s"`
}

func (c Config) GetDebug() bool { return c.Debug }

func (c Config) GetDriver() string { return c.normalizedDriver() }

func (c Config) GetServer() string { return c.DSN }

func (c Config) GetPingTimeout() time.Duration {
	if c.PingTimeout <= 0 {
		return 5 * time.Second
	}
	return c.PingTimeout
}

func (c Config) GetOtelIdentifier() string { return "go-socialauth" }

func (c Config) normalizedDriver() string {
	switch strings.TrimSpace(strings.ToLower(c.Driver)) {
	case "", "sqlite", "sqlite3":
		return DriverSQLite
	case "postgres", "postgresql", "pq":
		return DriverPostgres
	default:
		return strings.TrimSpace(strings.ToLower(c.Driver))
	}
}

func (c Config) dialect() (schema.Dialect, string, error) {
	switch c.normalizedDriver() {
	case DriverSQLite:
		return sqlitedialect.New(), migrations.DialectSQLite, nil
	case DriverPostgres:
		return pgdialect.New(), migrations.DialectPostgres, nil
	default:
		return nil, "", fmt.Errorf("sqlstore: unsupported driver %q", c.Driver)
	}
}

// OpenDB opens a bun handle for the configured driver without running
// migrations.
func OpenDB(cfg Config) (*bun.DB, error) {
	dialect, _, err := cfg.dialect()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlstore: dsn is required")
	}
	sqlDB, err := sql.Open(cfg.normalizedDriver(), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", cfg.normalizedDriver(), err)
	}
	if cfg.normalizedDriver() == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	}
	return bun.NewDB(sqlDB, dialect), nil
}

// Open builds a persistence client, registers the embedded migrations for
// the configured dialect and applies them.
func Open(ctx context.Context, cfg Config) (*persistence.Client, error) {
	dialect, migrationDialect, err := cfg.dialect()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlstore: dsn is required")
	}
	sqlDB, err := sql.Open(cfg.normalizedDriver(), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", cfg.normalizedDriver(), err)
	}
	if cfg.normalizedDriver() == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	}

	client, err := persistence.New(cfg, sqlDB, dialect)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlstore: new persistence client: %w", err)
	}

	_, err = migrations.Register(ctx, func(_ context.Context, dialect string, _ string, fsys fs.FS) error {
		if dialect != migrationDialect {
			return nil
		}
		client.RegisterSQLMigrations(fsys)
		return nil
	}, migrations.WithValidationTargets(migrationDialect))
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	if err := client.Migrate(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("sqlstore: migrate: %w", err)
	}
	return client, nil
}

type RepositoryFactory struct {
	db            *bun.DB
	activityStore *ActivityStore
}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{}
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if err := factory.BuildStores(client); err != nil {
		return nil, err
	}
	return factory, nil
}

func NewRepositoryFactoryFromDB(db *bun.DB) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if err := factory.BuildStores(db); err != nil {
		return nil, err
	}
	return factory, nil
}

func (f *RepositoryFactory) BuildStores(persistenceClient any) error {
	if f == nil {
		return fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return err
		}
		f.db = db
	}
	if f.activityStore != nil {
		return nil
	}
	activityStore, err := NewActivityStore(f.db)
	if err != nil {
		return err
	}
	f.activityStore = activityStore
	return nil
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func (f *RepositoryFactory) ActivityStore() *ActivityStore {
	if f == nil {
		return nil
	}
	return f.activityStore
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		if typed == nil {
			return nil, fmt.Errorf("sqlstore: bun db is required")
		}
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
