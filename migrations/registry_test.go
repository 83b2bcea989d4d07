package migrations

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	socialauth "github.com/goliatone/go-socialauth"
	_ "github.com/mattn/go-sqlite3"
)

func TestFilesystems_ReturnsPostgresAndSQLite(t *testing.T) {
	filesystems, err := Filesystems()
	if err != nil {
		t.Fatalf("filesystems: %v", err)
	}
	if len(filesystems) != 2 {
		t.Fatalf("expected 2 filesystems, got %d", len(filesystems))
	}
	if filesystems[0].Dialect != DialectPostgres || filesystems[1].Dialect != DialectSQLite {
		t.Fatalf("unexpected dialect order %q, %q", filesystems[0].Dialect, filesystems[1].Dialect)
	}
	if filesystems[1].Path != "data/sql/migrations/sqlite" {
		t.Fatalf("unexpected sqlite path %q", filesystems[1].Path)
	}
}

func TestFilesystems_AcceptsFlatSource(t *testing.T) {
	source := fstest.MapFS{
		"00001_x.up.sql":        {Data: []byte("SELECT 1;")},
		"sqlite/00001_x.up.sql": {Data: []byte("SELECT 1;")},
	}
	filesystems, err := Filesystems(source)
	if err != nil {
		t.Fatalf("filesystems: %v", err)
	}
	if filesystems[0].Path != "." || filesystems[1].Path != "sqlite" {
		t.Fatalf("unexpected paths %q, %q", filesystems[0].Path, filesystems[1].Path)
	}

	if _, err := Filesystems(fstest.MapFS{"README.md": {Data: []byte("x")}}); err == nil {
		t.Fatalf("expected error for source without migrations")
	}
}

func TestRegister_UsesValidationTargets(t *testing.T) {
	var calls []string
	reg, err := Register(context.Background(), func(_ context.Context, dialect string, label string, _ fs.FS) error {
		calls = append(calls, dialect+":"+label)
		return nil
	}, WithValidationTargets(" SQLite ", "sqlite"), WithSourceLabel("demo"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(calls) != 1 || calls[0] != "sqlite:demo" {
		t.Fatalf("expected single sqlite registration, got %v", calls)
	}
	if len(reg.ValidationTargets) != 1 {
		t.Fatalf("expected deduped targets, got %v", reg.ValidationTargets)
	}
}

func TestRegister_RequiresRegisterFunc(t *testing.T) {
	if _, err := Register(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil register function")
	}
}

func TestActivityLogMigrationPair_ExistsForBothDialects(t *testing.T) {
	root := socialauth.GetMigrationsFS()
	paths := []string{
		"data/sql/migrations/00001_socialauth_activity_log.up.sql",
		"data/sql/migrations/00001_socialauth_activity_log.down.sql",
		"data/sql/migrations/sqlite/00001_socialauth_activity_log.up.sql",
		"data/sql/migrations/sqlite/00001_socialauth_activity_log.down.sql",
	}
	for _, migrationPath := range paths {
		content, err := fs.ReadFile(root, migrationPath)
		if err != nil {
			t.Fatalf("read migration %s: %v", migrationPath, err)
		}
		if strings.TrimSpace(string(content)) == "" {
			t.Fatalf("expected migration %s to have SQL content", migrationPath)
		}
	}
}

func TestSQLiteActivityLogMigration_ApplyAndRollback(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite3", "file:migrations-activity-log?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	defer func() { _ = db.Close() }()

	sqliteMigrations, err := fs.Sub(socialauth.GetMigrationsFS(), "data/sql/migrations/sqlite")
	if err != nil {
		t.Fatalf("resolve sqlite migrations: %v", err)
	}
	if err := execSQLMigration(ctx, db, sqliteMigrations, "00001_socialauth_activity_log.up.sql"); err != nil {
		t.Fatalf("apply up: %v", err)
	}

	if _, err := db.ExecContext(ctx,
		`INSERT INTO socialauth_activity_entries (id, provider_id, action) VALUES (?, ?, ?)`,
		"a1", "myspace", "logout",
	); err != nil {
		t.Fatalf("insert with defaults: %v", err)
	}
	var status, metadata string
	if err := db.QueryRowContext(ctx,
		`SELECT status, metadata FROM socialauth_activity_entries WHERE id = ?`, "a1",
	).Scan(&status, &metadata); err != nil {
		t.Fatalf("select defaults: %v", err)
	}
	if status != "ok" || metadata != "{}" {
		t.Fatalf("unexpected defaults status=%q metadata=%q", status, metadata)
	}

	if _, err := db.ExecContext(ctx,
		`INSERT INTO socialauth_activity_entries (id, provider_id, action, status) VALUES (?, ?, ?, ?)`,
		"a2", "myspace", "logout", "pending",
	); err == nil {
		t.Fatalf("expected status check constraint violation")
	}

	if err := execSQLMigration(ctx, db, sqliteMigrations, "00001_socialauth_activity_log.down.sql"); err != nil {
		t.Fatalf("apply down: %v", err)
	}
	var count int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'socialauth_activity_entries'`,
	).Scan(&count); err != nil {
		t.Fatalf("query sqlite master: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected table to be dropped")
	}
}

func execSQLMigration(ctx context.Context, db *sql.DB, fsys fs.FS, filename string) error {
	content, err := fs.ReadFile(fsys, filepath.Clean(filename))
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, string(content))
	return err
}
