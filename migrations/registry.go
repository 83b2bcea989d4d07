// Package migrations exposes the embedded activity log schema per SQL
// dialect so callers can register it with their migration runner.
package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	socialauth "github.com/goliatone/go-socialauth"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"

	rootPath   = "data/sql/migrations"
	sqlitePath = "sqlite"
)

type FilesystemSpec struct {
	Dialect string
	Path    string
	FS      fs.FS
}

type Registration struct {
	SourceLabel       string
	ValidationTargets []string
	Filesystems       []FilesystemSpec
}

type RegisterFunc func(ctx context.Context, dialect string, sourceLabel string, fsys fs.FS) error

type Option func(*Registration)

func WithSourceLabel(label string) Option {
	return func(r *Registration) {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			r.SourceLabel = trimmed
		}
	}
}

// WithValidationTargets restricts registration to the named dialects.
func WithValidationTargets(targets ...string) Option {
	return func(r *Registration) {
		if next := normalizeDialects(targets); len(next) > 0 {
			r.ValidationTargets = next
		}
	}
}

// Filesystems resolves the postgres tree and its sqlite sibling. An optional
// source overrides the embedded tree; it may be rooted either at the module
// root or directly at the migrations directory.
func Filesystems(sources ...fs.FS) ([]FilesystemSpec, error) {
	root := socialauth.GetMigrationsFS()
	if len(sources) > 0 && sources[0] != nil {
		root = sources[0]
	}

	base, basePath, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}
	sqliteFS, err := fs.Sub(base, sqlitePath)
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve sqlite filesystem: %w", err)
	}

	filesystems := []FilesystemSpec{
		{Dialect: DialectPostgres, Path: basePath, FS: base},
		{Dialect: DialectSQLite, Path: joinPath(basePath, sqlitePath), FS: sqliteFS},
	}
	for _, spec := range filesystems {
		matches, globErr := fs.Glob(spec.FS, "*.up.sql")
		if globErr != nil {
			return nil, fmt.Errorf("migrations: glob %s %s: %w", spec.Dialect, spec.Path, globErr)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("migrations: %s filesystem %q has no *.up.sql files", spec.Dialect, spec.Path)
		}
	}
	return filesystems, nil
}

// Register calls registerFn once per targeted dialect.
func Register(ctx context.Context, registerFn RegisterFunc, opts ...Option) (Registration, error) {
	reg := Registration{
		SourceLabel:       "go-socialauth",
		ValidationTargets: []string{DialectPostgres, DialectSQLite},
	}
	if registerFn == nil {
		return reg, fmt.Errorf("migrations: register function is required")
	}

	filesystems, err := Filesystems()
	if err != nil {
		return reg, err
	}
	reg.Filesystems = filesystems
	for _, opt := range opts {
		if opt != nil {
			opt(&reg)
		}
	}

	for _, spec := range reg.Filesystems {
		if !slices.Contains(reg.ValidationTargets, spec.Dialect) {
			continue
		}
		if err := registerFn(ctx, spec.Dialect, reg.SourceLabel, spec.FS); err != nil {
			return reg, fmt.Errorf("migrations: register %s (%s): %w", spec.Dialect, spec.Path, err)
		}
	}
	return reg, nil
}

func resolveRoot(root fs.FS) (fs.FS, string, error) {
	if _, statErr := fs.Stat(root, rootPath); statErr == nil {
		sub, err := fs.Sub(root, rootPath)
		if err != nil {
			return nil, "", fmt.Errorf("migrations: resolve %s: %w", rootPath, err)
		}
		return sub, rootPath, nil
	}
	if matches, _ := fs.Glob(root, "*.sql"); len(matches) > 0 {
		return root, ".", nil
	}
	return nil, "", fmt.Errorf("migrations: %s not found", rootPath)
}

func normalizeDialects(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(strings.ToLower(value))
		if trimmed == "" || slices.Contains(out, trimmed) {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func joinPath(base string, suffix string) string {
	if base == "." {
		return suffix
	}
	return strings.TrimSuffix(base, "/") + "/" + suffix
}
