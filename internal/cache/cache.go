// Package cache is the local package database. Every package built by cpkg
// is recorded with the identity it was built for and the folder it was
// installed into.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/fandjelo/cpkg/recipe"
)

const driverName = "sqlite"

// ErrNotFound is returned when no package matches a lookup.
var ErrNotFound = errors.New("package not found")

const schema = `
CREATE TABLE IF NOT EXISTS packages (
	name       TEXT    NOT NULL,
	version    TEXT    NOT NULL,
	package_id TEXT    NOT NULL,
	settings   TEXT    NOT NULL DEFAULT '',
	options    TEXT    NOT NULL DEFAULT '',
	requires   TEXT    NOT NULL DEFAULT '',
	dir        TEXT    NOT NULL,
	cpp_info   TEXT    NOT NULL DEFAULT '{}',
	metadata   TEXT    NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	PRIMARY KEY (name, version, package_id)
);
CREATE INDEX IF NOT EXISTS packages_created ON packages (name, version, created_at);
`

// Package is one built package.
type Package struct {
	Name      string `db:"name"`
	Version   string `db:"version"`
	PackageID string `db:"package_id"`
	Settings  string `db:"settings"`
	Options   string `db:"options"`
	Requires  string `db:"requires"`
	Dir       string `db:"dir"`
	CppInfo   string `db:"cpp_info"`
	Metadata  string `db:"metadata"`
	CreatedAt int64  `db:"created_at"`
}

// Ref returns "name/version".
func (p *Package) Ref() string {
	return p.Name + "/" + p.Version
}

// Created returns the build time.
func (p *Package) Created() time.Time {
	return time.Unix(p.CreatedAt, 0)
}

// Info decodes the stored consumer information.
func (p *Package) Info() (*recipe.CppInfo, error) {
	info := &recipe.CppInfo{}
	if p.CppInfo == "" {
		return info, nil
	}
	if err := json.Unmarshal([]byte(p.CppInfo), info); err != nil {
		return nil, fmt.Errorf("corrupt cpp_info for %s:%s: %w", p.Ref(), p.PackageID, err)
	}
	return info, nil
}

// SetInfo encodes consumer information.
func (p *Package) SetInfo(info *recipe.CppInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	p.CppInfo = string(data)
	return nil
}

// DB is the package database.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates the database file at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := "file:" + filepath.ToSlash(path) + "?" + url.Values{
		"_pragma": {"busy_timeout(5000)", "journal_mode(WAL)"},
	}.Encode()
	conn, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Put records a package, replacing an earlier record with the same identity.
func (db *DB) Put(ctx context.Context, p *Package) error {
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}
	const q = `
		INSERT OR REPLACE INTO packages
			(name, version, package_id, settings, options, requires, dir, cpp_info, metadata, created_at)
		VALUES
			(:name, :version, :package_id, :settings, :options, :requires, :dir, :cpp_info, :metadata, :created_at)`
	if _, err := db.conn.NamedExecContext(ctx, q, p); err != nil {
		return fmt.Errorf("failed to record %s:%s: %w", p.Ref(), p.PackageID, err)
	}
	return nil
}

// Get returns the package with the given identity.
func (db *DB) Get(ctx context.Context, name, version, packageID string) (*Package, error) {
	var p Package
	const q = `SELECT * FROM packages WHERE name = ? AND version = ? AND package_id = ?`
	err := db.conn.GetContext(ctx, &p, q, name, version, packageID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s:%s", ErrNotFound, name, version, packageID)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Latest returns the most recently built package of name/version whose
// settings are compatible with settings.
func (db *DB) Latest(ctx context.Context, name, version string, settings recipe.Settings) (*Package, error) {
	var candidates []Package
	const q = `SELECT * FROM packages WHERE name = ? AND version = ? ORDER BY created_at DESC, package_id`
	if err := db.conn.SelectContext(ctx, &candidates, q, name, version); err != nil {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].Compatible(settings) {
			return &candidates[i], nil
		}
	}
	if len(candidates) > 0 {
		return nil, fmt.Errorf("%w: %s/%s for %s", ErrNotFound, name, version, settings)
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, name, version)
}

// Compatible reports whether the package can be consumed by a build with
// settings. Every setting the package was built for must have the same
// value; settings it did not record are free.
func (p *Package) Compatible(settings recipe.Settings) bool {
	if p.Settings == "" {
		return true
	}
	for _, pair := range strings.Split(p.Settings, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || v == "" {
			continue
		}
		if got, known := settings.Get(k); !known || got != v {
			return false
		}
	}
	return true
}

// List returns all packages ordered by reference.
func (db *DB) List(ctx context.Context) ([]Package, error) {
	var out []Package
	const q = `SELECT * FROM packages ORDER BY name, version, package_id`
	if err := db.conn.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// Remove deletes every package of name/version and returns what was removed.
func (db *DB) Remove(ctx context.Context, name, version string) ([]Package, error) {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var removed []Package
	if err := tx.SelectContext(ctx, &removed,
		`SELECT * FROM packages WHERE name = ? AND version = ?`, name, version); err != nil {
		return nil, err
	}
	if len(removed) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, name, version)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM packages WHERE name = ? AND version = ?`, name, version); err != nil {
		return nil, err
	}
	return removed, tx.Commit()
}
