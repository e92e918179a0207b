package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"quiz-gate/internal/logger"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const (
	createVersionTableQuery = `CREATE TABLE schema_migrations (VERSION NUMBER(19) PRIMARY KEY, APPLIED_AT TIMESTAMP DEFAULT SYSTIMESTAMP NOT NULL)`
	selectVersionQuery      = `SELECT MAX(VERSION) FROM schema_migrations`
	insertVersionQuery      = `INSERT INTO schema_migrations (VERSION) VALUES (:1)`
	deleteVersionQuery      = `DELETE FROM schema_migrations WHERE VERSION = :1`

	// ORA-00955: name is already used by an existing object
	oracleObjectExists = "ORA-00955"
)

// Migrator applies versioned SQL files to Oracle. Files follow the
// golang-migrate naming scheme (000001_name.up.sql / .down.sql) and each may
// hold several statements separated by semicolons.
type Migrator struct {
	db  *sqlx.DB
	src source.Driver
}

// NewMigrator reads migrations from dir inside fsys.
func NewMigrator(db *sqlx.DB, fsys fs.FS, dir string) (*Migrator, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}
	return &Migrator{db: db, src: src}, nil
}

// NewEmbeddedMigrator uses the migrations compiled into the binary.
func NewEmbeddedMigrator(db *sqlx.DB) (*Migrator, error) {
	return NewMigrator(db, embeddedMigrations, "migrations")
}

func (m *Migrator) Close() error {
	return m.src.Close()
}

// Version returns the highest applied version, 0 when none.
func (m *Migrator) Version(ctx context.Context) (uint, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return 0, err
	}
	var v sql.NullInt64
	if err := m.db.GetContext(ctx, &v, selectVersionQuery); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if !v.Valid {
		return 0, nil
	}
	return uint(v.Int64), nil
}

// Up applies every pending migration in order and returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	current, err := m.Version(ctx)
	if err != nil {
		return 0, err
	}

	applied := 0
	version, err := m.src.First()
	for err == nil {
		if version > current {
			if err := m.apply(ctx, version, true); err != nil {
				return applied, err
			}
			applied++
		}
		version, err = m.src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return applied, fmt.Errorf("failed to enumerate migrations: %w", err)
	}
	return applied, nil
}

// Down reverts up to steps applied migrations, newest first.
func (m *Migrator) Down(ctx context.Context, steps int) (int, error) {
	reverted := 0
	for reverted < steps {
		current, err := m.Version(ctx)
		if err != nil {
			return reverted, err
		}
		if current == 0 {
			break
		}
		if err := m.apply(ctx, current, false); err != nil {
			return reverted, err
		}
		reverted++
	}
	return reverted, nil
}

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, createVersionTableQuery); err != nil {
		if strings.Contains(err.Error(), oracleObjectExists) {
			return nil
		}
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}
	return nil
}

func (m *Migrator) apply(ctx context.Context, version uint, up bool) error {
	var (
		r          io.ReadCloser
		identifier string
		err        error
	)
	if up {
		r, identifier, err = m.src.ReadUp(version)
	} else {
		r, identifier, err = m.src.ReadDown(version)
	}
	if err != nil {
		return fmt.Errorf("failed to read migration %d: %w", version, err)
	}
	defer r.Close()

	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read migration %d: %w", version, err)
	}

	// Oracle DDL commits implicitly, so statements run one by one outside a transaction.
	for _, stmt := range splitStatements(string(body)) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", version, identifier, err)
		}
	}

	if up {
		_, err = m.db.ExecContext(ctx, insertVersionQuery, int64(version))
	} else {
		_, err = m.db.ExecContext(ctx, deleteVersionQuery, int64(version))
	}
	if err != nil {
		return fmt.Errorf("failed to record migration %d: %w", version, err)
	}

	direction := "up"
	if !up {
		direction = "down"
	}
	logger.Get().Info("Applied migration",
		zap.Uint("version", version),
		zap.String("name", identifier),
		zap.String("direction", direction))
	return nil
}

// splitStatements drops "--" comment lines and empty statements.
func splitStatements(script string) []string {
	var lines []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}

	var stmts []string
	for _, part := range strings.Split(strings.Join(lines, "\n"), ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
