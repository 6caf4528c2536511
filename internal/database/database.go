package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/charmbracelet/log"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	goosedb "github.com/pressly/goose/v3/database"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Backend identifies which SQL engine a connection talks to.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendTurso    Backend = "turso"
	BackendPostgres Backend = "postgres"
)

// DetectBackend picks the engine from the configured path and primary URL.
// A primary URL always means a remote libsql database.
func DetectBackend(dbPath, primaryURL string) Backend {
	switch {
	case primaryURL != "":
		return BackendTurso
	case strings.HasPrefix(dbPath, "postgres://"), strings.HasPrefix(dbPath, "postgresql://"):
		return BackendPostgres
	default:
		return BackendSQLite
	}
}

// Dialect returns the goose dialect used to migrate b.
func (b Backend) Dialect() goose.Dialect {
	switch b {
	case BackendTurso:
		return goosedb.DialectTurso
	case BackendPostgres:
		return goose.DialectPostgres
	default:
		return goose.DialectSQLite3
	}
}

// InitDB opens the database, bounds its connection pool and applies all
// pending migrations. The returned teardown closes the pool.
func InitDB(dbPath string, primaryURL string, authToken string, maxConns int) (*sql.DB, func(), error) {
	backend := DetectBackend(dbPath, primaryURL)

	var (
		db  *sql.DB
		err error
	)
	switch backend {
	case BackendTurso:
		log.Info("Initializing Turso database", "url", primaryURL)
		db, err = sql.Open("libsql", primaryURL+"?authToken="+authToken)
	case BackendPostgres:
		log.Info("Initializing Postgres database")
		db, err = sql.Open("pgx", dbPath)
	default:
		log.Info("Initializing local-only SQLite database", "path", dbPath)
		db, err = sql.Open("sqlite3", "file:"+dbPath+"?_busy_timeout=5000")
		// A single connection serialises writers; SQLite has no row-level locking.
		maxConns = 1
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}
	if err = migrate(db, backend.Dialect()); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to migrate %s database: %w", backend, err)
	}

	teardown := func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}
	return db, teardown, nil
}

func migrate(db *sql.DB, dialect goose.Dialect) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return err
	}
	results, err := provider.Up(context.Background())
	if err != nil {
		return err
	}
	for _, r := range results {
		log.Info("Applied migration", "version", r.Source.Version, "duration_ms", r.Duration.Milliseconds())
	}
	log.Info("Database initialized successfully")
	return nil
}
