// Package sqlite implements the repository interfaces using SQLite as
// the storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go
// translation of the SQLite sources; works everywhere Go works.
//
// The pattern throughout this package is the standard database/sql
// flow: QueryRowContext/QueryContext/ExecContext with placeholders,
// then Scan into the model structs. sql.DB is a connection pool, not a
// single connection; safe for concurrent request handlers.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/gosimple/slug"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository
// methods. One struct implements every repository interface; the
// tables live in one file and share transactions naturally.
type DB struct {
	conn *sql.DB
}

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/tutorhub.db" → file-based database (persistent)
//   - ":memory:"         → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Force an immediate connection so a bad path surfaces here, not on
	// the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in progress,
	// required for a web server with pooled connections.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Per-table stores. Each wraps the same connection pool and implements
// one repository interface, so method sets stay small and names don't
// collide (Users().GetByID vs Subjects().GetByID).

type UserStore struct{ conn *sql.DB }

type ClassStore struct{ conn *sql.DB }

type SubjectStore struct{ conn *sql.DB }

type ConnectionStore struct{ conn *sql.DB }

func (db *DB) Users() *UserStore             { return &UserStore{conn: db.conn} }
func (db *DB) Classes() *ClassStore          { return &ClassStore{conn: db.conn} }
func (db *DB) Subjects() *SubjectStore       { return &SubjectStore{conn: db.conn} }
func (db *DB) Connections() *ConnectionStore { return &ConnectionStore{conn: db.conn} }

// subjects is the fixed taxonomy classes are filed under. Seeded once;
// INSERT OR IGNORE keeps re-runs idempotent.
var subjects = []string{
	"Artes",
	"Biologia",
	"Ciências",
	"Educação Física",
	"Física",
	"Geografia",
	"História",
	"Matemática",
	"Português",
	"Química",
}

// migrate creates the schema and seeds the subject taxonomy.
//
// CREATE TABLE IF NOT EXISTS is safe to run on every boot. A dedicated
// migration tool only pays off once the schema needs versioned ALTERs
// across deployed instances; a single-file SQLite deployment does not.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id                     INTEGER PRIMARY KEY AUTOINCREMENT,
			name                   TEXT NOT NULL,
			surname                TEXT NOT NULL,
			email                  TEXT NOT NULL UNIQUE,
			password               TEXT NOT NULL,
			whatsapp               TEXT,
			bio                    TEXT,
			avatar                 TEXT NOT NULL DEFAULT '',
			password_token         TEXT,
			password_token_expires DATETIME,
			created_at             DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS subjects (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			slug TEXT NOT NULL UNIQUE
		);
	`)
	if err != nil {
		return fmt.Errorf("creating subjects table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS classes (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL REFERENCES users(id),
			subject_id INTEGER NOT NULL REFERENCES subjects(id),
			cost       REAL NOT NULL,
			summary    TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_classes_user_id ON classes(user_id);
		CREATE INDEX IF NOT EXISTS idx_classes_subject_id ON classes(subject_id);

		CREATE TABLE IF NOT EXISTS class_schedule (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			class_id     INTEGER NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
			week_day     INTEGER NOT NULL,
			from_minutes INTEGER NOT NULL,
			to_minutes   INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_class_schedule_class_id ON class_schedule(class_id);

		CREATE TABLE IF NOT EXISTS connections (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL REFERENCES users(id),
			subject_id INTEGER REFERENCES subjects(id),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating class tables: %w", err)
	}

	for _, name := range subjects {
		_, err = db.conn.Exec(
			`INSERT OR IGNORE INTO subjects (name, slug) VALUES (?, ?)`,
			name, slug.Make(name),
		)
		if err != nil {
			return fmt.Errorf("seeding subject %q: %w", name, err)
		}
	}

	return nil
}
