package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// dateLayout is how checkout and due dates are persisted. The legacy data
// used bare dates, so times of day are deliberately not stored.
const dateLayout = "2006-01-02"

// loanPeriod is how long a checked-out copy stays out before it is due.
const loanPeriod = 14 * 24 * time.Hour

// defaultCopies is the availability every new catalog entry starts with.
const defaultCopies = 2

// Database provides high-level helpers around a SQLite connection.
type Database struct {
	db *sql.DB

	// now is the clock used for checkout dates; tests override it.
	now func() time.Time

	// passwords turns plaintext credentials into stored form and back.
	passwords PasswordScheme

	addBookStmt *sql.Stmt
	addUserStmt *sql.Stmt
}

// NewDatabase opens (or creates) the SQLite database at dbPath, applies schema
// migrations, and prepares common statements.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Enable busy_timeout and foreign keys.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	database := &Database{
		db:        db,
		now:       time.Now,
		passwords: PlainScheme{},
	}
	if err := database.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

// UsePasswordScheme swaps the credential scheme. Call before any accounts are
// created; records written under one scheme do not verify under another.
func (d *Database) UsePasswordScheme(s PasswordScheme) {
	d.passwords = s
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	if d.addBookStmt != nil {
		d.addBookStmt.Close()
	}
	if d.addUserStmt != nil {
		d.addUserStmt.Close()
	}
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            userId INTEGER PRIMARY KEY AUTOINCREMENT,
            firstName TEXT NOT NULL,
            lastName TEXT NOT NULL,
            userName TEXT NOT NULL UNIQUE COLLATE NOCASE,
            password TEXT NOT NULL,
            access INTEGER NOT NULL DEFAULT 2
        );`,
		`CREATE TABLE IF NOT EXISTS books (
            bookId INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            subject TEXT NOT NULL,
            author TEXT NOT NULL,
            details TEXT NOT NULL,
            available INTEGER NOT NULL CHECK (available >= 0)
        );`,
		`CREATE TABLE IF NOT EXISTS checkouts (
            checkoutId INTEGER PRIMARY KEY AUTOINCREMENT,
            userId INTEGER NOT NULL REFERENCES users(userId),
            bookId INTEGER NOT NULL REFERENCES books(bookId),
            checkoutDate TEXT NOT NULL,
            dueDate TEXT NOT NULL,
            UNIQUE(userId, bookId)
        );`,
		`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt, schemaVersion); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (d *Database) prepareStatements() error {
	var err error
	if d.addBookStmt, err = d.db.Prepare(`INSERT INTO books(title,subject,author,details,available) VALUES(?,?,?,?,?)`); err != nil {
		return err
	}
	if d.addUserStmt, err = d.db.Prepare(`INSERT INTO users(firstName,lastName,userName,password,access) VALUES(?,?,?,?,?)`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Date helpers
// ---------------------------------------------------------------------------

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored date %q: %w", s, err)
	}
	return t, nil
}
