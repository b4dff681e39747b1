// Package sqlite persists stories, issues, failures, integration
// settings, users and audit logs in a single SQLite database.
package sqlite

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound reports a lookup miss for any entity. Lookups wrap it with
// the entity name, so errors.Is works across the store.
var ErrNotFound = errors.New("not found")

// Store wraps access to the SQLite database and exposes high level helpers.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open initializes a new SQLite store, runs migrations and seeds the
// fixed rows (profiles, Azure settings keys).
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=ON", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{db: conn, logger: logger}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := s.seed(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS user_stories (
            id TEXT PRIMARY KEY,
            demand_number TEXT NOT NULL,
            title TEXT NOT NULL,
            acceptance_criteria TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'new',
            priority TEXT NOT NULL DEFAULT 'medium',
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            created_by TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE TABLE IF NOT EXISTS issues (
            id TEXT PRIMARY KEY,
            issue_number TEXT NOT NULL UNIQUE,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            type TEXT NOT NULL DEFAULT 'bug',
            priority TEXT NOT NULL DEFAULT 'medium',
            status TEXT NOT NULL DEFAULT 'open',
            occurrence_type INTEGER NOT NULL DEFAULT 0,
            environment TEXT NOT NULL DEFAULT '',
            user_story_id TEXT,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            created_by TEXT NOT NULL DEFAULT '',
            FOREIGN KEY(user_story_id) REFERENCES user_stories(id) ON DELETE SET NULL
        );`,
		`CREATE TABLE IF NOT EXISTS failures (
            id TEXT PRIMARY KEY,
            failure_number TEXT NOT NULL UNIQUE,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            severity TEXT NOT NULL DEFAULT 'medium',
            status TEXT NOT NULL DEFAULT 'reported',
            activity TEXT NOT NULL DEFAULT '',
            occurred_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            environment TEXT NOT NULL DEFAULT '',
            issue_id TEXT,
            user_story_id TEXT,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            created_by TEXT NOT NULL DEFAULT '',
            FOREIGN KEY(issue_id) REFERENCES issues(id) ON DELETE SET NULL,
            FOREIGN KEY(user_story_id) REFERENCES user_stories(id) ON DELETE SET NULL
        );`,
		`CREATE TABLE IF NOT EXISTS attachments (
            id TEXT PRIMARY KEY,
            owner_id TEXT NOT NULL,
            file_name TEXT NOT NULL,
            content_type TEXT NOT NULL DEFAULT '',
            size INTEGER NOT NULL DEFAULT 0,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            created_by TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE INDEX IF NOT EXISTS idx_attachments_owner ON attachments(owner_id);`,
		`CREATE TABLE IF NOT EXISTS settings (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            key TEXT NOT NULL UNIQUE,
            value TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL DEFAULT '',
            is_secret INTEGER NOT NULL DEFAULT 0,
            is_active INTEGER NOT NULL DEFAULT 1,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_by TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE TABLE IF NOT EXISTS profiles (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL UNIQUE,
            description TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            nickname TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            profile_id TEXT NOT NULL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(profile_id) REFERENCES profiles(id)
        );`,
		`CREATE TABLE IF NOT EXISTS logs (
            id TEXT PRIMARY KEY,
            action TEXT NOT NULL,
            entity TEXT NOT NULL,
            entity_id TEXT NOT NULL DEFAULT '',
            user_id TEXT NOT NULL DEFAULT '',
            details TEXT NOT NULL DEFAULT '',
            level TEXT NOT NULL DEFAULT 'info',
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE INDEX IF NOT EXISTS idx_issues_story ON issues(user_story_id);`,
		`CREATE INDEX IF NOT EXISTS idx_failures_issue ON failures(issue_id);`,
		`CREATE INDEX IF NOT EXISTS idx_logs_entity ON logs(entity, entity_id);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// seed inserts the fixed profile rows and the Azure settings keys so the
// settings screen always has the three integration entries to fill in.
func (s *Store) seed() error {
	profiles := []struct{ name, description string }{
		{"Desenvolvedor", "Acesso de desenvolvimento"},
		{"Administrador", "Acesso administrativo completo"},
		{"Usuário", "Acesso padrão"},
	}
	for _, p := range profiles {
		if _, err := s.db.Exec(`INSERT INTO profiles(id, name, description) VALUES(?, ?, ?)
            ON CONFLICT(name) DO NOTHING`, newID(), p.name, p.description); err != nil {
			return fmt.Errorf("seed profile %s: %w", p.name, err)
		}
	}

	settings := []struct {
		key, description, category string
		secret                     bool
	}{
		{"Azure_Token", "Personal access token do Azure DevOps", "azure", true},
		{"Organizacao", "Organização do Azure DevOps", "azure", false},
		{"Versao_API", "Versão da API REST (padrão 7.0)", "azure", false},
	}
	for _, c := range settings {
		secret := 0
		if c.secret {
			secret = 1
		}
		if _, err := s.db.Exec(`INSERT INTO settings(key, value, description, category, is_secret, is_active)
            VALUES(?, '', ?, ?, ?, 0) ON CONFLICT(key) DO NOTHING`,
			c.key, c.description, c.category, secret); err != nil {
			return fmt.Errorf("seed setting %s: %w", c.key, err)
		}
	}
	return nil
}

// newID produces a random GUID-shaped identifier. The legacy records
// carried GUID keys, so the shape is kept for continuity.
func newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("reading random bytes: %v", err))
	}
	hexed := hex.EncodeToString(b[:])
	return hexed[0:8] + "-" + hexed[8:12] + "-" + hexed[12:16] + "-" + hexed[16:20] + "-" + hexed[20:32]
}
