package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"taskboard/internal/models"
)

// Store persists tasks and completion days in a SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open initializes a new SQLite store and runs the required migrations.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath))
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

	logger.Info("sqlite store ready", slog.String("path", dbPath))
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
		`CREATE TABLE IF NOT EXISTS tasks (
            id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            completed INTEGER NOT NULL DEFAULT 0,
            priority TEXT NOT NULL DEFAULT 'normal',
            estimate_value INTEGER,
            estimate_unit TEXT,
            created_at DATETIME NOT NULL,
            completed_at DATETIME
        );`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_created ON tasks(created_at);`,
		`CREATE TABLE IF NOT EXISTS completion_days (
            day TEXT PRIMARY KEY
        );`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// LoadTasks returns every stored task ordered by creation date.
func (s *Store) LoadTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, completed, priority, estimate_value, estimate_unit, created_at, completed_at
        FROM tasks ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var (
			t           models.Task
			value       sql.NullInt64
			unit        sql.NullString
			completedAt sql.NullTime
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.Priority, &value, &unit, &t.CreatedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if value.Valid {
			v := int(value.Int64)
			t.EstimateValue = &v
		}
		if unit.Valid {
			u := unit.String
			t.EstimateUnit = &u
		}
		if completedAt.Valid {
			at := completedAt.Time.UTC()
			t.CompletedAt = &at
		}
		t.CreatedAt = t.CreatedAt.UTC()
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// LoadDays returns the stored completion days.
func (s *Store) LoadDays(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT day FROM completion_days ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("list completion days: %w", err)
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan completion day: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// SaveTask inserts or replaces a task.
func (s *Store) SaveTask(ctx context.Context, t models.Task) error {
	return saveTask(ctx, s.db, t)
}

// SaveCompletion stores the toggled task and marks or unmarks day in one
// transaction.
func (s *Store) SaveCompletion(ctx context.Context, t models.Task, day string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveTask(ctx, tx, t); err != nil {
		return err
	}

	if t.Completed {
		_, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO completion_days(day) VALUES(?)`, day)
	} else {
		_, err = tx.ExecContext(ctx, `DELETE FROM completion_days WHERE day = ?`, day)
	}
	if err != nil {
		return fmt.Errorf("update completion day: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DeleteTask removes a task by id.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		s.logger.Warn("deleted task was not stored", slog.String("id", id))
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func saveTask(ctx context.Context, db execer, t models.Task) error {
	var completedAt sql.NullTime
	if t.CompletedAt != nil {
		completedAt = sql.NullTime{Time: t.CompletedAt.UTC(), Valid: true}
	}

	_, err := db.ExecContext(ctx, `INSERT INTO tasks(id, title, completed, priority, estimate_value, estimate_unit, created_at, completed_at)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            title = excluded.title,
            completed = excluded.completed,
            priority = excluded.priority,
            estimate_value = excluded.estimate_value,
            estimate_unit = excluded.estimate_unit,
            completed_at = excluded.completed_at`,
		t.ID, t.Title, t.Completed, t.Priority, t.EstimateValue, t.EstimateUnit, t.CreatedAt.UTC(), completedAt)
	if err != nil {
		return fmt.Errorf("upsert task: %w", err)
	}
	return nil
}
