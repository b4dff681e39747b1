package sqlite

import (
	"context"
	"fmt"

	"azurebridge/internal/models"
)

// AddLog records an audit event. Failures here should not break the
// operation being logged, so callers usually report and ignore the error.
func (s *Store) AddLog(ctx context.Context, entry models.LogEntry) error {
	switch entry.Level {
	case "":
		entry.Level = models.LogLevelInfo
	case models.LogLevelInfo, models.LogLevelWarning, models.LogLevelError, models.LogLevelSuccess:
	default:
		return fmt.Errorf("invalid log level %q", entry.Level)
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO logs(id, action, entity, entity_id, user_id, details, level)
        VALUES(?, ?, ?, ?, ?, ?, ?)`,
		newID(), entry.Action, entry.Entity, entry.EntityID, entry.UserID, entry.Details, entry.Level)
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

// ListLogs returns audit events newest first.
func (s *Store) ListLogs(ctx context.Context, limit int) ([]models.LogEntry, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, action, entity, entity_id, user_id, details, level, created_at
        FROM logs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	var entries []models.LogEntry
	for rows.Next() {
		var e models.LogEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.Entity, &e.EntityID, &e.UserID, &e.Details, &e.Level, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
