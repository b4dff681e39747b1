package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"azurebridge/internal/models"
)

// GetSettingsByKeys resolves active settings values for the given keys.
// Inactive and missing keys are simply absent from the result map. This
// is the credential source the Azure synchronizer reads on every call.
func (s *Store) GetSettingsByKeys(ctx context.Context, keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		var value string
		err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ? AND is_active = 1`, key).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get setting %s: %w", key, err)
		}
		values[key] = value
	}
	return values, nil
}

// ListSettings returns all settings rows ordered by category and key.
func (s *Store) ListSettings(ctx context.Context) ([]models.Setting, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, key, value, description, category, is_secret, is_active, created_at, updated_at, updated_by
        FROM settings ORDER BY category, key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []models.Setting
	for rows.Next() {
		var st models.Setting
		if err := rows.Scan(&st.ID, &st.Key, &st.Value, &st.Description, &st.Category, &st.IsSecret, &st.IsActive, &st.CreatedAt, &st.UpdatedAt, &st.UpdatedBy); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings = append(settings, st)
	}
	return settings, rows.Err()
}

// CreateSetting inserts a new settings row. Keys are unique.
func (s *Store) CreateSetting(ctx context.Context, st models.Setting) (models.Setting, error) {
	if strings.TrimSpace(st.Key) == "" {
		return models.Setting{}, fmt.Errorf("setting key must not be empty")
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO settings(key, value, description, category, is_secret, is_active, updated_by)
        VALUES(?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(st.Key), st.Value, st.Description, st.Category, st.IsSecret, st.IsActive, st.UpdatedBy)
	if err != nil {
		return models.Setting{}, fmt.Errorf("insert setting: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Setting{}, fmt.Errorf("setting id: %w", err)
	}
	return s.GetSetting(ctx, id)
}

// UpdateSetting changes the value and flags of an existing settings row.
func (s *Store) UpdateSetting(ctx context.Context, id int64, st models.Setting) (models.Setting, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE settings SET value = ?, description = ?, category = ?, is_secret = ?, is_active = ?, updated_by = ?, updated_at = CURRENT_TIMESTAMP
        WHERE id = ?`, st.Value, st.Description, st.Category, st.IsSecret, st.IsActive, st.UpdatedBy, id)
	if err != nil {
		return models.Setting{}, fmt.Errorf("update setting: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Setting{}, err
	}
	if affected == 0 {
		return models.Setting{}, fmt.Errorf("setting %w", ErrNotFound)
	}
	return s.GetSetting(ctx, id)
}

// GetSetting fetches one settings row by id.
func (s *Store) GetSetting(ctx context.Context, id int64) (models.Setting, error) {
	var st models.Setting
	err := s.db.QueryRowContext(ctx, `SELECT id, key, value, description, category, is_secret, is_active, created_at, updated_at, updated_by
        FROM settings WHERE id = ?`, id).
		Scan(&st.ID, &st.Key, &st.Value, &st.Description, &st.Category, &st.IsSecret, &st.IsActive, &st.CreatedAt, &st.UpdatedAt, &st.UpdatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Setting{}, fmt.Errorf("setting %w", ErrNotFound)
	}
	if err != nil {
		return models.Setting{}, fmt.Errorf("get setting: %w", err)
	}
	return st, nil
}
