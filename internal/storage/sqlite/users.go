package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"azurebridge/internal/models"
)

// CreateUser persists a new account. The password must already be hashed
// by the caller.
func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	if strings.TrimSpace(u.Email) == "" {
		return models.User{}, fmt.Errorf("user email must not be empty")
	}
	u.ID = newID()
	_, err := s.db.ExecContext(ctx, `INSERT INTO users(id, name, nickname, email, password, profile_id)
        VALUES(?, ?, ?, ?, ?, ?)`,
		u.ID, strings.TrimSpace(u.Name), strings.TrimSpace(u.Nickname), strings.ToLower(strings.TrimSpace(u.Email)), u.Password, u.ProfileID)
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return s.GetUserByEmail(ctx, u.Email)
}

// GetUserByEmail fetches a user with the profile joined in.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	var p models.Profile
	err := s.db.QueryRowContext(ctx, `SELECT u.id, u.name, u.nickname, u.email, u.password, u.profile_id, u.created_at, p.id, p.name, p.description
        FROM users u JOIN profiles p ON p.id = u.profile_id WHERE u.email = ?`, strings.ToLower(strings.TrimSpace(email))).
		Scan(&u.ID, &u.Name, &u.Nickname, &u.Email, &u.Password, &u.ProfileID, &u.CreatedAt, &p.ID, &p.Name, &p.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user %w", ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	u.Profile = &p
	return u, nil
}

// ListUsers returns all accounts with profiles joined in.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT u.id, u.name, u.nickname, u.email, u.profile_id, u.created_at, p.id, p.name, p.description
        FROM users u JOIN profiles p ON p.id = u.profile_id ORDER BY u.name`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		var p models.Profile
		if err := rows.Scan(&u.ID, &u.Name, &u.Nickname, &u.Email, &u.ProfileID, &u.CreatedAt, &p.ID, &p.Name, &p.Description); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Profile = &p
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListProfiles returns the access profiles.
func (s *Store) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description FROM profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Description); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// GetProfileByName resolves a profile by display name.
func (s *Store) GetProfileByName(ctx context.Context, name string) (models.Profile, error) {
	var p models.Profile
	err := s.db.QueryRowContext(ctx, `SELECT id, name, description FROM profiles WHERE name = ?`, name).
		Scan(&p.ID, &p.Name, &p.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, fmt.Errorf("profile %w", ErrNotFound)
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}
