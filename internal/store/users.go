package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"foodgram/internal/models"
)

// userColumns expects the viewer's id as $1 to compute is_subscribed.
const userColumns = `u.id, u.email, u.username, u.first_name, u.last_name,
	EXISTS(SELECT 1 FROM follows f WHERE f.user_id = $1 AND f.author_id = u.id) AS is_subscribed`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.IsSubscribed); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	err := s.q.QueryRow(ctx,
		`INSERT INTO users (email, username, first_name, last_name, password_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, is_active, created_at`,
		user.Email, user.Username, user.FirstName, user.LastName, user.PasswordHash).Scan(
		&user.ID, &user.IsActive, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", mapError(err))
	}
	return nil
}

// GetUser returns the user as seen by viewerID; viewerID 0 means anonymous.
func (s *Store) GetUser(ctx context.Context, id, viewerID int) (*models.User, error) {
	user, err := scanUser(s.q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.id = $2 AND u.is_active`,
		viewerID, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", mapError(err))
	}
	return user, nil
}

// GetUserByEmail includes the password hash for credential checks.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.q.QueryRow(ctx,
		`SELECT id, email, username, first_name, last_name, password_hash, is_active, created_at, last_login
		 FROM users WHERE LOWER(email) = LOWER($1)`,
		email).Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.LastLogin)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", mapError(err))
	}
	return &u, nil
}

func (s *Store) GetPasswordHash(ctx context.Context, id int) (string, error) {
	var hash string
	err := s.q.QueryRow(ctx, "SELECT password_hash FROM users WHERE id = $1", id).Scan(&hash)
	if err != nil {
		return "", fmt.Errorf("failed to get password hash: %w", mapError(err))
	}
	return hash, nil
}

func (s *Store) ListUsers(ctx context.Context, viewerID, limit, offset int) ([]models.User, int, error) {
	var count int
	if err := s.q.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE is_active").Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := s.q.Query(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.is_active
		 ORDER BY u.id LIMIT $2 OFFSET $3`,
		viewerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, count, nil
}

func (s *Store) UpdatePassword(ctx context.Context, id int, hash string) error {
	tag, err := s.q.Exec(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", hash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) TouchLastLogin(ctx context.Context, id int) error {
	if _, err := s.q.Exec(ctx, "UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}
