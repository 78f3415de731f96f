package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// CreateUser сохраняет учётную запись. Занятое имя даёт models.ErrUserExists.
func (s *Storage) CreateUser(ctx context.Context, u models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (uid, username, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid`
	var uid string
	err := s.DB.QueryRowContext(ctx, query, u.UID, u.Username, u.PasswordHash, u.Role).Scan(&uid)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return "", fmt.Errorf("%s: %w", op, models.ErrUserExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// GetUserByUsername возвращает учётную запись по имени.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, password_hash, role, created_at
			  FROM users
			  WHERE username = $1`
	var u models.User
	err := s.DB.QueryRowContext(ctx, query, username).
		Scan(&u.UID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

// ListUsers возвращает учётные записи, при непустом role только с этой ролью.
func (s *Storage) ListUsers(ctx context.Context, role string) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, role, created_at
			  FROM users
			  WHERE $1::text = '' OR role = $1
			  ORDER BY username`
	rows, err := s.DB.QueryContext(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.UID, &u.Username, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdatePassword меняет хеш пароля и возвращает количество изменённых строк.
func (s *Storage) UpdatePassword(ctx context.Context, username, passwordHash string) (int, error) {
	const op = "storage.UpdatePassword"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE username = $2`,
		passwordHash, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// RemoveUser удаляет учётную запись и возвращает количество удалённых строк.
func (s *Storage) RemoveUser(ctx context.Context, username string) (int, error) {
	const op = "storage.RemoveUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
