// Package account управляет учётными записями персонала и выдачей токенов доступа.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/gym-membership/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-membership/internal/lib/password"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// UserRepository контракт хранилища учётных записей.
type UserRepository interface {
	CreateUser(ctx context.Context, u models.User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context, role string) ([]*models.User, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) (int, error)
	RemoveUser(ctx context.Context, username string) (int, error)
}

// Service регистрирует сотрудников, проверяет пароли и выпускает JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// New создаёт Service.
func New(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Login проверяет пароль и возвращает токен вместе с учётной записью.
// Неизвестное имя и неверный пароль неразличимы для вызывающего.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (string, *models.User, error) {
	const op = "services.account.Login"
	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return "", nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	token, err := s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user logged in", slog.String("username", user.Username), slog.String("role", user.Role))
	return token, user, nil
}

// Create заводит учётную запись и возвращает её UID.
func (s *Service) Create(ctx context.Context, username, rawPassword, role string) (string, error) {
	const op = "services.account.Create"
	if !models.ValidRole(role) {
		return "", fmt.Errorf("%s: %w", op, models.ErrUnknownRole)
	}
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	uid, err := s.users.CreateUser(ctx, models.User{
		UID:          uuid.NewString(),
		Username:     username,
		PasswordHash: hashed,
		Role:         role,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("account created", slog.String("username", username), slog.String("role", role))
	return uid, nil
}

// List возвращает учётные записи, при непустом role только с этой ролью.
func (s *Service) List(ctx context.Context, role string) ([]*models.User, error) {
	const op = "services.account.List"
	if role != "" && !models.ValidRole(role) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnknownRole)
	}
	users, err := s.users.ListUsers(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// UpdatePassword задаёт новый пароль учётной записи.
func (s *Service) UpdatePassword(ctx context.Context, username, rawPassword string) error {
	const op = "services.account.UpdatePassword"
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := s.users.UpdatePassword(ctx, username, hashed)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	s.log.Info("password updated", slog.String("username", username))
	return nil
}

// Remove удаляет учётную запись.
func (s *Service) Remove(ctx context.Context, username string) error {
	const op = "services.account.Remove"
	n, err := s.users.RemoveUser(ctx, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	s.log.Info("account removed", slog.String("username", username))
	return nil
}
