// Package student содержит бизнес-логику работы со студентами и кэшированием их карточек.
package student

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/gym-membership/internal/cache"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Repository методы хранилища, нужные сервису студентов.
type Repository interface {
	CreateStudent(ctx context.Context, st models.Student) (int64, error)
	ReadStudent(ctx context.Context, id int64) (*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, st models.Student) (int, error)
	RemoveStudent(ctx context.Context, id int64) (int, error)
	ListStudents(ctx context.Context, limit, offset int) ([]*models.Student, error)
	SearchStudents(ctx context.Context, field models.StudentSearchField, value string) ([]*models.Student, error)
}

// Cache кэш карточек студентов.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service бизнес-логика студентов.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создаёт Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// FromRequest проверяет дату рождения и собирает models.Student из тела запроса.
func FromRequest(req models.DummyStudent) (models.Student, error) {
	st := models.Student{
		Unit:    strings.TrimSpace(req.Unit),
		Name:    strings.TrimSpace(req.Name),
		CPF:     strings.TrimSpace(req.CPF),
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	}
	if req.BirthDate != "" {
		birth, err := time.Parse(models.DateLayout, req.BirthDate)
		if err != nil {
			return models.Student{}, models.ErrInvalidDate
		}
		st.BirthDate = &birth
	}
	return st, nil
}

// Create регистрирует студента и возвращает номер матрикулы.
func (s *Service) Create(ctx context.Context, req models.DummyStudent) (int64, error) {
	const op = "services.student.Create"
	st, err := FromRequest(req)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateStudent(ctx, st)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	st.ID = id
	s.log.Info("student enrolled", sl.Student(id))

	s.store(ctx, &st)
	return id, nil
}

// Read возвращает студента из кэша или из хранилища.
func (s *Service) Read(ctx context.Context, id int64) (*models.Student, error) {
	const op = "services.student.Read"
	key := cache.StudentKey(id)

	var cached models.Student
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read student from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	st, err := s.repo.ReadStudent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.store(ctx, st)
	return st, nil
}

// Update перезаписывает данные студента. Отсутствие студента даёт models.ErrNotFound.
func (s *Service) Update(ctx context.Context, id int64, req models.DummyStudent) error {
	const op = "services.student.Update"
	st, err := FromRequest(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := s.repo.UpdateStudent(ctx, id, st)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	st.ID = id
	s.store(ctx, &st)
	return nil
}

// Remove удаляет студента, затем его карточку из кэша.
// Кэш чистится только после удаления строки в базе.
func (s *Service) Remove(ctx context.Context, id int64) error {
	const op = "services.student.Remove"

	n, err := s.repo.RemoveStudent(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	key := cache.StudentKey(id)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove student from cache", slog.String("key", key), sl.Err(err))
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	s.log.Info("student removed", sl.Student(id))
	return nil
}

// List возвращает страницу студентов.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.Student, error) {
	const op = "services.student.List"
	res, err := s.repo.ListStudents(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// Search ищет студентов по полю by: id, name или cpf.
func (s *Service) Search(ctx context.Context, by, value string) ([]*models.Student, error) {
	const op = "services.student.Search"
	field, err := models.ParseSearchField(by)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	res, err := s.repo.SearchStudents(ctx, field, strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

func (s *Service) store(ctx context.Context, st *models.Student) {
	key := cache.StudentKey(st.ID)
	if err := s.cache.Set(ctx, key, st, cache.StudentTTL); err != nil {
		s.log.Warn("failed to cache student", slog.String("key", key), sl.Err(err))
	}
}
