package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/gym-membership/internal/migrations"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("gym_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = storage.Close()
	})

	path, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, path))

	return storage
}

// TestDataFactory создаёт тестовые данные напрямую через SQL.
type TestDataFactory struct {
	storage *Storage
}

func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateStudent создаёт студента и возвращает его матрикулу.
func (f *TestDataFactory) CreateStudent(t *testing.T, name, cpf string) int64 {
	t.Helper()
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO students (unit, name, cpf, email, phone)
		VALUES ('Centro', $1, $2, $3, '+55 11 99999-0000') RETURNING id`,
		name, cpf, cpf+"@example.com").Scan(&id)
	require.NoError(t, err)
	return id
}

// CreatePayment создаёт оплату и возвращает её код.
func (f *TestDataFactory) CreatePayment(t *testing.T, studentID int64, paidAt time.Time, plan string, amount float64) int64 {
	t.Helper()
	var code int64
	err := f.storage.DB.QueryRow(`INSERT INTO payments (student_id, paid_at, plan, amount)
		VALUES ($1, $2, $3, $4) RETURNING code`,
		studentID, paidAt, plan, amount).Scan(&code)
	require.NoError(t, err)
	return code
}

// CreateUser создаёт учётную запись персонала.
func (f *TestDataFactory) CreateUser(t *testing.T, username, role string) string {
	t.Helper()
	uid := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, username, password_hash, role)
		VALUES ($1, $2, 'hashedpassword', $3)`, uid, username, role)
	require.NoError(t, err)
	return uid
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testStudent(name, cpf string) models.Student {
	birth := day(1995, 3, 10)
	return models.Student{
		Unit:      "Centro",
		Name:      name,
		CPF:       cpf,
		BirthDate: &birth,
		Address:   "Rua das Flores, 10",
		Phone:     "+55 11 98888-7777",
		Email:     "aluno@example.com",
	}
}
