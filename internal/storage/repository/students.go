package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

const studentColumns = `id, unit, name, cpf, birth_date, address, phone, email`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (*models.Student, error) {
	var st models.Student
	var birth sql.NullTime
	if err := row.Scan(&st.ID, &st.Unit, &st.Name, &st.CPF, &birth,
		&st.Address, &st.Phone, &st.Email); err != nil {
		return nil, err
	}
	if birth.Valid {
		st.BirthDate = &birth.Time
	}
	return &st, nil
}

// CreateStudent сохраняет студента и возвращает номер матрикулы.
func (s *Storage) CreateStudent(ctx context.Context, st models.Student) (int64, error) {
	const op = "storage.CreateStudent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO students (unit, name, cpf, birth_date, address, phone, email)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var id int64
	err := s.DB.QueryRowContext(ctx, query,
		st.Unit, st.Name, st.CPF, birthDateArg(st), st.Address, st.Phone, st.Email).Scan(&id)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return 0, fmt.Errorf("%s: %w", op, models.ErrDuplicateCPF)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ReadStudent возвращает студента по номеру матрикулы.
func (s *Storage) ReadStudent(ctx context.Context, id int64) (*models.Student, error) {
	const op = "storage.ReadStudent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	st, err := scanStudent(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// UpdateStudent перезаписывает данные студента и возвращает количество изменённых строк.
func (s *Storage) UpdateStudent(ctx context.Context, id int64, st models.Student) (int, error) {
	const op = "storage.UpdateStudent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE students
			  SET unit = $1, name = $2, cpf = $3, birth_date = $4,
			      address = $5, phone = $6, email = $7
			  WHERE id = $8`
	res, err := s.DB.ExecContext(ctx, query,
		st.Unit, st.Name, st.CPF, birthDateArg(st), st.Address, st.Phone, st.Email, id)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return 0, fmt.Errorf("%s: %w", op, models.ErrDuplicateCPF)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// RemoveStudent удаляет студента вместе с его оплатами.
func (s *Storage) RemoveStudent(ctx context.Context, id int64) (int, error) {
	const op = "storage.RemoveStudent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// ListStudents возвращает студентов по порядку матрикулы с пагинацией.
func (s *Storage) ListStudents(ctx context.Context, limit, offset int) ([]*models.Student, error) {
	const op = "storage.ListStudents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + studentColumns + ` FROM students ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result, err := collectStudents(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SearchStudents ищет студентов по матрикуле, CPF или части имени без учёта регистра.
// Часть имени сравнивается буквально, символы % и _ не являются шаблоном.
func (s *Storage) SearchStudents(ctx context.Context, field models.StudentSearchField, value string) ([]*models.Student, error) {
	const op = "storage.SearchStudents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where, arg, ok, err := studentFilter(field, value, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return []*models.Student{}, nil
	}

	query := `SELECT ` + studentColumns + ` FROM students WHERE ` + where + ` ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result, err := collectStudents(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func collectStudents(rows *sql.Rows) ([]*models.Student, error) {
	result := make([]*models.Student, 0)
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	return result, rows.Err()
}

// studentFilter строит условие WHERE по полю поиска. ok=false означает,
// что значение заведомо ничего не найдёт (например, нечисловая матрикула).
func studentFilter(field models.StudentSearchField, value, alias string) (string, any, bool, error) {
	col := func(name string) string {
		if alias == "" {
			return name
		}
		return alias + "." + name
	}
	switch field {
	case models.SearchByID:
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return "", nil, false, nil
		}
		return col("id") + ` = $1`, id, true, nil
	case models.SearchByCPF:
		return col("cpf") + ` = $1`, value, true, nil
	case models.SearchByName:
		return `strpos(LOWER(` + col("name") + `), LOWER($1)) > 0`, value, true, nil
	default:
		return "", nil, false, models.ErrUnknownSearchField
	}
}

func birthDateArg(st models.Student) any {
	if st.BirthDate == nil || st.BirthDate.IsZero() {
		return nil
	}
	return *st.BirthDate
}
