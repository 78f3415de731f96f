package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

const paymentViewColumns = `p.code, p.student_id, p.paid_at, p.plan, p.amount::float8,
	s.name, s.cpf, s.email, s.phone, s.unit`

const paymentViewFrom = ` FROM payments p JOIN students s ON s.id = p.student_id`

func scanPaymentView(row rowScanner) (*models.PaymentView, error) {
	var v models.PaymentView
	if err := row.Scan(&v.Code, &v.StudentID, &v.PaidAt, &v.Plan, &v.Amount,
		&v.StudentName, &v.StudentCPF, &v.StudentEmail, &v.StudentPhone, &v.Unit); err != nil {
		return nil, err
	}
	return &v, nil
}

func collectPaymentViews(rows *sql.Rows) ([]*models.PaymentView, error) {
	result := make([]*models.PaymentView, 0)
	for rows.Next() {
		v, err := scanPaymentView(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

// CreatePayment сохраняет оплату и возвращает её код.
// Несуществующий студент даёт models.ErrNotFound.
func (s *Storage) CreatePayment(ctx context.Context, p models.Payment) (int64, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (student_id, paid_at, plan, amount)
			  VALUES ($1, $2, $3, $4)
			  RETURNING code`
	var code int64
	err := s.DB.QueryRowContext(ctx, query, p.StudentID, p.PaidAt, p.Plan, p.Amount).Scan(&code)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return 0, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return code, nil
}

// ListPayments возвращает оплаты от новых к старым с пагинацией.
func (s *Storage) ListPayments(ctx context.Context, limit, offset int) ([]*models.PaymentView, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentViewColumns + paymentViewFrom + `
			  ORDER BY p.paid_at DESC, p.code DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result, err := collectPaymentViews(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SearchPayments ищет оплаты по данным студента.
func (s *Storage) SearchPayments(ctx context.Context, field models.StudentSearchField, value string) ([]*models.PaymentView, error) {
	const op = "storage.SearchPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where, arg, ok, err := studentFilter(field, value, "s")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return []*models.PaymentView{}, nil
	}

	query := `SELECT ` + paymentViewColumns + paymentViewFrom + `
			  WHERE ` + where + `
			  ORDER BY p.paid_at DESC, p.code DESC`
	rows, err := s.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result, err := collectPaymentViews(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// LatestPayment возвращает последнюю оплату студента.
// При одинаковой дате последней считается оплата с большим кодом.
func (s *Storage) LatestPayment(ctx context.Context, studentID int64) (*models.Payment, error) {
	const op = "storage.LatestPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT code, student_id, paid_at, plan, amount::float8
			  FROM payments
			  WHERE student_id = $1
			  ORDER BY paid_at DESC, code DESC
			  LIMIT 1`
	var p models.Payment
	err := s.DB.QueryRowContext(ctx, query, studentID).
		Scan(&p.Code, &p.StudentID, &p.PaidAt, &p.Plan, &p.Amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// LatestPayments возвращает последнюю оплату каждого студента, у которого они есть.
func (s *Storage) LatestPayments(ctx context.Context) ([]*models.PaymentView, error) {
	const op = "storage.LatestPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT DISTINCT ON (p.student_id) ` + paymentViewColumns + paymentViewFrom + `
			  ORDER BY p.student_id, p.paid_at DESC, p.code DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result, err := collectPaymentViews(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
