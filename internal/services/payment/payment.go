// Package payment регистрирует оплаты абонементов и вычисляет их статус при чтении.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/gym-membership/internal/lib/metrics"
	"github.com/magabrotheeeer/gym-membership/internal/lib/month"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/membership"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Repository методы хранилища, нужные сервису оплат.
type Repository interface {
	ReadStudent(ctx context.Context, id int64) (*models.Student, error)
	CreatePayment(ctx context.Context, p models.Payment) (int64, error)
	ListPayments(ctx context.Context, limit, offset int) ([]*models.PaymentView, error)
	SearchPayments(ctx context.Context, field models.StudentSearchField, value string) ([]*models.PaymentView, error)
	LatestPayment(ctx context.Context, studentID int64) (*models.Payment, error)
	LatestPayments(ctx context.Context) ([]*models.PaymentView, error)
}

// Service бизнес-логика оплат.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// New создаёт Service с системными часами.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Record регистрирует оплату и возвращает её код. План сохраняется
// в каноническом виде, пустая дата означает сегодня.
func (s *Service) Record(ctx context.Context, req models.DummyPayment) (int64, error) {
	const op = "services.payment.Record"

	plan, ok := membership.ParsePlan(req.Plan)
	if !ok {
		return 0, fmt.Errorf("%s: %w", op, models.ErrUnknownPlan)
	}
	if req.Amount <= 0 {
		return 0, fmt.Errorf("%s: %w", op, models.ErrInvalidAmount)
	}

	paidAt := month.Civil(s.now())
	if raw := strings.TrimSpace(req.PaidAt); raw != "" {
		t, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, models.ErrInvalidDate)
		}
		paidAt = t
	}

	code, err := s.repo.CreatePayment(ctx, models.Payment{
		StudentID: req.StudentID,
		PaidAt:    paidAt,
		Plan:      plan.String(),
		Amount:    req.Amount,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("payment recorded",
		slog.Int64("code", code),
		sl.Student(req.StudentID),
		slog.String("plan", plan.String()),
	)
	return code, nil
}

// List возвращает страницу оплат со статусом на текущую дату.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.PaymentView, error) {
	const op = "services.payment.List"
	views, err := s.repo.ListPayments(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.annotate(views, s.now())
	return views, nil
}

// Search ищет оплаты по полю студента by: id, name или cpf.
func (s *Service) Search(ctx context.Context, by, value string) ([]*models.PaymentView, error) {
	const op = "services.payment.Search"
	field, err := models.ParseSearchField(by)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	views, err := s.repo.SearchPayments(ctx, field, strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.annotate(views, s.now())
	return views, nil
}

// StudentMembership вычисляет статус абонемента студента по его последней оплате.
// У студента без оплат нет даты для проверки, поэтому статус invalid-date.
func (s *Service) StudentMembership(ctx context.Context, studentID int64) (*models.StudentMembership, error) {
	const op = "services.payment.StudentMembership"

	if _, err := s.repo.ReadStudent(ctx, studentID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ref := s.now()
	res := &models.StudentMembership{StudentID: studentID, Reference: month.Civil(ref)}

	last, err := s.repo.LatestPayment(ctx, studentID)
	switch {
	case errors.Is(err, models.ErrNotFound):
		res.Result = membership.Result{Status: membership.StatusInvalidDate}
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	default:
		res.LastPayment = last
		res.Result = membership.Evaluate(&last.PaidAt, last.Plan, ref)
	}
	metrics.Observe(res.Status)
	return res, nil
}

// StatusReport собирает последние оплаты всех студентов со статусами.
// filter пустой или "all" возвращает все строки, иначе только строки с этим статусом.
// Counts всегда считаются по всем строкам.
func (s *Service) StatusReport(ctx context.Context, filter string) (*models.StatusReport, error) {
	const op = "services.payment.StatusReport"

	var want membership.Status
	if filter != "" && filter != "all" {
		st, ok := membership.ParseStatus(filter)
		if !ok {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUnknownStatus)
		}
		want = st
	}

	views, err := s.repo.LatestPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ref := s.now()
	s.annotate(views, ref)

	report := &models.StatusReport{
		ReferenceDate: month.Civil(ref),
		Counts:        make(map[membership.Status]int, len(membership.Statuses)),
		Items:         make([]models.PaymentView, 0, len(views)),
	}
	for _, st := range membership.Statuses {
		report.Counts[st] = 0
	}
	for _, v := range views {
		report.Counts[v.Status]++
		metrics.Observe(v.Status)
		if want == "" || v.Status == want {
			report.Items = append(report.Items, *v)
		}
	}
	return report, nil
}

func (s *Service) annotate(views []*models.PaymentView, ref time.Time) {
	for _, v := range views {
		v.Result = membership.Evaluate(&v.PaidAt, v.Plan, ref)
	}
}
