// Package reminder периодически находит просроченные абонементы
// и публикует напоминания в RabbitMQ.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/gym-membership/internal/lib/metrics"
	"github.com/magabrotheeeer/gym-membership/internal/lib/month"
	"github.com/magabrotheeeer/gym-membership/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/membership"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// DefaultInterval период проверки, если задан неположительный интервал.
const DefaultInterval = 24 * time.Hour

// PaymentRepository источник последних оплат студентов.
type PaymentRepository interface {
	LatestPayments(ctx context.Context) ([]*models.PaymentView, error)
}

// Service воркер напоминаний.
type Service struct {
	repo      PaymentRepository
	publisher rabbitmq.Publisher
	log       *slog.Logger
	now       func() time.Time
}

// New создаёт Service.
func New(repo PaymentRepository, publisher rabbitmq.Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Run выполняет проверку сразу и затем каждые interval, пока не отменён ctx.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		s.log.Warn("non-positive reminder interval, using default",
			slog.Duration("interval", interval),
			slog.Duration("default", DefaultInterval),
		)
		interval = DefaultInterval
	}
	s.log.Info("reminder worker started", slog.Duration("interval", interval))
	s.runOnceLogged(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("reminder worker stopped")
			return
		case <-ticker.C:
			s.runOnceLogged(ctx)
		}
	}
}

func (s *Service) runOnceLogged(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil {
		s.log.Error("reminder run failed", sl.Err(err))
	}
}

// RunOnce публикует напоминание для каждого просроченного абонемента
// и возвращает количество опубликованных сообщений. Ошибка публикации
// одного сообщения не останавливает остальные.
func (s *Service) RunOnce(ctx context.Context) (int, error) {
	const op = "services.reminder.RunOnce"

	views, err := s.repo.LatestPayments(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	ref := s.now()
	today := month.Civil(ref)
	published := 0
	for _, v := range views {
		res := membership.Evaluate(&v.PaidAt, v.Plan, ref)
		if res.Status != membership.StatusOverdue {
			continue
		}
		notice := models.OverdueNotice{
			StudentID:   v.StudentID,
			StudentName: v.StudentName,
			Email:       v.StudentEmail,
			Phone:       v.StudentPhone,
			Plan:        v.Plan,
			LastPayment: v.PaidAt,
			DueDate:     *res.DueDate,
			DaysOverdue: int(today.Sub(*res.DueDate).Hours() / 24),
			CheckedAt:   ref,
		}
		if err := rabbitmq.PublishMessage(s.publisher, rabbitmq.Exchange, rabbitmq.OverdueRoutingKey, notice); err != nil {
			s.log.Error("failed to publish overdue notice", sl.Student(v.StudentID), sl.Err(err))
			continue
		}
		published++
		metrics.OverdueNotices.Inc()
	}

	s.log.Info("reminder run finished",
		slog.Int("checked", len(views)),
		slog.Int("published", published),
	)
	return published, nil
}
