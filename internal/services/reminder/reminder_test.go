package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-membership/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) LatestPayments(ctx context.Context) ([]*models.PaymentView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PaymentView), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, mandatory, immediate, msg).Error(0)
}

func day(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func newTestService(repo PaymentRepository, pub rabbitmq.Publisher, now time.Time) *Service {
	svc := New(repo, pub, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return now }
	return svc
}

func latest() []*models.PaymentView {
	return []*models.PaymentView{
		{Payment: models.Payment{StudentID: 1, PaidAt: day(2024, 1, 15), Plan: "monthly"}, StudentName: "Maria", StudentEmail: "maria@example.com"},
		{Payment: models.Payment{StudentID: 2, PaidAt: day(2024, 1, 15), Plan: "quarterly"}, StudentName: "Bruno"},
		{Payment: models.Payment{StudentID: 3, PaidAt: day(2024, 1, 15), Plan: "weekly"}, StudentName: "Carla"},
		{Payment: models.Payment{StudentID: 4, PaidAt: day(2023, 1, 10), Plan: "annual"}, StudentName: "Diego"},
	}
}

func TestService_RunOnce_PublishesOverdueOnly(t *testing.T) {
	repo := new(RepoMock)
	repo.On("LatestPayments", mock.Anything).Return(latest(), nil).Once()

	var notices []models.OverdueNotice
	pub := new(PublisherMock)
	pub.On("Publish", rabbitmq.Exchange, rabbitmq.OverdueRoutingKey, false, false, mock.Anything).
		Run(func(args mock.Arguments) {
			var n models.OverdueNotice
			require.NoError(t, json.Unmarshal(args.Get(4).(amqp.Publishing).Body, &n))
			notices = append(notices, n)
		}).Return(nil)

	published, err := newTestService(repo, pub, day(2024, 2, 20)).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, published)
	require.Len(t, notices, 2)

	assert.Equal(t, int64(1), notices[0].StudentID)
	assert.Equal(t, "maria@example.com", notices[0].Email)
	assert.True(t, day(2024, 2, 15).Equal(notices[0].DueDate))
	assert.Equal(t, 5, notices[0].DaysOverdue)

	assert.Equal(t, int64(4), notices[1].StudentID)
	assert.True(t, day(2024, 1, 10).Equal(notices[1].DueDate))
	assert.Equal(t, 41, notices[1].DaysOverdue)
}

func TestService_RunOnce_PublishErrorContinues(t *testing.T) {
	repo := new(RepoMock)
	repo.On("LatestPayments", mock.Anything).Return(latest(), nil).Once()

	pub := new(PublisherMock)
	pub.On("Publish", mock.Anything, mock.Anything, false, false, mock.Anything).
		Return(errors.New("channel closed")).Once()
	pub.On("Publish", mock.Anything, mock.Anything, false, false, mock.Anything).
		Return(nil).Once()

	published, err := newTestService(repo, pub, day(2024, 2, 20)).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, published)
	pub.AssertNumberOfCalls(t, "Publish", 2)
}

func TestService_RunOnce_RepositoryError(t *testing.T) {
	repo := new(RepoMock)
	repo.On("LatestPayments", mock.Anything).Return(nil, errors.New("db down")).Once()
	pub := new(PublisherMock)

	_, err := newTestService(repo, pub, day(2024, 2, 20)).RunOnce(context.Background())
	assert.ErrorContains(t, err, "services.reminder.RunOnce")
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

type countingRepo struct {
	calls atomic.Int32
}

func (r *countingRepo) LatestPayments(_ context.Context) ([]*models.PaymentView, error) {
	r.calls.Add(1)
	return nil, nil
}

func TestService_Run_ImmediateAndStopsOnCancel(t *testing.T) {
	repo := &countingRepo{}
	svc := newTestService(repo, new(PublisherMock), day(2024, 2, 20))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx, 20*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return repo.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestService_Run_NonPositiveIntervalUsesDefault(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Minute} {
		t.Run(interval.String(), func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("LatestPayments", mock.Anything).Return([]*models.PaymentView{}, nil).Once()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			svc := newTestService(repo, new(PublisherMock), day(2024, 2, 20))
			assert.NotPanics(t, func() { svc.Run(ctx, interval) })
			repo.AssertExpectations(t)
		})
	}
}
