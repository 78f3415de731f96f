// Package reminder собирает воркер напоминаний о просроченных абонементах.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/gym-membership/internal/app/gym"
	"github.com/magabrotheeeer/gym-membership/internal/config"
	"github.com/magabrotheeeer/gym-membership/internal/lib/metrics"
	"github.com/magabrotheeeer/gym-membership/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	reminderservice "github.com/magabrotheeeer/gym-membership/internal/services/reminder"
	"github.com/magabrotheeeer/gym-membership/internal/storage/repository"
)

// App представляет приложение воркера напоминаний.
type App struct {
	service  *reminderservice.Service
	db       *repository.Storage
	conn     *amqp.Connection
	ch       *amqp.Channel
	metrics  *http.Server
	interval time.Duration
	logger   *slog.Logger
}

// New подключает RabbitMQ и хранилище и создаёт воркер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetReminderQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := gym.WaitForDB(ctx, cfg.StorageConnectionString, 10, 3*time.Second)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	return &App{
		service:  reminderservice.New(db, ch, logger),
		db:       db,
		conn:     conn,
		ch:       ch,
		metrics:  metrics.NewServer(cfg.MetricsAddress, 5*time.Second),
		interval: cfg.Interval,
		logger:   logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
}

// Run выполняет проверки до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	go func() {
		a.logger.Info("metrics server started", slog.String("address", a.metrics.Addr))
		if err := a.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", sl.Err(err))
		}
	}()

	a.service.Run(ctx, a.interval)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.metrics.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("failed to stop metrics server", sl.Err(err))
	}

	a.logger.Info("shutting down reminder worker")
	closeResources(a.ch, a.conn, a.logger)
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
	return nil
}
