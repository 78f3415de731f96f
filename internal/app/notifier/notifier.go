// Package notifier собирает приложение, которое читает очередь напоминаний
// и отправляет студентам письма.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/gym-membership/internal/config"
	"github.com/magabrotheeeer/gym-membership/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/gym-membership/internal/services/sender"
)

// App представляет приложение отправки уведомлений.
type App struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	sender     *senderservice.Service
	retryDelay time.Duration
	logger     *slog.Logger
}

// New подключает RabbitMQ и настраивает отправку почты.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetReminderQueues())
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close connection", sl.Err(closeErr))
		}
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)

	return &App{
		conn:       conn,
		ch:         ch,
		sender:     senderservice.New(transport, logger),
		retryDelay: cfg.RabbitMQRetryDelay,
		logger:     logger,
	}, nil
}

// Run читает очередь просроченных абонементов до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("notifier started", slog.String("queue", rabbitmq.OverdueQueue))
	err := rabbitmq.Consume(ctx, a.ch, rabbitmq.OverdueQueue, a.retryDelay, a.sender.SendOverdueNotice)

	a.logger.Info("shutting down notifier")
	if closeErr := a.ch.Close(); closeErr != nil {
		a.logger.Error("failed to close channel", sl.Err(closeErr))
	}
	if closeErr := a.conn.Close(); closeErr != nil {
		a.logger.Error("failed to close connection", sl.Err(closeErr))
	}
	return err
}
