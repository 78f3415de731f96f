package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// ErrDiscard помечает сообщение, которое нельзя обработать повторно.
// Такое сообщение отклоняется без возврата в очередь.
var ErrDiscard = errors.New("message discarded")

// Consume читает сообщения из очереди и передаёт тело в handler, пока не
// отменён ctx. Успешно обработанное сообщение подтверждается. При ошибке
// handler сообщение возвращается в очередь после паузы retryDelay,
// ошибки ErrDiscard отклоняют его без возврата.
// Закрытие канала брокером или ошибка Ack/Nack прерывает чтение с ошибкой.
func Consume(ctx context.Context, ch *amqp.Channel, queue string, retryDelay time.Duration, handler func([]byte) error) error {
	const op = "rabbitmq.Consume"
	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("%s: deliveries closed: %w", op, amqp.ErrClosed)
			}
			if err := handler(d.Body); err != nil {
				requeue := !errors.Is(err, ErrDiscard)
				if requeue {
					waitRetry(ctx, retryDelay)
				}
				if nackErr := d.Nack(false, requeue); nackErr != nil {
					return fmt.Errorf("%s: nack: %w", op, nackErr)
				}
				continue
			}
			if err := d.Ack(false); err != nil {
				return fmt.Errorf("%s: ack: %w", op, err)
			}
		}
	}
}

func waitRetry(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
