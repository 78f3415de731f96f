package rabbitmq

// QueueConfig связывает очередь с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

const (
	OverdueQueue      = "membership.overdue"
	OverdueRoutingKey = "overdue"
)

// GetReminderQueues возвращает очереди, которые нужны воркеру напоминаний.
func GetReminderQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: OverdueQueue, RoutingKey: OverdueRoutingKey},
	}
}
