package rabbitmq

// NotificationsExchange — exchange для писем о подписках.
const NotificationsExchange = "notifications"

// Очередь и ключ маршрутизации напоминаний о продлении подписки.
const (
	RenewalQueue      = "notifications.renewal"
	RenewalRoutingKey = "renewal"
)

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: RenewalQueue, RoutingKey: RenewalRoutingKey},
		// при необходимости дополнительные очереди для других воркеров
	}
}
