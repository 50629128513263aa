package rabbitmq

// QueueConfig описывает очередь и ключ, которым она привязана к exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// QueuesFor возвращает по одной очереди на каждый ключ маршрутизации.
// Имя очереди — "<prefix>.<ключ>".
func QueuesFor(prefix string, routingKeys ...string) []QueueConfig {
	queues := make([]QueueConfig, 0, len(routingKeys))
	for _, key := range routingKeys {
		queues = append(queues, QueueConfig{
			QueueName:  prefix + "." + key,
			RoutingKey: key,
		})
	}
	return queues
}
