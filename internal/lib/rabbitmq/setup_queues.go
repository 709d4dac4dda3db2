package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации, по которому
// она привязана к обменнику событий бронирования.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Ключи маршрутизации событий бронирования.
const (
	RoutingKeyConfirmed = "reservation.confirmed"
	RoutingKeyCanceled  = "reservation.canceled"
)

// GetReservationQueues возвращает очереди сервиса уведомлений.
func GetReservationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification.reservation.confirmed", RoutingKey: RoutingKeyConfirmed},
		{QueueName: "notification.reservation.canceled", RoutingKey: RoutingKeyCanceled},
	}
}
