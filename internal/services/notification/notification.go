// Package services обрабатывает события бронирования из очередей RabbitMQ
// и формирует уведомления пользователям.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/unireserva/unireserva-backend/internal/models"
)

// NotificationService обрабатывает события подтверждения и отмены броней.
type NotificationService struct {
	log *slog.Logger
}

// NewNotificationService создает новый экземпляр NotificationService.
func NewNotificationService(log *slog.Logger) *NotificationService {
	return &NotificationService{log: log}
}

// HandleMessage разбирает событие бронирования и логирует уведомление.
func (s *NotificationService) HandleMessage(body []byte) error {
	var event models.ReservationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	s.log.Info("reservation notification",
		slog.String("reservation_id", event.ReservationID),
		slog.String("user_id", event.UserID),
		slog.String("lab_id", event.LabID),
		slog.String("date", event.Date),
		slog.String("start_time", event.StartTime),
		slog.String("end_time", event.EndTime),
		slog.String("status", string(event.Status)),
	)
	return nil
}
