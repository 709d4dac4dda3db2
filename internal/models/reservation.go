package models

// Форматы даты и времени брони. Дата и время хранятся строками в этих
// форматах, сравнение и валидация выполняются в сервисном слое.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ReservationStatus статус брони.
type ReservationStatus string

const (
	// StatusConfirmed бронь подтверждена и занимает слот лаборатории.
	StatusConfirmed ReservationStatus = "CONFIRMED"
	// StatusCanceled бронь отменена, слот свободен для повторного бронирования.
	StatusCanceled ReservationStatus = "CANCELED"
)

// Reservation представляет бронь слота в лаборатории.
type Reservation struct {
	ID          string            // Идентификатор, присваивается хранилищем
	UserID      string            // Пользователь, создавший бронь
	LabID       string            // Лаборатория
	Date        string            // Дата в формате DateLayout
	StartTime   string            // Начало слота в формате TimeLayout
	EndTime     string            // Конец слота в формате TimeLayout
	Description string            // Произвольное описание
	Status      ReservationStatus // CONFIRMED или CANCELED
}

// DummyReservation используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Reservation.
type DummyReservation struct {
	UserID      string `json:"user_id" validate:"required"`
	LabID       string `json:"lab_id" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime     string `json:"end_time" validate:"required,datetime=15:04"`
	Description string `json:"description"`
}

// ReservationEvent событие изменения брони, публикуемое в RabbitMQ
// для сервиса уведомлений.
type ReservationEvent struct {
	ReservationID string            `json:"reservation_id"`
	UserID        string            `json:"user_id"`
	LabID         string            `json:"lab_id"`
	Date          string            `json:"date"`
	StartTime     string            `json:"start_time"`
	EndTime       string            `json:"end_time"`
	Status        ReservationStatus `json:"status"`
}
