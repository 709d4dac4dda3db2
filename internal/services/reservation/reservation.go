// Package services содержит бизнес-логику бронирования слотов в лабораториях:
// проверку существования лаборатории и пользователя, валидность даты и
// времени, отсутствие пересечений с подтверждёнными бронями и отмену брони.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/unireserva/unireserva-backend/internal/lib/apperr"
	"github.com/unireserva/unireserva-backend/internal/lib/rabbitmq"
	"github.com/unireserva/unireserva-backend/internal/models"
)

// ReservationRepository определяет методы для работы с бронями,
// лабораториями и пользователями в хранилище. GetReservationByID
// возвращает (nil, nil), если запись отсутствует.
type ReservationRepository interface {
	// CreateReservation сохраняет бронь и возвращает присвоенный id.
	CreateReservation(ctx context.Context, r models.Reservation) (string, error)
	// GetReservationByID возвращает бронь по id.
	GetReservationByID(ctx context.Context, id string) (*models.Reservation, error)
	// FindReservationsByLab возвращает все брони лаборатории.
	FindReservationsByLab(ctx context.Context, labID string) ([]*models.Reservation, error)
	// FindReservationsByUser возвращает все брони пользователя.
	FindReservationsByUser(ctx context.Context, userID string) ([]*models.Reservation, error)
	// UpdateReservationStatus изменяет статус брони.
	UpdateReservationStatus(ctx context.Context, id string, status models.ReservationStatus) (int, error)
	// ExistsLab проверяет существование лаборатории.
	ExistsLab(ctx context.Context, id string) (bool, error)
	// ExistsUser проверяет существование пользователя.
	ExistsUser(ctx context.Context, id string) (bool, error)
	// ListLabs возвращает все лаборатории.
	ListLabs(ctx context.Context) ([]*models.Lab, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Publisher описывает публикацию событий бронирования.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// ReservationService реализует бизнес-логику бронирования.
//
// Последовательность чтение-проверка-запись при создании брони выполняется
// под мьютексом лаборатории: два конкурентных запроса на один слот одной
// лаборатории не пройдут проверку пересечений одновременно в рамках
// одного процесса.
type ReservationService struct {
	repo      ReservationRepository
	cache     Cache
	publisher Publisher
	log       *slog.Logger

	labLocks sync.Map // lab id -> *sync.Mutex
}

// NewReservationService создает новый экземпляр ReservationService.
func NewReservationService(repo ReservationRepository, cache Cache, publisher Publisher, log *slog.Logger) *ReservationService {
	return &ReservationService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

const labsCacheKey = "labs"

func userReservationsCacheKey(userID string) string {
	return fmt.Sprintf("reservations:user:%s", userID)
}

func (s *ReservationService) lockLab(labID string) *sync.Mutex {
	v, _ := s.labLocks.LoadOrStore(labID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// overlaps сообщает, пересекаются ли полуоткрытые интервалы [startA, endA)
// и [startB, endB). Соприкасающиеся границы пересечением не считаются.
func overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && startB.Before(endA)
}

// CreateReservation создает бронь со статусом CONFIRMED.
//
// Порядок проверок фиксирован, первая нарушенная завершает операцию:
// существование лаборатории, существование пользователя, дата и время
// в будущем, отсутствие пересечений с подтверждёнными бронями той же
// лаборатории. Отменённые брони не учитываются — освободившийся слот
// можно занять повторно.
func (s *ReservationService) CreateReservation(ctx context.Context, req models.DummyReservation) (*models.Reservation, error) {
	labExists, err := s.repo.ExistsLab(ctx, req.LabID)
	if err != nil {
		return nil, err
	}
	if !labExists {
		return nil, apperr.Invalid("The lab does not exist")
	}

	userExists, err := s.repo.ExistsUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !userExists {
		return nil, apperr.Invalid("The user does not exist")
	}

	date, err := time.Parse(models.DateLayout, req.Date)
	if err != nil {
		return nil, apperr.Invalid("invalid date, expected format " + models.DateLayout)
	}
	startTime, err := time.Parse(models.TimeLayout, req.StartTime)
	if err != nil {
		return nil, apperr.Invalid("invalid start time, expected format " + models.TimeLayout)
	}
	endTime, err := time.Parse(models.TimeLayout, req.EndTime)
	if err != nil {
		return nil, apperr.Invalid("invalid end time, expected format " + models.TimeLayout)
	}

	now := time.Now()
	today, _ := time.Parse(models.DateLayout, now.Format(models.DateLayout))
	if date.Before(today) {
		return nil, apperr.Invalid("You cannot select a past date for your reservation")
	}
	if date.Equal(today) {
		nowTime, _ := time.Parse(models.TimeLayout, now.Format(models.TimeLayout))
		if !startTime.After(nowTime) {
			return nil, apperr.Invalid("The start time must be in the future. You cannot create a reservation with a past time")
		}
	}

	mu := s.lockLab(req.LabID)
	mu.Lock()
	defer mu.Unlock()

	existing, err := s.repo.FindReservationsByLab(ctx, req.LabID)
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if r.Status != models.StatusConfirmed || r.Date != req.Date {
			continue
		}
		otherStart, err := time.Parse(models.TimeLayout, r.StartTime)
		if err != nil {
			return nil, fmt.Errorf("stored reservation %s has invalid start time: %w", r.ID, err)
		}
		otherEnd, err := time.Parse(models.TimeLayout, r.EndTime)
		if err != nil {
			return nil, fmt.Errorf("stored reservation %s has invalid end time: %w", r.ID, err)
		}
		if overlaps(startTime, endTime, otherStart, otherEnd) {
			return nil, apperr.Invalid("There is already a reservation in the lab selected in the time selected")
		}
	}

	res := models.Reservation{
		UserID:      req.UserID,
		LabID:       req.LabID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Description: req.Description,
		Status:      models.StatusConfirmed,
	}
	id, err := s.repo.CreateReservation(ctx, res)
	if err != nil {
		return nil, err
	}
	res.ID = id
	s.log.Info("created new reservation",
		slog.String("id", res.ID), slog.String("lab_id", res.LabID))

	cacheKey := userReservationsCacheKey(res.UserID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate reservations cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	s.publishEvent(rabbitmq.RoutingKeyConfirmed, &res)

	return &res, nil
}

// ListByUser возвращает все брони пользователя, возможно пустой список.
// Существование пользователя не проверяется.
func (s *ReservationService) ListByUser(ctx context.Context, userID string) ([]*models.Reservation, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Invalid("user id is required")
	}

	var cached []*models.Reservation
	cacheKey := userReservationsCacheKey(userID)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		return nil, err
	}
	if found {
		return cached, nil
	}

	result, err := s.repo.FindReservationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache reservations", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// ListLabs возвращает справочник лабораторий. Справочник меняется только
// миграциями, поэтому кэшируется целиком.
func (s *ReservationService) ListLabs(ctx context.Context) ([]*models.Lab, error) {
	var cached []*models.Lab
	found, err := s.cache.Get(labsCacheKey, &cached)
	if err != nil {
		return nil, err
	}
	if found {
		return cached, nil
	}

	labs, err := s.repo.ListLabs(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(labsCacheKey, labs, time.Hour); err != nil {
		s.log.Warn("failed to cache labs", slog.String("key", labsCacheKey), slog.Any("err", err))
	}
	return labs, nil
}

// CancelReservation переводит бронь в статус CANCELED.
//
// Повторная отмена отклоняется, отмена несуществующей брони — ошибка
// вида NotFound.
func (s *ReservationService) CancelReservation(ctx context.Context, id string) (*models.Reservation, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.Invalid("reservation id is required")
	}

	r, err := s.repo.GetReservationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.NotFoundf("Reservation with id %s not found.", id)
	}
	if r.Status == models.StatusCanceled {
		return nil, apperr.Invalid("This reservation is already cancelled")
	}

	count, err := s.repo.UpdateReservationStatus(ctx, id, models.StatusCanceled)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		// Бронь исчезла между чтением и обновлением.
		return nil, apperr.NotFoundf("Reservation with id %s not found.", id)
	}
	r.Status = models.StatusCanceled
	s.log.Info("cancelled reservation", slog.String("id", id))

	cacheKey := userReservationsCacheKey(r.UserID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate reservations cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	s.publishEvent(rabbitmq.RoutingKeyCanceled, r)

	return r, nil
}

// publishEvent публикует событие бронирования. Недоступность брокера
// не прерывает операцию: событие только логируется как потерянное.
func (s *ReservationService) publishEvent(routingKey string, r *models.Reservation) {
	event := models.ReservationEvent{
		ReservationID: r.ID,
		UserID:        r.UserID,
		LabID:         r.LabID,
		Date:          r.Date,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Status:        r.Status,
	}
	if err := s.publisher.Publish(routingKey, event); err != nil {
		s.log.Warn("failed to publish reservation event",
			slog.String("routing_key", routingKey), slog.Any("err", err))
	}
}
