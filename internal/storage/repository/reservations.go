package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/unireserva/unireserva-backend/internal/models"
)

// CreateReservation вставляет новую бронь и возвращает присвоенный хранилищем id.
func (s *Storage) CreateReservation(ctx context.Context, r models.Reservation) (string, error) {
	const op = "storage.CreateReservation"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO reservations (user_id, lab_id, date, start_time, end_time, description, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		r.UserID, r.LabID, r.Date, r.StartTime, r.EndTime, r.Description, r.Status).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetReservationByID возвращает бронь по id. Если бронь отсутствует,
// возвращает (nil, nil).
func (s *Storage) GetReservationByID(ctx context.Context, id string) (*models.Reservation, error) {
	const op = "storage.GetReservationByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, lab_id, date, start_time, end_time, description, status
			  FROM reservations
			  WHERE id = $1`
	var r models.Reservation
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&r.ID, &r.UserID, &r.LabID, &r.Date, &r.StartTime,
		&r.EndTime, &r.Description, &r.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &r, nil
}

// FindReservationsByLab возвращает все брони лаборатории, включая отменённые.
func (s *Storage) FindReservationsByLab(ctx context.Context, labID string) ([]*models.Reservation, error) {
	const op = "storage.FindReservationsByLab"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, lab_id, date, start_time, end_time, description, status
			  FROM reservations
			  WHERE lab_id = $1
			  ORDER BY date, start_time`
	return s.queryReservations(ctx, op, query, labID)
}

// FindReservationsByUser возвращает все брони пользователя.
func (s *Storage) FindReservationsByUser(ctx context.Context, userID string) ([]*models.Reservation, error) {
	const op = "storage.FindReservationsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, lab_id, date, start_time, end_time, description, status
			  FROM reservations
			  WHERE user_id = $1
			  ORDER BY date, start_time`
	return s.queryReservations(ctx, op, query, userID)
}

// UpdateReservationStatus изменяет статус брони и возвращает количество
// изменённых строк. Отмена — это изменение статуса, не удаление записи.
func (s *Storage) UpdateReservationStatus(ctx context.Context, id string, status models.ReservationStatus) (int, error) {
	const op = "storage.UpdateReservationStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE reservations
			  SET status = $1
			  WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

func (s *Storage) queryReservations(ctx context.Context, op, query string, arg any) ([]*models.Reservation, error) {
	rows, err := s.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Reservation
	for rows.Next() {
		var r models.Reservation
		if err := rows.Scan(&r.ID, &r.UserID, &r.LabID, &r.Date, &r.StartTime,
			&r.EndTime, &r.Description, &r.Status); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
