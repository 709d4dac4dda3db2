package repository

import (
	"context"
	"fmt"

	"github.com/unireserva/unireserva-backend/internal/models"
)

// ExistsLab проверяет существование лаборатории по id.
func (s *Storage) ExistsLab(ctx context.Context, id string) (bool, error) {
	const op = "storage.ExistsLab"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (SELECT 1 FROM labs WHERE id = $1)`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListLabs возвращает справочник лабораторий.
func (s *Storage) ListLabs(ctx context.Context) ([]*models.Lab, error) {
	const op = "storage.ListLabs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name FROM labs ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Lab
	for rows.Next() {
		var lab models.Lab
		if err := rows.Scan(&lab.ID, &lab.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &lab)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
