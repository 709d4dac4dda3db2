// Package cancel реализует HTTP-обработчик для отмены брони по ID.
//
// Handler извлекает ID из URL-параметров, вызывает бизнес-логику отмены
// и возвращает отменённую бронь в JSON-формате. Повторная отмена отклоняется.
package cancel

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/unireserva/unireserva-backend/internal/http/response"
	"github.com/unireserva/unireserva-backend/internal/lib/apperr"
	"github.com/unireserva/unireserva-backend/internal/lib/sl"
	"github.com/unireserva/unireserva-backend/internal/models"
)

// Handler обрабатывает запросы на отмену брони.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики отмены брони
}

// Service описывает интерфейс бизнес-логики отмены брони.
type Service interface {
	CancelReservation(ctx context.Context, id string) (*models.Reservation, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить бронь
// @Description Переводит бронь в статус CANCELED. Повторная отмена отклоняется.
// @Tags Reservations
// @Produce  json
// @Param id path string true "Идентификатор брони"
// @Success 200 {object} map[string]any "Отменённая бронь"
// @Failure 400 {object} response.ErrorResponse "Бронь уже отменена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Бронь не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /reservation/cancel/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	res, err := h.service.CancelReservation(r.Context(), id)
	if err != nil {
		switch {
		case apperr.IsNotFound(err):
			log.Error("reservation not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(err.Error()))
		case apperr.IsInvalidArgument(err):
			log.Error("failed to cancel reservation", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to cancel reservation", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not cancel reservation"))
		}
		return
	}

	log.Info("success to cancel reservation", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"reservation": res,
	}))
}
