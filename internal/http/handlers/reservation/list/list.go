// Package list реализует HTTP-обработчик для получения всех броней пользователя.
//
// Handler извлекает идентификатор пользователя из URL-параметров, вызывает
// бизнес-логику и возвращает список броней, возможно пустой.
package list

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

// Handler обрабатывает запросы на получение списка броней пользователя.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики чтения броней
}

// Service описывает интерфейс бизнес-логики чтения броней пользователя.
type Service interface {
	ListByUser(ctx context.Context, userID string) ([]*models.Reservation, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить брони пользователя
// @Description Возвращает все брони пользователя независимо от статуса. Пустой список не ошибка.
// @Tags Reservations
// @Produce  json
// @Param userId path string true "Идентификатор пользователя"
// @Success 200 {object} map[string]any "Список броней"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /reservation/getReservationsByUserId/{userId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID := chi.URLParam(r, "userId")

	result, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		if apperr.IsInvalidArgument(err) {
			log.Error("invalid user id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("failed to read reservations", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read reservations"))
		return
	}
	if result == nil {
		result = []*models.Reservation{}
	}

	log.Info("success to read reservations", slog.String("user_id", userID), slog.Int("count", len(result)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"reservations": result,
	}))
}
