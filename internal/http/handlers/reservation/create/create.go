// Package create реализует HTTP-обработчик для создания новых броней лабораторий.
//
// Handler принимает JSON-запрос с данными брони, валидирует их, вызывает
// бизнес-логику создания брони через сервис и возвращает созданную запись
// в JSON-формате.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/unireserva/unireserva-backend/internal/http/response"
	"github.com/unireserva/unireserva-backend/internal/lib/apperr"
	"github.com/unireserva/unireserva-backend/internal/lib/sl"
	"github.com/unireserva/unireserva-backend/internal/models"
)

// Handler управляет HTTP-запросами на создание новых броней.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики создания брони
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания брони.
type Service interface {
	CreateReservation(ctx context.Context, req models.DummyReservation) (*models.Reservation, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать новую бронь
// @Description Создает бронь лаборатории со статусом CONFIRMED. Слот не должен пересекаться с подтверждёнными бронями.
// @Tags Reservations
// @Accept  json
// @Produce  json
// @Param request body models.DummyReservation true "Данные новой брони"
// @Success 200 {object} map[string]any "Успешное создание брони"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или нарушение бизнес-правил"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /reservation/create [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyReservation
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	res, err := h.service.CreateReservation(r.Context(), req)
	if err != nil {
		if apperr.IsInvalidArgument(err) {
			log.Error("failed to create reservation", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("failed to create reservation", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create reservation"))
		return
	}

	log.Info("success to create reservation", slog.String("id", res.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"reservation": res,
	}))
}
