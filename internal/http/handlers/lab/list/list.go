// Package list реализует HTTP-обработчик для получения справочника лабораторий.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/unireserva/unireserva-backend/internal/http/response"
	"github.com/unireserva/unireserva-backend/internal/lib/sl"
	"github.com/unireserva/unireserva-backend/internal/models"
)

// Handler обрабатывает запросы на получение списка лабораторий.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики чтения лабораторий
}

// Service описывает интерфейс бизнес-логики чтения лабораторий.
type Service interface {
	ListLabs(ctx context.Context) ([]*models.Lab, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить список лабораторий
// @Tags Labs
// @Produce  json
// @Success 200 {object} map[string]any "Список лабораторий"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /labs [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lab.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	labs, err := h.service.ListLabs(r.Context())
	if err != nil {
		log.Error("failed to read labs", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read labs"))
		return
	}

	log.Info("success to read labs", slog.Int("count", len(labs)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"labs": labs,
	}))
}
