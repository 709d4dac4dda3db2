package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/unireserva/unireserva-backend/internal/lib/apperr"
	"github.com/unireserva/unireserva-backend/internal/models"
)

// MockService реализует интерфейс cancel.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) CancelReservation(ctx context.Context, id string) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCancelHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная отмена брони",
			id:   "res-1",
			setupMock: func(m *MockService) {
				m.On("CancelReservation", mock.Anything, "res-1").Return(&models.Reservation{
					ID:     "res-1",
					UserID: "user123",
					LabID:  "lab01",
					Status: models.StatusCanceled,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"Status":"CANCELED"`,
		},
		{
			name: "бронь не найдена",
			id:   "missing-id",
			setupMock: func(m *MockService) {
				m.On("CancelReservation", mock.Anything, "missing-id").
					Return(nil, apperr.NotFoundf("Reservation with id %s not found.", "missing-id"))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"Reservation with id missing-id not found."`,
		},
		{
			name: "бронь уже отменена",
			id:   "res-1",
			setupMock: func(m *MockService) {
				m.On("CancelReservation", mock.Anything, "res-1").
					Return(nil, apperr.Invalid("This reservation is already cancelled"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"This reservation is already cancelled"`,
		},
		{
			name: "ошибка сервиса",
			id:   "res-1",
			setupMock: func(m *MockService) {
				m.On("CancelReservation", mock.Anything, "res-1").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not cancel reservation"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPatch, "/reservation/cancel/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
