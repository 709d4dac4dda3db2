// Package unireserva предоставляет маршруты для основного приложения.
package unireserva

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/unireserva/unireserva-backend/internal/http/handlers/auth/login"
	"github.com/unireserva/unireserva-backend/internal/http/handlers/health"
	lablist "github.com/unireserva/unireserva-backend/internal/http/handlers/lab/list"
	"github.com/unireserva/unireserva-backend/internal/http/handlers/reservation/cancel"
	"github.com/unireserva/unireserva-backend/internal/http/handlers/reservation/create"
	"github.com/unireserva/unireserva-backend/internal/http/handlers/reservation/list"
	"github.com/unireserva/unireserva-backend/internal/http/handlers/user/get"
	"github.com/unireserva/unireserva-backend/internal/http/handlers/user/remove"
	"github.com/unireserva/unireserva-backend/internal/http/handlers/user/signup"
	"github.com/unireserva/unireserva-backend/internal/http/handlers/user/update"
	"github.com/unireserva/unireserva-backend/internal/http/middlewarectx"
	"github.com/unireserva/unireserva-backend/internal/lib/jwt"
	authservice "github.com/unireserva/unireserva-backend/internal/services/auth"
	reservationservice "github.com/unireserva/unireserva-backend/internal/services/reservation"
	userservice "github.com/unireserva/unireserva-backend/internal/services/user"
	"github.com/unireserva/unireserva-backend/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	userService *userservice.UserService,
	reservationService *reservationservice.ReservationService,
	authService *authservice.AuthService,
	jwtMaker jwt.Maker,
	db *repository.Storage,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытые конечные точки
	r.Post("/user/signup", signup.New(logger, userService).ServeHTTP)
	r.Post("/login", login.New(logger, authService).ServeHTTP)
	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Get("/labs", lablist.New(logger, reservationService).ServeHTTP)

	// Группа с JWT аутентификацией
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.Get("/user/getUser/{id}", get.New(logger, userService).ServeHTTP)
		r.Patch("/user/update/{id}", update.New(logger, userService).ServeHTTP)
		r.Delete("/user/delete/{id}", remove.New(logger, userService).ServeHTTP)
		r.Post("/reservation/create", create.New(logger, reservationService).ServeHTTP)
		r.Get("/reservation/getReservationsByUserId/{userId}", list.New(logger, reservationService).ServeHTTP)
		r.Patch("/reservation/cancel/{id}", cancel.New(logger, reservationService).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
