// Package unireserva собирает зависимости бэкенда бронирования лабораторий:
// хранилище, кэш, брокер сообщений, сервисы и HTTP-сервер.
package unireserva

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/unireserva/unireserva-backend/internal/cache"
	"github.com/unireserva/unireserva-backend/internal/config"
	"github.com/unireserva/unireserva-backend/internal/lib/jwt"
	"github.com/unireserva/unireserva-backend/internal/lib/rabbitmq"
	"github.com/unireserva/unireserva-backend/internal/migrations"
	authservice "github.com/unireserva/unireserva-backend/internal/services/auth"
	reservationservice "github.com/unireserva/unireserva-backend/internal/services/reservation"
	userservice "github.com/unireserva/unireserva-backend/internal/services/user"
	"github.com/unireserva/unireserva-backend/internal/storage/repository"
)

type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	rabbitConn *amqp.Connection
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	rabbitCh, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetReservationQueues())
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(rabbitCh, rabbitmq.ReservationsExchange)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	userService := userservice.NewUserService(db, cacheRedis, logger)
	reservationService := reservationservice.NewReservationService(db, cacheRedis, publisher, logger)
	authService := authservice.NewAuthService(db, jwtMaker)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, userService, reservationService, authService, jwtMaker, db)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		rabbitConn: rabbitConn,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		if cerr := a.rabbitConn.Close(); cerr != nil {
			a.logger.Warn("failed to close rabbitmq connection", slog.Any("err", cerr))
		}
		return err
	}
}
