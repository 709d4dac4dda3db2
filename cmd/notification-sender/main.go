package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/unireserva/unireserva-backend/internal/config"
	"github.com/unireserva/unireserva-backend/internal/lib/rabbitmq"
	"github.com/unireserva/unireserva-backend/internal/lib/sl"
	services "github.com/unireserva/unireserva-backend/internal/services/notification"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Info("starting notification-sender", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("success to connect to RabbitMQ", slog.String("address", cfg.AddressRabbit))
	defer func() {
		_ = conn.Close()
	}()

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetReservationQueues())
	if err != nil {
		logger.Error("failed to setup RabbitMQ channel", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("success to setup RabbitMQ channel")
	defer func() {
		_ = ch.Close()
	}()

	notificationService := services.NewNotificationService(logger)

	for _, queue := range rabbitmq.GetReservationQueues() {
		if err := rabbitmq.ConsumeMessages(ctx, ch, queue.QueueName, notificationService.HandleMessage); err != nil {
			logger.Error("failed to start consumer", slog.String("queue", queue.QueueName), sl.Err(err))
			os.Exit(1)
		}
		logger.Info("consuming queue", slog.String("queue", queue.QueueName))
	}

	<-ctx.Done()

	logger.Info("notification-sender shutting down gracefully")
}
