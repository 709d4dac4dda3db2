package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/unireserva/unireserva-backend/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, id, name, email, passwordHash string) {
	_, err := f.storage.DB.Exec(`INSERT INTO users (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)`,
		id, name, email, passwordHash)
	require.NoError(t, err)
}

// CreateLab создает тестовую лабораторию
func (f *TestDataFactory) CreateLab(t *testing.T, id, name string) {
	_, err := f.storage.DB.Exec(`INSERT INTO labs (id, name) VALUES ($1, $2)`,
		id, name)
	require.NoError(t, err)
}

// CreateReservation создает тестовую бронь и возвращает присвоенный id
func (f *TestDataFactory) CreateReservation(t *testing.T, r models.Reservation) string {
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO reservations
		(user_id, lab_id, date, start_time, end_time, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		r.UserID, r.LabID, r.Date, r.StartTime, r.EndTime, r.Description, r.Status).Scan(&id)
	require.NoError(t, err)
	return id
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute)),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			err = storage.DB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "Failed to create storage after retries")

	// Создаем таблицы
	_, err = storage.DB.Exec(`
        DROP TABLE IF EXISTS reservations CASCADE;
        DROP TABLE IF EXISTS labs CASCADE;
        DROP TABLE IF EXISTS users CASCADE;

        CREATE EXTENSION IF NOT EXISTS "pgcrypto";

        CREATE TABLE users (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL
        );

        CREATE TABLE labs (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL
        );

        CREATE TABLE reservations (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            user_id TEXT NOT NULL REFERENCES users(id),
            lab_id TEXT NOT NULL REFERENCES labs(id),
            date TEXT NOT NULL,
            start_time TEXT NOT NULL,
            end_time TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'CONFIRMED'
        );

        CREATE INDEX idx_reservations_lab_id ON reservations(lab_id);
        CREATE INDEX idx_reservations_user_id ON reservations(user_id);
    `)
	require.NoError(t, err, "Failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if postgresContainer != nil {
			_ = postgresContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
