// Package services содержит бизнес-логику управления пользователями.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/unireserva/unireserva-backend/internal/lib/apperr"
	"github.com/unireserva/unireserva-backend/internal/lib/password"
	"github.com/unireserva/unireserva-backend/internal/models"
)

// UserRepository определяет методы для работы с пользователями в хранилище.
// Методы поиска возвращают (nil, nil), если запись отсутствует.
type UserRepository interface {
	// SaveUser сохраняет нового пользователя.
	SaveUser(ctx context.Context, user models.User) error
	// GetUserByID возвращает пользователя по id.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// FindUserByEmail возвращает пользователя по почте.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateUser обновляет имя и хэш пароля, возвращает число изменённых строк.
	UpdateUser(ctx context.Context, user models.User) (int, error)
	// DeleteUser удаляет пользователя, возвращает число удалённых строк.
	DeleteUser(ctx context.Context, id string) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// UserService реализует бизнес-логику работы с пользователями.
type UserService struct {
	repo  UserRepository
	cache Cache
	log   *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, cache Cache, log *slog.Logger) *UserService {
	return &UserService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func userCacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

// CreateUser регистрирует нового пользователя.
//
// Пароль проверяется на соответствие политике формата, почта — на
// уникальность по хранилищу. Пароль сохраняется в виде bcrypt-хэша.
func (s *UserService) CreateUser(ctx context.Context, req models.DummyUser) (string, error) {
	if !password.ValidFormat(req.Password) {
		return "", apperr.Invalid("Invalid password")
	}

	existing, err := s.repo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", apperr.Invalid("Email already exists")
	}

	hash, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}

	user := models.User{
		ID:           req.ID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return "", err
	}
	s.log.Info("created new user", slog.String("id", user.ID))

	cacheKey := userCacheKey(user.ID)
	if err := s.cache.Set(cacheKey, user, time.Hour); err != nil {
		s.log.Warn("failed to cache user", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return "User created successfully!", nil
}

// GetUser возвращает пользователя по id, используя кеш или репозиторий.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.Invalid("user id is required")
	}

	var cached models.User
	cacheKey := userCacheKey(id)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		return nil, err
	}
	if found {
		return &cached, nil
	}

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	if err := s.cache.Set(cacheKey, user, time.Hour); err != nil {
		s.log.Warn("failed to cache user", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return user, nil
}

// UpdateUser частично обновляет пользователя: изменяются только поля,
// заданные в UserUpdate. Попытка изменить почту отклоняется, новый
// пароль проходит ту же политику формата, что и при регистрации.
func (s *UserService) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", apperr.Invalid("user id is required")
	}
	if upd.Email != nil {
		return "", apperr.Invalid("The email cannot be updated")
	}

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperr.NotFound("User not found")
	}

	if upd.Password != nil {
		if !password.ValidFormat(*upd.Password) {
			return "", apperr.Invalid("Invalid password")
		}
		hash, err := password.GetHash(*upd.Password)
		if err != nil {
			return "", err
		}
		user.PasswordHash = hash
	}
	if upd.Name != nil {
		user.Name = *upd.Name
	}

	count, err := s.repo.UpdateUser(ctx, *user)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "", apperr.NotFound("User not found")
	}
	s.log.Info("updated user", slog.String("id", id))

	cacheKey := userCacheKey(id)
	if err := s.cache.Set(cacheKey, user, time.Hour); err != nil {
		s.log.Warn("failed to cache user", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return "User updated successfully!", nil
}

// DeleteUser удаляет пользователя по id. Удаление отсутствующего
// пользователя — ошибка, как и при чтении или обновлении.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.Invalid("user id is required")
	}

	cacheKey := userCacheKey(id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove user from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return apperr.NotFound("User not found")
	}
	s.log.Info("deleted user", slog.String("id", id))
	return nil
}
