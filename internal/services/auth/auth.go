// Package services содержит логику входа пользователей и выдачи JWT.
package services

import (
	"context"
	"errors"

	"github.com/unireserva/unireserva-backend/internal/lib/jwt"
	"github.com/unireserva/unireserva-backend/internal/lib/password"
	"github.com/unireserva/unireserva-backend/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре почта/пароль.
// Неизвестная почта и неверный пароль не различаются.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для поиска пользователей.
type UserRepository interface {
	// FindUserByEmail возвращает пользователя по почте или (nil, nil), если не найден.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService отвечает за вход и выдачу JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.jwtMaker.GenerateToken(user.ID, user.Email)
}
