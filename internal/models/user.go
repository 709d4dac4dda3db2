// Package models содержит доменные структуры системы бронирования лабораторий:
// пользователей, лаборатории, брони и вспомогательные типы для приёма данных
// из внешних источников (например, JSON-запросов).
package models

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           string // Идентификатор пользователя, задаётся извне при регистрации
	Name         string // Имя пользователя
	Email        string // Электронная почта (уникальная, неизменяемая после создания)
	PasswordHash string // Хэш пароля пользователя
}

// DummyUser используется для приёма данных из JSON-запроса регистрации,
// прежде чем конвертировать их в User. Пароль приходит в открытом виде,
// проверяется на соответствие политике и хэшируется в сервисе.
type DummyUser struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserUpdate описывает частичное обновление пользователя.
// Поле со значением nil означает "оставить без изменений" —
// это снимает неоднозначность между "очистить поле" и "не трогать".
// Непустой Email отклоняется сервисом: почта неизменяема.
type UserUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// DummyLogin используется для приёма данных из JSON-запроса входа.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
