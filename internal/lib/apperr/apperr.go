// Package apperr определяет типизированные ошибки бизнес-уровня.
//
// Сервисы возвращают ошибки двух видов: нарушение бизнес-правила или
// некорректный аргумент (InvalidArgument) и отсутствие сущности (NotFound).
// HTTP-обработчики отображают виды на статусы 400 и 404. Таксономия плоская:
// ошибка несёт только вид и человеко-читаемое сообщение.
package apperr

import (
	"errors"
	"fmt"
)

// Kind вид ошибки бизнес-уровня.
type Kind int

const (
	// KindInvalidArgument некорректный аргумент или нарушение бизнес-правила.
	KindInvalidArgument Kind = iota + 1
	// KindNotFound запрошенная сущность отсутствует.
	KindNotFound
)

// Error ошибка бизнес-уровня с видом и сообщением для клиента.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Invalid создает ошибку вида InvalidArgument с заданным сообщением.
func Invalid(msg string) *Error {
	return &Error{Kind: KindInvalidArgument, Msg: msg}
}

// NotFound создает ошибку вида NotFound с заданным сообщением.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// NotFoundf создает ошибку вида NotFound с форматированным сообщением.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// IsInvalidArgument сообщает, является ли ошибка (или любая в её цепочке)
// ошибкой вида InvalidArgument.
func IsInvalidArgument(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindInvalidArgument
}

// IsNotFound сообщает, является ли ошибка (или любая в её цепочке)
// ошибкой вида NotFound.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNotFound
}
