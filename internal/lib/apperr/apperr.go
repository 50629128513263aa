// Package apperr описывает таксономию ошибок бизнес-уровня.
//
// Сервисы возвращают *Error с одним из видов (Kind), а HTTP-слой переводит вид
// в статус ответа. Ошибки хранилища и внешних клиентов оборачиваются через Wrap,
// так что исходная причина остаётся доступной для errors.Is/As.
package apperr

import (
	"errors"
	"fmt"
)

// Kind — вид ошибки.
type Kind int

const (
	// KindInternal — непредвиденная ошибка.
	KindInternal Kind = iota
	// KindValidation — некорректные или неполные входные данные.
	KindValidation
	// KindUnauthenticated — запрос без действующей аутентификации.
	KindUnauthenticated
	// KindPermissionDenied — явный запрет правилом доступа.
	KindPermissionDenied
	// KindNotFound — объект отсутствует или скрыт областью видимости.
	KindNotFound
	// KindExternal — сбой внешнего сервиса (платёжного провайдера).
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindPermissionDenied:
		return "permission_denied"
	case KindNotFound:
		return "not_found"
	case KindExternal:
		return "external"
	default:
		return "internal"
	}
}

// Error — ошибка бизнес-уровня с видом и сообщением для клиента.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation возвращает ошибку валидации.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Unauthenticated возвращает ошибку отсутствия аутентификации.
func Unauthenticated(msg string) error {
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

// PermissionDenied возвращает ошибку запрета доступа.
func PermissionDenied(msg string) error {
	return &Error{Kind: KindPermissionDenied, Message: msg}
}

// NotFound возвращает ошибку отсутствия объекта.
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// External оборачивает сбой внешнего сервиса.
func External(msg string, err error) error {
	return &Error{Kind: KindExternal, Message: msg, Err: err}
}

// Wrap оборачивает произвольную ошибку как внутреннюю.
func Wrap(msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf возвращает вид ошибки; для ошибок вне таксономии — KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf возвращает сообщение для клиента. Внутренние ошибки не раскрываются.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal error"
}
