package models

import "errors"

// Ошибки доменного уровня. Хранилище и сервисы оборачивают их через %w,
// обработчики сопоставляют их с HTTP-статусами через errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateCPF       = errors.New("student with this cpf already exists")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrUnknownPlan        = errors.New("unknown plan")
	ErrInvalidDate        = errors.New("invalid date, expected YYYY-MM-DD")
	ErrUnknownSearchField = errors.New("unknown search field")
	ErrUnknownRole        = errors.New("unknown role")
	ErrUnknownStatus      = errors.New("unknown membership status")
)
