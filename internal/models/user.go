package models

import "time"

// Роли учётных записей персонала.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRole сообщает, существует ли роль.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// User учётная запись сотрудника зала.
type User struct {
	UID          string    `json:"uid"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// DummyLogin тело запроса на вход.
type DummyLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// DummyUser тело запроса на создание учётной записи.
type DummyUser struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin user"`
}

// DummyPassword тело запроса на смену пароля.
type DummyPassword struct {
	Password string `json:"password" validate:"required,min=8"`
}
