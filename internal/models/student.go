// Package models содержит доменные структуры приложения абонементов:
// студентов, оплаты, учётные записи персонала и уведомления,
// а также Dummy-структуры для приёма JSON-запросов до валидации.
package models

import "time"

// Student студент зала. ID является номером матрикулы.
type Student struct {
	ID        int64      `json:"id"`
	Unit      string     `json:"unit"`
	Name      string     `json:"name"`
	CPF       string     `json:"cpf"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Address   string     `json:"address,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Email     string     `json:"email,omitempty"`
}

// DummyStudent тело запроса на создание или изменение студента.
// Дата рождения приходит строкой в формате 2006-01-02.
type DummyStudent struct {
	Unit      string `json:"unit" validate:"required"`
	Name      string `json:"name" validate:"required"`
	CPF       string `json:"cpf" validate:"required,min=11,max=14"`
	BirthDate string `json:"birth_date,omitempty"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
}

// StudentSearchField поле, по которому ищутся студенты и их оплаты.
type StudentSearchField string

const (
	SearchByID   StudentSearchField = "id"
	SearchByName StudentSearchField = "name"
	SearchByCPF  StudentSearchField = "cpf"
)

// ParseSearchField проверяет значение параметра by.
func ParseSearchField(raw string) (StudentSearchField, error) {
	switch f := StudentSearchField(raw); f {
	case SearchByID, SearchByName, SearchByCPF:
		return f, nil
	default:
		return "", ErrUnknownSearchField
	}
}
