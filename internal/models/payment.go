package models

import (
	"time"

	"github.com/magabrotheeeer/gym-membership/internal/membership"
)

// DateLayout формат дат в запросах и ответах API.
const DateLayout = "2006-01-02"

// Payment запись об оплате абонемента. Статус не хранится,
// он вычисляется при чтении.
type Payment struct {
	Code      int64     `json:"code"`
	StudentID int64     `json:"student_id"`
	PaidAt    time.Time `json:"paid_at"`
	Plan      string    `json:"plan"`
	Amount    float64   `json:"amount"`
}

// DummyPayment тело запроса на регистрацию оплаты.
// Пустой paid_at означает сегодняшнюю дату.
type DummyPayment struct {
	StudentID int64   `json:"student_id" validate:"required,gt=0"`
	PaidAt    string  `json:"paid_at,omitempty"`
	Plan      string  `json:"plan" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
}

// PaymentView оплата вместе с данными студента и вычисленным статусом.
type PaymentView struct {
	Payment
	StudentName  string `json:"student_name"`
	StudentCPF   string `json:"student_cpf"`
	StudentEmail string `json:"student_email,omitempty"`
	StudentPhone string `json:"student_phone,omitempty"`
	Unit         string `json:"unit"`
	membership.Result
}

// StatusReport ответ отчёта по статусам: последние оплаты студентов
// и количество студентов в каждом статусе.
type StatusReport struct {
	ReferenceDate time.Time                 `json:"reference_date"`
	Counts        map[membership.Status]int `json:"counts"`
	Items         []PaymentView             `json:"items"`
}

// StudentMembership статус абонемента конкретного студента.
type StudentMembership struct {
	StudentID   int64     `json:"student_id"`
	LastPayment *Payment  `json:"last_payment,omitempty"`
	Reference   time.Time `json:"reference_date"`
	membership.Result
}
