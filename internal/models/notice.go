package models

import "time"

// OverdueNotice сообщение о просроченном абонементе для очереди напоминаний.
type OverdueNotice struct {
	StudentID   int64     `json:"student_id"`
	StudentName string    `json:"student_name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Plan        string    `json:"plan"`
	LastPayment time.Time `json:"last_payment"`
	DueDate     time.Time `json:"due_date"`
	DaysOverdue int       `json:"days_overdue"`
	CheckedAt   time.Time `json:"checked_at"`
}
