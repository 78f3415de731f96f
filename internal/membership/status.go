package membership

import (
	"strings"
	"time"

	"github.com/magabrotheeeer/gym-membership/internal/lib/month"
)

// Status результат проверки абонемента.
type Status string

const (
	StatusCurrent     Status = "current"
	StatusOverdue     Status = "overdue"
	StatusInvalidDate Status = "invalid-date"
	StatusUnknownPlan Status = "unknown-plan"
)

// Statuses перечисляет все возможные статусы.
var Statuses = []Status{StatusCurrent, StatusOverdue, StatusInvalidDate, StatusUnknownPlan}

// Determined сообщает, удалось ли вообще определить статус.
func (s Status) Determined() bool {
	return s == StatusCurrent || s == StatusOverdue
}

// ParseStatus распознаёт статус по его строковому значению.
func ParseStatus(raw string) (Status, bool) {
	for _, s := range Statuses {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}

// DateLayouts форматы, в которых хранится дата оплаты.
var DateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// Result описывает статус и дату следующей оплаты.
// DueDate заполнен только для StatusCurrent и StatusOverdue.
type Result struct {
	Status  Status     `json:"status"`
	DueDate *time.Time `json:"due_date,omitempty"`
}

// DueDate возвращает дату следующей оплаты: lastPayment плюс период плана
// в календарных месяцах. Время суток отбрасывается.
func DueDate(lastPayment time.Time, plan Plan) time.Time {
	return month.AddMonths(month.Civil(lastPayment), plan.Months())
}

// ParseDate разбирает дату оплаты в одном из DateLayouts.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Evaluate классифицирует абонемент относительно опорной даты ref.
//
// Неизвестный план даёт StatusUnknownPlan независимо от даты,
// отсутствующая дата даёт StatusInvalidDate. Абонемент просрочен,
// только если дата следующей оплаты строго раньше ref;
// совпадение дат считается оплаченным периодом.
func Evaluate(lastPayment *time.Time, plan string, ref time.Time) Result {
	p, ok := ParsePlan(plan)
	if !ok {
		return Result{Status: StatusUnknownPlan}
	}
	if lastPayment == nil || lastPayment.IsZero() {
		return Result{Status: StatusInvalidDate}
	}

	due := DueDate(*lastPayment, p)
	status := StatusCurrent
	if due.Before(month.Civil(ref)) {
		status = StatusOverdue
	}
	return Result{Status: status, DueDate: &due}
}

// EvaluateString то же, что Evaluate, но принимает дату строкой.
func EvaluateString(raw, plan string, ref time.Time) Result {
	t, ok := ParseDate(raw)
	if !ok {
		return Evaluate(nil, plan, ref)
	}
	return Evaluate(&t, plan, ref)
}

// EvaluateNow вычисляет статус относительно текущей даты.
func EvaluateNow(lastPayment *time.Time, plan string) Result {
	return Evaluate(lastPayment, plan, time.Now())
}
