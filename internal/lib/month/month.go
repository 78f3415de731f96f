// Package month содержит календарную арифметику по месяцам.
package month

import (
	"time"
)

// DaysIn возвращает количество дней в месяце m года year.
func DaysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths прибавляет n календарных месяцев к дате t.
//
// В отличие от time.AddDate день не переносится в следующий месяц:
// если в целевом месяце дней меньше, берётся его последний день
// (31 января + 1 месяц = 28/29 февраля). Время суток и часовой пояс сохраняются.
func AddMonths(t time.Time, n int) time.Time {
	year, m, day := t.Date()

	total := int(m) - 1 + n
	year += total / 12
	total %= 12
	if total < 0 {
		total += 12
		year--
	}
	target := time.Month(total + 1)

	if last := DaysIn(year, target); day > last {
		day = last
	}
	return time.Date(year, target, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// Civil отбрасывает время суток, оставляя календарную дату в UTC.
// Используется для сравнения дат без учёта часов и часового пояса.
func Civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
