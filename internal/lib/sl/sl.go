// Package sl содержит вспомогательные атрибуты для логгера slog.
package sl

import "log/slog"

// Err возвращает атрибут "error" с текстом ошибки.
// Для nil возвращается пустая строка, чтобы логирование не паниковало.
//
//	log.Error("failed to record payment", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Op возвращает атрибут "op" с именем операции.
func Op(op string) slog.Attr {
	return slog.String("op", op)
}

// Student возвращает атрибут "student_id" для логов по конкретному студенту.
func Student(id int64) slog.Attr {
	return slog.Int64("student_id", id)
}
