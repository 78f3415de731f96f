// Package response формирует единый JSON-формат ответов HTTP-обработчиков
// и сопоставляет доменные ошибки с HTTP-статусами.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-membership/internal/lib/password"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Response стандартный JSON-ответ сервера.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse ответ с ошибкой, используется в аннотациях @Failure.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// StatusOKWithData возвращает успешный Response с данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает ответ с ошибкой msg.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError собирает ошибки валидатора в одно сообщение.
func ValidationError(errs validator.ValidationErrors) Response {
	msgs := make([]string, 0, len(errs))

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "numeric":
			msgs = append(msgs, fmt.Sprintf("field %s can contain only numbers", err.Field()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("field %s must be at least %s characters", err.Field(), err.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("field %s must be at most %s characters", err.Field(), err.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(msgs, ", "),
	}
}

// HTTPStatus сопоставляет доменную ошибку с HTTP-статусом и текстом для клиента.
// Неизвестные ошибки скрываются за 500.
func HTTPStatus(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, models.ErrDuplicateCPF):
		return http.StatusConflict, models.ErrDuplicateCPF.Error()
	case errors.Is(err, models.ErrUserExists):
		return http.StatusConflict, models.ErrUserExists.Error()
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, models.ErrInvalidCredentials.Error()
	case errors.Is(err, models.ErrUnknownPlan),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidDate),
		errors.Is(err, password.ErrTooShort):
		return http.StatusUnprocessableEntity, rootMessage(err)
	case errors.Is(err, models.ErrUnknownSearchField),
		errors.Is(err, models.ErrUnknownStatus),
		errors.Is(err, models.ErrUnknownRole):
		return http.StatusBadRequest, rootMessage(err)
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// ServiceError пишет ответ для ошибки сервисного слоя со статусом из HTTPStatus.
func ServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := HTTPStatus(err)
	w.WriteHeader(code)
	render.JSON(w, r, Error(msg))
}

func rootMessage(err error) string {
	for _, sentinel := range []error{
		models.ErrUnknownPlan, models.ErrInvalidAmount, models.ErrInvalidDate,
		models.ErrUnknownSearchField, models.ErrUnknownStatus, models.ErrUnknownRole,
		password.ErrTooShort,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
