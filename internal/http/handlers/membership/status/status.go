// Package status реализует HTTP-обработчик проверки абонемента студента.
//
// Статус вычисляется по последней оплате студента относительно текущей даты.
package status

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Handler обрабатывает запросы статуса абонемента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс вычисления статуса абонемента.
type Service interface {
	StudentMembership(ctx context.Context, studentID int64) (*models.StudentMembership, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статус абонемента студента
// @Description Возвращает current, overdue, invalid-date или unknown-plan по последней оплате и дату следующей оплаты.
// @Tags Membership
// @Produce  json
// @Param id path int true "Номер матрикулы"
// @Success 200 {object} response.Response "Статус абонемента"
// @Failure 400 {object} response.ErrorResponse "Некорректный id"
// @Failure 404 {object} response.ErrorResponse "Студент не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /students/{id}/membership [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		log.Error("failed to decode id from url", slog.String("id", chi.URLParam(r, "id")))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	res, err := h.service.StudentMembership(r.Context(), id)
	if err != nil {
		log.Error("failed to evaluate membership", sl.Student(id), sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}

	log.Info("membership evaluated", sl.Student(id), slog.String("status", string(res.Status)))
	render.JSON(w, r, response.StatusOKWithData(res))
}
