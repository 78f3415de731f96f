// Package report реализует HTTP-обработчик отчёта по статусам абонементов.
//
// Отчёт строится по последней оплате каждого студента. Параметр status
// оставляет в списке только строки с этим статусом, счётчики при этом
// всегда считаются по всем студентам.
package report

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Handler обрабатывает запросы отчёта по статусам.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс построения отчёта.
type Service interface {
	StatusReport(ctx context.Context, filter string) (*models.StatusReport, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отчет по статусам абонементов
// @Tags Membership
// @Produce  json
// @Param status query string false "Фильтр: all, current, overdue, invalid-date, unknown-plan"
// @Success 200 {object} response.Response "Отчет"
// @Failure 400 {object} response.ErrorResponse "Неизвестный статус"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /reports/status [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.report"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := r.URL.Query().Get("status")
	rep, err := h.service.StatusReport(r.Context(), filter)
	if err != nil {
		log.Error("failed to build status report", slog.String("filter", filter), sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}

	log.Info("status report built", slog.Int("items", len(rep.Items)))
	render.JSON(w, r, response.StatusOKWithData(rep))
}
