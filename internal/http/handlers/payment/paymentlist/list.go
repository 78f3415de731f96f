// Package paymentlist возвращает оплаты вместе со статусом абонемента,
// вычисленным на текущую дату.
package paymentlist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Service определяет интерфейс чтения оплат.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]*models.PaymentView, error)
	Search(ctx context.Context, by, value string) ([]*models.PaymentView, error)
}

// Handler обрабатывает запросы на список оплат.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список оплат
// @Description Возвращает оплаты от новых к старым со статусом абонемента. Параметр by ищет по матрикуле, имени или CPF студента.
// @Tags Payments
// @Produce  json
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Param by query string false "Поле поиска: id, name, cpf"
// @Param value query string false "Значение для поиска"
// @Success 200 {object} response.Response "Список оплат"
// @Failure 400 {object} response.ErrorResponse "Неизвестное поле поиска"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /payments [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	var (
		res []*models.PaymentView
		err error
	)
	if by := q.Get("by"); by != "" {
		res, err = h.service.Search(r.Context(), by, q.Get("value"))
	} else {
		limit, lerr := strconv.Atoi(q.Get("limit"))
		if lerr != nil || limit <= 0 || limit > 100 {
			limit = 10
		}
		offset, oerr := strconv.Atoi(q.Get("offset"))
		if oerr != nil || offset < 0 {
			offset = 0
		}
		res, err = h.service.List(r.Context(), limit, offset)
	}
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}

	log.Info("list payments", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(res),
		"payments":   res,
	}))
}
