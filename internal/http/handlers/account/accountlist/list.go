// Package accountlist возвращает учётные записи персонала.
package accountlist

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

// Service определяет интерфейс чтения учётных записей.
type Service interface {
	List(ctx context.Context, role string) ([]*models.User, error)
}

// Handler обрабатывает запросы на список учётных записей.
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
// @Summary Список учетных записей
// @Tags Accounts
// @Produce  json
// @Param role query string false "Фильтр по роли: admin, user"
// @Success 200 {object} response.Response "Учетные записи"
// @Failure 400 {object} response.ErrorResponse "Неизвестная роль"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /accounts [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.service.List(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		log.Error("failed to list accounts", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(users),
		"accounts":   users,
	}))
}
