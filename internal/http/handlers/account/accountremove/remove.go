// Package accountremove обрабатывает удаление учётной записи.
package accountremove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
)

// Service определяет интерфейс удаления учётной записи.
type Service interface {
	Remove(ctx context.Context, username string) error
}

// Handler обрабатывает запросы на удаление учётных записей.
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
// @Summary Удалить учетную запись
// @Description Администратор не может удалить самого себя.
// @Tags Accounts
// @Produce  json
// @Param username path string true "Имя учетной записи"
// @Success 200 {object} response.Response "Учетная запись удалена"
// @Failure 400 {object} response.ErrorResponse "Попытка удалить себя"
// @Failure 404 {object} response.ErrorResponse "Учетная запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /accounts/{username} [delete]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := chi.URLParam(r, "username")
	if current, _ := r.Context().Value(middlewarectx.User).(string); current == username {
		log.Warn("attempt to remove own account", slog.String("username", username))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("cannot remove own account"))
		return
	}

	if err := h.service.Remove(r.Context(), username); err != nil {
		log.Error("failed to remove account", slog.String("username", username), sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted": username,
	}))
}
