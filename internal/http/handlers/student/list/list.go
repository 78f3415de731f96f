// Package list реализует HTTP-обработчик списка и поиска студентов.
//
// Без параметра by возвращается страница студентов по limit и offset.
// С параметром by (id, name или cpf) выполняется поиск по значению value.
package list

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

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Handler обрабатывает запросы на получение списка студентов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка студентов.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]*models.Student, error)
	Search(ctx context.Context, by, value string) ([]*models.Student, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список студентов
// @Description Возвращает страницу студентов или результаты поиска по матрикуле, имени или CPF.
// @Tags Students
// @Produce  json
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Param by query string false "Поле поиска: id, name, cpf"
// @Param value query string false "Значение для поиска"
// @Success 200 {object} response.Response "Список студентов"
// @Failure 400 {object} response.ErrorResponse "Неизвестное поле поиска"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /students [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.student.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	var (
		res []*models.Student
		err error
	)
	if by := q.Get("by"); by != "" {
		res, err = h.service.Search(r.Context(), by, q.Get("value"))
	} else {
		limit, offset := paging(q.Get("limit"), q.Get("offset"))
		res, err = h.service.List(r.Context(), limit, offset)
	}
	if err != nil {
		log.Error("failed to list students", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}

	log.Info("list students", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(res),
		"students":   res,
	}))
}

func paging(limitStr, offsetStr string) (int, int) {
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset, err := strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
