// Package health отдаёт состояние зависимостей сервиса: базы данных и кэша.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
)

const pingTimeout = 2 * time.Second

// Pinger зависимость, доступность которой проверяется.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	log  *slog.Logger
	deps map[string]Pinger
}

// New создаёт Handler, deps сопоставляет имя зависимости с её проверкой.
func New(log *slog.Logger, deps map[string]Pinger) *Handler {
	return &Handler{
		log:  log,
		deps: deps,
	}
}

// ServeHTTP godoc
// @Summary Проверка состояния
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Response "Все зависимости доступны"
// @Failure 503 {object} response.Response "Часть зависимостей недоступна"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.deps))
	healthy := true
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			h.log.Error("dependency is unavailable", sl.Op(op), slog.String("dependency", name), sl.Err(err))
			checks[name] = "unavailable"
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	if !healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Response{
			Status: response.StatusError,
			Error:  "dependency unavailable",
			Data:   checks,
		})
		return
	}
	render.JSON(w, r, response.StatusOKWithData(checks))
}
