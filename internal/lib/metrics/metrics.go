// Package metrics регистрирует метрики Prometheus по статусам абонементов.
package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/gym-membership/internal/membership"
)

// StatusEvaluations считает вычисленные статусы абонементов.
var StatusEvaluations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "gym",
		Subsystem: "membership",
		Name:      "status_evaluations_total",
		Help:      "Number of membership status evaluations by resulting status.",
	},
	[]string{"status"},
)

// OverdueNotices считает опубликованные напоминания о просрочке.
var OverdueNotices = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "gym",
	Subsystem: "reminder",
	Name:      "overdue_notices_total",
	Help:      "Number of overdue notices published to the broker.",
})

// Observe учитывает один вычисленный статус.
func Observe(s membership.Status) {
	StatusEvaluations.WithLabelValues(string(s)).Inc()
}

// NewServer HTTP-сервер только с маршрутом /metrics для воркеров без API.
func NewServer(addr string, timeout time.Duration) *http.Server {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
}
