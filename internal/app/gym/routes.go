package gym

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/gym-membership/internal/config"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/account/accountcreate"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/account/accountlist"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/account/accountpassword"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/account/accountremove"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/health"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/membership/report"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/membership/status"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/payment/paymentcreate"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/payment/paymentlist"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/student/create"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/student/list"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/student/read"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/student/remove"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/student/update"
	"github.com/magabrotheeeer/gym-membership/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-membership/internal/models"
	accountservice "github.com/magabrotheeeer/gym-membership/internal/services/account"
	paymentservice "github.com/magabrotheeeer/gym-membership/internal/services/payment"
	studentservice "github.com/magabrotheeeer/gym-membership/internal/services/student"
)

// Services набор сервисов, которые обслуживают HTTP-маршруты.
type Services struct {
	Students *studentservice.Service
	Payments *paymentservice.Service
	Accounts *accountservice.Service
	Tokens   middlewarectx.TokenParser
	Health   map[string]health.Pinger
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, limits config.RateLimit, svc Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/login", login.New(logger, svc.Accounts).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svc.Tokens, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limits.RPS, limits.Burst))

			r.Post("/students", create.New(logger, svc.Students).ServeHTTP)
			r.Get("/students", list.New(logger, svc.Students).ServeHTTP)
			r.Get("/students/{id}", read.New(logger, svc.Students).ServeHTTP)
			r.Put("/students/{id}", update.New(logger, svc.Students).ServeHTTP)
			r.Delete("/students/{id}", remove.New(logger, svc.Students).ServeHTTP)
			r.Get("/students/{id}/membership", status.New(logger, svc.Payments).ServeHTTP)

			r.Post("/payments", paymentcreate.New(logger, svc.Payments).ServeHTTP)
			r.Get("/payments", paymentlist.New(logger, svc.Payments).ServeHTTP)
			r.Get("/reports/status", report.New(logger, svc.Payments).ServeHTTP)

			// Управление учётными записями только для администратора
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleAdmin))
				r.Post("/accounts", accountcreate.New(logger, svc.Accounts).ServeHTTP)
				r.Get("/accounts", accountlist.New(logger, svc.Accounts).ServeHTTP)
				r.Put("/accounts/{username}/password", accountpassword.New(logger, svc.Accounts).ServeHTTP)
				r.Delete("/accounts/{username}", accountremove.New(logger, svc.Accounts).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, svc.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
