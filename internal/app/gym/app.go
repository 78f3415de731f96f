// Package gym собирает HTTP-приложение учёта абонементов: хранилище, кэш,
// сервисы и маршруты.
package gym

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	// Спецификация Swagger для /docs.
	_ "github.com/magabrotheeeer/gym-membership/docs"
	"github.com/magabrotheeeer/gym-membership/internal/cache"
	"github.com/magabrotheeeer/gym-membership/internal/config"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/health"
	"github.com/magabrotheeeer/gym-membership/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/migrations"
	accountservice "github.com/magabrotheeeer/gym-membership/internal/services/account"
	paymentservice "github.com/magabrotheeeer/gym-membership/internal/services/payment"
	studentservice "github.com/magabrotheeeer/gym-membership/internal/services/student"
	"github.com/magabrotheeeer/gym-membership/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// WaitForDB повторяет подключение к базе, пока она не станет доступна.
func WaitForDB(ctx context.Context, dsn string, attempts int, delay time.Duration) (*repository.Storage, error) {
	var lastErr error
	for range attempts {
		db, err := repository.New(dsn)
		if err == nil {
			return db, nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("database not ready after %d attempts: %w", attempts, lastErr)
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := WaitForDB(ctx, cfg.StorageConnectionString, 10, 3*time.Second)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.RateLimit, Services{
		Students: studentservice.New(db, cacheRedis, logger),
		Payments: paymentservice.New(db, logger),
		Accounts: accountservice.New(db, jwtMaker, logger),
		Tokens:   jwtMaker,
		Health: map[string]health.Pinger{
			"postgres": db,
			"redis":    cacheRedis,
		},
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
