// Package cli реализует команды администратора gymctl: миграции,
// управление учётными записями и офлайн-проверку абонемента.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/magabrotheeeer/gym-membership/internal/config"
	"github.com/magabrotheeeer/gym-membership/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/migrations"
	accountservice "github.com/magabrotheeeer/gym-membership/internal/services/account"
	"github.com/magabrotheeeer/gym-membership/internal/storage/repository"
)

// Accounts операции над учётными записями, которые выполняет CLI.
type Accounts interface {
	Create(ctx context.Context, username, password, role string) (string, error)
	UpdatePassword(ctx context.Context, username, password string) error
}

// Deps внешние зависимости команд. В тестах подменяются.
type Deps struct {
	Out          io.Writer
	ReadPassword func(fd int) ([]byte, error)
	OpenAccounts func(ctx context.Context, configPath string) (Accounts, func(), error)
	Migrate      func(configPath string) (uint, error)
}

// DefaultDeps зависимости для работы с настоящей базой.
func DefaultDeps() Deps {
	return Deps{
		Out:          os.Stdout,
		ReadPassword: term.ReadPassword,
		OpenAccounts: openAccounts,
		Migrate:      migrate,
	}
}

// NewRootCmd собирает дерево команд gymctl.
func NewRootCmd(d Deps) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "gymctl",
		Short:         "Administration tool for the gym membership service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(d.Out)
	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "path to the YAML config")

	cfgPath := func() string { return configPath }
	root.AddCommand(
		newMigrateCmd(d, cfgPath),
		newAddUserCmd(d, cfgPath),
		newResetPasswordCmd(d, cfgPath),
		newStatusCmd(d),
	)
	return root
}

// Execute запускает gymctl с аргументами процесса.
func Execute() error {
	return NewRootCmd(DefaultDeps()).Execute()
}

func openAccounts(_ context.Context, configPath string) (Accounts, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	svc := accountservice.New(db, jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL), logger)
	closeFn := func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close storage", sl.Err(err))
		}
	}
	return svc, closeFn, nil
}

func migrate(configPath string) (uint, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return 0, err
	}
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = db.Close()
	}()

	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return 0, err
	}
	version, _, err := migrations.Version(db.DB, cfg.MigrationsPath)
	return version, err
}
