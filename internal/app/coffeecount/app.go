// Package coffeecount собирает приложение: хранилище, миграции, клиент
// сервиса аутентификации, бизнес-логику и HTTP-сервер.
package coffeecount

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/SteelCrab/coffee-count/internal/authclient"
	"github.com/SteelCrab/coffee-count/internal/cache"
	"github.com/SteelCrab/coffee-count/internal/config"
	"github.com/SteelCrab/coffee-count/internal/migrations"
	categoryservice "github.com/SteelCrab/coffee-count/internal/services/category"
	counterservice "github.com/SteelCrab/coffee-count/internal/services/counter"
	"github.com/SteelCrab/coffee-count/internal/storage/repository"
)

// App объединяет долгоживущие ресурсы процесса. Все зависимости
// инициализируются один раз при старте и передаются в компоненты явно.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New инициализирует все компоненты приложения.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	replyCache, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	verifier := authclient.New(cfg.AuthServiceURL, cfg.VerifyTimeout)

	counterService := counterservice.New(db, db, logger)
	categoryService := categoryservice.New(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, verifier, counterService, categoryService, replyCache, db)

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
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
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
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}
