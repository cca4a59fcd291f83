// Package coffeecount предоставляет маршруты для основного приложения.
package coffeecount

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/SteelCrab/coffee-count/internal/cache"
	categorycreate "github.com/SteelCrab/coffee-count/internal/http/handlers/category/create"
	categorylist "github.com/SteelCrab/coffee-count/internal/http/handlers/category/list"
	"github.com/SteelCrab/coffee-count/internal/http/handlers/counter/add"
	"github.com/SteelCrab/coffee-count/internal/http/handlers/counter/daterange"
	"github.com/SteelCrab/coffee-count/internal/http/handlers/counter/get"
	"github.com/SteelCrab/coffee-count/internal/http/handlers/health"
	"github.com/SteelCrab/coffee-count/internal/http/middlewarectx"
	categoryservice "github.com/SteelCrab/coffee-count/internal/services/category"
	counterservice "github.com/SteelCrab/coffee-count/internal/services/counter"
	"github.com/SteelCrab/coffee-count/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, verifier middlewarectx.Verifier,
	counterService *counterservice.Service, categoryService *categoryservice.Service,
	replyCache *cache.Cache, storage *repository.Storage) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Get("/health", health.New(logger, storage).ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		// Группа с проверкой bearer-токена
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AuthMiddleware(verifier, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/categories", categorylist.New(logger, categoryService).ServeHTTP)
			r.Post("/categories", categorycreate.New(logger, categoryService).ServeHTTP)

			getHandler := get.New(logger, counterService)
			r.Get("/counters", getHandler.ServeHTTP)
			r.Get("/counters/range", daterange.New(logger, counterService).ServeHTTP)
			r.Get("/counters/{date}", getHandler.ServeHTTP)
			r.Post("/counters", add.New(logger, counterService, replyCache).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
