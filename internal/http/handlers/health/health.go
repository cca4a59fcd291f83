// Package health реализует HTTP-обработчик проверки работоспособности сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/SteelCrab/coffee-count/internal/http/response"
	"github.com/SteelCrab/coffee-count/internal/lib/sl"
)

// Checker описывает проверку готовности хранилища.
type Checker interface {
	Ready(ctx context.Context) error
}

// Handler обрабатывает запросы проверки работоспособности.
type Handler struct {
	log     *slog.Logger
	storage Checker
}

// New создает новый Handler с переданными логгером и хранилищем.
func New(log *slog.Logger, storage Checker) *Handler {
	return &Handler{
		log:     log,
		storage: storage,
	}
}

// ServeHTTP возвращает состояние сервиса и его базы данных.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	dbStatus := "healthy"
	if err := h.storage.Ready(r.Context()); err != nil {
		h.log.Error("database health check failed", sl.Err(err))
		dbStatus = "unhealthy"
	}

	render.JSON(w, r, response.OKWithData("Health check", map[string]any{
		"status":    dbStatus,
		"service":   "coffee-count-api",
		"database":  dbStatus,
		"timestamp": time.Now().UTC(),
	}))
}
