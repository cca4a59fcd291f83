// Package list реализует HTTP-обработчик получения списка категорий пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/SteelCrab/coffee-count/internal/http/middlewarectx"
	"github.com/SteelCrab/coffee-count/internal/http/response"
	"github.com/SteelCrab/coffee-count/internal/lib/sl"
	"github.com/SteelCrab/coffee-count/internal/models"
)

// Handler обрабатывает запросы на получение списка категорий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения категорий.
type Service interface {
	List(ctx context.Context, userUID uuid.UUID) ([]*models.Category, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить категории пользователя
// @Description Возвращает активные категории текущего пользователя в порядке создания.
// @Tags Categories
// @Produce json
// @Success 200 {object} response.Response "Список категорий"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /categories [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(uuid.UUID)
	if !ok {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	categories, err := h.service.List(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list categories", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to fetch categories"))
		return
	}

	log.Info("categories retrieved", slog.Int("count", len(categories)))
	render.JSON(w, r, response.OKWithData("Categories retrieved successfully", categories))
}
