// Package create реализует HTTP-обработчик создания новой категории пользователя.
//
// Handler принимает JSON-запрос с данными категории, валидирует их,
// вызывает бизнес-логику создания и возвращает созданную запись
// со статусом 201 Created. Имя категории уникально среди активных
// категорий пользователя.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/SteelCrab/coffee-count/internal/http/middlewarectx"
	"github.com/SteelCrab/coffee-count/internal/http/response"
	"github.com/SteelCrab/coffee-count/internal/lib/sl"
	"github.com/SteelCrab/coffee-count/internal/models"
	"github.com/SteelCrab/coffee-count/internal/storage/repository"
)

// Handler управляет HTTP-запросами на создание категорий.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики создания категории
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания категории.
type Service interface {
	Create(ctx context.Context, userUID uuid.UUID, req models.DummyCategory) (*models.Category, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать новую категорию
// @Description Создает новую категорию потребления для текущего пользователя. Возвращает созданную запись.
// @Tags Categories
// @Accept json
// @Produce json
// @Param request body models.DummyCategory true "Данные новой категории"
// @Success 201 {object} response.Response "Созданная категория"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Категория с таким именем уже существует"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /categories [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCategory
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(uuid.UUID)
	if !ok {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	created, err := h.service.Create(r.Context(), userUID, req)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryExists) {
			log.Error("duplicate category name", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("Category with this name already exists"))
			return
		}
		log.Error("failed to create category", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create category"))
		return
	}

	log.Info("category created", slog.String("id", created.ID.String()))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData("Category created successfully", created))
}
