// Package add реализует HTTP-обработчик инкремента счётчика.
//
// Handler принимает JSON-запрос с ID категории, значением и необязательной
// заметкой, валидирует его, вызывает бизнес-логику инкремента и возвращает
// итоговую сводку по категории за сегодня со статусом 201 Created.
//
// При наличии заголовка Idempotency-Key повтор запроса с тем же ключом
// возвращает сохранённую сводку без нового инкремента.
package add

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/SteelCrab/coffee-count/internal/http/middlewarectx"
	"github.com/SteelCrab/coffee-count/internal/http/response"
	"github.com/SteelCrab/coffee-count/internal/lib/sl"
	"github.com/SteelCrab/coffee-count/internal/models"
	countersvc "github.com/SteelCrab/coffee-count/internal/services/counter"
	"github.com/SteelCrab/coffee-count/internal/storage/repository"
)

const replyTTL = 24 * time.Hour

// Handler управляет HTTP-запросами на инкремент счётчиков.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики инкремента
	replies  ReplyStore          // Хранилище ответов для идемпотентных повторов (может быть nil)
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики инкремента счётчика.
type Service interface {
	Increment(ctx context.Context, userUID uuid.UUID, req models.DummyCounterEntry) (*models.CategoryCounterSummary, error)
}

// ReplyStore описывает хранилище ранее отданных ответов по ключу идемпотентности.
type ReplyStore interface {
	GetReply(ctx context.Context, key string, result any) (bool, error)
	StoreReply(ctx context.Context, key string, value any, expiration time.Duration) error
}

// New создает новый Handler с переданными логгером, сервисом и хранилищем ответов.
func New(log *slog.Logger, service Service, replies ReplyStore) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		replies:  replies,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить событие потребления
// @Description Атомарно увеличивает дневной счётчик категории и добавляет значение в историю. Возвращает итоговую сводку по категории.
// @Tags Counters
// @Accept json
// @Produce json
// @Param request body models.DummyCounterEntry true "Данные инкремента"
// @Success 201 {object} response.Response "Итоговая сводка по категории"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Категория не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /counters [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.counter.add"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCounterEntry
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

	idemKey := r.Header.Get("Idempotency-Key")
	replyKey := fmt.Sprintf("counter:reply:%s:%s", userUID, idemKey)
	if h.replies != nil && idemKey != "" {
		var stored models.CategoryCounterSummary
		found, err := h.replies.GetReply(r.Context(), replyKey, &stored)
		if err != nil {
			log.Warn("failed to check idempotency key", sl.Err(err))
		}
		if found {
			log.Info("replayed counter increment", slog.String("idempotency_key", idemKey))
			w.WriteHeader(http.StatusCreated)
			render.JSON(w, r, response.OKWithData("Counter data added successfully", stored))
			return
		}
	}

	summary, err := h.service.Increment(r.Context(), userUID, req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			log.Error("category not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("Category not found"))
		case errors.Is(err, countersvc.ErrInvalidAmount):
			log.Error("invalid amount", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to add counter data", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to add counter data"))
		}
		return
	}

	if h.replies != nil && idemKey != "" {
		if err := h.replies.StoreReply(r.Context(), replyKey, summary, replyTTL); err != nil {
			log.Warn("failed to store idempotency reply", sl.Err(err))
		}
	}

	log.Info("counter data added", slog.Int("count", summary.Count))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData("Counter data added successfully", summary))
}
