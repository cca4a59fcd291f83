// Package get реализует HTTP-обработчик получения дневной сводки счётчиков.
//
// Handler определяет дату из URL-параметра или query-параметра (по умолчанию —
// текущая дата UTC), вызывает бизнес-логику сборки сводки и возвращает
// результат в JSON-формате. В сводке присутствует каждая активная категория
// пользователя, включая нетронутые за день.
package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/SteelCrab/coffee-count/internal/http/middlewarectx"
	"github.com/SteelCrab/coffee-count/internal/http/response"
	"github.com/SteelCrab/coffee-count/internal/lib/sl"
	"github.com/SteelCrab/coffee-count/internal/models"
)

// Handler обрабатывает запросы на получение сводки счётчиков за день.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики сборки дневной сводки
}

// Service описывает интерфейс бизнес-логики дневной сводки.
type Service interface {
	GetForDate(ctx context.Context, userUID uuid.UUID, date time.Time) (*models.DailySummary, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить сводку счётчиков за день
// @Description Возвращает сводку по всем активным категориям пользователя за указанную дату (по умолчанию — сегодня UTC).
// @Tags Counters
// @Produce json
// @Param date query string false "Дата в формате YYYY-MM-DD"
// @Success 200 {object} response.Response "Дневная сводка"
// @Failure 400 {object} response.ErrorResponse "Некорректная дата"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /counters [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.counter.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	rawDate := chi.URLParam(r, "date")
	if rawDate == "" {
		rawDate = r.URL.Query().Get("date")
	}

	date := time.Now().UTC()
	if rawDate != "" {
		var err error
		date, err = time.Parse(models.DateLayout, rawDate)
		if err != nil {
			log.Error("failed to parse date", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("date must be in format YYYY-MM-DD"))
			return
		}
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(uuid.UUID)
	if !ok {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	summary, err := h.service.GetForDate(r.Context(), userUID, date)
	if err != nil {
		log.Error("failed to get counter data", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to fetch counter data"))
		return
	}

	log.Info("counter data retrieved", slog.String("date", summary.Date))
	render.JSON(w, r, response.OKWithData("Counter data retrieved successfully", summary))
}
