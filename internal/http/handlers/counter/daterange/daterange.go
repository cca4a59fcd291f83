// Package daterange реализует HTTP-обработчик получения сводок счётчиков
// за диапазон дат.
//
// Handler принимает обязательные query-параметры start_date и end_date,
// вызывает бизнес-логику и возвращает упорядоченный по возрастанию даты
// список дневных сводок. Дни без записей в списке отсутствуют.
package daterange

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/SteelCrab/coffee-count/internal/http/middlewarectx"
	"github.com/SteelCrab/coffee-count/internal/http/response"
	"github.com/SteelCrab/coffee-count/internal/lib/sl"
	"github.com/SteelCrab/coffee-count/internal/models"
	countersvc "github.com/SteelCrab/coffee-count/internal/services/counter"
)

// Handler обрабатывает запросы на получение сводок за диапазон дат.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики сборки диапазонных сводок
}

// Service описывает интерфейс бизнес-логики диапазонной сводки.
type Service interface {
	GetForRange(ctx context.Context, userUID uuid.UUID, startDate, endDate time.Time) ([]*models.DailySummary, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить сводки счётчиков за диапазон дат
// @Description Возвращает список дневных сводок за диапазон дат включительно, по возрастанию даты. Присутствуют только дни с записями.
// @Tags Counters
// @Produce json
// @Param start_date query string true "Начало диапазона в формате YYYY-MM-DD"
// @Param end_date query string true "Конец диапазона в формате YYYY-MM-DD"
// @Success 200 {object} response.Response "Список дневных сводок"
// @Failure 400 {object} response.ErrorResponse "Некорректный диапазон дат"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /counters/range [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.counter.daterange"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	startDate, err := time.Parse(models.DateLayout, r.URL.Query().Get("start_date"))
	if err != nil {
		log.Error("failed to parse start_date", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("start_date must be in format YYYY-MM-DD"))
		return
	}
	endDate, err := time.Parse(models.DateLayout, r.URL.Query().Get("end_date"))
	if err != nil {
		log.Error("failed to parse end_date", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("end_date must be in format YYYY-MM-DD"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(uuid.UUID)
	if !ok {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	summaries, err := h.service.GetForRange(r.Context(), userUID, startDate, endDate)
	if err != nil {
		if errors.Is(err, countersvc.ErrInvalidRange) {
			log.Error("invalid date range", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("failed to get counter range data", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to fetch counter range data"))
		return
	}

	log.Info("counter range data retrieved", slog.Int("days", len(summaries)))
	render.JSON(w, r, response.OKWithData("Counter range data retrieved successfully", summaries))
}
