// Package counter содержит бизнес-логику счётчиков потребления: инкремент
// дневной записи и сборку дневных и диапазонных сводок из данных хранилища.
package counter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/SteelCrab/coffee-count/internal/models"
	"github.com/SteelCrab/coffee-count/internal/storage/repository"
)

// ErrInvalidAmount возвращается, когда значение инкремента не является
// положительным конечным числом.
var ErrInvalidAmount = errors.New("amount must be a positive number")

// ErrInvalidRange возвращается, когда начало диапазона позже его конца.
var ErrInvalidRange = errors.New("start_date must not be after end_date")

// CounterRepository определяет методы хранилища для записей счётчиков.
type CounterRepository interface {
	// UpsertIncrement атомарно создаёт или дополняет запись счётчика.
	UpsertIncrement(ctx context.Context, userUID, categoryID uuid.UUID, date time.Time, amount float64, notes *string) (*repository.CounterIncremented, error)
	// ListCountersForDate возвращает строки по всем активным категориям за день.
	ListCountersForDate(ctx context.Context, userUID uuid.UUID, date time.Time) ([]*repository.DailyCounterRow, error)
	// ListCountersForRange возвращает записи за диапазон дат включительно.
	ListCountersForRange(ctx context.Context, userUID uuid.UUID, startDate, endDate time.Time) ([]*repository.RangeCounterRow, error)
}

// CategoryRepository определяет методы чтения категорий, нужные счётчикам.
type CategoryRepository interface {
	// GetOwnedCategory возвращает активную категорию, принадлежащую пользователю.
	GetOwnedCategory(ctx context.Context, categoryID, userUID uuid.UUID) (*models.Category, error)
}

// Service реализует бизнес-логику работы со счётчиками.
type Service struct {
	counters   CounterRepository
	categories CategoryRepository
	log        *slog.Logger
	now        func() time.Time
}

// New создаёт новый экземпляр Service.
func New(counters CounterRepository, categories CategoryRepository, log *slog.Logger) *Service {
	return &Service{
		counters:   counters,
		categories: categories,
		log:        log,
		now:        time.Now,
	}
}

// Increment добавляет одно событие потребления к дневной записи счётчика
// и возвращает итоговую сводку по категории за сегодня.
//
// Категория должна быть активной и принадлежать пользователю, иначе
// возвращается repository.ErrCategoryNotFound. "Сегодня" — календарная дата
// UTC, вычисленная один раз в начале операции.
func (s *Service) Increment(ctx context.Context, userUID uuid.UUID, req models.DummyCounterEntry) (*models.CategoryCounterSummary, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("invalid category id: %w", repository.ErrCategoryNotFound)
	}

	if req.Amount <= 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return nil, ErrInvalidAmount
	}

	category, err := s.categories.GetOwnedCategory(ctx, categoryID, userUID)
	if err != nil {
		return nil, err
	}

	today := civilDateUTC(s.now())

	incremented, err := s.counters.UpsertIncrement(ctx, userUID, categoryID, today, req.Amount, req.Notes)
	if err != nil {
		return nil, err
	}

	s.log.Info("counter incremented",
		slog.String("category_id", categoryID.String()),
		slog.Int("count", incremented.Count))

	return &models.CategoryCounterSummary{
		CategoryID:  category.ID,
		Name:        category.Name,
		Icon:        category.Icon,
		Color:       category.Color,
		Unit:        category.Unit,
		Count:       incremented.Count,
		Amounts:     incremented.Amounts,
		TotalAmount: sum(incremented.Amounts),
	}, nil
}

// GetForDate собирает сводку за один день. В сводке присутствует каждая
// активная категория пользователя: нетронутые за день категории получают
// нулевые значения.
func (s *Service) GetForDate(ctx context.Context, userUID uuid.UUID, date time.Time) (*models.DailySummary, error) {
	rows, err := s.counters.ListCountersForDate(ctx, userUID, date)
	if err != nil {
		return nil, err
	}

	categories := make(map[string]models.CategoryCounterSummary, len(rows))
	for _, row := range rows {
		categories[row.Name] = models.CategoryCounterSummary{
			CategoryID:  row.CategoryID,
			Name:        row.Name,
			Icon:        row.Icon,
			Color:       row.Color,
			Unit:        row.Unit,
			Count:       row.Count,
			Amounts:     row.Amounts,
			TotalAmount: sum(row.Amounts),
		}
	}

	return &models.DailySummary{
		Date:       date.Format(models.DateLayout),
		Categories: categories,
	}, nil
}

// GetForRange собирает сводки за диапазон дат включительно, по возрастанию
// даты. В отличие от GetForDate выборка разреженная: дни без записей и
// категории, не тронутые в конкретный день, в результат не попадают.
func (s *Service) GetForRange(ctx context.Context, userUID uuid.UUID, startDate, endDate time.Time) ([]*models.DailySummary, error) {
	if startDate.After(endDate) {
		return nil, ErrInvalidRange
	}

	rows, err := s.counters.ListCountersForRange(ctx, userUID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	// Строки приходят упорядоченными по дате, поэтому сводки собираются
	// за один проход и остаются отсортированными по возрастанию.
	var result []*models.DailySummary
	var current *models.DailySummary
	for _, row := range rows {
		date := row.Date.Format(models.DateLayout)
		if current == nil || current.Date != date {
			current = &models.DailySummary{
				Date:       date,
				Categories: make(map[string]models.CategoryCounterSummary),
			}
			result = append(result, current)
		}
		current.Categories[row.Name] = models.CategoryCounterSummary{
			CategoryID:  row.CategoryID,
			Name:        row.Name,
			Icon:        row.Icon,
			Color:       row.Color,
			Unit:        row.Unit,
			Count:       row.Count,
			Amounts:     row.Amounts,
			TotalAmount: sum(row.Amounts),
		}
	}
	return result, nil
}

func civilDateUTC(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

func sum(amounts []float64) float64 {
	var total float64
	for _, a := range amounts {
		total += a
	}
	return total
}
