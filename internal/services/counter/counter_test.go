package counter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SteelCrab/coffee-count/internal/models"
	"github.com/SteelCrab/coffee-count/internal/storage/repository"
)

// CounterRepoMock реализует интерфейс CounterRepository
type CounterRepoMock struct {
	mock.Mock
}

func (m *CounterRepoMock) UpsertIncrement(ctx context.Context, userUID, categoryID uuid.UUID, date time.Time, amount float64, notes *string) (*repository.CounterIncremented, error) {
	args := m.Called(ctx, userUID, categoryID, date, amount, notes)
	res, _ := args.Get(0).(*repository.CounterIncremented)
	return res, args.Error(1)
}

func (m *CounterRepoMock) ListCountersForDate(ctx context.Context, userUID uuid.UUID, date time.Time) ([]*repository.DailyCounterRow, error) {
	args := m.Called(ctx, userUID, date)
	res, _ := args.Get(0).([]*repository.DailyCounterRow)
	return res, args.Error(1)
}

func (m *CounterRepoMock) ListCountersForRange(ctx context.Context, userUID uuid.UUID, startDate, endDate time.Time) ([]*repository.RangeCounterRow, error) {
	args := m.Called(ctx, userUID, startDate, endDate)
	res, _ := args.Get(0).([]*repository.RangeCounterRow)
	return res, args.Error(1)
}

// CategoryRepoMock реализует интерфейс CategoryRepository
type CategoryRepoMock struct {
	mock.Mock
}

func (m *CategoryRepoMock) GetOwnedCategory(ctx context.Context, categoryID, userUID uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, categoryID, userUID)
	res, _ := args.Get(0).(*models.Category)
	return res, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newService(counters *CounterRepoMock, categories *CategoryRepoMock) *Service {
	s := New(counters, categories, newNoopLogger())
	s.now = func() time.Time {
		return time.Date(2024, 1, 15, 23, 45, 0, 0, time.UTC)
	}
	return s
}

func coffeeCategory(id, userUID uuid.UUID) *models.Category {
	return &models.Category{
		ID:      id,
		UserUID: userUID,
		Name:    "Coffee",
		Icon:    "coffee",
		Color:   "#8B4513",
		Unit:    "ml",
	}
}

func TestIncrement(t *testing.T) {
	userUID := uuid.New()
	categoryID := uuid.New()
	today := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("второй инкремент возвращает полную сводку за день", func(t *testing.T) {
		counters := new(CounterRepoMock)
		categories := new(CategoryRepoMock)
		categories.On("GetOwnedCategory", mock.Anything, categoryID, userUID).
			Return(coffeeCategory(categoryID, userUID), nil)
		counters.On("UpsertIncrement", mock.Anything, userUID, categoryID, today, 300.0, (*string)(nil)).
			Return(&repository.CounterIncremented{Count: 2, Amounts: []float64{250.0, 300.0}}, nil)

		svc := newService(counters, categories)
		got, err := svc.Increment(context.Background(), userUID, models.DummyCounterEntry{
			CategoryID: categoryID.String(),
			Amount:     300.0,
		})

		require.NoError(t, err)
		assert.Equal(t, 2, got.Count)
		assert.Equal(t, []float64{250.0, 300.0}, got.Amounts)
		assert.InDelta(t, 550.0, got.TotalAmount, 1e-9)
		assert.Equal(t, "Coffee", got.Name)
		assert.Equal(t, "ml", got.Unit)
		counters.AssertExpectations(t)
	})

	t.Run("заметка передаётся в хранилище", func(t *testing.T) {
		counters := new(CounterRepoMock)
		categories := new(CategoryRepoMock)
		notes := "morning espresso"
		categories.On("GetOwnedCategory", mock.Anything, categoryID, userUID).
			Return(coffeeCategory(categoryID, userUID), nil)
		counters.On("UpsertIncrement", mock.Anything, userUID, categoryID, today, 250.0, &notes).
			Return(&repository.CounterIncremented{Count: 1, Amounts: []float64{250.0}}, nil)

		svc := newService(counters, categories)
		_, err := svc.Increment(context.Background(), userUID, models.DummyCounterEntry{
			CategoryID: categoryID.String(),
			Amount:     250.0,
			Notes:      &notes,
		})

		require.NoError(t, err)
		counters.AssertExpectations(t)
	})

	t.Run("чужая категория неотличима от несуществующей", func(t *testing.T) {
		counters := new(CounterRepoMock)
		categories := new(CategoryRepoMock)
		categories.On("GetOwnedCategory", mock.Anything, categoryID, userUID).
			Return(nil, repository.ErrCategoryNotFound)

		svc := newService(counters, categories)
		_, err := svc.Increment(context.Background(), userUID, models.DummyCounterEntry{
			CategoryID: categoryID.String(),
			Amount:     250.0,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, repository.ErrCategoryNotFound)
		counters.AssertNotCalled(t, "UpsertIncrement",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("некорректный uuid категории", func(t *testing.T) {
		svc := newService(new(CounterRepoMock), new(CategoryRepoMock))
		_, err := svc.Increment(context.Background(), userUID, models.DummyCounterEntry{
			CategoryID: "not-a-uuid",
			Amount:     250.0,
		})

		assert.ErrorIs(t, err, repository.ErrCategoryNotFound)
	})

	t.Run("неположительное значение инкремента", func(t *testing.T) {
		svc := newService(new(CounterRepoMock), new(CategoryRepoMock))
		_, err := svc.Increment(context.Background(), userUID, models.DummyCounterEntry{
			CategoryID: categoryID.String(),
			Amount:     -1.0,
		})

		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestGetForDate(t *testing.T) {
	userUID := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	coffeeID := uuid.New()
	teaID := uuid.New()

	t.Run("нетронутые категории получают нулевые значения", func(t *testing.T) {
		counters := new(CounterRepoMock)
		counters.On("ListCountersForDate", mock.Anything, userUID, date).
			Return([]*repository.DailyCounterRow{
				{CategoryID: coffeeID, Name: "Coffee", Icon: "coffee", Color: "#8B4513", Unit: "ml", Count: 2, Amounts: []float64{250.0, 300.0}},
				{CategoryID: teaID, Name: "Tea", Icon: "tea", Color: "#90EE90", Unit: "ml", Count: 0, Amounts: []float64{}},
			}, nil)

		svc := newService(counters, new(CategoryRepoMock))
		got, err := svc.GetForDate(context.Background(), userUID, date)

		require.NoError(t, err)
		assert.Equal(t, "2024-01-15", got.Date)
		require.Len(t, got.Categories, 2)

		coffee := got.Categories["Coffee"]
		assert.Equal(t, 2, coffee.Count)
		assert.InDelta(t, 550.0, coffee.TotalAmount, 1e-9)

		tea := got.Categories["Tea"]
		assert.Equal(t, 0, tea.Count)
		assert.Empty(t, tea.Amounts)
		assert.Zero(t, tea.TotalAmount)
	})

	t.Run("ошибка хранилища", func(t *testing.T) {
		counters := new(CounterRepoMock)
		counters.On("ListCountersForDate", mock.Anything, userUID, date).
			Return(nil, errors.New("db error"))

		svc := newService(counters, new(CategoryRepoMock))
		_, err := svc.GetForDate(context.Background(), userUID, date)

		require.Error(t, err)
	})
}

func TestGetForRange(t *testing.T) {
	userUID := uuid.New()
	coffeeID := uuid.New()
	day1 := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)

	t.Run("строки группируются по дням по возрастанию даты", func(t *testing.T) {
		counters := new(CounterRepoMock)
		counters.On("ListCountersForRange", mock.Anything, userUID, day1, day2).
			Return([]*repository.RangeCounterRow{
				{Date: day1, CategoryID: coffeeID, Name: "Coffee", Unit: "ml", Count: 1, Amounts: []float64{250.0}},
				{Date: day2, CategoryID: coffeeID, Name: "Coffee", Unit: "ml", Count: 2, Amounts: []float64{250.0, 300.0}},
			}, nil)

		svc := newService(counters, new(CategoryRepoMock))
		got, err := svc.GetForRange(context.Background(), userUID, day1, day2)

		require.NoError(t, err)
		// день без записей (2024-01-11) в результате отсутствует
		require.Len(t, got, 2)
		assert.Equal(t, "2024-01-10", got[0].Date)
		assert.Equal(t, "2024-01-12", got[1].Date)
		assert.InDelta(t, 550.0, got[1].Categories["Coffee"].TotalAmount, 1e-9)
	})

	t.Run("начало диапазона позже конца", func(t *testing.T) {
		svc := newService(new(CounterRepoMock), new(CategoryRepoMock))
		_, err := svc.GetForRange(context.Background(), userUID, day2, day1)

		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("пустой диапазон даёт пустой список", func(t *testing.T) {
		counters := new(CounterRepoMock)
		counters.On("ListCountersForRange", mock.Anything, userUID, day1, day2).
			Return([]*repository.RangeCounterRow{}, nil)

		svc := newService(counters, new(CategoryRepoMock))
		got, err := svc.GetForRange(context.Background(), userUID, day1, day2)

		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
