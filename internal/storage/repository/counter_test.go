package repository

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_UpsertIncrement(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("первый инкремент создает запись", func(t *testing.T) {
		userUID := uuid.New()
		categoryID := factory.CreateCategory(t, userUID, "Coffee", "ml")

		result, err := storage.UpsertIncrement(ctx, userUID, categoryID, date, 250, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Count)
		assert.Equal(t, []float64{250}, result.Amounts)
	})

	t.Run("повторный инкремент дополняет ту же запись", func(t *testing.T) {
		userUID := uuid.New()
		categoryID := factory.CreateCategory(t, userUID, "Coffee", "ml")

		_, err := storage.UpsertIncrement(ctx, userUID, categoryID, date, 250, nil)
		require.NoError(t, err)
		result, err := storage.UpsertIncrement(ctx, userUID, categoryID, date, 300, nil)
		require.NoError(t, err)

		assert.Equal(t, 2, result.Count)
		assert.Equal(t, []float64{250, 300}, result.Amounts)
		assert.Equal(t, 1, factory.CountCounterRows(t, userUID, categoryID, date))
	})

	t.Run("разные дни дают разные записи", func(t *testing.T) {
		userUID := uuid.New()
		categoryID := factory.CreateCategory(t, userUID, "Coffee", "ml")
		nextDay := date.AddDate(0, 0, 1)

		_, err := storage.UpsertIncrement(ctx, userUID, categoryID, date, 250, nil)
		require.NoError(t, err)
		result, err := storage.UpsertIncrement(ctx, userUID, categoryID, nextDay, 300, nil)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Count)
		assert.Equal(t, 1, factory.CountCounterRows(t, userUID, categoryID, date))
		assert.Equal(t, 1, factory.CountCounterRows(t, userUID, categoryID, nextDay))
	})

	t.Run("отсутствующая заметка не стирает сохраненную", func(t *testing.T) {
		userUID := uuid.New()
		categoryID := factory.CreateCategory(t, userUID, "Coffee", "ml")
		notes := "A"

		_, err := storage.UpsertIncrement(ctx, userUID, categoryID, date, 250, &notes)
		require.NoError(t, err)
		_, err = storage.UpsertIncrement(ctx, userUID, categoryID, date, 300, nil)
		require.NoError(t, err)

		state := factory.GetCounterRow(t, userUID, categoryID, date)
		require.NotNil(t, state.Notes)
		assert.Equal(t, "A", *state.Notes)
	})

	t.Run("заметки дописываются через перевод строки", func(t *testing.T) {
		userUID := uuid.New()
		categoryID := factory.CreateCategory(t, userUID, "Coffee", "ml")
		first, second := "A", "B"

		_, err := storage.UpsertIncrement(ctx, userUID, categoryID, date, 250, &first)
		require.NoError(t, err)
		_, err = storage.UpsertIncrement(ctx, userUID, categoryID, date, 300, &second)
		require.NoError(t, err)

		state := factory.GetCounterRow(t, userUID, categoryID, date)
		require.NotNil(t, state.Notes)
		assert.Equal(t, "A\nB", *state.Notes)
	})
}

func TestStorage_UpsertIncrement_Concurrent(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userUID := uuid.New()
	categoryID := factory.CreateCategory(t, userUID, "Coffee", "ml")
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	const workers = 20

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := range workers {
		wg.Add(1)
		go func(amount float64) {
			defer wg.Done()
			_, err := storage.UpsertIncrement(ctx, userUID, categoryID, date, amount, nil)
			errs <- err
		}(float64(i + 1))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// ни один конкурентный инкремент не потерян
	state := factory.GetCounterRow(t, userUID, categoryID, date)
	assert.Equal(t, workers, state.Count)
	require.Len(t, state.Amounts, workers)

	sort.Float64s(state.Amounts)
	var total float64
	for i, amount := range state.Amounts {
		assert.Equal(t, float64(i+1), amount)
		total += amount
	}
	assert.InDelta(t, float64(workers*(workers+1)/2), total, 1e-9)
	assert.Equal(t, 1, factory.CountCounterRows(t, userUID, categoryID, date))
}

func TestStorage_ListCountersForDate(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userUID := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	coffeeID := factory.CreateCategory(t, userUID, "Coffee", "ml")
	teaID := factory.CreateCategory(t, userUID, "Tea", "ml")
	inactiveID := factory.CreateCategory(t, userUID, "Old", "pcs")
	factory.DeactivateCategory(t, inactiveID)

	_, err := storage.UpsertIncrement(ctx, userUID, coffeeID, date, 250, nil)
	require.NoError(t, err)
	_, err = storage.UpsertIncrement(ctx, userUID, coffeeID, date, 300, nil)
	require.NoError(t, err)

	rows, err := storage.ListCountersForDate(ctx, userUID, date)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// категории идут в порядке создания, нетронутые получают нули
	assert.Equal(t, coffeeID, rows[0].CategoryID)
	assert.Equal(t, 2, rows[0].Count)
	assert.Equal(t, []float64{250, 300}, rows[0].Amounts)

	assert.Equal(t, teaID, rows[1].CategoryID)
	assert.Equal(t, 0, rows[1].Count)
	assert.Empty(t, rows[1].Amounts)
}

func TestStorage_ListCountersForRange(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userUID := uuid.New()

	coffeeID := factory.CreateCategory(t, userUID, "Coffee", "ml")
	teaID := factory.CreateCategory(t, userUID, "Tea", "ml")

	day1 := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	day3 := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)
	outside := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	_, err := storage.UpsertIncrement(ctx, userUID, teaID, day3, 200, nil)
	require.NoError(t, err)
	_, err = storage.UpsertIncrement(ctx, userUID, coffeeID, day1, 250, nil)
	require.NoError(t, err)
	_, err = storage.UpsertIncrement(ctx, userUID, coffeeID, day3, 300, nil)
	require.NoError(t, err)
	_, err = storage.UpsertIncrement(ctx, userUID, coffeeID, outside, 999, nil)
	require.NoError(t, err)

	rows, err := storage.ListCountersForRange(ctx, userUID, day1, day3)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// по возрастанию даты, внутри дня — в порядке создания категорий
	assert.Equal(t, "2024-01-10", rows[0].Date.Format("2006-01-02"))
	assert.Equal(t, coffeeID, rows[0].CategoryID)
	assert.Equal(t, "2024-01-12", rows[1].Date.Format("2006-01-02"))
	assert.Equal(t, coffeeID, rows[1].CategoryID)
	assert.Equal(t, "2024-01-12", rows[2].Date.Format("2006-01-02"))
	assert.Equal(t, teaID, rows[2].CategoryID)

	t.Run("границы диапазона включаются", func(t *testing.T) {
		rows, err := storage.ListCountersForRange(ctx, userUID, day1, day1)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, []float64{250}, rows[0].Amounts)
	})

	t.Run("пустой диапазон", func(t *testing.T) {
		rows, err := storage.ListCountersForRange(ctx, userUID,
			time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}
