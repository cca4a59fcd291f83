package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			err = storage.DB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "Failed to create storage after retries")

	// Создаем таблицы
	_, err = storage.DB.Exec(`
        DROP TABLE IF EXISTS counter_data CASCADE;
        DROP TABLE IF EXISTS categories CASCADE;

        CREATE EXTENSION IF NOT EXISTS "pgcrypto";

        CREATE TABLE categories (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            user_id UUID NOT NULL,
            name VARCHAR(100) NOT NULL,
            icon VARCHAR(50) NOT NULL,
            color VARCHAR(20) NOT NULL,
            unit VARCHAR(20) NOT NULL,
            default_amount FLOAT8 NOT NULL,
            is_active BOOLEAN NOT NULL DEFAULT true,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );

        CREATE TABLE counter_data (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            user_id UUID NOT NULL,
            category_id UUID NOT NULL REFERENCES categories(id),
            date DATE NOT NULL,
            count INT NOT NULL DEFAULT 0,
            amounts FLOAT8[] NOT NULL DEFAULT '{}',
            notes TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (user_id, category_id, date)
        );
    `)
	require.NoError(t, err, "Failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateCategory создает тестовую категорию и возвращает её ID
func (f *TestDataFactory) CreateCategory(t *testing.T, userUID uuid.UUID, name, unit string) uuid.UUID {
	var id uuid.UUID
	err := f.storage.DB.QueryRow(`INSERT INTO categories (user_id, name, icon, color, unit, default_amount)
		VALUES ($1, $2, 'circle', '#000000', $3, 1) RETURNING id`,
		userUID, name, unit).Scan(&id)
	require.NoError(t, err)
	return id
}

// DeactivateCategory помечает категорию неактивной
func (f *TestDataFactory) DeactivateCategory(t *testing.T, categoryID uuid.UUID) {
	_, err := f.storage.DB.Exec(`UPDATE categories SET is_active = false WHERE id = $1`, categoryID)
	require.NoError(t, err)
}

// CounterRowState — состояние записи счётчика для проверок в тестах
type CounterRowState struct {
	Count   int
	Amounts []float64
	Notes   *string
}

// GetCounterRow читает запись счётчика напрямую из БД
func (f *TestDataFactory) GetCounterRow(t *testing.T, userUID, categoryID uuid.UUID, date time.Time) CounterRowState {
	var state CounterRowState
	var amountsJSON string
	err := f.storage.DB.QueryRow(`SELECT count, to_json(amounts)::text, notes
		FROM counter_data WHERE user_id = $1 AND category_id = $2 AND date = $3`,
		userUID, categoryID, date).Scan(&state.Count, &amountsJSON, &state.Notes)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(amountsJSON), &state.Amounts))
	return state
}

// CountCounterRows возвращает число записей счётчиков по ключу
func (f *TestDataFactory) CountCounterRows(t *testing.T, userUID, categoryID uuid.UUID, date time.Time) int {
	var count int
	err := f.storage.DB.QueryRow(`SELECT COUNT(*) FROM counter_data
		WHERE user_id = $1 AND category_id = $2 AND date = $3`,
		userUID, categoryID, date).Scan(&count)
	require.NoError(t, err)
	return count
}
