// Package models содержит доменные структуры счётчиков потребления:
// категории, записи счётчиков и собранные из них сводки,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout — формат календарной даты во всех входных и выходных данных.
const DateLayout = "2006-01-02"

// Category представляет категорию потребления, принадлежащую пользователю.
// Записи счётчиков видят категорию только пока IsActive = true.
type Category struct {
	ID            uuid.UUID `json:"id"`
	UserUID       uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	Icon          string    `json:"icon"`
	Color         string    `json:"color"`
	Unit          string    `json:"unit"`
	DefaultAmount float64   `json:"default_amount"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DummyCategory используется для приёма данных создания категории из JSON-запроса.
type DummyCategory struct {
	Name          string  `json:"name" validate:"required,max=100"`
	Icon          string  `json:"icon" validate:"required,max=50"`
	Color         string  `json:"color" validate:"required,max=20"`
	Unit          string  `json:"unit" validate:"required,max=20"`
	DefaultAmount float64 `json:"default_amount" validate:"required,gt=0"`
}

// DummyCounterEntry используется для приёма данных инкремента из JSON-запроса.
// Notes может отсутствовать — отсутствующая заметка не стирает уже сохранённые.
type DummyCounterEntry struct {
	CategoryID string  `json:"category_id" validate:"required,uuid"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	Notes      *string `json:"notes,omitempty"`
}

// CategoryCounterSummary — сводка по одной категории за один день.
// TotalAmount не хранится в БД и всегда пересчитывается из Amounts.
type CategoryCounterSummary struct {
	CategoryID  uuid.UUID `json:"category_id"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	Unit        string    `json:"unit"`
	Count       int       `json:"count"`
	Amounts     []float64 `json:"amounts"`
	TotalAmount float64   `json:"total_amount"`
}

// DailySummary — сводка за один календарный день.
// Ключ карты — отображаемое имя категории, не её ID.
type DailySummary struct {
	Date       string                            `json:"date"`
	Categories map[string]CategoryCounterSummary `json:"categories"`
}
