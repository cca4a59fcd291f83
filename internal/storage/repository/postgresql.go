// Package repository реализует хранилище данных на основе PostgreSQL
// для категорий потребления и дневных записей счётчиков. Предоставляет
// методы чтения категорий, атомарного инкремента записей и выборки
// данных для дневных и диапазонных сводок.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrCategoryNotFound возвращается, когда активная категория с данным ID
// не принадлежит запрашивающему пользователю либо не существует.
var ErrCategoryNotFound = errors.New("category not found")

// ErrCategoryExists возвращается при попытке создать категорию с именем,
// уже занятым активной категорией того же пользователя.
var ErrCategoryExists = errors.New("category with this name already exists")

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с категориями и счётчиками.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Ready проверяет готовность базы данных.
func (s *Storage) Ready(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'counter_data'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table counter_data missing or query error: %w", err)
	}
	return nil
}
