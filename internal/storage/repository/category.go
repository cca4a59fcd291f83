package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/SteelCrab/coffee-count/internal/models"
)

// CreateCategory вставляет новую категорию и возвращает созданную запись.
// Если активная категория с таким именем уже есть у пользователя,
// возвращает ErrCategoryExists.
func (s *Storage) CreateCategory(ctx context.Context, userUID uuid.UUID, req models.DummyCategory) (*models.Category, error) {
	const op = "storage.CreateCategory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE user_id = $1 AND name = $2 AND is_active = true)`,
		userUID, req.Name).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil, fmt.Errorf("%s: %w", op, ErrCategoryExists)
	}

	query := `INSERT INTO categories (user_id, name, icon, color, unit, default_amount)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, user_id, name, icon, color, unit, default_amount, is_active, created_at, updated_at`
	var result models.Category
	err = s.DB.QueryRowContext(ctx, query,
		userUID, req.Name, req.Icon, req.Color, req.Unit, req.DefaultAmount).
		Scan(&result.ID, &result.UserUID, &result.Name, &result.Icon, &result.Color,
			&result.Unit, &result.DefaultAmount, &result.IsActive, &result.CreatedAt, &result.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListActiveCategories возвращает активные категории пользователя
// в порядке их создания.
func (s *Storage) ListActiveCategories(ctx context.Context, userUID uuid.UUID) ([]*models.Category, error) {
	const op = "storage.ListActiveCategories"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, name, icon, color, unit, default_amount, is_active, created_at, updated_at
			  FROM categories
			  WHERE user_id = $1 AND is_active = true
			  ORDER BY created_at ASC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Category
	for rows.Next() {
		var item models.Category
		if err := rows.Scan(&item.ID, &item.UserUID, &item.Name, &item.Icon, &item.Color,
			&item.Unit, &item.DefaultAmount, &item.IsActive, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetOwnedCategory возвращает активную категорию по ID, если она принадлежит
// пользователю. Проверка владельца обязательна: чужая категория неотличима
// от несуществующей и даёт ErrCategoryNotFound.
func (s *Storage) GetOwnedCategory(ctx context.Context, categoryID, userUID uuid.UUID) (*models.Category, error) {
	const op = "storage.GetOwnedCategory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, name, icon, color, unit, default_amount, is_active, created_at, updated_at
			  FROM categories
			  WHERE id = $1 AND user_id = $2 AND is_active = true`
	row := s.DB.QueryRowContext(ctx, query, categoryID, userUID)

	var result models.Category
	if err := row.Scan(&result.ID, &result.UserUID, &result.Name, &result.Icon, &result.Color,
		&result.Unit, &result.DefaultAmount, &result.IsActive, &result.CreatedAt, &result.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrCategoryNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}
