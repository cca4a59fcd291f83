// Package category содержит бизнес-логику категорий потребления:
// создание и чтение справочных данных, принадлежащих пользователю.
package category

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SteelCrab/coffee-count/internal/models"
)

// CategoryRepository определяет методы хранилища для категорий.
type CategoryRepository interface {
	// CreateCategory вставляет новую категорию и возвращает созданную запись.
	CreateCategory(ctx context.Context, userUID uuid.UUID, req models.DummyCategory) (*models.Category, error)
	// ListActiveCategories возвращает активные категории пользователя.
	ListActiveCategories(ctx context.Context, userUID uuid.UUID) ([]*models.Category, error)
	// GetOwnedCategory возвращает активную категорию, принадлежащую пользователю.
	GetOwnedCategory(ctx context.Context, categoryID, userUID uuid.UUID) (*models.Category, error)
}

// Service реализует бизнес-логику работы с категориями.
type Service struct {
	repo CategoryRepository
	log  *slog.Logger
}

// New создаёт новый экземпляр Service.
func New(repo CategoryRepository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Create создаёт новую категорию пользователя.
func (s *Service) Create(ctx context.Context, userUID uuid.UUID, req models.DummyCategory) (*models.Category, error) {
	created, err := s.repo.CreateCategory(ctx, userUID, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new category",
		slog.String("id", created.ID.String()),
		slog.String("name", created.Name))
	return created, nil
}

// List возвращает активные категории пользователя в порядке создания.
func (s *Service) List(ctx context.Context, userUID uuid.UUID) ([]*models.Category, error) {
	return s.repo.ListActiveCategories(ctx, userUID)
}
