package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/SteelCrab/coffee-count/internal/http/middlewarectx"
	"github.com/SteelCrab/coffee-count/internal/models"
	"github.com/SteelCrab/coffee-count/internal/storage/repository"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, userUID uuid.UUID, req models.DummyCategory) (*models.Category, error) {
	args := m.Called(ctx, userUID, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	userUID := uuid.New()

	validBody := `{"name":"Coffee","icon":"coffee","color":"#8B4513","unit":"ml","default_amount":250}`
	dummy := models.DummyCategory{
		Name:          "Coffee",
		Icon:          "coffee",
		Color:         "#8B4513",
		Unit:          "ml",
		DefaultAmount: 250,
	}

	tests := []struct {
		name           string
		body           string
		withUser       bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "успешное создание категории",
			body:     validBody,
			withUser: true,
			setupMock: func(m *MockService) {
				created := &models.Category{ID: uuid.New(), UserUID: userUID, Name: "Coffee", Unit: "ml"}
				m.On("Create", mock.Anything, userUID, dummy).Return(created, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `Category created successfully`,
		},
		{
			name:           "невалидный JSON",
			body:           `{"name":`,
			withUser:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
		{
			name:           "отсутствует default_amount",
			body:           `{"name":"Coffee","icon":"coffee","color":"#8B4513","unit":"ml"}`,
			withUser:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `DefaultAmount`,
		},
		{
			name:           "пользователь отсутствует в контексте",
			body:           validBody,
			withUser:       false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `unauthorized`,
		},
		{
			name:     "дубликат имени категории",
			body:     validBody,
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, userUID, dummy).
					Return(nil, repository.ErrCategoryExists)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `Category with this name already exists`,
		},
		{
			name:     "ошибка сервиса",
			body:     validBody,
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, userUID, dummy).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `failed to create category`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(tt.body))
			if tt.withUser {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, userUID))
			}

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
