// Package authclient реализует HTTP-клиент сервиса аутентификации.
//
// Клиент обменивает bearer-токен на подтверждённую личность пользователя
// одним синхронным запросом POST /api/auth/verify. Результат не кешируется,
// неудачный запрос не повторяется: любая ошибка сразу возвращается вызывающему.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ErrVerificationFailed возвращается, когда сервис аутентификации отклонил
// токен либо запрос проверки не удалось выполнить.
var ErrVerificationFailed = errors.New("token verification failed")

// Client инкапсулирует подключение к сервису аутентификации.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New создаёт новый клиент сервиса аутентификации.
// Таймаут ограничивает полный цикл запроса проверки токена.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

type verifyTokenResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    *TokenData `json:"data"`
}

// TokenData — подтверждённая личность, полученная от сервиса аутентификации.
// Действительна только в рамках одного запроса.
type TokenData struct {
	UserUID uuid.UUID `json:"userId"`
	User    UserInfo  `json:"user"`
}

// UserInfo — данные пользователя из ответа сервиса аутентификации.
type UserInfo struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name"`
	IsActive    bool      `json:"is_active"`
}

// Verify обменивает токен на подтверждённую личность.
// Любой не-2xx статус, success=false или отсутствие данных в ответе
// считаются ошибкой проверки.
func (c *Client) Verify(ctx context.Context, token string) (*TokenData, error) {
	const op = "authclient.Verify"

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(verifyTokenRequest{Token: token}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/verify", &buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrVerificationFailed, resp.Status)
	}

	var verifyResp verifyTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&verifyResp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", ErrVerificationFailed, err)
	}
	if !verifyResp.Success {
		return nil, fmt.Errorf("%w: %s", ErrVerificationFailed, verifyResp.Message)
	}
	if verifyResp.Data == nil {
		return nil, fmt.Errorf("%w: no token data in response", ErrVerificationFailed)
	}

	return verifyResp.Data, nil
}
