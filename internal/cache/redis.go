// Package cache реализует защиту от повторной обработки инкрементов
// на основе Redis. При повторе запроса с тем же заголовком Idempotency-Key
// клиенту возвращается сохранённая сводка вместо нового инкремента.
//
// Это защита от сетевых ретраев клиента, а не механизм корректности:
// корректность конкурентных инкрементов обеспечивает атомарный upsert
// в хранилище. Доменные сущности здесь не кешируются.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SteelCrab/coffee-count/internal/config"
)

// Cache инкапсулирует подключение к Redis.
type Cache struct {
	Db *redis.Client
}

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

// GetReply возвращает сохранённый ответ по ключу идемпотентности.
// Второе значение false означает, что ключ ещё не встречался.
func (c *Cache) GetReply(ctx context.Context, key string, result any) (bool, error) {
	const op = "cache.GetReply"
	val, err := c.Db.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal([]byte(val), result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// StoreReply сохраняет ответ по ключу идемпотентности с временем жизни.
func (c *Cache) StoreReply(ctx context.Context, key string, value any, expiration time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Db.Set(ctx, key, jsonData, expiration).Err()
}
