package cache

import (
	"context"
	"fmt"
	"time"
)

// TokenBlacklist хранит идентификаторы (jti) отозванных токенов до истечения их срока.
type TokenBlacklist struct {
	cache *Cache
}

// NewTokenBlacklist создаёт чёрный список токенов.
func NewTokenBlacklist(c *Cache) *TokenBlacklist {
	return &TokenBlacklist{cache: c}
}

func blacklistKey(jti string) string {
	return "jwt:blacklist:" + jti
}

// Blacklist отзывает токен jti на время ttl. Истёкший токен не сохраняется.
func (b *TokenBlacklist) Blacklist(ctx context.Context, jti string, ttl time.Duration) error {
	const op = "cache.TokenBlacklist.Blacklist"
	if ttl <= 0 {
		return nil
	}
	if err := b.cache.Db.Set(ctx, blacklistKey(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsBlacklisted сообщает, отозван ли токен jti.
func (b *TokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	const op = "cache.TokenBlacklist.IsBlacklisted"
	n, err := b.cache.Db.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}
