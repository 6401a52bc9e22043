package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
)

const (
	sessionPrefix = "session:user"
	// SessionTTL matches the access token validity window.
	SessionTTL = 24 * time.Hour
)

// SessionRepository caches the latest issued token per user so a fresh
// login invalidates earlier sessions.
type SessionRepository struct{}

func sessionKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", sessionPrefix, userID)
}

func (r *SessionRepository) Store(userID uint64, token string) error {
	if err := Client.Set(context.Background(), sessionKey(userID), token, SessionTTL).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *SessionRepository) Get(userID uint64) (string, error) {
	token, err := Client.Get(context.Background(), sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

func (r *SessionRepository) Delete(userID uint64) error {
	if err := Client.Del(context.Background(), sessionKey(userID)).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}
