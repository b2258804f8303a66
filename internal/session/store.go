// Package session implements the server-side session store. A session is
// an opaque token handed to the browser in a cookie and mapped in redis
// to the authenticated identity. A token with no redis entry is anonymous.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"skineedipping/internal/model"
)

const (
	// KeyPrefix is the redis key prefix for session records.
	KeyPrefix = "session:"

	// userIndexPrefix keys the per-user set of live session tokens,
	// used by DestroyAllForUser.
	userIndexPrefix = "session:user:"
)

// Store defines session lifecycle operations.
// Using an interface enables testing the middleware and services with mocks.
type Store interface {
	// Create binds a new opaque token to the identity and returns it.
	Create(ctx context.Context, identity model.Identity) (string, error)

	// Resolve returns the identity behind a token, or nil when the token
	// is unknown or expired (anonymous).
	Resolve(ctx context.Context, token string) (*model.Identity, error)

	// Destroy removes a session. Destroying an absent token is a no-op.
	Destroy(ctx context.Context, token string) error

	// DestroyAllForUser removes every live session of a user.
	DestroyAllForUser(ctx context.Context, userID int64) error
}

// RedisStore implements Store on redis with per-session TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a session store with the given TTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	return KeyPrefix + token
}

func userIndexKey(userID int64) string {
	return fmt.Sprintf("%s%d", userIndexPrefix, userID)
}

// Create stores a new session record and indexes it under the user.
func (s *RedisStore) Create(ctx context.Context, identity model.Identity) (string, error) {
	token := uuid.NewString()

	record := model.Session{
		Token:     token,
		UserID:    identity.UserID,
		Username:  identity.Username,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, sessionKey(token), data, s.ttl)
	pipe.SAdd(ctx, userIndexKey(identity.UserID), token)
	pipe.Expire(ctx, userIndexKey(identity.UserID), s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[Session] Create FAILED: user=%d err=%v", identity.UserID, err)
		return "", fmt.Errorf("store session: %w", err)
	}

	log.Printf("[Session] Create OK: user=%d", identity.UserID)
	return token, nil
}

// Resolve looks up a token. redis.Nil means anonymous, not an error.
func (s *RedisStore) Resolve(ctx context.Context, token string) (*model.Identity, error) {
	if token == "" {
		return nil, nil
	}

	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		log.Printf("[Session] Resolve FAILED: err=%v", err)
		return nil, fmt.Errorf("get session: %w", err)
	}

	var record model.Session
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	return &model.Identity{UserID: record.UserID, Username: record.Username}, nil
}

// Destroy removes one session and its user-index entry.
func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	// Look up the record first so the user index can be cleaned too.
	identity, err := s.Resolve(ctx, token)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, sessionKey(token))
	if identity != nil {
		pipe.SRem(ctx, userIndexKey(identity.UserID), token)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[Session] Destroy FAILED: err=%v", err)
		return fmt.Errorf("delete session: %w", err)
	}

	log.Printf("[Session] Destroy OK")
	return nil
}

// DestroyAllForUser removes every session indexed under the user.
func (s *RedisStore) DestroyAllForUser(ctx context.Context, userID int64) error {
	tokens, err := s.client.SMembers(ctx, userIndexKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}

	pipe := s.client.Pipeline()
	for _, token := range tokens {
		pipe.Del(ctx, sessionKey(token))
	}
	pipe.Del(ctx, userIndexKey(userID))

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[Session] DestroyAllForUser FAILED: user=%d err=%v", userID, err)
		return fmt.Errorf("delete user sessions: %w", err)
	}

	log.Printf("[Session] DestroyAllForUser OK: user=%d sessions=%d", userID, len(tokens))
	return nil
}
