package redis

// Package redis provides Redis-based adapters for the herederos system.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/consalud/herederos-bff/internal/domain/auth"
)

// SessionStore persists the session document in Redis so it survives
// process restarts. One document per deployment slot; logins overwrite it
// and logout clears it.
type SessionStore struct {
	client redis.UniversalClient
	key    string
}

const defaultSessionKey = "herederos:session"

// NewSessionStore creates a Redis-backed session store using the default
// document key.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{client: client, key: defaultSessionKey}
}

// NewSessionStoreWithKey creates a Redis session store with a custom
// document key, for running several deployment slots against one Redis.
func NewSessionStoreWithKey(client redis.UniversalClient, key string) *SessionStore {
	if key == "" {
		key = defaultSessionKey
	}
	return &SessionStore{client: client, key: key}
}

// Load returns the persisted session, or ErrNotFound when none exists.
func (s *SessionStore) Load(ctx context.Context) (domainauth.Session, error) {
	data, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}
	return sess, nil
}

// Save replaces the persisted session. No TTL: the session lives until an
// explicit Clear or the next overwrite.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.client.Set(ctx, s.key, data, 0).Err()
}

// Clear removes the persisted session. Clearing an absent session is not
// an error.
func (s *SessionStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

// ErrNotFound is returned when no session document exists.
type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

var ErrNotFound error = notFoundError{}
