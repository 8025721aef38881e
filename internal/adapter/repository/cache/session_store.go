package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/feed"
)

// SessionStore keeps feed sessions in Redis. Keys are scoped by user so one
// viewer cannot advance another's window; every save refreshes the TTL.
type SessionStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewSessionStore(client redis.Cmdable, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionStore{client: client, ttl: ttl}
}

func sessionKey(userID, sessionID string) string {
	if userID == "" {
		userID = "anonymous"
	}
	return "feed:session:" + userID + ":" + sessionID
}

func (s *SessionStore) Get(ctx context.Context, userID, sessionID string) (*feed.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(userID, sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess feed.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("corrupt feed session %s: %w", sessionID, err)
	}
	return &sess, nil
}

func (s *SessionStore) Save(ctx context.Context, userID string, sess *feed.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(userID, sess.ID), data, s.ttl).Err()
}
