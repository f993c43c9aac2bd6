package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PresenceStore keeps per-user online state in Redis so other services (and
// other instances) can see who is connected without asking this process.
// Keys: <prefix>:presence:<userID> -> {"status","last_seen"}.
type PresenceStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type presenceDoc struct {
	Status   string `json:"status"`
	LastSeen int64  `json:"last_seen"`
}

func NewPresenceStore(client *redis.Client, prefix string, ttl time.Duration) *PresenceStore {
	return &PresenceStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *PresenceStore) key(userID string) string {
	return fmt.Sprintf("%s:presence:%s", s.prefix, userID)
}

func (s *PresenceStore) SetOnline(ctx context.Context, userID string) error {
	return s.set(ctx, userID, "online", s.ttl)
}

// SetOffline keeps the record (no TTL) so last_seen survives the session.
func (s *PresenceStore) SetOffline(ctx context.Context, userID string) error {
	return s.set(ctx, userID, "offline", 0)
}

func (s *PresenceStore) set(ctx context.Context, userID, status string, ttl time.Duration) error {
	b, err := json.Marshal(presenceDoc{Status: status, LastSeen: time.Now().Unix()})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(userID), b, ttl).Err()
}

// Online reports whether the user currently has a live session anywhere.
func (s *PresenceStore) Online(ctx context.Context, userID string) (bool, error) {
	b, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var doc presenceDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return false, err
	}
	return doc.Status == "online", nil
}
