package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/Ganesh-73005/saveher-backend/internal/adapter/storage/codec"
	"github.com/Ganesh-73005/saveher-backend/internal/core/domain"
)

const (
	DefaultPresenceKey = "connected_users"
	maxTxRetries       = 3
)

// PresenceStore keeps the snapshot in a Redis hash: one field per user id,
// each value the JSON presence record.
type PresenceStore struct {
	client *redis.Client
	key    string
}

func NewPresenceStore(client *redis.Client, key string) *PresenceStore {
	if key == "" {
		key = DefaultPresenceKey
	}
	return &PresenceStore{client: client, key: key}
}

// Load returns the records sorted by user id, since hash field order is not
// stable across reads.
func (r *PresenceStore) Load(ctx context.Context) (domain.Snapshot, error) {
	entries, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		if isWrongType(err) {
			return domain.Snapshot{}, fmt.Errorf("hgetall %s: %w: %v", r.key, domain.ErrSnapshotCorrupt, err)
		}
		return domain.Snapshot{}, fmt.Errorf("hgetall %s: %w: %v", r.key, domain.ErrSnapshotUnavailable, err)
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]domain.Presence, 0, len(ids))
	for _, id := range ids {
		p, err := codec.DecodePresence(id, []byte(entries[id]))
		if err != nil {
			return domain.Snapshot{}, err
		}
		records = append(records, p)
	}

	return domain.NewSnapshot(records...), nil
}

func (r *PresenceStore) Upsert(ctx context.Context, p domain.Presence) error {
	val, err := codec.EncodePresence(p)
	if err != nil {
		return err
	}
	return r.client.HSet(ctx, r.key, p.UserID, val).Err()
}

func (r *PresenceStore) Remove(ctx context.Context, userID string) error {
	return r.client.HDel(ctx, r.key, userID).Err()
}

// RemoveSession deletes the field inside a WATCH transaction so an Upsert
// from a newer session between the read and the delete aborts it.
func (r *PresenceStore) RemoveSession(ctx context.Context, userID, sessionID string) error {
	remove := func(tx *redis.Tx) error {
		raw, err := tx.HGet(ctx, r.key, userID).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}

		// an unreadable record has no owner to protect, so it is removed
		p, err := codec.DecodePresence(userID, []byte(raw))
		if err == nil && p.SessionID != sessionID {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HDel(ctx, r.key, userID)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, remove, r.key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("remove session %s of %s: %w", sessionID, userID, redis.TxFailedErr)
}

func isWrongType(err error) bool {
	var rerr redis.Error
	return errors.As(err, &rerr) && strings.HasPrefix(rerr.Error(), "WRONGTYPE")
}
