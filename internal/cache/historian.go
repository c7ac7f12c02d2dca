// Package cache publishes accepted game actions to a Redis queue for audit.
// The historian is optional: a nil *Historian drops records silently, so the
// game runs unchanged without Redis. Game state itself is never persisted.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ActionQueueKey is the Redis list accepted actions are pushed onto.
const ActionQueueKey = "dumptrick:game_actions"

// GameActionRecord is one accepted engine mutation, ordered by ActionIndex.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"game_id"`
	ActionIndex   int                    `json:"action_index"`
	ActorID       string                 `json:"actor_id,omitempty"`
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload,omitempty"`
	Timestamp     int64                  `json:"timestamp"`
}

// Historian wraps the Redis client used for the action queue.
type Historian struct {
	rdb *redis.Client
}

// New connects a historian to the given Redis address. An empty address
// returns nil, which every method tolerates.
func New(addr string) *Historian {
	if addr == "" {
		return nil
	}
	return &Historian{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

// Ping verifies the Redis connection.
func (h *Historian) Ping(ctx context.Context) error {
	if h == nil {
		return nil
	}
	return h.rdb.Ping(ctx).Err()
}

// PublishGameAction pushes a record onto the action queue.
func (h *Historian) PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	if h == nil {
		return nil
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action record: %w", err)
	}
	if err := h.rdb.RPush(ctx, ActionQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("push action record: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (h *Historian) Close() error {
	if h == nil {
		return nil
	}
	return h.rdb.Close()
}
