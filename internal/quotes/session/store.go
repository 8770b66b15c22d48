// Package session stores the working quote for each user in redis.
// A working quote is the mutable draft being built in the UI; it only
// reaches postgres when the user saves it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"inkstitch_backend/internal/pricing/engine"
	"inkstitch_backend/platform/config"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no working quote exists for the user.
var ErrNotFound = errors.New("quote session not found")

// State is the full working quote. Reads and writes are wholesale: line
// item operations load the state, mutate it, recalculate and write it back.
type State struct {
	// QuoteID is set once the draft has been saved, so later saves update
	// the same persisted quote instead of creating a new one.
	QuoteID       uuid.UUID         `json:"quoteId"`
	Reference     string            `json:"reference"`
	CustomerName  string            `json:"customerName"`
	CustomerEmail string            `json:"customerEmail"`
	CustomerPhone string            `json:"customerPhone"`
	Notes         string            `json:"notes"`
	Terms         []string          `json:"terms"`
	VATRegistered bool              `json:"vatRegistered"`
	VATRate       float64           `json:"vatRate"`
	ValidUntil    time.Time         `json:"validUntil"`
	Items         []engine.LineItem `json:"items"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// Store persists working quotes in redis, one key per user.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClient creates a redis client from the configured URL.
func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opt), nil
}

// New creates a session store. The TTL slides on every write so an active
// draft never expires mid-edit.
func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func sessionKey(userID uuid.UUID) string {
	return "quote:session:" + userID.String()
}

// Get loads the working quote for the user. Returns ErrNotFound when the
// key is absent or expired.
func (s *Store) Get(ctx context.Context, userID uuid.UUID) (State, error) {
	raw, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("get quote session: %w", err)
	}

	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return State{}, fmt.Errorf("decode quote session: %w", err)
	}
	return state, nil
}

// Put replaces the working quote for the user and resets the TTL.
func (s *Store) Put(ctx context.Context, userID uuid.UUID, state State) error {
	state.UpdatedAt = time.Now().UTC()

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode quote session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(userID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("put quote session: %w", err)
	}
	return nil
}

// Delete discards the working quote for the user.
func (s *Store) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete quote session: %w", err)
	}
	return nil
}
