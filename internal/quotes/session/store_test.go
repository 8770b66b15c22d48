package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"inkstitch_backend/internal/pricing/engine"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(client, time.Hour), mr
}

func TestStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	state := State{
		Reference:    "QU-20260829-abc12345",
		CustomerName: "Test Customer",
		Items: []engine.LineItem{
			{
				ID:           uuid.New(),
				Kind:         engine.KindProduct,
				Supplier:     "Stanley Stella",
				ProductGroup: "Creator",
				Quantity:     30,
				BasePrice:    10,
				UnitPrice:    15,
			},
		},
	}

	if err := store.Put(ctx, userID, state); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Reference != state.Reference {
		t.Errorf("reference = %q, want %q", got.Reference, state.Reference)
	}
	if len(got.Items) != 1 || got.Items[0].ID != state.Items[0].ID {
		t.Errorf("items not preserved: %+v", got.Items)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not stamped on write")
	}
}

func TestStoreMissingSession(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStoreDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	if err := store.Put(ctx, userID, State{Reference: "QU-1"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Delete(ctx, userID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, userID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err after delete = %v, want ErrNotFound", err)
	}
}

func TestStoreExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	if err := store.Put(ctx, userID, State{Reference: "QU-1"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	if _, err := store.Get(ctx, userID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err after expiry = %v, want ErrNotFound", err)
	}
}
