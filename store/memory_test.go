package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/tagkit/core"
)

func TestMemoryStore_GetSetDelete(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if _, err := ms.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Fatalf("Get(missing) error = %v, want ErrStoreNotFound", err)
	}

	if err := ms.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := ms.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get() = %q, %v; want v, nil", got, err)
	}

	if err := ms.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := ms.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("Get(deleted) error = %v, want ErrStoreNotFound", err)
	}
}

func TestMemoryStore_TTL(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.Set(ctx, "short", []byte("v"), 1); err != nil {
		t.Fatal(err)
	}
	if err := ms.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}

	if _, err := ms.Get(ctx, "short"); err != nil {
		t.Fatalf("Get(short) before expiry error = %v", err)
	}

	time.Sleep(1100 * time.Millisecond)

	if _, err := ms.Get(ctx, "short"); !core.IsStoreNotFound(err) {
		t.Errorf("Get(short) after expiry error = %v, want ErrStoreNotFound", err)
	}
	if _, err := ms.Get(ctx, "forever"); err != nil {
		t.Errorf("Get(forever) error = %v, ttl 0 must never expire", err)
	}
}
