package stores

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenSingleUseConsume(t *testing.T) {
	store := NewTokenStore(newTestRedis(t), "")
	ctx := context.Background()

	if err := store.Save(ctx, "tok-1", "u1", time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	userID, err := store.Consume(ctx, "tok-1")
	if err != nil || userID != "u1" {
		t.Fatalf("Consume = %q, %v", userID, err)
	}

	if _, err := store.Consume(ctx, "tok-1"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("second consume must fail, got %v", err)
	}
}

func TestTokenGetLeavesTokenInPlace(t *testing.T) {
	store := NewTokenStore(newTestRedis(t), "")
	ctx := context.Background()

	if err := store.Save(ctx, "tok-1", "u1", time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if userID, err := store.Get(ctx, "tok-1"); err != nil || userID != "u1" {
			t.Fatalf("Get = %q, %v", userID, err)
		}
	}
}

func TestTokenDelete(t *testing.T) {
	store := NewTokenStore(newTestRedis(t), "")
	ctx := context.Background()

	if err := store.Save(ctx, "tok-1", "u1", time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, "tok-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "tok-1"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestRoleGrantRevoke(t *testing.T) {
	store := NewRoleStore(newTestRedis(t), "")
	ctx := context.Background()

	has, err := store.Has(ctx, "u1", "admin")
	if err != nil || has {
		t.Fatalf("expected no grant initially, got has=%v err=%v", has, err)
	}

	if err := store.Grant(ctx, "u1", "admin"); err != nil {
		t.Fatalf("Grant failed: %v", err)
	}
	if has, err = store.Has(ctx, "u1", "admin"); err != nil || !has {
		t.Fatalf("expected grant, got has=%v err=%v", has, err)
	}
	if has, err = store.Has(ctx, "u2", "admin"); err != nil || has {
		t.Fatalf("grants must be per user, got has=%v err=%v", has, err)
	}

	if err := store.Revoke(ctx, "u1", "admin"); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if has, err = store.Has(ctx, "u1", "admin"); err != nil || has {
		t.Fatalf("expected grant revoked, got has=%v err=%v", has, err)
	}
}
