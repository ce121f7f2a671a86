package normalize

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoStickerSetResolver(t *testing.T) {
	t.Parallel()

	inner := &scriptedSetResolver{name: "pack"}
	memo := NewMemoStickerSetResolver(inner, time.Minute)

	now := time.Unix(1700000000, 0)
	memo.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		name, err := memo.ShortName(ctx, 12, 34)
		if err != nil {
			t.Fatalf("ShortName() error = %v", err)
		}
		if name != "pack" {
			t.Fatalf("ShortName() = %q, want %q", name, "pack")
		}
	}
	if inner.calls != 1 {
		t.Fatalf("inner calls = %d, want 1", inner.calls)
	}

	// A different set is a different cache key.
	if _, err := memo.ShortName(ctx, 13, 34); err != nil {
		t.Fatalf("ShortName() error = %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("inner calls = %d, want 2", inner.calls)
	}

	// Expiry forces a refetch.
	now = now.Add(2 * time.Minute)
	if _, err := memo.ShortName(ctx, 12, 34); err != nil {
		t.Fatalf("ShortName() error = %v", err)
	}
	if inner.calls != 3 {
		t.Fatalf("inner calls = %d, want 3", inner.calls)
	}
}

func TestMemoStickerSetResolverDoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	inner := &scriptedSetResolver{err: errors.New("boom")}
	memo := NewMemoStickerSetResolver(inner, time.Minute)

	ctx := context.Background()
	if _, err := memo.ShortName(ctx, 12, 34); err == nil {
		t.Fatal("ShortName() expected error")
	}

	inner.err = nil
	inner.name = "pack"
	name, err := memo.ShortName(ctx, 12, 34)
	if err != nil {
		t.Fatalf("ShortName() error = %v", err)
	}
	if name != "pack" || inner.calls != 2 {
		t.Fatalf("ShortName() = %q, calls = %d", name, inner.calls)
	}
}
