package normalize

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gotd/td/tg"
)

// StickerSetResolver resolves a sticker set reference to its short name.
type StickerSetResolver interface {
	ShortName(ctx context.Context, id, accessHash int64) (string, error)
}

// stickerSetAPI is the narrow slice of the Telegram API the resolver needs.
// *tg.Client satisfies it.
type stickerSetAPI interface {
	MessagesGetStickerSet(ctx context.Context, request *tg.MessagesGetStickerSetRequest) (tg.MessagesStickerSetClass, error)
}

// APIStickerSetResolver resolves sticker set names over the wire.
type APIStickerSetResolver struct {
	api stickerSetAPI
}

// NewAPIStickerSetResolver builds a resolver backed by a Telegram API client.
func NewAPIStickerSetResolver(api stickerSetAPI) *APIStickerSetResolver {
	return &APIStickerSetResolver{api: api}
}

// ShortName fetches the sticker set and returns its short name. RPC errors
// propagate untouched so callers can apply their own degradation policy.
func (r *APIStickerSetResolver) ShortName(ctx context.Context, id, accessHash int64) (string, error) {
	result, err := r.api.MessagesGetStickerSet(ctx, &tg.MessagesGetStickerSetRequest{
		Stickerset: &tg.InputStickerSetID{ID: id, AccessHash: accessHash},
	})
	if err != nil {
		return "", fmt.Errorf("get sticker set %d: %w", id, err)
	}
	set, ok := result.(*tg.MessagesStickerSet)
	if !ok {
		return "", fmt.Errorf("get sticker set %d: unexpected result %T", id, result)
	}
	return set.Set.ShortName, nil
}

type memoEntry struct {
	name    string
	expires time.Time
}

// MemoStickerSetResolver wraps another resolver with a TTL cache keyed by
// set ID. Sticker sets rename rarely, and a busy group can carry hundreds
// of stickers from the same set; memoization keeps that to one RPC per TTL.
// Only successful resolutions are cached.
type MemoStickerSetResolver struct {
	inner StickerSetResolver
	ttl   time.Duration

	mu      sync.Mutex
	entries map[int64]memoEntry
	now     func() time.Time
}

// NewMemoStickerSetResolver wraps inner with a cache holding names for ttl.
func NewMemoStickerSetResolver(inner StickerSetResolver, ttl time.Duration) *MemoStickerSetResolver {
	return &MemoStickerSetResolver{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[int64]memoEntry),
		now:     time.Now,
	}
}

// ShortName returns the cached name when fresh, delegating otherwise.
func (r *MemoStickerSetResolver) ShortName(ctx context.Context, id, accessHash int64) (string, error) {
	r.mu.Lock()
	entry, ok := r.entries[id]
	if ok && r.now().Before(entry.expires) {
		r.mu.Unlock()
		return entry.name, nil
	}
	r.mu.Unlock()

	name, err := r.inner.ShortName(ctx, id, accessHash)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.entries[id] = memoEntry{name: name, expires: r.now().Add(r.ttl)}
	r.mu.Unlock()
	return name, nil
}
