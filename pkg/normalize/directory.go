package normalize

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/gotd/td/tg"

	"gramfold/pkg/gram"
)

// Directory accumulates peer identity material observed in update envelopes
// and answers resolution queries against it. Every Telegram RPC that targets
// a user or channel needs the access hash last seen for that peer, so the
// directory must be fed from every envelope before its payload is normalized.
//
// A Directory is safe for concurrent use.
type Directory struct {
	mu      sync.Mutex
	byID    map[int64]gram.PeerRef
	byName  map[string]int64
	byPhone map[string]int64
}

// NewDirectory returns an empty peer directory.
func NewDirectory() *Directory {
	return &Directory{
		byID:    make(map[int64]gram.PeerRef),
		byName:  make(map[string]int64),
		byPhone: make(map[string]int64),
	}
}

// CacheUsers upserts every concrete user from an envelope side table.
// Later sightings of the same ID overwrite earlier ones wholesale, including
// secondary keys: a username change repoints the name index on next sight.
func (d *Directory) CacheUsers(users []tg.UserClass) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range users {
		user, ok := u.(*tg.User)
		if !ok {
			continue
		}
		d.cacheUserLocked(user)
	}
}

// CacheChats upserts every concrete basic group and channel from an envelope
// side table. Forbidden and empty variants carry no usable identity and are
// skipped.
func (d *Directory) CacheChats(chats []tg.ChatClass) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range chats {
		switch chat := c.(type) {
		case *tg.Chat:
			d.byID[gram.PeerID(gram.PeerKindBasicGroup, chat.ID)] = gram.PeerRef{
				Kind: gram.PeerKindBasicGroup,
				ID:   chat.ID,
			}
		case *tg.Channel:
			ref := gram.PeerRef{Kind: gram.PeerKindChannel, ID: chat.ID}
			if hash, ok := chat.GetAccessHash(); ok {
				ref.AccessHash = hash
			}
			d.byID[ref.ChatID()] = ref
			if name, ok := chat.GetUsername(); ok && name != "" {
				d.byName[strings.ToLower(name)] = ref.ChatID()
			}
		}
	}
}

// CacheEntities feeds both side tables of a dispatcher envelope in one call.
func (d *Directory) CacheEntities(e tg.Entities) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range e.Users {
		d.cacheUserLocked(u)
	}
	for _, c := range e.Chats {
		d.byID[gram.PeerID(gram.PeerKindBasicGroup, c.ID)] = gram.PeerRef{
			Kind: gram.PeerKindBasicGroup,
			ID:   c.ID,
		}
	}
	for _, ch := range e.Channels {
		ref := gram.PeerRef{Kind: gram.PeerKindChannel, ID: ch.ID}
		if hash, ok := ch.GetAccessHash(); ok {
			ref.AccessHash = hash
		}
		d.byID[ref.ChatID()] = ref
		if name, ok := ch.GetUsername(); ok && name != "" {
			d.byName[strings.ToLower(name)] = ref.ChatID()
		}
	}
}

func (d *Directory) cacheUserLocked(user *tg.User) {
	ref := gram.PeerRef{Kind: gram.PeerKindUser, ID: user.ID}
	if hash, ok := user.GetAccessHash(); ok {
		ref.AccessHash = hash
	}
	d.byID[ref.ChatID()] = ref
	if name, ok := user.GetUsername(); ok && name != "" {
		d.byName[strings.ToLower(name)] = ref.ChatID()
	}
	if phone, ok := user.GetPhone(); ok && phone != "" {
		d.byPhone[strictDigits(phone)] = ref.ChatID()
	}
}

// ResolveID returns the cached reference for a signed chat identifier.
// A miss wraps gram.ErrPeerNotFound; callers that can re-fetch the peer
// should do so and retry rather than treat the miss as fatal.
func (d *Directory) ResolveID(chatID int64) (gram.PeerRef, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ref, ok := d.byID[chatID]
	if !ok {
		return gram.PeerRef{}, fmt.Errorf("resolve id %d: %w", chatID, gram.ErrPeerNotFound)
	}
	return ref, nil
}

// Resolve routes a textual identifier to a cached reference. Identifiers
// consisting solely of digits after stripping an optional leading "+" are
// treated as phone numbers; everything else is treated as a username, with
// an optional leading "@" and case ignored.
func (d *Directory) Resolve(identifier string) (gram.PeerRef, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(identifier), "@")
	trimmed = strings.TrimPrefix(trimmed, "+")

	d.mu.Lock()
	defer d.mu.Unlock()
	if isDigits(trimmed) && trimmed != "" {
		if id, ok := d.byPhone[trimmed]; ok {
			return d.byID[id], nil
		}
		return gram.PeerRef{}, fmt.Errorf("resolve phone %q: %w", identifier, gram.ErrPeerNotFound)
	}
	if id, ok := d.byName[strings.ToLower(trimmed)]; ok {
		return d.byID[id], nil
	}
	return gram.PeerRef{}, fmt.Errorf("resolve username %q: %w", identifier, gram.ErrPeerNotFound)
}

// InputPeer converts a resolved reference into the wire form RPC requests
// expect.
func InputPeer(ref gram.PeerRef) tg.InputPeerClass {
	switch ref.Kind {
	case gram.PeerKindUser:
		return &tg.InputPeerUser{UserID: ref.ID, AccessHash: ref.AccessHash}
	case gram.PeerKindBasicGroup:
		return &tg.InputPeerChat{ChatID: ref.ID}
	default:
		return &tg.InputPeerChannel{ChannelID: ref.ID, AccessHash: ref.AccessHash}
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func strictDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
