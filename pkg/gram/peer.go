package gram

import (
	"fmt"
	"strconv"
	"strings"
)

// PeerKind distinguishes the three addressable chat entity kinds that share
// the signed chat-id space.
type PeerKind int

const (
	// PeerKindUser is a user account.
	PeerKindUser PeerKind = iota
	// PeerKindBasicGroup is a legacy (non-migrated) group.
	PeerKindBasicGroup
	// PeerKindChannel is a channel or supergroup.
	PeerKindChannel
)

// String returns the lower-case name of the peer kind.
func (k PeerKind) String() string {
	switch k {
	case PeerKindUser:
		return "user"
	case PeerKindBasicGroup:
		return "group"
	case PeerKindChannel:
		return "channel"
	default:
		return fmt.Sprintf("peer_kind(%d)", int(k))
	}
}

// channelIDPrefix is the textual marker in front of channel ids. It is a
// fixed three-digit prefix after the sign, not an arithmetic offset:
// decoding strips exactly these characters.
const channelIDPrefix = "-100"

// PeerID encodes a wire-level numeric id into the signed chat-id space:
// users keep their positive id, basic groups negate it, and channels prepend
// the -100 marker to the decimal digits of the id.
func PeerID(kind PeerKind, id int64) int64 {
	switch kind {
	case PeerKindUser:
		return id
	case PeerKindBasicGroup:
		return -id
	case PeerKindChannel:
		encoded, err := strconv.ParseInt(channelIDPrefix+strconv.FormatInt(id, 10), 10, 64)
		if err != nil {
			panic(fmt.Sprintf("gram: channel id %d does not fit the signed chat-id space", id))
		}
		return encoded
	default:
		panic(fmt.Sprintf("gram: unknown peer kind %d", int(kind)))
	}
}

// SplitPeerID reverses PeerID. Only ids produced by PeerID should ever reach
// this function; an id matching none of the three shapes indicates a caller
// bug and panics.
func SplitPeerID(chatID int64) (PeerKind, int64) {
	if chatID > 0 {
		return PeerKindUser, chatID
	}

	text := strconv.FormatInt(chatID, 10)
	if strings.HasPrefix(text, channelIDPrefix) && len(text) > len(channelIDPrefix) {
		id, err := strconv.ParseInt(text[len(channelIDPrefix):], 10, 64)
		if err != nil {
			panic(fmt.Sprintf("gram: malformed channel chat id %d", chatID))
		}
		return PeerKindChannel, id
	}
	if chatID < 0 {
		return PeerKindBasicGroup, -chatID
	}

	panic("gram: chat id 0 matches no peer kind")
}

// PeerRef is a resolved reference to a peer. AccessHash is meaningful for
// users and channels only; basic groups are addressable by id alone. A
// missing access hash is never fabricated here: resolution against a
// directory (or the network) is the caller's job.
type PeerRef struct {
	Kind       PeerKind
	ID         int64
	AccessHash int64
}

// ChatID returns the signed encoded chat id for this reference.
func (r PeerRef) ChatID() int64 {
	return PeerID(r.Kind, r.ID)
}
