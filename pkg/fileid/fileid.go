// Package fileid implements the opaque file-identifier tokens that address
// remote files: a fixed little-endian locator layout, a zero-run byte
// stuffing transform, and URL-safe unpadded base64 on the outside.
//
// Tokens are minted by the normalization layer and handed back by callers to
// address previously observed media; only this package can decode them.
package fileid

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every decode failure: undecodable base64, a
// missing stuffing sentinel, a layout-length mismatch, or a type tag that
// does not match what the calling operation expected.
var ErrInvalid = errors.New("fileid: invalid file id")

// Type tags the media kind a locator addresses. The numeric values are part
// of the wire-visible token format and must not change.
type Type int32

const (
	// TypeThumbnail is a photo thumbnail.
	TypeThumbnail Type = 0
	// TypeChatPhoto is a chat or user profile photo.
	TypeChatPhoto Type = 1
	// TypePhoto is a full photo.
	TypePhoto Type = 2
	// TypeVoice is a voice note.
	TypeVoice Type = 3
	// TypeVideo is a video file.
	TypeVideo Type = 4
	// TypeDocument is a generic document.
	TypeDocument Type = 5
	// TypeSticker is a sticker.
	TypeSticker Type = 8
	// TypeAudio is a music file.
	TypeAudio Type = 9
	// TypeAnimation is an animation (GIF).
	TypeAnimation Type = 10
	// TypeVideoNote is a round video message.
	TypeVideoNote Type = 13
	// TypeDocumentThumbnail is a document thumbnail.
	TypeDocumentThumbnail Type = 14
)

var typeNames = map[Type]string{
	TypeThumbnail:         "photo_thumbnail",
	TypeChatPhoto:         "chat_photo",
	TypePhoto:             "photo",
	TypeVoice:             "voice",
	TypeVideo:             "video",
	TypeDocument:          "document",
	TypeSticker:           "sticker",
	TypeAudio:             "audio",
	TypeAnimation:         "animation",
	TypeVideoNote:         "video_note",
	TypeDocumentThumbnail: "document_thumbnail",
}

// String returns the human-readable media kind name for known tags.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("type(%d)", int32(t))
}

// usesLongLayout reports whether the tag's payload carries the
// volume/secret/local-id triple in addition to the id/access-hash pair.
func (t Type) usesLongLayout() bool {
	switch t {
	case TypeThumbnail, TypeChatPhoto, TypePhoto:
		return true
	default:
		return false
	}
}

// Locator is the decoded form of one file-identifier token.
//
// VolumeID, Secret, and LocalID are meaningful only for long-layout tags
// (thumbnails, chat photos, photos); short-layout tags carry the
// id/access-hash pair alone.
type Locator struct {
	Type       Type
	DCID       int32
	ID         int64
	AccessHash int64
	VolumeID   int64
	Secret     int64
	LocalID    int32
}

const (
	shortLayoutSize = 24
	longLayoutSize  = 44
)

// Encode packs the locator into its opaque string token. The layout is
// selected by the locator's type tag.
func Encode(loc Locator) string {
	buf := make([]byte, 0, longLayoutSize)
	buf = appendInt32(buf, int32(loc.Type))
	buf = appendInt32(buf, loc.DCID)
	buf = appendInt64(buf, loc.ID)
	buf = appendInt64(buf, loc.AccessHash)
	if loc.Type.usesLongLayout() {
		buf = appendInt64(buf, loc.VolumeID)
		buf = appendInt64(buf, loc.Secret)
		buf = appendInt32(buf, loc.LocalID)
	}

	return pack(buf)
}

// Decode unpacks a token back into its locator. When expected tags are
// given, a structurally valid token whose tag is not among them fails with
// ErrInvalid naming the token's actual kind.
func Decode(token string, expected ...Type) (Locator, error) {
	payload, err := unpack(token)
	if err != nil {
		return Locator{}, err
	}

	var loc Locator
	switch len(payload) {
	case shortLayoutSize:
		loc.Type = Type(readInt32(payload[0:]))
		loc.DCID = readInt32(payload[4:])
		loc.ID = readInt64(payload[8:])
		loc.AccessHash = readInt64(payload[16:])
	case longLayoutSize:
		loc.Type = Type(readInt32(payload[0:]))
		loc.DCID = readInt32(payload[4:])
		loc.ID = readInt64(payload[8:])
		loc.AccessHash = readInt64(payload[16:])
		loc.VolumeID = readInt64(payload[24:])
		loc.Secret = readInt64(payload[32:])
		loc.LocalID = readInt32(payload[40:])
	default:
		return Locator{}, fmt.Errorf("fileid: payload is %d bytes, want %d or %d: %w",
			len(payload), shortLayoutSize, longLayoutSize, ErrInvalid)
	}

	if len(expected) > 0 && !containsType(expected, loc.Type) {
		if _, known := typeNames[loc.Type]; known {
			return Locator{}, fmt.Errorf("fileid: token belongs to a %s: %w", loc.Type, ErrInvalid)
		}
		return Locator{}, fmt.Errorf("fileid: unknown media type %d: %w", int32(loc.Type), ErrInvalid)
	}

	return loc, nil
}

func containsType(types []Type, target Type) bool {
	for _, candidate := range types {
		if candidate == target {
			return true
		}
	}

	return false
}
