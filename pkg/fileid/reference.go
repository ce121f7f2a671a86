package fileid

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// ReferenceToken packs an id/access-hash pair into the short reference token
// used for photo object ids. Unlike full file identifiers it carries no
// location payload and needs no stuffing (the fixed 16-byte layout cannot be
// truncated by padding removal).
func ReferenceToken(id, accessHash int64) string {
	buf := make([]byte, 0, 16)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(id))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(accessHash))

	return base64.RawURLEncoding.EncodeToString(buf)
}

// ParseReferenceToken reverses ReferenceToken.
func ParseReferenceToken(token string) (id, accessHash int64, err error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, 0, fmt.Errorf("fileid: undecodable reference token: %w", ErrInvalid)
	}
	if len(raw) != 16 {
		return 0, 0, fmt.Errorf("fileid: reference token is %d bytes, want 16: %w", len(raw), ErrInvalid)
	}

	return int64(binary.LittleEndian.Uint64(raw[0:8])), int64(binary.LittleEndian.Uint64(raw[8:16])), nil
}
