package fileid

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// sentinel terminates every stuffed payload. The trailing base64 padding is
// stripped from tokens, so without a sentinel a payload ending in zero bytes
// would be ambiguous after the zero runs are collapsed.
const sentinel = 0x02

// stuff collapses runs of zero bytes into 0x00,n pairs and appends the
// sentinel. Runs longer than 255 are emitted as multiple pairs so every run
// length round-trips.
func stuff(payload []byte) []byte {
	out := make([]byte, 0, len(payload)+2)
	run := 0

	flush := func() {
		for run > 0 {
			chunk := run
			if chunk > 0xFF {
				chunk = 0xFF
			}
			out = append(out, 0x00, byte(chunk))
			run -= chunk
		}
	}

	for _, b := range payload {
		if b == 0 {
			run++
			continue
		}
		flush()
		out = append(out, b)
	}
	flush()

	return append(out, sentinel)
}

// destuff reverses stuff, verifying and stripping the trailing sentinel.
func destuff(stuffed []byte) ([]byte, error) {
	if len(stuffed) == 0 || stuffed[len(stuffed)-1] != sentinel {
		return nil, fmt.Errorf("fileid: missing end marker: %w", ErrInvalid)
	}

	body := stuffed[:len(stuffed)-1]
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		if body[i] != 0 {
			out = append(out, body[i])
			continue
		}
		if i+1 >= len(body) {
			return nil, fmt.Errorf("fileid: truncated zero run: %w", ErrInvalid)
		}
		i++
		for n := int(body[i]); n > 0; n-- {
			out = append(out, 0)
		}
	}

	return out, nil
}

// pack applies the stuffing transform and the outer URL-safe unpadded base64.
func pack(payload []byte) string {
	return base64.RawURLEncoding.EncodeToString(stuff(payload))
}

// unpack reverses pack.
func unpack(token string) ([]byte, error) {
	stuffed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("fileid: undecodable token: %w", ErrInvalid)
	}

	return destuff(stuffed)
}

func appendInt32(buf []byte, value int32) []byte {
	return binary.LittleEndian.AppendUint32(buf, uint32(value))
}

func appendInt64(buf []byte, value int64) []byte {
	return binary.LittleEndian.AppendUint64(buf, uint64(value))
}

func readInt32(buf []byte) int32 {
	return int32(binary.LittleEndian.Uint32(buf))
}

func readInt64(buf []byte) int64 {
	return int64(binary.LittleEndian.Uint64(buf))
}
