package normalize

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/gotd/td/tg"

	"gramfold/pkg/gram"
)

// NormalizeCallbackQuery folds a chat-bound callback query. The message the
// button lived on is fetched through the normalizer's Fetcher with no reply
// budget.
func (n *MessageNormalizer) NormalizeCallbackQuery(ctx context.Context, q *tg.UpdateBotCallbackQuery, e tg.Entities) (*gram.CallbackQuery, error) {
	n.directory.CacheEntities(e)

	from, ok := e.Users[q.UserID]
	if !ok {
		return nil, fmt.Errorf("normalize callback query %d: user %d: %w", q.QueryID, q.UserID, gram.ErrPeerNotFound)
	}
	chatID, err := signedPeerID(q.Peer)
	if err != nil {
		return nil, fmt.Errorf("normalize callback query %d: %w", q.QueryID, err)
	}
	message, err := n.fetchWithFloodRetry(ctx, chatID, q.MsgID, 0)
	if err != nil {
		return nil, fmt.Errorf("normalize callback query %d: %w", q.QueryID, err)
	}

	out := &gram.CallbackQuery{
		ID:           strconv.FormatInt(q.QueryID, 10),
		From:         parseUser(from),
		Message:      message,
		ChatInstance: strconv.FormatInt(q.ChatInstance, 10),
	}
	if data, ok := q.GetData(); ok {
		out.Data = data
	}
	if game, ok := q.GetGameShortName(); ok {
		out.GameShortName = game
	}
	return out, nil
}

// NormalizeInlineCallbackQuery folds a callback query for a message sent via
// inline mode. There is no chat-bound message to fetch; the inline message
// identifier is packed into an opaque token instead.
func (n *MessageNormalizer) NormalizeInlineCallbackQuery(q *tg.UpdateInlineBotCallbackQuery, e tg.Entities) (*gram.CallbackQuery, error) {
	n.directory.CacheEntities(e)

	from, ok := e.Users[q.UserID]
	if !ok {
		return nil, fmt.Errorf("normalize inline callback query %d: user %d: %w", q.QueryID, q.UserID, gram.ErrPeerNotFound)
	}
	token, err := InlineMessageToken(q.MsgID)
	if err != nil {
		return nil, fmt.Errorf("normalize inline callback query %d: %w", q.QueryID, err)
	}

	out := &gram.CallbackQuery{
		ID:              strconv.FormatInt(q.QueryID, 10),
		From:            parseUser(from),
		InlineMessageID: token,
		ChatInstance:    strconv.FormatInt(q.ChatInstance, 10),
	}
	if data, ok := q.GetData(); ok {
		out.Data = data
	}
	if game, ok := q.GetGameShortName(); ok {
		out.GameShortName = game
	}
	return out, nil
}

// InlineMessageToken packs an inline message identifier into a URL-safe
// token: DC, then the identifying integers, little-endian, unpadded base64.
func InlineMessageToken(id tg.InputBotInlineMessageIDClass) (string, error) {
	switch v := id.(type) {
	case *tg.InputBotInlineMessageID:
		buf := make([]byte, 0, 20)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(v.DCID))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v.ID))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v.AccessHash))
		return base64.RawURLEncoding.EncodeToString(buf), nil
	case *tg.InputBotInlineMessageID64:
		buf := make([]byte, 0, 24)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(v.DCID))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v.OwnerID))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(v.ID))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v.AccessHash))
		return base64.RawURLEncoding.EncodeToString(buf), nil
	default:
		return "", fmt.Errorf("inline message token: unexpected type %T", id)
	}
}

// signedPeerID maps a bare wire peer tag to the signed chat identifier.
func signedPeerID(peer tg.PeerClass) (int64, error) {
	switch p := peer.(type) {
	case *tg.PeerUser:
		return gram.PeerID(gram.PeerKindUser, p.UserID), nil
	case *tg.PeerChat:
		return gram.PeerID(gram.PeerKindBasicGroup, p.ChatID), nil
	case *tg.PeerChannel:
		return gram.PeerID(gram.PeerKindChannel, p.ChannelID), nil
	default:
		return 0, fmt.Errorf("signed peer id: unexpected type %T", peer)
	}
}
