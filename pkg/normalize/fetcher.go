package normalize

import (
	"context"
	"fmt"

	"github.com/gotd/td/tg"

	"gramfold/pkg/gram"
)

// messagesAPI is the slice of the Telegram API the fetcher needs.
// *tg.Client satisfies it.
type messagesAPI interface {
	MessagesGetMessages(ctx context.Context, id []tg.InputMessageClass) (tg.MessagesMessagesClass, error)
	ChannelsGetMessages(ctx context.Context, request *tg.ChannelsGetMessagesRequest) (tg.MessagesMessagesClass, error)
}

// APIFetcher retrieves messages over the wire and folds them through a bound
// MessageNormalizer. Channel-scoped messages go through the channel endpoint
// because message IDs are only unique per channel there.
//
// The fetcher and the normalizer reference each other: construct the fetcher
// first, hand it to the normalizer via WithFetcher, then Bind the normalizer
// back before first use.
type APIFetcher struct {
	api        messagesAPI
	normalizer *MessageNormalizer
}

// NewAPIFetcher builds a fetcher over a Telegram API client.
func NewAPIFetcher(api messagesAPI) *APIFetcher {
	return &APIFetcher{api: api}
}

// Bind attaches the normalizer used to fold fetched messages.
func (f *APIFetcher) Bind(n *MessageNormalizer) {
	f.normalizer = n
}

// FetchMessage implements Fetcher. The chat reference comes from the bound
// normalizer's directory, so the target chat must have been observed in an
// earlier envelope.
func (f *APIFetcher) FetchMessage(ctx context.Context, chatID int64, messageID, replyDepth int) (*gram.Message, error) {
	if f.normalizer == nil {
		return nil, fmt.Errorf("fetch message %d: fetcher not bound", messageID)
	}

	ids := []tg.InputMessageClass{&tg.InputMessageID{ID: messageID}}

	var (
		result tg.MessagesMessagesClass
		err    error
	)
	kind, _ := gram.SplitPeerID(chatID)
	if kind == gram.PeerKindChannel {
		ref, resolveErr := f.normalizer.Directory().ResolveID(chatID)
		if resolveErr != nil {
			return nil, fmt.Errorf("fetch message %d: %w", messageID, resolveErr)
		}
		result, err = f.api.ChannelsGetMessages(ctx, &tg.ChannelsGetMessagesRequest{
			Channel: &tg.InputChannel{ChannelID: ref.ID, AccessHash: ref.AccessHash},
			ID:      ids,
		})
	} else {
		result, err = f.api.MessagesGetMessages(ctx, ids)
	}
	if err != nil {
		return nil, err
	}

	messages, entities, err := splitMessagesResult(result)
	if err != nil {
		return nil, fmt.Errorf("fetch message %d: %w", messageID, err)
	}
	for _, msg := range messages {
		if msg.GetID() != messageID {
			continue
		}
		return f.normalizer.Normalize(ctx, msg, entities, replyDepth)
	}

	return nil, fmt.Errorf("fetch message %d: not in response", messageID)
}

// splitMessagesResult unwraps a messages result into its message list and
// side tables.
func splitMessagesResult(result tg.MessagesMessagesClass) ([]tg.MessageClass, tg.Entities, error) {
	switch r := result.(type) {
	case *tg.MessagesMessages:
		return r.Messages, collectEntities(r.Users, r.Chats), nil
	case *tg.MessagesMessagesSlice:
		return r.Messages, collectEntities(r.Users, r.Chats), nil
	case *tg.MessagesChannelMessages:
		return r.Messages, collectEntities(r.Users, r.Chats), nil
	default:
		return nil, tg.Entities{}, fmt.Errorf("unexpected messages result %T", result)
	}
}

// collectEntities indexes response side tables into the envelope form the
// normalizer consumes.
func collectEntities(users []tg.UserClass, chats []tg.ChatClass) tg.Entities {
	e := tg.Entities{
		Users:    make(map[int64]*tg.User, len(users)),
		Chats:    make(map[int64]*tg.Chat),
		Channels: make(map[int64]*tg.Channel),
	}
	for _, u := range users {
		if user, ok := u.(*tg.User); ok {
			e.Users[user.ID] = user
		}
	}
	for _, c := range chats {
		switch chat := c.(type) {
		case *tg.Chat:
			e.Chats[chat.ID] = chat
		case *tg.Channel:
			e.Channels[chat.ID] = chat
		}
	}
	return e
}
