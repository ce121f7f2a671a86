package normalize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"go.uber.org/zap"

	"gramfold/pkg/gram"
)

// ErrNoFetcher is returned when resolving a reply or pinned target requires
// a message fetch but no Fetcher is configured.
var ErrNoFetcher = errors.New("normalize: no message fetcher configured")

// Fetcher retrieves a single already-normalized message by ID. replyDepth is
// the remaining reply-resolution budget the fetched message may spend on its
// own reply chain.
type Fetcher interface {
	FetchMessage(ctx context.Context, chatID int64, messageID int, replyDepth int) (*gram.Message, error)
}

// Sleeper blocks for the given duration or until the context is done.
// Injected so rate-limit backoff is testable without wall-clock waits.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// MessageNormalizer folds wire messages into the canonical model. It feeds
// the peer directory from every envelope it sees, classifies media through
// its MediaNormalizer, and resolves reply and pinned targets through the
// configured Fetcher with rate-limit-aware retries.
type MessageNormalizer struct {
	directory *Directory
	media     *MediaNormalizer
	fetcher   Fetcher
	sleep     Sleeper
	logger    *zap.Logger
}

// MessageNormalizerOption configures a MessageNormalizer.
type MessageNormalizerOption func(*MessageNormalizer)

// WithDirectory shares an existing peer directory instead of a fresh one.
func WithDirectory(d *Directory) MessageNormalizerOption {
	return func(n *MessageNormalizer) { n.directory = d }
}

// WithMediaNormalizer installs a configured media normalizer.
func WithMediaNormalizer(m *MediaNormalizer) MessageNormalizerOption {
	return func(n *MessageNormalizer) { n.media = m }
}

// WithFetcher installs the message fetcher used for reply and pinned-message
// resolution. Without one, the normalizer works offline and any normalization
// that needs a fetch fails with ErrNoFetcher.
func WithFetcher(f Fetcher) MessageNormalizerOption {
	return func(n *MessageNormalizer) { n.fetcher = f }
}

// WithSleeper overrides how rate-limit waits are performed.
func WithSleeper(s Sleeper) MessageNormalizerOption {
	return func(n *MessageNormalizer) { n.sleep = s }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) MessageNormalizerOption {
	return func(n *MessageNormalizer) { n.logger = logger }
}

// NewMessageNormalizer builds a normalizer with the given options. Defaults:
// a private directory, an offline media normalizer, no fetcher, real sleeps,
// and no logging.
func NewMessageNormalizer(opts ...MessageNormalizerOption) *MessageNormalizer {
	n := &MessageNormalizer{
		sleep:  sleepWithContext,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.directory == nil {
		n.directory = NewDirectory()
	}
	if n.media == nil {
		n.media = NewMediaNormalizer(WithMediaLogger(n.logger))
	}
	return n
}

// Directory exposes the peer directory the normalizer feeds.
func (n *MessageNormalizer) Directory() *Directory {
	return n.directory
}

// Normalize folds one wire message into the canonical record. The envelope
// side tables are cached into the directory before anything else so that
// later resolution queries see every peer this envelope mentioned.
// replyDepth bounds transitive reply resolution: 0 leaves ReplyToMessage nil
// and makes the call safe without a Fetcher.
func (n *MessageNormalizer) Normalize(ctx context.Context, msg tg.MessageClass, e tg.Entities, replyDepth int) (*gram.Message, error) {
	n.directory.CacheEntities(e)

	switch m := msg.(type) {
	case *tg.Message:
		return n.normalizeMessage(ctx, m, e, replyDepth)
	case *tg.MessageService:
		return n.normalizeService(ctx, m, e)
	case *tg.MessageEmpty:
		// A deleted or inaccessible message keeps only its ID.
		return &gram.Message{ID: m.ID}, nil
	default:
		return nil, fmt.Errorf("normalize message: unexpected type %T", msg)
	}
}

func (n *MessageNormalizer) normalizeMessage(ctx context.Context, m *tg.Message, e tg.Entities, replyDepth int) (*gram.Message, error) {
	fromID, _ := m.GetFromID()
	chat, err := chatFromPeer(dialogPeer(m.PeerID, fromID, m.Out), e)
	if err != nil {
		return nil, fmt.Errorf("normalize message %d: %w", m.ID, err)
	}

	out := &gram.Message{
		ID:       m.ID,
		Date:     time.Unix(int64(m.Date), 0),
		Chat:     *chat,
		Outgoing: m.Out,
	}

	if from, ok := m.GetFromID(); ok {
		if peer, isUser := from.(*tg.PeerUser); isUser {
			out.From = parseUser(e.Users[peer.UserID])
		}
	}

	entities, _ := m.GetEntities()
	parsed := ParseEntities(entities, e.Users)

	var attached media
	if raw, ok := m.GetMedia(); ok {
		attached, err = n.media.Normalize(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("normalize message %d: %w", m.ID, err)
		}
	}
	if attached.present() {
		attached.apply(out)
		out.Caption = m.Message
		out.CaptionEntities = parsed
	} else {
		out.Text = m.Message
		out.Entities = parsed
	}

	if author, ok := m.GetPostAuthor(); ok {
		out.AuthorSignature = author
	}
	if edit, ok := m.GetEditDate(); ok {
		out.EditDate = time.Unix(int64(edit), 0)
	}
	if views, ok := m.GetViews(); ok {
		out.Views = views
	}
	if botID, ok := m.GetViaBotID(); ok {
		out.ViaBot = parseUser(e.Users[botID])
	}
	if groupedID, ok := m.GetGroupedID(); ok {
		out.MediaGroupID = groupedID
	}
	if markup, ok := m.GetReplyMarkup(); ok {
		out.ReplyMarkup = ParseReplyMarkup(markup)
	}
	if fwd, ok := m.GetFwdFrom(); ok {
		n.applyForward(out, fwd, e)
	}

	if replyDepth > 0 {
		if header, ok := m.GetReplyTo(); ok {
			if reply, ok := header.(*tg.MessageReplyHeader); ok {
				if targetID, ok := reply.GetReplyToMsgID(); ok {
					fetched, err := n.fetchWithFloodRetry(ctx, out.Chat.ID, targetID, replyDepth-1)
					if err != nil {
						return nil, fmt.Errorf("normalize message %d: resolve reply: %w", m.ID, err)
					}
					out.ReplyToMessage = fetched
				}
			}
		}
	}

	return out, nil
}

// applyForward fills the forward group. Origins are mutually exclusive: a
// user origin sets ForwardFrom, a channel origin sets ForwardFromChat along
// with the original post ID and signature, and a hidden origin leaves both
// nil with only the date surviving.
func (n *MessageNormalizer) applyForward(out *gram.Message, fwd tg.MessageFwdHeader, e tg.Entities) {
	out.ForwardDate = time.Unix(int64(fwd.Date), 0)
	if from, ok := fwd.GetFromID(); ok {
		switch peer := from.(type) {
		case *tg.PeerUser:
			out.ForwardFrom = parseUser(e.Users[peer.UserID])
		case *tg.PeerChannel:
			out.ForwardFromChat = channelChat(e.Channels[peer.ChannelID])
			if post, ok := fwd.GetChannelPost(); ok {
				out.ForwardFromMessageID = post
			}
			if author, ok := fwd.GetPostAuthor(); ok {
				out.ForwardSignature = author
			}
		}
	}
}

func (n *MessageNormalizer) normalizeService(ctx context.Context, m *tg.MessageService, e tg.Entities) (*gram.Message, error) {
	fromID, _ := m.GetFromID()
	chat, err := chatFromPeer(dialogPeer(m.PeerID, fromID, m.Out), e)
	if err != nil {
		return nil, fmt.Errorf("normalize service message %d: %w", m.ID, err)
	}

	out := &gram.Message{
		ID:       m.ID,
		Date:     time.Unix(int64(m.Date), 0),
		Chat:     *chat,
		Outgoing: m.Out,
	}
	if from, ok := m.GetFromID(); ok {
		if peer, isUser := from.(*tg.PeerUser); isUser {
			out.From = parseUser(e.Users[peer.UserID])
		}
	}

	switch action := m.Action.(type) {
	case *tg.MessageActionChatAddUser:
		members, err := serviceUsers(action.Users, e)
		if err != nil {
			return nil, fmt.Errorf("normalize service message %d: %w", m.ID, err)
		}
		out.NewChatMembers = members
	case *tg.MessageActionChatJoinedByLink:
		if out.From == nil {
			return nil, fmt.Errorf("normalize service message %d: join-by-link without sender", m.ID)
		}
		out.NewChatMembers = []gram.User{*out.From}
	case *tg.MessageActionChatDeleteUser:
		left, ok := e.Users[action.UserID]
		if !ok {
			return nil, fmt.Errorf("normalize service message %d: left member %d: %w", m.ID, action.UserID, gram.ErrPeerNotFound)
		}
		out.LeftChatMember = parseUser(left)
	case *tg.MessageActionChatEditTitle:
		out.NewChatTitle = action.Title
	case *tg.MessageActionChatEditPhoto:
		out.NewChatPhoto = parsePhoto(action.Photo)
	case *tg.MessageActionChatDeletePhoto:
		out.DeleteChatPhoto = true
	case *tg.MessageActionChatCreate:
		out.GroupChatCreated = true
	case *tg.MessageActionChannelCreate:
		out.ChannelChatCreated = true
	case *tg.MessageActionChatMigrateTo:
		out.MigrateToChatID = gram.PeerID(gram.PeerKindChannel, action.ChannelID)
	case *tg.MessageActionChannelMigrateFrom:
		out.MigrateFromChatID = gram.PeerID(gram.PeerKindBasicGroup, action.ChatID)
	case *tg.MessageActionPinMessage:
		// The pinned message itself gets no reply budget: its own reply
		// chain is not interesting here.
		if header, ok := m.GetReplyTo(); ok {
			if reply, ok := header.(*tg.MessageReplyHeader); ok {
				if targetID, ok := reply.GetReplyToMsgID(); ok {
					pinned, err := n.fetchWithFloodRetry(ctx, out.Chat.ID, targetID, 0)
					if err != nil {
						return nil, fmt.Errorf("normalize service message %d: resolve pinned: %w", m.ID, err)
					}
					out.PinnedMessage = pinned
				}
			}
		}
	}

	return out, nil
}

func serviceUsers(ids []int64, e tg.Entities) ([]gram.User, error) {
	members := make([]gram.User, 0, len(ids))
	for _, id := range ids {
		u, ok := e.Users[id]
		if !ok {
			return nil, fmt.Errorf("new member %d: %w", id, gram.ErrPeerNotFound)
		}
		members = append(members, *parseUser(u))
	}
	return members, nil
}

// fetchWithFloodRetry fetches a message, sleeping out every rate-limit wait
// the server demands. It retries indefinitely on flood waits; cancellation
// arrives through the context, and every other error propagates immediately.
func (n *MessageNormalizer) fetchWithFloodRetry(ctx context.Context, chatID int64, messageID, replyDepth int) (*gram.Message, error) {
	if n.fetcher == nil {
		return nil, ErrNoFetcher
	}
	for {
		fetched, err := n.fetcher.FetchMessage(ctx, chatID, messageID, replyDepth)
		if err == nil {
			return fetched, nil
		}
		wait, ok := tgerr.AsFloodWait(err)
		if !ok {
			return nil, fmt.Errorf("fetch message %d in chat %d: %w", messageID, chatID, err)
		}
		n.logger.Warn("rate limited fetching message, waiting",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Duration("wait", wait),
		)
		if err := n.sleep(ctx, wait); err != nil {
			return nil, fmt.Errorf("fetch message %d in chat %d: %w", messageID, chatID, err)
		}
	}
}

// NormalizeDeleted expands a deletion notice into one minimal record per
// deleted ID. channelID is the bare channel identifier for channel-scoped
// deletions and 0 for the common update, where the chat is unknown.
func NormalizeDeleted(ids []int, channelID int64) []gram.Message {
	out := make([]gram.Message, 0, len(ids))
	for _, id := range ids {
		msg := gram.Message{ID: id}
		if channelID != 0 {
			msg.Chat = gram.Chat{
				ID:   gram.PeerID(gram.PeerKindChannel, channelID),
				Type: gram.ChatTypeChannel,
			}
		}
		out = append(out, msg)
	}
	return out
}
