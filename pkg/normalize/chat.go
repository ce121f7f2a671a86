package normalize

import (
	"fmt"

	"github.com/gotd/td/tg"

	"gramfold/pkg/gram"
)

// userChat presents a user as the chat of a private conversation.
func userChat(u *tg.User) *gram.Chat {
	if u == nil {
		return nil
	}
	chat := &gram.Chat{
		ID:        gram.PeerID(gram.PeerKindUser, u.ID),
		Type:      gram.ChatTypePrivate,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
	if photo, ok := u.GetPhoto(); ok {
		chat.Photo = parseUserProfilePhoto(photo)
	}
	return chat
}

func groupChat(c *tg.Chat) *gram.Chat {
	if c == nil {
		return nil
	}
	return &gram.Chat{
		ID:           gram.PeerID(gram.PeerKindBasicGroup, c.ID),
		Type:         gram.ChatTypeGroup,
		Title:        c.Title,
		Photo:        parseChatPhoto(c.Photo),
		MembersCount: c.ParticipantsCount,
	}
}

func channelChat(c *tg.Channel) *gram.Chat {
	if c == nil {
		return nil
	}
	kind := gram.ChatTypeChannel
	if c.Megagroup {
		kind = gram.ChatTypeSupergroup
	}
	chat := &gram.Chat{
		ID:    gram.PeerID(gram.PeerKindChannel, c.ID),
		Type:  kind,
		Title: c.Title,
		Photo: parseChatPhoto(c.Photo),
	}
	if name, ok := c.GetUsername(); ok {
		chat.Username = name
	}
	if count, ok := c.GetParticipantsCount(); ok {
		chat.MembersCount = count
	}
	if reasons, ok := c.GetRestrictionReason(); ok && len(reasons) > 0 {
		chat.RestrictionReason = reasons[0].Text
	}
	return chat
}

// dialogPeer returns the peer identifying the dialog a message belongs to.
// The peer tag of an incoming private message names the recipient, so
// incoming messages key the dialog by their sender instead.
func dialogPeer(peer, from tg.PeerClass, outgoing bool) tg.PeerClass {
	if _, ok := peer.(*tg.PeerUser); !ok {
		return peer
	}
	if outgoing {
		return peer
	}
	if u, ok := from.(*tg.PeerUser); ok {
		return u
	}
	return peer
}

// chatFromPeer materializes the chat a message belongs to from its peer tag
// and the envelope side tables.
func chatFromPeer(peer tg.PeerClass, e tg.Entities) (*gram.Chat, error) {
	switch p := peer.(type) {
	case *tg.PeerUser:
		u, ok := e.Users[p.UserID]
		if !ok {
			return nil, fmt.Errorf("chat for user %d: %w", p.UserID, gram.ErrPeerNotFound)
		}
		return userChat(u), nil
	case *tg.PeerChat:
		c, ok := e.Chats[p.ChatID]
		if !ok {
			return nil, fmt.Errorf("chat for group %d: %w", p.ChatID, gram.ErrPeerNotFound)
		}
		return groupChat(c), nil
	case *tg.PeerChannel:
		c, ok := e.Channels[p.ChannelID]
		if !ok {
			return nil, fmt.Errorf("chat for channel %d: %w", p.ChannelID, gram.ErrPeerNotFound)
		}
		return channelChat(c), nil
	default:
		return nil, fmt.Errorf("chat for peer %T: %w", peer, gram.ErrPeerNotFound)
	}
}
