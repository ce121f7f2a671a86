package normalize

import (
	"fmt"
	"math"
	"time"

	"github.com/gotd/td/tg"

	"gramfold/pkg/gram"
)

// ParseChannelParticipant folds one channel participant into a member
// record. Rights propagate with their wire polarity for administrators and
// negated for restrictions: banned rights list what the member must NOT do,
// while the canonical record states what they still can.
func ParseChannelParticipant(p tg.ChannelParticipantClass, users map[int64]*tg.User) (gram.ChatMember, error) {
	switch v := p.(type) {
	case *tg.ChannelParticipant:
		user, err := memberUser(v.UserID, users)
		if err != nil {
			return gram.ChatMember{}, err
		}
		return gram.ChatMember{User: user, Status: gram.MemberStatusMember}, nil
	case *tg.ChannelParticipantSelf:
		user, err := memberUser(v.UserID, users)
		if err != nil {
			return gram.ChatMember{}, err
		}
		return gram.ChatMember{User: user, Status: gram.MemberStatusMember}, nil
	case *tg.ChannelParticipantCreator:
		user, err := memberUser(v.UserID, users)
		if err != nil {
			return gram.ChatMember{}, err
		}
		return gram.ChatMember{User: user, Status: gram.MemberStatusCreator}, nil
	case *tg.ChannelParticipantAdmin:
		user, err := memberUser(v.UserID, users)
		if err != nil {
			return gram.ChatMember{}, err
		}
		member := gram.ChatMember{User: user, Status: gram.MemberStatusAdministrator, CanBeEdited: v.CanEdit}
		applyAdminRights(&member, v.AdminRights)
		return member, nil
	case *tg.ChannelParticipantBanned:
		peer, ok := v.Peer.(*tg.PeerUser)
		if !ok {
			return gram.ChatMember{}, fmt.Errorf("parse banned participant: non-user peer %T", v.Peer)
		}
		user, err := memberUser(peer.UserID, users)
		if err != nil {
			return gram.ChatMember{}, err
		}
		member := gram.ChatMember{User: user, UntilDate: restrictionUntil(v.BannedRights.UntilDate)}
		// A full view ban is a kick; anything softer is a restriction,
		// reported as the rights the member retains.
		if v.BannedRights.ViewMessages {
			member.Status = gram.MemberStatusKicked
		} else {
			member.Status = gram.MemberStatusRestricted
			member.CanSendMessages = !v.BannedRights.SendMessages
			member.CanSendMediaMessages = !v.BannedRights.SendMedia
			member.CanSendOtherMessages = !v.BannedRights.SendStickers ||
				!v.BannedRights.SendGifs ||
				!v.BannedRights.SendGames ||
				!v.BannedRights.SendInline
			member.CanAddWebPagePreviews = !v.BannedRights.EmbedLinks
		}
		return member, nil
	default:
		return gram.ChatMember{}, fmt.Errorf("parse participant: unexpected type %T", p)
	}
}

// ParseChatParticipant folds one basic-group participant.
func ParseChatParticipant(p tg.ChatParticipantClass, users map[int64]*tg.User) (gram.ChatMember, error) {
	var (
		id     int64
		status gram.MemberStatus
	)
	switch v := p.(type) {
	case *tg.ChatParticipant:
		id, status = v.UserID, gram.MemberStatusMember
	case *tg.ChatParticipantCreator:
		id, status = v.UserID, gram.MemberStatusCreator
	case *tg.ChatParticipantAdmin:
		id, status = v.UserID, gram.MemberStatusAdministrator
	default:
		return gram.ChatMember{}, fmt.Errorf("parse participant: unexpected type %T", p)
	}
	user, err := memberUser(id, users)
	if err != nil {
		return gram.ChatMember{}, err
	}
	return gram.ChatMember{User: user, Status: status}, nil
}

// ParseChannelMembers folds a channel participant page, keyed by its own
// side table.
func ParseChannelMembers(page *tg.ChannelsChannelParticipants) (gram.ChatMembers, error) {
	users := usersByID(page.Users)
	members := make([]gram.ChatMember, 0, len(page.Participants))
	for _, p := range page.Participants {
		member, err := ParseChannelParticipant(p, users)
		if err != nil {
			return gram.ChatMembers{}, fmt.Errorf("parse channel members: %w", err)
		}
		members = append(members, member)
	}
	return gram.ChatMembers{TotalCount: page.Count, Members: members}, nil
}

// ParseChatMembers folds a basic group's participant list against the user
// side table of the enclosing full-chat response.
func ParseChatMembers(participants tg.ChatParticipants, users map[int64]*tg.User) (gram.ChatMembers, error) {
	members := make([]gram.ChatMember, 0, len(participants.Participants))
	for _, p := range participants.Participants {
		member, err := ParseChatParticipant(p, users)
		if err != nil {
			return gram.ChatMembers{}, fmt.Errorf("parse chat members: %w", err)
		}
		members = append(members, member)
	}
	return gram.ChatMembers{TotalCount: len(members), Members: members}, nil
}

func applyAdminRights(member *gram.ChatMember, rights tg.ChatAdminRights) {
	member.CanChangeInfo = rights.ChangeInfo
	member.CanPostMessages = rights.PostMessages
	member.CanEditMessages = rights.EditMessages
	member.CanDeleteMessages = rights.DeleteMessages
	member.CanRestrictMembers = rights.BanUsers
	member.CanInviteUsers = rights.InviteUsers
	member.CanPinMessages = rights.PinMessages
	member.CanPromoteMembers = rights.AddAdmins
}

// restrictionUntil converts the wire until-date. The sentinel "end of the
// 32-bit epoch" means a permanent restriction and maps to the zero time.
func restrictionUntil(until int) time.Time {
	if until == 0 || until == math.MaxInt32 {
		return time.Time{}
	}
	return time.Unix(int64(until), 0)
}

func memberUser(id int64, users map[int64]*tg.User) (gram.User, error) {
	u, ok := users[id]
	if !ok {
		return gram.User{}, fmt.Errorf("member %d: %w", id, gram.ErrPeerNotFound)
	}
	return *parseUser(u), nil
}

func usersByID(users []tg.UserClass) map[int64]*tg.User {
	out := make(map[int64]*tg.User, len(users))
	for _, u := range users {
		if user, ok := u.(*tg.User); ok {
			out[user.ID] = user
		}
	}
	return out
}
