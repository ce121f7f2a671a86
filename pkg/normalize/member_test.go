package normalize

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/gotd/td/tg"

	"gramfold/pkg/gram"
)

func memberUsers() map[int64]*tg.User {
	return map[int64]*tg.User{
		7: {ID: 7, FirstName: "Alice"},
		8: {ID: 8, FirstName: "Bob"},
	}
}

func TestParseChannelParticipant(t *testing.T) {
	t.Parallel()

	banned := func(rights tg.ChatBannedRights) *tg.ChannelParticipantBanned {
		return &tg.ChannelParticipantBanned{
			Peer:         &tg.PeerUser{UserID: 7},
			BannedRights: rights,
		}
	}

	tests := []struct {
		name        string
		participant tg.ChannelParticipantClass
		check       func(t *testing.T, got gram.ChatMember)
	}{
		{
			name:        "plain member",
			participant: &tg.ChannelParticipant{UserID: 7, Date: 1700000000},
			check: func(t *testing.T, got gram.ChatMember) {
				if got.Status != gram.MemberStatusMember || got.User.ID != 7 {
					t.Fatalf("member = %+v", got)
				}
			},
		},
		{
			name:        "creator",
			participant: &tg.ChannelParticipantCreator{UserID: 7},
			check: func(t *testing.T, got gram.ChatMember) {
				if got.Status != gram.MemberStatusCreator {
					t.Fatalf("member = %+v", got)
				}
			},
		},
		{
			name: "administrator carries rights",
			participant: &tg.ChannelParticipantAdmin{
				CanEdit: true,
				UserID:  8,
				AdminRights: tg.ChatAdminRights{
					ChangeInfo:     true,
					DeleteMessages: true,
					BanUsers:       true,
					PinMessages:    true,
				},
			},
			check: func(t *testing.T, got gram.ChatMember) {
				if got.Status != gram.MemberStatusAdministrator {
					t.Fatalf("member = %+v", got)
				}
				if !got.CanBeEdited || !got.CanChangeInfo || !got.CanDeleteMessages ||
					!got.CanRestrictMembers || !got.CanPinMessages {
					t.Fatalf("rights = %+v", got)
				}
				if got.CanPromoteMembers || got.CanPostMessages {
					t.Fatalf("ungranted rights set: %+v", got)
				}
			},
		},
		{
			name: "view ban is a kick",
			participant: banned(tg.ChatBannedRights{
				ViewMessages: true,
				SendMessages: true,
				UntilDate:    1800000000,
			}),
			check: func(t *testing.T, got gram.ChatMember) {
				if got.Status != gram.MemberStatusKicked {
					t.Fatalf("member = %+v", got)
				}
				if got.UntilDate != time.Unix(1800000000, 0) {
					t.Fatalf("until = %v", got.UntilDate)
				}
				if got.CanSendMessages {
					t.Fatalf("kicked member kept send right: %+v", got)
				}
			},
		},
		{
			name: "softer ban is a restriction with retained rights",
			participant: banned(tg.ChatBannedRights{
				SendMedia:    true,
				SendStickers: true,
				SendGifs:     true,
				SendGames:    true,
				SendInline:   true,
				EmbedLinks:   true,
				UntilDate:    1800000000,
			}),
			check: func(t *testing.T, got gram.ChatMember) {
				if got.Status != gram.MemberStatusRestricted {
					t.Fatalf("member = %+v", got)
				}
				if !got.CanSendMessages {
					t.Fatal("plain messages were not banned")
				}
				if got.CanSendMediaMessages || got.CanSendOtherMessages || got.CanAddWebPagePreviews {
					t.Fatalf("banned rights retained: %+v", got)
				}
			},
		},
		{
			name: "permanent restriction has zero until date",
			participant: banned(tg.ChatBannedRights{
				SendMessages: true,
				UntilDate:    math.MaxInt32,
			}),
			check: func(t *testing.T, got gram.ChatMember) {
				if !got.UntilDate.IsZero() {
					t.Fatalf("until = %v", got.UntilDate)
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseChannelParticipant(tt.participant, memberUsers())
			if err != nil {
				t.Fatalf("ParseChannelParticipant() error = %v", err)
			}
			tt.check(t, got)
		})
	}
}

func TestParseChannelParticipantUnknownUser(t *testing.T) {
	t.Parallel()

	_, err := ParseChannelParticipant(&tg.ChannelParticipant{UserID: 404}, memberUsers())
	if !errors.Is(err, gram.ErrPeerNotFound) {
		t.Fatalf("ParseChannelParticipant() error = %v, want ErrPeerNotFound", err)
	}
}

func TestParseChatMembers(t *testing.T) {
	t.Parallel()

	participants := tg.ChatParticipants{
		ChatID: 10,
		Participants: []tg.ChatParticipantClass{
			&tg.ChatParticipantCreator{UserID: 7},
			&tg.ChatParticipant{UserID: 8, InviterID: 7, Date: 1700000000},
		},
	}

	got, err := ParseChatMembers(participants, memberUsers())
	if err != nil {
		t.Fatalf("ParseChatMembers() error = %v", err)
	}
	if got.TotalCount != 2 || len(got.Members) != 2 {
		t.Fatalf("members = %+v", got)
	}
	if got.Members[0].Status != gram.MemberStatusCreator || got.Members[1].Status != gram.MemberStatusMember {
		t.Fatalf("statuses = %+v", got.Members)
	}
}

func TestParseChannelMembers(t *testing.T) {
	t.Parallel()

	alice := &tg.User{ID: 7, FirstName: "Alice"}
	page := &tg.ChannelsChannelParticipants{
		Count: 120,
		Participants: []tg.ChannelParticipantClass{
			&tg.ChannelParticipant{UserID: 7, Date: 1700000000},
		},
		Users: []tg.UserClass{alice},
	}

	got, err := ParseChannelMembers(page)
	if err != nil {
		t.Fatalf("ParseChannelMembers() error = %v", err)
	}
	if got.TotalCount != 120 {
		t.Fatalf("total = %d, want 120", got.TotalCount)
	}
	if len(got.Members) != 1 || got.Members[0].User.FirstName != "Alice" {
		t.Fatalf("members = %+v", got.Members)
	}
}
