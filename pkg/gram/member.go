package gram

import "time"

// MemberStatus identifies a chat member's standing in the conversation.
type MemberStatus string

const (
	// MemberStatusMember is an ordinary member.
	MemberStatusMember MemberStatus = "member"
	// MemberStatusCreator is the conversation owner.
	MemberStatusCreator MemberStatus = "creator"
	// MemberStatusAdministrator is a promoted member.
	MemberStatusAdministrator MemberStatus = "administrator"
	// MemberStatusKicked is a banned member who cannot view messages.
	MemberStatusKicked MemberStatus = "kicked"
	// MemberStatusRestricted is a member under partial restrictions.
	MemberStatusRestricted MemberStatus = "restricted"
)

// ChatMember associates a user with their status in one conversation.
//
// The Can* fields form a status-dependent rights set: the admin rights are
// meaningful for administrators, the send rights for restricted members.
// UntilDate is meaningful for kicked and restricted members only; the zero
// time means the restriction is permanent.
type ChatMember struct {
	User   User
	Status MemberStatus

	UntilDate time.Time

	// Administrator rights.
	CanBeEdited        bool
	CanChangeInfo      bool
	CanPostMessages    bool
	CanEditMessages    bool
	CanDeleteMessages  bool
	CanInviteUsers     bool
	CanRestrictMembers bool
	CanPinMessages     bool
	CanPromoteMembers  bool

	// Restricted-member rights.
	CanSendMessages       bool
	CanSendMediaMessages  bool
	CanSendOtherMessages  bool
	CanAddWebPagePreviews bool
}

// ChatMembers is one page of a member listing.
type ChatMembers struct {
	TotalCount int
	Members    []ChatMember
}
