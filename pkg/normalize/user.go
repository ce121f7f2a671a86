package normalize

import (
	"time"

	"github.com/gotd/td/tg"

	"gramfold/pkg/fileid"
	"gramfold/pkg/gram"
)

// parseUser folds a wire user into the canonical record. Returns nil for a
// nil input so side-table misses propagate as absent users rather than
// panics.
func parseUser(u *tg.User) *gram.User {
	if u == nil {
		return nil
	}
	user := &gram.User{
		ID:              u.ID,
		IsSelf:          u.Self,
		IsContact:       u.Contact,
		IsMutualContact: u.MutualContact,
		IsDeleted:       u.Deleted,
		IsBot:           u.Bot,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Username:        u.Username,
		LanguageCode:    u.LangCode,
		PhoneNumber:     u.Phone,
		Status:          parseUserStatus(u.Status),
	}
	if photo, ok := u.GetPhoto(); ok {
		user.Photo = parseUserProfilePhoto(photo)
	}
	if reasons, ok := u.GetRestrictionReason(); ok && len(reasons) > 0 {
		user.RestrictionReason = reasons[0].Text
	}
	return user
}

func parseUserStatus(status tg.UserStatusClass) *gram.UserStatus {
	switch s := status.(type) {
	case *tg.UserStatusOnline:
		return &gram.UserStatus{Online: true, Date: time.Unix(int64(s.Expires), 0)}
	case *tg.UserStatusOffline:
		return &gram.UserStatus{Offline: true, Date: time.Unix(int64(s.WasOnline), 0)}
	case *tg.UserStatusRecently:
		return &gram.UserStatus{Recently: true}
	case *tg.UserStatusLastWeek:
		return &gram.UserStatus{WithinWeek: true}
	case *tg.UserStatusLastMonth:
		return &gram.UserStatus{WithinMonth: true}
	default:
		return nil
	}
}

// Profile photo renditions are addressed through the chat-photo layout with
// no volume or secret; the local ID distinguishes the small rendition (0)
// from the big one (1).
const (
	photoRenditionSmall = 0
	photoRenditionBig   = 1
)

func parseUserProfilePhoto(photo tg.UserProfilePhotoClass) *gram.ChatPhoto {
	p, ok := photo.(*tg.UserProfilePhoto)
	if !ok {
		return nil
	}
	return chatPhotoTokens(p.PhotoID, int32(p.DCID))
}

func parseChatPhoto(photo tg.ChatPhotoClass) *gram.ChatPhoto {
	p, ok := photo.(*tg.ChatPhoto)
	if !ok {
		return nil
	}
	return chatPhotoTokens(p.PhotoID, int32(p.DCID))
}

func chatPhotoTokens(photoID int64, dcID int32) *gram.ChatPhoto {
	small := fileid.Locator{
		Type:    fileid.TypeChatPhoto,
		DCID:    dcID,
		ID:      photoID,
		LocalID: photoRenditionSmall,
	}
	big := small
	big.LocalID = photoRenditionBig
	return &gram.ChatPhoto{
		SmallFileID: fileid.Encode(small),
		BigFileID:   fileid.Encode(big),
	}
}
