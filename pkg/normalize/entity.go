package normalize

import (
	"github.com/gotd/td/tg"

	"gramfold/pkg/gram"
)

// ParseEntities maps wire text annotations to their canonical kinds.
// Wire variants without a canonical kind (spoilers, custom emoji, underline
// and friends) are dropped silently so that new schema layers never break
// consumers. Text mentions resolve their user through the side table; a
// mention of a user absent from the table is kept with a nil User.
func ParseEntities(entities []tg.MessageEntityClass, users map[int64]*tg.User) []gram.Entity {
	if len(entities) == 0 {
		return nil
	}
	out := make([]gram.Entity, 0, len(entities))
	for _, e := range entities {
		entity := gram.Entity{
			Offset: e.GetOffset(),
			Length: e.GetLength(),
		}
		switch v := e.(type) {
		case *tg.MessageEntityMention:
			entity.Kind = gram.EntityMention
		case *tg.MessageEntityHashtag:
			entity.Kind = gram.EntityHashtag
		case *tg.MessageEntityCashtag:
			entity.Kind = gram.EntityCashtag
		case *tg.MessageEntityBotCommand:
			entity.Kind = gram.EntityBotCommand
		case *tg.MessageEntityURL:
			entity.Kind = gram.EntityURL
		case *tg.MessageEntityEmail:
			entity.Kind = gram.EntityEmail
		case *tg.MessageEntityBold:
			entity.Kind = gram.EntityBold
		case *tg.MessageEntityItalic:
			entity.Kind = gram.EntityItalic
		case *tg.MessageEntityCode:
			entity.Kind = gram.EntityCode
		case *tg.MessageEntityPre:
			entity.Kind = gram.EntityPre
		case *tg.MessageEntityTextURL:
			entity.Kind = gram.EntityTextLink
			entity.URL = v.URL
		case *tg.MessageEntityMentionName:
			entity.Kind = gram.EntityTextMention
			entity.User = parseUser(users[v.UserID])
		case *tg.MessageEntityPhone:
			entity.Kind = gram.EntityPhoneNumber
		default:
			continue
		}
		out = append(out, entity)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
