package gram

import "unicode/utf16"

// EntityKind identifies a formatting/semantic annotation over message text.
type EntityKind string

const (
	// EntityMention is an @username mention.
	EntityMention EntityKind = "mention"
	// EntityHashtag is a #hashtag.
	EntityHashtag EntityKind = "hashtag"
	// EntityCashtag is a $CASHTAG.
	EntityCashtag EntityKind = "cashtag"
	// EntityBotCommand is a /command.
	EntityBotCommand EntityKind = "bot_command"
	// EntityURL is a bare URL.
	EntityURL EntityKind = "url"
	// EntityEmail is an email address.
	EntityEmail EntityKind = "email"
	// EntityBold is bold text.
	EntityBold EntityKind = "bold"
	// EntityItalic is italic text.
	EntityItalic EntityKind = "italic"
	// EntityCode is inline monospace text.
	EntityCode EntityKind = "code"
	// EntityPre is a monospace block.
	EntityPre EntityKind = "pre"
	// EntityTextLink is text carrying an explicit URL.
	EntityTextLink EntityKind = "text_link"
	// EntityTextMention is a mention of a user without a username.
	EntityTextMention EntityKind = "text_mention"
	// EntityPhoneNumber is a phone number.
	EntityPhoneNumber EntityKind = "phone_number"
)

// Entity annotates a range of message text.
//
// Offset and Length are expressed in UTF-16 code units, the unit the wire
// protocol uses. They are not byte offsets and not rune counts; use
// EntityText to slice annotated text correctly.
type Entity struct {
	Kind   EntityKind
	Offset int
	Length int
	// URL is set for text_link entities.
	URL string
	// User is set for text_mention entities when the side table carried the
	// referenced user.
	User *User
}

// EntityText returns the substring of text covered by the entity, honoring
// UTF-16 code-unit offsets. Out-of-range entities yield an empty string.
func EntityText(text string, entity Entity) string {
	units := utf16.Encode([]rune(text))
	start := entity.Offset
	end := entity.Offset + entity.Length
	if start < 0 || end < start || end > len(units) {
		return ""
	}

	return string(utf16.Decode(units[start:end]))
}
