package gram

// ReplyMarkup is the markup attached to a message. Exactly one of the four
// payload branches is set.
type ReplyMarkup struct {
	ForceReply     *ForceReply
	Keyboard       *ReplyKeyboardMarkup
	RemoveKeyboard *ReplyKeyboardRemove
	InlineKeyboard *InlineKeyboardMarkup
}

// ForceReply instructs clients to open a reply prompt.
type ForceReply struct {
	SingleUse bool
	Selective bool
}

// ReplyKeyboardMarkup is a custom reply keyboard.
type ReplyKeyboardMarkup struct {
	Keyboard        [][]KeyboardButton
	ResizeKeyboard  bool
	OneTimeKeyboard bool
	Selective       bool
}

// ReplyKeyboardRemove removes a previously sent custom keyboard.
type ReplyKeyboardRemove struct {
	Selective bool
}

// InlineKeyboardMarkup is a keyboard attached beneath the message.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton
}

// KeyboardButton is one button of a reply keyboard.
type KeyboardButton struct {
	Text            string
	RequestContact  bool
	RequestLocation bool
}

// InlineKeyboardButton is one button of an inline keyboard. At most one of
// the action fields is set.
type InlineKeyboardButton struct {
	Text                         string
	URL                          string
	CallbackData                 []byte
	SwitchInlineQuery            string
	SwitchInlineQueryCurrentChat string
}
