package normalize

import (
	"github.com/gotd/td/tg"

	"gramfold/pkg/gram"
)

// ParseReplyMarkup folds a wire markup into the canonical one-of form.
// Unknown markup classes return nil.
func ParseReplyMarkup(markup tg.ReplyMarkupClass) *gram.ReplyMarkup {
	switch m := markup.(type) {
	case *tg.ReplyKeyboardForceReply:
		return &gram.ReplyMarkup{ForceReply: &gram.ForceReply{
			SingleUse: m.SingleUse,
			Selective: m.Selective,
		}}
	case *tg.ReplyKeyboardHide:
		return &gram.ReplyMarkup{RemoveKeyboard: &gram.ReplyKeyboardRemove{
			Selective: m.Selective,
		}}
	case *tg.ReplyKeyboardMarkup:
		keyboard := make([][]gram.KeyboardButton, 0, len(m.Rows))
		for _, row := range m.Rows {
			buttons := make([]gram.KeyboardButton, 0, len(row.Buttons))
			for _, b := range row.Buttons {
				buttons = append(buttons, parseKeyboardButton(b))
			}
			keyboard = append(keyboard, buttons)
		}
		return &gram.ReplyMarkup{Keyboard: &gram.ReplyKeyboardMarkup{
			Keyboard:        keyboard,
			ResizeKeyboard:  m.Resize,
			OneTimeKeyboard: m.SingleUse,
			Selective:       m.Selective,
		}}
	case *tg.ReplyInlineMarkup:
		keyboard := make([][]gram.InlineKeyboardButton, 0, len(m.Rows))
		for _, row := range m.Rows {
			buttons := make([]gram.InlineKeyboardButton, 0, len(row.Buttons))
			for _, b := range row.Buttons {
				buttons = append(buttons, parseInlineButton(b))
			}
			keyboard = append(keyboard, buttons)
		}
		return &gram.ReplyMarkup{InlineKeyboard: &gram.InlineKeyboardMarkup{
			InlineKeyboard: keyboard,
		}}
	default:
		return nil
	}
}

func parseKeyboardButton(button tg.KeyboardButtonClass) gram.KeyboardButton {
	switch b := button.(type) {
	case *tg.KeyboardButtonRequestPhone:
		return gram.KeyboardButton{Text: b.Text, RequestContact: true}
	case *tg.KeyboardButtonRequestGeoLocation:
		return gram.KeyboardButton{Text: b.Text, RequestLocation: true}
	default:
		return gram.KeyboardButton{Text: button.GetText()}
	}
}

func parseInlineButton(button tg.KeyboardButtonClass) gram.InlineKeyboardButton {
	switch b := button.(type) {
	case *tg.KeyboardButtonURL:
		return gram.InlineKeyboardButton{Text: b.Text, URL: b.URL}
	case *tg.KeyboardButtonCallback:
		return gram.InlineKeyboardButton{Text: b.Text, CallbackData: b.Data}
	case *tg.KeyboardButtonSwitchInline:
		if b.SamePeer {
			return gram.InlineKeyboardButton{Text: b.Text, SwitchInlineQueryCurrentChat: b.Query}
		}
		return gram.InlineKeyboardButton{Text: b.Text, SwitchInlineQuery: b.Query}
	default:
		return gram.InlineKeyboardButton{Text: button.GetText()}
	}
}
