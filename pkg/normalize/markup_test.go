package normalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gotd/td/tg"

	"gramfold/pkg/gram"
)

func TestParseReplyMarkup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		markup tg.ReplyMarkupClass
		want   *gram.ReplyMarkup
	}{
		{
			name:   "force reply",
			markup: &tg.ReplyKeyboardForceReply{SingleUse: true, Selective: true},
			want: &gram.ReplyMarkup{ForceReply: &gram.ForceReply{
				SingleUse: true,
				Selective: true,
			}},
		},
		{
			name:   "remove keyboard",
			markup: &tg.ReplyKeyboardHide{Selective: true},
			want: &gram.ReplyMarkup{RemoveKeyboard: &gram.ReplyKeyboardRemove{
				Selective: true,
			}},
		},
		{
			name: "reply keyboard with request buttons",
			markup: &tg.ReplyKeyboardMarkup{
				Resize:    true,
				SingleUse: true,
				Rows: []tg.KeyboardButtonRow{
					{Buttons: []tg.KeyboardButtonClass{
						&tg.KeyboardButton{Text: "plain"},
						&tg.KeyboardButtonRequestPhone{Text: "share phone"},
					}},
					{Buttons: []tg.KeyboardButtonClass{
						&tg.KeyboardButtonRequestGeoLocation{Text: "share location"},
					}},
				},
			},
			want: &gram.ReplyMarkup{Keyboard: &gram.ReplyKeyboardMarkup{
				ResizeKeyboard:  true,
				OneTimeKeyboard: true,
				Keyboard: [][]gram.KeyboardButton{
					{
						{Text: "plain"},
						{Text: "share phone", RequestContact: true},
					},
					{
						{Text: "share location", RequestLocation: true},
					},
				},
			}},
		},
		{
			name: "inline keyboard",
			markup: &tg.ReplyInlineMarkup{
				Rows: []tg.KeyboardButtonRow{
					{Buttons: []tg.KeyboardButtonClass{
						&tg.KeyboardButtonURL{Text: "open", URL: "https://example.org"},
						&tg.KeyboardButtonCallback{Text: "tap", Data: []byte{1, 2}},
					}},
					{Buttons: []tg.KeyboardButtonClass{
						&tg.KeyboardButtonSwitchInline{Text: "here", SamePeer: true, Query: "q"},
						&tg.KeyboardButtonSwitchInline{Text: "elsewhere", Query: "q"},
					}},
				},
			},
			want: &gram.ReplyMarkup{InlineKeyboard: &gram.InlineKeyboardMarkup{
				InlineKeyboard: [][]gram.InlineKeyboardButton{
					{
						{Text: "open", URL: "https://example.org"},
						{Text: "tap", CallbackData: []byte{1, 2}},
					},
					{
						{Text: "here", SwitchInlineQueryCurrentChat: "q"},
						{Text: "elsewhere", SwitchInlineQuery: "q"},
					},
				},
			}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseReplyMarkup(tt.markup)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("ParseReplyMarkup() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
