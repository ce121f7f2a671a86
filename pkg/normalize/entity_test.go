package normalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gotd/td/tg"

	"gramfold/pkg/gram"
)

func TestParseEntities(t *testing.T) {
	t.Parallel()

	bob := &tg.User{ID: 7, FirstName: "Bob"}
	users := map[int64]*tg.User{7: bob}

	tests := []struct {
		name     string
		entities []tg.MessageEntityClass
		want     []gram.Entity
	}{
		{
			name: "plain kinds",
			entities: []tg.MessageEntityClass{
				&tg.MessageEntityMention{Offset: 0, Length: 6},
				&tg.MessageEntityHashtag{Offset: 7, Length: 4},
				&tg.MessageEntityBotCommand{Offset: 12, Length: 6},
				&tg.MessageEntityBold{Offset: 19, Length: 3},
			},
			want: []gram.Entity{
				{Kind: gram.EntityMention, Offset: 0, Length: 6},
				{Kind: gram.EntityHashtag, Offset: 7, Length: 4},
				{Kind: gram.EntityBotCommand, Offset: 12, Length: 6},
				{Kind: gram.EntityBold, Offset: 19, Length: 3},
			},
		},
		{
			name: "text link keeps url",
			entities: []tg.MessageEntityClass{
				&tg.MessageEntityTextURL{Offset: 0, Length: 4, URL: "https://example.org"},
			},
			want: []gram.Entity{
				{Kind: gram.EntityTextLink, Offset: 0, Length: 4, URL: "https://example.org"},
			},
		},
		{
			name: "text mention resolves user",
			entities: []tg.MessageEntityClass{
				&tg.MessageEntityMentionName{Offset: 0, Length: 3, UserID: 7},
			},
			want: []gram.Entity{
				{Kind: gram.EntityTextMention, Offset: 0, Length: 3, User: &gram.User{ID: 7, FirstName: "Bob"}},
			},
		},
		{
			name: "text mention of unknown user keeps nil user",
			entities: []tg.MessageEntityClass{
				&tg.MessageEntityMentionName{Offset: 0, Length: 3, UserID: 404},
			},
			want: []gram.Entity{
				{Kind: gram.EntityTextMention, Offset: 0, Length: 3},
			},
		},
		{
			name: "unmapped kinds dropped",
			entities: []tg.MessageEntityClass{
				&tg.MessageEntitySpoiler{Offset: 0, Length: 3},
				&tg.MessageEntityUnderline{Offset: 4, Length: 3},
				&tg.MessageEntityItalic{Offset: 8, Length: 3},
			},
			want: []gram.Entity{
				{Kind: gram.EntityItalic, Offset: 8, Length: 3},
			},
		},
		{
			name: "all dropped yields nil",
			entities: []tg.MessageEntityClass{
				&tg.MessageEntitySpoiler{Offset: 0, Length: 3},
			},
			want: nil,
		},
		{
			name:     "empty yields nil",
			entities: nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseEntities(tt.entities, users)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("ParseEntities() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
