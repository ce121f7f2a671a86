package gram

import "testing"

func TestEntityText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		entity Entity
		want   string
	}{
		{
			name:   "ascii slice",
			text:   "hello world",
			entity: Entity{Kind: EntityBold, Offset: 6, Length: 5},
			want:   "world",
		},
		{
			name:   "offset after astral plane emoji",
			text:   "\U0001F600 bold",
			entity: Entity{Kind: EntityBold, Offset: 3, Length: 4},
			want:   "bold",
		},
		{
			name:   "covers surrogate pair",
			text:   "hi \U0001F600!",
			entity: Entity{Kind: EntityCode, Offset: 3, Length: 2},
			want:   "\U0001F600",
		},
		{
			name:   "out of range yields empty",
			text:   "short",
			entity: Entity{Kind: EntityBold, Offset: 3, Length: 10},
			want:   "",
		},
		{
			name:   "negative offset yields empty",
			text:   "short",
			entity: Entity{Kind: EntityBold, Offset: -1, Length: 2},
			want:   "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := EntityText(tt.text, tt.entity); got != tt.want {
				t.Fatalf("EntityText() = %q, want %q", got, tt.want)
			}
		})
	}
}
