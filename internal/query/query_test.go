package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "empty",
			in:   "",
			want: nil,
		},
		{
			name: "whitespace only",
			in:   "   ",
			want: nil,
		},
		{
			name: "plain query searches any",
			in:   "low",
			want: []string{"any", "low"},
		},
		{
			name: "plain multi-word query stays whole",
			in:   "station to station",
			want: []string{"any", "station to station"},
		},
		{
			name: "single field token",
			in:   "artist:Bowie",
			want: []string{"artist", "Bowie"},
		},
		{
			name: "multiple field tokens",
			in:   "artist:Bowie album:Low",
			want: []string{"artist", "Bowie", "album", "Low"},
		},
		{
			name: "bare word before field token becomes any",
			in:   "heroes artist:Bowie",
			want: []string{"any", "heroes", "artist", "Bowie"},
		},
		{
			name: "bare word after field token",
			in:   "artist:Bowie heroes",
			want: []string{"artist", "Bowie", "any", "heroes"},
		},
		{
			name: "later bare words ride without a type",
			in:   "station artist:Bowie to",
			want: []string{"any", "station", "artist", "Bowie", "to"},
		},
		{
			name: "unrecognized field names pass through",
			in:   "wobble:yes",
			want: []string{"wobble", "yes"},
		},
		{
			name: "value keeps embedded colons",
			in:   "title:a:b",
			want: []string{"title", "a:b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}
