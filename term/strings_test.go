package term

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringWidth(t *testing.T) {
	tests := map[string]struct {
		text string
		want int
	}{
		"empty":     {text: "", want: 0},
		"ascii":     {text: "hello", want: 5},
		"wide":      {text: "日本", want: 4},
		"combining": {text: "é", want: 1},
		"emoji":     {text: "👍🏽", want: 2},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, StringWidth(tc.text))
		})
	}
}

func TestWordWrap(t *testing.T) {
	tests := map[string]struct {
		text  string
		width int
		want  []string
	}{
		"fits": {
			text:  "short",
			width: 10,
			want:  []string{"short"},
		},
		"breaks at spaces": {
			text:  "one two three",
			width: 8,
			want:  []string{"one two ", "three"},
		},
		"long word": {
			text:  strings.Repeat("a", 12),
			width: 5,
			want:  []string{"aaaaa", "aaaaa", "aa"},
		},
		"hard break": {
			text:  "a\nb",
			width: 5,
			want:  []string{"a", "b"},
		},
		"zero width": {
			text:  "anything",
			width: 0,
			want:  nil,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, WordWrap(tc.text, tc.width))
		})
	}
}
