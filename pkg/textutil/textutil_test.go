package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "BBC News", "bbc news"},
		{"strips punctuation", "abc-news.go.com", "abc news go com"},
		{"collapses whitespace", "  the   hill  ", "the hill"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		name string
		text string
		word string
		want bool
	}{
		{"simple hit", "flooding hits surat today", "surat", true},
		{"phrase hit", "the world cup final", "world cup", true},
		{"substring is not a word", "a busload of fans", "us", false},
		{"boundary at start", "us sanctions announced", "us", true},
		{"boundary at end", "talks with the us", "us", true},
		{"punctuation boundary", "riots in paris, france", "paris", true},
		{"second occurrence matches", "virusx virus spread", "virus", true},
		{"missing", "nothing here", "virus", false},
		{"empty word", "text", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsWord(tt.text, tt.word))
		})
	}
}
