package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Punctuation stripped",
			input: "Acme #1 (East)",
			want:  "Acme_1_East",
		},
		{
			name:  "Plain name",
			input: "New Mart",
			want:  "New_Mart",
		},
		{
			name:  "Hyphen and underscore kept",
			input: "store-a_b",
			want:  "store-a_b",
		},
		{
			name:  "Surrounding whitespace trimmed",
			input: "  Jane Doe  ",
			want:  "Jane_Doe",
		},
		{
			name:  "Only punctuation",
			input: "!!!",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.input))
		})
	}
}

func TestKeySuffix(t *testing.T) {
	a := KeySuffix()
	b := KeySuffix()

	assert.Len(t, a, 8)
	assert.Len(t, b, 8)
	assert.NotEqual(t, a, b)
}
