package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBearer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bearer abc.def", "abc.def"},
		{"bearer tok", "tok"},
		{"  Bearer   spaced  ", "spaced"},
		{"Basic dXNlcg==", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseBearer(tt.in), tt.in)
	}
}

func TestFormatBearer_RoundTrip(t *testing.T) {
	assert.Equal(t, "Bearer x1", FormatBearer("x1"))
	assert.Equal(t, "x1", ParseBearer(FormatBearer("x1")))
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte("secret")
	WipeByteArray(buf)
	assert.Equal(t, make([]byte, 6), buf)

	WipeByteArray(nil)
}
