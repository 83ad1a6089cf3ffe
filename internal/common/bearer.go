package common

import "strings"

// FormatBearer renders a token as an Authorization header value.
func FormatBearer(token string) string {
	return BearerScheme + " " + token
}

// ParseBearer extracts the token from an Authorization header value. It
// returns "" when the header is empty or uses another scheme.
func ParseBearer(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

// WipeByteArray zeroes b in place. Used for passwords read from the terminal.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
