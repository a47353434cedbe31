package respond

import (
	"strings"
	"unicode"
)

// maxMessageLength bounds an error message echoed to clients or logs.
const maxMessageLength = 512

// SanitizeError flattens err's message onto one line, drops control
// characters and truncates it to maxMessageLength runes. Client supplied
// values such as titles end up inside validation messages, so they are
// never written raw.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	n := 0
	for _, r := range err.Error() {
		if n == maxMessageLength {
			b.WriteString("...")
			break
		}
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			r = ' '
		case unicode.IsControl(r):
			continue
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}
