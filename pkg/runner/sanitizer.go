package runner

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxLineSize bounds a single console line.
const DefaultMaxLineSize = 4096

var (
	ErrLineTooLarge = errors.New("line exceeds maximum allowed size")
	ErrInvalidUTF8  = errors.New("line contains invalid UTF-8 sequences")
)

// SanitizeLine rejects oversized or malformed lines and strips control
// characters. Tabs become spaces; everything else below 0x20 (and DEL, ESC)
// is dropped so escape sequences never reach event values or logs.
func SanitizeLine(line string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxLineSize
	}
	if len(line) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrLineTooLarge, len(line), limit)
	}
	if !utf8.ValidString(line) {
		return "", ErrInvalidUTF8
	}

	if strings.IndexFunc(line, unicode.IsControl) < 0 {
		return line, nil
	}

	var b strings.Builder
	b.Grow(len(line))
	for _, r := range line {
		switch {
		case r == '\t':
			b.WriteByte(' ')
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}
