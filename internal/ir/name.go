package ir

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ApiName converts a snake_case database name to PascalCase: the first
// character is uppercased and every underscore followed by a letter is
// dropped with the letter uppercased.
func ApiName(name string) string {
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(name))

	first, size := utf8.DecodeRuneInString(name)
	b.WriteRune(unicode.ToUpper(first))

	rest := name[size:]
	for i := 0; i < len(rest); {
		r, n := utf8.DecodeRuneInString(rest[i:])
		if r == '_' && i+n < len(rest) {
			next, m := utf8.DecodeRuneInString(rest[i+n:])
			if unicode.IsLetter(next) {
				b.WriteRune(unicode.ToUpper(next))
				i += n + m
				continue
			}
		}
		b.WriteRune(r)
		i += n
	}
	return b.String()
}
