// Package transliterate romanizes Devanagari text to IAST and reduces the
// result to a display-safe alphabet.
package transliterate

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidText is returned for input that is not valid UTF-8.
var ErrInvalidText = errors.New("text is not valid UTF-8")

// Transliterate maps Devanagari runes to IAST. Runes outside the tables are
// copied unchanged, so Latin input is returned as-is.
func Transliterate(text string) string {
	src := []rune(norm.NFC.String(text))

	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(src); i++ {
		r := src[i]

		if base, ok := consonants[r]; ok {
			if i+1 < len(src) && src[i+1] == nukta {
				if alt, ok := nuktaConsonants[r]; ok {
					base = alt
				}
				i++
			}
			b.WriteString(base)

			if i+1 < len(src) {
				next := src[i+1]
				if next == virama {
					i++
					continue
				}
				if sign, ok := vowelSigns[next]; ok {
					b.WriteString(sign)
					i++
					continue
				}
			}
			b.WriteString("a")
			continue
		}

		if v, ok := vowels[r]; ok {
			b.WriteString(v)
			continue
		}
		if v, ok := vowelSigns[r]; ok {
			// A stray sign with no consonant before it.
			b.WriteString(v)
			continue
		}
		if m, ok := marks[r]; ok {
			b.WriteString(m)
			continue
		}

		switch r {
		case virama, nukta, zwj, zwnj:
			continue
		}
		b.WriteRune(r)
	}

	return norm.NFC.String(b.String())
}

// Normalize romanizes text and keeps only letters, spaces and hyphens. Other
// whitespace becomes a plain space. The result is a fixed point:
// Normalize(Normalize(t)) == Normalize(t).
func Normalize(text string) (string, error) {
	if !utf8.ValidString(text) {
		return "", ErrInvalidText
	}

	filter := transform.Chain(
		norm.NFC,
		runes.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return ' '
			}
			return r
		}),
		runes.Remove(runes.Predicate(func(r rune) bool {
			return !(unicode.IsLetter(r) || r == ' ' || r == '-')
		})),
		norm.NFC,
	)

	out, _, err := transform.String(filter, Transliterate(text))
	if err != nil {
		return "", fmt.Errorf("failed to filter romanized text: %w", err)
	}
	return out, nil
}
