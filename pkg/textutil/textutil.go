// Package textutil holds the small text helpers shared by the rule-based
// matchers (gazetteer, taxonomy, outlet table).
package textutil

import "strings"

// Normalize lowercases s and reduces it to ascii letters, digits and
// single spaces. Used to make outlet ids/names safe for table lookup.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// ContainsWord reports whether text contains word as a whole word, i.e.
// not embedded in a longer alphanumeric run ("us" must not match
// "busload"). Comparison is case-sensitive; callers lowercase both sides.
func ContainsWord(text, word string) bool {
	if word == "" {
		return false
	}
	for from := 0; ; {
		idx := strings.Index(text[from:], word)
		if idx < 0 {
			return false
		}
		idx += from
		end := idx + len(word)

		leftOK := idx == 0 || !isAlphaNum(text[idx-1])
		rightOK := end == len(text) || !isAlphaNum(text[end])
		if leftOK && rightOK {
			return true
		}
		from = idx + 1
	}
}

// ContainsWordFold is ContainsWord with both sides lowercased first.
func ContainsWordFold(text, word string) bool {
	return ContainsWord(strings.ToLower(text), strings.ToLower(word))
}

func isAlphaNum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
