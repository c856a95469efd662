package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize collapses every whitespace run to a single space and trims.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitSentences normalizes s and cuts it after every '.', '!' or '?' that is
// followed by whitespace. Empty pieces are dropped.
func SplitSentences(s string) []string {
	t := Normalize(s)
	if t == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(t); i++ {
		if !isTerminal(t[i]) || i+1 >= len(t) || t[i+1] != ' ' {
			continue
		}
		if piece := strings.TrimSpace(t[start : i+1]); piece != "" {
			out = append(out, piece)
		}
		start = i + 2
		i++
	}
	if start < len(t) {
		if piece := strings.TrimSpace(t[start:]); piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

func isTerminal(b byte) bool { return b == '.' || b == '!' || b == '?' }

// IsAlpha reports whether s is non-empty and made of letters only.
func IsAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// CapitalizeFirst upper-cases the first rune of s.
func CapitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Head returns at most n runes of s.
func Head(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
