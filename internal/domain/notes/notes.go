package notes

import (
	"strings"

	"github.com/forPelevin/lecnotes/internal/domain/text"
)

const (
	Bullet = "- "

	// ErrorText replaces the notes when formatting fails.
	ErrorText = "Error creating study notes."
)

// Format turns a summary into one bullet line per sentence, each starting
// with an upper-case letter.
func Format(summary string) string {
	sentences := text.SplitSentences(summary)
	lines := make([]string, 0, len(sentences))
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		lines = append(lines, Bullet+text.CapitalizeFirst(s))
	}
	return strings.Join(lines, "\n")
}
