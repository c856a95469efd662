package summary

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/forPelevin/lecnotes/internal/domain/text"
	"github.com/forPelevin/lecnotes/internal/ports"
	"github.com/forPelevin/lecnotes/internal/types"
)

const (
	DefaultRatio = 0.2

	// fallbackRunes is how much raw transcript is kept when annotation fails.
	fallbackRunes = 500
)

type Summarizer struct {
	ann   ports.Annotator
	ratio float64
}

// New returns an extractive summarizer. A ratio outside (0,1] falls back to
// DefaultRatio.
func New(ann ports.Annotator, ratio float64) *Summarizer {
	if ratio <= 0 || ratio > 1 || math.IsNaN(ratio) {
		ratio = DefaultRatio
	}
	return &Summarizer{ann: ann, ratio: ratio}
}

// Summarize keeps the highest scoring sentences of transcript, joined by a
// single space in document order. The returned string is always usable: when
// annotation fails it is Fallback(transcript) and err reports why.
func (s *Summarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	norm := text.Normalize(transcript)
	if norm == "" {
		return "", nil
	}
	doc, err := s.ann.Annotate(ctx, norm)
	if err != nil {
		return Fallback(transcript), fmt.Errorf("annotate transcript: %w", err)
	}
	return FromDocument(doc, s.ratio), nil
}

// FromDocument runs scoring and selection on an annotated document.
func FromDocument(doc types.Document, ratio float64) string {
	if len(doc.Sentences) == 0 {
		return ""
	}
	freq := WordFrequencies(doc)
	scores := ScoreSentences(doc, freq)
	picked := Select(scores, SelectCount(len(doc.Sentences), ratio))

	parts := make([]string, 0, len(picked))
	for _, i := range picked {
		if t := strings.TrimSpace(doc.Sentences[i].Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Fallback is the degraded summary: the first 500 runes of the raw input.
func Fallback(transcript string) string {
	return text.Head(transcript, fallbackRunes)
}

// WordFrequencies counts alphabetic, non-stopword tokens by lowercase form and
// divides by the largest count, so values are in [0,1] and the most frequent
// word maps to 1.
func WordFrequencies(doc types.Document) map[string]float64 {
	freq := make(map[string]float64)
	for _, st := range doc.Sentences {
		for _, tok := range st.Tokens {
			lower := tok.Lower
			if lower == "" {
				lower = strings.ToLower(tok.Text)
			}
			if !tok.IsAlpha || text.IsStopword(lower) {
				continue
			}
			freq[lower]++
		}
	}
	maxFreq := 1.0
	for _, v := range freq {
		if v > maxFreq {
			maxFreq = v
		}
	}
	for w := range freq {
		freq[w] /= maxFreq
	}
	return freq
}

// ScoreSentences sums the importance of every token in each sentence. Tokens
// absent from freq contribute nothing.
func ScoreSentences(doc types.Document, freq map[string]float64) []float64 {
	out := make([]float64, len(doc.Sentences))
	for i, st := range doc.Sentences {
		for _, tok := range st.Tokens {
			lower := tok.Lower
			if lower == "" {
				lower = strings.ToLower(tok.Text)
			}
			out[i] += freq[lower]
		}
	}
	return out
}

// SelectCount is max(1, round(n*ratio)) capped at n; 0 when n is 0. Halves
// round away from zero.
func SelectCount(n int, ratio float64) int {
	if n <= 0 {
		return 0
	}
	k := int(math.Round(float64(n) * ratio))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}

// Select returns the indices of the k best scores in ascending index order.
// Equal scores keep the earlier sentence.
func Select(scores []float64, k int) []int {
	if k <= 0 || len(scores) == 0 {
		return nil
	}
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })
	if k > len(idx) {
		k = len(idx)
	}
	picked := append([]int(nil), idx[:k]...)
	sort.Ints(picked)
	return picked
}
