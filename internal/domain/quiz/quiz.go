package quiz

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/forPelevin/lecnotes/internal/ports"
	"github.com/forPelevin/lecnotes/internal/types"
)

const (
	DefaultMax = 5
	Blank      = "_____"
	numOptions = 4
)

const (
	emptyQuestion = "No quiz questions could be generated."
	errorQuestion = "Error creating quiz."
)

// DefaultFiller pads the distractor pool with generic domain terms.
var DefaultFiller = []string{"data", "model", "AI", "system", "algorithm"}

// padding is used, in order, when the pool still has fewer than three
// distractors.
var padding = []string{"None of the above", "All of the above", "Not mentioned"}

type Generator struct {
	ann    ports.Annotator
	limit  int
	rng    *rand.Rand
	filler []string
}

// New returns a quiz generator drawing from rng. The same seed and summary
// always produce the same quiz.
func New(ann ports.Annotator, limit int, rng *rand.Rand, filler []string) *Generator {
	if limit <= 0 {
		limit = DefaultMax
	}
	if len(filler) == 0 {
		filler = DefaultFiller
	}
	return &Generator{ann: ann, limit: limit, rng: rng, filler: filler}
}

// NewSeeded is New with a PCG source seeded from seed.
func NewSeeded(ann ports.Annotator, limit int, seed uint64, filler []string) *Generator {
	return New(ann, limit, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), filler)
}

// Generate always returns at least one question. On annotation failure it
// returns the error placeholder together with the error.
func (g *Generator) Generate(ctx context.Context, summary string) ([]types.QuizQuestion, error) {
	doc, err := g.ann.Annotate(ctx, summary)
	if err != nil {
		return ErrorPlaceholder(err), fmt.Errorf("annotate summary: %w", err)
	}
	qs := g.FromDocument(doc)
	if len(qs) == 0 {
		return EmptyPlaceholder(), nil
	}
	return qs, nil
}

// FromDocument blanks one noun per sentence until the limit is reached.
func (g *Generator) FromDocument(doc types.Document) []types.QuizQuestion {
	var out []types.QuizQuestion
	for _, st := range doc.Sentences {
		sentence := strings.TrimSpace(st.Text)
		if sentence == "" {
			continue
		}
		nouns := sentenceNouns(st, sentence)
		if len(nouns) == 0 {
			continue
		}

		answer := nouns[g.rng.IntN(len(nouns))]
		out = append(out, types.QuizQuestion{
			Question: blankFirst(sentence, answer),
			Options:  g.options(answer, nouns),
			Answer:   answer,
		})
		if len(out) >= g.limit {
			break
		}
	}
	return out
}

// sentenceNouns lists NOUN/PROPN token texts that occur in sentence as whole
// words.
func sentenceNouns(st types.Sentence, sentence string) []string {
	var out []string
	for _, tok := range st.Tokens {
		if tok.POS != types.POSNoun && tok.POS != types.POSProperNoun {
			continue
		}
		w := strings.TrimSpace(tok.Text)
		if w == "" || indexWord(sentence, w) < 0 {
			continue
		}
		out = append(out, w)
	}
	return out
}

// blankFirst replaces the first whole-word occurrence of word with Blank.
func blankFirst(sentence, word string) string {
	i := indexWord(sentence, word)
	if i < 0 {
		return sentence
	}
	return sentence[:i] + Blank + sentence[i+len(word):]
}

// indexWord is strings.Index restricted to matches not touching a letter or
// digit on either side.
func indexWord(s, word string) int {
	if word == "" {
		return -1
	}
	for off := 0; off < len(s); {
		i := strings.Index(s[off:], word)
		if i < 0 {
			return -1
		}
		i += off
		end := i + len(word)
		before, _ := utf8.DecodeLastRuneInString(s[:i])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return i
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		off = i + size
	}
	return -1
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// options returns the answer plus three distinct distractors, shuffled.
// Duplicates are detected case-insensitively.
func (g *Generator) options(answer string, nouns []string) []string {
	seen := map[string]struct{}{strings.ToLower(answer): {}}
	var pool []string
	add := func(v string) {
		k := strings.ToLower(v)
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		pool = append(pool, v)
	}
	for _, n := range nouns {
		add(n)
	}
	for _, f := range g.filler {
		add(f)
	}

	g.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > numOptions-1 {
		pool = pool[:numOptions-1]
	}
	for _, p := range padding {
		if len(pool) >= numOptions-1 {
			break
		}
		add(p)
	}

	opts := append([]string{answer}, pool...)
	g.rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	return opts
}

func EmptyPlaceholder() []types.QuizQuestion {
	return []types.QuizQuestion{{Question: emptyQuestion, Options: []string{}, Answer: ""}}
}

func ErrorPlaceholder(err error) []types.QuizQuestion {
	return []types.QuizQuestion{{Question: errorQuestion, Options: []string{}, Answer: err.Error()}}
}

// IsPlaceholder reports whether qs is one of the two placeholder results.
func IsPlaceholder(qs []types.QuizQuestion) bool {
	return len(qs) == 1 && (qs[0].Question == emptyQuestion || qs[0].Question == errorQuestion)
}
