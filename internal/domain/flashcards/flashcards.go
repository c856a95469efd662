package flashcards

import (
	"context"
	"fmt"
	"strings"

	"github.com/forPelevin/lecnotes/internal/ports"
	"github.com/forPelevin/lecnotes/internal/types"
)

const DefaultMax = 5

const (
	emptyQuestion = "No flashcards could be generated."
	errorQuestion = "Error creating flashcards."
)

const genericTemplate = "What is discussed in this sentence: %s?"

// templates maps an entity label to its question; labels not listed use
// genericTemplate.
var templates = map[string]string{
	types.LabelPerson:    "Who is mentioned in the context: %s?",
	types.LabelOrg:       "Who is mentioned in the context: %s?",
	types.LabelDate:      "When did the event in this sentence occur: %s?",
	types.LabelTime:      "When did the event in this sentence occur: %s?",
	types.LabelGPE:       "Where does this refer to: %s?",
	types.LabelLoc:       "Where does this refer to: %s?",
	types.LabelEvent:     "What event or concept is described here: %s?",
	types.LabelWorkOfArt: "What event or concept is described here: %s?",
}

type Generator struct {
	ann   ports.Annotator
	limit int
}

func New(ann ports.Annotator, limit int) *Generator {
	if limit <= 0 {
		limit = DefaultMax
	}
	return &Generator{ann: ann, limit: limit}
}

// Generate always returns at least one card. On annotation failure it returns
// the error placeholder together with the error.
func (g *Generator) Generate(ctx context.Context, summary string) ([]types.Flashcard, error) {
	doc, err := g.ann.Annotate(ctx, summary)
	if err != nil {
		return ErrorPlaceholder(err), fmt.Errorf("annotate summary: %w", err)
	}
	cards := FromDocument(doc, g.limit)
	if len(cards) == 0 {
		return EmptyPlaceholder(), nil
	}
	return cards, nil
}

// FromDocument emits one card per named entity, in sentence order, until limit
// cards exist. Entities whose text is not found verbatim in their sentence
// are skipped.
func FromDocument(doc types.Document, limit int) []types.Flashcard {
	var out []types.Flashcard
	for _, st := range doc.Sentences {
		if len(out) >= limit {
			break
		}
		sentence := strings.TrimSpace(st.Text)
		for _, ent := range st.Entities {
			answer := strings.TrimSpace(ent.Text)
			if answer == "" || !strings.Contains(sentence, answer) {
				continue
			}
			out = append(out, types.Flashcard{
				Question: fmt.Sprintf(templateFor(ent.Label), sentence),
				Answer:   answer,
			})
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

func templateFor(label string) string {
	if t, ok := templates[strings.ToUpper(label)]; ok {
		return t
	}
	return genericTemplate
}

func EmptyPlaceholder() []types.Flashcard {
	return []types.Flashcard{{Question: emptyQuestion, Answer: ""}}
}

func ErrorPlaceholder(err error) []types.Flashcard {
	return []types.Flashcard{{Question: errorQuestion, Answer: err.Error()}}
}

// IsPlaceholder reports whether cards is one of the two placeholder results.
func IsPlaceholder(cards []types.Flashcard) bool {
	return len(cards) == 1 && (cards[0].Question == emptyQuestion || cards[0].Question == errorQuestion)
}
