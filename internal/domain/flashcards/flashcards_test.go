package flashcards

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/forPelevin/lecnotes/internal/ports/portstest"
	"github.com/forPelevin/lecnotes/internal/types"
)

func lectureAnnotator() portstest.Annotator {
	return portstest.Annotator{Entities: map[string]string{
		"Alan Turing": types.LabelPerson,
		"1936":        types.LabelDate,
		"Cambridge":   types.LabelGPE,
		"World War":   types.LabelEvent,
		"Enigma":      "PRODUCT",
		"Bletchley":   types.LabelLoc,
		"Princeton":   types.LabelOrg,
	}}
}

func TestGenerate_TemplatesByLabel(t *testing.T) {
	summary := "Alan Turing studied at Cambridge. He published in 1936. The World War changed Enigma research."
	g := New(lectureAnnotator(), 10)

	cards, err := g.Generate(context.Background(), summary)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := []types.Flashcard{
		{Question: "Who is mentioned in the context: Alan Turing studied at Cambridge.?", Answer: "Alan Turing"},
		{Question: "Where does this refer to: Alan Turing studied at Cambridge.?", Answer: "Cambridge"},
		{Question: "When did the event in this sentence occur: He published in 1936.?", Answer: "1936"},
		{Question: "What event or concept is described here: The World War changed Enigma research.?", Answer: "World War"},
		{Question: "What is discussed in this sentence: The World War changed Enigma research.?", Answer: "Enigma"},
	}
	if !reflect.DeepEqual(cards, want) {
		t.Fatalf("unexpected cards:\n got %#v\nwant %#v", cards, want)
	}
}

func TestGenerate_CapCheckedAfterEachCard(t *testing.T) {
	summary := "Alan Turing left Cambridge for Princeton. Bletchley hosted Alan Turing."
	g := New(lectureAnnotator(), 2)

	cards, err := g.Generate(context.Background(), summary)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].Answer != "Alan Turing" || cards[1].Answer != "Cambridge" {
		t.Fatalf("unexpected answers: %q, %q", cards[0].Answer, cards[1].Answer)
	}
}

func TestGenerate_SkipsSentencesWithoutEntities(t *testing.T) {
	summary := "Nothing here. Nor here. Still nothing. Quiet line. Another one. Then Alan Turing appears."
	g := New(lectureAnnotator(), 5)

	cards, err := g.Generate(context.Background(), summary)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(cards) != 1 || cards[0].Answer != "Alan Turing" {
		t.Fatalf("expected the entity from the sixth sentence, got %#v", cards)
	}
}

func TestGenerate_AnswersComeFromSummary(t *testing.T) {
	summary := "Alan Turing studied at Cambridge. He published in 1936. Bletchley was secret."
	cards, _ := New(lectureAnnotator(), 5).Generate(context.Background(), summary)
	for _, c := range cards {
		if !strings.Contains(summary, c.Answer) {
			t.Fatalf("answer %q not found in summary", c.Answer)
		}
	}
}

func TestGenerate_Placeholders(t *testing.T) {
	empty, err := New(lectureAnnotator(), 5).Generate(context.Background(), "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !IsPlaceholder(empty) || empty[0].Question != "No flashcards could be generated." {
		t.Fatalf("expected empty placeholder, got %#v", empty)
	}

	failed, err := New(portstest.Annotator{Err: errors.New("ner offline")}, 5).Generate(context.Background(), "Alan Turing.")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsPlaceholder(failed) || failed[0].Question != "Error creating flashcards." || failed[0].Answer != "ner offline" {
		t.Fatalf("expected error placeholder, got %#v", failed)
	}
	if empty[0].Question == failed[0].Question {
		t.Fatalf("placeholders must differ")
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	summary := "Alan Turing studied at Cambridge. He published in 1936."
	g := New(lectureAnnotator(), 5)
	a, _ := g.Generate(context.Background(), summary)
	b, _ := g.Generate(context.Background(), summary)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical output")
	}
}

func TestFromDocument_SkipsEntitiesNotInSentence(t *testing.T) {
	doc := types.Document{Sentences: []types.Sentence{{
		Text:     "The U.S. economy grew.",
		Entities: []types.Entity{{Text: "U.S .", Label: types.LabelGPE}, {Text: "economy", Label: "NORP"}},
	}}}
	cards := FromDocument(doc, 5)
	if len(cards) != 1 || cards[0].Answer != "economy" {
		t.Fatalf("unexpected cards: %#v", cards)
	}
}
