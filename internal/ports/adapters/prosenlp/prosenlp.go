package prosenlp

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"

	"github.com/forPelevin/lecnotes/internal/domain/text"
	"github.com/forPelevin/lecnotes/internal/types"
)

// Adapter annotates in-process with prose's English models. The tagger and
// entity models are loaded once per Annotate call and reused for every
// sentence of that call; nothing is shared between calls.
type Adapter struct{}

func New() *Adapter { return &Adapter{} }

func (a *Adapter) Annotate(ctx context.Context, s string) (types.Document, error) {
	doc := types.Document{Text: s}
	if strings.TrimSpace(s) == "" {
		return doc, nil
	}
	seg, err := prose.NewDocument(s,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return types.Document{}, fmt.Errorf("prose segment: %w", err)
	}

	var model *prose.Model
	cursor := 0
	for _, ps := range seg.Sentences() {
		if err := ctx.Err(); err != nil {
			return types.Document{}, err
		}
		st := strings.TrimSpace(ps.Text)
		if st == "" {
			continue
		}
		start := cursor
		if i := strings.Index(s[cursor:], st); i >= 0 {
			start = cursor + i
			cursor = start + len(st)
		}

		opts := []prose.DocOpt{prose.WithSegmentation(false)}
		if model != nil {
			opts = append(opts, prose.UsingModel(model))
		}
		sd, err := prose.NewDocument(st, opts...)
		if err != nil {
			return types.Document{}, fmt.Errorf("prose annotate sentence: %w", err)
		}
		model = sd.Model
		doc.Sentences = append(doc.Sentences, types.Sentence{
			Text:     st,
			Start:    start,
			End:      start + len(st),
			Tokens:   convertTokens(sd.Tokens()),
			Entities: convertEntities(sd.Entities()),
		})
	}
	return doc, nil
}

func convertTokens(in []prose.Token) []types.Token {
	out := make([]types.Token, 0, len(in))
	for _, t := range in {
		out = append(out, types.Token{
			Text:        t.Text,
			Lower:       strings.ToLower(t.Text),
			POS:         UniversalPOS(t.Tag),
			IsAlpha:     text.IsAlpha(t.Text),
			EntityLabel: iobLabel(t.Label),
		})
	}
	return out
}

func convertEntities(in []prose.Entity) []types.Entity {
	out := make([]types.Entity, 0, len(in))
	for _, e := range in {
		out = append(out, types.Entity{Text: e.Text, Label: EntityLabel(e.Label)})
	}
	return out
}

// UniversalPOS maps a Penn Treebank tag onto the universal tag set.
func UniversalPOS(tag string) string {
	switch {
	case tag == "NN" || tag == "NNS":
		return types.POSNoun
	case tag == "NNP" || tag == "NNPS":
		return types.POSProperNoun
	case strings.HasPrefix(tag, "VB") || tag == "MD":
		return types.POSVerb
	case strings.HasPrefix(tag, "JJ"):
		return types.POSAdj
	case strings.HasPrefix(tag, "RB") || tag == "WRB":
		return types.POSAdv
	case tag == "PRP" || tag == "PRP$" || tag == "WP" || tag == "WP$":
		return types.POSPron
	case tag == "DT" || tag == "PDT" || tag == "WDT":
		return types.POSDet
	case tag == "IN" || tag == "TO":
		return types.POSAdp
	case tag == "CD":
		return types.POSNum
	case strings.ContainsAny(tag, ".,:()`'#$") || tag == "-LRB-" || tag == "-RRB-":
		return types.POSPunct
	default:
		return types.POSOther
	}
}

// EntityLabel folds the long label spellings onto the short ones.
func EntityLabel(label string) string {
	l := strings.ToUpper(strings.TrimSpace(label))
	switch l {
	case "ORGANIZATION":
		return types.LabelOrg
	case "LOCATION":
		return types.LabelLoc
	default:
		return l
	}
}

func iobLabel(label string) string {
	if label == "" || label == "O" {
		return ""
	}
	if i := strings.IndexByte(label, '-'); i >= 0 {
		label = label[i+1:]
	}
	return EntityLabel(label)
}
