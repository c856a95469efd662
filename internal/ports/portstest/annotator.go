// Package portstest holds deterministic fakes for the ports, shared by tests.
package portstest

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/forPelevin/lecnotes/internal/domain/text"
	"github.com/forPelevin/lecnotes/internal/types"
)

var reToken = regexp.MustCompile(`[\p{L}\p{N}']+|[^\s\p{L}\p{N}]`)

// Annotator splits sentences with text.SplitSentences and tags tokens from
// fixed tables. Words missing from Tags get POS "X".
type Annotator struct {
	Tags     map[string]string // lowercase word -> POS
	Entities map[string]string // surface text -> label
	Err      error
	Panic    bool
}

func (a Annotator) Annotate(_ context.Context, s string) (types.Document, error) {
	if a.Panic {
		panic("fake annotator panic")
	}
	if a.Err != nil {
		return types.Document{}, a.Err
	}
	norm := text.Normalize(s)
	doc := types.Document{Text: norm}
	cursor := 0
	for _, st := range text.SplitSentences(norm) {
		start := strings.Index(norm[cursor:], st) + cursor
		end := start + len(st)
		cursor = end
		doc.Sentences = append(doc.Sentences, types.Sentence{
			Text:     st,
			Start:    start,
			End:      end,
			Tokens:   a.tokens(st),
			Entities: a.entities(st),
		})
	}
	return doc, nil
}

func (a Annotator) tokens(s string) []types.Token {
	var out []types.Token
	for _, w := range reToken.FindAllString(s, -1) {
		lower := strings.ToLower(w)
		pos, ok := a.Tags[lower]
		if !ok {
			pos = types.POSOther
			if !text.IsAlpha(w) && len(w) == 1 {
				pos = types.POSPunct
			}
		}
		out = append(out, types.Token{
			Text:    w,
			Lower:   lower,
			POS:     pos,
			IsAlpha: text.IsAlpha(w),
		})
	}
	return out
}

func (a Annotator) entities(s string) []types.Entity {
	type hit struct {
		at  int
		ent types.Entity
	}
	var hits []hit
	for surface, label := range a.Entities {
		if i := strings.Index(s, surface); i >= 0 {
			hits = append(hits, hit{at: i, ent: types.Entity{Text: surface, Label: label}})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].at == hits[j].at {
			return hits[i].ent.Text < hits[j].ent.Text
		}
		return hits[i].at < hits[j].at
	})
	out := make([]types.Entity, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.ent)
	}
	return out
}
