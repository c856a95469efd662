package spacy

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/forPelevin/lecnotes/internal/executor"
	"github.com/forPelevin/lecnotes/internal/types"
)

//go:embed scripts/annotate.py
var annotateScript string

// Adapter runs spaCy in a python subprocess, one process per call.
type Adapter struct {
	python string
	model  string
	exec   executor.Executor
}

func New(python, model string, exec executor.Executor) *Adapter {
	if python == "" {
		python = "python3"
	}
	if model == "" {
		model = "en_core_web_sm"
	}
	return &Adapter{python: python, model: model, exec: exec}
}

func (a *Adapter) Annotate(ctx context.Context, s string) (types.Document, error) {
	if strings.TrimSpace(s) == "" {
		return types.Document{Text: s}, nil
	}
	dir, err := os.MkdirTemp("", "lecnotes-spacy-*")
	if err != nil {
		return types.Document{}, fmt.Errorf("spacy temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	script := filepath.Join(dir, "annotate.py")
	input := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(script, []byte(annotateScript), 0o600); err != nil {
		return types.Document{}, err
	}
	if err := os.WriteFile(input, []byte(s), 0o600); err != nil {
		return types.Document{}, err
	}

	out, err := a.exec.Execute(ctx, a.python, script, "--model", a.model, "--in", input)
	if err != nil {
		return types.Document{}, fmt.Errorf("spacy annotate: %w", err)
	}
	return decode(s, []byte(out))
}

type rawDoc struct {
	Sentences []struct {
		Text   string `json:"text"`
		Start  int    `json:"start"`
		End    int    `json:"end"`
		Tokens []struct {
			Text    string `json:"text"`
			Lower   string `json:"lower"`
			POS     string `json:"pos"`
			IsAlpha bool   `json:"is_alpha"`
			EntType string `json:"ent_type"`
		} `json:"tokens"`
		Entities []types.Entity `json:"entities"`
	} `json:"sentences"`
}

// decode converts the helper's output. spaCy offsets count code points; they
// are turned into byte offsets of s.
func decode(s string, b []byte) (types.Document, error) {
	var raw rawDoc
	if err := json.Unmarshal(b, &raw); err != nil {
		return types.Document{}, fmt.Errorf("parse spacy output: %w", err)
	}
	byteAt := runeOffsets(s)
	doc := types.Document{Text: s}
	for _, rs := range raw.Sentences {
		st := types.Sentence{
			Text:     rs.Text,
			Start:    offset(byteAt, rs.Start),
			End:      offset(byteAt, rs.End),
			Entities: rs.Entities,
		}
		for _, rt := range rs.Tokens {
			lower := rt.Lower
			if lower == "" {
				lower = strings.ToLower(rt.Text)
			}
			st.Tokens = append(st.Tokens, types.Token{
				Text:        rt.Text,
				Lower:       lower,
				POS:         strings.ToUpper(rt.POS),
				IsAlpha:     rt.IsAlpha,
				EntityLabel: rt.EntType,
			})
		}
		doc.Sentences = append(doc.Sentences, st)
	}
	return doc, nil
}

func runeOffsets(s string) []int {
	out := make([]int, 0, len(s)+1)
	for i := range s {
		out = append(out, i)
	}
	return append(out, len(s))
}

func offset(byteAt []int, runeIdx int) int {
	if runeIdx < 0 {
		return 0
	}
	if runeIdx >= len(byteAt) {
		return byteAt[len(byteAt)-1]
	}
	return byteAt[runeIdx]
}
