// Package studysheet renders a processed lecture as a Word document.
package studysheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/forPelevin/lecnotes/internal/types"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

type Sheet struct {
	Title      string
	Summary    string
	Notes      string
	Flashcards []types.Flashcard
	Quiz       []types.QuizQuestion
}

// Write saves the sheet to path, creating parent directories.
func Write(path string, s Sheet) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new docx: %w", err)
	}

	addRun(doc.AddParagraph(""), s.Title, true, 16)

	heading(doc, "Summary")
	for _, line := range paragraphs(s.Summary) {
		addRun(doc.AddParagraph(""), line, false, fontSize)
	}

	heading(doc, "Study Notes")
	for _, line := range paragraphs(s.Notes) {
		addRun(doc.AddParagraph(""), strings.Replace(line, "- ", "• ", 1), false, fontSize)
	}

	heading(doc, "Flashcards")
	for i, fc := range s.Flashcards {
		p := doc.AddParagraph("")
		addRun(p, fmt.Sprintf("%d. %s", i+1, fc.Question), true, fontSize)
		if fc.Answer != "" {
			addRun(doc.AddParagraph(""), "Answer: "+fc.Answer, false, fontSize)
		}
	}

	heading(doc, "Quiz")
	for i, q := range s.Quiz {
		addRun(doc.AddParagraph(""), fmt.Sprintf("%d. %s", i+1, q.Question), true, fontSize)
		for j, opt := range q.Options {
			addRun(doc.AddParagraph(""), fmt.Sprintf("   %c) %s", 'a'+rune(j), opt), false, fontSize)
		}
		if q.Answer != "" {
			addRun(doc.AddParagraph(""), "Answer: "+q.Answer, false, fontSize)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("save docx %s: %w", path, err)
	}
	return nil
}

func heading(doc *docx.RootDoc, title string) {
	doc.AddParagraph("")
	addRun(doc.AddParagraph(""), title, true, 15)
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func paragraphs(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
