package types

import (
	"strings"
	"time"
)

// ASRTranscript is the segment form returned by whisper.cpp (-oj).
type ASRTranscript struct {
	Segments []Segment `json:"segments"`
}

// Text joins the non-empty segment texts with single spaces.
func (t ASRTranscript) Text() string {
	parts := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		if txt := strings.TrimSpace(s.Text); txt != "" {
			parts = append(parts, txt)
		}
	}
	return strings.Join(parts, " ")
}

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Universal part-of-speech tags used across annotators.
const (
	POSNoun       = "NOUN"
	POSProperNoun = "PROPN"
	POSVerb       = "VERB"
	POSAdj        = "ADJ"
	POSAdv        = "ADV"
	POSPron       = "PRON"
	POSDet        = "DET"
	POSAdp        = "ADP"
	POSNum        = "NUM"
	POSPunct      = "PUNCT"
	POSOther      = "X"
)

// Entity labels understood by the flashcard templates.
const (
	LabelPerson    = "PERSON"
	LabelOrg       = "ORG"
	LabelDate      = "DATE"
	LabelTime      = "TIME"
	LabelGPE       = "GPE"
	LabelLoc       = "LOC"
	LabelEvent     = "EVENT"
	LabelWorkOfArt = "WORK_OF_ART"
)

type Token struct {
	Text        string
	Lower       string
	POS         string
	IsAlpha     bool
	EntityLabel string
}

type Entity struct {
	Text  string
	Label string
}

type Sentence struct {
	Text     string
	Start    int
	End      int
	Tokens   []Token
	Entities []Entity
}

type Document struct {
	Text      string
	Sentences []Sentence
}

type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Record is what the store keeps per source video.
type Record struct {
	Video          string         `json:"video"`
	TranscriptPath string         `json:"transcript_path"`
	SummaryPath    string         `json:"summary_path"`
	Notes          string         `json:"notes"`
	Flashcards     []Flashcard    `json:"flashcards"`
	Quiz           []QuizQuestion `json:"quiz"`

	RunID     string    `json:"run_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
