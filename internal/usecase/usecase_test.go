package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forPelevin/lecnotes/internal/domain/flashcards"
	"github.com/forPelevin/lecnotes/internal/domain/notes"
	"github.com/forPelevin/lecnotes/internal/domain/quiz"
	"github.com/forPelevin/lecnotes/internal/ports/portstest"
	"github.com/forPelevin/lecnotes/internal/types"
)

const lecture = "AI helps students. Teachers save time. Students learn faster. AI is popular."

var lectureTags = map[string]string{
	"ai":       types.POSProperNoun,
	"students": types.POSNoun,
	"teachers": types.POSNoun,
	"time":     types.POSNoun,
}

func TestRun_ProducesStudyMaterial(t *testing.T) {
	t.Parallel()

	audio := &fakeAudio{}
	uc := New(Deps{
		Audio:     audio,
		ASR:       fakeASR{tr: segments("AI helps students.", " Teachers save time. ", "Students learn faster.", "AI is popular.")},
		Annotator: portstest.Annotator{Tags: lectureTags, Entities: map[string]string{"AI": types.LabelOrg}},
	})

	workDir := t.TempDir()
	res, err := uc.Run(context.Background(), Input{
		Video:   "/videos/lec1.mp4",
		WorkDir: workDir,
		Ratio:   0.5,
		Seed:    42,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if audio.in != "/videos/lec1.mp4" || audio.out != filepath.Join(workDir, "audio.wav") {
		t.Fatalf("unexpected extraction paths: %q -> %q", audio.in, audio.out)
	}
	if res.Transcript != lecture {
		t.Fatalf("transcript = %q", res.Transcript)
	}
	if res.Summary != "AI helps students. Students learn faster." {
		t.Fatalf("summary = %q", res.Summary)
	}
	if res.Notes != "- AI helps students.\n- Students learn faster." {
		t.Fatalf("notes = %q", res.Notes)
	}
	if flashcards.IsPlaceholder(res.Flashcards) || res.Flashcards[0].Answer != "AI" {
		t.Fatalf("unexpected flashcards: %+v", res.Flashcards)
	}
	if quiz.IsPlaceholder(res.Quiz) || len(res.Quiz) != 2 {
		t.Fatalf("unexpected quiz: %+v", res.Quiz)
	}
	for _, q := range res.Quiz {
		if len(q.Options) != 4 || !contains(q.Options, q.Answer) || !strings.Contains(q.Question, quiz.Blank) {
			t.Fatalf("malformed question: %+v", q)
		}
	}
}

func TestRun_AudioFailureHalts(t *testing.T) {
	t.Parallel()

	asr := &countingASR{}
	uc := New(Deps{
		Audio:     &fakeAudio{err: errors.New("no audio stream")},
		ASR:       asr,
		Annotator: portstest.Annotator{},
	})
	_, err := uc.Run(context.Background(), Input{Video: "broken.mp4", WorkDir: t.TempDir()})
	if err == nil || !strings.Contains(err.Error(), "no audio stream") {
		t.Fatalf("expected extraction error, got %v", err)
	}
	if asr.calls != 0 {
		t.Fatalf("transcription should not run after extraction failure")
	}
}

func TestRun_TranscriptionFailureDegrades(t *testing.T) {
	t.Parallel()

	uc := New(Deps{
		Audio:     &fakeAudio{},
		ASR:       fakeASR{err: errors.New("model not found")},
		Annotator: portstest.Annotator{},
	})
	res, err := uc.Run(context.Background(), Input{Video: "lec.mp4", WorkDir: t.TempDir()})
	if err != nil {
		t.Fatalf("transcription failure must not propagate: %v", err)
	}
	if res.Transcript != TranscriptionFailed {
		t.Fatalf("transcript = %q", res.Transcript)
	}
	if res.Summary == "" {
		t.Fatalf("expected a summary of the failure message")
	}
}

func TestRun_StageFailuresDegrade(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		ann  portstest.Annotator
	}{
		{name: "annotator error", ann: portstest.Annotator{Err: errors.New("model missing")}},
		{name: "annotator panic", ann: portstest.Annotator{Panic: true}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			uc := New(Deps{
				Audio:     &fakeAudio{},
				ASR:       fakeASR{tr: segments(lecture)},
				Annotator: tc.ann,
			})
			res, err := uc.Run(context.Background(), Input{Video: "lec.mp4", WorkDir: t.TempDir()})
			if err != nil {
				t.Fatalf("stage failures must not propagate: %v", err)
			}
			if res.Summary != lecture {
				t.Fatalf("summary should fall back to the transcript head, got %q", res.Summary)
			}
			if !strings.HasPrefix(res.Notes, notes.Bullet) {
				t.Fatalf("notes should still be formatted: %q", res.Notes)
			}
			if len(res.Flashcards) != 1 || res.Flashcards[0].Question != "Error creating flashcards." || res.Flashcards[0].Answer == "" {
				t.Fatalf("expected flashcard error placeholder, got %+v", res.Flashcards)
			}
			if len(res.Quiz) != 1 || res.Quiz[0].Question != "Error creating quiz." || len(res.Quiz[0].Options) != 0 {
				t.Fatalf("expected quiz error placeholder, got %+v", res.Quiz)
			}
		})
	}
}

func TestRun_EmptyTranscript(t *testing.T) {
	t.Parallel()

	uc := New(Deps{
		Audio:     &fakeAudio{},
		ASR:       fakeASR{},
		Annotator: portstest.Annotator{},
	})
	res, err := uc.Run(context.Background(), Input{Video: "silent.mp4", WorkDir: t.TempDir()})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Transcript != "" || res.Summary != "" || res.Notes != "" {
		t.Fatalf("expected empty text outputs, got %+v", res)
	}
	if len(res.Flashcards) != 1 || res.Flashcards[0].Question != "No flashcards could be generated." {
		t.Fatalf("expected empty flashcard placeholder, got %+v", res.Flashcards)
	}
	if len(res.Quiz) != 1 || res.Quiz[0].Question != "No quiz questions could be generated." {
		t.Fatalf("expected empty quiz placeholder, got %+v", res.Quiz)
	}
}

func TestSafely(t *testing.T) {
	err := safely(func() error { panic("boom") })
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected recovered panic, got %v", err)
	}
	want := errors.New("plain")
	if err := safely(func() error { return want }); !errors.Is(err, want) {
		t.Fatalf("expected passthrough error, got %v", err)
	}
}

func segments(texts ...string) types.ASRTranscript {
	var tr types.ASRTranscript
	for i, s := range texts {
		tr.Segments = append(tr.Segments, types.Segment{Start: float64(i) * 2, End: float64(i)*2 + 2, Text: s})
	}
	return tr
}

func contains(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

type fakeAudio struct {
	in, out string
	err     error
}

func (f *fakeAudio) ExtractAudioMono16k(_ context.Context, in, out string) error {
	f.in, f.out = in, out
	return f.err
}

type fakeASR struct {
	tr  types.ASRTranscript
	err error
}

func (f fakeASR) Transcribe(_ context.Context, _, _ string) (types.ASRTranscript, error) {
	return f.tr, f.err
}

type countingASR struct{ calls int }

func (c *countingASR) Transcribe(_ context.Context, _, _ string) (types.ASRTranscript, error) {
	c.calls++
	return types.ASRTranscript{}, nil
}
