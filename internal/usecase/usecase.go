package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/forPelevin/lecnotes/internal/domain/flashcards"
	"github.com/forPelevin/lecnotes/internal/domain/notes"
	"github.com/forPelevin/lecnotes/internal/domain/quiz"
	"github.com/forPelevin/lecnotes/internal/domain/summary"
	"github.com/forPelevin/lecnotes/internal/logger"
	"github.com/forPelevin/lecnotes/internal/ports"
	"github.com/forPelevin/lecnotes/internal/types"
)

// TranscriptionFailed replaces the transcript when speech recognition fails.
const TranscriptionFailed = "Transcription failed. Please check the audio file."

type Deps struct {
	Audio     ports.AudioExtractor
	ASR       ports.ASR
	Annotator ports.Annotator
	Logger    logger.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Logger == nil {
		d.Logger = logger.Discard()
	}
	return Usecase{d: d}
}

type Input struct {
	Video   string
	WorkDir string

	Ratio         float64
	MaxFlashcards int
	MaxQuestions  int
	Seed          uint64
	Filler        []string
}

type Result struct {
	Transcript string
	Summary    string
	Notes      string
	Flashcards []types.Flashcard
	Quiz       []types.QuizQuestion
}

// Run extracts audio, transcribes it and derives the study material. Only a
// failed audio extraction is returned as an error; every later stage degrades
// to a placeholder and a warning.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	log := u.d.Logger

	wav := filepath.Join(in.WorkDir, "audio.wav")
	log.Info(ctx, "extracting audio: %s", in.Video)
	if err := u.d.Audio.ExtractAudioMono16k(ctx, in.Video, wav); err != nil {
		return Result{}, fmt.Errorf("extract audio: %w", err)
	}

	var res Result
	log.Info(ctx, "transcribing: %s", wav)
	err := safely(func() error {
		tr, err := u.d.ASR.Transcribe(ctx, wav, in.WorkDir)
		if err != nil {
			return err
		}
		res.Transcript = tr.Text()
		return nil
	})
	if err != nil {
		log.Warn(ctx, "transcription failed: %v", err)
		res.Transcript = TranscriptionFailed
	}

	log.Info(ctx, "summarizing %d characters", len(res.Transcript))
	err = safely(func() error {
		var err error
		res.Summary, err = summary.New(u.d.Annotator, in.Ratio).Summarize(ctx, res.Transcript)
		return err
	})
	if err != nil {
		log.Warn(ctx, "summary degraded to transcript excerpt: %v", err)
		res.Summary = summary.Fallback(res.Transcript)
	}

	err = safely(func() error {
		res.Notes = notes.Format(res.Summary)
		return nil
	})
	if err != nil {
		log.Warn(ctx, "notes failed: %v", err)
		res.Notes = notes.ErrorText
	}

	err = safely(func() error {
		var err error
		res.Flashcards, err = flashcards.New(u.d.Annotator, in.MaxFlashcards).Generate(ctx, res.Summary)
		return err
	})
	if err != nil {
		log.Warn(ctx, "flashcards failed: %v", err)
		res.Flashcards = flashcards.ErrorPlaceholder(err)
	}

	err = safely(func() error {
		var err error
		res.Quiz, err = quiz.NewSeeded(u.d.Annotator, in.MaxQuestions, in.Seed, in.Filler).Generate(ctx, res.Summary)
		return err
	})
	if err != nil {
		log.Warn(ctx, "quiz failed: %v", err)
		res.Quiz = quiz.ErrorPlaceholder(err)
	}

	log.Info(ctx, "generated %d flashcards, %d quiz questions", len(res.Flashcards), len(res.Quiz))
	return res, nil
}

// safely runs fn and turns a panic into an error.
func safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
