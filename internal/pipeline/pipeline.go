package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/forPelevin/lecnotes/internal/config"
	"github.com/forPelevin/lecnotes/internal/executor"
	"github.com/forPelevin/lecnotes/internal/logger"
	"github.com/forPelevin/lecnotes/internal/ports"
	"github.com/forPelevin/lecnotes/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/lecnotes/internal/ports/adapters/prosenlp"
	"github.com/forPelevin/lecnotes/internal/ports/adapters/spacy"
	"github.com/forPelevin/lecnotes/internal/ports/adapters/whispercpp"
	"github.com/forPelevin/lecnotes/internal/store"
	"github.com/forPelevin/lecnotes/internal/studysheet"
	"github.com/forPelevin/lecnotes/internal/types"
	"github.com/forPelevin/lecnotes/internal/usecase"
)

// Pipeline processes one video at a time and persists the result.
type Pipeline struct {
	cfg   *config.Config
	log   logger.Logger
	store *store.Store
	uc    usecase.Usecase
	now   func() time.Time
}

// New wires the external tools named in cfg.
func New(cfg *config.Config, log logger.Logger, st *store.Store) *Pipeline {
	exec := executor.New()
	return NewWithDeps(cfg, usecase.Deps{
		Audio:     ffmpeg.New(cfg.FFmpeg.BinaryPath, exec),
		ASR:       whispercpp.New(cfg.Whisper.BinaryPath, cfg.Whisper.ModelPath, cfg.Whisper.Language, cfg.Whisper.Threads, exec),
		Annotator: NewAnnotator(cfg.Annotator, exec),
		Logger:    log,
	}, st)
}

func NewWithDeps(cfg *config.Config, d usecase.Deps, st *store.Store) *Pipeline {
	if d.Logger == nil {
		d.Logger = logger.Discard()
	}
	return &Pipeline{
		cfg:   cfg,
		log:   d.Logger,
		store: st,
		uc:    usecase.New(d),
		now:   time.Now,
	}
}

// NewAnnotator returns the annotator selected by cfg.Engine.
func NewAnnotator(cfg config.AnnotatorConfig, exec executor.Executor) ports.Annotator {
	if cfg.Engine == config.EngineSpacy {
		return spacy.New(cfg.Python, cfg.Model, exec)
	}
	return prosenlp.New()
}

// Process runs the full chain for video and stores the record under the
// video's base name.
func (p *Pipeline) Process(ctx context.Context, video string) (types.Record, error) {
	if _, err := os.Stat(video); err != nil {
		return types.Record{}, fmt.Errorf("input video: %w", err)
	}
	name := filepath.Base(video)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	paths := p.cfg.Paths

	for _, dir := range []string{paths.Uploads, paths.Transcripts, paths.Summaries} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return types.Record{}, err
		}
	}
	stored, err := importUpload(video, paths.Uploads)
	if err != nil {
		return types.Record{}, fmt.Errorf("import upload: %w", err)
	}
	if stored != video {
		p.log.Info(ctx, "copied upload to %s", stored)
	}

	workDir := filepath.Join(paths.Cache, "runs", hash(stored))
	p.log.Debug(ctx, "preparing workspace: %s", workDir)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return types.Record{}, err
	}

	gen := p.cfg.Generation
	seed := gen.Seed
	if seed == 0 {
		seed = uint64(p.now().UnixNano())
	}
	res, err := p.uc.Run(ctx, usecase.Input{
		Video:         stored,
		WorkDir:       workDir,
		Ratio:         gen.Ratio,
		MaxFlashcards: gen.MaxFlashcards,
		MaxQuestions:  gen.MaxQuestions,
		Seed:          seed,
		Filler:        gen.Filler,
	})
	if err != nil {
		return types.Record{}, err
	}

	transcriptPath := filepath.Join(paths.Transcripts, stem+"_transcript.txt")
	if err := os.WriteFile(transcriptPath, []byte(res.Transcript), 0o644); err != nil {
		return types.Record{}, fmt.Errorf("write transcript: %w", err)
	}
	p.log.Info(ctx, "transcript written: %s", transcriptPath)

	summaryPath := filepath.Join(paths.Summaries, stem+"_summary.txt")
	if err := os.WriteFile(summaryPath, []byte(res.Summary), 0o644); err != nil {
		return types.Record{}, fmt.Errorf("write summary: %w", err)
	}
	p.log.Info(ctx, "summary written: %s", summaryPath)

	rec := types.Record{
		Video:          name,
		TranscriptPath: transcriptPath,
		SummaryPath:    summaryPath,
		Notes:          res.Notes,
		Flashcards:     res.Flashcards,
		Quiz:           res.Quiz,
		RunID:          uuid.NewString(),
		CreatedAt:      p.now().UTC(),
	}
	if p.store != nil {
		if err := p.store.Put(rec); err != nil {
			return types.Record{}, fmt.Errorf("save record: %w", err)
		}
		p.log.Info(ctx, "record saved: %s", name)
	}

	if p.cfg.Export.Docx {
		docPath := filepath.Join(paths.Exports, stem+"_study.docx")
		err := studysheet.Write(docPath, studysheet.Sheet{
			Title:      stem,
			Summary:    res.Summary,
			Notes:      res.Notes,
			Flashcards: res.Flashcards,
			Quiz:       res.Quiz,
		})
		if err != nil {
			// The record is already stored; the sheet is an optional extra.
			p.log.Warn(ctx, "study sheet not written: %v", err)
			return rec, nil
		}
		p.log.Info(ctx, "study sheet written: %s", docPath)
	}
	return rec, nil
}

// importUpload copies video into dir unless it already lives there and
// returns the path to process.
func importUpload(video, dir string) (string, error) {
	dst := filepath.Join(dir, filepath.Base(video))
	same, err := samePath(video, dst)
	if err != nil || same {
		return dst, err
	}

	in, err := os.Open(video)
	if err != nil {
		return "", err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", err
	}
	return dst, out.Close()
}

func samePath(a, b string) (bool, error) {
	sa, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	sb, err := os.Stat(b)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return os.SameFile(sa, sb), nil
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.AudioExtractor = (*ffmpeg.Adapter)(nil)
var _ ports.ASR = (*whispercpp.Adapter)(nil)
var _ ports.Annotator = (*prosenlp.Adapter)(nil)
var _ ports.Annotator = (*spacy.Adapter)(nil)
