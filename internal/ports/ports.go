package ports

import (
	"context"

	"github.com/forPelevin/lecnotes/internal/types"
)

type AudioExtractor interface {
	ExtractAudioMono16k(ctx context.Context, inVideo, outWav string) error
}

type ASR interface {
	Transcribe(ctx context.Context, wavPath, workDir string) (types.ASRTranscript, error)
}

// Annotator segments text into sentences and tags tokens and entities.
type Annotator interface {
	Annotate(ctx context.Context, text string) (types.Document, error)
}
