package ffmpeg

import (
	"context"
	"fmt"

	"github.com/forPelevin/lecnotes/internal/executor"
)

type Adapter struct {
	ffmpeg string
	exec   executor.Executor
}

func New(ffmpegPath string, exec executor.Executor) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Adapter{ffmpeg: ffmpegPath, exec: exec}
}

// ExtractAudioMono16k writes a mono 16 kHz PCM WAV, the input whisper expects.
func (a *Adapter) ExtractAudioMono16k(ctx context.Context, inVideo, outWav string) error {
	_, err := a.exec.Execute(ctx, a.ffmpeg,
		"-y",
		"-i", inVideo,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		"-f", "wav",
		outWav,
	)
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w", err)
	}
	return nil
}
