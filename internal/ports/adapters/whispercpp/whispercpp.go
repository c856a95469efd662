package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/forPelevin/lecnotes/internal/executor"
	"github.com/forPelevin/lecnotes/internal/types"
)

type Adapter struct {
	bin      string
	model    string
	language string
	threads  int
	exec     executor.Executor
}

func New(binPath, modelPath, language string, threads int, exec executor.Executor) *Adapter {
	return &Adapter{bin: binPath, model: modelPath, language: language, threads: threads, exec: exec}
}

func (a *Adapter) Transcribe(ctx context.Context, wavPath, workDir string) (types.ASRTranscript, error) {
	outPrefix := filepath.Join(workDir, "whisper")
	args := []string{
		"-m", a.model,
		"-f", wavPath,
		"-oj",
		"-of", outPrefix,
	}
	if a.language != "" {
		args = append(args, "-l", a.language)
	}
	if a.threads > 0 {
		args = append(args, "-t", strconv.Itoa(a.threads))
	}
	if _, err := a.exec.Execute(ctx, a.bin, args...); err != nil {
		return types.ASRTranscript{}, fmt.Errorf("whisper.cpp failed: %w", err)
	}

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return types.ASRTranscript{}, err
	}
	return parseJSON(jb)
}

// whisper.cpp -oj writes "transcription" with millisecond offsets; some
// builds and wrappers emit "segments" in seconds instead.
type rawOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
	Segments []types.Segment `json:"segments"`
}

func parseJSON(b []byte) (types.ASRTranscript, error) {
	var raw rawOutput
	if err := json.Unmarshal(b, &raw); err != nil {
		return types.ASRTranscript{}, fmt.Errorf("parse whisper json: %w", err)
	}
	var tr types.ASRTranscript
	for _, t := range raw.Transcription {
		tr.Segments = append(tr.Segments, types.Segment{
			Start: float64(t.Offsets.From) / 1000,
			End:   float64(t.Offsets.To) / 1000,
			Text:  strings.TrimSpace(t.Text),
		})
	}
	for _, s := range raw.Segments {
		s.Text = strings.TrimSpace(s.Text)
		tr.Segments = append(tr.Segments, s)
	}
	return tr, nil
}
