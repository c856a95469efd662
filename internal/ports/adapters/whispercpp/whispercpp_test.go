package whispercpp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forPelevin/lecnotes/internal/ports/portstest"
	"github.com/forPelevin/lecnotes/internal/types"
)

const cppJSON = `{
  "transcription": [
    {"offsets": {"from": 0, "to": 2400}, "text": " Today we cover entropy."},
    {"offsets": {"from": 2400, "to": 5100}, "text": " Entropy measures disorder. "}
  ]
}`

func TestTranscribe_ReadsJSON(t *testing.T) {
	dir := t.TempDir()
	exec := &portstest.Executor{OnCall: func(_ string, args []string) error {
		for i, a := range args {
			if a == "-of" {
				return os.WriteFile(args[i+1]+".json", []byte(cppJSON), 0o644)
			}
		}
		return errors.New("no -of flag")
	}}
	a := New("whisper-cli", "ggml-base.bin", "en", 4, exec)

	tr, err := a.Transcribe(context.Background(), "audio.wav", dir)
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if len(tr.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(tr.Segments))
	}
	if tr.Segments[1].Start != 2.4 || tr.Segments[1].End != 5.1 {
		t.Fatalf("unexpected timing: %+v", tr.Segments[1])
	}
	if got := tr.Text(); got != "Today we cover entropy. Entropy measures disorder." {
		t.Fatalf("unexpected text: %q", got)
	}

	args := strings.Join(exec.Calls[0].Args, " ")
	for _, want := range []string{"-m ggml-base.bin", "-f audio.wav", "-oj", "-l en", "-t 4", "-of " + filepath.Join(dir, "whisper")} {
		if !strings.Contains(args, want) {
			t.Fatalf("args %q missing %q", args, want)
		}
	}
}

func TestTranscribe_ToolFailure(t *testing.T) {
	exec := &portstest.Executor{Err: errors.New("model file not found")}
	_, err := New("whisper-cli", "missing.bin", "", 0, exec).Transcribe(context.Background(), "a.wav", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "whisper.cpp failed") {
		t.Fatalf("expected whisper error, got %v", err)
	}
	args := strings.Join(exec.Calls[0].Args, " ")
	if strings.Contains(args, "-l") || strings.Contains(args, "-t ") {
		t.Fatalf("optional flags should be omitted: %q", args)
	}
}

func TestParseJSON_Segments(t *testing.T) {
	tr, err := parseJSON([]byte(`{"segments":[{"start":0,"end":1.5,"text":" hello "}]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(tr.Segments) != 1 || tr.Segments[0].Text != "hello" {
		t.Fatalf("unexpected transcript: %+v", tr)
	}
	if _, err := parseJSON([]byte("not json")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestText_SkipsEmpty(t *testing.T) {
	tr := types.ASRTranscript{Segments: []types.Segment{{Text: "a."}, {Text: "  "}, {Text: "b."}}}
	if got := tr.Text(); got != "a. b." {
		t.Fatalf("unexpected text: %q", got)
	}
}
