package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/forPelevin/lecnotes/internal/logger"
)

func TestIsVideo(t *testing.T) {
	tests := map[string]bool{
		"lec1.mp4":            true,
		"/up/Lecture 2.MOV":   true,
		"clip.webm":           true,
		"notes.txt":           false,
		"lec1.mp4.part":       false,
		"archive":             false,
		"/up/.hidden.mkv":     true,
		"lec1_transcript.txt": false,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := IsVideo(in); got != want {
				t.Fatalf("IsVideo(%q) = %v, want %v", in, got, want)
			}
		})
	}
}

func TestStart_HandlesNewVideosOnly(t *testing.T) {
	dir := t.TempDir()
	got := make(chan string, 4)
	w, err := New(dir, func(_ context.Context, path string) error {
		got <- filepath.Base(path)
		return errors.New("handler errors are logged only")
	}, logger.Discard(), 0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	for _, name := range []string{"readme.txt", "lec1.mp4", "lec2.mkv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	for _, want := range []string{"lec1.mp4", "lec2.mkv"} {
		select {
		case name := <-got:
			if name != want {
				t.Fatalf("handled %q, want %q", name, want)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %s", want)
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Start returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("watcher did not stop")
	}
}

func TestNew_MissingDir(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing"), nil, nil, 0); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
