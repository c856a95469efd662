package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Executor runs external tools (ffmpeg, whisper.cpp, python).
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
}

type implExecutor struct{}

func New() Executor {
	return &implExecutor{}
}

// Execute returns stdout. On failure the error carries the tool's stderr.
func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if s := strings.TrimSpace(stderr.String()); s != "" {
			return "", fmt.Errorf("command '%s' failed: %w\nstderr: %s", name, err, s)
		}
		return "", fmt.Errorf("command '%s' failed: %w", name, err)
	}
	return stdout.String(), nil
}
