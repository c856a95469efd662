//go:build integration

package itest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/forPelevin/lecnotes/internal/executor"
)

// mediaDuration returns the container duration of a media file in seconds.
func mediaDuration(ctx context.Context, path string) (float64, error) {
	out, err := executor.New().Execute(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, err
	}
	s := strings.TrimSpace(out)
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}
