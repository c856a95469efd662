//go:build integration

package itest

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
)

// findRepoRoot walks up from the working directory to the go.mod of this
// module.
func findRepoRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for dir := wd; ; dir = filepath.Dir(dir) {
		b, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil && bytes.Contains(b, []byte("module github.com/forPelevin/lecnotes")) {
			return dir, nil
		}
		if filepath.Dir(dir) == dir {
			return "", errors.New("could not locate the lecnotes go.mod")
		}
	}
}
