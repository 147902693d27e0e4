package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type LogRotation struct {
	maxSize int64
	maxAge  time.Duration
}

// NewLogRotation rotates once a file reaches maxSize bytes or maxAge.
// A zero limit disables that check.
func NewLogRotation(maxSize int64, maxAge time.Duration) *LogRotation {
	return &LogRotation{
		maxSize: maxSize,
		maxAge:  maxAge,
	}
}

func (lr *LogRotation) ShouldRotate(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	if lr.maxSize > 0 && info.Size() >= lr.maxSize {
		return true
	}

	if lr.maxAge > 0 && time.Since(info.ModTime()) >= lr.maxAge {
		return true
	}

	return false
}

func (lr *LogRotation) Rotate(path string) (string, error) {
	timestamp := time.Now().Format("20060102-150405")
	ext := filepath.Ext(path)
	base := path[:len(path)-len(ext)]

	newPath := fmt.Sprintf("%s-%s%s", base, timestamp, ext)

	if err := os.Rename(path, newPath); err != nil {
		return "", fmt.Errorf("failed to rotate %s: %w", path, err)
	}
	return newPath, nil
}

// RotateIfNeeded moves path aside when it is over the limits. It reports the
// new name, or "" when nothing was rotated.
func (lr *LogRotation) RotateIfNeeded(path string) (string, error) {
	if path == "" || !lr.ShouldRotate(path) {
		return "", nil
	}
	return lr.Rotate(path)
}
