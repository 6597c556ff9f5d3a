package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nurulloasawear/order-app/pkg/logger"
)

// ErrArtifactNotFound signals a missing or unsafe artifact name.
var ErrArtifactNotFound = errors.New("artifact not found")

// Store serves and sweeps rendered artifacts from a flat directory.
type Store struct {
	dir    string
	logger *logger.Logger
}

// NewStore wraps an existing artifacts directory.
func NewStore(dir string, logg *logger.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("artifacts directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifacts directory: %w", err)
	}
	return &Store{dir: dir, logger: logg}, nil
}

// Path resolves an artifact name to its on-disk path. Names carrying path
// separators or traversal segments are rejected.
func (s *Store) Path(name string) (string, error) {
	cleaned := filepath.Base(strings.TrimSpace(name))
	if cleaned == "" || cleaned == "." || cleaned != name {
		return "", ErrArtifactNotFound
	}
	path := filepath.Join(s.dir, cleaned)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrArtifactNotFound
	}
	return path, nil
}

// SweepOlderThan removes artifacts whose mtime is older than the cutoff and
// returns how many were deleted.
func (s *Store) SweepOlderThan(ctx context.Context, age time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("reading artifacts directory: %w", err)
	}

	cutoff := time.Now().Add(-age)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			continue
		}
		removed++
	}

	if s.logger != nil && removed > 0 {
		s.logger.Info(s.logger.WithFields(ctx, map[string]any{
			"removed": removed,
		}), "artifact sweep completed")
	}
	return removed, nil
}
