package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pitabwire/frame/workerpool"
	"github.com/rs/xid"
)

// DefaultExtension is used when an uploaded filename carries no extension.
const DefaultExtension = ".mp4"

// Store manages the on-disk layout for uploaded media and extracted audio.
// Every artifact is namespaced by a freshly generated id, so concurrent
// requests never write the same path.
type Store struct {
	uploadDir string
	audioDir  string
}

// Open creates both storage directories if absent and returns the store.
func Open(uploadDir, audioDir string) (*Store, error) {
	for _, dir := range []string{uploadDir, audioDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir %q: %w", dir, err)
		}
	}
	return &Store{uploadDir: uploadDir, audioDir: audioDir}, nil
}

// NewID returns a fresh unique identifier for one upload.
func (s *Store) NewID() string {
	return xid.New().String()
}

// SaveUpload writes the uploaded bytes under the given id, keeping the
// original filename's extension. Extensionless names get DefaultExtension.
func (s *Store) SaveUpload(id, originalName string, r io.Reader) (string, error) {
	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = DefaultExtension
	}

	path := filepath.Join(s.uploadDir, id+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return path, nil
}

// AudioPath returns the extracted-audio destination for the given id.
func (s *Store) AudioPath(id string) string {
	return filepath.Join(s.audioDir, id+".wav")
}

// Sweep removes artifacts older than the retention window from both
// directories and returns how many files were deleted.
func (s *Store) Sweep(retention time.Duration) (int, error) {
	cutoff := time.Now().Add(-retention)
	removed := 0
	for _, dir := range []string{s.uploadDir, s.audioDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return removed, fmt.Errorf("read storage dir %q: %w", dir, err)
		}
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
			if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// StartSweeper begins the background retention sweeper. A zero retention
// disables it.
func (s *Store) StartSweeper(ctx context.Context, pool workerpool.WorkerPool, interval, retention time.Duration) {
	if retention <= 0 {
		return
	}

	sweep := func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.Sweep(retention)
				if err != nil {
					slog.Warn("storage sweep failed", slog.String("error", err.Error()))
					continue
				}
				if removed > 0 {
					slog.Info("swept expired media artifacts", slog.Int("removed", removed))
				}
			}
		}
	}
	if pool != nil {
		_ = pool.Submit(ctx, sweep)
	} else {
		go sweep()
	}
}
