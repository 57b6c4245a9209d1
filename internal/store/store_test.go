package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	base := t.TempDir()
	s, err := Open(filepath.Join(base, "uploads"), filepath.Join(base, "audio"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestOpenCreatesDirectories(t *testing.T) {
	base := t.TempDir()
	uploadDir := filepath.Join(base, "uploads")
	audioDir := filepath.Join(base, "audio")

	if _, err := Open(uploadDir, audioDir); err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, dir := range []string{uploadDir, audioDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %q not created", dir)
		}
	}

	// Idempotent on existing directories.
	if _, err := Open(uploadDir, audioDir); err != nil {
		t.Errorf("second Open: %v", err)
	}
}

func TestSaveUploadKeepsExtension(t *testing.T) {
	s := openTestStore(t)

	path, err := s.SaveUpload("id1", "lecture.webm", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("SaveUpload: %v", err)
	}
	if filepath.Ext(path) != ".webm" {
		t.Errorf("path = %q, want .webm extension", path)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "bytes" {
		t.Errorf("stored content = %q, err = %v", data, err)
	}
}

func TestSaveUploadDefaultsExtension(t *testing.T) {
	s := openTestStore(t)

	path, err := s.SaveUpload("id2", "myvideo", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("SaveUpload: %v", err)
	}
	if filepath.Ext(path) != DefaultExtension {
		t.Errorf("path = %q, want default extension %s", path, DefaultExtension)
	}
}

func TestNewIDsAreDistinct(t *testing.T) {
	s := openTestStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := s.NewID()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestAudioPathNamespacedByID(t *testing.T) {
	s := openTestStore(t)

	a := s.AudioPath("abc")
	b := s.AudioPath("def")
	if a == b {
		t.Error("distinct ids map to the same audio path")
	}
	if filepath.Ext(a) != ".wav" {
		t.Errorf("audio path %q does not end in .wav", a)
	}
}

func TestSweepRemovesOnlyExpiredFiles(t *testing.T) {
	s := openTestStore(t)

	oldPath, err := s.SaveUpload("old", "a.mp4", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	freshPath, err := s.SaveUpload("fresh", "b.mp4", strings.NewReader("y"))
	if err != nil {
		t.Fatal(err)
	}

	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldPath, stale, stale); err != nil {
		t.Fatal(err)
	}

	removed, err := s.Sweep(24 * time.Hour)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("expired file still present")
	}
	if _, err := os.Stat(freshPath); err != nil {
		t.Error("fresh file was removed")
	}
}
