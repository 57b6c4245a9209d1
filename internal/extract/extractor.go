package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrToolMissing reports that the ffmpeg executable was not found on the
// search path. Distinct from a conversion failure so the caller can return
// an instructional message.
var ErrToolMissing = errors.New("ffmpeg executable not found")

// ConversionError reports that ffmpeg ran but exited non-zero.
type ConversionError struct {
	ExitCode int
	Stderr   string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("ffmpeg exited with code %d: %s", e.ExitCode, lastLine(e.Stderr))
}

// lastLine extracts the tail of ffmpeg's stderr, which carries the actual
// failure reason.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}

// runner abstracts process execution for testability.
type runner interface {
	Run(ctx context.Context, name string, args ...string) (exitCode int, stderr string, err error)
}

// execRunner executes commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (int, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return code, stderr.String(), err
	}
	return 0, stderr.String(), nil
}

// Extractor converts uploaded media into mono 16kHz PCM WAV via ffmpeg.
type Extractor struct {
	ffmpegPath string
	runner     runner
	lookPath   func(file string) (string, error)
}

// New constructs the production extractor.
func New(ffmpegPath string) *Extractor {
	return &Extractor{
		ffmpegPath: ffmpegPath,
		runner:     execRunner{},
		lookPath:   exec.LookPath,
	}
}

// Extract strips the video stream from srcPath and writes a mono 16kHz WAV
// file at destPath, overwriting any existing file. It returns ErrToolMissing
// when ffmpeg is absent and a *ConversionError when ffmpeg exits non-zero.
func (e *Extractor) Extract(ctx context.Context, srcPath, destPath string) error {
	if _, err := e.lookPath(e.ffmpegPath); err != nil {
		return fmt.Errorf("%w: %q", ErrToolMissing, e.ffmpegPath)
	}

	args := buildArgs(srcPath, destPath)
	code, stderr, err := e.runner.Run(ctx, e.ffmpegPath, args...)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg: %w", ctx.Err())
		}
		return &ConversionError{ExitCode: code, Stderr: stderr}
	}
	return nil
}

// buildArgs selects: no video stream, mono, 16kHz, WAV container, overwrite.
func buildArgs(srcPath, destPath string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", srcPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		destPath,
	}
}

// NewForTests constructs an extractor with injectable process dependencies.
func NewForTests(ffmpegPath string, r runner, lookPath func(string) (string, error)) *Extractor {
	return &Extractor{ffmpegPath: ffmpegPath, runner: r, lookPath: lookPath}
}
