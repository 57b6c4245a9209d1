package extract

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

type fakeRunner struct {
	gotName  string
	gotArgs  []string
	exitCode int
	stderr   string
	err      error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (int, string, error) {
	f.gotName = name
	f.gotArgs = args
	return f.exitCode, f.stderr, f.err
}

func foundLookPath(file string) (string, error) { return "/usr/bin/" + file, nil }

func TestExtractPassesFixedArguments(t *testing.T) {
	runner := &fakeRunner{}
	e := NewForTests("ffmpeg", runner, foundLookPath)

	if err := e.Extract(context.Background(), "/in/video.mp4", "/out/audio.wav"); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := []string{
		"-hide_banner", "-nostdin", "-y",
		"-i", "/in/video.mp4",
		"-vn", "-ac", "1", "-ar", "16000", "-f", "wav",
		"/out/audio.wav",
	}
	if runner.gotName != "ffmpeg" {
		t.Errorf("command = %q, want ffmpeg", runner.gotName)
	}
	if !reflect.DeepEqual(runner.gotArgs, want) {
		t.Errorf("args = %v, want %v", runner.gotArgs, want)
	}
}

func TestExtractToolMissing(t *testing.T) {
	runner := &fakeRunner{}
	e := NewForTests("ffmpeg", runner, func(string) (string, error) {
		return "", errors.New("executable file not found in $PATH")
	})

	err := e.Extract(context.Background(), "/in/video.mp4", "/out/audio.wav")
	if !errors.Is(err, ErrToolMissing) {
		t.Fatalf("err = %v, want ErrToolMissing", err)
	}
	if runner.gotName != "" {
		t.Error("ffmpeg was invoked despite missing executable")
	}
}

func TestExtractConversionFailure(t *testing.T) {
	runner := &fakeRunner{
		exitCode: 1,
		stderr:   "some banner\nInvalid data found when processing input\n",
		err:      fmt.Errorf("exit status 1"),
	}
	e := NewForTests("ffmpeg", runner, foundLookPath)

	err := e.Extract(context.Background(), "/in/broken.mp4", "/out/audio.wav")

	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("err = %v, want *ConversionError", err)
	}
	if convErr.ExitCode != 1 {
		t.Errorf("exit code = %d, want 1", convErr.ExitCode)
	}
	if got := convErr.Error(); got != "ffmpeg exited with code 1: Invalid data found when processing input" {
		t.Errorf("message = %q", got)
	}
}

func TestExtractCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &fakeRunner{exitCode: -1, err: errors.New("signal: killed")}
	e := NewForTests("ffmpeg", runner, foundLookPath)

	err := e.Extract(ctx, "/in/video.mp4", "/out/audio.wav")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
