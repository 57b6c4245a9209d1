package fasterwhisper

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/voxnote/voxnote/internal/transcribe"
	"github.com/voxnote/voxnote/internal/transcribe/registry"
)

//go:embed assets/transcribe.py
var helperScript []byte

func init() {
	registry.Register("fasterwhisper", func(config map[string]string) (transcribe.Engine, error) {
		model := config["model"]
		if model == "" {
			model = "tiny"
		}
		device := config["device"]
		if device == "" {
			device = "auto"
		}
		python := config["python_path"]
		if python == "" {
			python = "python3"
		}
		return NewEngine(python, model, device)
	})
}

// Engine runs faster-whisper through an embedded Python helper that emits
// segment JSON on stdout. Voice-activity filtering is always enabled in the
// helper.
type Engine struct {
	pythonPath string
	model      string
	device     string
	scriptPath string
}

// NewEngine materializes the helper script once and returns the engine.
func NewEngine(pythonPath, model, device string) (*Engine, error) {
	scriptPath := filepath.Join(os.TempDir(), "voxnote_faster_whisper.py")
	if err := os.WriteFile(scriptPath, helperScript, 0o755); err != nil {
		return nil, fmt.Errorf("write helper script: %w", err)
	}
	return &Engine{
		pythonPath: pythonPath,
		model:      model,
		device:     device,
		scriptPath: scriptPath,
	}, nil
}

type helperOutput struct {
	Language string `json:"language"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe invokes the helper on the given WAV file.
func (e *Engine) Transcribe(ctx context.Context, wavPath string) (transcribe.Result, error) {
	cmd := exec.CommandContext(ctx, e.pythonPath, e.scriptPath,
		"--audio", wavPath,
		"--model", e.model,
		"--device", e.device,
	)
	cmd.Env = os.Environ()

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return transcribe.Result{}, fmt.Errorf("faster-whisper failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return transcribe.Result{}, fmt.Errorf("run faster-whisper helper: %w", err)
	}

	var parsed helperOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return transcribe.Result{}, fmt.Errorf("parse helper output: %w", err)
	}

	raw := make([]transcribe.Segment, 0, len(parsed.Segments))
	for _, s := range parsed.Segments {
		raw = append(raw, transcribe.Segment{Start: s.Start, End: s.End, Text: s.Text})
	}
	return transcribe.Normalize(parsed.Language, raw), nil
}

// Close removes the materialized helper script.
func (e *Engine) Close() error {
	return os.Remove(e.scriptPath)
}
