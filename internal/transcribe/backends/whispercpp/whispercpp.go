package whispercpp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/voxnote/voxnote/internal/transcribe"
	"github.com/voxnote/voxnote/internal/transcribe/registry"
)

func init() {
	registry.Register("whispercpp", func(config map[string]string) (transcribe.Engine, error) {
		binaryPath := config["binary_path"]
		if binaryPath == "" {
			binaryPath = "whisper-cli"
		}
		modelPath := config["model_path"]
		if modelPath == "" {
			modelPath = "./models/ggml-base.bin"
		}
		if _, err := os.Stat(modelPath); err != nil {
			return nil, fmt.Errorf("whisper model not accessible: %w", err)
		}
		return NewEngine(binaryPath, modelPath), nil
	})
}

// Engine transcribes through the whisper.cpp CLI, reading back its JSON
// transcript export.
type Engine struct {
	binaryPath string
	modelPath  string
}

// NewEngine returns a whisper.cpp engine bound to one model file.
func NewEngine(binaryPath, modelPath string) *Engine {
	return &Engine{binaryPath: binaryPath, modelPath: modelPath}
}

// transcriptFile mirrors whisper.cpp's -oj export: offsets are milliseconds.
type transcriptFile struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Transcribe runs whisper.cpp against the WAV file with auto language
// detection and parses the exported JSON transcript.
func (e *Engine) Transcribe(ctx context.Context, wavPath string) (transcribe.Result, error) {
	tempDir, err := os.MkdirTemp("", "voxnote-whispercpp-*")
	if err != nil {
		return transcribe.Result{}, fmt.Errorf("create transcript workspace: %w", err)
	}
	defer os.RemoveAll(tempDir)

	outBase := filepath.Join(tempDir, "transcript")
	cmd := exec.CommandContext(ctx, e.binaryPath,
		"-m", e.modelPath,
		"-f", wavPath,
		"-of", outBase,
		"-oj",
		"-l", "auto",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return transcribe.Result{}, fmt.Errorf("whisper.cpp failed: %w: %s", err, stderr.String())
	}

	data, err := os.ReadFile(outBase + ".json")
	if err != nil {
		return transcribe.Result{}, fmt.Errorf("read whisper.cpp transcript: %w", err)
	}
	return ParseTranscript(data)
}

// ParseTranscript decodes a whisper.cpp JSON export into a normalized result.
func ParseTranscript(data []byte) (transcribe.Result, error) {
	var parsed transcriptFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return transcribe.Result{}, fmt.Errorf("parse whisper.cpp transcript: %w", err)
	}

	raw := make([]transcribe.Segment, 0, len(parsed.Transcription))
	for _, s := range parsed.Transcription {
		raw = append(raw, transcribe.Segment{
			Start: float64(s.Offsets.From) / 1000,
			End:   float64(s.Offsets.To) / 1000,
			Text:  s.Text,
		})
	}
	return transcribe.Normalize(parsed.Result.Language, raw), nil
}

// Close releases engine resources.
func (e *Engine) Close() error {
	return nil
}
