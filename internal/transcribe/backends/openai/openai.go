package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/voxnote/voxnote/internal/transcribe"
	"github.com/voxnote/voxnote/internal/transcribe/registry"
)

func init() {
	registry.Register("openai", func(config map[string]string) (transcribe.Engine, error) {
		apiKey := config["openai_api_key"]
		if apiKey == "" {
			return nil, fmt.Errorf("openai API key required (set OPENAI_API_KEY)")
		}
		baseURL := config["openai_base_url"]
		if baseURL == "" {
			baseURL = "https://api.openai.com/v1"
		}
		model := config["model"]
		if model == "" {
			model = openai.Whisper1
		}
		return NewEngine(apiKey, baseURL, model), nil
	})
}

// Engine transcribes through the OpenAI-compatible transcription API,
// requesting verbose JSON so segment timings come back with the text.
type Engine struct {
	client *openai.Client
	model  string
}

// NewEngine returns a remote transcription engine.
func NewEngine(apiKey, baseURL, model string) *Engine {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Engine{client: openai.NewClientWithConfig(cfg), model: model}
}

// Transcribe uploads the WAV file and maps the verbose response to segments.
func (e *Engine) Transcribe(ctx context.Context, wavPath string) (transcribe.Result, error) {
	resp, err := e.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    e.model,
		FilePath: wavPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return transcribe.Result{}, fmt.Errorf("openai transcription: %w", err)
	}

	raw := make([]transcribe.Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		raw = append(raw, transcribe.Segment{Start: s.Start, End: s.End, Text: s.Text})
	}
	// The API may return plain text with no segment timings.
	if len(raw) == 0 && resp.Text != "" {
		raw = append(raw, transcribe.Segment{Start: 0, End: resp.Duration, Text: resp.Text})
	}
	return transcribe.Normalize(resp.Language, raw), nil
}

// Close releases engine resources.
func (e *Engine) Close() error {
	return nil
}
