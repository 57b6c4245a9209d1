package config

import (
	"time"

	"github.com/pitabwire/frame/config"
)

// TranscriberConfig holds configuration for the transcription service.
type TranscriberConfig struct {
	config.ConfigurationDefault

	// Storage.
	UploadDir      string `envDefault:"./uploads" env:"UPLOAD_DIR"`
	AudioDir       string `envDefault:"./audio"   env:"AUDIO_DIR"`
	MaxUploadMB    int    `envDefault:"512"       env:"MAX_UPLOAD_MB"`
	RetentionHours int    `envDefault:"0"         env:"RETENTION_HOURS"`

	// Audio extraction.
	FFmpegPath        string `envDefault:"ffmpeg" env:"FFMPEG_PATH"`
	ExtractTimeoutSec int    `envDefault:"300"    env:"EXTRACT_TIMEOUT_SEC"`

	// Transcription.
	ASRBackend           string `envDefault:"fasterwhisper"          env:"ASR_BACKEND"`
	WhisperModel         string `envDefault:"tiny"                   env:"WHISPER_MODEL"`
	WhisperModelPath     string `envDefault:"./models/ggml-base.bin" env:"WHISPER_MODEL_PATH"`
	WhisperBinaryPath    string `envDefault:"whisper-cli"            env:"WHISPER_BINARY_PATH"`
	WhisperDevice        string `envDefault:"auto"                   env:"WHISPER_DEVICE"`
	PythonPath           string `envDefault:"python3"                env:"PYTHON_PATH"`
	TranscribeTimeoutSec int    `envDefault:"1800"                   env:"TRANSCRIBE_TIMEOUT_SEC"`

	// Polishing.
	OpenAIAPIKey     string `envDefault:""                          env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `envDefault:"https://api.openai.com/v1" env:"OPENAI_BASE_URL"`
	PolishModel      string `envDefault:"gpt-4o-mini"               env:"POLISH_MODEL"`
	PolishPolicyPath string `envDefault:""                          env:"POLISH_POLICY_PATH"`
	PolishTimeoutSec int    `envDefault:"120"                       env:"POLISH_TIMEOUT_SEC"`
}

// ExtractTimeout returns the audio extraction timeout.
func (c *TranscriberConfig) ExtractTimeout() time.Duration {
	return time.Duration(c.ExtractTimeoutSec) * time.Second
}

// TranscribeTimeout returns the transcription timeout.
func (c *TranscriberConfig) TranscribeTimeout() time.Duration {
	return time.Duration(c.TranscribeTimeoutSec) * time.Second
}

// PolishTimeout returns the polish call timeout.
func (c *TranscriberConfig) PolishTimeout() time.Duration {
	return time.Duration(c.PolishTimeoutSec) * time.Second
}

// Retention returns the on-disk artifact retention window. Zero disables
// the sweeper.
func (c *TranscriberConfig) Retention() time.Duration {
	return time.Duration(c.RetentionHours) * time.Hour
}
