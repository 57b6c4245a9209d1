package transcribe

import (
	"context"
	"math"
	"strings"
)

// Segment is a contiguous span of recognized speech.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Result is the outcome of transcribing one audio file. Language is the
// code the model detected for the whole audio and may be empty.
type Result struct {
	Language string
	Segments []Segment
}

// Text joins the segment texts with newlines.
func (r Result) Text() string {
	lines := make([]string, 0, len(r.Segments))
	for _, seg := range r.Segments {
		lines = append(lines, seg.Text)
	}
	return strings.Join(lines, "\n")
}

// Engine transcribes a WAV file into timestamped segments. Implementations
// are constructed once at startup and must be safe for sequential reuse.
type Engine interface {
	Transcribe(ctx context.Context, wavPath string) (Result, error)
	Close() error
}

// Normalize trims segment text, drops segments that are empty after
// trimming, and rounds timestamps to 2 decimal places. Emission order is
// preserved.
func Normalize(language string, raw []Segment) Result {
	segments := make([]Segment, 0, len(raw))
	for _, seg := range raw {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Start: round2(seg.Start),
			End:   round2(seg.End),
			Text:  text,
		})
	}
	return Result{Language: language, Segments: segments}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
