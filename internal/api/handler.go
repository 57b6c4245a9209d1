package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pitabwire/util"

	"github.com/voxnote/voxnote/internal/extract"
	"github.com/voxnote/voxnote/internal/polish"
	"github.com/voxnote/voxnote/internal/store"
	"github.com/voxnote/voxnote/internal/transcribe"
)

// Extractor produces a mono 16kHz WAV file from an uploaded media file.
type Extractor interface {
	Extract(ctx context.Context, srcPath, destPath string) error
}

// Polisher rewrites a raw transcript, returning a structured edit or an
// error the handler absorbs into the response.
type Polisher interface {
	Polish(ctx context.Context, rawText, languageHint string) (polish.Result, error)
}

// Timeouts bound each pipeline stage. Zero disables the bound for that
// stage.
type Timeouts struct {
	Extract    time.Duration
	Transcribe time.Duration
	Polish     time.Duration
}

// Handler provides the REST endpoints for the transcription pipeline. All
// collaborators are injected at startup; the handler holds no per-request
// state.
type Handler struct {
	store          *store.Store
	extractor      Extractor
	engine         transcribe.Engine
	polisher       Polisher
	timeouts       Timeouts
	maxUploadBytes int64
}

// NewHandler creates the upload handler.
func NewHandler(st *store.Store, ex Extractor, eng transcribe.Engine, pol Polisher, timeouts Timeouts, maxUploadMB int) *Handler {
	return &Handler{
		store:          st,
		extractor:      ex,
		engine:         eng,
		polisher:       pol,
		timeouts:       timeouts,
		maxUploadBytes: int64(maxUploadMB) << 20,
	}
}

// RegisterRoutes registers all pipeline routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /upload", h.Upload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writePipelineError reports a pipeline-stage failure. The HTTP layer stays
// uniform: the caller inspects the body shape, not the status code.
func writePipelineError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, ErrorResponse{Error: msg})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{OK: true})
}

// Upload handles POST /upload?polish=<bool>. The pipeline is strictly
// sequential: store, extract, transcribe, optionally polish, respond.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := util.Log(ctx)

	wantPolish, _ := strconv.ParseBool(r.URL.Query().Get("polish"))

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "multipart file field is required"})
		return
	}
	defer file.Close()

	id := h.store.NewID()
	mediaPath, err := h.store.SaveUpload(id, header.Filename, file)
	if err != nil {
		log.WithError(err).Error("upload: store media")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to store uploaded file"})
		return
	}

	wavPath := h.store.AudioPath(id)
	if err := h.extract(ctx, mediaPath, wavPath); err != nil {
		log.WithError(err).Error("upload: extract audio")
		if errors.Is(err, extract.ErrToolMissing) {
			writePipelineError(w, "ffmpeg not found. Please confirm ffmpeg is installed and on PATH.")
			return
		}
		writePipelineError(w, "audio extraction failed")
		return
	}

	result, err := h.transcribe(ctx, wavPath)
	if err != nil {
		log.WithError(err).Error("upload: transcribe")
		writePipelineError(w, "transcription failed")
		return
	}

	rawText := result.Text()
	resp := UploadResponse{
		Text:     rawText,
		RawText:  rawText,
		Segments: toSegmentResponses(result.Segments),
	}
	if result.Language != "" {
		resp.Language = &result.Language
	}

	if wantPolish && strings.TrimSpace(rawText) != "" {
		resp.Polish = h.polish(ctx, rawText, result.Language)
		if resp.Polish.Error == "" {
			resp.Text = resp.Polish.Polished
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) extract(ctx context.Context, srcPath, destPath string) error {
	ctx, cancel := stageContext(ctx, h.timeouts.Extract)
	defer cancel()
	return h.extractor.Extract(ctx, srcPath, destPath)
}

func (h *Handler) transcribe(ctx context.Context, wavPath string) (transcribe.Result, error) {
	ctx, cancel := stageContext(ctx, h.timeouts.Transcribe)
	defer cancel()
	return h.engine.Transcribe(ctx, wavPath)
}

// polish runs the optional enhancement step. Its failure never blocks
// delivery of the raw transcript: the error descriptor rides in the
// response instead.
func (h *Handler) polish(ctx context.Context, rawText, language string) *PolishOutcome {
	ctx, cancel := stageContext(ctx, h.timeouts.Polish)
	defer cancel()

	edit, err := h.polisher.Polish(ctx, rawText, language)
	if err != nil {
		util.Log(ctx).WithError(err).Error("upload: polish")
		return &PolishOutcome{Error: err.Error()}
	}
	return &PolishOutcome{
		Polished:       edit.Polished,
		ChangesSummary: edit.ChangesSummary,
		Warnings:       edit.Warnings,
	}
}

func stageContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

func toSegmentResponses(segments []transcribe.Segment) []SegmentResponse {
	out := make([]SegmentResponse, 0, len(segments))
	for _, seg := range segments {
		out = append(out, SegmentResponse{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	return out
}
