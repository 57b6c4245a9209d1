package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/pitabwire/frame"
	"github.com/pitabwire/frame/config"

	vnconfig "github.com/voxnote/voxnote/config"
	"github.com/voxnote/voxnote/internal/api"
	"github.com/voxnote/voxnote/internal/extract"
	"github.com/voxnote/voxnote/internal/httputil"
	"github.com/voxnote/voxnote/internal/polish"
	"github.com/voxnote/voxnote/internal/store"
	"github.com/voxnote/voxnote/internal/transcribe/registry"

	// Register ASR backends via init().
	_ "github.com/voxnote/voxnote/internal/transcribe/backends/fasterwhisper"
	_ "github.com/voxnote/voxnote/internal/transcribe/backends/openai"
	_ "github.com/voxnote/voxnote/internal/transcribe/backends/whispercpp"
)

const sweepInterval = time.Hour

func main() {
	ctx := context.Background()

	cfg, err := config.LoadWithOIDC[vnconfig.TranscriberConfig](ctx)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx, srv := frame.NewService(
		frame.WithConfig(&cfg),
		frame.WithName("voxnote"),
	)
	defer srv.Stop(ctx)

	pool, err := srv.WorkManager().GetPool()
	if err != nil {
		log.Fatalf("getting worker pool: %v", err)
	}

	st, err := store.Open(cfg.UploadDir, cfg.AudioDir)
	if err != nil {
		log.Fatalf("opening media store: %v", err)
	}
	st.StartSweeper(ctx, pool, sweepInterval, cfg.Retention())

	extractor := extract.New(cfg.FFmpegPath)

	// The engine is constructed once here and injected; nothing else in the
	// process holds model state.
	engine, err := registry.Create(cfg.ASRBackend, map[string]string{
		"model":           cfg.WhisperModel,
		"model_path":      cfg.WhisperModelPath,
		"binary_path":     cfg.WhisperBinaryPath,
		"device":          cfg.WhisperDevice,
		"python_path":     cfg.PythonPath,
		"openai_api_key":  cfg.OpenAIAPIKey,
		"openai_base_url": cfg.OpenAIBaseURL,
	})
	if err != nil {
		log.Fatalf("creating ASR backend %q: %v", cfg.ASRBackend, err)
	}
	defer engine.Close()

	policy := polish.NewPolicySource(cfg.PolishPolicyPath)
	if cfg.PolishPolicyPath != "" {
		if err := policy.Load(); err != nil {
			log.Fatalf("loading polish policy: %v", err)
		}
		_ = pool.Submit(ctx, func() {
			if err := policy.WatchAndReload(ctx.Done()); err != nil {
				log.Printf("warning: polish policy watcher stopped: %v", err)
			}
		})
	}
	polisher := polish.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.PolishModel, policy)

	handler := api.NewHandler(st, extractor, engine, polisher, api.Timeouts{
		Extract:    cfg.ExtractTimeout(),
		Transcribe: cfg.TranscribeTimeout(),
		Polish:     cfg.PolishTimeout(),
	}, cfg.MaxUploadMB)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	srv.Init(ctx, frame.WithHTTPHandler(httputil.H2CHandler(mux)))

	if err := srv.Run(ctx, ""); err != nil {
		log.Fatalf("service exited: %v", err)
	}
}
