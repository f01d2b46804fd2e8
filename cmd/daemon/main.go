package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/vibecut/daemon/internal/config"
	"github.com/vibecut/daemon/internal/httpapi"
	"github.com/vibecut/daemon/internal/jobs"
	"github.com/vibecut/daemon/internal/media"
	"github.com/vibecut/daemon/internal/mlclient"
	"github.com/vibecut/daemon/internal/observability"
	"github.com/vibecut/daemon/internal/orchestrator"
	"github.com/vibecut/daemon/internal/pipeline"
	"github.com/vibecut/daemon/internal/platform/envutil"
	"github.com/vibecut/daemon/internal/platform/logger"
	"github.com/vibecut/daemon/internal/platform/shutdown"
	"github.com/vibecut/daemon/internal/render"
	"github.com/vibecut/daemon/internal/retrieval"
	"github.com/vibecut/daemon/internal/store"
	"github.com/vibecut/daemon/internal/videosearch"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("daemon exited: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(envutil.String("VIBECUT_LOG_MODE", "dev"))
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}

	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "vibecut-daemon",
		Environment: envutil.String("VIBECUT_ENV", "development"),
		Version:     envutil.String("VIBECUT_VERSION", "dev"),
	})
	defer shutdownOTel(context.Background())

	st, err := store.Open(cfg.DBPath, log)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	swept, err := st.SweepRunningToPending(ctx)
	if err != nil {
		return fmt.Errorf("sweeping running jobs: %w", err)
	}
	if swept > 0 {
		log.Info("resumed interrupted jobs", "count", swept)
	}

	prober := media.NoopProber{}
	mlClient := mlclient.New(cfg.MLServiceBaseURL)
	vsClient := videosearch.New(cfg.VideoSearchBaseURL)

	reg := jobs.NewRegistry()
	handlers := []jobs.Handler{
		pipeline.ImportRawHandler{Store: st, Prober: prober},
		pipeline.GenerateProxyHandler{Store: st, Prober: prober},
		pipeline.BuildSegmentsHandler{Store: st, Prober: prober},
		pipeline.TranscribeAssetHandler{Store: st, ML: mlClient},
		pipeline.AnalyzeVisionAssetHandler{Store: st, ML: mlClient},
		pipeline.EnrichSegmentsFromTranscriptHandler{Store: st},
		pipeline.EnrichSegmentsFromVisionHandler{Store: st},
		pipeline.ComputeSegmentMetadataHandler{Store: st},
		pipeline.EmbedSegmentsHandler{Store: st, ML: mlClient},
		pipeline.IndexAssetWithExternalServiceHandler{Store: st, VideoSearch: vsClient},
		pipeline.ExportHandler{Store: st, Synthesizer: render.ConcatSynthesizer{}},
	}
	for _, h := range handlers {
		if err := reg.Register(h); err != nil {
			return fmt.Errorf("registering %T: %w", h, err)
		}
	}
	// JobGenerateEdit has no registered handler: edit generation runs
	// synchronously through Orchestrator.Apply off the HTTP surface,
	// never through the scheduler's dispatch loop. A job of that type
	// would fail fast with "no handler" rather than hang, the same
	// graceful path any unregistered type takes.

	var broadcaster jobs.Broadcaster
	if cfg.RedisAddr != "" {
		broadcaster, err = jobs.NewRedisBroadcaster(ctx, log, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			return fmt.Errorf("connecting redis broadcaster: %w", err)
		}
	} else {
		broadcaster = jobs.NewInprocBroadcaster(log)
	}

	manager := jobs.NewManager(st, broadcaster, reg, log)
	scheduler := jobs.NewScheduler(manager, log, cfg.SchedulerPollInterval())
	go scheduler.Run(ctx)

	backend := buildRetrievalBackend(cfg, st, mlClient, vsClient)

	orch := &orchestrator.Orchestrator{Store: st, Jobs: manager, ML: mlClient, Retrieval: backend}
	go orch.RunProactiveLoop(ctx)

	router := httpapi.NewRouter(httpapi.Deps{
		Store:        st,
		Jobs:         manager,
		Orchestrator: orch,
		Prober:       prober,
		Log:          log,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", "error", err)
	}
	return nil
}

func buildRetrievalBackend(cfg config.Config, st *store.Store, ml *mlclient.Client, vs *videosearch.Client) retrieval.Backend {
	local := retrieval.Local{Store: st, ML: ml}
	switch cfg.RetrievalBackend {
	case config.RetrievalLocal:
		return local
	case config.RetrievalExternal:
		return retrieval.External{Store: st, VideoSearch: vs}
	default:
		return retrieval.FallbackBackend{Primary: retrieval.External{Store: st, VideoSearch: vs}, Fallback: local}
	}
}
