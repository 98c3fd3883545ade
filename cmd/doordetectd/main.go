package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/AnSingh1/DoorDetection/internal/common"
	"github.com/AnSingh1/DoorDetection/internal/detect"
	"github.com/AnSingh1/DoorDetection/internal/ingest"
	"github.com/AnSingh1/DoorDetection/internal/pipeline"
	"github.com/AnSingh1/DoorDetection/internal/repository"
	"github.com/AnSingh1/DoorDetection/internal/server"
)

func main() {
	// Logger
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(slogger)

	// Env
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Detection model: constructed once at process start and passed into
	// every pipeline run explicitly.
	var detector detect.Detector
	switch cfg.Inference.Transport {
	case "ws":
		ws := detect.NewWSDetector(cfg.Inference.URL, cfg.Inference.Timeout, slogger)
		defer ws.Close()
		detector = ws
	default:
		detector = detect.NewHTTPDetector(cfg.Inference.URL, cfg.Inference.Timeout, slogger)
	}
	if hc, ok := detector.(detect.HealthChecker); ok {
		probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := hc.CheckHealth(probeCtx); err != nil {
			log.Warnf("inference service not available: %v", err)
		} else {
			log.Infow("inference service OK", "url", cfg.Inference.URL, "transport", cfg.Inference.Transport)
		}
		cancel()
	}

	// Optional job journal
	var journal *repository.Journal
	if cfg.Journal.DBPath != "" {
		var err error
		journal, err = repository.OpenJournal(ctx, cfg.Journal.DBPath, slogger)
		if err != nil {
			log.Fatalf("opening journal: %v", err)
		}
		defer func() { _ = journal.Close() }()
	}

	// Pipeline
	normalizer := ingest.NewNormalizer(ingest.Config{
		Pdftoppm: cfg.Pipeline.Pdftoppm,
		DPI:      cfg.Pipeline.PDFDPI,
	}, slogger)

	pipe := pipeline.New(normalizer, detector, pipeline.Config{
		TargetClass:       cfg.Inference.TargetClass,
		BinaryThreshold:   uint8(cfg.Pipeline.BinaryThreshold),
		SerializeDetector: !cfg.Inference.Concurrent,
	}, slogger)

	poolOpts := []pipeline.Option{
		pipeline.WithWorkers(cfg.Pipeline.Workers),
		pipeline.WithDocumentTimeout(cfg.Pipeline.DocumentTimeout),
	}
	if journal != nil {
		poolOpts = append(poolOpts, pipeline.WithJournal(journal))
	}
	pool := pipeline.NewPool(pipe, slogger, poolOpts...)

	// HTTP server
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(pool, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("HTTP serving on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnf("shutdown: %v", err)
	}
	fmt.Println("stopped.")
}
