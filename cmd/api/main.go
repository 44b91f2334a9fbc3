package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryanwahyu/keynes-workspace/internal/application"
	appanalysis "github.com/bryanwahyu/keynes-workspace/internal/application/analysis"
	appassistant "github.com/bryanwahyu/keynes-workspace/internal/application/assistant"
	appmaterials "github.com/bryanwahyu/keynes-workspace/internal/application/materials"
	"github.com/bryanwahyu/keynes-workspace/internal/config"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/ai"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/materials"
	aiopenai "github.com/bryanwahyu/keynes-workspace/internal/infra/ai/openai"
	"github.com/bryanwahyu/keynes-workspace/internal/infra/frontier"
	"github.com/bryanwahyu/keynes-workspace/internal/infra/httpserver"
	"github.com/bryanwahyu/keynes-workspace/internal/infra/memory"
	"github.com/bryanwahyu/keynes-workspace/internal/infra/storage"
	"github.com/bryanwahyu/keynes-workspace/internal/middleware"
	"github.com/bryanwahyu/keynes-workspace/internal/pkg/logger"
)

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	lg, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer lg.Sync()

	ctx := context.Background()

	// blob store: MinIO when configured, process memory otherwise
	var (
		blobs  materials.BlobStore
		health = map[string]middleware.HealthChecker{}
	)
	if cfg.Minio.Enabled {
		store, err := storage.NewMinio(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			lg.Fatal("minio init error", "error", err)
		}
		blobs = store
		health["minio"] = store
	} else {
		store := storage.NewMemory()
		blobs = store
		health["blobs"] = store
	}

	materialRepo := memory.NewMaterialRepository()
	resultRepo := memory.NewResultRepository()
	clock := application.SystemClock{}

	if cfg.Analysis.Endpoint == "" {
		lg.Warn("ANALYSIS_ENDPOINT is not set; efficient-frontier runs will fail")
	}
	frontierClient := frontier.NewClient(cfg.Analysis.Endpoint, &http.Client{Timeout: cfg.Analysis.Timeout})

	var generator ai.Generator
	if cfg.Assistant.APIKey != "" {
		generator = aiopenai.NewClient(cfg.Assistant.APIKey, cfg.Assistant.BaseURL, cfg.Assistant.Model)
	} else {
		lg.Warn("assistant API key is not set; chat replies will fail")
	}

	materialsSvc := &appmaterials.Service{
		Repo:  materialRepo,
		Blobs: blobs,
		Clock: clock,
		Log:   lg.With("component", "materials"),
	}
	analysisSvc := &appanalysis.Service{
		Materials:   materialRepo,
		Results:     resultRepo,
		Blobs:       blobs,
		Frontier:    frontierClient,
		Clock:       clock,
		Log:         lg.With("component", "analysis"),
		MockLatency: cfg.Analysis.MockLatency,
	}
	assistantSvc := &appassistant.Service{
		Materials:  materialRepo,
		Results:    resultRepo,
		Transcript: memory.NewTranscript(),
		Generator:  generator,
		Clock:      clock,
		Log:        lg.With("component", "assistant"),
	}

	handler := httpserver.NewRouter(httpserver.Options{
		Materials:      materialsSvc,
		Analysis:       analysisSvc,
		Assistant:      assistantSvc,
		Health:         health,
		Log:            lg.With("component", "http"),
		CORSOrigins:    cfg.Server.CORSOrigins,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		RateCapacity:   cfg.RateLimit.Capacity,
		RateRefill:     cfg.RateLimit.RefillRate,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Analysis.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		lg.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server error", "error", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	lg.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		lg.Error("shutdown error", "error", err)
	}
}
