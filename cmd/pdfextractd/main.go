package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/joseph-ayodele/pdf-extractor/internal/app"
	"github.com/joseph-ayodele/pdf-extractor/internal/common"
	"github.com/joseph-ayodele/pdf-extractor/internal/ingest"
	"github.com/joseph-ayodele/pdf-extractor/internal/server"
	"github.com/joseph-ayodele/pdf-extractor/internal/upload"
	"github.com/joseph-ayodele/pdf-extractor/internal/workspace"
)

// Version is set at build time.
var Version = "dev"

func main() {
	// Setup structured logger that outputs messages with variables but no time
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialise", "error", err)
		os.Exit(1)
	}

	e := server.NewEcho(server.Options{
		Development:    cfg.IsDevelopment(),
		RequestTimeout: cfg.Server.RequestTimeout,
		Logger:         logger,
	})
	server.RegisterRoutes(e, server.NewHandler(server.Dependencies{
		Workspace:   a.Workspace,
		Extractor:   a.Extractor,
		Development: cfg.IsDevelopment(),
		Version:     Version,
		Logger:      logger,
	}))

	var grpcServer *grpc.Server
	var healthServer *health.Server
	if cfg.Server.GRPCHealthAddr != "" {
		lis, err := net.Listen("tcp", cfg.Server.GRPCHealthAddr)
		if err != nil {
			logger.Error("failed to listen on address", "addr", cfg.Server.GRPCHealthAddr, "error", err)
			os.Exit(1)
		}
		grpcServer = grpc.NewServer()
		healthServer = health.NewServer()
		grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
		go func() {
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC serve error", "error", err)
			}
		}()
		logger.Info("grpc health listening", "addr", cfg.Server.GRPCHealthAddr)
	}

	if cfg.Ingest.WatchDir != "" {
		if err := watchFolder(ctx, cfg.Ingest, a.Workspace, logger); err != nil {
			logger.Error("failed to watch folder", "dir", cfg.Ingest.WatchDir, "error", err)
			os.Exit(1)
		}
	}

	go func() {
		logger.Info("pdf-extractor listening", "addr", cfg.Server.HTTPAddr, "env", cfg.Server.Env)
		if err := e.Start(cfg.Server.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if healthServer != nil {
		healthServer.Shutdown()
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	if err := a.Workspace.Wait(shutdownCtx); err != nil {
		logger.Warn("pass still running at shutdown", "error", err)
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
}

// watchFolder queues every PDF dropped into the watched directory.
func watchFolder(ctx context.Context, cfg common.IngestConfig, ws *workspace.Workspace, logger *slog.Logger) error {
	events, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{cfg.WatchDir},
		InitialScan: true,
		Debounce:    cfg.WatchDebounce,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	go func() {
		for path := range events {
			c, err := ingest.ReadCandidate(path, "")
			if err != nil {
				logger.Warn("ingest.watch.read_failed", "path", path, "error", err)
				continue
			}
			report := ws.AddFiles([]upload.Candidate{c})
			logger.Info("ingest.watch.queued", "path", path, "added", len(report.Added), "rejected", len(report.Rejected))
		}
	}()
	return nil
}
