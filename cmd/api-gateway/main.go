package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/jcmexdev/travel-agency/internal/agency/app"
	"github.com/jcmexdev/travel-agency/internal/api-gateway/infra/adapters/service"
	"github.com/jcmexdev/travel-agency/internal/api-gateway/infra/httpx"
	"github.com/jcmexdev/travel-agency/internal/coordinator/pipelinelog/sqlite"
	"github.com/jcmexdev/travel-agency/internal/pkg/cache"
	"github.com/jcmexdev/travel-agency/internal/pkg/interceptors"
	"github.com/jcmexdev/travel-agency/internal/pkg/paymentrpc"
	"github.com/jcmexdev/travel-agency/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger(getEnv("LOG_LEVEL", "info"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, telemetry.TracerConfig{
		ServiceName: getEnv("OTEL_SERVICE_NAME", "api-gateway"),
		Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		Environment: getEnv("DEPLOY_ENV", "local"),
	})
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	var cfg app.Config

	// payments run in-process unless a payment service is configured
	if addr := os.Getenv("PAYMENT_SERVICE_ADDR"); addr != "" {
		conn := createGRPCConn(addr)
		defer conn.Close()
		cfg.Payer = service.NewGRPCPaymentService(paymentrpc.NewClient(conn))
		slog.Info("using remote payment service", "addr", addr)
	}

	if path := os.Getenv("PIPELINE_LOG_PATH"); path != "" {
		repo, err := sqlite.Open(path)
		if err != nil {
			slog.Error("failed to open pipeline log", "path", path, "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		cfg.Log = repo
	}

	var idem cache.Cache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rc := cache.NewRedisCache(addr, "api-gateway")
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			slog.Warn("redis not reachable, idempotent replays degraded", "addr", addr, "error", err)
		}
		idem = rc
	}

	handler := httpx.NewHandler(app.New(cfg))
	srv := &http.Server{
		Addr:              ":" + getEnv("PORT", "8080"),
		Handler:           httpx.NewRouter(handler, idem),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http shutdown error", "error", err)
		}
	}()

	slog.Info("API gateway running", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func createGRPCConn(addr string) *grpc.ClientConn {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithUnaryInterceptor(interceptors.RequestIDClientInterceptor()),
	)
	if err != nil {
		slog.Error("could not create grpc client", "addr", addr, "error", err)
		os.Exit(1)
	}
	return conn
}
