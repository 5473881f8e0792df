package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	"github.com/jcmexdev/retail-checkout/internal/catalog/adapters/events"
	"github.com/jcmexdev/retail-checkout/internal/catalog/adapters/grpc/catalogv1"
	"github.com/jcmexdev/retail-checkout/internal/catalog/app"
	"github.com/jcmexdev/retail-checkout/internal/pkg/interceptors"
	"github.com/jcmexdev/retail-checkout/internal/pkg/messaging/kafka"
	"github.com/jcmexdev/retail-checkout/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger(getEnv("LOG_LEVEL", "info"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "catalog-service"))
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

	notifier := app.MultiNotifier{app.LogNotifier{}}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher := kafka.NewPublisher(brokers)
		defer publisher.Close()
		notifier = append(notifier, events.NewNotifier(publisher))
		slog.Info("publishing catalog events", "brokers", brokers)
	}

	addr := ":" + getEnv("PORT", "9092")
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		slog.Error("failed to listen", "addr", addr, "error", err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.TraceServerInterceptor()),
	)

	catalog := app.NewCatalog(app.WithNotifier(notifier))
	catalogv1.RegisterCatalogServer(grpcServer, catalogv1.NewServer(catalog))

	go func() {
		<-ctx.Done()
		slog.Info("shutting down catalog service")
		grpcServer.GracefulStop()
	}()

	slog.Info("catalog service gRPC running", "addr", addr)

	if err := grpcServer.Serve(lis); err != nil {
		slog.Error("failed to serve", "error", err)
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
