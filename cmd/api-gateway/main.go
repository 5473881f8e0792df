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

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/jcmexdev/retail-checkout/internal/api-gateway/core/services"
	"github.com/jcmexdev/retail-checkout/internal/api-gateway/infra/adapters/events"
	"github.com/jcmexdev/retail-checkout/internal/api-gateway/infra/adapters/memory"
	"github.com/jcmexdev/retail-checkout/internal/api-gateway/infra/adapters/service"
	"github.com/jcmexdev/retail-checkout/internal/api-gateway/infra/httpx"
	cartdomain "github.com/jcmexdev/retail-checkout/internal/cart/domain"
	"github.com/jcmexdev/retail-checkout/internal/catalog/adapters/grpc/catalogv1"
	"github.com/jcmexdev/retail-checkout/internal/coordinator"
	"github.com/jcmexdev/retail-checkout/internal/coordinator/checkoutlog/sqlite"
	"github.com/jcmexdev/retail-checkout/internal/pkg/cache"
	"github.com/jcmexdev/retail-checkout/internal/pkg/clock"
	"github.com/jcmexdev/retail-checkout/internal/pkg/interceptors"
	"github.com/jcmexdev/retail-checkout/internal/pkg/messaging"
	"github.com/jcmexdev/retail-checkout/internal/pkg/messaging/kafka"
	"github.com/jcmexdev/retail-checkout/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger(getEnv("LOG_LEVEL", "info"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "api-gateway"))
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

	httpAddr := getEnv("HTTP_ADDR", ":8080")
	catalogAddr := getEnv("CATALOG_SERVICE_ADDR", ":9092")

	catalogConn := createGRPCConn(catalogAddr)
	defer catalogConn.Close()
	catalogService := service.NewGRPCCatalogService(catalogv1.NewClient(catalogConn))

	checkoutLog, err := sqlite.Open(getEnv("CHECKOUT_LOG_PATH", "checkout_log.db"))
	if err != nil {
		slog.Error("failed to open checkout log", "error", err)
		os.Exit(1)
	}
	defer checkoutLog.Close()

	var publisher messaging.Publisher = &messaging.MemoryPublisher{}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		kp := kafka.NewPublisher(brokers)
		defer kp.Close()
		publisher = kp
	}

	var idempotencyCache cache.Cache
	if redisAddr := getEnv("REDIS_ADDR", ""); redisAddr != "" {
		idempotencyCache = cache.NewRedisCache(redisAddr, "api-gateway")
	}

	pipeline := coordinator.NewPipeline(
		coordinator.WithCheckoutLog(checkoutLog),
		coordinator.WithReporter(coordinator.MultiReporter{coordinator.LogReporter{}, events.NewReporter(publisher)}),
	)

	products := memory.NewProductRepository()
	accounts := memory.NewAccountRepository()
	checkouts := services.NewCheckoutService(products, accounts, pipeline, clock.System{}, shippingPolicy())

	handler := httpx.NewHandler(catalogService, products, accounts, checkouts, idempotencyCache, checkoutLog)
	srv := &http.Server{
		Addr:              httpAddr,
		Handler:           httpx.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http shutdown error", "error", err)
		}
	}()

	slog.Info("api gateway running", "addr", httpAddr, "catalog_addr", catalogAddr)
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

func shippingPolicy() cartdomain.ShippingPolicy {
	policy := cartdomain.DefaultShippingPolicy()
	raw := getEnv("SHIPPING_RATE_PER_KG", "")
	if raw == "" {
		return policy
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil || rate.IsNegative() {
		slog.Warn("ignoring invalid SHIPPING_RATE_PER_KG", "value", raw)
		return policy
	}
	policy.RatePerKg = rate
	return policy
}

func createGRPCConn(addr string) *grpc.ClientConn {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithUnaryInterceptor(interceptors.PropagateClientInterceptor()),
	)
	if err != nil {
		slog.Error("could not connect", "addr", addr, "error", err)
		os.Exit(1)
	}
	return conn
}
