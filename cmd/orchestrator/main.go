package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ccastillo/delivery-orchestrator/internal/config"
	"github.com/ccastillo/delivery-orchestrator/internal/gateway"
	"github.com/ccastillo/delivery-orchestrator/internal/idempotency"
	"github.com/ccastillo/delivery-orchestrator/internal/orchestrator"
	"github.com/ccastillo/delivery-orchestrator/internal/telemetry"
	"github.com/ccastillo/delivery-orchestrator/internal/upstream"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	metricsHandler, shutdownTelemetry, err := telemetry.Init(ctx, "delivery-orchestrator", "1.0.0", cfg.OTLPEndpoint)
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTelemetry(ctx) }()

	httpClient := &http.Client{
		Timeout:   cfg.RequestTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	users := upstream.NewUsers(cfg.UserServiceURL, httpClient)
	products := upstream.NewProducts(cfg.ProductServiceURL, httpClient)
	orders := upstream.NewOrders(cfg.OrderServiceURL, httpClient)

	cache := idempotency.New(cfg.IdempotencyCapacity, cfg.IdempotencyTTL)
	orch := orchestrator.New(users, products, orders, cache, cfg.TaxRate, logger)
	handler := gateway.NewHandler(orch, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /cart/price-quote", telemetry.WithHTTPRoute(handler.HandleQuote))
	mux.HandleFunc("POST /orders", telemetry.WithHTTPRoute(handler.HandleCreateOrder))
	mux.HandleFunc("PUT /orders/{id}/cancel", telemetry.WithHTTPRoute(handler.HandleCancelOrder))
	mux.HandleFunc("GET /health", telemetry.WithHTTPRoute(handler.HandleHealth))
	mux.HandleFunc("GET /_debug/addresses/{userID}", telemetry.WithHTTPRoute(handler.HandleDebugAddresses))
	mux.Handle("GET /metrics", metricsHandler)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Idempotency-Key", "X-Request-Id"},
		ExposedHeaders:   []string{"Location", "X-Request-Id"},
		AllowCredentials: true,
	})

	root := gateway.RequestID(logger, corsMiddleware.Handler(mux))

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: otelhttp.NewHandler(root, "delivery-orchestrator",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("starting delivery orchestrator", "port", cfg.Port,
			"user_service", cfg.UserServiceURL,
			"product_service", cfg.ProductServiceURL,
			"order_service", cfg.OrderServiceURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
