package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/adapter/grpc/marketpb"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/config"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/gateway/handler"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/gateway/router"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
)

func main() {
	appLogger := logger.NewLogger()
	defer func() { _ = appLogger.Sync() }()

	cfg, err := config.Load(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load API gateway config", zap.Error(err))
	}

	conn, err := grpc.NewClient(cfg.ListingServiceAddress,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	if err != nil {
		appLogger.Fatal("Failed to create market client", zap.String("address", cfg.ListingServiceAddress), zap.Error(err))
	}
	defer conn.Close()
	appLogger.Info("Market service client ready", zap.String("address", cfg.ListingServiceAddress))

	h := handler.NewListingHandler(marketpb.NewClient(conn), appLogger)
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router.New(h, router.Options{JWTSecret: cfg.JWTSecret, OfferRPS: cfg.GatewayOfferRPS}, appLogger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		appLogger.Info("Starting API gateway HTTP server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("API gateway HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("API gateway shutdown failed", zap.Error(err))
	}
}
