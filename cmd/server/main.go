package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/adapter/dnscheck"
	grpcAdapter "github.com/Abdurahmanit/GroupProject/domain-market/internal/adapter/grpc"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/adapter/grpc/marketpb"
	natsAdapter "github.com/Abdurahmanit/GroupProject/domain-market/internal/adapter/messaging/nats"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/adapter/repository/cache"
	mongoRepo "github.com/Abdurahmanit/GroupProject/domain-market/internal/adapter/repository/mongodb"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/adapter/storage/s3"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/config"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/catalog"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/generator"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/usecase"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/mailer"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/tracer"
)

func main() {
	appLogger := logger.NewLogger()
	defer func() { _ = appLogger.Sync() }()

	if err := run(appLogger); err != nil {
		appLogger.Fatal("Server exited with error", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}

func run(appLogger *logger.Logger) error {
	cfg, err := config.Load(appLogger)
	if err != nil {
		return err
	}
	appLogger = appLogger.With(zap.String("service", cfg.ServiceName))
	appLogger.Info("Application starting", zap.String("grpc_port", cfg.GRPCPort), zap.String("catalog_source", cfg.CatalogSource))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OTELEndpoint != "" {
		tp, err := tracer.InitTracer(ctx, cfg.ServiceName, cfg.OTELEndpoint, appLogger)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				appLogger.Error("Failed to shut down tracer provider", zap.Error(err))
			}
		}()
	} else {
		appLogger.Info("Tracing disabled (OTEL_EXPORTER_OTLP_ENDPOINT not set)")
	}

	mongoClient, err := mongoRepo.Connect(ctx, cfg.MongoURI, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.MongoDatabase)
	mongoRepo.EnsureIndexes(ctx, db, appLogger)

	listingRepo := mongoRepo.NewListingRepository(db, appLogger)
	favoriteRepo := mongoRepo.NewFavoriteRepository(db, appLogger)
	offerRepo := mongoRepo.NewOfferRepository(db, appLogger)

	redisClient, err := cache.NewClient(ctx, cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB, appLogger)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()
	listingCache := cache.NewListingCache(redisClient, cfg.ListingCacheTTL)
	sessionStore := cache.NewSessionStore(redisClient, cfg.FeedSessionTTL)

	natsConn, err := natsAdapter.Connect(cfg.NATSURL, cfg.ServiceName, appLogger)
	if err != nil {
		return err
	}
	defer natsConn.Close()
	publisher := natsAdapter.NewPublisher(natsConn, appLogger)
	subscriber := natsAdapter.NewSubscriber(natsConn, appLogger)
	defer subscriber.Close()

	storage, err := s3.NewStorage(ctx, cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, appLogger)
	if err != nil {
		return err
	}
	notifier := mailer.NewNotifier(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		Sender:   cfg.SMTPSender,
	}, appLogger)
	verifier := dnscheck.NewClient(cfg.DNSVerifyURL, cfg.DNSVerifyRPS, appLogger)

	metricsManager := metrics.NewMetricsManager("domain_market")

	cat := catalog.New(appLogger)
	var loader catalog.Loader = catalog.RepositoryLoader{Repo: listingRepo}
	if cfg.CatalogSource == "generated" {
		loader = catalog.GeneratedLoader{
			Size:    cfg.CatalogSeedSize,
			Seed:    cfg.CatalogSeed,
			Options: generator.DefaultOptions(time.Now().UTC()),
		}
	}
	if err := cat.Refresh(ctx, loader); err != nil {
		return err
	}
	metricsManager.CatalogListings.Set(float64(cat.Len()))

	listingUsecase := usecase.NewListingUsecase(listingRepo, listingCache, publisher, notifier, cat, metricsManager, appLogger)
	favoriteUsecase := usecase.NewFavoriteUsecase(favoriteRepo, listingRepo, appLogger)
	handler := grpcAdapter.NewHandler(grpcAdapter.Usecases{
		Listings:     listingUsecase,
		Feed:         usecase.NewFeedUsecase(cat, sessionStore, favoriteUsecase, metricsManager, appLogger),
		Favorites:    favoriteUsecase,
		Offers:       usecase.NewOfferUsecase(offerRepo, listingRepo, publisher, notifier, cat, metricsManager, appLogger),
		Photos:       usecase.NewPhotoUsecase(storage, listingRepo, listingCache, cat, appLogger),
		Verification: usecase.NewVerificationUsecase(verifier, listingRepo, listingCache, appLogger),
	}, appLogger)

	if err := subscriber.Subscribe(natsAdapter.CatalogSubjects, func(ctx context.Context, subject string, ev domain.ListingEvent) error {
		err := listingUsecase.ApplyEvent(ctx, subject, ev)
		metricsManager.CatalogListings.Set(float64(cat.Len()))
		return err
	}); err != nil {
		return err
	}

	grpcSrv, healthServer := grpcAdapter.NewGRPCServer(handler, appLogger, cfg.JWTSecret, metricsManager)
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("Starting gRPC server", zap.String("port", cfg.GRPCPort))
		if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return metricsManager.Serve(gctx, cfg.PrometheusMetricsPort, appLogger)
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down gRPC server")
		healthServer.SetServingStatus(marketpb.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		grpcSrv.GracefulStop()
		return nil
	})
	return g.Wait()
}
