package grpc

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/adapter/grpc/marketpb"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/adapter/grpc/middleware"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/metrics"
)

// PublicMethods may be called without a token.
var PublicMethods = map[string]bool{
	marketpb.FullMethod("GetListing"): true,
	marketpb.FullMethod("QueryFeed"):  true,
	marketpb.FullMethod("RevealMore"): true,
}

// AdminMethods require the admin role claim.
var AdminMethods = map[string]bool{
	marketpb.FullMethod("ReviewListing"): true,
	marketpb.FullMethod("ListPending"):   true,
}

// NewGRPCServer builds a server with the DomainMarket and health services
// registered. Interceptors run recovery, logging, metrics, then auth.
func NewGRPCServer(h *Handler, appLogger *logger.Logger, jwtSecret string, m *metrics.MetricsManager) (*grpc.Server, *health.Server) {
	log := appLogger.Named("GRPCServer")
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			middleware.RecoveryInterceptor(log),
			middleware.LoggingInterceptor(log),
			middleware.MetricsInterceptor(m),
			middleware.AuthInterceptor(jwtSecret, log, PublicMethods, AdminMethods),
		),
	)
	marketpb.RegisterDomainMarketServer(server, h)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus(marketpb.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	log.Info("gRPC server configured with interceptors: Recovery, Logging, Metrics, Auth")
	return server, healthServer
}
