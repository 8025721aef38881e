package middleware

import (
	"context"
	"path"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/metrics"
)

// MetricsInterceptor records latency and error codes per method name.
func MetricsInterceptor(m *metrics.MetricsManager) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		m.ObserveRequest(path.Base(info.FullMethod), status.Code(err).String(), time.Since(start))
		return resp, err
	}
}
