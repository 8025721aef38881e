package middleware

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/auth"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
)

// AuthInterceptor validates the bearer token and stores the caller identity
// in the context. Public methods accept anonymous calls but still pick up a
// valid token when one is sent; admin methods require the admin role.
func AuthInterceptor(jwtSecret string, log *logger.Logger, publicMethods, adminMethods map[string]bool) grpc.UnaryServerInterceptor {
	log = log.Named("AuthInterceptor")
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		var header string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get("authorization"); len(vals) > 0 {
				header = vals[0]
			}
		}

		if publicMethods[info.FullMethod] && header == "" {
			return handler(ctx, req)
		}

		token, err := auth.BearerToken(header)
		if err != nil {
			log.Debug("Missing or malformed authorization header", zap.String("method", info.FullMethod))
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		id, err := auth.ParseToken(jwtSecret, token)
		if err != nil {
			log.Warn("Token validation failed", zap.String("method", info.FullMethod), zap.Error(err))
			if errors.Is(err, auth.ErrInvalidToken) {
				return nil, status.Error(codes.Unauthenticated, err.Error())
			}
			return nil, status.Error(codes.Unauthenticated, "token is invalid")
		}
		if adminMethods[info.FullMethod] && !id.IsAdmin() {
			log.Warn("Non-admin call to admin method", zap.String("method", info.FullMethod), zap.String("user_id", id.UserID))
			return nil, status.Error(codes.PermissionDenied, "admin role required")
		}

		return handler(auth.WithIdentity(ctx, id), req)
	}
}
