package handlers

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"social-graph/metrics"
	socialpb "social-graph/proto/social"
	"social-graph/util"
)

// publicMethods can be called without a bearer token.
var publicMethods = map[string]bool{
	socialpb.SocialService_Ping_FullMethodName:    true,
	socialpb.SocialService_Profile_FullMethodName: true,
}

// AuthInterceptor validates the bearer token from the authorization metadata
// and stores its claims in the context. Public methods pass without a token
// but still get claims when one is sent.
func AuthInterceptor(tokens *util.TokenManager) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		raw, err := util.ExtractBearer(ctx)
		if err != nil {
			if publicMethods[info.FullMethod] && errors.Is(err, util.ErrMissingToken) {
				return handler(ctx, req)
			}
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		return handler(util.WithClaims(ctx, claims), req)
	}
}

// LoggingInterceptor logs each call and records its duration.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		latency := time.Since(start)

		metrics.ObserveRequest("grpc", info.FullMethod, code.String(), latency)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("latency", latency),
		}
		if code == codes.Internal || code == codes.Unknown {
			logger.Error("gRPC request", append(fields, zap.Error(err))...)
		} else {
			logger.Info("gRPC request", fields...)
		}
		return resp, err
	}
}
