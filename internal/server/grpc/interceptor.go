package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/datakeeper/internal/api"
	"github.com/dmitrijs2005/datakeeper/internal/auth"
	"github.com/dmitrijs2005/datakeeper/internal/common"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	externalIDKey ctxKey = "externalID"
	requestIDKey  ctxKey = "requestID"
)

// anonymousMethods may be called without an identity token.
var anonymousMethods = map[string]bool{
	api.KeeperService_Help_FullMethodName: true,
}

func externalIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(externalIDKey).(int64)
	return id, ok
}

// authenticate verifies the identity token carried in the incoming metadata
// and returns ctx with the asserted external id attached.
func (s *GRPCServer) authenticate(ctx context.Context, method string) (context.Context, error) {
	var token string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.IdentityTokenHeaderName); len(values) > 0 {
			token = values[0]
		}
	}
	if token == "" {
		if anonymousMethods[method] {
			return ctx, nil
		}
		return nil, status.Error(codes.Unauthenticated, "missing identity token")
	}

	id, err := auth.ExternalIDFromToken(token, s.secretKey)
	if err != nil {
		s.logger.Warn(ctx, "identity rejected", "method", method, "error", err.Error())
		return nil, status.Error(codes.Unauthenticated, "invalid identity token")
	}

	return context.WithValue(ctx, externalIDKey, id), nil
}

func (s *GRPCServer) identityInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	ctx, err := s.authenticate(ctx, info.FullMethod)
	if err != nil {
		return nil, err
	}
	return handler(ctx, req)
}

type identityStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *identityStream) Context() context.Context { return w.ctx }

func (s *GRPCServer) identityStreamInterceptor(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	ctx, err := s.authenticate(ss.Context(), info.FullMethod)
	if err != nil {
		return err
	}
	return handler(srv, &identityStream{ServerStream: ss, ctx: ctx})
}

// loggingInterceptor tags each command with a request id and logs its outcome.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	requestID := uuid.NewString()
	ctx = context.WithValue(ctx, requestIDKey, requestID)

	start := time.Now()
	resp, err := handler(ctx, req)

	args := []any{
		"request_id", requestID,
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	}
	if id, ok := externalIDFromContext(ctx); ok {
		args = append(args, "external_id", id)
	}
	s.logger.Info(ctx, "command served", args...)

	return resp, err
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
