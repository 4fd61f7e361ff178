package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/linkproof/internal/common"
	"github.com/dmitrijs2005/linkproof/internal/rpc"
)

type ctxKey string

const (
	UserIDKey      ctxKey = "userID"
	accessTokenKey ctxKey = "accessToken"
)

// protectedMethods require an access token in metadata.
var protectedMethods = map[string]bool{
	rpc.LinkProof_Submit_FullMethodName: true,
	rpc.LinkProof_List_FullMethodName:   true,
	rpc.LinkProof_Logout_FullMethodName: true,
}

func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

func accessTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(accessTokenKey).(string)
	return t
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if protectedMethods[info.FullMethod] {

		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		userID, err := s.users.Authenticate(ctx, accessToken)
		if err != nil {
			s.logger.Warn(ctx, "unauthorized call", "method", info.FullMethod, "error", err)
			return nil, toStatus(err)
		}

		ctx = context.WithValue(ctx, UserIDKey, userID)
		ctx = context.WithValue(ctx, accessTokenKey, accessToken)
	}

	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Info(ctx, "rpc", "method", info.FullMethod, "code", status.Code(err).String(), "duration", time.Since(start))
	return resp, err
}
