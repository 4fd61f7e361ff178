package grpc

import (
	"bytes"
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/linkproof/internal/common"
	"github.com/dmitrijs2005/linkproof/internal/rpc"
)

// handler implements rpc.LinkProofServer on top of the services.
type handler struct {
	s *GRPCServer
}

// toStatus maps a service error to a gRPC status. Internal details are not
// sent to the client.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrInvalidDigest),
		errors.Is(err, common.ErrInputUnavailable):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrTokenExpired):
		// clients match this message to trigger a refresh
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrLoginAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrStoreUnavailable):
		return status.Error(codes.Unavailable, "store unavailable")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func (h *handler) fail(ctx context.Context, op string, err error) error {
	st := toStatus(err)
	if c := status.Code(st); c == codes.Internal || c == codes.Unavailable {
		h.s.logger.Error(ctx, op+" failed", "error", err)
	}
	return st
}

func (h *handler) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.RegisterResponse, error) {
	h.s.logger.Info(ctx, "Registration request")

	result, err := h.s.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		return nil, h.fail(ctx, "register", err)
	}

	h.s.logger.Info(ctx, "Registered", "user_id", result.ID)
	return &rpc.RegisterResponse{ID: result.ID}, nil
}

func (h *handler) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {
	tokens, err := h.s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, h.fail(ctx, "login", err)
	}

	return &rpc.LoginResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (h *handler) RefreshToken(ctx context.Context, req *rpc.RefreshTokenRequest) (*rpc.RefreshTokenResponse, error) {
	tokens, err := h.s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, h.fail(ctx, "refresh token", err)
	}

	return &rpc.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (h *handler) Logout(ctx context.Context, req *rpc.LogoutRequest) (*rpc.LogoutResponse, error) {
	if err := h.s.users.Logout(ctx, accessTokenFromContext(ctx), req.RefreshToken); err != nil {
		return nil, h.fail(ctx, "logout", err)
	}

	return &rpc.LogoutResponse{}, nil
}

func (h *handler) Submit(ctx context.Context, req *rpc.SubmitRequest) (*rpc.SubmitResponse, error) {
	res, err := h.s.receipts.Submit(ctx, userIDFromContext(ctx), req.Filename, req.ContactEmail, bytes.NewReader(req.Content))
	if err != nil {
		return nil, h.fail(ctx, "submit", err)
	}

	return &rpc.SubmitResponse{
		ReceiptID: res.Receipt.ID,
		Digest:    res.Receipt.Digest,
		Link:      res.Link,
		CreatedAt: res.Receipt.CreatedAt,
	}, nil
}

func (h *handler) Verify(ctx context.Context, req *rpc.VerifyRequest) (*rpc.VerifyResponse, error) {
	exists, err := h.s.receipts.Verify(ctx, bytes.NewReader(req.Content))
	if err != nil {
		return nil, h.fail(ctx, "verify", err)
	}

	return &rpc.VerifyResponse{Exists: exists}, nil
}

func (h *handler) List(ctx context.Context, _ *rpc.ListRequest) (*rpc.ListResponse, error) {
	list, err := h.s.receipts.List(ctx, userIDFromContext(ctx))
	if err != nil {
		return nil, h.fail(ctx, "list", err)
	}

	out := make([]rpc.Receipt, 0, len(list))
	for _, r := range list {
		out = append(out, rpc.Receipt{
			ID:        r.ID,
			Digest:    r.Digest,
			Filename:  r.DisplayName(),
			CreatedAt: r.CreatedAt,
			Link:      h.s.receipts.Link(r),
		})
	}
	return &rpc.ListResponse{Receipts: out}, nil
}

func (h *handler) Lookup(ctx context.Context, req *rpc.LookupRequest) (*rpc.LookupResponse, error) {
	r, found, err := h.s.receipts.Lookup(ctx, req.Digest)
	if err != nil {
		return nil, h.fail(ctx, "lookup", err)
	}
	if !found {
		return nil, status.Error(codes.NotFound, "no proof recorded for this digest")
	}

	return &rpc.LookupResponse{Digest: r.Digest, CreatedAt: r.CreatedAt, Link: h.s.receipts.Link(r)}, nil
}

func (h *handler) Ping(ctx context.Context, req *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}
