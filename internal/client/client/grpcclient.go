package client

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/linkproof/internal/client/models"
	"github.com/dmitrijs2005/linkproof/internal/common"
	"github.com/dmitrijs2005/linkproof/internal/rpc"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpc.LinkProofClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = access
	s.refreshToken = refresh
}

// accessTokenInterceptor attaches the access token to every call and, when
// the server reports it expired, refreshes the pair once and retries.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	access, refresh := s.tokens()
	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil || method == rpc.LinkProof_RefreshToken_FullMethodName {
		return err
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	if st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" {
		return err
	}

	resp, rerr := s.client.RefreshToken(ctx, &rpc.RefreshTokenRequest{RefreshToken: refresh})
	if rerr != nil {
		return rerr
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

func NewLinkProofClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpc.NewLinkProofClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Register(ctx context.Context, userName, password string) error {
	_, err := s.client.Register(ctx, &rpc.RegisterRequest{Username: userName, Password: password})
	return s.mapError(err)
}

func (s *GRPCClient) Login(ctx context.Context, userName, password string) error {
	resp, err := s.client.Login(ctx, &rpc.LoginRequest{Username: userName, Password: password})
	if err != nil {
		return s.mapError(err)
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

func (s *GRPCClient) Resume(ctx context.Context, refreshToken string) error {
	resp, err := s.client.RefreshToken(ctx, &rpc.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return s.mapError(err)
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

func (s *GRPCClient) RefreshToken() string {
	_, refresh := s.tokens()
	return refresh
}

// Logout revokes the session on the server and forgets the local tokens even
// when the server call fails.
func (s *GRPCClient) Logout(ctx context.Context) error {
	_, refresh := s.tokens()
	_, err := s.client.Logout(ctx, &rpc.LogoutRequest{RefreshToken: refresh})
	s.setTokens("", "")
	return s.mapError(err)
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &rpc.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Submit(ctx context.Context, filename, email string, content []byte) (*models.Receipt, error) {
	req := &rpc.SubmitRequest{Filename: filename, ContactEmail: email, Content: content}

	resp, err := s.client.Submit(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &models.Receipt{
		ID:        resp.ReceiptID,
		Digest:    resp.Digest,
		Filename:  filename,
		CreatedAt: resp.CreatedAt,
		Link:      resp.Link,
	}, nil
}

func (s *GRPCClient) Verify(ctx context.Context, content []byte) (bool, error) {
	resp, err := s.client.Verify(ctx, &rpc.VerifyRequest{Content: content})
	if err != nil {
		return false, s.mapError(err)
	}
	return resp.Exists, nil
}

func (s *GRPCClient) List(ctx context.Context) ([]models.Receipt, error) {
	resp, err := s.client.List(ctx, &rpc.ListRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}

	result := make([]models.Receipt, 0, len(resp.Receipts))
	for _, r := range resp.Receipts {
		result = append(result, models.Receipt{
			ID:        r.ID,
			Digest:    r.Digest,
			Filename:  r.Filename,
			CreatedAt: r.CreatedAt,
			Link:      r.Link,
		})
	}
	return result, nil
}

func (s *GRPCClient) Lookup(ctx context.Context, digest string) (*models.Proof, error) {
	resp, err := s.client.Lookup(ctx, &rpc.LookupRequest{Digest: digest})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &models.Proof{Digest: resp.Digest, CreatedAt: resp.CreatedAt, Link: resp.Link}, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument, codes.ResourceExhausted:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
