// Package grpc exposes LinkProof as the linkproof.v1.LinkProof gRPC service.
package grpc

import (
	"context"
	"io"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/linkproof/internal/logging"
	"github.com/dmitrijs2005/linkproof/internal/rpc"
	"github.com/dmitrijs2005/linkproof/internal/server/models"
	"github.com/dmitrijs2005/linkproof/internal/server/services"
)

// UserService is the account side of the API.
type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (string, error)
}

// ReceiptService is the proof side of the API.
type ReceiptService interface {
	Submit(ctx context.Context, ownerID, filename, contactEmail string, content io.Reader) (*services.SubmitResult, error)
	Verify(ctx context.Context, content io.Reader) (bool, error)
	List(ctx context.Context, ownerID string) ([]*models.Receipt, error)
	Lookup(ctx context.Context, raw string) (*models.Receipt, bool, error)
	Link(r *models.Receipt) string
}

type GRPCServer struct {
	address    string
	users      UserService
	receipts   ReceiptService
	logger     logging.Logger
	maxMsgSize int
}

// NewGRPCServer creates the server. maxUploadSize bounds the file carried by
// Submit and Verify; the message limit allows for base64 expansion.
func NewGRPCServer(a string, l logging.Logger, us UserService, rs ReceiptService, maxUploadSize int64) *GRPCServer {
	return &GRPCServer{
		address:    a,
		logger:     l.With("module", "grpc_server"),
		users:      us,
		receipts:   rs,
		maxMsgSize: int(maxUploadSize/3*4) + 64<<10,
	}
}

// NewServer builds the grpc.Server with the service and interceptors registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor),
		grpc.MaxRecvMsgSize(s.maxMsgSize),
	)
	rpc.RegisterLinkProofServer(srv, &handler{s: s})
	return srv
}

// Run listens on the configured address until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis and stops gracefully when ctx ends.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}
