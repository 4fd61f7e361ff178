package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "linkproof.v1.LinkProof"

const (
	LinkProof_Register_FullMethodName     = "/" + ServiceName + "/Register"
	LinkProof_Login_FullMethodName        = "/" + ServiceName + "/Login"
	LinkProof_RefreshToken_FullMethodName = "/" + ServiceName + "/RefreshToken"
	LinkProof_Logout_FullMethodName       = "/" + ServiceName + "/Logout"
	LinkProof_Submit_FullMethodName       = "/" + ServiceName + "/Submit"
	LinkProof_Verify_FullMethodName       = "/" + ServiceName + "/Verify"
	LinkProof_List_FullMethodName         = "/" + ServiceName + "/List"
	LinkProof_Lookup_FullMethodName       = "/" + ServiceName + "/Lookup"
	LinkProof_Ping_FullMethodName         = "/" + ServiceName + "/Ping"
)

// LinkProofServer is the server API for the LinkProof service.
type LinkProofServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
	Submit(context.Context, *SubmitRequest) (*SubmitResponse, error)
	Verify(context.Context, *VerifyRequest) (*VerifyResponse, error)
	List(context.Context, *ListRequest) (*ListResponse, error)
	Lookup(context.Context, *LookupRequest) (*LookupResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

// unaryHandler adapts a typed server method to a grpc.MethodHandler.
func unaryHandler[Req, Resp any](fullMethod string, call func(LinkProofServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LinkProofServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LinkProofServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// LinkProof_ServiceDesc is the grpc.ServiceDesc for the LinkProof service.
var LinkProof_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LinkProofServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(LinkProof_Register_FullMethodName, LinkProofServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(LinkProof_Login_FullMethodName, LinkProofServer.Login)},
		{MethodName: "RefreshToken", Handler: unaryHandler(LinkProof_RefreshToken_FullMethodName, LinkProofServer.RefreshToken)},
		{MethodName: "Logout", Handler: unaryHandler(LinkProof_Logout_FullMethodName, LinkProofServer.Logout)},
		{MethodName: "Submit", Handler: unaryHandler(LinkProof_Submit_FullMethodName, LinkProofServer.Submit)},
		{MethodName: "Verify", Handler: unaryHandler(LinkProof_Verify_FullMethodName, LinkProofServer.Verify)},
		{MethodName: "List", Handler: unaryHandler(LinkProof_List_FullMethodName, LinkProofServer.List)},
		{MethodName: "Lookup", Handler: unaryHandler(LinkProof_Lookup_FullMethodName, LinkProofServer.Lookup)},
		{MethodName: "Ping", Handler: unaryHandler(LinkProof_Ping_FullMethodName, LinkProofServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "linkproof/v1/linkproof.proto",
}

// RegisterLinkProofServer registers srv with s.
func RegisterLinkProofServer(s grpc.ServiceRegistrar, srv LinkProofServer) {
	s.RegisterService(&LinkProof_ServiceDesc, srv)
}

// LinkProofClient is the client API for the LinkProof service.
type LinkProofClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error)
	Submit(ctx context.Context, in *SubmitRequest, opts ...grpc.CallOption) (*SubmitResponse, error)
	Verify(ctx context.Context, in *VerifyRequest, opts ...grpc.CallOption) (*VerifyResponse, error)
	List(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListResponse, error)
	Lookup(ctx context.Context, in *LookupRequest, opts ...grpc.CallOption) (*LookupResponse, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
}

type linkProofClient struct {
	cc grpc.ClientConnInterface
}

// NewLinkProofClient returns a client that sends every call with the JSON codec.
func NewLinkProofClient(cc grpc.ClientConnInterface) LinkProofClient {
	return &linkProofClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *linkProofClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, LinkProof_Register_FullMethodName, in, opts)
}

func (c *linkProofClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, LinkProof_Login_FullMethodName, in, opts)
}

func (c *linkProofClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, LinkProof_RefreshToken_FullMethodName, in, opts)
}

func (c *linkProofClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error) {
	return invoke[LogoutResponse](ctx, c.cc, LinkProof_Logout_FullMethodName, in, opts)
}

func (c *linkProofClient) Submit(ctx context.Context, in *SubmitRequest, opts ...grpc.CallOption) (*SubmitResponse, error) {
	return invoke[SubmitResponse](ctx, c.cc, LinkProof_Submit_FullMethodName, in, opts)
}

func (c *linkProofClient) Verify(ctx context.Context, in *VerifyRequest, opts ...grpc.CallOption) (*VerifyResponse, error) {
	return invoke[VerifyResponse](ctx, c.cc, LinkProof_Verify_FullMethodName, in, opts)
}

func (c *linkProofClient) List(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListResponse, error) {
	return invoke[ListResponse](ctx, c.cc, LinkProof_List_FullMethodName, in, opts)
}

func (c *linkProofClient) Lookup(ctx context.Context, in *LookupRequest, opts ...grpc.CallOption) (*LookupResponse, error) {
	return invoke[LookupResponse](ctx, c.cc, LinkProof_Lookup_FullMethodName, in, opts)
}

func (c *linkProofClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, LinkProof_Ping_FullMethodName, in, opts)
}
