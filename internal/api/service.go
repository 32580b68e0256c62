package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "datakeeper.v1.KeeperService"

const (
	KeeperService_Register_FullMethodName          = "/" + ServiceName + "/Register"
	KeeperService_Login_FullMethodName             = "/" + ServiceName + "/Login"
	KeeperService_Logout_FullMethodName            = "/" + ServiceName + "/Logout"
	KeeperService_Store_FullMethodName             = "/" + ServiceName + "/Store"
	KeeperService_Get_FullMethodName               = "/" + ServiceName + "/Get"
	KeeperService_Help_FullMethodName              = "/" + ServiceName + "/Help"
	KeeperService_SetDirectMessages_FullMethodName = "/" + ServiceName + "/SetDirectMessages"
	KeeperService_Inbox_FullMethodName             = "/" + ServiceName + "/Inbox"
)

// KeeperServer is the server API for KeeperService.
type KeeperServer interface {
	Register(context.Context, *RegisterRequest) (*Reply, error)
	Login(context.Context, *LoginRequest) (*Reply, error)
	Logout(context.Context, *LogoutRequest) (*Reply, error)
	Store(context.Context, *StoreRequest) (*StoreReply, error)
	Get(context.Context, *GetRequest) (*Reply, error)
	Help(context.Context, *HelpRequest) (*Reply, error)
	SetDirectMessages(context.Context, *SetDirectMessagesRequest) (*Reply, error)
	Inbox(*InboxRequest, grpc.ServerStreamingServer[DirectMessage]) error
}

// UnimplementedKeeperServer can be embedded to have forward compatible implementations.
type UnimplementedKeeperServer struct{}

func (UnimplementedKeeperServer) Register(context.Context, *RegisterRequest) (*Reply, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedKeeperServer) Login(context.Context, *LoginRequest) (*Reply, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedKeeperServer) Logout(context.Context, *LogoutRequest) (*Reply, error) {
	return nil, status.Error(codes.Unimplemented, "method Logout not implemented")
}
func (UnimplementedKeeperServer) Store(context.Context, *StoreRequest) (*StoreReply, error) {
	return nil, status.Error(codes.Unimplemented, "method Store not implemented")
}
func (UnimplementedKeeperServer) Get(context.Context, *GetRequest) (*Reply, error) {
	return nil, status.Error(codes.Unimplemented, "method Get not implemented")
}
func (UnimplementedKeeperServer) Help(context.Context, *HelpRequest) (*Reply, error) {
	return nil, status.Error(codes.Unimplemented, "method Help not implemented")
}
func (UnimplementedKeeperServer) SetDirectMessages(context.Context, *SetDirectMessagesRequest) (*Reply, error) {
	return nil, status.Error(codes.Unimplemented, "method SetDirectMessages not implemented")
}
func (UnimplementedKeeperServer) Inbox(*InboxRequest, grpc.ServerStreamingServer[DirectMessage]) error {
	return status.Error(codes.Unimplemented, "method Inbox not implemented")
}

func RegisterKeeperServer(s grpc.ServiceRegistrar, srv KeeperServer) {
	s.RegisterService(&KeeperService_ServiceDesc, srv)
}

// unaryHandler adapts a typed KeeperServer method to a grpc.MethodDesc handler.
func unaryHandler[Req, Res any](fullMethod string, call func(KeeperServer, context.Context, *Req) (*Res, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(KeeperServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(KeeperServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func _KeeperService_Inbox_Handler(srv any, stream grpc.ServerStream) error {
	m := new(InboxRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(KeeperServer).Inbox(m, &grpc.GenericServerStream[InboxRequest, DirectMessage]{ServerStream: stream})
}

// KeeperService_ServiceDesc is the grpc.ServiceDesc for KeeperService.
var KeeperService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*KeeperServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(KeeperService_Register_FullMethodName, KeeperServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(KeeperService_Login_FullMethodName, KeeperServer.Login)},
		{MethodName: "Logout", Handler: unaryHandler(KeeperService_Logout_FullMethodName, KeeperServer.Logout)},
		{MethodName: "Store", Handler: unaryHandler(KeeperService_Store_FullMethodName, KeeperServer.Store)},
		{MethodName: "Get", Handler: unaryHandler(KeeperService_Get_FullMethodName, KeeperServer.Get)},
		{MethodName: "Help", Handler: unaryHandler(KeeperService_Help_FullMethodName, KeeperServer.Help)},
		{MethodName: "SetDirectMessages", Handler: unaryHandler(KeeperService_SetDirectMessages_FullMethodName, KeeperServer.SetDirectMessages)},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Inbox",
			Handler:       _KeeperService_Inbox_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "datakeeper/v1/keeper.json",
}

// KeeperClient is the client API for KeeperService.
type KeeperClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*Reply, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*Reply, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*Reply, error)
	Store(ctx context.Context, in *StoreRequest, opts ...grpc.CallOption) (*StoreReply, error)
	Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*Reply, error)
	Help(ctx context.Context, in *HelpRequest, opts ...grpc.CallOption) (*Reply, error)
	SetDirectMessages(ctx context.Context, in *SetDirectMessagesRequest, opts ...grpc.CallOption) (*Reply, error)
	Inbox(ctx context.Context, in *InboxRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[DirectMessage], error)
}

type keeperClient struct {
	cc grpc.ClientConnInterface
}

// NewKeeperClient returns a client that always talks the JSON codec.
func NewKeeperClient(cc grpc.ClientConnInterface) KeeperClient {
	return &keeperClient{cc}
}

func invoke[Res any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Res, error) {
	out := new(Res)
	cOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, cOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *keeperClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*Reply, error) {
	return invoke[Reply](ctx, c.cc, KeeperService_Register_FullMethodName, in, opts)
}

func (c *keeperClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*Reply, error) {
	return invoke[Reply](ctx, c.cc, KeeperService_Login_FullMethodName, in, opts)
}

func (c *keeperClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*Reply, error) {
	return invoke[Reply](ctx, c.cc, KeeperService_Logout_FullMethodName, in, opts)
}

func (c *keeperClient) Store(ctx context.Context, in *StoreRequest, opts ...grpc.CallOption) (*StoreReply, error) {
	return invoke[StoreReply](ctx, c.cc, KeeperService_Store_FullMethodName, in, opts)
}

func (c *keeperClient) Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*Reply, error) {
	return invoke[Reply](ctx, c.cc, KeeperService_Get_FullMethodName, in, opts)
}

func (c *keeperClient) Help(ctx context.Context, in *HelpRequest, opts ...grpc.CallOption) (*Reply, error) {
	return invoke[Reply](ctx, c.cc, KeeperService_Help_FullMethodName, in, opts)
}

func (c *keeperClient) SetDirectMessages(ctx context.Context, in *SetDirectMessagesRequest, opts ...grpc.CallOption) (*Reply, error) {
	return invoke[Reply](ctx, c.cc, KeeperService_SetDirectMessages_FullMethodName, in, opts)
}

func (c *keeperClient) Inbox(ctx context.Context, in *InboxRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[DirectMessage], error) {
	cOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	stream, err := c.cc.NewStream(ctx, &KeeperService_ServiceDesc.Streams[0], KeeperService_Inbox_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[InboxRequest, DirectMessage]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
