// Package pb describes the spectator service: players publish snapshots of
// their game, spectators watch them. Messages are well known protobuf types,
// snapshots travel as a structpb.Struct (see FromSnapshot).
package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName    = "termtris.Spectator"
	PublishMethod  = "/termtris.Spectator/Publish"
	WatchMethod    = "/termtris.Spectator/Watch"
	SessionsMethod = "/termtris.Spectator/Sessions"
)

type SpectatorServer interface {
	// Publish receives the snapshots of one game until the player closes the stream.
	Publish(grpc.ClientStreamingServer[structpb.Struct, emptypb.Empty]) error
	// Watch streams the snapshots of the session in the request.
	Watch(*wrapperspb.StringValue, grpc.ServerStreamingServer[structpb.Struct]) error
	// Sessions lists the ids of the games being published.
	Sessions(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
}

// UnimplementedSpectatorServer can be embedded to have forward compatible implementations.
type UnimplementedSpectatorServer struct{}

func (UnimplementedSpectatorServer) Publish(grpc.ClientStreamingServer[structpb.Struct, emptypb.Empty]) error {
	return status.Error(codes.Unimplemented, "method Publish not implemented")
}

func (UnimplementedSpectatorServer) Watch(*wrapperspb.StringValue, grpc.ServerStreamingServer[structpb.Struct]) error {
	return status.Error(codes.Unimplemented, "method Watch not implemented")
}

func (UnimplementedSpectatorServer) Sessions(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Sessions not implemented")
}

var SpectatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SpectatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Sessions", Handler: sessionsHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Publish", Handler: publishHandler, ClientStreams: true},
		{StreamName: "Watch", Handler: watchHandler, ServerStreams: true},
	},
	Metadata: "spectator",
}

func RegisterSpectatorServer(s grpc.ServiceRegistrar, srv SpectatorServer) {
	s.RegisterService(&SpectatorServiceDesc, srv)
}

func publishHandler(srv any, stream grpc.ServerStream) error {
	return srv.(SpectatorServer).Publish(&grpc.GenericServerStream[structpb.Struct, emptypb.Empty]{ServerStream: stream})
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(wrapperspb.StringValue)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(SpectatorServer).Watch(in, &grpc.GenericServerStream[wrapperspb.StringValue, structpb.Struct]{ServerStream: stream})
}

func sessionsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SpectatorServer).Sessions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SessionsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SpectatorServer).Sessions(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

type SpectatorClient interface {
	Publish(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[structpb.Struct, emptypb.Empty], error)
	Watch(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error)
	Sessions(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
}

type spectatorClient struct {
	cc grpc.ClientConnInterface
}

func NewSpectatorClient(cc grpc.ClientConnInterface) SpectatorClient {
	return &spectatorClient{cc: cc}
}

func (c *spectatorClient) Publish(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[structpb.Struct, emptypb.Empty], error) {
	stream, err := c.cc.NewStream(ctx, &SpectatorServiceDesc.Streams[0], PublishMethod, opts...)
	if err != nil {
		return nil, err
	}
	return &grpc.GenericClientStream[structpb.Struct, emptypb.Empty]{ClientStream: stream}, nil
}

func (c *spectatorClient) Watch(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error) {
	stream, err := c.cc.NewStream(ctx, &SpectatorServiceDesc.Streams[1], WatchMethod, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[wrapperspb.StringValue, structpb.Struct]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *spectatorClient) Sessions(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, SessionsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
