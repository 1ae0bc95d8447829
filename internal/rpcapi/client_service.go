package rpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ClientService_ReadFromFile_FullMethodName = "/fileserver.ClientService/ReadFromFile"
	ClientService_WriteToFile_FullMethodName  = "/fileserver.ClientService/WriteToFile"
)

// ClientServiceClient is the client-facing namespace: what
// cmd/fileclient, or any other driver, calls on whichever node it is
// pointed at. A non-coordinator node relays the call to the coordinator
// over PeerServiceClient before replying (spec.md §4.4.4).
type ClientServiceClient interface {
	ReadFromFile(ctx context.Context, in *ReadRequest, opts ...grpc.CallOption) (*ReadResponse, error)
	WriteToFile(ctx context.Context, in *WriteRequest, opts ...grpc.CallOption) (*WriteResponse, error)
}

type clientServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewClientServiceClient wraps cc as a ClientServiceClient. cc must have
// been dialed with CodecName selected, as cmd/fileclient does.
func NewClientServiceClient(cc grpc.ClientConnInterface) ClientServiceClient {
	return &clientServiceClient{cc}
}

func (c *clientServiceClient) ReadFromFile(ctx context.Context, in *ReadRequest, opts ...grpc.CallOption) (*ReadResponse, error) {
	out := new(ReadResponse)
	if err := c.cc.Invoke(ctx, ClientService_ReadFromFile_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *clientServiceClient) WriteToFile(ctx context.Context, in *WriteRequest, opts ...grpc.CallOption) (*WriteResponse, error) {
	out := new(WriteResponse)
	if err := c.cc.Invoke(ctx, ClientService_WriteToFile_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ClientServiceServer is implemented by internal/node.ClientServer.
type ClientServiceServer interface {
	ReadFromFile(context.Context, *ReadRequest) (*ReadResponse, error)
	WriteToFile(context.Context, *WriteRequest) (*WriteResponse, error)
}

// UnimplementedClientServiceServer can be embedded to satisfy
// ClientServiceServer for methods not yet provided.
type UnimplementedClientServiceServer struct{}

func (UnimplementedClientServiceServer) ReadFromFile(context.Context, *ReadRequest) (*ReadResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ReadFromFile not implemented")
}

func (UnimplementedClientServiceServer) WriteToFile(context.Context, *WriteRequest) (*WriteResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method WriteToFile not implemented")
}

func _ClientService_ReadFromFile_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ReadRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClientServiceServer).ReadFromFile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ClientService_ReadFromFile_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ClientServiceServer).ReadFromFile(ctx, req.(*ReadRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ClientService_WriteToFile_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(WriteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClientServiceServer).WriteToFile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ClientService_WriteToFile_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ClientServiceServer).WriteToFile(ctx, req.(*WriteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ClientService_ServiceDesc is registered on the shared *grpc.Server
// alongside PeerService_ServiceDesc, the Go equivalent of the original
// implementation's TMultiplexedProcessor namespacing two Thrift
// services on one socket.
var ClientService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "fileserver.ClientService",
	HandlerType: (*ClientServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ReadFromFile", Handler: _ClientService_ReadFromFile_Handler},
		{MethodName: "WriteToFile", Handler: _ClientService_WriteToFile_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fileserver.proto",
}

// RegisterClientServiceServer registers srv's implementation on s.
func RegisterClientServiceServer(s grpc.ServiceRegistrar, srv ClientServiceServer) {
	s.RegisterService(&ClientService_ServiceDesc, srv)
}
