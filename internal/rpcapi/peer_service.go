package rpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	PeerService_ForwardedReadFromFile_FullMethodName  = "/fileserver.PeerService/ForwardedReadFromFile"
	PeerService_ForwardedWriteToFile_FullMethodName   = "/fileserver.PeerService/ForwardedWriteToFile"
	PeerService_GetFileVersion_FullMethodName         = "/fileserver.PeerService/GetFileVersion"
	PeerService_ReadFileFromNode_FullMethodName        = "/fileserver.PeerService/ReadFileFromNode"
	PeerService_AppendToSpecificFile_FullMethodName   = "/fileserver.PeerService/AppendToSpecificFile"
	PeerService_UpdateFileToText_FullMethodName        = "/fileserver.PeerService/UpdateFileToText"
)

// PeerServiceClient is the node-to-node namespace: forwarding a client
// call to the coordinator, and the coordinator probing/reading/writing
// individual quorum members (spec.md §4.4.2–§4.4.4).
type PeerServiceClient interface {
	ForwardedReadFromFile(ctx context.Context, in *ForwardedReadRequest, opts ...grpc.CallOption) (*ForwardedReadResponse, error)
	ForwardedWriteToFile(ctx context.Context, in *ForwardedWriteRequest, opts ...grpc.CallOption) (*ForwardedWriteResponse, error)
	GetFileVersion(ctx context.Context, in *VersionRequest, opts ...grpc.CallOption) (*VersionResponse, error)
	ReadFileFromNode(ctx context.Context, in *RawReadRequest, opts ...grpc.CallOption) (*RawReadResponse, error)
	AppendToSpecificFile(ctx context.Context, in *AppendRequest, opts ...grpc.CallOption) (*AppendResponse, error)
	UpdateFileToText(ctx context.Context, in *OverwriteRequest, opts ...grpc.CallOption) (*OverwriteResponse, error)
}

type peerServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPeerServiceClient wraps cc as a PeerServiceClient. cc must have
// been dialed with CodecName selected, as peerconn.Manager does.
func NewPeerServiceClient(cc grpc.ClientConnInterface) PeerServiceClient {
	return &peerServiceClient{cc}
}

func (c *peerServiceClient) ForwardedReadFromFile(ctx context.Context, in *ForwardedReadRequest, opts ...grpc.CallOption) (*ForwardedReadResponse, error) {
	out := new(ForwardedReadResponse)
	if err := c.cc.Invoke(ctx, PeerService_ForwardedReadFromFile_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *peerServiceClient) ForwardedWriteToFile(ctx context.Context, in *ForwardedWriteRequest, opts ...grpc.CallOption) (*ForwardedWriteResponse, error) {
	out := new(ForwardedWriteResponse)
	if err := c.cc.Invoke(ctx, PeerService_ForwardedWriteToFile_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *peerServiceClient) GetFileVersion(ctx context.Context, in *VersionRequest, opts ...grpc.CallOption) (*VersionResponse, error) {
	out := new(VersionResponse)
	if err := c.cc.Invoke(ctx, PeerService_GetFileVersion_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *peerServiceClient) ReadFileFromNode(ctx context.Context, in *RawReadRequest, opts ...grpc.CallOption) (*RawReadResponse, error) {
	out := new(RawReadResponse)
	if err := c.cc.Invoke(ctx, PeerService_ReadFileFromNode_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *peerServiceClient) AppendToSpecificFile(ctx context.Context, in *AppendRequest, opts ...grpc.CallOption) (*AppendResponse, error) {
	out := new(AppendResponse)
	if err := c.cc.Invoke(ctx, PeerService_AppendToSpecificFile_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *peerServiceClient) UpdateFileToText(ctx context.Context, in *OverwriteRequest, opts ...grpc.CallOption) (*OverwriteResponse, error) {
	out := new(OverwriteResponse)
	if err := c.cc.Invoke(ctx, PeerService_UpdateFileToText_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// PeerServiceServer is implemented by internal/node.PeerServer.
type PeerServiceServer interface {
	ForwardedReadFromFile(context.Context, *ForwardedReadRequest) (*ForwardedReadResponse, error)
	ForwardedWriteToFile(context.Context, *ForwardedWriteRequest) (*ForwardedWriteResponse, error)
	GetFileVersion(context.Context, *VersionRequest) (*VersionResponse, error)
	ReadFileFromNode(context.Context, *RawReadRequest) (*RawReadResponse, error)
	AppendToSpecificFile(context.Context, *AppendRequest) (*AppendResponse, error)
	UpdateFileToText(context.Context, *OverwriteRequest) (*OverwriteResponse, error)
}

// UnimplementedPeerServiceServer can be embedded to satisfy
// PeerServiceServer for methods not yet provided.
type UnimplementedPeerServiceServer struct{}

func (UnimplementedPeerServiceServer) ForwardedReadFromFile(context.Context, *ForwardedReadRequest) (*ForwardedReadResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ForwardedReadFromFile not implemented")
}

func (UnimplementedPeerServiceServer) ForwardedWriteToFile(context.Context, *ForwardedWriteRequest) (*ForwardedWriteResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ForwardedWriteToFile not implemented")
}

func (UnimplementedPeerServiceServer) GetFileVersion(context.Context, *VersionRequest) (*VersionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetFileVersion not implemented")
}

func (UnimplementedPeerServiceServer) ReadFileFromNode(context.Context, *RawReadRequest) (*RawReadResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ReadFileFromNode not implemented")
}

func (UnimplementedPeerServiceServer) AppendToSpecificFile(context.Context, *AppendRequest) (*AppendResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AppendToSpecificFile not implemented")
}

func (UnimplementedPeerServiceServer) UpdateFileToText(context.Context, *OverwriteRequest) (*OverwriteResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UpdateFileToText not implemented")
}

func _PeerService_ForwardedReadFromFile_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ForwardedReadRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PeerServiceServer).ForwardedReadFromFile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PeerService_ForwardedReadFromFile_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PeerServiceServer).ForwardedReadFromFile(ctx, req.(*ForwardedReadRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _PeerService_ForwardedWriteToFile_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ForwardedWriteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PeerServiceServer).ForwardedWriteToFile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PeerService_ForwardedWriteToFile_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PeerServiceServer).ForwardedWriteToFile(ctx, req.(*ForwardedWriteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _PeerService_GetFileVersion_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(VersionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PeerServiceServer).GetFileVersion(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PeerService_GetFileVersion_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PeerServiceServer).GetFileVersion(ctx, req.(*VersionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _PeerService_ReadFileFromNode_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RawReadRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PeerServiceServer).ReadFileFromNode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PeerService_ReadFileFromNode_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PeerServiceServer).ReadFileFromNode(ctx, req.(*RawReadRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _PeerService_AppendToSpecificFile_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(AppendRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PeerServiceServer).AppendToSpecificFile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PeerService_AppendToSpecificFile_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PeerServiceServer).AppendToSpecificFile(ctx, req.(*AppendRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _PeerService_UpdateFileToText_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(OverwriteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PeerServiceServer).UpdateFileToText(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PeerService_UpdateFileToText_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PeerServiceServer).UpdateFileToText(ctx, req.(*OverwriteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// PeerService_ServiceDesc is registered on the shared *grpc.Server
// alongside ClientService_ServiceDesc.
var PeerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "fileserver.PeerService",
	HandlerType: (*PeerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ForwardedReadFromFile", Handler: _PeerService_ForwardedReadFromFile_Handler},
		{MethodName: "ForwardedWriteToFile", Handler: _PeerService_ForwardedWriteToFile_Handler},
		{MethodName: "GetFileVersion", Handler: _PeerService_GetFileVersion_Handler},
		{MethodName: "ReadFileFromNode", Handler: _PeerService_ReadFileFromNode_Handler},
		{MethodName: "AppendToSpecificFile", Handler: _PeerService_AppendToSpecificFile_Handler},
		{MethodName: "UpdateFileToText", Handler: _PeerService_UpdateFileToText_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fileserver.proto",
}

// RegisterPeerServiceServer registers srv's implementation on s.
func RegisterPeerServiceServer(s grpc.ServiceRegistrar, srv PeerServiceServer) {
	s.RegisterService(&PeerService_ServiceDesc, srv)
}
