package node

import (
	"context"

	"go.uber.org/zap"

	"quorumfs/internal/errs"
	"quorumfs/internal/quorum"
	"quorumfs/internal/registry"
	"quorumfs/internal/replicastore"
	"quorumfs/internal/rpcapi"
	"quorumfs/internal/version"
)

// PeerServer implements rpcapi.PeerServiceServer: the forwarding
// entrypoints a non-coordinator node calls, and the four leaf
// operations (spec.md §4.2) the Quorum Engine calls on a quorum member.
// The leaf operations lock the local Replica Store's own per-file mutex
// for the duration of the mutation — the lock hierarchy of spec.md §5
// guarantees this never recurses into a coordinator's own mutex, since
// these handlers never call back into ClientServer or Engine.
type PeerServer struct {
	rpcapi.UnimplementedPeerServiceServer

	nodeID string
	reg    *registry.Registry
	engine *quorum.Engine
	local  *replicastore.Store
	logger *zap.Logger
}

// NewPeerServer builds a PeerServer for the node identified by nodeID.
func NewPeerServer(nodeID string, reg *registry.Registry, engine *quorum.Engine, local *replicastore.Store, logger *zap.Logger) *PeerServer {
	return &PeerServer{nodeID: nodeID, reg: reg, engine: engine, local: local, logger: logger}
}

func (s *PeerServer) requireCoordinator() error {
	if !s.reg.IsCoordinator(s.nodeID) {
		return errs.New(errs.KindNotCoordinator, "node %s received a forwarded call but is not the coordinator", s.nodeID)
	}
	return nil
}

// ForwardedReadFromFile runs the coordinated read protocol on behalf of
// a non-coordinator node that relayed a client read (spec.md §4.4.4).
func (s *PeerServer) ForwardedReadFromFile(ctx context.Context, req *rpcapi.ForwardedReadRequest) (*rpcapi.ForwardedReadResponse, error) {
	if err := s.requireCoordinator(); err != nil {
		return nil, grpcError(err)
	}
	content, err := s.engine.Read(ctx, req.FileName, "")
	if err != nil {
		return nil, grpcError(err)
	}
	return &rpcapi.ForwardedReadResponse{Content: content}, nil
}

// ForwardedWriteToFile runs the coordinated write protocol on behalf of
// a non-coordinator node that relayed a client write (spec.md §4.4.4).
func (s *PeerServer) ForwardedWriteToFile(ctx context.Context, req *rpcapi.ForwardedWriteRequest) (*rpcapi.ForwardedWriteResponse, error) {
	if err := s.requireCoordinator(); err != nil {
		return nil, grpcError(err)
	}
	content, err := s.engine.Write(ctx, req.FileName, req.Update, "")
	if err != nil {
		return nil, grpcError(err)
	}
	return &rpcapi.ForwardedWriteResponse{Content: content}, nil
}

// GetFileVersion returns this node's recorded version for file, or
// version.Unknown if it isn't tracked.
func (s *PeerServer) GetFileVersion(_ context.Context, req *rpcapi.VersionRequest) (*rpcapi.VersionResponse, error) {
	v := s.local.LocalVersion(req.FileName)
	return &rpcapi.VersionResponse{Version: int64(v)}, nil
}

// ReadFileFromNode returns this node's on-disk content for file.
func (s *PeerServer) ReadFileFromNode(_ context.Context, req *rpcapi.RawReadRequest) (*rpcapi.RawReadResponse, error) {
	content, err := s.local.LocalRead(req.FileName)
	if err != nil {
		return nil, grpcError(err)
	}
	return &rpcapi.RawReadResponse{Content: content}, nil
}

// AppendToSpecificFile appends update to file on this node at
// newVersion, under this node's own per-file lock.
func (s *PeerServer) AppendToSpecificFile(_ context.Context, req *rpcapi.AppendRequest) (*rpcapi.AppendResponse, error) {
	var content string
	err := s.local.WithLock(req.FileName, func() error {
		var appendErr error
		content, appendErr = s.local.LocalAppend(req.FileName, req.Update, version.Number(req.NewVersion))
		return appendErr
	})
	if err != nil {
		return nil, grpcError(err)
	}
	return &rpcapi.AppendResponse{Content: content}, nil
}

// UpdateFileToText overwrites file on this node with fullContent at
// newVersion, under this node's own per-file lock.
func (s *PeerServer) UpdateFileToText(_ context.Context, req *rpcapi.OverwriteRequest) (*rpcapi.OverwriteResponse, error) {
	var content string
	err := s.local.WithLock(req.FileName, func() error {
		var overwriteErr error
		content, overwriteErr = s.local.LocalOverwrite(req.FileName, req.FullContent, version.Number(req.NewVersion))
		return overwriteErr
	})
	if err != nil {
		return nil, grpcError(err)
	}
	return &rpcapi.OverwriteResponse{Content: content}, nil
}
