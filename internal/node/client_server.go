// Package node wires the Replica Store, Quorum Engine, and peer
// connection manager into the two gRPC services this process exposes:
// ClientServer (spec.md §4.5) and PeerServer (spec.md §4.3). Adapted
// from the teacher's internal/node.Server, whose Put/Get/Delete each
// routed through a "serve locally if owner, else forward" branch — here
// the routing question is simpler (there is exactly one coordinator,
// not a consistent-hash ring of owners) but the shape survives.
package node

import (
	"context"
	"time"

	"go.uber.org/zap"

	"quorumfs/internal/errs"
	"quorumfs/internal/peerconn"
	"quorumfs/internal/quorum"
	"quorumfs/internal/registry"
	"quorumfs/internal/rpcapi"
)

// requestRecorder observes a ClientService call's outcome and latency.
// *metrics.Metrics satisfies this.
type requestRecorder interface {
	ObserveRequest(op string, err error, duration time.Duration)
}

// ClientServer implements rpcapi.ClientServiceServer: the two
// operations a driver calls on whichever node it connects to.
type ClientServer struct {
	rpcapi.UnimplementedClientServiceServer

	nodeID  string
	reg     *registry.Registry
	engine  *quorum.Engine
	peers   *peerconn.Manager
	metrics requestRecorder
	logger  *zap.Logger
}

// NewClientServer builds a ClientServer for the node identified by
// nodeID. engine runs the coordinated protocol when this node is the
// coordinator; peers is used to forward to the coordinator otherwise.
func NewClientServer(nodeID string, reg *registry.Registry, engine *quorum.Engine, peers *peerconn.Manager, metrics requestRecorder, logger *zap.Logger) *ClientServer {
	return &ClientServer{
		nodeID:  nodeID,
		reg:     reg,
		engine:  engine,
		peers:   peers,
		metrics: metrics,
		logger:  logger,
	}
}

// ReadFromFile returns file's full current content, forwarding to the
// coordinator if this node isn't it (spec.md §4.4.4).
func (s *ClientServer) ReadFromFile(ctx context.Context, req *rpcapi.ReadRequest) (*rpcapi.ReadResponse, error) {
	start := time.Now()
	s.logger.Info("read_from_file", zap.String("node_id", s.nodeID), zap.String("file_name", req.FileName))

	content, err := s.readFromFile(ctx, req.FileName)

	s.logger.Info("read_from_file done",
		zap.String("node_id", s.nodeID),
		zap.String("file_name", req.FileName),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err))
	if s.metrics != nil {
		s.metrics.ObserveRequest("read_from_file", err, time.Since(start))
	}
	if err != nil {
		return nil, grpcError(err)
	}
	return &rpcapi.ReadResponse{Content: content}, nil
}

func (s *ClientServer) readFromFile(ctx context.Context, fileName string) (string, error) {
	if s.reg.IsCoordinator(s.nodeID) {
		return s.engine.Read(ctx, fileName, "")
	}

	peerClient, err := s.peers.PeerClient(s.reg.Coordinator())
	if err != nil {
		return "", errs.Wrap(errs.KindTransport, err, "connect to coordinator %s", s.reg.Coordinator())
	}
	resp, err := peerClient.ForwardedReadFromFile(ctx, &rpcapi.ForwardedReadRequest{FileName: fileName})
	if err != nil {
		return "", errs.Wrap(errs.KindTransport, err, "forward read_from_file(%s) to coordinator", fileName)
	}
	return resp.Content, nil
}

// WriteToFile appends update to file and returns the post-append
// content, forwarding to the coordinator if this node isn't it
// (spec.md §4.4.4).
func (s *ClientServer) WriteToFile(ctx context.Context, req *rpcapi.WriteRequest) (*rpcapi.WriteResponse, error) {
	start := time.Now()
	s.logger.Info("write_to_file", zap.String("node_id", s.nodeID), zap.String("file_name", req.FileName))

	content, err := s.writeToFile(ctx, req.FileName, req.Update)

	s.logger.Info("write_to_file done",
		zap.String("node_id", s.nodeID),
		zap.String("file_name", req.FileName),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err))
	if s.metrics != nil {
		s.metrics.ObserveRequest("write_to_file", err, time.Since(start))
	}
	if err != nil {
		return nil, grpcError(err)
	}
	return &rpcapi.WriteResponse{Content: content}, nil
}

func (s *ClientServer) writeToFile(ctx context.Context, fileName, update string) (string, error) {
	if s.reg.IsCoordinator(s.nodeID) {
		return s.engine.Write(ctx, fileName, update, "")
	}

	peerClient, err := s.peers.PeerClient(s.reg.Coordinator())
	if err != nil {
		return "", errs.Wrap(errs.KindTransport, err, "connect to coordinator %s", s.reg.Coordinator())
	}
	resp, err := peerClient.ForwardedWriteToFile(ctx, &rpcapi.ForwardedWriteRequest{FileName: fileName, Update: update})
	if err != nil {
		return "", errs.Wrap(errs.KindTransport, err, "forward write_to_file(%s) to coordinator", fileName)
	}
	return resp.Content, nil
}
