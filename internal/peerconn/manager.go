package peerconn

import (
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"quorumfs/internal/registry"
	"quorumfs/internal/replicastore"
	"quorumfs/internal/rpcapi"
)

// dialTimeout bounds how long a lazy connection to a peer may take to
// establish before Resolve or PeerClient gives up.
const dialTimeout = 5 * time.Second

// Manager resolves a node id to a PeerHandle, dialing and caching a
// gRPC connection to remote peers lazily on first use, adapted from the
// teacher's internal/node.ClientManager connection pool. The local node
// id always resolves to an in-process handle, never a dialed one.
type Manager struct {
	localID string
	store   *replicastore.Store
	reg     *registry.Registry

	mu    sync.RWMutex
	conns map[string]*grpc.ClientConn
}

// NewManager builds a Manager for a node whose id is localID, backed by
// store for local self-calls and reg for peer address lookup.
func NewManager(localID string, store *replicastore.Store, reg *registry.Registry) *Manager {
	return &Manager{
		localID: localID,
		store:   store,
		reg:     reg,
		conns:   make(map[string]*grpc.ClientConn),
	}
}

// Resolve returns a PeerHandle for nodeID: the local in-process handle
// if nodeID is this node, otherwise a lazily-dialed remote handle.
func (m *Manager) Resolve(nodeID string) (PeerHandle, error) {
	if nodeID == m.localID {
		return NewLocalHandle(m.store), nil
	}

	conn, err := m.connFor(nodeID)
	if err != nil {
		return nil, err
	}
	return NewRemoteHandle(nodeID, rpcapi.NewPeerServiceClient(conn)), nil
}

// PeerClient returns a PeerServiceClient for nodeID, used for the
// forwarding RPCs (ForwardedReadFromFile, ForwardedWriteToFile) a
// non-coordinator node issues to the coordinator. Unlike Resolve, this
// always dials, even for the local id, since a caller that reaches for
// PeerClient already knows it needs the wire path.
func (m *Manager) PeerClient(nodeID string) (rpcapi.PeerServiceClient, error) {
	conn, err := m.connFor(nodeID)
	if err != nil {
		return nil, err
	}
	return rpcapi.NewPeerServiceClient(conn), nil
}

func (m *Manager) connFor(nodeID string) (*grpc.ClientConn, error) {
	m.mu.RLock()
	conn, ok := m.conns[nodeID]
	m.mu.RUnlock()
	if ok {
		return conn, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if conn, ok := m.conns[nodeID]; ok {
		return conn, nil
	}

	node, ok := m.reg.Lookup(nodeID)
	if !ok {
		return nil, fmt.Errorf("peerconn: unknown node %q", nodeID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	conn, err := grpc.DialContext(ctx, node.Addr(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rpcapi.CodecName)),
	)
	if err != nil {
		return nil, fmt.Errorf("peerconn: dial %s (node %s): %w", node.Addr(), nodeID, err)
	}

	m.conns[nodeID] = conn
	return conn, nil
}

// Close tears down every dialed connection. Local self-calls need no
// cleanup.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for id, conn := range m.conns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("peerconn: close connection to %s: %w", id, err)
		}
	}
	m.conns = make(map[string]*grpc.ClientConn)
	return firstErr
}
