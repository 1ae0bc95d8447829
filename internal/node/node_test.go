package node

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"quorumfs/internal/peerconn"
	"quorumfs/internal/quorum"
	"quorumfs/internal/registry"
	"quorumfs/internal/replicastore"
	"quorumfs/internal/rpcapi"
	"quorumfs/internal/version"
)

func seededStore(t *testing.T, nodeID, fileName, content string) *replicastore.Store {
	t.Helper()
	sourceDir := t.TempDir()
	srcPath := filepath.Join(sourceDir, fileName)
	require.NoError(t, os.WriteFile(srcPath, []byte(content), 0o644))

	s, err := replicastore.New(nodeID, t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Seed(fileName, srcPath))
	return s
}

func TestPeerServer_GetFileVersion_UnknownFile(t *testing.T) {
	store, err := replicastore.New("1", t.TempDir())
	require.NoError(t, err)
	reg, err := registry.New(map[string]registry.Node{"1": {ID: "1", Host: "127.0.0.1", Port: 9001}}, "1", 1, 1)
	require.NoError(t, err)

	ps := NewPeerServer("1", reg, nil, store, zap.NewNop())
	resp, err := ps.GetFileVersion(context.Background(), &rpcapi.VersionRequest{FileName: "missing.txt"})
	require.NoError(t, err)
	assert.Equal(t, int64(version.Unknown), resp.Version)
}

func TestPeerServer_LeafOperations(t *testing.T) {
	store := seededStore(t, "2", "a.txt", "")
	reg, err := registry.New(map[string]registry.Node{
		"1": {ID: "1", Host: "127.0.0.1", Port: 9001},
		"2": {ID: "2", Host: "127.0.0.1", Port: 9002},
	}, "1", 2, 2)
	require.NoError(t, err)

	ps := NewPeerServer("2", reg, nil, store, zap.NewNop())

	appendResp, err := ps.AppendToSpecificFile(context.Background(), &rpcapi.AppendRequest{
		FileName: "a.txt", Update: "x", NewVersion: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "x\n", appendResp.Content)

	verResp, err := ps.GetFileVersion(context.Background(), &rpcapi.VersionRequest{FileName: "a.txt"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), verResp.Version)

	readResp, err := ps.ReadFileFromNode(context.Background(), &rpcapi.RawReadRequest{FileName: "a.txt"})
	require.NoError(t, err)
	assert.Equal(t, "x\n", readResp.Content)

	overwriteResp, err := ps.UpdateFileToText(context.Background(), &rpcapi.OverwriteRequest{
		FileName: "a.txt", FullContent: "y\n", NewVersion: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "y\n", overwriteResp.Content)
}

func TestPeerServer_ForwardedCalls_RejectedWhenNotCoordinator(t *testing.T) {
	store, err := replicastore.New("2", t.TempDir())
	require.NoError(t, err)
	reg, err := registry.New(map[string]registry.Node{
		"1": {ID: "1", Host: "127.0.0.1", Port: 9001},
		"2": {ID: "2", Host: "127.0.0.1", Port: 9002},
	}, "1", 2, 2)
	require.NoError(t, err)

	// node "2" is not the coordinator.
	ps := NewPeerServer("2", reg, nil, store, zap.NewNop())

	_, err = ps.ForwardedReadFromFile(context.Background(), &rpcapi.ForwardedReadRequest{FileName: "a.txt"})
	require.Error(t, err)

	_, err = ps.ForwardedWriteToFile(context.Background(), &rpcapi.ForwardedWriteRequest{FileName: "a.txt", Update: "x"})
	require.Error(t, err)
}

// localPeerResolver resolves only the local node by wrapping its
// Replica Store directly, enough to let an Engine running with a
// single-node quorum serve a self-contained test.
type localPeerResolver struct {
	id    string
	store *replicastore.Store
}

func (r *localPeerResolver) Resolve(nodeID string) (peerconn.PeerHandle, error) {
	if nodeID != r.id {
		return nil, fmt.Errorf("no such node %s", nodeID)
	}
	return peerconn.NewLocalHandle(r.store), nil
}

func TestClientServer_CoordinatorServesLocally(t *testing.T) {
	store := seededStore(t, "1", "a.txt", "")
	reg, err := registry.New(map[string]registry.Node{"1": {ID: "1", Host: "127.0.0.1", Port: 9001}}, "1", 1, 1)
	require.NoError(t, err)

	engine := quorum.New(reg, store, &localPeerResolver{id: "1", store: store}, nil, zap.NewNop())
	cs := NewClientServer("1", reg, engine, nil, nil, zap.NewNop())

	writeResp, err := cs.WriteToFile(context.Background(), &rpcapi.WriteRequest{FileName: "a.txt", Update: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", writeResp.Content)

	readResp, err := cs.ReadFromFile(context.Background(), &rpcapi.ReadRequest{FileName: "a.txt"})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", readResp.Content)
}

func TestClientServer_NonCoordinatorForwardsOverGRPC(t *testing.T) {
	coordStore := seededStore(t, "1", "a.txt", "")
	// The coordinator's own Engine runs a single-node quorum over its
	// own registry; it never needs to know node "2" exists.
	coordReg, err := registry.New(map[string]registry.Node{"1": {ID: "1", Host: "127.0.0.1", Port: 0}}, "1", 1, 1)
	require.NoError(t, err)

	engine := quorum.New(coordReg, coordStore, &localPeerResolver{id: "1", store: coordStore}, nil, zap.NewNop())
	coordinatorPeerServer := NewPeerServer("1", coordReg, engine, coordStore, zap.NewNop())

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()

	grpcServer := grpc.NewServer()
	rpcapi.RegisterPeerServiceServer(grpcServer, coordinatorPeerServer)
	go grpcServer.Serve(lis)
	defer grpcServer.Stop()

	// Node "2"'s own registry only needs to know how to reach the
	// coordinator; its quorum sizes are irrelevant here since node "2"
	// only ever forwards.
	addr := lis.Addr().(*net.TCPAddr)
	reg2, err := registry.New(map[string]registry.Node{
		"1": {ID: "1", Host: "127.0.0.1", Port: addr.Port},
		"2": {ID: "2", Host: "127.0.0.1", Port: 0},
	}, "1", 2, 2)
	require.NoError(t, err)

	node2Store, err := replicastore.New("2", t.TempDir())
	require.NoError(t, err)
	peers := peerconn.NewManager("2", node2Store, reg2)
	defer peers.Close()

	cs := NewClientServer("2", reg2, nil, peers, nil, zap.NewNop())

	readResp, err := cs.ReadFromFile(context.Background(), &rpcapi.ReadRequest{FileName: "a.txt"})
	require.NoError(t, err)
	assert.Equal(t, "", readResp.Content)

	writeResp, err := cs.WriteToFile(context.Background(), &rpcapi.WriteRequest{FileName: "a.txt", Update: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi\n", writeResp.Content)
}
