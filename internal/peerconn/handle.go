// Package peerconn supplies the Quorum Engine with a PeerHandle for any
// node id in the cluster, whether that id is the local node or a remote
// one — the local/remote polymorphism design note from spec.md §9. It
// also owns the lazy gRPC connection pool to remote peers, adapted from
// the teacher's internal/node.ClientManager.
package peerconn

import (
	"context"

	"quorumfs/internal/errs"
	"quorumfs/internal/replicastore"
	"quorumfs/internal/rpcapi"
	"quorumfs/internal/version"
)

// PeerHandle is the capability set the Quorum Engine calls identically
// regardless of whether the target is this process (Local) or another
// node reached over gRPC (Remote): spec.md §4.2's four peer-leaf
// operations, minus forwarding, which never runs inside a quorum
// fan-out.
type PeerHandle interface {
	GetFileVersion(ctx context.Context, file string) (version.Number, error)
	ReadFileFromNode(ctx context.Context, file string) (string, error)
	AppendWithVersion(ctx context.Context, file, update string, newVersion version.Number) (string, error)
	OverwriteWithVersion(ctx context.Context, file, fullContent string, newVersion version.Number) (string, error)
}

// localHandle satisfies PeerHandle by calling straight into this node's
// own Replica Store, in-process, the self-call optimization spec.md
// §4.3 requires so the coordinator can be a first-class quorum member
// without opening a socket to itself.
type localHandle struct {
	store *replicastore.Store
}

// NewLocalHandle wraps store as a PeerHandle for in-process calls.
func NewLocalHandle(store *replicastore.Store) PeerHandle {
	return &localHandle{store: store}
}

func (h *localHandle) GetFileVersion(_ context.Context, file string) (version.Number, error) {
	return h.store.LocalVersion(file), nil
}

func (h *localHandle) ReadFileFromNode(_ context.Context, file string) (string, error) {
	return h.store.LocalRead(file)
}

func (h *localHandle) AppendWithVersion(_ context.Context, file, update string, newVersion version.Number) (string, error) {
	return h.store.LocalAppend(file, update, newVersion)
}

func (h *localHandle) OverwriteWithVersion(_ context.Context, file, fullContent string, newVersion version.Number) (string, error) {
	return h.store.LocalOverwrite(file, fullContent, newVersion)
}

// remoteHandle satisfies PeerHandle over a PeerServiceClient to another
// node.
type remoteHandle struct {
	nodeID string
	client rpcapi.PeerServiceClient
}

// NewRemoteHandle wraps client as a PeerHandle for RPCs to nodeID.
func NewRemoteHandle(nodeID string, client rpcapi.PeerServiceClient) PeerHandle {
	return &remoteHandle{nodeID: nodeID, client: client}
}

func (h *remoteHandle) GetFileVersion(ctx context.Context, file string) (version.Number, error) {
	resp, err := h.client.GetFileVersion(ctx, &rpcapi.VersionRequest{FileName: file})
	if err != nil {
		return version.Unknown, errs.Wrap(errs.KindTransport, err, "get_file_version(%s) on node %s", file, h.nodeID)
	}
	return version.Number(resp.Version), nil
}

func (h *remoteHandle) ReadFileFromNode(ctx context.Context, file string) (string, error) {
	resp, err := h.client.ReadFileFromNode(ctx, &rpcapi.RawReadRequest{FileName: file})
	if err != nil {
		return "", errs.Wrap(errs.KindTransport, err, "read_file_from_node(%s) on node %s", file, h.nodeID)
	}
	return resp.Content, nil
}

func (h *remoteHandle) AppendWithVersion(ctx context.Context, file, update string, newVersion version.Number) (string, error) {
	resp, err := h.client.AppendToSpecificFile(ctx, &rpcapi.AppendRequest{
		FileName:   file,
		Update:     update,
		NewVersion: int64(newVersion),
	})
	if err != nil {
		return "", errs.Wrap(errs.KindTransport, err, "append_to_specific_file(%s) on node %s", file, h.nodeID)
	}
	return resp.Content, nil
}

func (h *remoteHandle) OverwriteWithVersion(ctx context.Context, file, fullContent string, newVersion version.Number) (string, error) {
	resp, err := h.client.UpdateFileToText(ctx, &rpcapi.OverwriteRequest{
		FileName:    file,
		FullContent: fullContent,
		NewVersion:  int64(newVersion),
	})
	if err != nil {
		return "", errs.Wrap(errs.KindTransport, err, "update_file_to_text(%s) on node %s", file, h.nodeID)
	}
	return resp.Content, nil
}
