package quorum

import (
	"context"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"quorumfs/internal/errs"
	"quorumfs/internal/peerconn"
	"quorumfs/internal/registry"
	"quorumfs/internal/replicastore"
	"quorumfs/internal/version"
)

// Resolver resolves a node id to a PeerHandle. *peerconn.Manager
// satisfies this.
type Resolver interface {
	Resolve(nodeID string) (peerconn.PeerHandle, error)
}

// AckRecorder observes one quorum-member acknowledgement during
// propagation. *metrics.Metrics satisfies this.
type AckRecorder interface {
	ObserveAck(op string)
}

// AssembleQuorum chooses k members uniformly at random, without
// replacement, from ids minus exclude (spec.md §4.4.1). The coordinator
// is not added automatically; it appears only if the sample happens to
// include it.
func AssembleQuorum(ids []string, exclude string, k int) ([]string, error) {
	eligible := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == exclude {
			continue
		}
		eligible = append(eligible, id)
	}
	if len(eligible) < k {
		return nil, errs.New(errs.KindConfig, "only %d eligible nodes, need %d for a quorum of size %d", len(eligible), k, k)
	}

	rand.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	return eligible[:k], nil
}

// ProbeFreshest RPCs get_file_version on every quorum member in order
// and returns the id and version of the member with the strictly
// greatest version, ties broken by first-seen (spec.md §4.4.2 step 3).
// Per the resolved error-handling policy (spec.md §7), any member that
// cannot be reached fails the whole probe rather than being skipped.
func ProbeFreshest(ctx context.Context, quorumIDs []string, file string, resolve func(string) (peerconn.PeerHandle, error)) (string, version.Number, error) {
	freshestID := ""
	freshestVersion := version.Unknown

	for _, id := range quorumIDs {
		handle, err := resolve(id)
		if err != nil {
			return "", version.Unknown, errs.Wrap(errs.KindTransport, err, "resolve quorum member %s", id)
		}
		v, err := handle.GetFileVersion(ctx, file)
		if err != nil {
			return "", version.Unknown, err
		}
		if v > freshestVersion {
			freshestVersion = v
			freshestID = id
		}
	}

	if freshestID == "" {
		return "", version.Unknown, errs.New(errs.KindQuorumUnavailable, "no quorum member reported a valid version for %q", file)
	}
	return freshestID, freshestVersion, nil
}

// Engine runs the coordinated read and write protocols of spec.md
// §4.4.2–§4.4.3. It must only be driven on the coordinator node; the
// caller (internal/node.PeerServer) is responsible for the defensive
// is-coordinator check of §4.4.4.
type Engine struct {
	reg    *registry.Registry
	local  *replicastore.Store
	peers  Resolver
	acks   AckRecorder
	logger *zap.Logger
}

// New builds an Engine over reg (for quorum sizing and membership),
// local (the coordinator's own Replica Store, locked per file for the
// duration of each operation), and peers (for resolving quorum members
// to PeerHandles). acks may be nil if ack metrics aren't wanted.
func New(reg *registry.Registry, local *replicastore.Store, peers Resolver, acks AckRecorder, logger *zap.Logger) *Engine {
	return &Engine{reg: reg, local: local, peers: peers, acks: acks, logger: logger}
}

// Read runs the coordinated read protocol for file, excluding exclude
// (normally empty) from quorum assembly, and returns the content of the
// freshest quorum member (spec.md §4.4.2).
func (e *Engine) Read(ctx context.Context, file, exclude string) (string, error) {
	var result string
	err := e.local.WithLock(file, func() error {
		quorumIDs, err := AssembleQuorum(e.reg.IDs(), exclude, e.reg.ReadQuorumSize())
		if err != nil {
			return err
		}

		freshestID, freshestVersion, err := ProbeFreshest(ctx, quorumIDs, file, e.peers.Resolve)
		if err != nil {
			return err
		}
		e.logger.Debug("read quorum probed",
			zap.String("file_name", file),
			zap.Strings("quorum", quorumIDs),
			zap.String("freshest_node", freshestID),
			zap.Int64("freshest_version", int64(freshestVersion)))

		handle, err := e.peers.Resolve(freshestID)
		if err != nil {
			return errs.Wrap(errs.KindTransport, err, "resolve freshest node %s", freshestID)
		}
		content, err := handle.ReadFileFromNode(ctx, file)
		if err != nil {
			return err
		}
		result = content
		return nil
	})
	return result, err
}

// Write runs the coordinated write protocol for file, excluding exclude
// (normally empty) from quorum assembly: probe, append on the freshest
// member at v_max+1, then propagate the resulting content to the rest
// of the quorum at the same version (spec.md §4.4.3).
func (e *Engine) Write(ctx context.Context, file, update, exclude string) (string, error) {
	var result string
	err := e.local.WithLock(file, func() error {
		quorumIDs, err := AssembleQuorum(e.reg.IDs(), exclude, e.reg.WriteQuorumSize())
		if err != nil {
			return err
		}

		freshestID, vMax, err := ProbeFreshest(ctx, quorumIDs, file, e.peers.Resolve)
		if err != nil {
			return err
		}

		freshHandle, err := e.peers.Resolve(freshestID)
		if err != nil {
			return errs.Wrap(errs.KindTransport, err, "resolve freshest node %s", freshestID)
		}

		newVersion := vMax.Next()
		content, err := freshHandle.AppendWithVersion(ctx, file, update, newVersion)
		if err != nil {
			return err
		}
		if e.acks != nil {
			e.acks.ObserveAck("write_to_file")
		}

		others := make([]string, 0, len(quorumIDs)-1)
		for _, id := range quorumIDs {
			if id != freshestID {
				others = append(others, id)
			}
		}

		if err := e.propagate(ctx, others, file, content, newVersion); err != nil {
			return err
		}

		e.logger.Debug("write committed",
			zap.String("file_name", file),
			zap.Strings("quorum", quorumIDs),
			zap.String("written_node", freshestID),
			zap.Int64("new_version", int64(newVersion)))

		result = content
		return nil
	})
	return result, err
}

// propagate overwrites file to content at newVersion on every node in
// nodeIDs, in parallel, adapted from the teacher's DoWrite
// goroutine/WaitGroup fan-out. Any single member's failure fails the
// whole write, per the error policy resolved in spec.md §7.
func (e *Engine) propagate(ctx context.Context, nodeIDs []string, file, content string, newVersion version.Number) error {
	if len(nodeIDs) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(nodeIDs))

	for _, nodeID := range nodeIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			handle, err := e.peers.Resolve(id)
			if err != nil {
				errCh <- errs.Wrap(errs.KindTransport, err, "resolve node %s", id)
				return
			}
			if _, err := handle.OverwriteWithVersion(ctx, file, content, newVersion); err != nil {
				errCh <- err
				return
			}
			if e.acks != nil {
				e.acks.ObserveAck("write_to_file")
			}
		}(nodeID)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}
