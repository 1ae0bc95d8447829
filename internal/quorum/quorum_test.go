package quorum

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quorumfs/internal/errs"
	"quorumfs/internal/peerconn"
	"quorumfs/internal/registry"
	"quorumfs/internal/replicastore"
	"quorumfs/internal/version"
)

// callRecorder records which node ids were called, safe for concurrent
// use by propagate's parallel fan-out.
type callRecorder struct {
	mu  sync.Mutex
	ids []string
}

func (r *callRecorder) add(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

func (r *callRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

func fiveIDs() []string { return []string{"1", "2", "3", "4", "5"} }

func TestAssembleQuorum_ExcludesAndSizes(t *testing.T) {
	q, err := AssembleQuorum(fiveIDs(), "3", 3)
	require.NoError(t, err)
	assert.Len(t, q, 3)
	assert.NotContains(t, q, "3")

	seen := make(map[string]bool)
	for _, id := range q {
		assert.False(t, seen[id], "quorum must not repeat a node")
		seen[id] = true
	}
}

func TestAssembleQuorum_TooFewEligibleFails(t *testing.T) {
	_, err := AssembleQuorum(fiveIDs(), "1", 5)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindConfig))
}

func TestAssembleQuorum_NoExclusion(t *testing.T) {
	q, err := AssembleQuorum(fiveIDs(), "", 5)
	require.NoError(t, err)
	assert.ElementsMatch(t, fiveIDs(), q)
}

// fakeHandle is a stand-in PeerHandle for exercising ProbeFreshest and
// Engine without a real gRPC connection.
type fakeHandle struct {
	id             string
	version        version.Number
	content        string
	versionErr     error
	readErr        error
	appendErr      error
	overwriteErr   error
	appendCalls    *callRecorder
	overwriteCalls *callRecorder
}

func (h *fakeHandle) GetFileVersion(context.Context, string) (version.Number, error) {
	return h.version, h.versionErr
}

func (h *fakeHandle) ReadFileFromNode(context.Context, string) (string, error) {
	return h.content, h.readErr
}

func (h *fakeHandle) AppendWithVersion(_ context.Context, _ string, update string, newVersion version.Number) (string, error) {
	if h.appendCalls != nil {
		h.appendCalls.add(h.id)
	}
	if h.appendErr != nil {
		return "", h.appendErr
	}
	h.content = h.content + update + "\n"
	h.version = newVersion
	return h.content, nil
}

func (h *fakeHandle) OverwriteWithVersion(_ context.Context, _ string, fullContent string, newVersion version.Number) (string, error) {
	if h.overwriteCalls != nil {
		h.overwriteCalls.add(h.id)
	}
	if h.overwriteErr != nil {
		return "", h.overwriteErr
	}
	h.content = fullContent
	h.version = newVersion
	return h.content, nil
}

type fakeResolver struct {
	handles map[string]*fakeHandle
}

func (r *fakeResolver) Resolve(id string) (peerconn.PeerHandle, error) {
	h, ok := r.handles[id]
	if !ok {
		return nil, fmt.Errorf("no such node %s", id)
	}
	return h, nil
}

func TestProbeFreshest_PicksStrictlyGreaterVersion(t *testing.T) {
	r := &fakeResolver{handles: map[string]*fakeHandle{
		"1": {id: "1", version: 3},
		"2": {id: "2", version: 7},
		"3": {id: "3", version: 5},
	}}

	id, v, err := ProbeFreshest(context.Background(), []string{"1", "2", "3"}, "a.txt", r.Resolve)
	require.NoError(t, err)
	assert.Equal(t, "2", id)
	assert.Equal(t, version.Number(7), v)
}

func TestProbeFreshest_TiesBrokenByFirstSeen(t *testing.T) {
	r := &fakeResolver{handles: map[string]*fakeHandle{
		"1": {id: "1", version: 4},
		"2": {id: "2", version: 4},
	}}

	id, v, err := ProbeFreshest(context.Background(), []string{"1", "2"}, "a.txt", r.Resolve)
	require.NoError(t, err)
	assert.Equal(t, "1", id)
	assert.Equal(t, version.Number(4), v)
}

func TestProbeFreshest_NoValidVersionFails(t *testing.T) {
	r := &fakeResolver{handles: map[string]*fakeHandle{
		"1": {id: "1", version: version.Unknown},
		"2": {id: "2", version: version.Unknown},
	}}

	_, _, err := ProbeFreshest(context.Background(), []string{"1", "2"}, "a.txt", r.Resolve)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindQuorumUnavailable))
}

func TestProbeFreshest_MemberErrorFailsWholeProbe(t *testing.T) {
	r := &fakeResolver{handles: map[string]*fakeHandle{
		"1": {id: "1", version: 2},
		"2": {id: "2", versionErr: errs.New(errs.KindTransport, "boom")},
	}}

	_, _, err := ProbeFreshest(context.Background(), []string{"1", "2"}, "a.txt", r.Resolve)
	require.Error(t, err)
}

func fiveNodeRegistry(t *testing.T, coordinator string, nr, nw int) *registry.Registry {
	t.Helper()
	nodes := map[string]registry.Node{
		"1": {ID: "1", Host: "127.0.0.1", Port: 9001},
		"2": {ID: "2", Host: "127.0.0.1", Port: 9002},
		"3": {ID: "3", Host: "127.0.0.1", Port: 9003},
		"4": {ID: "4", Host: "127.0.0.1", Port: 9004},
		"5": {ID: "5", Host: "127.0.0.1", Port: 9005},
	}
	reg, err := registry.New(nodes, coordinator, nr, nw)
	require.NoError(t, err)
	return reg
}

func coordinatorStore(t *testing.T, fileName string) *replicastore.Store {
	t.Helper()
	sourceDir := t.TempDir()
	srcPath := sourceDir + "/" + fileName
	require.NoError(t, os.WriteFile(srcPath, []byte(""), 0o644))

	s, err := replicastore.New("1", t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Seed(fileName, srcPath))
	return s
}

func TestEngine_Read_ReturnsFreshestContent(t *testing.T) {
	// Nr=5 (the whole cluster) so the assembled quorum is deterministic
	// regardless of random sampling.
	reg := fiveNodeRegistry(t, "1", 5, 3)
	local := coordinatorStore(t, "a.txt")

	r := &fakeResolver{handles: map[string]*fakeHandle{
		"1": {id: "1", version: version.Unknown},
		"2": {id: "2", version: 2},
		"3": {id: "3", version: 5, content: "fresh\n"},
		"4": {id: "4", version: 1},
		"5": {id: "5", version: 1},
	}}

	eng := New(reg, local, r, nil, zap.NewNop())
	content, err := eng.Read(context.Background(), "a.txt", "")
	require.NoError(t, err)
	assert.Equal(t, "fresh\n", content)
}

func TestEngine_Write_AppendsOnFreshestAndPropagates(t *testing.T) {
	// Nw=5 (the whole cluster) so the assembled quorum is deterministic.
	reg := fiveNodeRegistry(t, "1", 3, 5)
	local := coordinatorStore(t, "a.txt")

	overwriteCalls := &callRecorder{}
	r := &fakeResolver{handles: map[string]*fakeHandle{
		"1": {id: "1", version: 1},
		"2": {id: "2", version: 3, content: "line1\n", overwriteCalls: overwriteCalls},
		"3": {id: "3", version: 1, overwriteCalls: overwriteCalls},
		"4": {id: "4", version: 1, overwriteCalls: overwriteCalls},
		"5": {id: "5", version: 1, overwriteCalls: overwriteCalls},
	}}

	eng := New(reg, local, r, nil, zap.NewNop())
	content, err := eng.Write(context.Background(), "a.txt", "line2", "")
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2\n", content)

	// Every other quorum member must have been brought up to the new
	// content, at the freshest member's version plus one.
	for _, id := range overwriteCalls.snapshot() {
		h := r.handles[id]
		assert.Equal(t, "line1\nline2\n", h.content)
		assert.Equal(t, version.Number(4), h.version)
	}
}

func TestEngine_Write_PropagationFailureFailsWholeOperation(t *testing.T) {
	reg := fiveNodeRegistry(t, "1", 3, 5)
	local := coordinatorStore(t, "a.txt")

	r := &fakeResolver{handles: map[string]*fakeHandle{
		"1": {id: "1", version: 1},
		"2": {id: "2", version: 3, content: "line1\n"},
		"3": {id: "3", version: 1},
		"4": {id: "4", version: 1, overwriteErr: errs.New(errs.KindTransport, "unreachable")},
		"5": {id: "5", version: 1},
	}}

	eng := New(reg, local, r, nil, zap.NewNop())
	_, err := eng.Write(context.Background(), "a.txt", "line2", "")
	require.Error(t, err)
}
