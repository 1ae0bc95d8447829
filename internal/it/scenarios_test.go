package it

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quorumfs/internal/rpcapi"
)

// binaryPath locates a prebuilt cmd/fileserver binary. Tests skip
// rather than fail when it is absent, mirroring the teacher's
// smoke_test.go ("Binary not found, skipping integration test. Build
// with: go build -o fileserver ./cmd/fileserver").
func binaryPath(t *testing.T) string {
	t.Helper()
	path := os.Getenv("QUORUMFS_FILESERVER_BINARY")
	if path == "" {
		path = "./fileserver"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("fileserver binary not found, skipping integration test. Build with: go build -o internal/it/fileserver ./cmd/fileserver, or set QUORUMFS_FILESERVER_BINARY")
	}
	return path
}

// seedSource writes an empty a.txt and b.txt into a fresh directory, the
// "files seeded empty" precondition spec.md §8's concrete scenarios
// share.
func seedSource(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), nil, 0o644))
	return dir
}

func fiveNodeTopology(filesSource string) Topology {
	return Topology{
		NodeIDs:     []string{"1", "2", "3", "4", "5"},
		Coordinator: "1",
		Nr:          3,
		Nw:          3,
		FilesSource: filesSource,
	}
}

// TestScenario1_WriteReturnsAppendedContent covers spec.md §8 scenario
// 1: write("a.txt","x") returns "x\n".
func TestScenario1_WriteReturnsAppendedContent(t *testing.T) {
	bin := binaryPath(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cluster, err := NewCluster(bin, t.TempDir())
	require.NoError(t, err)
	defer cluster.Stop()
	require.NoError(t, cluster.Start(ctx, fiveNodeTopology(seedSource(t))))

	coordinator := cluster.Node("1")
	require.NotNil(t, coordinator)

	resp, err := coordinator.Client().WriteToFile(ctx, &rpcapi.WriteRequest{FileName: "a.txt", Update: "x"})
	require.NoError(t, err)
	assert.Equal(t, "x\n", resp.Content)
}

// TestScenario2_WriteThenReadSeesBothAppends covers spec.md §8 scenario
// 2: write("a.txt","y") after write("a.txt","x") then read("a.txt") ->
// "x\ny\n".
func TestScenario2_WriteThenReadSeesBothAppends(t *testing.T) {
	bin := binaryPath(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cluster, err := NewCluster(bin, t.TempDir())
	require.NoError(t, err)
	defer cluster.Stop()
	require.NoError(t, cluster.Start(ctx, fiveNodeTopology(seedSource(t))))

	coordinator := cluster.Node("1")
	require.NotNil(t, coordinator)

	_, err = coordinator.Client().WriteToFile(ctx, &rpcapi.WriteRequest{FileName: "a.txt", Update: "x"})
	require.NoError(t, err)
	_, err = coordinator.Client().WriteToFile(ctx, &rpcapi.WriteRequest{FileName: "a.txt", Update: "y"})
	require.NoError(t, err)

	readResp, err := coordinator.Client().ReadFromFile(ctx, &rpcapi.ReadRequest{FileName: "a.txt"})
	require.NoError(t, err)
	assert.Equal(t, "x\ny\n", readResp.Content)
}

// TestScenario3_ConcurrentWritesOnDistinctFilesBothSucceed covers
// spec.md §8 scenario 3: write("a.txt","p") concurrent with
// write("b.txt","q") both succeed.
func TestScenario3_ConcurrentWritesOnDistinctFilesBothSucceed(t *testing.T) {
	bin := binaryPath(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cluster, err := NewCluster(bin, t.TempDir())
	require.NoError(t, err)
	defer cluster.Stop()
	require.NoError(t, cluster.Start(ctx, fiveNodeTopology(seedSource(t))))

	coordinator := cluster.Node("1")
	require.NotNil(t, coordinator)

	var wg sync.WaitGroup
	var aErr, bErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, aErr = coordinator.Client().WriteToFile(ctx, &rpcapi.WriteRequest{FileName: "a.txt", Update: "p"})
	}()
	go func() {
		defer wg.Done()
		_, bErr = coordinator.Client().WriteToFile(ctx, &rpcapi.WriteRequest{FileName: "b.txt", Update: "q"})
	}()
	wg.Wait()

	require.NoError(t, aErr)
	require.NoError(t, bErr)
}

// TestScenario4_ConcurrentWritesOnSameFileSerialize covers spec.md §8
// scenario 4: two concurrent writes on the same file never interleave
// within a single append.
func TestScenario4_ConcurrentWritesOnSameFileSerialize(t *testing.T) {
	bin := binaryPath(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cluster, err := NewCluster(bin, t.TempDir())
	require.NoError(t, err)
	defer cluster.Stop()
	require.NoError(t, cluster.Start(ctx, fiveNodeTopology(seedSource(t))))

	coordinator := cluster.Node("1")
	require.NotNil(t, coordinator)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		coordinator.Client().WriteToFile(ctx, &rpcapi.WriteRequest{FileName: "a.txt", Update: "p"})
	}()
	go func() {
		defer wg.Done()
		coordinator.Client().WriteToFile(ctx, &rpcapi.WriteRequest{FileName: "a.txt", Update: "q"})
	}()
	wg.Wait()

	readResp, err := coordinator.Client().ReadFromFile(ctx, &rpcapi.ReadRequest{FileName: "a.txt"})
	require.NoError(t, err)
	assert.Contains(t, []string{"p\nq\n", "q\np\n"}, readResp.Content)
}

// TestScenario5_ReadMissingFileSurfacesUnknownFile covers spec.md §8
// scenario 5.
func TestScenario5_ReadMissingFileSurfacesUnknownFile(t *testing.T) {
	bin := binaryPath(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cluster, err := NewCluster(bin, t.TempDir())
	require.NoError(t, err)
	defer cluster.Stop()
	require.NoError(t, cluster.Start(ctx, fiveNodeTopology(seedSource(t))))

	coordinator := cluster.Node("1")
	require.NotNil(t, coordinator)

	_, err = coordinator.Client().ReadFromFile(ctx, &rpcapi.ReadRequest{FileName: "missing.txt"})
	require.Error(t, err)
}

// TestScenario6_NonCoordinatorForwardMatchesDirectWrite covers spec.md
// §8 scenario 6: writing via node 3 (non-coordinator) produces the same
// result as writing via node 1.
func TestScenario6_NonCoordinatorForwardMatchesDirectWrite(t *testing.T) {
	bin := binaryPath(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cluster, err := NewCluster(bin, t.TempDir())
	require.NoError(t, err)
	defer cluster.Stop()
	require.NoError(t, cluster.Start(ctx, fiveNodeTopology(seedSource(t))))

	node3 := cluster.Node("3")
	require.NotNil(t, node3)

	resp, err := node3.Client().WriteToFile(ctx, &rpcapi.WriteRequest{FileName: "a.txt", Update: "x"})
	require.NoError(t, err)
	assert.Equal(t, "x\n", resp.Content)

	coordinator := cluster.Node("1")
	readResp, err := coordinator.Client().ReadFromFile(ctx, &rpcapi.ReadRequest{FileName: "a.txt"})
	require.NoError(t, err)
	assert.Equal(t, "x\n", readResp.Content)
}

// TestQuorum_ToleratesOneNodeDown exercises the boundary that Nw=3 of
// N=5 survives one node failing, adapted from the teacher's
// TestQuorum_ToleratesOneNodeDown.
func TestQuorum_ToleratesOneNodeDown(t *testing.T) {
	bin := binaryPath(t)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	cluster, err := NewCluster(bin, t.TempDir())
	require.NoError(t, err)
	defer cluster.Stop()
	require.NoError(t, cluster.Start(ctx, fiveNodeTopology(seedSource(t))))

	coordinator := cluster.Node("1")
	require.NotNil(t, coordinator)

	_, err = coordinator.Client().WriteToFile(ctx, &rpcapi.WriteRequest{FileName: "a.txt", Update: "before"})
	require.NoError(t, err)

	require.NoError(t, cluster.Kill("5"))
	time.Sleep(500 * time.Millisecond)

	_, err = coordinator.Client().WriteToFile(ctx, &rpcapi.WriteRequest{FileName: "a.txt", Update: "after"})
	require.NoError(t, err, "write should still succeed with Nw=3 and 4 nodes available")
}
