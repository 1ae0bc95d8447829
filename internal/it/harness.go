// Package it drives a real N=5 cluster of cmd/fileserver processes
// end-to-end, adapted from the teacher's internal/it.Cluster subprocess
// harness. Where the teacher's Cluster built a --peers flag string per
// node, this harness writes one config.json per node (spec.md §6's wire
// schema), since that is how this system's nodes are actually
// configured.
package it

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"quorumfs/internal/rpcapi"
)

// Cluster is a running set of cmd/fileserver subprocesses sharing one
// logical topology.
type Cluster struct {
	binaryPath string
	workDir    string
	nodes      map[string]*Node

	mu sync.Mutex
}

// Node is one subprocess in the cluster plus a dialed client connection.
type Node struct {
	ID      string
	Addr    string
	cmd     *exec.Cmd
	logFile *os.File
	conn    *grpc.ClientConn
	client  rpcapi.ClientServiceClient
}

// Topology describes the cluster to start: N nodes, the coordinator's
// id, quorum sizes, and the directory of seed *.txt files every node
// replicates.
type Topology struct {
	NodeIDs     []string
	Coordinator string
	Nr          int
	Nw          int
	FilesSource string
}

// NewCluster prepares a harness rooted at workDir that launches
// binaryPath (built ahead of time with `go build -o fileserver
// ./cmd/fileserver`) once per node.
func NewCluster(binaryPath, workDir string) (*Cluster, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("it: create work dir: %w", err)
	}
	return &Cluster{
		binaryPath: binaryPath,
		workDir:    workDir,
		nodes:      make(map[string]*Node),
	}, nil
}

// Start launches one cmd/fileserver subprocess per node in top, each
// given its own config.json and working directory so their
// ./created_files replica directories never collide, and waits for each
// to accept gRPC connections.
func (c *Cluster) Start(ctx context.Context, top Topology) error {
	basePort := 61000

	nodeInfo := make(map[string][2]interface{}, len(top.NodeIDs))
	ports := make(map[string]int, len(top.NodeIDs))
	for i, id := range top.NodeIDs {
		port := basePort + i
		ports[id] = port
		nodeInfo[id] = [2]interface{}{"127.0.0.1", port}
	}

	for _, id := range top.NodeIDs {
		nodeDir := filepath.Join(c.workDir, id)
		if err := os.MkdirAll(nodeDir, 0o755); err != nil {
			return fmt.Errorf("it: create node dir for %s: %w", id, err)
		}

		cfg := map[string]interface{}{
			"maxNodes":    len(top.NodeIDs),
			"nodeInfo":    nodeInfo,
			"coordinator": top.Coordinator,
			"currentNode": id,
			"nodeSet":     "manual",
			"Nr":          top.Nr,
			"Nw":          top.Nw,
			"filesSource": top.FilesSource,
		}
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("it: marshal config for %s: %w", id, err)
		}
		configPath := filepath.Join(nodeDir, "config.json")
		if err := os.WriteFile(configPath, data, 0o644); err != nil {
			return fmt.Errorf("it: write config for %s: %w", id, err)
		}

		if err := c.startNode(ctx, id, nodeDir, configPath, ports[id]); err != nil {
			c.Stop()
			return fmt.Errorf("it: start node %s: %w", id, err)
		}
	}
	return nil
}

func (c *Cluster) startNode(ctx context.Context, id, nodeDir, configPath string, port int) error {
	logFile, err := os.Create(filepath.Join(nodeDir, "node.log"))
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, c.binaryPath, "-config", configPath)
	cmd.Dir = nodeDir
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		logFile.Close()
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	conn, err := c.dialWithRetry(ctx, addr, 10*time.Second)
	if err != nil {
		cmd.Process.Kill()
		logFile.Close()
		return err
	}

	c.mu.Lock()
	c.nodes[id] = &Node{
		ID:      id,
		Addr:    addr,
		cmd:     cmd,
		logFile: logFile,
		conn:    conn,
		client:  rpcapi.NewClientServiceClient(conn),
	}
	c.mu.Unlock()
	return nil
}

func (c *Cluster) dialWithRetry(ctx context.Context, addr string, timeout time.Duration) (*grpc.ClientConn, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		dialCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		conn, err := grpc.DialContext(dialCtx, addr,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithBlock(),
			grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rpcapi.CodecName)),
		)
		cancel()
		if err == nil {
			return conn, nil
		}
		lastErr = err
		time.Sleep(200 * time.Millisecond)
	}
	return nil, fmt.Errorf("it: dial %s: %w", addr, lastErr)
}

// Node returns the node identified by id, or nil.
func (c *Cluster) Node(id string) *Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nodes[id]
}

// Client returns a node's ClientServiceClient.
func (n *Node) Client() rpcapi.ClientServiceClient { return n.client }

// Kill terminates one node's subprocess (used to exercise the
// quorum-tolerates-one-node-down boundary).
func (c *Cluster) Kill(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.nodes[id]
	if !ok {
		return fmt.Errorf("it: no such node %s", id)
	}
	if n.cmd != nil && n.cmd.Process != nil {
		if err := n.cmd.Process.Kill(); err != nil {
			return err
		}
		n.cmd.Wait()
	}
	return nil
}

// Stop terminates every subprocess and closes every dialed connection.
func (c *Cluster) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.nodes {
		if n.conn != nil {
			n.conn.Close()
		}
		if n.cmd != nil && n.cmd.Process != nil {
			n.cmd.Process.Kill()
			n.cmd.Wait()
		}
		if n.logFile != nil {
			n.logFile.Close()
		}
	}
	c.nodes = make(map[string]*Node)
}
