// Package config loads and validates the node's JSON configuration file.
//
// The schema is a wire contract (clients and operators write this file
// by hand), so it stays on encoding/json rather than reaching for a
// templating config library — see DESIGN.md.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"quorumfs/internal/registry"
)

// autoNodeSet is the "nodeSet" value that triggers the currentNode
// self-increment convenience described in spec.md §9.
const autoNodeSet = "auto"

// NodeEntry is one entry of the nodeInfo map: ["host", port].
type NodeEntry struct {
	Host string
	Port int
}

// UnmarshalJSON accepts the two-element ["host", port] tuple the wire
// schema specifies.
func (e *NodeEntry) UnmarshalJSON(data []byte) error {
	var tuple [2]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("nodeInfo entry: expected [host, port]: %w", err)
	}
	if err := json.Unmarshal(tuple[0], &e.Host); err != nil {
		return fmt.Errorf("nodeInfo entry: host: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &e.Port); err != nil {
		return fmt.Errorf("nodeInfo entry: port: %w", err)
	}
	return nil
}

// MarshalJSON writes the entry back out as a ["host", port] tuple.
func (e NodeEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{e.Host, e.Port})
}

// Config is the raw, as-loaded configuration. Call Build to turn it into
// a validated registry.Registry plus the resolved local node id.
type Config struct {
	MaxNodes    int                  `json:"maxNodes"`
	NodeInfo    map[string]NodeEntry `json:"nodeInfo"`
	Coordinator string               `json:"coordinator"`
	CurrentNode string               `json:"currentNode"`
	NodeSet     string               `json:"nodeSet"`
	Nr          int                  `json:"Nr"`
	Nw          int                  `json:"Nw"`
	FilesSource string               `json:"filesSource"`

	path string // set by Load, used by BumpCurrentNode
}

// Load reads and JSON-decodes the config file at path. It does not
// validate the quorum invariants; call Build for that.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.path = path
	return &cfg, nil
}

// Validate checks the config-level startup invariants: maxNodes matches
// nodeInfo, the coordinator is present, nodeSet is known, currentNode is
// a configured node or the reserved maxNodes+1, and filesSource is set.
// It does not check the Nw/Nr quorum inequalities; registry.New (called
// by Build) checks those, and re-checks coordinator presence.
func (c *Config) Validate() error {
	if len(c.NodeInfo) != c.MaxNodes {
		return fmt.Errorf("config: maxNodes=%d but nodeInfo has %d entries", c.MaxNodes, len(c.NodeInfo))
	}
	if _, ok := c.NodeInfo[c.Coordinator]; !ok {
		return fmt.Errorf("config: coordinator %q not present in nodeInfo", c.Coordinator)
	}
	if c.NodeSet != autoNodeSet && c.NodeSet != "manual" {
		return fmt.Errorf("config: nodeSet must be %q or %q, got %q", autoNodeSet, "manual", c.NodeSet)
	}

	if _, ok := c.NodeInfo[c.CurrentNode]; !ok {
		reserved := strconv.Itoa(c.MaxNodes + 1)
		if c.CurrentNode != reserved {
			return fmt.Errorf("config: currentNode %q is neither a configured node nor the reserved value %q", c.CurrentNode, reserved)
		}
	}

	if c.FilesSource == "" {
		return fmt.Errorf("config: filesSource must be set")
	}

	return nil
}

// Build validates the config and constructs the immutable node registry.
// It fails if currentNode is still the reserved "not yet assigned"
// sentinel, since a registry requires a concrete local node id to serve.
func (c *Config) Build() (*registry.Registry, string, error) {
	if err := c.Validate(); err != nil {
		return nil, "", err
	}
	if _, ok := c.NodeInfo[c.CurrentNode]; !ok {
		return nil, "", fmt.Errorf("config: currentNode %q has not been assigned a cluster slot yet", c.CurrentNode)
	}

	nodes := make(map[string]registry.Node, len(c.NodeInfo))
	for id, entry := range c.NodeInfo {
		nodes[id] = registry.Node{ID: id, Host: entry.Host, Port: entry.Port}
	}

	reg, err := registry.New(nodes, c.Coordinator, c.Nr, c.Nw)
	if err != nil {
		return nil, "", err
	}
	return reg, c.CurrentNode, nil
}

// BumpCurrentNode implements the "nodeSet": "auto" convenience: it
// rewrites the config file on disk with currentNode incremented by one,
// so that launching N processes from the same config file in sequence
// auto-assigns node ids 1..N. This is advisory and single-writer —
// concurrent processes racing to bump the same file will clobber each
// other, the same hazard original_source/utils.py's modify_config has.
func (c *Config) BumpCurrentNode() error {
	if c.NodeSet != autoNodeSet {
		return nil
	}

	current, err := strconv.Atoi(c.CurrentNode)
	if err != nil {
		return fmt.Errorf("config: currentNode %q is not numeric, cannot auto-increment: %w", c.CurrentNode, err)
	}

	next := *c
	next.CurrentNode = strconv.Itoa(current + 1)

	data, err := json.MarshalIndent(&next, "", "    ")
	if err != nil {
		return fmt.Errorf("config: marshal updated config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("config: write updated config: %w", err)
	}
	return nil
}
