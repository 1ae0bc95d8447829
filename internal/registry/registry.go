// Package registry holds the static node-id -> (host, port) mapping and
// the identity of the coordinator node. It is immutable once built: this
// system has no membership changes, so unlike the ring/gossip layers a
// peer-to-peer store would use, a registry is built once at startup and
// handed to every component as a shared, read-only pointer.
package registry

import "fmt"

// Node is one member of the static cluster topology.
type Node struct {
	ID   string
	Host string
	Port int
}

// Addr returns the dialable "host:port" address for the node.
func (n Node) Addr() string {
	return fmt.Sprintf("%s:%d", n.Host, n.Port)
}

// Registry is the immutable node-id -> Node mapping, plus the
// coordinator's id. Construct with New, which validates the invariants
// spec.md §4.1 requires at startup.
type Registry struct {
	nodes       map[string]Node
	ids         []string
	coordinator string
	nr          int
	nw          int
}

// New builds a Registry and validates it. It rejects a topology whose
// coordinator is absent, or whose quorum sizes don't satisfy
// Nw > N/2 and Nr+Nw > N.
func New(nodes map[string]Node, coordinator string, nr, nw int) (*Registry, error) {
	n := len(nodes)
	if n == 0 {
		return nil, fmt.Errorf("registry: no nodes configured")
	}
	if _, ok := nodes[coordinator]; !ok {
		return nil, fmt.Errorf("registry: coordinator %q not present in nodeInfo", coordinator)
	}
	if !(nw*2 > n) {
		return nil, fmt.Errorf("registry: write quorum Nw=%d must be greater than N/2 (N=%d)", nw, n)
	}
	if nr+nw <= n {
		return nil, fmt.Errorf("registry: Nr(%d)+Nw(%d) must be greater than N(%d)", nr, nw, n)
	}

	ids := make([]string, 0, n)
	for id := range nodes {
		ids = append(ids, id)
	}

	return &Registry{
		nodes:       nodes,
		ids:         ids,
		coordinator: coordinator,
		nr:          nr,
		nw:          nw,
	}, nil
}

// Lookup returns the Node for id.
func (r *Registry) Lookup(id string) (Node, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

// IDs returns every node id in the cluster, including the coordinator.
// The returned slice is a fresh copy; callers may mutate it freely.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// Coordinator returns the coordinator node's id.
func (r *Registry) Coordinator() string {
	return r.coordinator
}

// IsCoordinator reports whether id is the coordinator.
func (r *Registry) IsCoordinator(id string) bool {
	return id == r.coordinator
}

// ReadQuorumSize returns Nr.
func (r *Registry) ReadQuorumSize() int {
	return r.nr
}

// WriteQuorumSize returns Nw.
func (r *Registry) WriteQuorumSize() int {
	return r.nw
}

// N returns the total node count.
func (r *Registry) N() int {
	return len(r.nodes)
}
