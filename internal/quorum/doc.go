// Package quorum is the Quorum Engine (spec.md §4.4): random quorum
// assembly, freshest-replica resolution by version, and write
// propagation to the rest of the assembled quorum. It runs only on the
// coordinator node, serialized per file by the coordinator's own
// Replica Store mutex.
//
// Adapted from the teacher's internal/quorum.DoWrite/DoRead goroutine
// fan-out (the parallel propagation shape survives as Engine.propagate)
// and from internal/replication.GetReplicasForKey (the "pick k replicas
// for an operation" shape survives as AssembleQuorum, with ring
// placement replaced by uniform random sampling) and
// internal/repair.Reconcile (vector-clock dominance simplified to plain
// integer comparison in ProbeFreshest, per the "no conflict resolution
// beyond highest version wins" non-goal).
package quorum
