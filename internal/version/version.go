// Package version tracks the per-file, per-node replica version.
//
// Earlier iterations of this store used a vector clock here (one counter
// per writer, merged and compared for causal dominance) so concurrent
// writers could be reconciled after the fact. That machinery only earns
// its keep when conflicting writes need to be detected and resolved; this
// store's quorum protocol never lets that situation arise; every write
// goes through one coordinator holding the file's mutex, and the loser
// of any race is simply overwritten to the winner's content. So a version
// here is nothing more than a monotonically non-decreasing integer: the
// highest one seen in a quorum always wins.
package version

// Number is a per-(file, node) version counter. Store never assigns the
// zero value: a tracked file starts at Initial, and for an untracked file
// LocalVersion returns Unknown.
type Number int64

// Unknown is returned by a version probe when the file isn't tracked
// on the probed node.
const Unknown Number = -1

// Initial is the version assigned to a freshly seeded replica.
const Initial Number = 1

// Next returns the version that should follow this one after a write.
func (n Number) Next() Number {
	return n + 1
}
