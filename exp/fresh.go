package exp

import (
	"fmt"
	"strings"
)

// NodeID identifies a single expression node within one editing session.
// Edits produce new nodes with new IDs; structural sharing preserves the IDs
// of untouched subtrees. Hole IDs are the NodeIDs of the hole nodes.
type NodeID uint64

// NoID is never minted by a Fresh counter.
const NoID NodeID = 0

// Fresh mints NodeIDs and fresh variable names.
//
// It is passed explicitly wherever new nodes are built, rather than living in
// global mutable state, so that term construction stays deterministic and
// testable.
type Fresh struct {
	next uint64
}

func NewFresh() *Fresh {
	return &Fresh{next: 1}
}

func (f *Fresh) NextID() NodeID {
	id := NodeID(f.next)
	f.next++
	return id
}

// Name returns a variable name derived from base which is guaranteed not to
// have been produced before by this counter. The '#' separator cannot appear
// in user-constructed variable names.
func (f *Fresh) Name(base string) string {
	if idx := strings.IndexByte(base, '#'); idx >= 0 {
		base = base[:idx]
	}
	name := fmt.Sprintf("%s#%d", base, f.next)
	f.next++
	return name
}
