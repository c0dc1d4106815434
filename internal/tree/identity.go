package tree

import "hash/maphash"

// Identity is a stable hash of (parent path, logic id, instance key) that
// survives across frames even though the ComponentNode it names is rebuilt
// from scratch every frame. Persistent state is keyed by Identity, never by
// NodeID (NodeIDs are only valid for the arena of the frame that produced
// them).
type Identity uint64

var identitySeed = maphash.MakeSeed()

// NewIdentity hashes a node's position in the tree: its parent's own
// Identity, a compile-time-ish LogicID distinguishing call sites within the
// same parent, and an explicit InstanceKey distinguishing repeated siblings
// from the same call site (e.g. list items).
func NewIdentity(parent Identity, logicID uint64, instanceKey string) Identity {
	var h maphash.Hash
	h.SetSeed(identitySeed)
	var buf [8]byte
	putUint64(buf[:], uint64(parent))
	h.Write(buf[:])
	putUint64(buf[:], logicID)
	h.Write(buf[:])
	h.WriteString(instanceKey)
	return Identity(h.Sum64())
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

// RootIdentity is the Identity of the implicit root the frame driver builds
// every node underneath.
const RootIdentity Identity = 0

// LogicIDFor returns a process-wide stable id for a call site. Real call
// sites register once via sync.OnceValue-backed package-level vars at
// init-time (the compile-time mechanism spec.md's Data Model describes);
// this helper exists for call sites that only have a runtime string to key
// off of, falling back to a stable hash of that string.
func LogicIDFor(callSite string) uint64 {
	var h maphash.Hash
	h.SetSeed(identitySeed)
	h.WriteString(callSite)
	return h.Sum64()
}
