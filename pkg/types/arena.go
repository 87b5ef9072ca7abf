package types

// defaultArenaCapacity is the initial number of node slots of an arena.
const defaultArenaCapacity = 64

// growthFactor is applied to the capacity of a full buffer.
const growthFactor = 2

// Arena owns every node of a session.
//
// Nodes live in one contiguous buffer and vector elements in a second
// contiguous pool of handles. Both grow by doubling, which may relocate the
// buffers; handles are indices and therefore stay valid across growth.
// Nothing is freed until the arena itself is dropped.
//
// # Thread safety
//
// Arena is NOT thread-safe. It belongs to exactly one evaluator session and a
// handle must only be passed back to the arena that issued it.
type Arena struct {
	nodes []Node
	refs  []Handle
	grows int
}

// NewArena allocates an arena with room for capacity nodes.
// A capacity <= 0 selects the default.
func NewArena(capacity int) *Arena {
	if capacity <= 0 {
		capacity = defaultArenaCapacity
	}
	return &Arena{
		nodes: make([]Node, 0, capacity),
		refs:  make([]Handle, 0, capacity),
	}
}

// Alloc stores n and returns its handle.
func (a *Arena) Alloc(n Node) Handle {
	if len(a.nodes) == cap(a.nodes) {
		grown := make([]Node, len(a.nodes), growCap(cap(a.nodes)))
		copy(grown, a.nodes)
		a.nodes = grown
		a.grows++
	}
	a.nodes = append(a.nodes, n)
	return Handle(len(a.nodes) - 1)
}

// AllocValue stores a literal node holding v.
func (a *Arena) AllocValue(v Value) Handle {
	return a.Alloc(NodeFromValue(v))
}

// AllocSpan copies hs into the handle pool and returns the span addressing them.
func (a *Arena) AllocSpan(hs []Handle) Span {
	if len(a.refs)+len(hs) > cap(a.refs) {
		c := growCap(cap(a.refs))
		for c < len(a.refs)+len(hs) {
			c *= growthFactor
		}
		grown := make([]Handle, len(a.refs), c)
		copy(grown, a.refs)
		a.refs = grown
		a.grows++
	}
	off := len(a.refs)
	a.refs = append(a.refs, hs...)
	return Span{Off: uint32(off), Len: uint32(len(hs))}
}

// AllocVector stores a vector node over the given element handles.
func (a *Arena) AllocVector(elems []Handle, position int) Handle {
	return a.Alloc(Node{
		Kind:     KindVector,
		Left:     NoHandle,
		Right:    NoHandle,
		Elems:    a.AllocSpan(elems),
		Position: position,
	})
}

// Node returns a copy of the node addressed by h.
// An unknown handle yields an Invalid node.
func (a *Arena) Node(h Handle) Node {
	if !a.Valid(h) {
		return Node{Kind: KindInvalid, Left: NoHandle, Right: NoHandle, Position: NoPosition}
	}
	return a.nodes[h]
}

// Valid reports whether h addresses a node of this arena.
func (a *Arena) Valid(h Handle) bool {
	return h != NoHandle && int(h) < len(a.nodes)
}

// Elem returns the i-th element handle of s.
func (a *Arena) Elem(s Span, i int) Handle {
	if i < 0 || uint32(i) >= s.Len {
		return NoHandle
	}
	return a.refs[int(s.Off)+i]
}

// Elems returns a copy of the element handles of s.
func (a *Arena) Elems(s Span) []Handle {
	out := make([]Handle, s.Len)
	copy(out, a.refs[s.Off:s.Off+s.Len])
	return out
}

// Len returns the number of allocated nodes.
func (a *Arena) Len() int { return len(a.nodes) }

// Cap returns the current node capacity.
func (a *Arena) Cap() int { return cap(a.nodes) }

// Grows returns how many times a buffer was relocated.
func (a *Arena) Grows() int { return a.grows }

func growCap(c int) int {
	if c == 0 {
		return defaultArenaCapacity
	}
	return c * growthFactor
}
