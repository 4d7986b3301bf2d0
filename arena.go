package slidedom

import "fmt"

// nodeRef addresses a slot in the shape arena. A ref is only valid while
// the slot generation matches.
type nodeRef struct {
	idx int32
	gen uint32
}

// arena owns every shape node of a document. Removed slots are recycled
// with a bumped generation so stale handles are detected, never aliased.
type arena struct {
	nodes []*shapeNode
	free  []int32
}

func (a *arena) alloc() (nodeRef, *shapeNode) {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		node := a.nodes[idx]
		node.live = true
		return nodeRef{idx: idx, gen: node.gen}, node
	}
	node := &shapeNode{live: true}
	a.nodes = append(a.nodes, node)
	return nodeRef{idx: int32(len(a.nodes) - 1), gen: 0}, node
}

func (a *arena) get(r nodeRef) (*shapeNode, error) {
	if r.idx < 0 || int(r.idx) >= len(a.nodes) {
		return nil, fmt.Errorf("shape handle %d: %w", r.idx, ErrInvalidState)
	}
	node := a.nodes[r.idx]
	if !node.live || node.gen != r.gen {
		return nil, fmt.Errorf("shape handle %d was removed: %w", r.idx, ErrInvalidState)
	}
	return node, nil
}

// release frees a slot. The node's payload is dropped; callers that moved
// the payload elsewhere must have copied it first.
func (a *arena) release(r nodeRef) {
	node, err := a.get(r)
	if err != nil {
		return
	}
	gen := node.gen + 1
	*node = shapeNode{gen: gen}
	a.free = append(a.free, r.idx)
}

func (a *arena) liveCount() int {
	return len(a.nodes) - len(a.free)
}
