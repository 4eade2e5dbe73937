package octree

import "github.com/phanxgames/spatialtree/geom"

// nodeKind distinguishes an interior node (fixed child array) from a leaf
// (element set).
type nodeKind uint8

const (
	nodeInterior nodeKind = iota
	nodeLeaf
)

// nodeIDCounter is a plain counter, not atomic — the tree is single-threaded
// cooperative.
var nodeIDCounter int64

func nextNodeID() int64 {
	nodeIDCounter++
	return nodeIDCounter
}

// node is an interior or leaf node of the octree. Children are laid out in
// row-major order: child index = k*4+j*2+i over the two halves of each axis.
type node[H comparable] struct {
	id       int64
	depth    int
	bounds   geom.Box
	kind     nodeKind
	children [8]*node[H]
	elements map[H]Element[H]
}

func newLeaf[H comparable](depth int, bounds geom.Box) *node[H] {
	return &node[H]{
		id:       nextNodeID(),
		depth:    depth,
		bounds:   bounds,
		kind:     nodeLeaf,
		elements: make(map[H]Element[H]),
	}
}

func newInterior[H comparable](depth int, bounds geom.Box) *node[H] {
	return &node[H]{
		id:     nextNodeID(),
		depth:  depth,
		bounds: bounds,
		kind:   nodeInterior,
	}
}

// addToNode descends from n, upserting e into every leaf whose bounds
// intersect bounds.
func addToNode[H comparable](n *node[H], bounds geom.Box, e Element[H]) {
	if !n.bounds.Intersects(bounds) {
		return
	}
	if n.kind == nodeInterior {
		for _, c := range n.children {
			addToNode(c, bounds, e)
		}
		return
	}
	if n.depth != 1 {
		panic("octree: leaf reached at depth > 1")
	}
	delete(n.elements, e.handle)
	n.elements[e.handle] = e
}

// removeFromNode descends from n, removing e from every matching leaf.
func removeFromNode[H comparable](n *node[H], bounds geom.Box, e Element[H]) {
	if !n.bounds.Intersects(bounds) {
		return
	}
	if n.kind == nodeInterior {
		for _, c := range n.children {
			removeFromNode(c, bounds, e)
		}
		return
	}
	if n.depth != 1 {
		panic("octree: leaf reached at depth > 1")
	}
	delete(n.elements, e.handle)
}

// updateInNode relocates e from oldBounds to newBounds within the subtree
// rooted at n.
func updateInNode[H comparable](n *node[H], oldBounds, newBounds geom.Box, e Element[H]) {
	if !n.bounds.Intersects(oldBounds) && !n.bounds.Intersects(newBounds) {
		return
	}
	if n.kind == nodeInterior {
		for _, c := range n.children {
			if c.bounds.Intersects(oldBounds) || c.bounds.Intersects(newBounds) {
				updateInNode(c, oldBounds, newBounds, e)
			}
		}
		return
	}
	if n.depth != 1 {
		panic("octree: leaf reached at depth > 1")
	}
	if n.bounds.Intersects(newBounds) {
		delete(n.elements, e.handle)
		n.elements[e.handle] = e
	} else if n.bounds.Intersects(oldBounds) {
		delete(n.elements, e.handle)
	}
}
