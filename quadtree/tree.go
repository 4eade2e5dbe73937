// Package quadtree is a fixed-depth spatial index over axis-aligned
// rectangles in a 2D plane, built for a real-time game engine's per-frame
// visibility and picking queries.
package quadtree

import (
	"fmt"
	"math"

	"github.com/phanxgames/spatialtree/geom"
	"github.com/phanxgames/spatialtree/spatiallog"
)

// leafKey identifies a leaf by its min corner, used by the leaf directory
// for the O(1)-descent fast path.
type leafKey struct{ x, y float64 }

// Tree is a fixed-depth quadtree over a rectangular region centered near the
// world origin. Construct with Make; the zero value is not usable.
type Tree[H comparable] struct {
	root          *node[H]
	leafDirectory map[leafKey]*node[H]
	leafSize      geom.Vec2
	depth         int
	bounds        geom.Rect
	ubiquitous    map[H]Element[H]
	modified      bool
	logger        spatiallog.Logger
}

// Make builds a full quadtree of the given depth over a size.X x size.Y
// region. depth must be >= 1 and each size component must be a power of
// two; violating either is a configuration error and panics rather than
// returning an error.
func Make[H comparable](depth int, size geom.Vec2) *Tree[H] {
	if depth < 1 {
		panic(fmt.Sprintf("quadtree: depth must be >= 1, got %d", depth))
	}
	if !isPowerOfTwo(size.X) || !isPowerOfTwo(size.Y) {
		panic(fmt.Sprintf("quadtree: size %v must have power-of-two components", size))
	}

	leafCount := float64(int64(1) << uint(depth-1))
	leafSize := geom.Vec2{X: size.X / leafCount, Y: size.Y / leafCount}
	// Min-corner offset by half a leaf-size inward from the symmetric
	// centre, so a world-origin query straddles the minimum number of
	// leaves (invariant 6).
	rootMin := geom.Vec2{
		X: -size.X/2 + leafSize.X/2,
		Y: -size.Y/2 + leafSize.Y/2,
	}
	bounds := geom.Rect{X: rootMin.X, Y: rootMin.Y, Width: size.X, Height: size.Y}

	t := &Tree[H]{
		leafDirectory: make(map[leafKey]*node[H]),
		leafSize:      leafSize,
		depth:         depth,
		bounds:        bounds,
		ubiquitous:    make(map[H]Element[H]),
		logger:        spatiallog.Default(),
	}
	t.root = t.build(depth, bounds)
	return t
}

func (t *Tree[H]) build(depth int, bounds geom.Rect) *node[H] {
	if depth == 1 {
		n := newLeaf[H](depth, bounds)
		t.leafDirectory[leafKey{bounds.X, bounds.Y}] = n
		return n
	}
	n := newInterior[H](depth, bounds)
	half := geom.Vec2{X: bounds.Width / 2, Y: bounds.Height / 2}
	for j := 0; j < 2; j++ {
		for i := 0; i < 2; i++ {
			child := geom.Rect{
				X:      bounds.X + float64(i)*half.X,
				Y:      bounds.Y + float64(j)*half.Y,
				Width:  half.X,
				Height: half.Y,
			}
			n.children[j*2+i] = t.build(depth-1, child)
		}
	}
	return n
}

func isPowerOfTwo(f float64) bool {
	if f <= 0 {
		return false
	}
	i := int64(f)
	if float64(i) != f {
		return false
	}
	return i&(i-1) == 0
}

// findNode computes the leaf whose grid cell would contain bounds and
// returns it only if that leaf fully contains bounds; otherwise it returns
// the root, so callers fall back to root-level recursion.
func (t *Tree[H]) findNode(bounds geom.Rect) *node[H] {
	originX := math.Floor((bounds.X-t.bounds.X)/t.leafSize.X)*t.leafSize.X + t.bounds.X
	originY := math.Floor((bounds.Y-t.bounds.Y)/t.leafSize.Y)*t.leafSize.Y + t.bounds.Y
	leaf, ok := t.leafDirectory[leafKey{originX, originY}]
	if ok && leaf.bounds.ContainsRect(bounds) {
		return leaf
	}
	return t.root
}

// isSpatial reports whether an element with presence/bounds belongs in the
// leaf grid. Omnipresent elements and elements whose bounds don't intersect
// the tree are ubiquitous; the latter case is a diagnosed degradation, not a
// silent one.
func (t *Tree[H]) isSpatial(presence Presence, bounds geom.Rect, warn bool) bool {
	if presence == Omnipresent {
		return false
	}
	if !t.bounds.Intersects(bounds) {
		if warn {
			t.logger.Warnf("element bounds %v do not intersect tree bounds %v; storing ubiquitously", bounds, t.bounds)
		}
		return false
	}
	return true
}

func (t *Tree[H]) upsertUbiquitous(e Element[H]) {
	delete(t.ubiquitous, e.handle)
	t.ubiquitous[e.handle] = e
}

// AddElement inserts e into every leaf whose bounds intersect bounds, or
// into the ubiquitous bucket if presence is Omnipresent or bounds fall
// outside the tree. Re-adding an existing handle refreshes its stored
// flags (upsert).
func (t *Tree[H]) AddElement(presence Presence, bounds geom.Rect, e Element[H]) {
	t.modified = true
	if !t.isSpatial(presence, bounds, true) {
		t.upsertUbiquitous(e)
		return
	}
	addToNode(t.findNode(bounds), bounds, e)
}

// RemoveElement removes e from every leaf whose bounds intersect bounds, or
// from the ubiquitous bucket. Removing an absent element is a silent no-op.
func (t *Tree[H]) RemoveElement(presence Presence, bounds geom.Rect, e Element[H]) {
	t.modified = true
	if presence == Omnipresent || !t.bounds.Intersects(bounds) {
		delete(t.ubiquitous, e.handle)
		return
	}
	removeFromNode(t.findNode(bounds), bounds, e)
}

// UpdateElement relocates e from (oldPresence, oldBounds) to
// (newPresence, newBounds), producing a state observationally identical to
// RemoveElement(oldPresence, oldBounds, e) followed by
// AddElement(newPresence, newBounds, e), but takes the in-place update fast
// path when both bounds resolve to the same leaf.
func (t *Tree[H]) UpdateElement(oldPresence Presence, oldBounds geom.Rect, newPresence Presence, newBounds geom.Rect, e Element[H]) {
	t.modified = true
	wasSpatial := t.isSpatial(oldPresence, oldBounds, false)
	isSpatialNow := t.isSpatial(newPresence, newBounds, true)

	switch {
	case wasSpatial && isSpatialNow:
		oldNode := t.findNode(oldBounds)
		newNode := t.findNode(newBounds)
		if oldNode.id == newNode.id {
			// oldNode and newNode are the same node; always call update
			// on the new node's handle, matching the octree package.
			updateInNode(newNode, oldBounds, newBounds, e)
		} else {
			removeFromNode(oldNode, oldBounds, e)
			addToNode(newNode, newBounds, e)
		}
	case wasSpatial && !isSpatialNow:
		removeFromNode(t.findNode(oldBounds), oldBounds, e)
		t.upsertUbiquitous(e)
	case !wasSpatial && isSpatialNow:
		delete(t.ubiquitous, e.handle)
		addToNode(t.findNode(newBounds), newBounds, e)
	default:
		t.upsertUbiquitous(e)
	}
}

// SetLogger redirects diagnostic warnings (out-of-bounds insertions) to l.
// The default logger writes to stderr (spatiallog.Default).
func (t *Tree[H]) SetLogger(l spatiallog.Logger) { t.logger = l }

// LeafSize returns the size of a single leaf cell.
func (t *Tree[H]) LeafSize() geom.Vec2 { return t.leafSize }

// Depth returns the configured tree depth.
func (t *Tree[H]) Depth() int { return t.depth }

// Bounds returns the overall tree bounds.
func (t *Tree[H]) Bounds() geom.Rect { return t.bounds }

// ElementsModified reports whether any mutation has occurred since Make.
func (t *Tree[H]) ElementsModified() bool { return t.modified }

func (t *Tree[H]) ubiquitousSlice() []Element[H] {
	out := make([]Element[H], 0, len(t.ubiquitous))
	for _, e := range t.ubiquitous {
		out = append(out, e)
	}
	return out
}

func (t *Tree[H]) assemble(acc *Set[H]) Enumeration[H] {
	return newEnumeration(t.ubiquitousSlice(), acc.slice())
}
