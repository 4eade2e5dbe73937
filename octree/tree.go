// Package octree is a fixed-depth spatial index over axis-aligned boxes in
// 3D space, built for a real-time game engine's per-frame visibility,
// picking, and simulation-region queries.
package octree

import (
	"fmt"
	"math"

	"github.com/phanxgames/spatialtree/geom"
	"github.com/phanxgames/spatialtree/spatiallog"
)

// leafKey identifies a leaf by its min corner, used by the leaf directory
// for the O(1)-descent fast path.
type leafKey struct{ x, y, z float64 }

// Tree is a fixed-depth octree over a cuboid region centered near the world
// origin. Construct with Make; the zero value is not usable.
type Tree[H comparable] struct {
	root          *node[H]
	leafDirectory map[leafKey]*node[H]
	leafSize      geom.Vec3
	depth         int
	bounds        geom.Box
	imposter      map[H]Element[H]
	omnipresent   map[H]Element[H]
	modified      bool
	logger        spatiallog.Logger
}

// Make builds a full octree of the given depth over a size.X x size.Y x
// size.Z region. depth must be >= 1 and each size component must be a
// power of two; violating either is a configuration error and panics
// rather than returning an error.
func Make[H comparable](depth int, size geom.Vec3) *Tree[H] {
	if depth < 1 {
		panic(fmt.Sprintf("octree: depth must be >= 1, got %d", depth))
	}
	if !isPowerOfTwo(size.X) || !isPowerOfTwo(size.Y) || !isPowerOfTwo(size.Z) {
		panic(fmt.Sprintf("octree: size %v must have power-of-two components", size))
	}

	leafCount := float64(int64(1) << uint(depth-1))
	leafSize := geom.Vec3{X: size.X / leafCount, Y: size.Y / leafCount, Z: size.Z / leafCount}
	rootMin := geom.Vec3{
		X: -size.X/2 + leafSize.X/2,
		Y: -size.Y/2 + leafSize.Y/2,
		Z: -size.Z/2 + leafSize.Z/2,
	}
	bounds := geom.Box{X: rootMin.X, Y: rootMin.Y, Z: rootMin.Z, Width: size.X, Height: size.Y, Depth: size.Z}

	t := &Tree[H]{
		leafDirectory: make(map[leafKey]*node[H]),
		leafSize:      leafSize,
		depth:         depth,
		bounds:        bounds,
		imposter:      make(map[H]Element[H]),
		omnipresent:   make(map[H]Element[H]),
		logger:        spatiallog.Default(),
	}
	t.root = t.build(depth, bounds)
	return t
}

func (t *Tree[H]) build(depth int, bounds geom.Box) *node[H] {
	if depth == 1 {
		n := newLeaf[H](depth, bounds)
		t.leafDirectory[leafKey{bounds.X, bounds.Y, bounds.Z}] = n
		return n
	}
	n := newInterior[H](depth, bounds)
	half := geom.Vec3{X: bounds.Width / 2, Y: bounds.Height / 2, Z: bounds.Depth / 2}
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			for i := 0; i < 2; i++ {
				child := geom.Box{
					X:      bounds.X + float64(i)*half.X,
					Y:      bounds.Y + float64(j)*half.Y,
					Z:      bounds.Z + float64(k)*half.Z,
					Width:  half.X,
					Height: half.Y,
					Depth:  half.Z,
				}
				n.children[k*4+j*2+i] = t.build(depth-1, child)
			}
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
// the root.
func (t *Tree[H]) findNode(bounds geom.Box) *node[H] {
	ox := math.Floor((bounds.X-t.bounds.X)/t.leafSize.X)*t.leafSize.X + t.bounds.X
	oy := math.Floor((bounds.Y-t.bounds.Y)/t.leafSize.Y)*t.leafSize.Y + t.bounds.Y
	oz := math.Floor((bounds.Z-t.bounds.Z)/t.leafSize.Z)*t.leafSize.Z + t.bounds.Z
	leaf, ok := t.leafDirectory[leafKey{ox, oy, oz}]
	if ok && leaf.bounds.ContainsBox(bounds) {
		return leaf
	}
	return t.root
}

// isSpatial reports whether an element with presence/bounds belongs in the
// leaf grid, as opposed to one of the ubiquitous buckets.
func (t *Tree[H]) isSpatial(presence Presence, bounds geom.Box, warn bool) bool {
	if presence.ImposterType() || presence.OmnipresentType() {
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

// upsertUbiquitous routes e into the imposter bucket if its presence is
// Imposter, otherwise into the omnipresent bucket — which is also the
// out-of-bounds fallback destination for Enclosed/Exposed elements.
func (t *Tree[H]) upsertUbiquitous(presence Presence, e Element[H]) {
	if presence.ImposterType() {
		delete(t.imposter, e.handle)
		t.imposter[e.handle] = e
		return
	}
	delete(t.omnipresent, e.handle)
	t.omnipresent[e.handle] = e
}

func (t *Tree[H]) removeFromUbiquitous(e Element[H]) {
	delete(t.imposter, e.handle)
	delete(t.omnipresent, e.handle)
}

// AddElement inserts e (whose Presence and Bounds are carried internally)
// into every leaf its bounds intersect, or into the matching ubiquitous
// bucket.
func (t *Tree[H]) AddElement(e Element[H]) {
	t.modified = true
	if !t.isSpatial(e.presence, e.bounds, true) {
		t.upsertUbiquitous(e.presence, e)
		return
	}
	addToNode(t.findNode(e.bounds), e.bounds, e)
}

// RemoveElement removes e from every leaf its bounds intersect, or from its
// ubiquitous bucket. Removing an absent element is a silent no-op.
func (t *Tree[H]) RemoveElement(e Element[H]) {
	t.modified = true
	if e.presence.ImposterType() {
		delete(t.imposter, e.handle)
		return
	}
	if e.presence.OmnipresentType() || !t.bounds.Intersects(e.bounds) {
		delete(t.omnipresent, e.handle)
		return
	}
	removeFromNode(t.findNode(e.bounds), e.bounds, e)
}

// UpdateElement relocates an element from old's (presence, bounds) to
// new's, producing a state observationally identical to RemoveElement(old)
// followed by AddElement(new), but takes the in-place update fast path
// when both bounds resolve to the same leaf.
func (t *Tree[H]) UpdateElement(old, new Element[H]) {
	t.modified = true
	wasSpatial := t.isSpatial(old.presence, old.bounds, false)
	isSpatialNow := t.isSpatial(new.presence, new.bounds, true)

	switch {
	case wasSpatial && isSpatialNow:
		oldNode := t.findNode(old.bounds)
		newNode := t.findNode(new.bounds)
		if oldNode.id == newNode.id {
			updateInNode(newNode, old.bounds, new.bounds, new)
		} else {
			removeFromNode(oldNode, old.bounds, old)
			addToNode(newNode, new.bounds, new)
		}
	case wasSpatial && !isSpatialNow:
		removeFromNode(t.findNode(old.bounds), old.bounds, old)
		t.upsertUbiquitous(new.presence, new)
	case !wasSpatial && isSpatialNow:
		t.removeFromUbiquitous(old)
		addToNode(t.findNode(new.bounds), new.bounds, new)
	default:
		t.removeFromUbiquitous(old)
		t.upsertUbiquitous(new.presence, new)
	}
}

// SetLogger redirects diagnostic warnings to l. The default logger writes
// to stderr (spatiallog.Default).
func (t *Tree[H]) SetLogger(l spatiallog.Logger) { t.logger = l }

// LeafSize returns the size of a single leaf cell.
func (t *Tree[H]) LeafSize() geom.Vec3 { return t.leafSize }

// Depth returns the configured tree depth.
func (t *Tree[H]) Depth() int { return t.depth }

// Bounds returns the overall tree bounds.
func (t *Tree[H]) Bounds() geom.Box { return t.bounds }

// ElementsModified reports whether any mutation has occurred since Make.
func (t *Tree[H]) ElementsModified() bool { return t.modified }

func (t *Tree[H]) omnipresentSlice() []Element[H] {
	out := make([]Element[H], 0, len(t.omnipresent))
	for _, e := range t.omnipresent {
		out = append(out, e)
	}
	return out
}

// mergeImposters appends every imposter passing test into acc. Imposters
// live outside the spatial tree, so they can't be pruned by node-bounds
// descent and must be re-filtered per query instead.
func (t *Tree[H]) mergeImposters(acc *Set[H], test func(Element[H]) bool) {
	for _, e := range t.imposter {
		if test(e) {
			acc.Add(e)
		}
	}
}

func (t *Tree[H]) assemble(acc *Set[H]) Enumeration[H] {
	return newEnumeration(t.omnipresentSlice(), acc.slice())
}
