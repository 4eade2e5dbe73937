package octree

import "github.com/phanxgames/spatialtree/geom"

// Presence partitions an entity into one of the spatial culling categories.
type Presence uint8

const (
	// Enclosed entities are inside the (possibly occluded) view region.
	Enclosed Presence = iota
	// Exposed entities are outside the occluded view region but visible.
	Exposed
	// Imposter entities are billboard-like proxies tested against a
	// looser frustum and stored in their own ubiquitous bucket.
	Imposter
	// Omnipresent entities opt out of culling entirely.
	Omnipresent
)

// ImposterType reports whether p is Imposter — used by the tree to route
// elements into the imposter ubiquitous bucket.
func (p Presence) ImposterType() bool { return p == Imposter }

// OmnipresentType reports whether p is Omnipresent — used by the tree to
// route elements into the omnipresent ubiquitous bucket.
func (p Presence) OmnipresentType() bool { return p == Omnipresent }

// Intersects3d combines presence and the view frustums into a single
// visibility test: Enclosed is tested against enclosedFrustum, Exposed
// against exposedFrustum, and Imposter and Omnipresent always pass. The
// flags argument is accepted but not consulted. It is not used internally
// by Tree's own query kernels — it exists for callers composing their own
// ad hoc queries on top of the same presence/frustum vocabulary.
func (p Presence) Intersects3d(flags Flags, enclosedFrustum, exposedFrustum geom.Frustum, bounds geom.Box) bool {
	switch p {
	case Enclosed:
		return enclosedFrustum.IntersectsBox(bounds)
	case Exposed:
		return exposedFrustum.IntersectsBox(bounds)
	case Imposter, Omnipresent:
		return true
	default:
		return false
	}
}
