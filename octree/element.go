package octree

import (
	"hash/maphash"

	"github.com/phanxgames/spatialtree/geom"
)

// Flags packs per-element classification bits. Visible is shared with the
// 2D tree; Static, LightProbe, and Light are 3D-only.
type Flags uint8

const (
	// FlagVisible marks an element as currently visible to the renderer.
	FlagVisible Flags = 1 << iota
	// FlagStatic marks an element excluded from the Play-family queries.
	FlagStatic
	// FlagLightProbe marks an element returned by LightProbesInPlay.
	FlagLightProbe
	// FlagLight marks an element returned by LightsInPlay.
	FlagLight
)

var elementSeed = maphash.MakeSeed()

// Element is an immutable value bundling a handle, its classification
// flags, its presence category, and its own AABB. Unlike the 2D tree, the
// 3D Element carries presence and bounds internally so leaf iteration can
// re-test per-element intersection. Equality and hashing are defined
// solely by the handle.
type Element[H comparable] struct {
	handle   H
	hash     uint64
	flags    Flags
	presence Presence
	bounds   geom.Box
}

// NewElement builds an Element for handle with the given flags, presence,
// and bounds. The hash is computed once and cached for the value's
// lifetime.
func NewElement[H comparable](handle H, flags Flags, presence Presence, bounds geom.Box) Element[H] {
	return Element[H]{
		handle:   handle,
		hash:     maphash.Comparable(elementSeed, handle),
		flags:    flags,
		presence: presence,
		bounds:   bounds,
	}
}

// Handle returns the opaque user handle this element wraps.
func (e Element[H]) Handle() H { return e.handle }

// Hash returns the cached hash of the handle.
func (e Element[H]) Hash() uint64 { return e.hash }

// Flags returns the element's classification bits.
func (e Element[H]) Flags() Flags { return e.flags }

// Presence returns the element's spatial-category tag.
func (e Element[H]) Presence() Presence { return e.presence }

// Bounds returns the element's own AABB.
func (e Element[H]) Bounds() geom.Box { return e.bounds }

// Visible reports whether FlagVisible is set.
func (e Element[H]) Visible() bool { return e.flags&FlagVisible != 0 }

// Static reports whether FlagStatic is set.
func (e Element[H]) Static() bool { return e.flags&FlagStatic != 0 }

// LightProbe reports whether FlagLightProbe is set.
func (e Element[H]) LightProbe() bool { return e.flags&FlagLightProbe != 0 }

// Light reports whether FlagLight is set.
func (e Element[H]) Light() bool { return e.flags&FlagLight != 0 }

// Equal reports whether e and other share the same handle, regardless of
// flags, presence, or bounds — the index's notion of element identity.
func (e Element[H]) Equal(other Element[H]) bool { return e.handle == other.handle }
