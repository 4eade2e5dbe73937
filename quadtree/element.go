package quadtree

import "hash/maphash"

// Flags packs per-element classification bits. Only Visible applies to the
// 2D tree — Static, LightProbe, and Light are 3D-only concepts carried by
// octree.Element instead.
type Flags uint8

// FlagVisible marks an element as currently visible to the renderer.
const FlagVisible Flags = 1 << iota

// elementSeed is computed once per process and used to cache each Element's
// handle hash at construction rather than rehashing it on every comparison.
var elementSeed = maphash.MakeSeed()

// Element is an immutable value bundling a user handle with its
// classification flags. Equality and hashing of an Element are defined
// solely by its handle: two Elements with the same handle but different
// flags are equal, so inserting a new value for an existing handle refreshes
// the stored flags without changing the set's membership.
type Element[H comparable] struct {
	handle H
	hash   uint64
	flags  Flags
}

// NewElement builds an Element for handle with the given flags. The hash is
// computed once here and cached for the lifetime of the value.
func NewElement[H comparable](handle H, flags Flags) Element[H] {
	return Element[H]{
		handle: handle,
		hash:   maphash.Comparable(elementSeed, handle),
		flags:  flags,
	}
}

// Handle returns the opaque user handle this element wraps.
func (e Element[H]) Handle() H { return e.handle }

// Hash returns the cached hash of the handle.
func (e Element[H]) Hash() uint64 { return e.hash }

// Flags returns the element's classification bits.
func (e Element[H]) Flags() Flags { return e.flags }

// Visible reports whether FlagVisible is set.
func (e Element[H]) Visible() bool { return e.flags&FlagVisible != 0 }

// Equal reports whether e and other share the same handle, regardless of
// flags — the index's notion of element identity.
func (e Element[H]) Equal(other Element[H]) bool { return e.handle == other.handle }
