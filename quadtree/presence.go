package quadtree

// Presence partitions an element into spatial or ubiquitous storage. Unlike
// octree.Element, the 2D Element does not carry presence internally — it is
// supplied alongside bounds on every add/remove/update call.
type Presence uint8

const (
	// Spatial elements are indexed into the leaf grid by their bounds.
	Spatial Presence = iota
	// Omnipresent elements opt out of spatial culling entirely and are
	// always returned by every query.
	Omnipresent
)
