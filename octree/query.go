package octree

import "github.com/phanxgames/spatialtree/geom"

func atPointKernel[H comparable](n *node[H], pt geom.Vec3, acc *Set[H]) {
	if !n.bounds.Contains(pt.X, pt.Y, pt.Z) {
		return
	}
	if n.kind == nodeInterior {
		for _, c := range n.children {
			atPointKernel(c, pt, acc)
		}
		return
	}
	for _, e := range n.elements {
		if e.bounds.Contains(pt.X, pt.Y, pt.Z) {
			acc.Add(e)
		}
	}
}

func inBoundsKernel[H comparable](n *node[H], box geom.Box, acc *Set[H]) {
	if !n.bounds.Intersects(box) {
		return
	}
	if n.kind == nodeInterior {
		for _, c := range n.children {
			inBoundsKernel(c, box, acc)
		}
		return
	}
	for _, e := range n.elements {
		if e.bounds.Intersects(box) {
			acc.Add(e)
		}
	}
}

func inFrustumKernel[H comparable](n *node[H], f geom.Frustum, acc *Set[H]) {
	if !f.IntersectsBox(n.bounds) {
		return
	}
	if n.kind == nodeInterior {
		for _, c := range n.children {
			inFrustumKernel(c, f, acc)
		}
		return
	}
	for _, e := range n.elements {
		if f.IntersectsBox(e.bounds) {
			acc.Add(e)
		}
	}
}

func inPlayBoxKernel[H comparable](n *node[H], box geom.Box, acc *Set[H]) {
	if !n.bounds.Intersects(box) {
		return
	}
	if n.kind == nodeInterior {
		for _, c := range n.children {
			inPlayBoxKernel(c, box, acc)
		}
		return
	}
	for _, e := range n.elements {
		if !e.Static() && e.bounds.Intersects(box) {
			acc.Add(e)
		}
	}
}

func inPlayFrustumKernel[H comparable](n *node[H], f geom.Frustum, acc *Set[H]) {
	if !f.IntersectsBox(n.bounds) {
		return
	}
	if n.kind == nodeInterior {
		for _, c := range n.children {
			inPlayFrustumKernel(c, f, acc)
		}
		return
	}
	for _, e := range n.elements {
		if !e.Static() && f.IntersectsBox(e.bounds) {
			acc.Add(e)
		}
	}
}

func lightProbesInBoxKernel[H comparable](n *node[H], box geom.Box, acc *Set[H]) {
	if !n.bounds.Intersects(box) {
		return
	}
	if n.kind == nodeInterior {
		for _, c := range n.children {
			lightProbesInBoxKernel(c, box, acc)
		}
		return
	}
	for _, e := range n.elements {
		if e.LightProbe() && e.bounds.Intersects(box) {
			acc.Add(e)
		}
	}
}

func lightsInBoxKernel[H comparable](n *node[H], box geom.Box, acc *Set[H]) {
	if !n.bounds.Intersects(box) {
		return
	}
	if n.kind == nodeInterior {
		for _, c := range n.children {
			lightsInBoxKernel(c, box, acc)
		}
		return
	}
	for _, e := range n.elements {
		if e.Light() && e.bounds.Intersects(box) {
			acc.Add(e)
		}
	}
}

// inViewFrustumKernel is InView's per-branch descent: walking the enclosed
// frustum accepts only Enclosed-presence elements, walking the exposed
// frustum accepts only Exposed-presence elements.
func inViewFrustumKernel[H comparable](n *node[H], enclosed bool, f geom.Frustum, acc *Set[H]) {
	if !f.IntersectsBox(n.bounds) {
		return
	}
	if n.kind == nodeInterior {
		for _, c := range n.children {
			inViewFrustumKernel(c, enclosed, f, acc)
		}
		return
	}
	want := Exposed
	if enclosed {
		want = Enclosed
	}
	for _, e := range n.elements {
		if e.presence == want && f.IntersectsBox(e.bounds) {
			acc.Add(e)
		}
	}
}

func elementsKernel[H comparable](n *node[H], acc *Set[H]) {
	if n.kind == nodeInterior {
		for _, c := range n.children {
			elementsKernel(c, acc)
		}
		return
	}
	for _, e := range n.elements {
		acc.Add(e)
	}
}

// AtPoint returns every element whose own bounds contain pt, merged with
// the omnipresent bucket and any imposter whose bounds contain pt. Returns
// an empty Enumeration if the tree has never been mutated.
func (t *Tree[H]) AtPoint(pt geom.Vec3, acc *Set[H]) Enumeration[H] {
	if !t.modified {
		return Enumeration[H]{}
	}
	atPointKernel(t.root, pt, acc)
	t.mergeImposters(acc, func(e Element[H]) bool { return e.bounds.Contains(pt.X, pt.Y, pt.Z) })
	return t.assemble(acc)
}

// InBounds returns every element whose own bounds intersect box, merged
// with the omnipresent bucket and any intersecting imposter.
func (t *Tree[H]) InBounds(box geom.Box, acc *Set[H]) Enumeration[H] {
	if !t.modified {
		return Enumeration[H]{}
	}
	inBoundsKernel(t.root, box, acc)
	t.mergeImposters(acc, func(e Element[H]) bool { return e.bounds.Intersects(box) })
	return t.assemble(acc)
}

// InFrustum returns every element whose own bounds intersect f, merged with
// the omnipresent bucket and any intersecting imposter.
func (t *Tree[H]) InFrustum(f geom.Frustum, acc *Set[H]) Enumeration[H] {
	if !t.modified {
		return Enumeration[H]{}
	}
	inFrustumKernel(t.root, f, acc)
	t.mergeImposters(acc, func(e Element[H]) bool { return f.IntersectsBox(e.bounds) })
	return t.assemble(acc)
}

// InPlay returns the elements relevant to the simulation region: those
// whose bounds intersect playBox or playFrustum, excluding anything marked
// Static. Composite of the InPlayBox and InPlayFrustum kernels.
func (t *Tree[H]) InPlay(playBox geom.Box, playFrustum geom.Frustum, acc *Set[H]) Enumeration[H] {
	if !t.modified {
		return Enumeration[H]{}
	}
	inPlayBoxKernel(t.root, playBox, acc)
	inPlayFrustumKernel(t.root, playFrustum, acc)
	t.mergeImposters(acc, func(e Element[H]) bool {
		return !e.Static() && (e.bounds.Intersects(playBox) || playFrustum.IntersectsBox(e.bounds))
	})
	return t.assemble(acc)
}

// InView returns the elements visible this frame: Enclosed-presence
// elements intersecting enclosedFrustum, Exposed-presence elements
// intersecting exposedFrustum, and Light-flagged elements intersecting
// lightBox — merged with the omnipresent bucket and any imposter
// intersecting imposterFrustum.
func (t *Tree[H]) InView(enclosedFrustum, exposedFrustum, imposterFrustum geom.Frustum, lightBox geom.Box, acc *Set[H]) Enumeration[H] {
	if !t.modified {
		return Enumeration[H]{}
	}
	inViewFrustumKernel(t.root, true, enclosedFrustum, acc)
	inViewFrustumKernel(t.root, false, exposedFrustum, acc)
	lightsInBoxKernel(t.root, lightBox, acc)
	t.mergeImposters(acc, func(e Element[H]) bool { return imposterFrustum.IntersectsBox(e.bounds) })
	return t.assemble(acc)
}

// LightProbesInPlay returns elements flagged LightProbe whose bounds
// intersect box.
func (t *Tree[H]) LightProbesInPlay(box geom.Box, acc *Set[H]) Enumeration[H] {
	if !t.modified {
		return Enumeration[H]{}
	}
	lightProbesInBoxKernel(t.root, box, acc)
	t.mergeImposters(acc, func(e Element[H]) bool { return e.LightProbe() && e.bounds.Intersects(box) })
	return t.assemble(acc)
}

// LightsInPlay returns elements flagged Light whose bounds intersect box.
func (t *Tree[H]) LightsInPlay(box geom.Box, acc *Set[H]) Enumeration[H] {
	if !t.modified {
		return Enumeration[H]{}
	}
	lightsInBoxKernel(t.root, box, acc)
	t.mergeImposters(acc, func(e Element[H]) bool { return e.Light() && e.bounds.Intersects(box) })
	return t.assemble(acc)
}

// Elements returns every element in the tree, including every imposter
// unconditionally (there is no query region to filter against), merged
// with the omnipresent bucket.
func (t *Tree[H]) Elements(acc *Set[H]) Enumeration[H] {
	if !t.modified {
		return Enumeration[H]{}
	}
	elementsKernel(t.root, acc)
	t.mergeImposters(acc, func(Element[H]) bool { return true })
	return t.assemble(acc)
}
