package quadtree

import "github.com/phanxgames/spatialtree/geom"

func atPointKernel[H comparable](n *node[H], x, y float64, acc *Set[H]) {
	if !n.bounds.Contains(x, y) {
		return
	}
	if n.kind == nodeInterior {
		for _, c := range n.children {
			atPointKernel(c, x, y, acc)
		}
		return
	}
	for _, e := range n.elements {
		acc.Add(e)
	}
}

func inBoundsKernel[H comparable](n *node[H], box geom.Rect, acc *Set[H]) {
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
		acc.Add(e)
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

// AtPoint returns every element whose leaf membership contains (x, y),
// merged with the ubiquitous bucket. Returns an empty Enumeration if the
// tree has never been mutated.
func (t *Tree[H]) AtPoint(x, y float64, acc *Set[H]) Enumeration[H] {
	if !t.modified {
		return Enumeration[H]{}
	}
	atPointKernel(t.root, x, y, acc)
	return t.assemble(acc)
}

// InBounds returns every element whose leaf membership intersects box,
// merged with the ubiquitous bucket.
func (t *Tree[H]) InBounds(box geom.Rect, acc *Set[H]) Enumeration[H] {
	if !t.modified {
		return Enumeration[H]{}
	}
	inBoundsKernel(t.root, box, acc)
	return t.assemble(acc)
}

// InView returns the elements visible within box. The 2D tree draws no
// frustum/play distinction, so this delegates directly to InBounds and
// exists only to keep the same query surface the octree exposes.
func (t *Tree[H]) InView(box geom.Rect, acc *Set[H]) Enumeration[H] {
	return t.InBounds(box, acc)
}

// InPlay returns the elements within the simulation region box. Like
// InView, the 2D tree has no play/visibility distinction and this
// delegates to InBounds.
func (t *Tree[H]) InPlay(box geom.Rect, acc *Set[H]) Enumeration[H] {
	return t.InBounds(box, acc)
}

// Elements returns every element in the tree, merged with the ubiquitous
// bucket.
func (t *Tree[H]) Elements(acc *Set[H]) Enumeration[H] {
	if !t.modified {
		return Enumeration[H]{}
	}
	elementsKernel(t.root, acc)
	return t.assemble(acc)
}
