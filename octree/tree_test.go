package octree

import (
	"testing"

	"github.com/phanxgames/spatialtree/geom"
	"github.com/phanxgames/spatialtree/spatiallog"
)

func makeTestTree(t *testing.T) *Tree[int] {
	t.Helper()
	return Make[int](3, geom.Vec3{X: 8, Y: 8, Z: 8})
}

func TestMakeDerivesLeafSizeAndBounds(t *testing.T) {
	tr := makeTestTree(t)
	if got := tr.LeafSize(); got != (geom.Vec3{X: 2, Y: 2, Z: 2}) {
		t.Fatalf("LeafSize() = %v, want {2 2 2}", got)
	}
	want := geom.Box{X: -3, Y: -3, Z: -3, Width: 8, Height: 8, Depth: 8}
	if got := tr.Bounds(); got != want {
		t.Fatalf("Bounds() = %v, want %v", got, want)
	}
	if tr.Depth() != 3 {
		t.Fatalf("Depth() = %d, want 3", tr.Depth())
	}
}

func TestMakePanicsOnInvalidDepth(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for depth < 1")
		}
	}()
	Make[int](0, geom.Vec3{X: 8, Y: 8, Z: 8})
}

func TestMakePanicsOnNonPowerOfTwoSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-power-of-two size")
		}
	}()
	Make[int](2, geom.Vec3{X: 6, Y: 8, Z: 8})
}

func TestMakeDepthOneIsSingleLeaf(t *testing.T) {
	tr := Make[int](1, geom.Vec3{X: 4, Y: 4, Z: 4})
	if tr.root.kind != nodeLeaf {
		t.Fatal("expected depth-1 tree to be a single leaf")
	}
	if len(tr.leafDirectory) != 1 {
		t.Fatalf("leafDirectory has %d entries, want 1", len(tr.leafDirectory))
	}
}

func TestLeafDirectoryCompleteness(t *testing.T) {
	tr := makeTestTree(t)
	// depth=3 -> 2^(depth-1) = 4 leaves per axis -> 64 leaves total.
	if len(tr.leafDirectory) != 64 {
		t.Fatalf("leafDirectory has %d entries, want 64", len(tr.leafDirectory))
	}
	for key, leaf := range tr.leafDirectory {
		if leaf.bounds.X != key.x || leaf.bounds.Y != key.y || leaf.bounds.Z != key.z {
			t.Fatalf("leaf directory key %v does not match leaf bounds %v", key, leaf.bounds)
		}
		if leaf.kind != nodeLeaf || leaf.depth != 1 {
			t.Fatalf("leaf directory entry %v is not a depth-1 leaf", key)
		}
	}
}

func TestShortCircuitOnFreshTree(t *testing.T) {
	tr := makeTestTree(t)
	acc := NewSet[int]()
	enum := tr.Elements(acc)
	if enum.Len() != 0 {
		t.Fatalf("Elements() on a fresh tree returned %d elements, want 0", enum.Len())
	}
}

func TestAddThenAtPointRoundTrip(t *testing.T) {
	tr := makeTestTree(t)
	bounds := geom.Box{X: 0, Y: 0, Z: 0, Width: 1, Height: 1, Depth: 1}
	e := NewElement(1, FlagVisible, Enclosed, bounds)
	tr.AddElement(e)

	acc := NewSet[int]()
	enum := tr.AtPoint(geom.Vec3{X: 0.5, Y: 0.5, Z: 0.5}, acc)
	if enum.Len() != 1 {
		t.Fatalf("AtPoint inside bounds returned %d elements, want 1", enum.Len())
	}

	acc.Reset()
	enum = tr.AtPoint(geom.Vec3{X: 5, Y: 5, Z: 5}, acc)
	if enum.Len() != 0 {
		t.Fatalf("AtPoint far outside bounds returned %d elements, want 0", enum.Len())
	}
}

func TestRemoveAfterAddLeavesNoMatches(t *testing.T) {
	tr := makeTestTree(t)
	bounds := geom.Box{X: 0, Y: 0, Z: 0, Width: 1, Height: 1, Depth: 1}
	e := NewElement(1, FlagVisible, Enclosed, bounds)
	tr.AddElement(e)
	tr.RemoveElement(e)

	acc := NewSet[int]()
	if enum := tr.Elements(acc); enum.Len() != 0 {
		t.Fatalf("Elements() after remove returned %d elements, want 0", enum.Len())
	}
}

func TestAddIdempotent(t *testing.T) {
	tr := makeTestTree(t)
	bounds := geom.Box{X: 0, Y: 0, Z: 0, Width: 1, Height: 1, Depth: 1}
	e := NewElement(1, FlagVisible, Enclosed, bounds)
	tr.AddElement(e)
	tr.AddElement(e)

	acc := NewSet[int]()
	if enum := tr.Elements(acc); enum.Len() != 1 {
		t.Fatalf("Elements() after double-add returned %d elements, want 1", enum.Len())
	}
}

func TestRemoveAbsentElementIsNoop(t *testing.T) {
	tr := makeTestTree(t)
	bounds := geom.Box{X: 0, Y: 0, Z: 0, Width: 1, Height: 1, Depth: 1}
	e := NewElement(1, FlagVisible, Enclosed, bounds)
	tr.RemoveElement(e) // never added

	acc := NewSet[int]()
	if enum := tr.Elements(acc); enum.Len() != 0 {
		t.Fatalf("Elements() after removing absent element returned %d, want 0", enum.Len())
	}
}

func TestUpdateMovesElement(t *testing.T) {
	tr := makeTestTree(t)
	oldBounds := geom.Box{X: 0, Y: 0, Z: 0, Width: 1, Height: 1, Depth: 1}
	newBounds := geom.Box{X: 4, Y: 4, Z: 4, Width: 1, Height: 1, Depth: 1}
	oldE := NewElement(1, FlagVisible, Enclosed, oldBounds)
	newE := NewElement(1, FlagVisible, Enclosed, newBounds)
	tr.AddElement(oldE)
	tr.UpdateElement(oldE, newE)

	acc := NewSet[int]()
	if enum := tr.AtPoint(geom.Vec3{X: 0.5, Y: 0.5, Z: 0.5}, acc); enum.Len() != 0 {
		t.Fatalf("AtPoint at old location returned %d elements, want 0", enum.Len())
	}
	acc.Reset()
	if enum := tr.AtPoint(geom.Vec3{X: 4.5, Y: 4.5, Z: 4.5}, acc); enum.Len() != 1 {
		t.Fatalf("AtPoint at new location returned %d elements, want 1", enum.Len())
	}
}

func TestUpdateEquivalentToRemoveThenAdd(t *testing.T) {
	oldBounds := geom.Box{X: 0, Y: 0, Z: 0, Width: 1, Height: 1, Depth: 1}
	newBounds := geom.Box{X: 4, Y: 4, Z: 4, Width: 1, Height: 1, Depth: 1}
	oldE := NewElement(1, FlagVisible, Enclosed, oldBounds)
	newE := NewElement(1, FlagVisible, Enclosed, newBounds)

	updated := makeTestTree(t)
	updated.AddElement(oldE)
	updated.UpdateElement(oldE, newE)

	removedAdded := makeTestTree(t)
	removedAdded.AddElement(oldE)
	removedAdded.RemoveElement(oldE)
	removedAdded.AddElement(newE)

	probe := func(tr *Tree[int], pt geom.Vec3) int {
		acc := NewSet[int]()
		return tr.AtPoint(pt, acc).Len()
	}
	for _, pt := range []geom.Vec3{{X: 0.5, Y: 0.5, Z: 0.5}, {X: 4.5, Y: 4.5, Z: 4.5}, {X: 6.5, Y: 6.5, Z: 6.5}} {
		if got, want := probe(updated, pt), probe(removedAdded, pt); got != want {
			t.Fatalf("at %v: update gave %d elements, remove+add gave %d", pt, got, want)
		}
	}
}

func TestOmnipresentAlwaysMatches(t *testing.T) {
	tr := makeTestTree(t)
	e := NewElement(2, FlagVisible, Omnipresent, geom.Box{})
	tr.AddElement(e)

	acc := NewSet[int]()
	if enum := tr.AtPoint(geom.Vec3{X: 100, Y: 100, Z: 100}, acc); enum.Len() != 1 {
		t.Fatalf("AtPoint far outside bounds missed omnipresent element, got %d", enum.Len())
	}
	acc.Reset()
	far := geom.Box{X: -1000, Y: -1000, Z: -1000, Width: 1, Height: 1, Depth: 1}
	if enum := tr.InBounds(far, acc); enum.Len() != 1 {
		t.Fatalf("InBounds missed omnipresent element, got %d", enum.Len())
	}
}

func TestAtPointFiltersImposters(t *testing.T) {
	tr := makeTestTree(t)
	bounds := geom.Box{X: 0, Y: 0, Z: 0, Width: 1, Height: 1, Depth: 1}
	e := NewElement(5, FlagVisible, Imposter, bounds)
	tr.AddElement(e)

	acc := NewSet[int]()
	if enum := tr.AtPoint(geom.Vec3{X: 0.5, Y: 0.5, Z: 0.5}, acc); enum.Len() != 1 {
		t.Fatalf("AtPoint missed intersecting imposter, got %d", enum.Len())
	}
	acc.Reset()
	if enum := tr.AtPoint(geom.Vec3{X: 100, Y: 100, Z: 100}, acc); enum.Len() != 0 {
		t.Fatalf("AtPoint matched a non-intersecting imposter, got %d", enum.Len())
	}
}

func TestOutOfBoundsInsertionDegradesToUbiquitous(t *testing.T) {
	tr := makeTestTree(t)
	tr.SetLogger(spatiallog.Noop())
	bounds := geom.Box{X: 1000, Y: 1000, Z: 1000, Width: 1, Height: 1, Depth: 1}
	e := NewElement(3, FlagVisible, Enclosed, bounds)
	tr.AddElement(e)

	acc := NewSet[int]()
	if enum := tr.Elements(acc); enum.Len() != 1 {
		t.Fatalf("out-of-bounds element missing from Elements(), got %d", enum.Len())
	}
}

func TestContainmentLawWithinSingleLeaf(t *testing.T) {
	tr := makeTestTree(t)
	a := NewElement(1, FlagVisible, Enclosed, geom.Box{X: 0, Y: 0, Z: 0, Width: 1, Height: 1, Depth: 1})
	b := NewElement(2, FlagVisible, Enclosed, geom.Box{X: 3, Y: 3, Z: 3, Width: 1, Height: 1, Depth: 1})
	tr.AddElement(a)
	tr.AddElement(b)

	query := geom.Box{X: -1, Y: -1, Z: -1, Width: 2, Height: 2, Depth: 2} // exactly the (-1,-1,-1) leaf
	acc := NewSet[int]()
	if enum := tr.InBounds(query, acc); enum.Len() != 1 {
		t.Fatalf("InBounds on contained query returned %d elements, want 1", enum.Len())
	}
}
