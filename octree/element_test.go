package octree

import (
	"testing"

	"github.com/phanxgames/spatialtree/geom"
)

func TestElementEqualityByHandleOnly(t *testing.T) {
	a := NewElement(1, FlagVisible, Enclosed, geom.Box{Width: 1, Height: 1, Depth: 1})
	b := NewElement(1, FlagStatic, Exposed, geom.Box{X: 9, Y: 9, Z: 9, Width: 2, Height: 2, Depth: 2})
	if !a.Equal(b) {
		t.Fatal("elements sharing a handle should be Equal regardless of flags/presence/bounds")
	}
	c := NewElement(2, FlagVisible, Enclosed, geom.Box{Width: 1, Height: 1, Depth: 1})
	if a.Equal(c) {
		t.Fatal("elements with different handles should not be Equal")
	}
}

func TestElementFlagAccessors(t *testing.T) {
	e := NewElement(1, FlagVisible|FlagLight, Enclosed, geom.Box{})
	if !e.Visible() || !e.Light() {
		t.Fatal("expected Visible and Light set")
	}
	if e.Static() || e.LightProbe() {
		t.Fatal("expected Static and LightProbe clear")
	}
}

func TestElementHashIsStableForSameHandle(t *testing.T) {
	a := NewElement(42, FlagVisible, Enclosed, geom.Box{})
	b := NewElement(42, FlagStatic, Exposed, geom.Box{X: 1})
	if a.Hash() != b.Hash() {
		t.Fatal("same handle should produce the same cached hash regardless of other fields")
	}
}

func TestPresenceClassification(t *testing.T) {
	if !Imposter.ImposterType() || Imposter.OmnipresentType() {
		t.Fatal("Imposter should be ImposterType only")
	}
	if !Omnipresent.OmnipresentType() || Omnipresent.ImposterType() {
		t.Fatal("Omnipresent should be OmnipresentType only")
	}
	if Enclosed.ImposterType() || Enclosed.OmnipresentType() || Exposed.ImposterType() || Exposed.OmnipresentType() {
		t.Fatal("Enclosed/Exposed should be neither imposter nor omnipresent")
	}
}
