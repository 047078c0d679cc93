package geom

import (
	"testing"

	"github.com/unixpickle/model3d/model3d"
)

func TestEmptyAABBUnionAbsorbsPoint(t *testing.T) {
	box := EmptyAABB().ExpandPoint(model3d.XYZ(1, 2, 3))
	want := PointAABB(model3d.XYZ(1, 2, 3))
	if box.Min.Dist(want.Min) > 1e-9 || box.Max.Dist(want.Max) > 1e-9 {
		t.Fatalf("box = %+v, want %+v", box, want)
	}
}

func TestTriangleAABB(t *testing.T) {
	box := TriangleAABB(model3d.XYZ(0, 0, 0), model3d.XYZ(1, 2, -1), model3d.XYZ(-1, 1, 3))
	if box.Min != model3d.XYZ(-1, 0, -1) {
		t.Fatalf("min = %v, want (-1,0,-1)", box.Min)
	}
	if box.Max != model3d.XYZ(1, 2, 3) {
		t.Fatalf("max = %v, want (1,2,3)", box.Max)
	}
}

func TestAABBIntersectsTouching(t *testing.T) {
	a := AABB{Min: model3d.XYZ(0, 0, 0), Max: model3d.XYZ(1, 1, 1)}
	b := AABB{Min: model3d.XYZ(1, 0, 0), Max: model3d.XYZ(2, 1, 1)}
	if !a.Intersects(b) {
		t.Fatalf("boxes sharing a face should count as intersecting")
	}
	c := AABB{Min: model3d.XYZ(1.001, 0, 0), Max: model3d.XYZ(2, 1, 1)}
	if a.Intersects(c) {
		t.Fatalf("boxes with a gap should not intersect")
	}
}

func TestAABBOctantPartitionsBox(t *testing.T) {
	a := AABB{Min: model3d.XYZ(0, 0, 0), Max: model3d.XYZ(2, 2, 2)}
	for i := 0; i < 8; i++ {
		oct := a.Octant(i)
		if oct.Diag() <= 0 {
			t.Fatalf("octant %d has zero volume", i)
		}
		if !a.Intersects(oct) {
			t.Fatalf("octant %d should lie inside its parent box", i)
		}
	}
	// Opposite octants (0 and 7) should only touch at the center point.
	o0, o7 := a.Octant(0), a.Octant(7)
	if o0.Max != a.Center() || o7.Min != a.Center() {
		t.Fatalf("octant 0/7 should meet exactly at the box center")
	}
}

func TestAABBUnion(t *testing.T) {
	a := AABB{Min: model3d.XYZ(0, 0, 0), Max: model3d.XYZ(1, 1, 1)}
	b := AABB{Min: model3d.XYZ(-1, 2, 0), Max: model3d.XYZ(0.5, 3, 5)}
	u := a.Union(b)
	if u.Min != model3d.XYZ(-1, 0, 0) || u.Max != model3d.XYZ(1, 3, 5) {
		t.Fatalf("union = %+v", u)
	}
}
