package geom

import (
	"testing"

	"github.com/unixpickle/model3d/model3d"
)

func TestOrientationSign(t *testing.T) {
	a := model3d.XYZ(0, 0, 0)
	b := model3d.XYZ(1, 0, 0)
	c := model3d.XYZ(0, 1, 0)
	above := model3d.XYZ(0, 0, 1)
	below := model3d.XYZ(0, 0, -1)
	if Orientation(a, b, c, above) <= 0 {
		t.Fatalf("point above the a,b,c plane should give a positive orientation")
	}
	if Orientation(a, b, c, below) >= 0 {
		t.Fatalf("point below the a,b,c plane should give a negative orientation")
	}
}

func TestSegmentTriangleIntersectionHit(t *testing.T) {
	p0, p1, p2 := model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(0, 1, 0)
	u := model3d.XYZ(0.2, 0.2, 1)
	v := model3d.XYZ(0.2, 0.2, -1)
	lambda, ok := SegmentTriangleIntersection(u, v, p0, p1, p2, DefaultEpsilon)
	if !ok {
		t.Fatalf("expected a hit through the middle of the triangle")
	}
	if lambda < 0.49 || lambda > 0.51 {
		t.Fatalf("lambda = %v, want ~0.5", lambda)
	}
}

func TestSegmentTriangleIntersectionMiss(t *testing.T) {
	p0, p1, p2 := model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(0, 1, 0)
	u := model3d.XYZ(5, 5, 1)
	v := model3d.XYZ(5, 5, -1)
	if _, ok := SegmentTriangleIntersection(u, v, p0, p1, p2, DefaultEpsilon); ok {
		t.Fatalf("segment outside the triangle's footprint should not intersect")
	}
}

func TestSegmentTriangleIntersectionParallel(t *testing.T) {
	p0, p1, p2 := model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(0, 1, 0)
	u := model3d.XYZ(0.2, 0.2, 1)
	v := model3d.XYZ(0.3, 0.3, 1)
	if _, ok := SegmentTriangleIntersection(u, v, p0, p1, p2, DefaultEpsilon); ok {
		t.Fatalf("segment parallel to the triangle's plane should not intersect")
	}
}

func TestRayTriangleIntersectionRequiresForwardHit(t *testing.T) {
	p0, p1, p2 := model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(0, 1, 0)
	origin := model3d.XYZ(0.2, 0.2, -1)
	forward := model3d.XYZ(0, 0, 1)
	if _, ok := RayTriangleIntersection(origin, forward, p0, p1, p2, DefaultEpsilon); !ok {
		t.Fatalf("ray heading toward the triangle should hit")
	}
	backward := model3d.XYZ(0, 0, -1)
	if _, ok := RayTriangleIntersection(origin, backward, p0, p1, p2, DefaultEpsilon); ok {
		t.Fatalf("ray heading away from the triangle should not report a hit")
	}
}

func TestScaleEpsilon(t *testing.T) {
	box := AABB{Min: model3d.XYZ(0, 0, 0), Max: model3d.XYZ(3, 4, 0)}
	got := ScaleEpsilon(0.1, box)
	if want := 0.5; got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("ScaleEpsilon = %v, want %v (0.1 * diag 5)", got, want)
	}
	if ScaleEpsilon(0.1, EmptyAABB().ExpandPoint(model3d.Origin)) != 0.1 {
		t.Fatalf("a zero-diagonal box should fall back to the relative epsilon unscaled")
	}
}
