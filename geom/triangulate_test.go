package geom

import (
	"testing"

	"github.com/unixpickle/model3d/model3d"
)

func polygonArea(poly []model3d.Coord3D, tris [][3]int) float64 {
	total := 0.0
	for _, tri := range tris {
		a, b, c := poly[tri[0]], poly[tri[1]], poly[tri[2]]
		total += crossProduct(b.Sub(a), c.Sub(a)).Norm() / 2
	}
	return total
}

func TestEarClipTriangleIsUnchanged(t *testing.T) {
	poly := []model3d.Coord3D{model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(0, 1, 0)}
	tris, ok := EarClip(poly)
	if !ok || len(tris) != 1 {
		t.Fatalf("EarClip(triangle) = %v, %v", tris, ok)
	}
}

func TestEarClipSquareCoversFullArea(t *testing.T) {
	poly := []model3d.Coord3D{
		model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(1, 1, 0), model3d.XYZ(0, 1, 0),
	}
	tris, ok := EarClip(poly)
	if !ok {
		t.Fatalf("EarClip failed on a convex square")
	}
	if len(tris) != 2 {
		t.Fatalf("len(tris) = %d, want 2", len(tris))
	}
	if area := polygonArea(poly, tris); area < 0.999 || area > 1.001 {
		t.Fatalf("triangulated area = %v, want 1", area)
	}
}

func TestEarClipConcavePolygon(t *testing.T) {
	// An L-shaped hexagon; its ear-clip triangulation must still cover
	// exactly its own area (3 unit squares).
	poly := []model3d.Coord3D{
		model3d.XYZ(0, 0, 0), model3d.XYZ(2, 0, 0), model3d.XYZ(2, 1, 0),
		model3d.XYZ(1, 1, 0), model3d.XYZ(1, 2, 0), model3d.XYZ(0, 2, 0),
	}
	tris, ok := EarClip(poly)
	if !ok {
		t.Fatalf("EarClip failed on a concave L-shape")
	}
	if len(tris) != len(poly)-2 {
		t.Fatalf("len(tris) = %d, want %d", len(tris), len(poly)-2)
	}
	if area := polygonArea(poly, tris); area < 2.999 || area > 3.001 {
		t.Fatalf("triangulated area = %v, want 3", area)
	}
}

func TestEarClipTooFewPoints(t *testing.T) {
	if _, ok := EarClip([]model3d.Coord3D{model3d.Origin, model3d.XYZ(1, 0, 0)}); ok {
		t.Fatalf("a 2-point ring should not triangulate")
	}
}

func TestEarClipDegenerateZeroArea(t *testing.T) {
	poly := []model3d.Coord3D{model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(2, 0, 0), model3d.XYZ(3, 0, 0)}
	if _, ok := EarClip(poly); ok {
		t.Fatalf("a collinear (zero-area) ring should fail to establish a normal")
	}
}
