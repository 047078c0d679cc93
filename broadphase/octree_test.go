package broadphase

import (
	"testing"

	"github.com/cellmesh/rbkernel/mesh"
	"github.com/unixpickle/model3d/model3d"
)

func unitTriMesh(offset model3d.Coord3D) *mesh.Mesh[any, any] {
	m := mesh.New[any, any]()
	a := m.AddVertex(model3d.XYZ(0, 0, 0).Add(offset), nil)
	b := m.AddVertex(model3d.XYZ(1, 0, 0).Add(offset), nil)
	c := m.AddVertex(model3d.XYZ(0, 1, 0).Add(offset), nil)
	m.AddFace(a, b, c, nil)
	return m
}

func TestCandidatesOverlapping(t *testing.T) {
	x := unitTriMesh(model3d.Origin)
	y := unitTriMesh(model3d.XYZ(0.5, 0, 0))

	xy, yx := Candidates(x, y, 128, 7)
	if len(xy) == 0 || len(yx) == 0 {
		t.Fatalf("expected overlapping triangles to produce candidates, got xy=%d yx=%d", len(xy), len(yx))
	}
}

func TestCandidatesDisjoint(t *testing.T) {
	x := unitTriMesh(model3d.Origin)
	y := unitTriMesh(model3d.XYZ(1000, 1000, 1000))

	xy, yx := Candidates(x, y, 128, 7)
	if len(xy) != 0 || len(yx) != 0 {
		t.Fatalf("expected no candidates for far-apart meshes, got xy=%d yx=%d", len(xy), len(yx))
	}
}

func TestCandidatesDeduplicated(t *testing.T) {
	x := unitTriMesh(model3d.Origin)
	y := unitTriMesh(model3d.XYZ(0.1, 0, 0))

	xy, _ := Candidates(x, y, 1, 7)
	seen := make(map[EdgeFacePair]bool)
	for _, p := range xy {
		if seen[p] {
			t.Fatalf("duplicate pair %v in output", p)
		}
		seen[p] = true
		if p.U >= p.V {
			t.Fatalf("pair %v does not have U < V", p)
		}
	}
}
