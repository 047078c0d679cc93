package mesh

import (
	"testing"

	"github.com/unixpickle/model3d/model3d"
)

func triMesh() (*Mesh[any, any], VertexID, VertexID, VertexID, FaceID) {
	m := New[any, any]()
	a := m.AddVertex(model3d.XYZ(0, 0, 0), nil)
	b := m.AddVertex(model3d.XYZ(1, 0, 0), nil)
	c := m.AddVertex(model3d.XYZ(0, 1, 0), nil)
	f := m.AddFace(a, b, c, nil)
	return m, a, b, c, f
}

func TestAddFaceAndAdjacency(t *testing.T) {
	m, a, b, c, f := triMesh()
	if m.NumFaces() != 1 || m.NumVertices() != 3 {
		t.Fatalf("unexpected counts: faces=%d verts=%d", m.NumFaces(), m.NumVertices())
	}
	if got := m.FacesAtEdge(a, b); len(got) != 1 || got[0] != f {
		t.Fatalf("FacesAtEdge(a,b) = %v, want [%v]", got, f)
	}
	if got := m.FacesAtEdge(b, a); len(got) != 1 || got[0] != f {
		t.Fatalf("FacesAtEdge is not symmetric: %v", got)
	}
	if got := m.FacesAtVertex(c); len(got) != 1 || got[0] != f {
		t.Fatalf("FacesAtVertex(c) = %v, want [%v]", got, f)
	}
}

func TestAddFaceRejectsDegenerate(t *testing.T) {
	m := New[any, any]()
	a := m.AddVertex(model3d.XYZ(0, 0, 0), nil)
	b := m.AddVertex(model3d.XYZ(1, 0, 0), nil)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on degenerate face")
		}
	}()
	m.AddFace(a, b, a, nil)
}

func TestRemoveFaceClearsEdgeIndex(t *testing.T) {
	m, a, b, _, f := triMesh()
	m.RemoveFace(f)
	if m.NumFaces() != 0 {
		t.Fatalf("expected 0 faces, got %d", m.NumFaces())
	}
	if got := m.FacesAtEdge(a, b); len(got) != 0 {
		t.Fatalf("expected no faces at edge after removal, got %v", got)
	}
}

func TestSplitFacePreservesTriangleCount(t *testing.T) {
	m, a, b, c, f := triMesh()
	center := model3d.XYZ(1.0/3, 1.0/3, 0)
	nv, faces, ok := m.SplitFace(f, center, nil, nil)
	if !ok {
		t.Fatal("SplitFace failed")
	}
	if m.NumFaces() != 3 {
		t.Fatalf("expected 3 faces after split, got %d", m.NumFaces())
	}
	seen := map[VertexID]bool{}
	for _, fid := range faces {
		face, _ := m.Face(fid)
		for _, v := range face.V {
			seen[v] = true
		}
	}
	for _, v := range []VertexID{a, b, c, nv} {
		if !seen[v] {
			t.Fatalf("expected vertex %d among split faces", v)
		}
	}
}

func TestSplitEdgeOnSharedEdge(t *testing.T) {
	m := New[any, any]()
	a := m.AddVertex(model3d.XYZ(0, 0, 0), nil)
	b := m.AddVertex(model3d.XYZ(1, 0, 0), nil)
	c := m.AddVertex(model3d.XYZ(0, 1, 0), nil)
	d := m.AddVertex(model3d.XYZ(1, 1, 0), nil)
	m.AddFace(a, b, c, nil)
	m.AddFace(b, d, c, nil)

	_ = a
	mid := model3d.XYZ(0.5, 0.5, 0)
	nv, ok := m.SplitEdge(b, c, mid, nil, nil)
	if !ok {
		t.Fatal("SplitEdge failed")
	}
	if m.NumFaces() != 4 {
		t.Fatalf("expected 4 faces after splitting a shared edge, got %d", m.NumFaces())
	}
	if got, _ := m.Vertex(nv); got.Pos != mid {
		t.Fatalf("new vertex position = %v, want %v", got.Pos, mid)
	}
}

func TestCollapseEdgeMergesVertices(t *testing.T) {
	m := New[any, any]()
	a := m.AddVertex(model3d.XYZ(0, 0, 0), nil)
	b := m.AddVertex(model3d.XYZ(1, 0, 0), nil)
	c := m.AddVertex(model3d.XYZ(0, 1, 0), nil)
	d := m.AddVertex(model3d.XYZ(1, 1, 0), nil)
	m.AddFace(a, b, c, nil)
	m.AddFace(b, d, c, nil)

	survivor, ok := m.CollapseEdge(a, b, model3d.XYZ(0.5, 0, 0))
	if !ok {
		t.Fatal("CollapseEdge failed")
	}
	if survivor != a {
		t.Fatalf("collapse should always survive as u, got %v", survivor)
	}
	if _, ok := m.Vertex(b); ok {
		t.Fatal("collapsed vertex b should no longer exist")
	}
	if m.NumFaces() != 1 {
		t.Fatalf("expected the shared face to collapse away, got %d faces", m.NumFaces())
	}
}

func TestFlipEdge(t *testing.T) {
	m := New[any, any]()
	a := m.AddVertex(model3d.XYZ(0, 0, 0), nil)
	b := m.AddVertex(model3d.XYZ(1, 0, 0), nil)
	c := m.AddVertex(model3d.XYZ(0, 1, 0), nil)
	d := m.AddVertex(model3d.XYZ(1, 1, 0), nil)
	m.AddFace(a, b, c, nil)
	m.AddFace(b, d, c, nil)

	if !m.FlipEdge(b, c) {
		t.Fatal("FlipEdge failed")
	}
	if len(m.FacesAtEdge(a, d)) != 2 {
		t.Fatalf("expected the new diagonal a-d to be shared by 2 faces")
	}
	if len(m.FacesAtEdge(b, c)) != 0 {
		t.Fatalf("expected old diagonal b-c to be gone")
	}
}

func TestRemoveVertexPanicsWhileReferenced(t *testing.T) {
	m, a, _, _, _ := triMesh()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic removing a referenced vertex")
		}
	}()
	m.RemoveVertex(a)
}

func TestClone(t *testing.T) {
	m, a, b, _, f := triMesh()
	clone := m.Clone()
	clone.RemoveFace(f)
	if m.NumFaces() != 1 {
		t.Fatal("clone should be independent of original")
	}
	if got := clone.FacesAtEdge(a, b); len(got) != 0 {
		t.Fatalf("clone edit leaked into original: %v", got)
	}
}
