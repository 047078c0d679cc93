package sphere

import (
	"math"
	"testing"

	"github.com/cellmesh/rbkernel/mesh"
	"github.com/unixpickle/model3d/model3d"
)

func TestIcosphereVertexCount(t *testing.T) {
	for d := 0; d <= 3; d++ {
		m := Icosphere[struct{}, struct{}](model3d.Origin, 2.5, d)
		want := 10*pow4(d) + 2
		if got := m.NumVertices(); got != want {
			t.Fatalf("recursions=%d: vertex count = %d, want %d", d, got, want)
		}
	}
}

func TestIcosphereVerticesOnRadius(t *testing.T) {
	const radius = 3.0
	const eps = 1e-6
	center := model3d.XYZ(1, -2, 0.5)
	m := Icosphere[struct{}, struct{}](center, radius, 2)
	m.Vertices(func(v mesh.Vertex[struct{}]) {
		d := v.Pos.Dist(center)
		if math.Abs(d-radius) > eps {
			t.Fatalf("vertex %d at distance %v from center, want %v", v.ID, d, radius)
		}
	})
}

func TestOctsphereVerticesOnRadius(t *testing.T) {
	const radius = 4.0
	const eps = 1e-6
	center := model3d.XYZ(-1, 1, 2)
	m := Octsphere[struct{}, struct{}](center, radius, 3)
	m.Vertices(func(v mesh.Vertex[struct{}]) {
		d := v.Pos.Dist(center)
		if math.Abs(d-radius) > eps {
			t.Fatalf("vertex %d at distance %v from center, want %v", v.ID, d, radius)
		}
	})
}

func TestOctsphereVertexCountAndTopology(t *testing.T) {
	// Each subdivision quadruples the 8 base triangles and adds one new
	// vertex per edge of the previous level: 6 verts/8 tris at depth 0,
	// growing to 6+12=18 verts/32 tris at depth 1, by Euler's formula for
	// a closed triangulated sphere (V - E + F = 2, E = 3F/2).
	m := Octsphere[struct{}, struct{}](model3d.Origin, 1, 1)
	if got, want := m.NumVertices(), 18; got != want {
		t.Fatalf("vertex count = %d, want %d", got, want)
	}
	if got, want := m.NumFaces(), 32; got != want {
		t.Fatalf("face count = %d, want %d", got, want)
	}
}

func TestAppendHalfSphereCapWeldsRingAndClosesDome(t *testing.T) {
	const n = 8
	const radius = 1.0
	m := mesh.New[struct{}, struct{}]()

	ring := make([]mesh.VertexID, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pos := model3d.XYZ(math.Cos(theta), math.Sin(theta), 0)
		ring[i] = m.AddVertex(pos, struct{}{})
	}

	apex, err := AppendHalfSphereCap[struct{}, struct{}](m, ring, model3d.Origin, radius, model3d.XYZ(0, 0, 1), 2, 0, struct{}{}, struct{}{})
	if err != nil {
		t.Fatalf("AppendHalfSphereCap: %v", err)
	}

	av, ok := m.Vertex(apex)
	if !ok {
		t.Fatalf("apex vertex %d not found", apex)
	}
	if d := av.Pos.Dist(model3d.Origin); math.Abs(d-radius) > 1e-9 {
		t.Fatalf("apex distance from center = %v, want %v", d, radius)
	}

	// n ring vertices + 2 bands*n new latitude vertices + 1 apex.
	if got, want := m.NumVertices(), n+2*n+1; got != want {
		t.Fatalf("vertex count after cap = %d, want %d", got, want)
	}
	// Two quad bands (2*n triangles each) plus one apex fan (n triangles).
	if got, want := m.NumFaces(), 2*2*n+n; got != want {
		t.Fatalf("face count after cap = %d, want %d", got, want)
	}

	for _, id := range ring {
		if len(m.FacesAtVertex(id)) == 0 {
			t.Fatalf("ring vertex %d has no incident cap face, was not welded", id)
		}
	}
}

func TestAppendHalfSphereCapPhiOffsetKeepsRingFixedAndBandsOnSphere(t *testing.T) {
	const n = 8
	const radius = 1.0

	buildRing := func(m *mesh.Mesh[struct{}, struct{}]) []mesh.VertexID {
		ring := make([]mesh.VertexID, n)
		for i := 0; i < n; i++ {
			theta := 2 * math.Pi * float64(i) / float64(n)
			ring[i] = m.AddVertex(model3d.XYZ(math.Cos(theta), math.Sin(theta), 0), struct{}{})
		}
		return ring
	}

	m0 := mesh.New[struct{}, struct{}]()
	ring0 := buildRing(m0)
	if _, err := AppendHalfSphereCap[struct{}, struct{}](m0, ring0, model3d.Origin, radius, model3d.XYZ(0, 0, 1), 2, 0, struct{}{}, struct{}{}); err != nil {
		t.Fatalf("AppendHalfSphereCap(phiOffset=0): %v", err)
	}

	mRot := mesh.New[struct{}, struct{}]()
	ringRot := buildRing(mRot)
	if _, err := AppendHalfSphereCap[struct{}, struct{}](mRot, ringRot, model3d.Origin, radius, model3d.XYZ(0, 0, 1), 2, math.Pi/4, struct{}{}, struct{}{}); err != nil {
		t.Fatalf("AppendHalfSphereCap(phiOffset=pi/4): %v", err)
	}

	// The ring itself must be untouched by phiOffset.
	for i, id := range ring0 {
		v0, _ := m0.Vertex(id)
		vr, _ := mRot.Vertex(ringRot[i])
		if v0.Pos.Dist(vr.Pos) > 1e-9 {
			t.Fatalf("ring vertex %d moved with phiOffset: %v vs %v", i, v0.Pos, vr.Pos)
		}
	}

	// Every vertex AppendHalfSphereCap adds must still lie on the
	// sphere regardless of phiOffset, and a nonzero offset must move at
	// least one of the interior band vertices relative to phiOffset=0.
	moved := false
	for id := mesh.VertexID(n); id < mesh.VertexID(mRot.NumVertices()); id++ {
		vr, ok := mRot.Vertex(id)
		if !ok {
			continue
		}
		if d := vr.Pos.Dist(model3d.Origin); math.Abs(d-radius) > 1e-9 {
			t.Fatalf("band vertex %d off the sphere: dist=%v", id, d)
		}
		v0, ok0 := m0.Vertex(id)
		if ok0 && v0.Pos.Dist(vr.Pos) > 1e-6 {
			moved = true
		}
	}
	if !moved {
		t.Fatalf("a nonzero phiOffset should change at least one interior band vertex position")
	}
}

func pow4(d int) int {
	p := 1
	for i := 0; i < d; i++ {
		p *= 4
	}
	return p
}
