package mesh

import "github.com/unixpickle/model3d/model3d"

// SplitFace replaces face f with three faces fanned out from a new
// vertex at pos (with the given payloads), per spec.md §3's incremental
// edit operation set. It returns the new vertex and the three new
// faces, in the same winding as the original.
func (m *Mesh[VP, FP]) SplitFace(f FaceID, pos model3d.Coord3D, vp VP, fp FP) (VertexID, [3]FaceID, bool) {
	face, ok := m.Face(f)
	if !ok {
		return 0, [3]FaceID{}, false
	}
	m.RemoveFace(f)
	nv := m.AddVertex(pos, vp)
	f0 := m.AddFace(face.V[0], face.V[1], nv, fp)
	f1 := m.AddFace(face.V[1], face.V[2], nv, fp)
	f2 := m.AddFace(face.V[2], face.V[0], nv, fp)
	return nv, [3]FaceID{f0, f1, f2}, true
}

// SplitEdge subdivides every face incident to edge {u,v} by inserting a
// new vertex at pos on that edge, replacing each incident triangle with
// two. It returns the new vertex id. At most two incident faces are
// expected (manifold input); more is reported to the caller as a
// non-manifold split (ok=false, mesh unchanged) rather than silently
// edited.
func (m *Mesh[VP, FP]) SplitEdge(u, v VertexID, pos model3d.Coord3D, vp VP, fp FP) (VertexID, bool) {
	incident := m.FacesAtEdge(u, v)
	if len(incident) == 0 || len(incident) > 2 {
		return 0, false
	}
	nv := m.AddVertex(pos, vp)
	for _, fid := range incident {
		face, ok := m.Face(fid)
		if !ok {
			continue
		}
		a, b, c := face.V[0], face.V[1], face.V[2]
		// Rotate so that (a,b) is the (u,v) edge, preserving winding.
		for i := 0; i < 3; i++ {
			if (a == u && b == v) || (a == v && b == u) {
				break
			}
			a, b, c = b, c, a
		}
		m.RemoveFace(fid)
		m.AddFace(a, nv, c, fp)
		m.AddFace(nv, b, c, fp)
	}
	return nv, true
}

// CollapseEdge merges u and v into a single vertex at pos, removing
// every face that was incident to edge {u,v} (they degenerate to zero
// area) and rewriting every other face referencing v to reference u
// instead. It returns the id of the surviving (repositioned) vertex,
// which is always u.
func (m *Mesh[VP, FP]) CollapseEdge(u, v VertexID, pos model3d.Coord3D) (VertexID, bool) {
	if _, ok := m.Vertex(u); !ok {
		return 0, false
	}
	if _, ok := m.Vertex(v); !ok {
		return 0, false
	}
	for _, fid := range m.FacesAtEdge(u, v) {
		m.RemoveFace(fid)
	}
	for _, fid := range m.FacesAtVertex(v) {
		face, ok := m.Face(fid)
		if !ok {
			continue
		}
		var nv [3]VertexID
		for i, id := range face.V {
			if id == v {
				nv[i] = u
			} else {
				nv[i] = id
			}
		}
		payload := face.Payload
		m.RemoveFace(fid)
		if nv[0] != nv[1] && nv[1] != nv[2] && nv[0] != nv[2] {
			m.AddFace(nv[0], nv[1], nv[2], payload)
		}
	}
	m.RemoveVertex(v)
	m.SetVertexPosition(u, pos)
	return u, true
}

// FlipEdge replaces the two triangles incident to edge {u,v} — which
// must share exactly that edge — with the two triangles formed by
// connecting their opposite vertices instead, per spec.md §3's
// incremental edit operation set. It fails (returns false) unless
// exactly two faces are incident to {u,v}.
func (m *Mesh[VP, FP]) FlipEdge(u, v VertexID) bool {
	incident := m.FacesAtEdge(u, v)
	if len(incident) != 2 {
		return false
	}
	f0, ok0 := m.Face(incident[0])
	f1, ok1 := m.Face(incident[1])
	if !ok0 || !ok1 {
		return false
	}
	opp0, ok := oppositeVertex(f0.V, u, v)
	if !ok {
		return false
	}
	opp1, ok := oppositeVertex(f1.V, u, v)
	if !ok {
		return false
	}

	p0 := f0.Payload
	p1 := f1.Payload
	m.RemoveFace(incident[0])
	m.RemoveFace(incident[1])
	m.AddFace(opp0, opp1, u, p0)
	m.AddFace(opp1, opp0, v, p1)
	return true
}

func oppositeVertex(tri [3]VertexID, u, v VertexID) (VertexID, bool) {
	for _, id := range tri {
		if id != u && id != v {
			return id, true
		}
	}
	return 0, false
}
