// Package mesh implements the oriented triangle mesh container of
// spec.md §3: stable vertex/face ids, an O(1) amortized edge→incident-face
// index, and incremental edit operations. Positions live in
// model3d.Coord3D; vertices and faces carry an opaque payload, generic
// over VP/FP the way treed.Tree is generic over its leaf type.
package mesh

import (
	"fmt"

	"github.com/unixpickle/model3d/model3d"
)

// VertexID is a stable 64-bit vertex identity. It is never reused after
// a vertex is removed.
type VertexID uint64

// FaceID is a stable 64-bit face identity. It is never reused after a
// face is removed.
type FaceID uint64

// EdgeKey is the unordered pair identifying an edge.
type EdgeKey struct {
	U, V VertexID
}

// NewEdgeKey builds a canonicalized EdgeKey with U < V.
func NewEdgeKey(a, b VertexID) EdgeKey {
	if a > b {
		a, b = b, a
	}
	return EdgeKey{U: a, V: b}
}

// Vertex is a mesh vertex: a stable id, a position, and an opaque
// payload.
type Vertex[VP any] struct {
	ID      VertexID
	Pos     model3d.Coord3D
	Payload VP
	alive   bool
}

// Face is an oriented triangle: three distinct vertex ids in right-hand
// order, a stable id, and an opaque payload.
type Face[FP any] struct {
	ID      FaceID
	V       [3]VertexID
	Payload FP
	alive   bool
}

// Mesh is the oriented triangle mesh container of spec.md §3.
type Mesh[VP, FP any] struct {
	vertices []Vertex[VP]
	faces    []Face[FP]

	// edgeFaces maps an edge to the (at most two) faces incident to it,
	// satisfying spec.md's "every oriented edge appears in at most two
	// faces" invariant for manifold inputs; a third insertion is still
	// recorded so the redblue package can detect and report it as
	// ComplexEdges/non-manifold input rather than mesh silently losing
	// data.
	edgeFaces map[EdgeKey][]FaceID

	nextVertexID VertexID
	nextFaceID   FaceID

	vertexIndex map[VertexID]int // id -> slice index, for O(1) handle deref
	faceIndex   map[FaceID]int
}

// New returns an empty mesh.
func New[VP, FP any]() *Mesh[VP, FP] {
	return &Mesh[VP, FP]{
		edgeFaces:   make(map[EdgeKey][]FaceID),
		vertexIndex: make(map[VertexID]int),
		faceIndex:   make(map[FaceID]int),
	}
}

// NumVertices returns the number of live vertices.
func (m *Mesh[VP, FP]) NumVertices() int { return len(m.vertexIndex) }

// NumFaces returns the number of live faces.
func (m *Mesh[VP, FP]) NumFaces() int { return len(m.faceIndex) }

// AddVertex inserts a new vertex at pos with the given payload and
// returns its stable id.
func (m *Mesh[VP, FP]) AddVertex(pos model3d.Coord3D, payload VP) VertexID {
	id := m.nextVertexID
	m.nextVertexID++
	m.vertices = append(m.vertices, Vertex[VP]{ID: id, Pos: pos, Payload: payload, alive: true})
	m.vertexIndex[id] = len(m.vertices) - 1
	return id
}

// Vertex returns the vertex for id. The second return is false if id
// does not name a live vertex (handle use-after-remove).
func (m *Mesh[VP, FP]) Vertex(id VertexID) (Vertex[VP], bool) {
	i, ok := m.vertexIndex[id]
	if !ok {
		return Vertex[VP]{}, false
	}
	return m.vertices[i], true
}

// SetVertexPosition overwrites the position of a live vertex.
func (m *Mesh[VP, FP]) SetVertexPosition(id VertexID, pos model3d.Coord3D) bool {
	i, ok := m.vertexIndex[id]
	if !ok {
		return false
	}
	m.vertices[i].Pos = pos
	return true
}

// AddFace inserts a new oriented triangle (a,b,c) with the given payload
// and returns its stable id. It panics if any of a,b,c do not name live
// vertices or if they are not pairwise distinct, mirroring spec.md §3's
// invariant that every face references three distinct existing vertices.
func (m *Mesh[VP, FP]) AddFace(a, b, c VertexID, payload FP) FaceID {
	for _, v := range [3]VertexID{a, b, c} {
		if _, ok := m.vertexIndex[v]; !ok {
			panic(fmt.Sprintf("mesh: AddFace: vertex %d does not exist", v))
		}
	}
	if a == b || b == c || a == c {
		panic("mesh: AddFace: face references a repeated vertex")
	}

	id := m.nextFaceID
	m.nextFaceID++
	m.faces = append(m.faces, Face[FP]{ID: id, V: [3]VertexID{a, b, c}, Payload: payload, alive: true})
	m.faceIndex[id] = len(m.faces) - 1

	for _, e := range [3]EdgeKey{NewEdgeKey(a, b), NewEdgeKey(b, c), NewEdgeKey(c, a)} {
		m.edgeFaces[e] = append(m.edgeFaces[e], id)
	}
	return id
}

// Face returns the face for id. The second return is false if id does
// not name a live face.
func (m *Mesh[VP, FP]) Face(id FaceID) (Face[FP], bool) {
	i, ok := m.faceIndex[id]
	if !ok {
		return Face[FP]{}, false
	}
	return m.faces[i], true
}

// RemoveFace deletes a face but leaves its vertices untouched.
func (m *Mesh[VP, FP]) RemoveFace(id FaceID) bool {
	i, ok := m.faceIndex[id]
	if !ok {
		return false
	}
	f := m.faces[i]
	for _, e := range [3]EdgeKey{
		NewEdgeKey(f.V[0], f.V[1]),
		NewEdgeKey(f.V[1], f.V[2]),
		NewEdgeKey(f.V[2], f.V[0]),
	} {
		m.edgeFaces[e] = removeFaceID(m.edgeFaces[e], id)
		if len(m.edgeFaces[e]) == 0 {
			delete(m.edgeFaces, e)
		}
	}
	m.removeFaceAt(i)
	return true
}

// RemoveVertex deletes a vertex. It panics if the vertex is still
// referenced by a live face, since that would violate spec.md §3's
// "every face references three distinct existing vertices" invariant.
func (m *Mesh[VP, FP]) RemoveVertex(id VertexID) bool {
	i, ok := m.vertexIndex[id]
	if !ok {
		return false
	}
	if len(m.FacesAtVertex(id)) != 0 {
		panic(fmt.Sprintf("mesh: RemoveVertex: vertex %d is still referenced by a face", id))
	}
	m.removeVertexAt(i)
	return true
}

func (m *Mesh[VP, FP]) removeFaceAt(i int) {
	last := len(m.faces) - 1
	removed := m.faces[i].ID
	m.faces[i] = m.faces[last]
	m.faceIndex[m.faces[i].ID] = i
	m.faces = m.faces[:last]
	delete(m.faceIndex, removed)
}

func (m *Mesh[VP, FP]) removeVertexAt(i int) {
	last := len(m.vertices) - 1
	removed := m.vertices[i].ID
	m.vertices[i] = m.vertices[last]
	m.vertexIndex[m.vertices[i].ID] = i
	m.vertices = m.vertices[:last]
	delete(m.vertexIndex, removed)
}

func removeFaceID(s []FaceID, id FaceID) []FaceID {
	for i, v := range s {
		if v == id {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

// FacesAtEdge returns the (at most two, for manifold input) faces
// incident to the unordered edge {u,v}. More than two indicates
// non-manifold input, which redblue surfaces as a ComplexEdges-adjacent
// failure rather than silently truncating here.
func (m *Mesh[VP, FP]) FacesAtEdge(u, v VertexID) []FaceID {
	return append([]FaceID{}, m.edgeFaces[NewEdgeKey(u, v)]...)
}

// FacesAtVertex returns every live face incident to vertex id.
func (m *Mesh[VP, FP]) FacesAtVertex(id VertexID) []FaceID {
	var out []FaceID
	seen := make(map[FaceID]bool)
	for _, f := range m.faces {
		if f.V[0] == id || f.V[1] == id || f.V[2] == id {
			if !seen[f.ID] {
				seen[f.ID] = true
				out = append(out, f.ID)
			}
		}
	}
	return out
}

// Faces calls f for every live face.
func (m *Mesh[VP, FP]) Faces(f func(Face[FP])) {
	for _, face := range m.faces {
		f(face)
	}
}

// Vertices calls f for every live vertex.
func (m *Mesh[VP, FP]) Vertices(f func(Vertex[VP])) {
	for _, v := range m.vertices {
		f(v)
	}
}

// Triangle returns the three corner positions of a face.
func (m *Mesh[VP, FP]) Triangle(f Face[FP]) (a, b, c model3d.Coord3D) {
	av, _ := m.Vertex(f.V[0])
	bv, _ := m.Vertex(f.V[1])
	cv, _ := m.Vertex(f.V[2])
	return av.Pos, bv.Pos, cv.Pos
}

// Clone returns a deep copy of the mesh with identical ids, positions,
// and payloads.
func (m *Mesh[VP, FP]) Clone() *Mesh[VP, FP] {
	out := New[VP, FP]()
	out.nextVertexID = m.nextVertexID
	out.nextFaceID = m.nextFaceID
	out.vertices = append([]Vertex[VP]{}, m.vertices...)
	out.faces = append([]Face[FP]{}, m.faces...)
	for k, v := range m.vertexIndex {
		out.vertexIndex[k] = v
	}
	for k, v := range m.faceIndex {
		out.faceIndex[k] = v
	}
	for k, v := range m.edgeFaces {
		out.edgeFaces[k] = append([]FaceID{}, v...)
	}
	return out
}
