package redblue

import (
	"github.com/cellmesh/rbkernel/geom"
	"github.com/cellmesh/rbkernel/mesh"
	"github.com/unixpickle/model3d/model3d"
)

// FaceClass is one face's label relative to the other mesh, per spec.md
// §3/§4.2 step 6.
type FaceClass int

const (
	Outside FaceClass = iota
	Inside
	Crossed
)

func (c FaceClass) String() string {
	switch c {
	case Outside:
		return "Outside"
	case Inside:
		return "Inside"
	case Crossed:
		return "Crossed"
	default:
		return "Unknown"
	}
}

// rayDir is a fixed, axis-avoiding direction used for parity ray casts so
// that the chosen ray is not more likely than any other to graze an edge
// or vertex of an axis-aligned input.
var rayDir = model3d.XYZ(0.5731, 0.4157, 0.7071)

// classification is the §4.2 step 6 output for one mesh: a class per
// face.
type classification struct {
	class map[mesh.FaceID]FaceClass
}

// classifyFaces runs spec.md §4.2 steps 5-6: flood-fill connected
// components across non-crossed edges, skip Crossed faces as barriers,
// then resolve each component's Inside/Outside by ray-casting a
// representative point against the other mesh.
func classifyFaces[VP, FP, OVP, OFP any](
	m *mesh.Mesh[VP, FP], crossedFaces map[mesh.FaceID]bool, crossedEdges map[mesh.EdgeKey]bool,
	other *mesh.Mesh[OVP, OFP], eps float64,
) classification {
	class := make(map[mesh.FaceID]FaceClass, m.NumFaces())
	visited := make(map[mesh.FaceID]bool, m.NumFaces())

	var allFaces []mesh.Face[FP]
	m.Faces(func(f mesh.Face[FP]) {
		allFaces = append(allFaces, f)
		if crossedFaces[f.ID] {
			class[f.ID] = Crossed
		}
	})

	for _, f := range allFaces {
		if crossedFaces[f.ID] || visited[f.ID] {
			continue
		}
		comp := floodComponent(m, f.ID, crossedFaces, crossedEdges, visited)

		rep, _ := m.Face(comp[0])
		a, b, c := m.Triangle(rep)
		centroid := a.Add(b).Add(c).Scale(1.0 / 3.0)

		cls := Outside
		if rayCastInside(centroid, other, eps) {
			cls = Inside
		}
		for _, id := range comp {
			class[id] = cls
		}
	}

	return classification{class: class}
}

// floodComponent gathers every face reachable from seed without crossing
// a barrier edge (crossed, or bordering a Crossed face).
func floodComponent[VP, FP any](
	m *mesh.Mesh[VP, FP], seed mesh.FaceID,
	crossedFaces map[mesh.FaceID]bool, crossedEdges map[mesh.EdgeKey]bool,
	visited map[mesh.FaceID]bool,
) []mesh.FaceID {
	visited[seed] = true
	queue := []mesh.FaceID{seed}
	var comp []mesh.FaceID
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		comp = append(comp, cur)

		face, ok := m.Face(cur)
		if !ok {
			continue
		}
		for _, e := range [3][2]mesh.VertexID{{face.V[0], face.V[1]}, {face.V[1], face.V[2]}, {face.V[2], face.V[0]}} {
			key := mesh.NewEdgeKey(e[0], e[1])
			if crossedEdges[key] {
				continue
			}
			for _, nb := range m.FacesAtEdge(e[0], e[1]) {
				if nb == cur || visited[nb] || crossedFaces[nb] {
					continue
				}
				visited[nb] = true
				queue = append(queue, nb)
			}
		}
	}
	return comp
}

// rayCastInside casts a fixed-direction ray from origin against every
// face of other and returns whether the crossing count is odd.
func rayCastInside[OVP, OFP any](origin model3d.Coord3D, other *mesh.Mesh[OVP, OFP], eps float64) bool {
	count := 0
	other.Faces(func(f mesh.Face[OFP]) {
		p0, p1, p2 := other.Triangle(f)
		if _, ok := geom.RayTriangleIntersection(origin, rayDir, p0, p1, p2, eps); ok {
			count++
		}
	})
	return count%2 == 1
}

// checkManifoldEdges implements spec.md §3's Invariants: an input mesh
// must be edge-manifold, so an oriented edge incident to more than two
// faces fails the whole call with ComplexEdges instead of leaving
// floodComponent's BFS or buildCurveGraph's face-cell grouping to walk
// however many neighbors FacesAtEdge happens to return.
func checkManifoldEdges[VP, FP any](m *mesh.Mesh[VP, FP], red bool) error {
	seen := map[mesh.EdgeKey]bool{}
	var offending []EdgeIsecInfo
	m.Faces(func(f mesh.Face[FP]) {
		for _, e := range [3][2]mesh.VertexID{{f.V[0], f.V[1]}, {f.V[1], f.V[2]}, {f.V[2], f.V[0]}} {
			key := mesh.NewEdgeKey(e[0], e[1])
			if seen[key] {
				continue
			}
			seen[key] = true
			if len(m.FacesAtEdge(e[0], e[1])) > 2 {
				offending = append(offending, EdgeIsecInfo{Red: red, U: key.U, V: key.V})
			}
		}
	})
	if len(offending) == 0 {
		return nil
	}
	return errComplexEdges("an input mesh has an edge incident to more than two faces", offending)
}

// crossedEdgeSet turns an edgeLambdas collation into the barrier set
// floodComponent needs: every edge that carries at least one crossing.
func crossedEdgeSet(byEdge map[mesh.EdgeKey]*edgeLambdas) map[mesh.EdgeKey]bool {
	out := make(map[mesh.EdgeKey]bool, len(byEdge))
	for k, el := range byEdge {
		if len(el.points) > 0 {
			out[k] = true
		}
	}
	return out
}

// crossedFaceSet turns a curveGraph's per-face segment index into the
// Crossed-face set classifyFaces needs.
func crossedFaceSet(segsByFace map[mesh.FaceID][]segment) map[mesh.FaceID]bool {
	out := make(map[mesh.FaceID]bool, len(segsByFace))
	for k, segs := range segsByFace {
		if len(segs) > 0 {
			out[k] = true
		}
	}
	return out
}
