// Package redblue implements the Red-Blue boolean mesh combination
// algorithm of spec.md §4.2/§4.3: given two closed, non-self-intersecting
// triangle meshes R (red) and B (blue), compute their union, difference,
// or intersection as a single combined mesh.
package redblue

import (
	"math"
	"sort"

	"github.com/cellmesh/rbkernel/geom"
	"github.com/cellmesh/rbkernel/mesh"
	"github.com/unixpickle/model3d/model3d"
)

// BlueUpdate maps every vertex id of B to the id it was assigned in the
// combined output mesh, per spec.md §4.3 step 5 / §6's optional
// `blue_update_handles`: a caller holding onto B-side vertex ids (e.g.
// a cell-network segment endpoint) uses this to remap them once B's
// contribution has been absorbed into (and possibly welded within) the
// result. A B vertex that keepPolicy dropped entirely (its incident
// faces were all discarded) has no entry.
type BlueUpdate map[mesh.VertexID]mesh.VertexID

// Union returns R ∪ B. Neither input is modified.
func Union[VP, FP any](r, b *mesh.Mesh[VP, FP], opts Options) (*mesh.Mesh[VP, FP], BlueUpdate, error) {
	return boolean(ModeUnion, r, b, opts)
}

// Difference returns R \ B. Neither input is modified.
func Difference[VP, FP any](r, b *mesh.Mesh[VP, FP], opts Options) (*mesh.Mesh[VP, FP], BlueUpdate, error) {
	return boolean(ModeDifference, r, b, opts)
}

// Intersection returns R ∩ B. Neither input is modified.
func Intersection[VP, FP any](r, b *mesh.Mesh[VP, FP], opts Options) (*mesh.Mesh[VP, FP], BlueUpdate, error) {
	return boolean(ModeIntersection, r, b, opts)
}

// boolean is the one shared implementation behind Union/Difference/
// Intersection, per spec.md §6.
func boolean[VP, FP any](mode Mode, r, b *mesh.Mesh[VP, FP], opts Options) (*mesh.Mesh[VP, FP], BlueUpdate, error) {
	if err := checkManifoldEdges(r, true); err != nil {
		return nil, nil, err
	}
	if err := checkManifoldEdges(b, false); err != nil {
		return nil, nil, err
	}

	points, rByEdge, bByEdge, err := computeIntersections(r, b, opts)
	if err != nil {
		return nil, nil, err
	}
	graph, err := buildCurveGraph(r, b, points)
	if err != nil {
		return nil, nil, err
	}

	box := meshBBox(r).Union(meshBBox(b))
	eps := geom.ScaleEpsilon(opts.RelEpsilon, box)

	rCrossedFaces := crossedFaceSet(graph.segsByRFace)
	bCrossedFaces := crossedFaceSet(graph.segsByBFace)
	rClass := classifyFaces(r, rCrossedFaces, crossedEdgeSet(rByEdge), b, eps).class
	bClass := classifyFaces(b, bCrossedFaces, crossedEdgeSet(bByEdge), r, eps).class

	out := mesh.New[VP, FP]()
	w := newVertexWelder[VP, FP](eps)

	emitWholeFaces(out, w, r, rClass, mode, true)
	emitWholeFaces(out, w, b, bClass, mode, false)

	if err := emitRetriangulated(out, w, r, graph.segsByRFace, points, mode, true, b, eps); err != nil {
		return nil, nil, err
	}
	if err := emitRetriangulated(out, w, b, graph.segsByBFace, points, mode, false, r, eps); err != nil {
		return nil, nil, err
	}

	return out, BlueUpdate(w.bOrig), nil
}

// vertexWelder implements spec.md §4.3's stitching step: original
// vertices of R and B pass through to the output under their own
// identity, but two intersection-curve vertices that land on the same
// 3D position (one emitted while retriangulating an R face, the other
// while retriangulating the adjoining B face) must collapse to a single
// output vertex, or the combined mesh would not be watertight.
type vertexWelder[VP, FP any] struct {
	eps   float64
	rOrig map[mesh.VertexID]mesh.VertexID
	bOrig map[mesh.VertexID]mesh.VertexID
	curve map[posKey]mesh.VertexID
}

type posKey struct{ x, y, z int64 }

func newVertexWelder[VP, FP any](eps float64) *vertexWelder[VP, FP] {
	return &vertexWelder[VP, FP]{
		eps:   eps,
		rOrig: map[mesh.VertexID]mesh.VertexID{},
		bOrig: map[mesh.VertexID]mesh.VertexID{},
		curve: map[posKey]mesh.VertexID{},
	}
}

func quantize(p model3d.Coord3D, eps float64) posKey {
	scale := 1e6
	if eps > 0 {
		scale = 1 / eps
	}
	return posKey{
		x: int64(math.Round(p.X * scale)),
		y: int64(math.Round(p.Y * scale)),
		z: int64(math.Round(p.Z * scale)),
	}
}

func (w *vertexWelder[VP, FP]) origVertex(out *mesh.Mesh[VP, FP], m *mesh.Mesh[VP, FP], id mesh.VertexID, red bool) mesh.VertexID {
	table := w.rOrig
	if !red {
		table = w.bOrig
	}
	if got, ok := table[id]; ok {
		return got
	}
	v, _ := m.Vertex(id)
	nv := out.AddVertex(v.Pos, v.Payload)
	table[id] = nv
	return nv
}

// curvePoint returns the output vertex for a point on the intersection
// curve, welding it to any previously-emitted vertex at the same
// position. Curve points are new vertices with no analog in either
// input, so they carry VP's zero value as payload.
func (w *vertexWelder[VP, FP]) curvePoint(out *mesh.Mesh[VP, FP], pos model3d.Coord3D) mesh.VertexID {
	k := quantize(pos, w.eps)
	if got, ok := w.curve[k]; ok {
		return got
	}
	var zero VP
	nv := out.AddVertex(pos, zero)
	w.curve[k] = nv
	return nv
}

func emitWholeFaces[VP, FP any](
	out *mesh.Mesh[VP, FP], w *vertexWelder[VP, FP], m *mesh.Mesh[VP, FP],
	class map[mesh.FaceID]FaceClass, mode Mode, red bool,
) {
	m.Faces(func(f mesh.Face[FP]) {
		cls, ok := class[f.ID]
		if !ok || cls == Crossed {
			return
		}
		keep, flip := keepPolicy(mode, red, cls)
		if !keep {
			return
		}
		emitTriangle(out, w, m, f.V, f.Payload, red, flip)
	})
}

func emitTriangle[VP, FP any](
	out *mesh.Mesh[VP, FP], w *vertexWelder[VP, FP], m *mesh.Mesh[VP, FP],
	v [3]mesh.VertexID, payload FP, red, flip bool,
) {
	var ids [3]mesh.VertexID
	for i, vid := range v {
		ids[i] = w.origVertex(out, m, vid, red)
	}
	if flip {
		out.AddFace(ids[0], ids[2], ids[1], payload)
	} else {
		out.AddFace(ids[0], ids[1], ids[2], payload)
	}
}

// emitRetriangulated runs spec.md §4.3 on every Crossed face of m:
// retriangulate against the curve restricted to it, classify each
// resulting sub-triangle against other, and emit the ones mode keeps.
func emitRetriangulated[VP, FP, OVP, OFP any](
	out *mesh.Mesh[VP, FP], w *vertexWelder[VP, FP], m *mesh.Mesh[VP, FP],
	segsByFace map[mesh.FaceID][]segment, points []isecPoint,
	mode Mode, red bool, other *mesh.Mesh[OVP, OFP], eps float64,
) error {
	var faceIDs []mesh.FaceID
	for id, segs := range segsByFace {
		if len(segs) > 0 {
			faceIDs = append(faceIDs, id)
		}
	}
	sort.Slice(faceIDs, func(i, j int) bool { return faceIDs[i] < faceIDs[j] })

	for _, id := range faceIDs {
		face, ok := m.Face(id)
		if !ok {
			continue
		}
		a, b, c := m.Triangle(face)
		tris, err := retriangulateFace(face.V, [3]model3d.Coord3D{a, b, c}, segsByFace[id], points, red)
		if err != nil {
			return err
		}
		for _, tri := range tris {
			centroid := tri[0].pos.Add(tri[1].pos).Add(tri[2].pos).Scale(1.0 / 3.0)
			subCls := Outside
			if rayCastInside(centroid, other, eps) {
				subCls = Inside
			}
			keep, flip := keepPolicy(mode, red, subCls)
			if !keep {
				continue
			}

			var ids [3]mesh.VertexID
			for i, v := range tri {
				if v.isCorner {
					ids[i] = w.origVertex(out, m, v.corner, red)
				} else {
					ids[i] = w.curvePoint(out, v.pos)
				}
			}
			if flip {
				out.AddFace(ids[0], ids[2], ids[1], face.Payload)
			} else {
				out.AddFace(ids[0], ids[1], ids[2], face.Payload)
			}
		}
	}
	return nil
}
