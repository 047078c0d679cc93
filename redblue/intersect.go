package redblue

import (
	"sort"

	"github.com/cellmesh/rbkernel/broadphase"
	"github.com/cellmesh/rbkernel/geom"
	"github.com/cellmesh/rbkernel/mesh"
	"github.com/unixpickle/model3d/model3d"
)

// isecPoint is one point where an edge of one mesh crosses a face of
// the other, per spec.md §3.
type isecPoint struct {
	pos model3d.Coord3D

	// red is true when the crossing edge belongs to R (so otherFace
	// names a face of B); false when the crossing edge belongs to B.
	red bool

	edgeU, edgeV mesh.VertexID // the crossing edge, on the mesh named by `red`
	otherFace    mesh.FaceID   // the face, on the other mesh, that the edge crosses
	lambda       float64
}

// edgeLambdas collates, for one mesh's edges, the sorted list of
// crossing parameters against the other mesh, per spec.md §4.2 step 2.
type edgeLambdas struct {
	red    bool
	u, v   mesh.VertexID
	points []isecPoint // sorted by lambda
}

// Options configures the R·B pipeline. The zero value is not valid;
// use DefaultOptions().
type Options struct {
	// MaxComponents/MaxRecursionDepth configure the broadphase per
	// spec.md §4.1.
	MaxComponents     int
	MaxRecursionDepth int

	// MaxEdgeCrossings is the permitted cardinality of crossings on one
	// edge before ComplexEdges is raised (spec.md §4.2 step 3 / §9 Open
	// Questions: configurable, default 2, the manifold limit).
	MaxEdgeCrossings int

	// RelEpsilon is the intersection tolerance, relative to the
	// bounding-box diagonal of R ∪ B (spec.md §3's "tolerances ...
	// relative-to-input-scale").
	RelEpsilon float64
}

// DefaultOptions returns spec.md's suggested defaults.
func DefaultOptions() Options {
	return Options{
		MaxComponents:     broadphase.DefaultMaxComponents,
		MaxRecursionDepth: broadphase.DefaultMaxRecursionDepth,
		MaxEdgeCrossings:  2,
		RelEpsilon:        geom.DefaultEpsilon,
	}
}

// computeIntersections runs spec.md §4.2 steps 1-3: broadphase,
// edge-face crossing tests, and complex-edge detection. It returns the
// raw crossing points or a *Error (Disjoint or ComplexEdges).
func computeIntersections[VP, FP any](
	r *mesh.Mesh[VP, FP], b *mesh.Mesh[VP, FP], opts Options,
) ([]isecPoint, map[mesh.EdgeKey]*edgeLambdas, map[mesh.EdgeKey]*edgeLambdas, error) {
	rEdgesBFaces, bEdgesRFaces := broadphase.Candidates(r, b, opts.MaxComponents, opts.MaxRecursionDepth)
	if len(rEdgesBFaces) == 0 && len(bEdgesRFaces) == 0 {
		return nil, nil, nil, errDisjoint("broadphase found no candidate edge/face pairs")
	}

	box := meshBBox(r).Union(meshBBox(b))
	eps := geom.ScaleEpsilon(opts.RelEpsilon, box)

	var points []isecPoint
	rByEdge := map[mesh.EdgeKey]*edgeLambdas{}
	points = append(points, crossEdgesFaces(r, b, rEdgesBFaces, true, eps, rByEdge)...)

	bByEdge := map[mesh.EdgeKey]*edgeLambdas{}
	points = append(points, crossEdgesFaces(b, r, bEdgesRFaces, false, eps, bByEdge)...)

	if len(points) == 0 {
		return nil, nil, nil, errDisjoint("no edge crossed a face of the other mesh")
	}

	if err := checkComplexEdges(rByEdge, bByEdge, opts.MaxEdgeCrossings); err != nil {
		return nil, nil, nil, err
	}

	return points, rByEdge, bByEdge, nil
}

// crossEdgesFaces performs spec.md §4.2 step 2 for one direction: for
// every candidate (edge of X, face of Y), solve for lambda and, on a
// hit, record the crossing point as well as collate it per edge (for
// complex-edge detection) via byEdge.
func crossEdgesFaces[XVP, XFP, YVP, YFP any](
	x *mesh.Mesh[XVP, XFP], y *mesh.Mesh[YVP, YFP],
	pairs []broadphase.EdgeFacePair, red bool, eps float64,
	byEdge map[mesh.EdgeKey]*edgeLambdas,
) []isecPoint {
	var out []isecPoint
	for _, pair := range pairs {
		uv, ok1 := x.Vertex(pair.U)
		vv, ok2 := x.Vertex(pair.V)
		face, ok3 := y.Face(pair.Face)
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		p0, p1, p2 := y.Triangle(face)
		lambda, ok := geom.SegmentTriangleIntersection(uv.Pos, vv.Pos, p0, p1, p2, eps)
		if !ok {
			continue
		}
		pt := isecPoint{
			pos:       uv.Pos.Add(vv.Pos.Sub(uv.Pos).Scale(lambda)),
			red:       red,
			edgeU:     pair.U,
			edgeV:     pair.V,
			otherFace: pair.Face,
			lambda:    lambda,
		}
		out = append(out, pt)

		key := mesh.NewEdgeKey(pair.U, pair.V)
		el, ok := byEdge[key]
		if !ok {
			el = &edgeLambdas{red: red, u: key.U, v: key.V}
			byEdge[key] = el
		}
		el.points = append(el.points, pt)
	}
	for _, el := range byEdge {
		sort.Slice(el.points, func(i, j int) bool { return el.points[i].lambda < el.points[j].lambda })
	}
	return out
}

// checkComplexEdges implements spec.md §4.2 step 3: any edge whose
// crossing count exceeds maxCrossings makes the whole call fail with
// ComplexEdges, carrying every offending edge's EdgeIsecInfo.
func checkComplexEdges(rByEdge, bByEdge map[mesh.EdgeKey]*edgeLambdas, maxCrossings int) error {
	var offending []EdgeIsecInfo
	collect := func(m map[mesh.EdgeKey]*edgeLambdas) {
		for _, el := range m {
			if len(el.points) > maxCrossings {
				lambdas := make([]float64, len(el.points))
				for i, p := range el.points {
					lambdas[i] = p.lambda
				}
				offending = append(offending, EdgeIsecInfo{
					Red: el.red, U: el.u, V: el.v, EdgeLambdas: lambdas,
				})
			}
		}
	}
	collect(rByEdge)
	collect(bByEdge)
	if len(offending) == 0 {
		return nil
	}
	return errComplexEdges("one or more edges cross the other mesh more than the permitted number of times", offending)
}

func meshBBox[VP, FP any](m *mesh.Mesh[VP, FP]) geom.AABB {
	box := geom.EmptyAABB()
	m.Vertices(func(v mesh.Vertex[VP]) {
		box = box.ExpandPoint(v.Pos)
	})
	return box
}
