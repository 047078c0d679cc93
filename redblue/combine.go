package redblue

import (
	"sort"

	"github.com/cellmesh/rbkernel/geom"
	"github.com/cellmesh/rbkernel/mesh"
	"github.com/unixpickle/model3d/model3d"
)

// Mode selects which Boolean operation boolean runs, per spec.md §6's
// three public entry points.
type Mode int

const (
	ModeUnion Mode = iota
	ModeDifference // R \ B
	ModeIntersection
)

// keepPolicy is spec.md §4.3's per-face keep table: whether a face
// classified cls, belonging to the named color, survives in mode's
// output, and whether it must be wound in reverse to keep the combined
// surface's outward orientation consistent.
func keepPolicy(mode Mode, red bool, cls FaceClass) (keep, flip bool) {
	switch mode {
	case ModeUnion:
		return cls == Outside, false
	case ModeIntersection:
		return cls == Inside, false
	case ModeDifference:
		if red {
			return cls == Outside, false
		}
		keep = cls == Inside
		return keep, keep
	default:
		return false, false
	}
}

// polyVertex is one corner of a retriangulated sub-triangle: either one
// of the face's three original corners, or a point on the intersection
// curve. idx is the global index into the curveGraph's point list, or
// -1 for a corner.
type polyVertex struct {
	pos      model3d.Coord3D
	idx      int
	isCorner bool
	corner   mesh.VertexID
}

// retriangulateFace implements spec.md §4.3 step 1 for the documented
// common case: the face's restricted polyline is a single open chain
// crossing from one boundary edge to another (or the same edge twice),
// splitting the triangle into exactly two sub-polygons. Any other
// configuration - multiple chains, or a chain with no boundary touch at
// all - is reported via *Error rather than guessed at.
func retriangulateFace(
	corners [3]mesh.VertexID, cornerPos [3]model3d.Coord3D,
	segs []segment, points []isecPoint, red bool,
) ([][3]polyVertex, error) {
	if len(segs) == 0 {
		return [][3]polyVertex{{
			{pos: cornerPos[0], idx: -1, isCorner: true, corner: corners[0]},
			{pos: cornerPos[1], idx: -1, isCorner: true, corner: corners[1]},
			{pos: cornerPos[2], idx: -1, isCorner: true, corner: corners[2]},
		}}, nil
	}

	localAdj := map[int][]int{}
	for _, s := range segs {
		localAdj[s.a] = append(localAdj[s.a], s.b)
		localAdj[s.b] = append(localAdj[s.b], s.a)
	}
	var endpoints []int
	for idx, nbrs := range localAdj {
		if len(nbrs) == 1 {
			endpoints = append(endpoints, idx)
		}
	}
	sort.Ints(endpoints)
	if len(endpoints) != 2 {
		return nil, errTriangulation(
			"face's intersection curve is not a single open chain (closed loop or multiple chains)",
			true, true,
		)
	}

	chain := []int{endpoints[0]}
	prev, cur := -1, endpoints[0]
	for cur != endpoints[1] {
		nbrs := localAdj[cur]
		next := nbrs[0]
		if next == prev && len(nbrs) > 1 {
			next = nbrs[1]
		}
		chain = append(chain, next)
		prev, cur = cur, next
	}
	if len(chain)-1 != len(segs) {
		return nil, errTriangulation(
			"face's intersection segments do not form a single connected chain",
			true, true,
		)
	}

	ring, posInRing, err := buildBoundaryRing(corners, cornerPos, points, chain, red)
	if err != nil {
		return nil, err
	}

	a, ok1 := posInRing[chain[0]]
	b, ok2 := posInRing[chain[len(chain)-1]]
	if !ok1 || !ok2 {
		return nil, errTriangulation("chain endpoint does not lie on the face boundary", true, true)
	}

	arc1 := ringArc(ring, a, b)
	arc2 := ringArc(ring, b, a)
	interior := chain[1 : len(chain)-1]

	poly1 := append(append([]polyVertex{}, arc1...), reversedCurvePoints(points, interior)...)
	poly2 := append(append([]polyVertex{}, arc2...), forwardCurvePoints(points, interior)...)

	var tris [][3]polyVertex
	wantTris := 0
	for _, poly := range [][]polyVertex{poly1, poly2} {
		if len(poly) < 3 {
			return nil, errTriangulation("sub-polygon degenerated to fewer than 3 vertices", true, true)
		}
		wantTris += len(poly) - 2
		t, err := triangulatePolyVertices(poly)
		if err != nil {
			return nil, err
		}
		tris = append(tris, t...)
	}
	if len(tris) != wantTris {
		return nil, errNumIsecPoly("retriangulated triangle count does not match the intersection polygon's vertex count")
	}
	return tris, nil
}

func forwardCurvePoints(points []isecPoint, idxs []int) []polyVertex {
	out := make([]polyVertex, len(idxs))
	for i, idx := range idxs {
		out[i] = polyVertex{pos: points[idx].pos, idx: idx}
	}
	return out
}

func reversedCurvePoints(points []isecPoint, idxs []int) []polyVertex {
	out := make([]polyVertex, len(idxs))
	for i, idx := range idxs {
		out[len(idxs)-1-i] = polyVertex{pos: points[idx].pos, idx: idx}
	}
	return out
}

// buildBoundaryRing walks the face's perimeter corner -> corner,
// inserting any chain points that lie on that edge in order, per
// spec.md §4.3 step 1's boundary-point insertion. red selects which
// color's edges m's own boundary is made of: an R-face's boundary is
// where red-colored points sit, a B-face's is where blue-colored points
// sit. posInRing maps a chain point's global index to its position in
// the returned ring, for points that landed on the boundary (interior
// chain points are absent).
func buildBoundaryRing(
	corners [3]mesh.VertexID, cornerPos [3]model3d.Coord3D,
	points []isecPoint, chain []int, red bool,
) ([]polyVertex, map[int]int, error) {
	onBoundary := map[int]struct {
		edge int
		t    float64
	}{}
	for _, idx := range chain {
		p := points[idx]
		if p.red != red {
			continue // interior point; not on this face's boundary
		}
		e, t, ok := boundaryEdgeIndex(p, corners)
		if ok {
			onBoundary[idx] = struct {
				edge int
				t    float64
			}{e, t}
		}
	}

	var ring []polyVertex
	posInRing := map[int]int{}
	edgePairs := [3][2]int{{0, 1}, {1, 2}, {2, 0}}
	for e := 0; e < 3; e++ {
		ring = append(ring, polyVertex{
			pos: cornerPos[edgePairs[e][0]], idx: -1, isCorner: true, corner: corners[edgePairs[e][0]],
		})

		var onThisEdge []int
		for idx, info := range onBoundary {
			if info.edge == e {
				onThisEdge = append(onThisEdge, idx)
			}
		}
		sort.Slice(onThisEdge, func(i, j int) bool {
			return onBoundary[onThisEdge[i]].t < onBoundary[onThisEdge[j]].t
		})
		for _, idx := range onThisEdge {
			posInRing[idx] = len(ring)
			ring = append(ring, polyVertex{pos: points[idx].pos, idx: idx})
		}
	}
	return ring, posInRing, nil
}

func boundaryEdgeIndex(p isecPoint, corners [3]mesh.VertexID) (edgeIdx int, t float64, ok bool) {
	pairs := [3][2]mesh.VertexID{{corners[0], corners[1]}, {corners[1], corners[2]}, {corners[2], corners[0]}}
	for i, e := range pairs {
		if p.edgeU == e[0] && p.edgeV == e[1] {
			return i, p.lambda, true
		}
		if p.edgeU == e[1] && p.edgeV == e[0] {
			return i, 1 - p.lambda, true
		}
	}
	return 0, 0, false
}

// ringArc returns the cyclic slice of ring starting at index from, up
// to and including index to.
func ringArc(ring []polyVertex, from, to int) []polyVertex {
	n := len(ring)
	var out []polyVertex
	for i := from; ; i = (i + 1) % n {
		out = append(out, ring[i])
		if i == to {
			break
		}
	}
	return out
}

func triangulatePolyVertices(poly []polyVertex) ([][3]polyVertex, error) {
	pos := make([]model3d.Coord3D, len(poly))
	for i, v := range poly {
		pos[i] = v.pos
	}
	idxTris, ok := geom.EarClip(pos)
	if !ok {
		return nil, errTriangulation("sub-polygon could not be triangulated", true, true)
	}
	out := make([][3]polyVertex, len(idxTris))
	for i, t := range idxTris {
		out[i] = [3]polyVertex{poly[t[0]], poly[t[1]], poly[t[2]]}
	}
	return out, nil
}
