package redblue

import (
	"github.com/cellmesh/rbkernel/mesh"
)

// IntersectionPolyline is a cyclic sequence of intersection points, per
// spec.md §3: each point lies simultaneously on one edge of one mesh
// and one face of the other.
type IntersectionPolyline struct {
	Points []isecPoint
}

// faceCell names the pair of faces (one from R, one from B) whose
// planar overlap a single intersection segment lies within. Groups
// keyed on faceCell are the unit of both polyline tracing (segments
// connect two points in the same cell) and face-local retriangulation
// input (spec.md §4.3 step 1) since a segment is simultaneously "the
// part of the curve restricted to" both of the cell's two faces.
type faceCell struct {
	RFace mesh.FaceID
	BFace mesh.FaceID
}

type segment struct {
	a, b int // indices into the flat point list
}

// curveGraph is the planar-dual walk of spec.md §4.2 step 4, built once
// from every crossing point and reused both to trace closed polylines
// (for classification) and to gather each face's restricted polyline
// (for retriangulation in combine.go).
type curveGraph struct {
	points []isecPoint

	// segsByRFace/segsByBFace list, for each face of R (resp. B), every
	// segment of the curve restricted to that face - the retriangulation
	// input of spec.md §4.3 step 1. Kept separate because R and B faces
	// are independent mesh.FaceID spaces.
	segsByRFace map[mesh.FaceID][]segment
	segsByBFace map[mesh.FaceID][]segment

	neighbors [][]int // adjacency list over point indices
}

// buildCurveGraph groups crossing points into faceCells and pairs them
// into segments, per the doc comment on faceCell above.
func buildCurveGraph[RVP, RFP, BVP, BFP any](
	r *mesh.Mesh[RVP, RFP], b *mesh.Mesh[BVP, BFP], points []isecPoint,
) (*curveGraph, error) {
	groups := map[faceCell][]int{}

	for i, p := range points {
		if p.red {
			// Red edge crosses B-face p.otherFace; cell partners are
			// the (up to two) R-faces incident to the crossing edge.
			for _, rf := range r.FacesAtEdge(p.edgeU, p.edgeV) {
				key := faceCell{RFace: rf, BFace: p.otherFace}
				groups[key] = append(groups[key], i)
			}
		} else {
			for _, bf := range b.FacesAtEdge(p.edgeU, p.edgeV) {
				key := faceCell{RFace: p.otherFace, BFace: bf}
				groups[key] = append(groups[key], i)
			}
		}
	}

	g := &curveGraph{
		points:      points,
		segsByRFace: map[mesh.FaceID][]segment{},
		segsByBFace: map[mesh.FaceID][]segment{},
		neighbors:   make([][]int, len(points)),
	}

	const coincidentEps = 1e-7
	for cell, idxs := range groups {
		switch {
		case len(idxs) == 2:
			a, b2 := idxs[0], idxs[1]
			if points[a].pos.Dist(points[b2].pos) < coincidentEps {
				red := points[a].red
				faceID := cell.RFace
				if !red {
					faceID = cell.BFace
				}
				return nil, errAffectedCircleTrivial(
					"intersection loop collapsed to a single point",
					red, faceID, points[a].pos,
				)
			}
			g.neighbors[a] = append(g.neighbors[a], b2)
			g.neighbors[b2] = append(g.neighbors[b2], a)
			seg := segment{a: a, b: b2}
			g.segsByRFace[cell.RFace] = append(g.segsByRFace[cell.RFace], seg)
			g.segsByBFace[cell.BFace] = append(g.segsByBFace[cell.BFace], seg)
		case len(idxs) == 1:
			return nil, errNumericalEdgeCase(
				"intersection polyline does not close: one crossing point has no partner in its face cell",
				true, true,
			)
		case len(idxs) > 2:
			return nil, errNumericalEdgeCase(
				"more than two intersection points share a face cell; likely near-coplanar faces",
				true, true,
			)
		}
	}

	for i, nb := range g.neighbors {
		if len(nb) != 0 && len(nb) != 2 {
			return nil, errNumericalEdgeCase(
				"intersection curve has a point of degree other than 2",
				true, true,
			)
		}
		_ = i
	}

	return g, nil
}

// Polylines traces the closed loops of the curve graph, per spec.md
// §4.2 step 4.
func (g *curveGraph) Polylines() []IntersectionPolyline {
	visited := make([]bool, len(g.points))
	var loops []IntersectionPolyline
	for start := range g.points {
		if visited[start] || len(g.neighbors[start]) == 0 {
			continue
		}
		var loop []isecPoint
		prev := -1
		cur := start
		for {
			visited[cur] = true
			loop = append(loop, g.points[cur])
			next := g.neighbors[cur][0]
			if next == prev && len(g.neighbors[cur]) > 1 {
				next = g.neighbors[cur][1]
			}
			if next == start {
				break
			}
			prev, cur = cur, next
		}
		loops = append(loops, IntersectionPolyline{Points: loop})
	}
	return loops
}
