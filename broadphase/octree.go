// Package broadphase implements spec.md §4.1's candidate edge/face pair
// finder: an implicit octree that is never materialized, recursed
// directly over borrowed slices of primitives.
package broadphase

import (
	"sort"

	"github.com/cellmesh/rbkernel/geom"
	"github.com/cellmesh/rbkernel/mesh"
)

// EdgeFacePair is one candidate (edge-of-X, face-of-Y) pair, per
// spec.md §3. U is always < V.
type EdgeFacePair struct {
	U, V mesh.VertexID
	Face mesh.FaceID
}

// DefaultMaxComponents and DefaultMaxRecursionDepth are spec.md §4.1's
// suggested defaults, used by redblue when the caller does not override
// them.
const (
	DefaultMaxComponents     = 128
	DefaultMaxRecursionDepth = 7
)

type edgePrim struct {
	u, v mesh.VertexID
	box  geom.AABB
}

type facePrim struct {
	id  mesh.FaceID
	box geom.AABB
}

// Candidates returns, for meshes X and Y, the candidate (edge of X, face
// of Y) pairs and (edge of Y, face of X) pairs whose bounding boxes
// overlap, per spec.md §4.1. Both outputs are de-duplicated and sorted.
func Candidates[VP, FP any](
	x, y *mesh.Mesh[VP, FP],
	maxComponents, maxRecursionDepth int,
) (xEdgesYFaces, yEdgesXFaces []EdgeFacePair) {
	if maxComponents <= 0 {
		maxComponents = DefaultMaxComponents
	}
	if maxRecursionDepth <= 0 {
		maxRecursionDepth = DefaultMaxRecursionDepth
	}

	xEdges := collectEdges(x)
	yEdges := collectEdges(y)
	xFaces := collectFaces(x)
	yFaces := collectFaces(y)

	if len(xEdges) == 0 || len(yEdges) == 0 || len(xFaces) == 0 || len(yFaces) == 0 {
		return nil, nil
	}

	box := geom.EmptyAABB()
	for _, e := range xEdges {
		box = box.Union(e.box)
	}
	for _, e := range yEdges {
		box = box.Union(e.box)
	}

	var xyPairs, yxPairs []EdgeFacePair
	recurse(box, xEdges, yFaces, maxComponents, maxRecursionDepth, &xyPairs)
	recurse(box, yEdges, xFaces, maxComponents, maxRecursionDepth, &yxPairs)

	return dedupSort(xyPairs), dedupSort(yxPairs)
}

// recurse implements the implicit octree: subdivide box into 8 octants
// until either maxDepth is exhausted or the cell holds at most
// maxComponents edges and at most maxComponents faces, then emit every
// overlapping (edge,face) pair at the leaf. Lists are passed as borrowed slices per spec.md §9.
func recurse(
	box geom.AABB,
	edges []edgePrim,
	faces []facePrim,
	maxComponents, depthRemaining int,
	out *[]EdgeFacePair,
) {
	if len(edges) == 0 || len(faces) == 0 {
		return
	}
	if depthRemaining == 0 || (len(edges) <= maxComponents && len(faces) <= maxComponents) {
		emitLeaf(edges, faces, out)
		return
	}

	for octant := 0; octant < 8; octant++ {
		cell := box.Octant(octant)
		subEdges := filterEdges(edges, cell)
		subFaces := filterFaces(faces, cell)
		recurse(cell, subEdges, subFaces, maxComponents, depthRemaining-1, out)
	}
}

func emitLeaf(edges []edgePrim, faces []facePrim, out *[]EdgeFacePair) {
	for _, e := range edges {
		for _, f := range faces {
			if e.box.Intersects(f.box) {
				*out = append(*out, EdgeFacePair{U: e.u, V: e.v, Face: f.id})
			}
		}
	}
}

func filterEdges(edges []edgePrim, cell geom.AABB) []edgePrim {
	out := edges[:0:0]
	for _, e := range edges {
		if e.box.Intersects(cell) {
			out = append(out, e)
		}
	}
	return out
}

func filterFaces(faces []facePrim, cell geom.AABB) []facePrim {
	out := faces[:0:0]
	for _, f := range faces {
		if f.box.Intersects(cell) {
			out = append(out, f)
		}
	}
	return out
}

func collectEdges[VP, FP any](m *mesh.Mesh[VP, FP]) []edgePrim {
	seen := make(map[mesh.EdgeKey]bool)
	var out []edgePrim
	m.Faces(func(f mesh.Face[FP]) {
		for _, e := range [3][2]mesh.VertexID{{f.V[0], f.V[1]}, {f.V[1], f.V[2]}, {f.V[2], f.V[0]}} {
			key := mesh.NewEdgeKey(e[0], e[1])
			if seen[key] {
				continue
			}
			seen[key] = true
			uv, _ := m.Vertex(key.U)
			vv, _ := m.Vertex(key.V)
			out = append(out, edgePrim{u: key.U, v: key.V, box: geom.SegmentAABB(uv.Pos, vv.Pos)})
		}
	})
	return out
}

func collectFaces[VP, FP any](m *mesh.Mesh[VP, FP]) []facePrim {
	var out []facePrim
	m.Faces(func(f mesh.Face[FP]) {
		a, b, c := m.Triangle(f)
		out = append(out, facePrim{id: f.ID, box: geom.TriangleAABB(a, b, c)})
	})
	return out
}

func dedupSort(pairs []EdgeFacePair) []EdgeFacePair {
	sort.Slice(pairs, func(i, j int) bool {
		a, b := pairs[i], pairs[j]
		if a.U != b.U {
			return a.U < b.U
		}
		if a.V != b.V {
			return a.V < b.V
		}
		return a.Face < b.Face
	})
	out := pairs[:0:0]
	for i, p := range pairs {
		if i == 0 || p != pairs[i-1] {
			out = append(out, p)
		}
	}
	return out
}
