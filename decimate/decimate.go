// Package decimate implements the mesh post-processing spec.md §1 lists
// as out of scope for the core kernel but names as a consumer of its
// outputs: greedy edge-collapse decimation and the two Laplacian
// smoothing variants, grounded on the signatures declared (but not
// defined, in the retrieved source) for AnaMorph's
// MeshAlg::greedyEdgeCollapsePostProcessing/simpleLaplacianSmoothing/
// HCLaplacianSmoothing. mesh.Mesh[VP,FP]'s own CollapseEdge does the
// topology surgery; this package only picks which edge and where to
// move it.
package decimate

import (
	"math"
	"sort"

	"github.com/cellmesh/rbkernel/mesh"
	"github.com/unixpickle/model3d/model3d"
)

// GreedyEdgeCollapse repeatedly collapses the shortest manifold edge
// shorter than alpha times the mesh's current mean edge length, merging
// each pair at their midpoint, for up to d passes or until no edge
// qualifies. A final Taubin lambda/mu filtering pass (shrink by lambda,
// reinflate by mu) relaxes the triangles greedy collapse tends to leave
// thin, without the uniform shrinkage a plain Laplacian pass would add.
func GreedyEdgeCollapse[VP, FP any](m *mesh.Mesh[VP, FP], alpha, lambda, mu float64, d int) {
	for pass := 0; pass < d; pass++ {
		mean := meanEdgeLength(m)
		if mean <= 0 {
			break
		}
		u, v, ok := shortestCollapsibleEdge(m, alpha*mean)
		if !ok {
			break
		}
		uVert, _ := m.Vertex(u)
		vVert, _ := m.Vertex(v)
		mid := uVert.Pos.Add(vVert.Pos).Scale(0.5)
		m.CollapseEdge(u, v, mid)
	}
	taubinSmooth(m, lambda, mu, 1)
}

// shortestCollapsibleEdge returns the shortest manifold (exactly two
// incident faces) edge no longer than threshold. Boundary and
// non-manifold edges are left alone, since CollapseEdge's "remove every
// face incident to {u,v}" step is only a valid simplification for a
// genuinely shared edge between two triangles.
func shortestCollapsibleEdge[VP, FP any](m *mesh.Mesh[VP, FP], threshold float64) (bestU, bestV mesh.VertexID, ok bool) {
	seen := map[mesh.EdgeKey]bool{}
	bestLen := math.Inf(1)
	m.Faces(func(f mesh.Face[FP]) {
		for _, e := range [3][2]mesh.VertexID{{f.V[0], f.V[1]}, {f.V[1], f.V[2]}, {f.V[2], f.V[0]}} {
			key := mesh.NewEdgeKey(e[0], e[1])
			if seen[key] {
				continue
			}
			seen[key] = true
			if len(m.FacesAtEdge(e[0], e[1])) != 2 {
				continue
			}
			uv, _ := m.Vertex(e[0])
			vv, _ := m.Vertex(e[1])
			length := uv.Pos.Dist(vv.Pos)
			if length < bestLen {
				bestLen, bestU, bestV, ok = length, e[0], e[1], true
			}
		}
	})
	if ok && bestLen > threshold {
		return 0, 0, false
	}
	return bestU, bestV, ok
}

func meanEdgeLength[VP, FP any](m *mesh.Mesh[VP, FP]) float64 {
	seen := map[mesh.EdgeKey]bool{}
	total, count := 0.0, 0
	m.Faces(func(f mesh.Face[FP]) {
		for _, e := range [3][2]mesh.VertexID{{f.V[0], f.V[1]}, {f.V[1], f.V[2]}, {f.V[2], f.V[0]}} {
			key := mesh.NewEdgeKey(e[0], e[1])
			if seen[key] {
				continue
			}
			seen[key] = true
			uv, _ := m.Vertex(e[0])
			vv, _ := m.Vertex(e[1])
			total += uv.Pos.Dist(vv.Pos)
			count++
		}
	})
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// neighbors builds the 1-ring adjacency every smoothing pass needs.
func neighbors[VP, FP any](m *mesh.Mesh[VP, FP]) map[mesh.VertexID][]mesh.VertexID {
	adjSet := map[mesh.VertexID]map[mesh.VertexID]bool{}
	add := func(a, b mesh.VertexID) {
		if adjSet[a] == nil {
			adjSet[a] = map[mesh.VertexID]bool{}
		}
		adjSet[a][b] = true
	}
	m.Faces(func(f mesh.Face[FP]) {
		for _, e := range [3][2]mesh.VertexID{{f.V[0], f.V[1]}, {f.V[1], f.V[2]}, {f.V[2], f.V[0]}} {
			add(e[0], e[1])
			add(e[1], e[0])
		}
	})
	out := make(map[mesh.VertexID][]mesh.VertexID, len(adjSet))
	for v, set := range adjSet {
		nbrs := make([]mesh.VertexID, 0, len(set))
		for n := range set {
			nbrs = append(nbrs, n)
		}
		sort.Slice(nbrs, func(i, j int) bool { return nbrs[i] < nbrs[j] })
		out[v] = nbrs
	}
	return out
}

func centroidOf[VP, FP any](m *mesh.Mesh[VP, FP], nbrs []mesh.VertexID) (model3d.Coord3D, bool) {
	if len(nbrs) == 0 {
		return model3d.Coord3D{}, false
	}
	sum := model3d.Coord3D{}
	for _, n := range nbrs {
		nv, ok := m.Vertex(n)
		if !ok {
			continue
		}
		sum = sum.Add(nv.Pos)
	}
	return sum.Scale(1 / float64(len(nbrs))), true
}

// laplacianStep moves every vertex a fraction t of the way toward its
// 1-ring centroid. Negative t inflates instead of shrinking, the move
// taubinSmooth's mu pass uses.
func laplacianStep[VP, FP any](m *mesh.Mesh[VP, FP], adj map[mesh.VertexID][]mesh.VertexID, t float64) {
	type move struct {
		id  mesh.VertexID
		pos model3d.Coord3D
	}
	var moves []move
	for id, nbrs := range adj {
		v, ok := m.Vertex(id)
		if !ok {
			continue
		}
		c, ok := centroidOf(m, nbrs)
		if !ok {
			continue
		}
		moves = append(moves, move{id: id, pos: v.Pos.Add(c.Sub(v.Pos).Scale(t))})
	}
	for _, mv := range moves {
		m.SetVertexPosition(mv.id, mv.pos)
	}
}

func taubinSmooth[VP, FP any](m *mesh.Mesh[VP, FP], lambda, mu float64, iters int) {
	adj := neighbors(m)
	for i := 0; i < iters; i++ {
		laplacianStep(m, adj, lambda)
		laplacianStep(m, adj, -mu)
	}
}

// SimpleLaplacianSmoothing moves every vertex a fraction lambda of the
// way toward its 1-ring centroid, maxIter times. This shrinks the mesh
// slightly on every pass; HCLaplacianSmoothing corrects for that.
func SimpleLaplacianSmoothing[VP, FP any](m *mesh.Mesh[VP, FP], lambda float64, maxIter int) {
	adj := neighbors(m)
	for i := 0; i < maxIter; i++ {
		laplacianStep(m, adj, lambda)
	}
}

// HCLaplacianSmoothing runs Vollmer/Mencl/Müller's HC-Laplacian filter:
// each Laplacian step's displacement from a weighted blend of the
// original and previous position is partly subtracted back off,
// countering the shrinkage plain Laplacian smoothing introduces.
func HCLaplacianSmoothing[VP, FP any](m *mesh.Mesh[VP, FP], alpha, beta float64, maxIter int) {
	adj := neighbors(m)
	original := map[mesh.VertexID]model3d.Coord3D{}
	for id := range adj {
		if v, ok := m.Vertex(id); ok {
			original[id] = v.Pos
		}
	}

	for iter := 0; iter < maxIter; iter++ {
		prev := map[mesh.VertexID]model3d.Coord3D{}
		q := map[mesh.VertexID]model3d.Coord3D{}
		for id, nbrs := range adj {
			v, ok := m.Vertex(id)
			if !ok {
				continue
			}
			prev[id] = v.Pos
			c, ok := centroidOf(m, nbrs)
			if !ok {
				q[id] = v.Pos
				continue
			}
			q[id] = c
		}

		b := map[mesh.VertexID]model3d.Coord3D{}
		for id, qi := range q {
			blend := original[id].Scale(alpha).Add(prev[id].Scale(1 - alpha))
			b[id] = qi.Sub(blend)
		}

		for id, nbrs := range adj {
			qi, ok := q[id]
			if !ok {
				continue
			}
			avgB := model3d.Coord3D{}
			n := 0
			for _, nb := range nbrs {
				if bv, ok := b[nb]; ok {
					avgB = avgB.Add(bv)
					n++
				}
			}
			if n > 0 {
				avgB = avgB.Scale(1 / float64(n))
			}
			newPos := qi.Sub(b[id].Scale(beta).Add(avgB.Scale(1 - beta)))
			m.SetVertexPosition(id, newPos)
		}
	}
}
