// Package sphere implements spec.md §4.5's sphere generators, used to
// seed the sphere-swept surface around each cell-network vertex before
// Red-Blue combination.
package sphere

import (
	"math"

	"github.com/cellmesh/rbkernel/mesh"
	"github.com/unixpickle/model3d/model3d"
)

type posKey struct{ x, y, z int64 }

const weldScale = 1e6

func quantize(p model3d.Coord3D) posKey {
	return posKey{
		x: int64(math.Round(p.X * weldScale)),
		y: int64(math.Round(p.Y * weldScale)),
		z: int64(math.Round(p.Z * weldScale)),
	}
}

// Icosphere builds a geodesic sphere of recursions subdivisions (vertex
// count 10*4^recursions+2, per spec.md §8 property 7) by delegating
// triangle generation to model3d.NewMeshIcosphere and relabeling its
// triangle soup into the kernel's own stable-id mesh container.
func Icosphere[VP, FP any](center model3d.Coord3D, radius float64, recursions int) *mesh.Mesh[VP, FP] {
	// NewMeshIcosphere splits each icosahedron edge into n pieces
	// (10*n^2+2 vertices); n = 2^recursions is one midpoint subdivision
	// per level.
	return relabel[VP, FP](model3d.NewMeshIcosphere(center, radius, 1<<recursions))
}

func relabel[VP, FP any](src *model3d.Mesh) *mesh.Mesh[VP, FP] {
	out := mesh.New[VP, FP]()
	verts := map[posKey]mesh.VertexID{}
	var zeroVP VP
	get := func(p model3d.Coord3D) mesh.VertexID {
		k := quantize(p)
		if id, ok := verts[k]; ok {
			return id
		}
		id := out.AddVertex(p, zeroVP)
		verts[k] = id
		return id
	}

	var zeroFP FP
	src.Iterate(func(t *model3d.Triangle) {
		a, b, c := get(t[0]), get(t[1]), get(t[2])
		out.AddFace(a, b, c, zeroFP)
	})
	return out
}

// Octsphere builds a sphere by recursively subdividing a regular
// octahedron and re-projecting every new vertex onto the target sphere,
// the alternate generator of spec.md §4.5: fewer, more evenly sized
// triangles near the poles than an icosphere at the same recursion
// depth, at the cost of six valence-4 vertices (the octahedron's corners).
func Octsphere[VP, FP any](center model3d.Coord3D, radius float64, recursions int) *mesh.Mesh[VP, FP] {
	dirs := []model3d.Coord3D{
		model3d.XYZ(1, 0, 0), model3d.XYZ(-1, 0, 0),
		model3d.XYZ(0, 1, 0), model3d.XYZ(0, -1, 0),
		model3d.XYZ(0, 0, 1), model3d.XYZ(0, 0, -1),
	}
	tris := [][3]int{
		{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
		{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
	}

	for i := 0; i < recursions; i++ {
		midpoints := map[[2]int]int{}
		edgeMid := func(a, b int) int {
			key := [2]int{a, b}
			if a > b {
				key = [2]int{b, a}
			}
			if idx, ok := midpoints[key]; ok {
				return idx
			}
			mid := dirs[a].Add(dirs[b]).Scale(0.5)
			mid = mid.Scale(1 / mid.Norm())
			idx := len(dirs)
			dirs = append(dirs, mid)
			midpoints[key] = idx
			return idx
		}

		var next [][3]int
		for _, t := range tris {
			ab, bc, ca := edgeMid(t[0], t[1]), edgeMid(t[1], t[2]), edgeMid(t[2], t[0])
			next = append(next,
				[3]int{t[0], ab, ca},
				[3]int{t[1], bc, ab},
				[3]int{t[2], ca, bc},
				[3]int{ab, bc, ca},
			)
		}
		tris = next
	}

	out := mesh.New[VP, FP]()
	var zeroVP VP
	ids := make([]mesh.VertexID, len(dirs))
	for i, d := range dirs {
		ids[i] = out.AddVertex(center.Add(d.Scale(radius/d.Norm())), zeroVP)
	}
	var zeroFP FP
	for _, t := range tris {
		out.AddFace(ids[t[0]], ids[t[1]], ids[t[2]], zeroFP)
	}
	return out
}
