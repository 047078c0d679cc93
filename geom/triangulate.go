package geom

import "github.com/unixpickle/model3d/model3d"

// EarClip triangulates a simple (non-self-intersecting), approximately
// planar polygon given as an ordered ring of 3D points, returning index
// triples into poly. No third-party polygon-triangulation library is
// exercised anywhere in the example pack, so this is hand-rolled in the
// same style as the robust predicates above rather than imported.
//
// Returns ok=false for fewer than 3 points, or for a ring of 4 or more
// points whose area is too small to establish a normal. A 3-point ring
// is returned as the single triangle {0,1,2} without an area check.
func EarClip(poly []model3d.Coord3D) ([][3]int, bool) {
	n := len(poly)
	if n < 3 {
		return nil, false
	}
	if n == 3 {
		return [][3]int{{0, 1, 2}}, true
	}

	normal := newellNormal(poly)
	if normal.Norm() < 1e-12 {
		return nil, false
	}
	normal = normal.Scale(1 / normal.Norm())
	u, v := orthonormalBasis(normal)

	pts2 := make([][2]float64, n)
	for i, p := range poly {
		pts2[i] = [2]float64{p.Dot(u), p.Dot(v)}
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	var tris [][3]int
	for len(idx) > 3 {
		earFound := false
		m := len(idx)
		for i := 0; i < m; i++ {
			ia := idx[(i+m-1)%m]
			ib := idx[i]
			ic := idx[(i+1)%m]
			if !isConvex(pts2[ia], pts2[ib], pts2[ic]) {
				continue
			}
			if anyPointInside(pts2, idx, ia, ib, ic) {
				continue
			}
			tris = append(tris, [3]int{ia, ib, ic})
			idx = append(idx[:i], idx[i+1:]...)
			earFound = true
			break
		}
		if !earFound {
			// Degenerate/near-collinear ring; clip the first vertex to
			// make progress rather than loop forever.
			m := len(idx)
			ia, ib, ic := idx[m-1], idx[0], idx[1%m]
			tris = append(tris, [3]int{ia, ib, ic})
			idx = idx[1:]
		}
	}
	if len(idx) == 3 {
		tris = append(tris, [3]int{idx[0], idx[1], idx[2]})
	}
	return tris, true
}

func newellNormal(poly []model3d.Coord3D) model3d.Coord3D {
	n := model3d.Coord3D{}
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n
}

func orthonormalBasis(normal model3d.Coord3D) (u, v model3d.Coord3D) {
	ref := model3d.XYZ(1, 0, 0)
	if absf(normal.Dot(ref)) > 0.9 {
		ref = model3d.XYZ(0, 1, 0)
	}
	u = ref.Sub(normal.Scale(normal.Dot(ref)))
	u = u.Scale(1 / u.Norm())
	v = crossProduct(normal, u)
	return u, v
}

func cross2(o, a, b [2]float64) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

func isConvex(a, b, c [2]float64) bool {
	return cross2(b, a, c) < 0
}

func anyPointInside(pts [][2]float64, idx []int, ia, ib, ic int) bool {
	for _, j := range idx {
		if j == ia || j == ib || j == ic {
			continue
		}
		if pointInTriangle2(pts[j], pts[ia], pts[ib], pts[ic]) {
			return true
		}
	}
	return false
}

func pointInTriangle2(p, a, b, c [2]float64) bool {
	d1 := cross2(a, b, p)
	d2 := cross2(b, c, p)
	d3 := cross2(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
