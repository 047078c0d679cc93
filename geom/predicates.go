package geom

import "github.com/unixpickle/model3d/model3d"

// DefaultEpsilon is the relative tolerance used by the predicates below
// when the caller does not supply a bbox-scaled one. Call ScaleEpsilon to
// derive an absolute tolerance from an input's bounding-box diagonal, per
// spec's "tolerances are expressed as relative-to-input-scale" rule.
const DefaultEpsilon = 1e-9

// ScaleEpsilon turns a relative tolerance into an absolute one, scaled by
// the bounding-box diagonal of the input the tolerance applies to.
func ScaleEpsilon(relEps float64, box AABB) float64 {
	diag := box.Diag()
	if diag == 0 {
		return relEps
	}
	return relEps * diag
}

// crossProduct computes the cross product of two vectors component-wise,
// since model3d.Coord3D exposes X/Y/Z but no Cross method.
func crossProduct(a, b model3d.Coord3D) model3d.Coord3D {
	return model3d.Coord3D{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// Orientation returns six times the signed volume of the tetrahedron
// (a,b,c,d), positive when d is "above" the plane
// through a,b,c in right-hand-rule orientation.
func Orientation(a, b, c, d model3d.Coord3D) float64 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	return crossProduct(ab, ac).Dot(ad)
}

// SegmentTriangleIntersection solves for lambda in [0,1] such that
// u+lambda*(v-u) lies inside the triangle (p0,p1,p2), within eps. It
// returns ok=false when the segment and triangle's plane are parallel
// (within eps) or the crossing point falls outside the triangle or
// outside [0,1].
func SegmentTriangleIntersection(u, v, p0, p1, p2 model3d.Coord3D, eps float64) (lambda float64, ok bool) {
	normal := crossProduct(p1.Sub(p0), p2.Sub(p0))
	normLen := normal.Norm()
	if normLen < eps {
		// Degenerate triangle.
		return 0, false
	}
	normal = normal.Scale(1 / normLen)

	denom := normal.Dot(v.Sub(u))
	if absf(denom) < eps {
		// Segment parallel (or nearly so) to the triangle's plane.
		return 0, false
	}

	lambda = normal.Dot(p0.Sub(u)) / denom
	if lambda < -eps || lambda > 1+eps {
		return 0, false
	}
	lambda = clamp01(lambda)

	point := u.Add(v.Sub(u).Scale(lambda))
	if !pointInTriangle(point, p0, p1, p2, normal, eps) {
		return 0, false
	}
	return lambda, true
}

// RayTriangleIntersection solves for t >= 0 such that origin+t*dir lies
// inside the triangle (p0,p1,p2), within eps. Used for inside/outside
// parity tests rather than exact crossing location, so a hit exactly at
// a triangle edge or vertex is accepted - callers needing an odd/even
// count should pick a dir unlikely to graze either.
func RayTriangleIntersection(origin, dir, p0, p1, p2 model3d.Coord3D, eps float64) (t float64, ok bool) {
	normal := crossProduct(p1.Sub(p0), p2.Sub(p0))
	normLen := normal.Norm()
	if normLen < eps {
		return 0, false
	}
	normal = normal.Scale(1 / normLen)

	denom := normal.Dot(dir)
	if absf(denom) < eps {
		return 0, false
	}

	t = normal.Dot(p0.Sub(origin)) / denom
	if t < eps {
		return 0, false
	}

	point := origin.Add(dir.Scale(t))
	if !pointInTriangle(point, p0, p1, p2, normal, eps) {
		return 0, false
	}
	return t, true
}

// pointInTriangle assumes point lies (approximately) in the plane of the
// triangle and tests side-of-edge using the shared normal.
func pointInTriangle(point, p0, p1, p2, normal model3d.Coord3D, eps float64) bool {
	edges := [3][2]model3d.Coord3D{{p0, p1}, {p1, p2}, {p2, p0}}
	for _, e := range edges {
		edgeVec := e[1].Sub(e[0])
		toPoint := point.Sub(e[0])
		cross := crossProduct(edgeVec, toPoint)
		if cross.Dot(normal) < -eps {
			return false
		}
	}
	return true
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
