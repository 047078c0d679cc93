package sphere

import (
	"fmt"
	"math"

	"github.com/cellmesh/rbkernel/mesh"
	"github.com/unixpickle/model3d/model3d"
)

// AppendHalfSphereCap welds a hemisphere onto an existing open vertex
// ring, per spec.md §4.5/§6: the ring's n vertices become the cap's
// equator, bands further latitude rings of n vertices each are built by
// great-circle interpolation toward pole, and a single apex vertex
// closes the dome. It mutates m in place and returns the new apex
// vertex id.
//
// ring must already lie approximately on the sphere of the given
// center/radius; pole is the outward direction from center to the
// apex and need not be normalized. phiOffset rotates every interior
// latitude band about the pole axis relative to the ring's own
// indexing, without moving the ring itself, so that a chain of
// consecutive canal-surface caps can stagger their internal
// tessellation instead of repeating the same seam. vp/fp stamp every
// new vertex/face.
func AppendHalfSphereCap[VP, FP any](m *mesh.Mesh[VP, FP], ring []mesh.VertexID, center model3d.Coord3D, radius float64, pole model3d.Coord3D, bands int, phiOffset float64, vp VP, fp FP) (mesh.VertexID, error) {
	n := len(ring)
	if n < 3 {
		return 0, fmt.Errorf("sphere: AppendHalfSphereCap: ring has %d vertices, need >= 3", n)
	}
	if bands < 0 {
		return 0, fmt.Errorf("sphere: AppendHalfSphereCap: bands must be >= 0")
	}
	poleLen := pole.Norm()
	if poleLen == 0 {
		return 0, fmt.Errorf("sphere: AppendHalfSphereCap: pole direction is zero")
	}
	poleUnit := pole.Scale(1 / poleLen)

	equatorDirs := make([]model3d.Coord3D, n)
	for i, id := range ring {
		v, ok := m.Vertex(id)
		if !ok {
			return 0, fmt.Errorf("sphere: AppendHalfSphereCap: ring vertex %d does not exist", id)
		}
		d := v.Pos.Sub(center)
		norm := d.Norm()
		if norm == 0 {
			return 0, fmt.Errorf("sphere: AppendHalfSphereCap: ring vertex %d lies at the center", id)
		}
		equatorDirs[i] = d.Scale(1 / norm)
	}

	bandRings := make([][]mesh.VertexID, bands+1)
	bandRings[0] = append([]mesh.VertexID{}, ring...)
	for b := 1; b <= bands; b++ {
		t := float64(b) / float64(bands+1)
		row := make([]mesh.VertexID, n)
		for i, d := range equatorDirs {
			rotated := rotateAroundAxis(d, poleUnit, phiOffset)
			dir := slerp(rotated, poleUnit, t)
			row[i] = m.AddVertex(center.Add(dir.Scale(radius)), vp)
		}
		bandRings[b] = row
	}
	apex := m.AddVertex(center.Add(poleUnit.Scale(radius)), vp)

	for b := 0; b < bands; b++ {
		lo, hi := bandRings[b], bandRings[b+1]
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			m.AddFace(lo[i], lo[j], hi[j], fp)
			m.AddFace(lo[i], hi[j], hi[i], fp)
		}
	}
	last := bandRings[bands]
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		m.AddFace(last[i], last[j], apex, fp)
	}

	return apex, nil
}

// slerp spherically interpolates between two unit vectors a and b at
// t in [0,1]. It falls back to linear interpolation when a and b are
// nearly parallel, where slerp's angle-normalized form is singular.
func slerp(a, b model3d.Coord3D, t float64) model3d.Coord3D {
	dot := clampUnit(a.Dot(b))
	angle := math.Acos(dot)
	if angle < 1e-9 {
		return a
	}
	sinAngle := math.Sin(angle)
	wa := math.Sin((1-t)*angle) / sinAngle
	wb := math.Sin(t*angle) / sinAngle
	return a.Scale(wa).Add(b.Scale(wb))
}

// rotateAroundAxis rotates v by angle radians about the unit vector
// axis, via Rodrigues' rotation formula. model3d.Coord3D exposes no
// Cross method, so the cross product is computed component-wise, same
// as geom's crossProduct.
func rotateAroundAxis(v, axis model3d.Coord3D, angle float64) model3d.Coord3D {
	if angle == 0 {
		return v
	}
	cosA, sinA := math.Cos(angle), math.Sin(angle)
	cross := model3d.Coord3D{
		X: axis.Y*v.Z - axis.Z*v.Y,
		Y: axis.Z*v.X - axis.X*v.Z,
		Z: axis.X*v.Y - axis.Y*v.X,
	}
	dot := axis.Dot(v)
	return v.Scale(cosA).Add(cross.Scale(sinA)).Add(axis.Scale(dot * (1 - cosA)))
}

func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
