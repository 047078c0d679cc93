// Package geom provides the geometric primitives the kernel needs beyond
// what model3d already supplies: axis-aligned bounding boxes and the
// robust-ish predicates used to drive edge-face intersection tests.
package geom

import "github.com/unixpickle/model3d/model3d"

// AABB is an axis-aligned bounding box in the same coordinate space as
// model3d.Coord3D.
type AABB struct {
	Min model3d.Coord3D
	Max model3d.Coord3D
}

// EmptyAABB returns a box that Union absorbs any point/box into.
func EmptyAABB() AABB {
	inf := model3d.XYZ(posInf, posInf, posInf)
	return AABB{Min: inf, Max: inf.Scale(-1)}
}

const posInf = 1.0e308

// PointAABB returns the degenerate box containing exactly p.
func PointAABB(p model3d.Coord3D) AABB {
	return AABB{Min: p, Max: p}
}

// SegmentAABB returns the bounding box of the segment u-v.
func SegmentAABB(u, v model3d.Coord3D) AABB {
	b := PointAABB(u)
	return b.ExpandPoint(v)
}

// TriangleAABB returns the bounding box of a triangle's three vertices.
func TriangleAABB(a, b, c model3d.Coord3D) AABB {
	box := PointAABB(a)
	box = box.ExpandPoint(b)
	box = box.ExpandPoint(c)
	return box
}

// ExpandPoint returns the smallest box containing b and p.
func (b AABB) ExpandPoint(p model3d.Coord3D) AABB {
	return AABB{
		Min: model3d.XYZ(min(b.Min.X, p.X), min(b.Min.Y, p.Y), min(b.Min.Z, p.Z)),
		Max: model3d.XYZ(max(b.Max.X, p.X), max(b.Max.Y, p.Y), max(b.Max.Z, p.Z)),
	}
}

// Union returns the smallest box containing both a and b.
func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: model3d.XYZ(min(a.Min.X, b.Min.X), min(a.Min.Y, b.Min.Y), min(a.Min.Z, b.Min.Z)),
		Max: model3d.XYZ(max(a.Max.X, b.Max.X), max(a.Max.Y, b.Max.Y), max(a.Max.Z, b.Max.Z)),
	}
}

// Intersects reports whether a and b overlap, including touching at a
// face/edge/corner.
func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// Diag returns the length of the box's diagonal, used as the reference
// scale for relative tolerances elsewhere in the kernel.
func (a AABB) Diag() float64 {
	return a.Max.Sub(a.Min).Norm()
}

// Center returns the midpoint of the box.
func (a AABB) Center() model3d.Coord3D {
	return a.Min.Add(a.Max).Scale(0.5)
}

// Octant returns the sub-box of a identified by a 3-bit octant index
// (bit 0 selects +X half, bit 1 +Y, bit 2 +Z).
func (a AABB) Octant(i int) AABB {
	c := a.Center()
	min, max := a.Min, a.Max
	if i&1 != 0 {
		min.X = c.X
	} else {
		max.X = c.X
	}
	if i&2 != 0 {
		min.Y = c.Y
	} else {
		max.Y = c.Y
	}
	if i&4 != 0 {
		min.Z = c.Z
	} else {
		max.Z = c.Z
	}
	return AABB{Min: min, Max: max}
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
