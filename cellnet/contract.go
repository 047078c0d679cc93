// Package cellnet implements spec.md §4.4's cell-network preconditioning:
// splitting over-long neurite segments and greedily collapsing
// under-long ones to a fixed point, ahead of per-segment sphere-swept
// surface generation. The host application's own cell-network graph is
// never imported here; Network/Segment/Vertex name exactly the behavior
// the algorithm needs from it, per spec.md §3's external-collaborator
// note that the cell-network data model itself is out of scope.
package cellnet

import "github.com/unixpickle/model3d/model3d"

// VertexID and SegmentID name vertices and segments in the host's own
// network. They carry no meaning outside of it.
type VertexID uint64
type SegmentID uint64

// Vertex is the subset of a cell-network vertex's behavior
// Precondition needs.
type Vertex interface {
	Position() model3d.Coord3D
	Radius() float64

	// Exactly one of these four is true for any vertex, per spec.md
	// §4.4's collapse rule table.
	IsNeuriteRootVertex() bool
	IsNeuriteBranchingVertex() bool
	IsNeuriteSimpleVertex() bool
	IsNeuriteTerminalVertex() bool
}

// Segment is the subset of a cell-network edge's behavior Precondition
// needs.
type Segment interface {
	Source() VertexID
	Destination() VertexID
	Length() float64
	MaxRadius() float64

	// SMDVRadii returns the two radii the beta term of the collapse
	// weight function compares against, per spec.md §4.4: the
	// smallest-max-diameter-vertex radius on each side of the segment
	// within its neurite subtree.
	SMDVRadii() (float64, float64)
}

// VertexRadius is a (position, radius) pair, used for the intermediate
// vertices a Split introduces.
type VertexRadius struct {
	Pos    model3d.Coord3D
	Radius float64
}

// Network is the host's cell-network graph, mutated only through Split
// and Collapse.
type Network interface {
	Segments() []SegmentID
	Segment(id SegmentID) (Segment, bool)
	Vertex(id VertexID) (Vertex, bool)

	// Split replaces segment id with a path of len(intermediate)+1 new
	// segments through intermediate, in source-to-destination order.
	// id's own two endpoints are unchanged.
	Split(id SegmentID, intermediate []VertexRadius) error

	// Collapse removes segment id, merging its two endpoints into one
	// surviving vertex at (pos, radius), and rewires every other
	// segment incident to either endpoint onto the survivor. keep names
	// which of the segment's two endpoints retains its identity (its
	// role, and any host-side data keyed by VertexID); the other
	// endpoint is deleted. It returns the survivor's id, which is
	// always keep.
	Collapse(id SegmentID, keep VertexID, pos model3d.Coord3D, radius float64) (VertexID, error)

	// IncidentSegments returns every segment with v as an endpoint.
	IncidentSegments(v VertexID) []SegmentID
}
