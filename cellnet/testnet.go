package cellnet

import (
	"fmt"
	"math"
	"sort"

	"github.com/unixpickle/model3d/model3d"
)

// Role is the vertex-role enumeration TestNetwork uses to implement
// Vertex's four role predicates.
type Role int

const (
	RoleSimple Role = iota
	RoleRoot
	RoleBranching
	RoleTerminal
)

type testVertex struct {
	pos    model3d.Coord3D
	radius float64
	role   Role
}

func (v *testVertex) Position() model3d.Coord3D      { return v.pos }
func (v *testVertex) Radius() float64                { return v.radius }
func (v *testVertex) IsNeuriteRootVertex() bool       { return v.role == RoleRoot }
func (v *testVertex) IsNeuriteBranchingVertex() bool  { return v.role == RoleBranching }
func (v *testVertex) IsNeuriteSimpleVertex() bool     { return v.role == RoleSimple }
func (v *testVertex) IsNeuriteTerminalVertex() bool   { return v.role == RoleTerminal }

type testSegmentData struct {
	src, dst VertexID
}

// TestNetwork is a minimal in-memory Network, used to exercise
// Precondition without a host application's own cell-network graph.
// SMDVRadii is approximated as the segment's own two endpoint radii,
// since the real smallest-max-diameter-vertex computation needs a full
// neurite-tree topology this minimal double does not model.
type TestNetwork struct {
	nextVertex VertexID
	nextSeg    SegmentID
	vertices   map[VertexID]*testVertex
	segments   map[SegmentID]*testSegmentData
}

func NewTestNetwork() *TestNetwork {
	return &TestNetwork{
		vertices: map[VertexID]*testVertex{},
		segments: map[SegmentID]*testSegmentData{},
	}
}

func (n *TestNetwork) AddVertex(pos model3d.Coord3D, radius float64, role Role) VertexID {
	n.nextVertex++
	n.vertices[n.nextVertex] = &testVertex{pos: pos, radius: radius, role: role}
	return n.nextVertex
}

func (n *TestNetwork) AddSegment(src, dst VertexID) SegmentID {
	n.nextSeg++
	n.segments[n.nextSeg] = &testSegmentData{src: src, dst: dst}
	return n.nextSeg
}

func (n *TestNetwork) Segments() []SegmentID {
	out := make([]SegmentID, 0, len(n.segments))
	for id := range n.segments {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (n *TestNetwork) Segment(id SegmentID) (Segment, bool) {
	s, ok := n.segments[id]
	if !ok {
		return nil, false
	}
	return &testSegmentView{net: n, data: s}, true
}

func (n *TestNetwork) Vertex(id VertexID) (Vertex, bool) {
	v, ok := n.vertices[id]
	return v, ok
}

func (n *TestNetwork) Split(id SegmentID, intermediate []VertexRadius) error {
	s, ok := n.segments[id]
	if !ok {
		return fmt.Errorf("cellnet: segment %d not found", id)
	}
	delete(n.segments, id)

	prev := s.src
	for _, vr := range intermediate {
		nv := n.AddVertex(vr.Pos, vr.Radius, RoleSimple)
		n.AddSegment(prev, nv)
		prev = nv
	}
	n.AddSegment(prev, s.dst)
	return nil
}

func (n *TestNetwork) Collapse(id SegmentID, keep VertexID, pos model3d.Coord3D, radius float64) (VertexID, error) {
	s, ok := n.segments[id]
	if !ok {
		return 0, fmt.Errorf("cellnet: segment %d not found", id)
	}
	if keep != s.src && keep != s.dst {
		return 0, fmt.Errorf("cellnet: keep vertex %d is not an endpoint of segment %d", keep, id)
	}
	other := s.src
	if keep == s.src {
		other = s.dst
	}
	delete(n.segments, id)

	survivor := n.vertices[keep]
	survivor.pos, survivor.radius = pos, radius

	for _, sd := range n.segments {
		if sd.src == other {
			sd.src = keep
		}
		if sd.dst == other {
			sd.dst = keep
		}
	}
	delete(n.vertices, other)
	return keep, nil
}

func (n *TestNetwork) IncidentSegments(v VertexID) []SegmentID {
	var out []SegmentID
	for id, sd := range n.segments {
		if sd.src == v || sd.dst == v {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type testSegmentView struct {
	net  *TestNetwork
	data *testSegmentData
}

func (s *testSegmentView) Source() VertexID      { return s.data.src }
func (s *testSegmentView) Destination() VertexID { return s.data.dst }

func (s *testSegmentView) Length() float64 {
	u, v := s.net.vertices[s.data.src], s.net.vertices[s.data.dst]
	return v.pos.Sub(u.pos).Norm()
}

func (s *testSegmentView) MaxRadius() float64 {
	u, v := s.net.vertices[s.data.src], s.net.vertices[s.data.dst]
	return math.Max(u.radius, v.radius)
}

func (s *testSegmentView) SMDVRadii() (float64, float64) {
	u, v := s.net.vertices[s.data.src], s.net.vertices[s.data.dst]
	return u.radius, v.radius
}
