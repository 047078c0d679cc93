package cellnet

import (
	"testing"

	"github.com/unixpickle/model3d/model3d"
)

func TestChooseSplitCountMinimizesPenalty(t *testing.T) {
	// len=10, ru=rv=1, gamma=2: nmax=ceil(10/1)=10. The squared-length
	// penalty sum_i (len2_i - gamma*rmax)^2 = k*(100/k^2 - 2)^2 is
	// minimized at k=7 (100/49≈2.04, closest any integer k gets 100/k^2
	// to 2), not at the length-exactly-matches-gamma*rmax point k=5
	// (100/25=4, far from 2 once squared).
	n := chooseSplitCount(model3d.Origin, 1, model3d.XYZ(10, 0, 0), 1, 2)
	if n != 7 {
		t.Fatalf("chooseSplitCount = %d, want 7", n)
	}
}

func TestChooseSplitCountBelowThresholdSkipped(t *testing.T) {
	// uvLen < rmax => nmax < 2, no split should be attempted.
	n := chooseSplitCount(model3d.Origin, 5, model3d.XYZ(1, 0, 0), 5, 2)
	if n != 0 {
		t.Fatalf("chooseSplitCount = %d, want 0 (uvLen below rmax)", n)
	}
}

func buildLineNetwork(t *testing.T, length float64, radius float64) *TestNetwork {
	t.Helper()
	net := NewTestNetwork()
	root := net.AddVertex(model3d.Origin, radius, RoleRoot)
	term := net.AddVertex(model3d.XYZ(length, 0, 0), radius, RoleTerminal)
	net.AddSegment(root, term)
	return net
}

func TestPreconditionSplitsLongSegment(t *testing.T) {
	net := buildLineNetwork(t, 10, 1)
	if err := Precondition(net, 0, 0, 2); err != nil {
		t.Fatalf("Precondition: %v", err)
	}
	if got := len(net.Segments()); got != 7 {
		t.Fatalf("segment count after split = %d, want 7", got)
	}

	total := 0.0
	for _, id := range net.Segments() {
		seg, _ := net.Segment(id)
		total += seg.Length()
	}
	if total < 9.999 || total > 10.001 {
		t.Fatalf("total path length = %v, want ~10", total)
	}
}

func TestPreconditionCollapsesShortSegments(t *testing.T) {
	// A root-simple-simple-terminal chain where the middle segment is
	// far shorter than alpha*maxRadius: it must collapse away, leaving
	// the endpoints connected by one or two segments instead of three.
	net := NewTestNetwork()
	root := net.AddVertex(model3d.Origin, 1, RoleRoot)
	mid1 := net.AddVertex(model3d.XYZ(5, 0, 0), 1, RoleSimple)
	mid2 := net.AddVertex(model3d.XYZ(5.01, 0, 0), 1, RoleSimple)
	term := net.AddVertex(model3d.XYZ(10, 0, 0), 1, RoleTerminal)
	net.AddSegment(root, mid1)
	net.AddSegment(mid1, mid2)
	net.AddSegment(mid2, term)

	if err := Precondition(net, 10, 10, 1000); err != nil {
		t.Fatalf("Precondition: %v", err)
	}

	if got := len(net.Segments()); got >= 3 {
		t.Fatalf("segment count after collapse = %d, want < 3", got)
	}
	if _, ok := net.Vertex(root); !ok {
		t.Fatalf("root vertex should survive every collapse")
	}
	if _, ok := net.Vertex(term); !ok {
		t.Fatalf("terminal vertex should survive every collapse")
	}
}

func TestPreconditionSkipsRootAdjacentBranching(t *testing.T) {
	// root directly connected to a branching vertex via a zero-weight
	// segment must not collapse: collapsing would move the root.
	net := NewTestNetwork()
	root := net.AddVertex(model3d.Origin, 1, RoleRoot)
	branch := net.AddVertex(model3d.XYZ(0.01, 0, 0), 1, RoleBranching)
	net.AddSegment(root, branch)

	if err := Precondition(net, 1000, 1000, 1000); err != nil {
		t.Fatalf("Precondition: %v", err)
	}
	if got := len(net.Segments()); got != 1 {
		t.Fatalf("segment count = %d, want 1 (root-branching edge must survive)", got)
	}
}
