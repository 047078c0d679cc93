package cellnet

import (
	"errors"
	"fmt"
	"math"

	"github.com/unixpickle/model3d/model3d"
)

// errSkip marks an endpoint-role combination spec.md §4.4 says must not
// be collapsed (a root or terminal vertex would move, or a neurite
// would end up branching directly on the soma).
var errSkip = errors.New("cellnet: endpoints not collapsible")

// Precondition runs spec.md §4.4's two-phase preconditioning on net:
// first splitting every segment longer than gamma*maxRadius into
// near-uniform sub-segments, then greedily collapsing segments whose
// weight is non-positive until a fixed point is reached.
func Precondition(net Network, alpha, beta, gamma float64) error {
	if err := splitLongSegments(net, gamma); err != nil {
		return err
	}
	return greedyCollapse(net, alpha, beta)
}

func splitLongSegments(net Network, gamma float64) error {
	var long []SegmentID
	for _, id := range net.Segments() {
		seg, ok := net.Segment(id)
		if ok && seg.Length() > gamma*seg.MaxRadius() {
			long = append(long, id)
		}
	}

	for _, id := range long {
		seg, ok := net.Segment(id)
		if !ok {
			continue
		}
		u, uOk := net.Vertex(seg.Source())
		v, vOk := net.Vertex(seg.Destination())
		if !uOk || !vOk {
			continue
		}

		n := chooseSplitCount(u.Position(), u.Radius(), v.Position(), v.Radius(), gamma)
		if n < 2 {
			continue
		}

		intermediate := make([]VertexRadius, 0, n-1)
		for m := 1; m < n; m++ {
			ratio := float64(m) / float64(n)
			intermediate = append(intermediate, VertexRadius{
				Pos:    u.Position().Add(v.Position().Sub(u.Position()).Scale(ratio)),
				Radius: u.Radius() + (v.Radius()-u.Radius())*ratio,
			})
		}
		if err := net.Split(id, intermediate); err != nil {
			return fmt.Errorf("cellnet: split segment %d: %w", id, err)
		}
	}
	return nil
}

// chooseSplitCount picks, for k in [2, nmax], the k minimizing
//
//	sum_{i=0}^{k-1} (len2(m_i, m_{i+1}) - gamma*max(r_i, r_{i+1}))^2
//
// over the k+1 vertices obtained by splitting u-v into k equal-length,
// linearly-interpolated-radius sub-segments. nmax is the smallest k
// making one sub-segment's length no longer than max(ru, rv).
func chooseSplitCount(pu model3d.Coord3D, ru float64, pv model3d.Coord3D, rv float64, gamma float64) int {
	uvLen := pv.Sub(pu).Norm()
	rmax := math.Max(ru, rv)
	if rmax <= 0 || uvLen <= 0 {
		return 0
	}
	nmax := int(math.Ceil(uvLen / rmax))
	if nmax < 2 {
		return 0
	}

	best, bestPenalty := 0, math.Inf(1)
	for k := 2; k <= nmax; k++ {
		vertices := make([]VertexRadius, k+1)
		vertices[0] = VertexRadius{Pos: pu, Radius: ru}
		vertices[k] = VertexRadius{Pos: pv, Radius: rv}
		for m := 1; m < k; m++ {
			ratio := float64(m) / float64(k)
			vertices[m] = VertexRadius{
				Pos:    pu.Add(pv.Sub(pu).Scale(ratio)),
				Radius: ru + (rv-ru)*ratio,
			}
		}
		penalty := splitPenalty(vertices, gamma)
		if penalty < bestPenalty {
			best, bestPenalty = k, penalty
		}
	}
	return best
}

func splitPenalty(vertices []VertexRadius, gamma float64) float64 {
	total := 0.0
	for i := 0; i+1 < len(vertices); i++ {
		diff := vertices[i+1].Pos.Sub(vertices[i].Pos)
		lenSq := diff.Dot(diff)
		rmax := math.Max(vertices[i+1].Radius, vertices[i].Radius)
		p := lenSq - gamma*rmax
		total += p * p
	}
	return total
}

// greedyCollapse runs the fixed-point loop: seed a priority queue with
// every segment's length, repeatedly collapse the shortest segment
// whose weight is non-positive, re-key its surviving vertex's remaining
// incident segments, and restart once the queue drains - until a full
// pass collapses nothing.
func greedyCollapse(net Network, alpha, beta float64) error {
	q := newSegmentQueue()

	for {
		fixedPoint := true
		q.Clear()
		for _, id := range net.Segments() {
			if seg, ok := net.Segment(id); ok {
				q.Insert(id, seg.Length())
			}
		}

		for {
			id, key, ok := q.PopMin()
			if !ok {
				break
			}
			seg, ok := net.Segment(id)
			if !ok {
				continue
			}
			if math.Abs(seg.Length()-key) > 1e-5 {
				return fmt.Errorf("cellnet: segment %d dequeued with stale key %.5f, current length %.5f", id, key, seg.Length())
			}
			if segmentWeight(seg, alpha, beta) > 0 {
				continue
			}

			uID, vID := seg.Source(), seg.Destination()
			u, uOk := net.Vertex(uID)
			v, vOk := net.Vertex(vID)
			if !uOk || !vOk {
				return fmt.Errorf("cellnet: segment %d names a missing endpoint", id)
			}
			keep, pos, radius, err := collapseTarget(uID, vID, u, v)
			if err != nil {
				if errors.Is(err, errSkip) {
					continue
				}
				return fmt.Errorf("cellnet: segment %d: %w", id, err)
			}

			survivor, err := net.Collapse(id, keep, pos, radius)
			if err != nil {
				return fmt.Errorf("cellnet: collapse segment %d: %w", id, err)
			}
			fixedPoint = false

			for _, nb := range net.IncidentSegments(survivor) {
				nbSeg, ok := net.Segment(nb)
				if !ok {
					continue
				}
				if !q.ChangeKey(nb, nbSeg.Length()) && segmentWeight(nbSeg, alpha, beta) <= 0 {
					q.Insert(nb, nbSeg.Length())
				}
			}
		}

		if fixedPoint {
			return nil
		}
	}
}

// segmentWeight implements spec.md §4.4's collapse trigger: a segment
// is collapsible once it is either an alpha-PMDV (too short relative to
// its own max radius) or a beta-SMDV (too short relative to the
// smallest-max-diameter-vertex radii on either side).
func segmentWeight(seg Segment, alpha, beta float64) float64 {
	smdvA, smdvB := seg.SMDVRadii()
	return math.Min(
		seg.Length()-alpha*seg.MaxRadius(),
		seg.Length()-beta*(smdvA+smdvB),
	)
}

// collapseTarget implements spec.md §4.4's endpoint-role rule table. It
// returns which of u/v survives the collapse and the position/radius
// it takes, or errSkip if u-v must not be collapsed given their roles.
func collapseTarget(uID, vID VertexID, u, v Vertex) (VertexID, model3d.Coord3D, float64, error) {
	switch {
	case u.IsNeuriteRootVertex():
		switch {
		case v.IsNeuriteTerminalVertex(), v.IsNeuriteBranchingVertex():
			return 0, model3d.Coord3D{}, 0, errSkip
		case v.IsNeuriteSimpleVertex():
			return uID, u.Position(), u.Radius(), nil
		default:
			return 0, model3d.Coord3D{}, 0, errImpossibleRoles()
		}

	case u.IsNeuriteBranchingVertex():
		switch {
		case v.IsNeuriteTerminalVertex():
			return 0, model3d.Coord3D{}, 0, errSkip
		case v.IsNeuriteBranchingVertex():
			pos, radius := midpoint(u, v)
			return uID, pos, radius, nil
		case v.IsNeuriteSimpleVertex():
			return uID, u.Position(), u.Radius(), nil
		default:
			return 0, model3d.Coord3D{}, 0, errImpossibleRoles()
		}

	case u.IsNeuriteSimpleVertex():
		switch {
		case v.IsNeuriteTerminalVertex(), v.IsNeuriteBranchingVertex():
			return vID, v.Position(), v.Radius(), nil
		case v.IsNeuriteSimpleVertex():
			pos, radius := midpoint(u, v)
			return uID, pos, radius, nil
		default:
			return 0, model3d.Coord3D{}, 0, errImpossibleRoles()
		}

	default:
		return 0, model3d.Coord3D{}, 0, errImpossibleRoles()
	}
}

func midpoint(u, v Vertex) (model3d.Coord3D, float64) {
	return u.Position().Add(v.Position()).Scale(0.5), (u.Radius() + v.Radius()) * 0.5
}

func errImpossibleRoles() error {
	return errors.New("internal logic error: vertex exhibits none of root/branching/simple/terminal")
}
