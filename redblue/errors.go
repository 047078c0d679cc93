package redblue

import (
	"fmt"

	"github.com/cellmesh/rbkernel/mesh"
	"github.com/unixpickle/model3d/model3d"
)

// Kind tags which failure mode an *Error represents, per spec.md §7.
type Kind int

const (
	// KindDisjoint: no intersection detected between R and B.
	KindDisjoint Kind = iota
	// KindComplexEdges: an edge crosses the other mesh more times than
	// MaxEdgeCrossings permits.
	KindComplexEdges
	// KindNumericalEdgeCase: an intersection polyline failed to close,
	// or a degenerate (near-coplanar / vanishing) configuration was hit.
	KindNumericalEdgeCase
	// KindTriangulation: constrained retriangulation of a crossed face
	// failed mid-edit.
	KindTriangulation
	// KindNumIsecPoly: the retriangulated triangle count does not match
	// the polygon count implied by the intersection polyline.
	KindNumIsecPoly
	// KindAffectedCircleTrivial: a small intersection loop collapsed to
	// a point on one face.
	KindAffectedCircleTrivial
	// KindInternalLogic: a sanity assertion failed; always fatal.
	KindInternalLogic
)

func (k Kind) String() string {
	switch k {
	case KindDisjoint:
		return "Disjoint"
	case KindComplexEdges:
		return "ComplexEdges"
	case KindNumericalEdgeCase:
		return "NumericalEdgeCase"
	case KindTriangulation:
		return "Triangulation"
	case KindNumIsecPoly:
		return "NumIsecPoly"
	case KindAffectedCircleTrivial:
		return "AffectedCircleTrivial"
	case KindInternalLogic:
		return "InternalLogic"
	default:
		return "Unknown"
	}
}

// EdgeIsecInfo bundles the evidence behind a ComplexEdges failure, per
// spec.md §3: a color tag, the directed endpoints used for
// parametrization, and the sorted, non-empty lambda values where
// u+lambda*(v-u) crosses the other mesh.
type EdgeIsecInfo struct {
	Red         bool
	U, V        mesh.VertexID
	EdgeLambdas []float64
}

// Error is the tagged sum-type error value of spec.md §7/§9, replacing
// the source's polymorphic exception hierarchy. RIntact/BIntact are
// always present; the other fields are only meaningful for the Kind
// that produces them (documented per-field below).
type Error struct {
	Kind    Kind
	Msg     string
	RIntact bool
	BIntact bool

	// ComplexEdges payload.
	EdgeIsec []EdgeIsecInfo

	// AffectedCircleTrivial payload.
	Red      bool
	FaceID   mesh.FaceID
	SplitPos model3d.Coord3D
}

func (e *Error) Error() string {
	return fmt.Sprintf("redblue: %s: %s (R_intact=%v B_intact=%v)", e.Kind, e.Msg, e.RIntact, e.BIntact)
}

func errDisjoint(msg string) *Error {
	return &Error{Kind: KindDisjoint, Msg: msg, RIntact: true, BIntact: true}
}

func errComplexEdges(msg string, info []EdgeIsecInfo) *Error {
	return &Error{Kind: KindComplexEdges, Msg: msg, RIntact: true, BIntact: true, EdgeIsec: info}
}

func errNumericalEdgeCase(msg string, rIntact, bIntact bool) *Error {
	return &Error{Kind: KindNumericalEdgeCase, Msg: msg, RIntact: rIntact, BIntact: bIntact}
}

func errTriangulation(msg string, rIntact, bIntact bool) *Error {
	return &Error{Kind: KindTriangulation, Msg: msg, RIntact: rIntact, BIntact: bIntact}
}

func errNumIsecPoly(msg string) *Error {
	return &Error{Kind: KindNumIsecPoly, Msg: msg, RIntact: true, BIntact: true}
}

func errAffectedCircleTrivial(msg string, red bool, faceID mesh.FaceID, splitPos model3d.Coord3D) *Error {
	return &Error{
		Kind: KindAffectedCircleTrivial, Msg: msg, RIntact: true, BIntact: true,
		Red: red, FaceID: faceID, SplitPos: splitPos,
	}
}

func errInternalLogic(msg string) *Error {
	return &Error{Kind: KindInternalLogic, Msg: msg, RIntact: false, BIntact: false}
}
