// Package objflush implements spec.md §4.6's partial-flush contract:
// incrementally append finalized faces of a mesh to an external
// wavefront-style .obj file, then drop them (and any vertex they alone
// kept alive) from the in-memory mesh.
package objflush

import (
	"fmt"
	"io"
	"sort"

	"github.com/cellmesh/rbkernel/mesh"
	"github.com/pkg/errors"
)

// FlushInfo tracks, across repeated Flush calls against the same file,
// which vertices have already been written and under which file-local
// line number (wavefront vertex indices are 1-based by order of
// appearance). The zero value is ready to use for a fresh file.
type FlushInfo struct {
	NextLine int
	Boundary map[mesh.VertexID]int
}

// NewFlushInfo returns a FlushInfo for a new, empty file.
func NewFlushInfo() *FlushInfo {
	return &FlushInfo{NextLine: 1, Boundary: map[mesh.VertexID]int{}}
}

// Flush writes every vertex referenced by faces that has not already
// been written under info, followed by an "f" line per face, onto w.
// Vertices already recorded in info.Boundary are referenced by their
// existing line number rather than rewritten, per spec.md §4.6. After
// writing, the flushed faces are removed from m; any vertex left with
// no remaining incident face is removed from m and forgotten by info,
// while vertices still referenced by pending faces keep their recorded
// line number for a future call.
func Flush[VP, FP any](m *mesh.Mesh[VP, FP], w io.Writer, info *FlushInfo, faces []mesh.FaceID) error {
	if info.Boundary == nil {
		info.Boundary = map[mesh.VertexID]int{}
	}
	if info.NextLine == 0 {
		info.NextLine = 1
	}

	var faceList []mesh.Face[FP]
	seenVertex := map[mesh.VertexID]bool{}
	var newVertices []mesh.VertexID
	for _, id := range faces {
		f, ok := m.Face(id)
		if !ok {
			continue
		}
		faceList = append(faceList, f)
		for _, v := range f.V {
			if seenVertex[v] {
				continue
			}
			seenVertex[v] = true
			if _, already := info.Boundary[v]; !already {
				newVertices = append(newVertices, v)
			}
		}
	}
	sort.Slice(newVertices, func(i, j int) bool { return newVertices[i] < newVertices[j] })

	for _, id := range newVertices {
		vert, ok := m.Vertex(id)
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "v %.7f %.7f %.7f\n", vert.Pos.X, vert.Pos.Y, vert.Pos.Z); err != nil {
			return errors.Wrapf(err, "objflush: writing vertex %d", id)
		}
		info.Boundary[id] = info.NextLine
		info.NextLine++
	}

	for _, f := range faceList {
		l0, l1, l2 := info.Boundary[f.V[0]], info.Boundary[f.V[1]], info.Boundary[f.V[2]]
		if _, err := fmt.Fprintf(w, "f %d %d %d\n", l0, l1, l2); err != nil {
			return errors.Wrapf(err, "objflush: writing face %d", f.ID)
		}
	}

	for _, f := range faceList {
		m.RemoveFace(f.ID)
	}
	for v := range seenVertex {
		if len(m.FacesAtVertex(v)) == 0 {
			m.RemoveVertex(v)
			delete(info.Boundary, v)
		}
	}
	return nil
}
