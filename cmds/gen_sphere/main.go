// Command gen_sphere writes a standalone icosphere or octsphere to a
// wavefront .obj file, exercising sphere.Icosphere/sphere.Octsphere.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cellmesh/rbkernel/mesh"
	"github.com/cellmesh/rbkernel/objflush"
	"github.com/cellmesh/rbkernel/sphere"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model3d"
)

func main() {
	var kind string
	var radius float64
	var recursions int
	flag.StringVar(&kind, "kind", "ico", "ico or oct")
	flag.Float64Var(&radius, "radius", 1, "sphere radius")
	flag.IntVar(&recursions, "recursions", 2, "subdivision depth")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: gen_sphere [flags] <output.obj>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var m *mesh.Mesh[struct{}, struct{}]
	switch kind {
	case "ico":
		m = sphere.Icosphere[struct{}, struct{}](model3d.Origin, radius, recursions)
	case "oct":
		m = sphere.Octsphere[struct{}, struct{}](model3d.Origin, radius, recursions)
	default:
		log.Fatalf("unknown -kind %q", kind)
	}

	out, err := os.Create(args[0])
	essentials.Must(err)
	defer out.Close()

	var faces []mesh.FaceID
	m.Faces(func(f mesh.Face[struct{}]) { faces = append(faces, f.ID) })

	numVertices := m.NumVertices()
	info := objflush.NewFlushInfo()
	essentials.Must(objflush.Flush(m, out, info, faces))
	log.Printf("wrote %s sphere (%d vertices, %d faces) to %s", kind, numVertices, len(faces), args[0])
}
