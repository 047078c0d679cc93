// Command redblue_merge demonstrates redblue.Union/Difference/Intersection
// end to end: two icospheres are generated, combined per -op, and the
// result is streamed to a wavefront .obj file via objflush.Flush.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cellmesh/rbkernel/mesh"
	"github.com/cellmesh/rbkernel/objflush"
	"github.com/cellmesh/rbkernel/redblue"
	"github.com/cellmesh/rbkernel/sphere"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model3d"
)

func main() {
	var op string
	var radius, offset float64
	var recursions int
	flag.StringVar(&op, "op", "union", "union, difference, or intersection")
	flag.Float64Var(&radius, "radius", 1, "radius of each sphere")
	flag.Float64Var(&offset, "offset", 1, "x-offset between the two sphere centers")
	flag.IntVar(&recursions, "recursions", 2, "icosphere subdivision depth")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: redblue_merge [flags] <output.obj>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	r := sphere.Icosphere[struct{}, struct{}](model3d.Origin, radius, recursions)
	b := sphere.Icosphere[struct{}, struct{}](model3d.XYZ(offset, 0, 0), radius, recursions)

	log.Printf("combining spheres via %s...", op)
	var combined *mesh.Mesh[struct{}, struct{}]
	var blueUpdate redblue.BlueUpdate
	var err error
	switch op {
	case "union":
		combined, blueUpdate, err = redblue.Union(r, b, redblue.DefaultOptions())
	case "difference":
		combined, blueUpdate, err = redblue.Difference(r, b, redblue.DefaultOptions())
	case "intersection":
		combined, blueUpdate, err = redblue.Intersection(r, b, redblue.DefaultOptions())
	default:
		log.Fatalf("unknown -op %q", op)
	}
	essentials.Must(err)
	log.Printf("%d of B's original vertices survived into the combined mesh", len(blueUpdate))

	out, err := os.Create(args[0])
	essentials.Must(err)
	defer out.Close()

	var allFaces []mesh.FaceID
	combined.Faces(func(f mesh.Face[struct{}]) { allFaces = append(allFaces, f.ID) })

	info := objflush.NewFlushInfo()
	essentials.Must(objflush.Flush(combined, out, info, allFaces))
	log.Printf("wrote %d faces to %s", len(allFaces), args[0])
}
