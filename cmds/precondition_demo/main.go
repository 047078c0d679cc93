// Command precondition_demo builds a small synthetic cell network,
// runs cellnet.Precondition over it, and reports the segment count
// before and after, and the total path length afterwards.
package main

import (
	"flag"
	"log"

	"github.com/cellmesh/rbkernel/cellnet"
	"github.com/unixpickle/model3d/model3d"
)

func main() {
	var alpha, beta, gamma float64
	flag.Float64Var(&alpha, "alpha", 0.5, "PMDV collapse threshold")
	flag.Float64Var(&beta, "beta", 0.5, "SMDV collapse threshold")
	flag.Float64Var(&gamma, "gamma", 3, "split threshold, in units of max radius")
	flag.Parse()

	net := cellnet.NewTestNetwork()
	root := net.AddVertex(model3d.Origin, 1, cellnet.RoleRoot)
	prev := root
	for i := 1; i <= 6; i++ {
		v := net.AddVertex(model3d.XYZ(float64(i)*3, 0, 0), 1, cellnet.RoleSimple)
		net.AddSegment(prev, v)
		prev = v
	}
	branch := net.AddVertex(model3d.XYZ(18, 4, 0), 0.5, cellnet.RoleBranching)
	net.AddSegment(prev, branch)
	term1 := net.AddVertex(model3d.XYZ(22, 8, 0), 0.5, cellnet.RoleTerminal)
	term2 := net.AddVertex(model3d.XYZ(22, 0, 0), 0.5, cellnet.RoleTerminal)
	net.AddSegment(branch, term1)
	net.AddSegment(branch, term2)

	before := len(net.Segments())
	log.Printf("before: %d segments", before)

	if err := cellnet.Precondition(net, alpha, beta, gamma); err != nil {
		log.Fatalf("precondition: %v", err)
	}

	after := net.Segments()
	log.Printf("after: %d segments", len(after))
	total := 0.0
	for _, id := range after {
		seg, _ := net.Segment(id)
		total += seg.Length()
	}
	log.Printf("total path length: %.3f", total)
}
