package main

import (
	"fmt"

	"github.com/edwinRNDR/openrndr/kartifex"
	"github.com/edwinRNDR/openrndr/shape"
	"github.com/tdewolff/argp"
)

type Boolean struct {
	Op string `index:"0" desc:"Boolean operation: union, intersection, difference or xor"`
	A  string `index:"1" desc:"First SVG path data"`
	B  string `index:"2" desc:"Second SVG path data"`
}

type Flatten struct {
	Tolerance float64 `short:"t" default:"0.01" desc:"Maximum distance between curve and polyline"`
	Path      string  `index:"0" desc:"SVG path data"`
}

func main() {
	root := argp.NewCmd(&Boolean{}, "Planar path boolean operations on SVG path data")
	root.AddCmd(&Flatten{}, "flatten", "Flatten a path into polylines")
	root.Parse()
	root.PrintHelp()
}

func (cmd *Boolean) Run() error {
	if cmd.Op == "" || cmd.A == "" || cmd.B == "" {
		return argp.ShowUsage
	}

	pa, err := shape.ParseSVGPath(cmd.A)
	if err != nil {
		return fmt.Errorf("first path: %v", err)
	}
	pb, err := shape.ParseSVGPath(cmd.B)
	if err != nil {
		return fmt.Errorf("second path: %v", err)
	}

	a, b := pa.Region(), pb.Region()
	var result kartifex.Region2
	switch cmd.Op {
	case "union":
		result = a.Union(b)
	case "intersection":
		result = a.Intersection(b)
	case "difference":
		result = a.Difference(b)
	case "xor":
		result = a.Xor(b)
	default:
		return fmt.Errorf("unknown operation %q", cmd.Op)
	}

	fmt.Println(shape.FromRegion(result).String())
	return nil
}

func (cmd *Flatten) Run() error {
	if cmd.Path == "" {
		return argp.ShowUsage
	}

	p, err := shape.ParseSVGPath(cmd.Path)
	if err != nil {
		return err
	}
	for _, c := range p.Contours() {
		pts := c.Flatten(cmd.Tolerance)
		for i, pt := range pts {
			if i == 0 {
				fmt.Printf("M%g %g", pt[0], pt[1])
			} else {
				fmt.Printf("L%g %g", pt[0], pt[1])
			}
		}
		if c.Closed {
			fmt.Print("z")
		}
		fmt.Println()
	}
	return nil
}
