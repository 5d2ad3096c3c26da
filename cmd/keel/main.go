// Command keel loads an assembly from a JSON document or evaluates a Keel
// script, binds free parameters, and reports placements, physical
// properties, and tessellated geometry.
//
// Usage:
//
//	keel -in sub.json -bind hull_length=2.5,depth=10 -props
//	keel -script sub.lisp -stl sub.stl
//	keel -in sub.json -bind hull_length=2.5 -out bound.json
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/chazu/keel/pkg/engine"
	"github.com/chazu/keel/pkg/graph"
	"github.com/chazu/keel/pkg/kernel/sdfx"
	"github.com/chazu/keel/pkg/place"
	"github.com/chazu/keel/pkg/props"
	"github.com/chazu/keel/pkg/shape"
	"github.com/chazu/keel/pkg/tessellate"
)

func main() {
	var (
		inPath     = flag.String("in", "", "assembly JSON document to load")
		scriptPath = flag.String("script", "", "Keel script to evaluate")
		bindSpec   = flag.String("bind", "", "parameter bindings, e.g. hull_length=2.5,depth=10")
		strict     = flag.Bool("strict", false, "reject bindings for unknown parameters")
		outPath    = flag.String("out", "", "write the bound assembly document here")
		stlPath    = flag.String("stl", "", "tessellate and write a binary STL here")
		showProps  = flag.Bool("props", false, "print the physical property report")
		checkOnly  = flag.Bool("check", false, "validate the assembly and exit")
	)
	flag.Parse()
	log.SetFlags(0)

	if err := run(*inPath, *scriptPath, *bindSpec, *strict, *outPath, *stlPath, *showProps, *checkOnly); err != nil {
		log.Fatalf("keel: %v", err)
	}
}

func run(inPath, scriptPath, bindSpec string, strict bool, outPath, stlPath string, showProps, checkOnly bool) error {
	a, err := loadAssembly(inPath, scriptPath)
	if err != nil {
		return err
	}

	cat := shape.DefaultCatalog()
	findings := graph.Validate(a, cat)
	fatal := false
	for _, f := range findings {
		log.Printf("%s", f.Error())
		if f.Severity == graph.SeverityError {
			fatal = true
		}
	}
	if fatal {
		return fmt.Errorf("assembly %q failed validation", a.Name)
	}
	if checkOnly {
		return nil
	}

	if bindSpec != "" {
		params, err := parseBindings(bindSpec)
		if err != nil {
			return err
		}
		if a, err = graph.Bind(a, params, strict); err != nil {
			return err
		}
	}

	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := graph.Save(f, a); err != nil {
			return err
		}
	}

	if !showProps && stlPath == "" {
		if free := a.FreeParameters(); len(free) > 0 {
			log.Printf("free parameters: %s", strings.Join(free, ", "))
		}
		return nil
	}

	placements, err := place.Resolve(a, cat)
	if err != nil {
		return err
	}

	if showProps {
		report, err := props.Aggregate(a, cat, placements)
		if err != nil {
			return err
		}
		printReport(report)
	}

	if stlPath != "" {
		mesh, err := tessellate.Merged(a, cat, placements, sdfx.New())
		if err != nil {
			return err
		}
		f, err := os.Create(stlPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := mesh.WriteSTL(f); err != nil {
			return err
		}
		log.Printf("wrote %d triangles to %s", mesh.TriangleCount(), stlPath)
	}
	return nil
}

func loadAssembly(inPath, scriptPath string) (*graph.Assembly, error) {
	switch {
	case inPath != "" && scriptPath != "":
		return nil, fmt.Errorf("-in and -script are mutually exclusive")
	case inPath != "":
		f, err := os.Open(inPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return graph.Load(f)
	case scriptPath != "":
		src, err := os.ReadFile(scriptPath)
		if err != nil {
			return nil, err
		}
		a, evalErrs, err := engine.NewEngine().Evaluate(string(src))
		if err != nil {
			return nil, err
		}
		if len(evalErrs) > 0 {
			for _, e := range evalErrs {
				log.Printf("%s: %s", scriptPath, e.Error())
			}
			return nil, fmt.Errorf("script evaluation failed")
		}
		return a, nil
	}
	return nil, fmt.Errorf("one of -in or -script is required")
}

// parseBindings parses "name=value,name=value" into a binding map.
func parseBindings(spec string) (map[string]float64, error) {
	params := make(map[string]float64)
	for _, pair := range strings.Split(spec, ",") {
		name, raw, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("malformed binding %q, expected name=value", pair)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", name, err)
		}
		params[name] = v
	}
	return params, nil
}

func printReport(r *props.Report) {
	fmt.Printf("%-24s %14s %14s %14s %14s\n", "part", "mass", "volume", "displaced", "surface")
	for _, pr := range r.Parts {
		fmt.Printf("%-24s %14s %14s %14s %14s\n",
			pr.Name,
			scalar(pr.Mass), scalar(pr.Volume), scalar(pr.Displaced), scalar(pr.SurfaceArea))
	}
	fmt.Printf("%-24s %14s %14s %14s %14s\n", "total",
		scalar(r.Mass), scalar(r.Volume), scalar(r.Displaced), scalar(r.SurfaceArea))
	if r.CenterOfGravity.Resolved {
		cg := r.CenterOfGravity.Value
		fmt.Printf("center of gravity: (%.6g, %.6g, %.6g)\n", cg.X, cg.Y, cg.Z)
	} else {
		fmt.Printf("center of gravity: unresolved (missing %s)\n",
			strings.Join(r.CenterOfGravity.Missing, ", "))
	}
}

func scalar(s props.Scalar) string {
	if !s.Resolved {
		return "?(" + strings.Join(s.Missing, ",") + ")"
	}
	return strconv.FormatFloat(s.Value, 'g', 8, 64)
}
