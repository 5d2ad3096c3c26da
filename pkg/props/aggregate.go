// Package props aggregates per-part physical properties into whole-assembly
// totals: mass, material and displaced volume, wetted surface area, and
// mass-weighted center of gravity. Aggregation tolerates partial resolution
// by design: a part with symbolic inputs marks the affected totals
// unresolved instead of failing the whole computation.
package props

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/chazu/keel/pkg/graph"
	"github.com/chazu/keel/pkg/place"
	"github.com/chazu/keel/pkg/shape"
	"github.com/chazu/keel/pkg/sym"
)

// Scalar is a number that may still be blocked by free parameters. Value is
// meaningful only when Resolved is true; Missing lists the blocking
// parameter names, sorted.
type Scalar struct {
	Value    float64
	Resolved bool
	Missing  []string
}

// Point is a world-frame point under the same resolution rules as Scalar.
type Point struct {
	Value    sym.Vec3
	Resolved bool
	Missing  []string
}

// PartReport holds one part's computed properties.
type PartReport struct {
	Name            string
	Mass            Scalar
	Volume          Scalar // material volume
	Displaced       Scalar // displaced volume
	SurfaceArea     Scalar
	CenterOfGravity Point // world frame
}

// Report holds per-part properties plus assembly totals. Parts appear in
// assembly order. Displaced volume and surface area sum over exposed parts
// only; an unexposed part sits inside another and displaces nothing.
type Report struct {
	Parts           []PartReport
	Mass            Scalar
	Volume          Scalar
	Displaced       Scalar
	SurfaceArea     Scalar
	CenterOfGravity Point
}

func unresolvedScalar(missing []string) Scalar {
	return Scalar{Missing: missing}
}

// mergeMissing combines and sorts parameter name lists, dropping
// duplicates.
func mergeMissing(lists ...[]string) []string {
	set := make(map[string]struct{})
	for _, list := range lists {
		for _, name := range list {
			set[name] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	merged := make([]string, 0, len(set))
	for name := range set {
		merged = append(merged, name)
	}
	sort.Strings(merged)
	return merged
}

// Aggregate computes the property report for an assembly. placements may
// come from place.Resolve; parts without a placement entry get an
// unresolved center of gravity. Only structural problems (unknown part
// type, malformed geometry descriptor) are errors; symbolic inputs produce
// unresolved markers instead.
func Aggregate(a *graph.Assembly, cat *shape.Catalog, placements map[string]place.Placement) (*Report, error) {
	report := &Report{Parts: make([]PartReport, 0, len(a.Parts))}
	for _, p := range a.Parts {
		pr, err := partReport(p, cat, placements)
		if err != nil {
			return nil, err
		}
		report.Parts = append(report.Parts, pr)
	}
	totalize(report, a)
	return report, nil
}

func partReport(p *graph.Part, cat *shape.Catalog, placements map[string]place.Placement) (PartReport, error) {
	cap, ok := cat.Lookup(p.Type)
	if !ok {
		return PartReport{}, fmt.Errorf("props: part %q has unknown type %q", p.Name, p.Type)
	}
	pr := PartReport{Name: p.Name}

	var densityMissing []string
	if !p.Density.IsResolved() {
		densityMissing = []string{p.Density.Symbol()}
	}

	resolved, err := shape.Resolve(p.Geometry, cap.Fields())
	if err != nil {
		var ue *sym.UnresolvedParameterError
		if !errors.As(err, &ue) {
			return PartReport{}, fmt.Errorf("props: part %q: %w", p.Name, err)
		}
		geoMissing := ue.Symbols
		pr.Volume = unresolvedScalar(geoMissing)
		pr.Displaced = unresolvedScalar(geoMissing)
		pr.SurfaceArea = unresolvedScalar(geoMissing)
		pr.Mass = unresolvedScalar(mergeMissing(geoMissing, densityMissing))
		pr.CenterOfGravity = Point{Missing: geoMissing}
		return pr, nil
	}

	vol := cap.Volume(resolved)
	pr.Volume = Scalar{Value: vol, Resolved: true}
	pr.Displaced = Scalar{Value: cap.Displaced(resolved), Resolved: true}
	pr.SurfaceArea = Scalar{Value: cap.SurfaceArea(resolved), Resolved: true}

	if len(densityMissing) > 0 {
		pr.Mass = unresolvedScalar(densityMissing)
	} else {
		d, _ := p.Density.Float()
		pr.Mass = Scalar{Value: d * vol, Resolved: true}
	}

	if pl, placed := placements[p.Name]; placed {
		world := pl.LocalToWorld(cap.CenterOfGravity(resolved), cap.Extents(resolved))
		pr.CenterOfGravity = Point{Value: world, Resolved: true}
	}
	return pr, nil
}

// totalize fills the report's assembly totals. Contributions are summed in
// sorted part name order with gonum's compensated summation, so the result
// is independent of part insertion order.
func totalize(report *Report, a *graph.Assembly) {
	order := make([]int, len(report.Parts))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return report.Parts[order[i]].Name < report.Parts[order[j]].Name
	})

	var volumes, displaced, surfaces, masses []float64
	var momX, momY, momZ []float64
	volOK, dispOK, surfOK, massOK, cogOK := true, true, true, true, true
	var volMiss, dispMiss, surfMiss, massMiss, cogMiss [][]string

	for _, i := range order {
		pr := &report.Parts[i]
		exposed := a.Parts[i].IsExposed

		if pr.Volume.Resolved {
			volumes = append(volumes, pr.Volume.Value)
		} else {
			volOK = false
			volMiss = append(volMiss, pr.Volume.Missing)
		}
		if pr.Mass.Resolved {
			masses = append(masses, pr.Mass.Value)
		} else {
			massOK = false
			massMiss = append(massMiss, pr.Mass.Missing)
		}
		if exposed {
			if pr.Displaced.Resolved {
				displaced = append(displaced, pr.Displaced.Value)
			} else {
				dispOK = false
				dispMiss = append(dispMiss, pr.Displaced.Missing)
			}
			if pr.SurfaceArea.Resolved {
				surfaces = append(surfaces, pr.SurfaceArea.Value)
			} else {
				surfOK = false
				surfMiss = append(surfMiss, pr.SurfaceArea.Missing)
			}
		}
		if pr.Mass.Resolved && pr.CenterOfGravity.Resolved {
			momX = append(momX, pr.Mass.Value*pr.CenterOfGravity.Value.X)
			momY = append(momY, pr.Mass.Value*pr.CenterOfGravity.Value.Y)
			momZ = append(momZ, pr.Mass.Value*pr.CenterOfGravity.Value.Z)
		} else {
			cogOK = false
			cogMiss = append(cogMiss, pr.Mass.Missing, pr.CenterOfGravity.Missing)
		}
	}

	report.Volume = total(volumes, volOK, volMiss)
	report.Mass = total(masses, massOK, massMiss)
	report.Displaced = total(displaced, dispOK, dispMiss)
	report.SurfaceArea = total(surfaces, surfOK, surfMiss)

	if cogOK && massOK && len(masses) > 0 {
		mass := floats.Sum(masses)
		report.CenterOfGravity = Point{
			Value: sym.Vec3{
				X: floats.Sum(momX) / mass,
				Y: floats.Sum(momY) / mass,
				Z: floats.Sum(momZ) / mass,
			},
			Resolved: true,
		}
	} else {
		report.CenterOfGravity = Point{Missing: mergeMissing(append(cogMiss, massMiss...)...)}
	}
}

func total(values []float64, ok bool, missing [][]string) Scalar {
	if !ok {
		return unresolvedScalar(mergeMissing(missing...))
	}
	return Scalar{Value: floats.Sum(values), Resolved: true}
}
