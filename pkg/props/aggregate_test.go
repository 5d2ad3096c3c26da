package props

import (
	"math"
	"testing"

	"github.com/chazu/keel/pkg/graph"
	"github.com/chazu/keel/pkg/place"
	"github.com/chazu/keel/pkg/shape"
	"github.com/chazu/keel/pkg/sym"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func capsule(t *testing.T, name string, radius, length, endcap float64) *graph.Part {
	t.Helper()
	p := graph.NewPart(name, "generic.Capsule")
	p.SetGeometry("cylinder_radius", sym.Concrete(radius))
	p.SetGeometry("cylinder_length", sym.Concrete(length))
	p.SetGeometry("endcap_length", sym.Concrete(endcap))
	p.SetGeometry("thickness", sym.Concrete(0.01))
	p.Density = sym.Concrete(1000)
	for _, pt := range []struct {
		name    string
		x, y, z float64
	}{
		{"FrontCenter", 0.5, 0.5, 0},
		{"RearCenter", 0.5, 0.5, 1},
		{"MiddleTop", 0.5, 0.5, 1},
		{"MiddleBottom", 1.0, 0.5, 0.5},
	} {
		if err := p.AddAttachmentPoint(pt.name, sym.Concrete(pt.x), sym.Concrete(pt.y), sym.Concrete(pt.z)); err != nil {
			t.Fatalf("AddAttachmentPoint: %v", err)
		}
	}
	return p
}

func capsuleChain(t *testing.T) *graph.Assembly {
	t.Helper()
	a := graph.NewAssembly("test_assembly")
	c1 := capsule(t, "test_capsule1", 0.5, 1.0, 0.25)
	c1.SetOrigin(sym.Concrete(0), sym.Concrete(0), sym.Concrete(0))
	c1.SetPlacement(sym.Concrete(0), sym.Concrete(0), sym.Concrete(0))
	c2 := capsule(t, "test_capsule2", 0.6, 1.0, 0.3)
	c3 := capsule(t, "test_capsule3", 0.4, 0.8, 0.2)
	for _, p := range []*graph.Part{c1, c2, c3} {
		if err := a.AddPart(p); err != nil {
			t.Fatalf("AddPart: %v", err)
		}
	}
	if err := a.Attach("test_capsule1", "RearCenter", "test_capsule2", "FrontCenter"); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := a.Attach("test_capsule2", "MiddleBottom", "test_capsule3", "MiddleTop"); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return a
}

func resolvedChain(t *testing.T) (*graph.Assembly, *shape.Catalog, map[string]place.Placement) {
	t.Helper()
	a := capsuleChain(t)
	cat := shape.DefaultCatalog()
	placements, err := place.Resolve(a, cat)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return a, cat, placements
}

func TestAggregateMassIsSumOfParts(t *testing.T) {
	a, cat, placements := resolvedChain(t)
	report, err := Aggregate(a, cat, placements)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(report.Parts) != 3 {
		t.Fatalf("reported %d parts, want 3", len(report.Parts))
	}

	var sum float64
	for _, pr := range report.Parts {
		if !pr.Mass.Resolved {
			t.Fatalf("part %s mass unresolved: missing %v", pr.Name, pr.Mass.Missing)
		}
		sum += pr.Mass.Value
	}
	if !report.Mass.Resolved {
		t.Fatalf("total mass unresolved: missing %v", report.Mass.Missing)
	}
	if !near(report.Mass.Value, sum) {
		t.Errorf("total mass %v != part sum %v", report.Mass.Value, sum)
	}
	if !near(report.Mass.Value, 151.29072461647496) {
		t.Errorf("total mass = %v, want 151.29072461647496", report.Mass.Value)
	}
}

func TestAggregateCenterOfGravity(t *testing.T) {
	a, cat, placements := resolvedChain(t)
	report, err := Aggregate(a, cat, placements)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if !report.CenterOfGravity.Resolved {
		t.Fatalf("total cog unresolved: missing %v", report.CenterOfGravity.Missing)
	}
	got := report.CenterOfGravity.Value
	want := sym.Vec3{X: 0.6302563818594609, Y: 0.5, Z: 1.6418475552356164}
	if !near(got.X, want.X) || !near(got.Y, want.Y) || !near(got.Z, want.Z) {
		t.Errorf("cog = %v, want %v", got, want)
	}
}

func TestAggregateUnresolvedGeometryMarksPartialTotals(t *testing.T) {
	a, cat, placements := resolvedChain(t)
	a.Part("test_capsule3").SetGeometry("thickness", sym.Param("shell_thickness"))

	report, err := Aggregate(a, cat, placements)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	// The symbolic part is marked, the others still resolve.
	for _, pr := range report.Parts {
		if pr.Name == "test_capsule3" {
			if pr.Mass.Resolved {
				t.Error("capsule3 mass should be unresolved")
			}
			if len(pr.Mass.Missing) != 1 || pr.Mass.Missing[0] != "shell_thickness" {
				t.Errorf("capsule3 Missing = %v, want [shell_thickness]", pr.Mass.Missing)
			}
		} else if !pr.Mass.Resolved {
			t.Errorf("part %s mass should still resolve", pr.Name)
		}
	}

	// Totals touched by the symbolic part report unresolved, never a
	// silently wrong number.
	if report.Mass.Resolved {
		t.Error("total mass should be unresolved")
	}
	if report.Volume.Resolved {
		t.Error("total volume should be unresolved")
	}
	if report.CenterOfGravity.Resolved {
		t.Error("total cog should be unresolved")
	}

	if report.Displaced.Resolved {
		t.Error("total displaced volume should be unresolved")
	}
}

func TestAggregateSymbolicDensity(t *testing.T) {
	a, cat, placements := resolvedChain(t)
	a.Part("test_capsule2").Density = sym.Param("foam_density")

	report, err := Aggregate(a, cat, placements)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if report.Mass.Resolved {
		t.Error("total mass should be unresolved")
	}
	if len(report.Mass.Missing) != 1 || report.Mass.Missing[0] != "foam_density" {
		t.Errorf("Missing = %v, want [foam_density]", report.Mass.Missing)
	}
	// Volume does not involve density.
	if !report.Volume.Resolved {
		t.Error("total volume should still resolve")
	}
}

func TestAggregateUnexposedPartsExcludedFromDisplacement(t *testing.T) {
	a, cat, placements := resolvedChain(t)
	full, err := Aggregate(a, cat, placements)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	a.Part("test_capsule3").IsExposed = false
	partial, err := Aggregate(a, cat, placements)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	// Mass keeps every part; displacement drops the internal one.
	if !near(partial.Mass.Value, full.Mass.Value) {
		t.Errorf("mass changed with exposure: %v != %v", partial.Mass.Value, full.Mass.Value)
	}
	if partial.Displaced.Value >= full.Displaced.Value {
		t.Errorf("displaced %v should shrink below %v", partial.Displaced.Value, full.Displaced.Value)
	}
	var c3 float64
	for _, pr := range full.Parts {
		if pr.Name == "test_capsule3" {
			c3 = pr.Displaced.Value
		}
	}
	if !near(partial.Displaced.Value, full.Displaced.Value-c3) {
		t.Errorf("displaced = %v, want %v", partial.Displaced.Value, full.Displaced.Value-c3)
	}
}

func TestAggregateWithoutPlacements(t *testing.T) {
	a := capsuleChain(t)
	cat := shape.DefaultCatalog()
	report, err := Aggregate(a, cat, nil)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	// Scalars need no transforms; the center of gravity does.
	if !report.Mass.Resolved {
		t.Error("mass should resolve without placements")
	}
	if report.CenterOfGravity.Resolved {
		t.Error("cog should be unresolved without placements")
	}
}
