package shape

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/chazu/keel/pkg/sym"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func vecNear(a, b sym.Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func TestCapsuleProperties(t *testing.T) {
	g := Resolved{
		"cylinder_radius": 0.5,
		"cylinder_length": 1.0,
		"endcap_length":   0.25,
		"thickness":       0.01,
	}
	c := Capsule{}
	if got := c.Extents(g); !vecNear(got, sym.Vec3{X: 1, Y: 1, Z: 1.5}) {
		t.Errorf("Extents = %v, want (1, 1, 1.5)", got)
	}
	if got := c.Displaced(g); !near(got, 1.0471975511965976) {
		t.Errorf("Displaced = %v", got)
	}
	if got := c.Volume(g); !near(got, 0.05152630830907745) {
		t.Errorf("Volume = %v", got)
	}
	if got := c.SurfaceArea(g); !near(got, 5.311675972804855) {
		t.Errorf("SurfaceArea = %v", got)
	}
	if got := c.CenterOfGravity(g); !vecNear(got, sym.Vec3{X: 0.5, Y: 0.5, Z: 0.75}) {
		t.Errorf("CenterOfGravity = %v, want (0.5, 0.5, 0.75)", got)
	}
}

func TestCylinderProperties(t *testing.T) {
	g := Resolved{"radius": 1, "height": 2}
	c := Cylinder{}
	if got := c.Volume(g); !near(got, 2*math.Pi) {
		t.Errorf("Volume = %v, want 2π", got)
	}
	if got := c.SurfaceArea(g); !near(got, 6*math.Pi) {
		t.Errorf("SurfaceArea = %v, want 6π", got)
	}
	if got := c.CenterOfGravity(g); !vecNear(got, sym.Vec3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("CenterOfGravity = %v, want (1, 1, 1)", got)
	}
}

func TestPipeVolume(t *testing.T) {
	g := Resolved{"radius": 1, "height": 2, "thickness": 0.5}
	p := Pipe{}
	if got := p.Volume(g); !near(got, 1.5*math.Pi) {
		t.Errorf("Volume = %v, want 1.5π", got)
	}
	if got := p.Displaced(g); !near(got, 2*math.Pi) {
		t.Errorf("Displaced = %v, want 2π", got)
	}
}

func TestBoxVolume(t *testing.T) {
	g := Resolved{"length": 1, "width": 1, "height": 1, "thickness": 0.1}
	b := Box{}
	if got := b.Volume(g); !near(got, 0.488) {
		t.Errorf("Volume = %v, want 0.488", got)
	}
	if got := b.Displaced(g); !near(got, 1) {
		t.Errorf("Displaced = %v, want 1", got)
	}
}

func TestSphereProperties(t *testing.T) {
	g := Resolved{"radius": 1}
	s := Sphere{}
	if got := s.Volume(g); !near(got, 4.0*math.Pi/3.0) {
		t.Errorf("Volume = %v, want 4π/3", got)
	}
	if got := s.SurfaceArea(g); !near(got, 4*math.Pi) {
		t.Errorf("SurfaceArea = %v, want 4π", got)
	}
	if got := s.Extents(g); !vecNear(got, sym.Vec3{X: 2, Y: 2, Z: 2}) {
		t.Errorf("Extents = %v, want (2, 2, 2)", got)
	}
}

func TestConeProperties(t *testing.T) {
	g := Resolved{"bottom_radius": 1, "top_radius": 0, "height": 3}
	c := Cone{}
	if got := c.Volume(g); !near(got, math.Pi) {
		t.Errorf("Volume = %v, want π", got)
	}
	if got := c.SurfaceArea(g); !near(got, math.Pi*(1+math.Sqrt(10))) {
		t.Errorf("SurfaceArea = %v, want π(1+√10)", got)
	}
	// Full cone centroid sits a quarter of the height above the base.
	if got := c.CenterOfGravity(g); !vecNear(got, sym.Vec3{X: 1, Y: 1, Z: 0.75}) {
		t.Errorf("CenterOfGravity = %v, want (1, 1, 0.75)", got)
	}
}

func TestCatalogLookupAndFields(t *testing.T) {
	c := DefaultCatalog()
	if _, ok := c.Lookup("generic.Capsule"); !ok {
		t.Fatal("generic.Capsule not registered")
	}
	if _, ok := c.Lookup("generic.Unobtainium"); ok {
		t.Fatal("unknown type should not resolve")
	}
	fields, ok := c.Fields("generic.Capsule")
	if !ok {
		t.Fatal("Fields(generic.Capsule) not found")
	}
	want := []string{"cylinder_length", "cylinder_radius", "endcap_length", "thickness"}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("Fields = %v, want sorted %v", fields, want)
	}
}

func TestCatalogRejectsDuplicateRegistration(t *testing.T) {
	c := NewCatalog()
	if err := c.Register("generic.Sphere", Sphere{}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := c.Register("generic.Sphere", Sphere{}); err == nil {
		t.Error("duplicate registration should fail")
	}
}

func TestResolve(t *testing.T) {
	fields := Sphere{}.Fields()

	g, err := Resolve(map[string]sym.Value{"radius": sym.Concrete(2)}, fields)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if g["radius"] != 2 {
		t.Errorf("radius = %v, want 2", g["radius"])
	}

	// A symbolic field blocks resolution and names its parameter.
	_, err = Resolve(map[string]sym.Value{"radius": sym.Param("hull_r")}, fields)
	var ue *sym.UnresolvedParameterError
	if !errors.As(err, &ue) {
		t.Fatalf("error type = %T, want *UnresolvedParameterError", err)
	}
	if !reflect.DeepEqual(ue.Symbols, []string{"hull_r"}) {
		t.Errorf("Symbols = %v, want [hull_r]", ue.Symbols)
	}

	// Missing and undeclared fields are structural errors.
	if _, err := Resolve(map[string]sym.Value{}, fields); err == nil {
		t.Error("missing field should fail")
	}
	if _, err := Resolve(map[string]sym.Value{
		"radius":   sym.Concrete(1),
		"diameter": sym.Concrete(2),
	}, fields); err == nil {
		t.Error("undeclared field should fail")
	}
}
