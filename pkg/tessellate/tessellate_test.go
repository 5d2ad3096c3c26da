package tessellate

import (
	"testing"

	"github.com/chazu/keel/pkg/graph"
	"github.com/chazu/keel/pkg/kernel"
	"github.com/chazu/keel/pkg/place"
	"github.com/chazu/keel/pkg/shape"
	"github.com/chazu/keel/pkg/sym"
)

// fakeSolid tracks its bounding box through transforms so placement can be
// checked without a real kernel.
type fakeSolid struct {
	min, max [3]float64
}

func (s *fakeSolid) BoundingBox() (min, max [3]float64) {
	return s.min, s.max
}

type fakeKernel struct{}

func box(x, y, z float64) kernel.Solid {
	return &fakeSolid{max: [3]float64{x, y, z}}
}

func (k *fakeKernel) Box(x, y, z float64) kernel.Solid         { return box(x, y, z) }
func (k *fakeKernel) Cylinder(h, r float64) kernel.Solid       { return box(2*r, 2*r, h) }
func (k *fakeKernel) Sphere(r float64) kernel.Solid            { return box(2*r, 2*r, 2*r) }
func (k *fakeKernel) Cone(h, br, tr float64) kernel.Solid      { return box(2*br, 2*br, h) }
func (k *fakeKernel) Union(a, b kernel.Solid) kernel.Solid     { return mergeBB(a, b) }
func (k *fakeKernel) Difference(a, _ kernel.Solid) kernel.Solid {
	return a
}
func (k *fakeKernel) Intersection(a, _ kernel.Solid) kernel.Solid { return a }

func mergeBB(a, b kernel.Solid) kernel.Solid {
	amin, amax := a.BoundingBox()
	bmin, bmax := b.BoundingBox()
	out := &fakeSolid{min: amin, max: amax}
	for i := 0; i < 3; i++ {
		if bmin[i] < out.min[i] {
			out.min[i] = bmin[i]
		}
		if bmax[i] > out.max[i] {
			out.max[i] = bmax[i]
		}
	}
	return out
}

func (k *fakeKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	min, max := s.BoundingBox()
	d := [3]float64{x, y, z}
	for i := 0; i < 3; i++ {
		min[i] += d[i]
		max[i] += d[i]
	}
	return &fakeSolid{min: min, max: max}
}

func (k *fakeKernel) Rotate(s kernel.Solid, _, _, _ float64) kernel.Solid { return s }
func (k *fakeKernel) Scale(s kernel.Solid, x, y, z float64) kernel.Solid {
	min, max := s.BoundingBox()
	f := [3]float64{x, y, z}
	for i := 0; i < 3; i++ {
		min[i] *= f[i]
		max[i] *= f[i]
	}
	return &fakeSolid{min: min, max: max}
}

func (k *fakeKernel) ToMesh(_ kernel.Solid) (*kernel.Mesh, error) {
	return &kernel.Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2},
	}, nil
}

var _ kernel.Kernel = (*fakeKernel)(nil)

func pairAssembly(t *testing.T) *graph.Assembly {
	t.Helper()
	a := graph.NewAssembly("pair")
	base := graph.NewPart("base", "generic.Cuboid")
	base.SetGeometry("length", sym.Concrete(2))
	base.SetGeometry("width", sym.Concrete(2))
	base.SetGeometry("height", sym.Concrete(1))
	base.SetOrigin(sym.Concrete(0), sym.Concrete(0), sym.Concrete(0))
	base.SetPlacement(sym.Concrete(0), sym.Concrete(0), sym.Concrete(0))
	if err := base.AddAttachmentPoint("Top", sym.Concrete(0.5), sym.Concrete(0.5), sym.Concrete(1)); err != nil {
		t.Fatalf("AddAttachmentPoint: %v", err)
	}

	mast := graph.NewPart("mast", "generic.Cylinder")
	mast.SetGeometry("radius", sym.Concrete(0.25))
	mast.SetGeometry("height", sym.Concrete(3))
	if err := mast.AddAttachmentPoint("Bottom", sym.Concrete(0.5), sym.Concrete(0.5), sym.Concrete(0)); err != nil {
		t.Fatalf("AddAttachmentPoint: %v", err)
	}

	for _, p := range []*graph.Part{base, mast} {
		if err := a.AddPart(p); err != nil {
			t.Fatalf("AddPart: %v", err)
		}
	}
	if err := a.Attach("base", "Top", "mast", "Bottom"); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return a
}

func TestTessellateOneMeshPerExposedPart(t *testing.T) {
	a := pairAssembly(t)
	cat := shape.DefaultCatalog()
	placements, err := place.Resolve(a, cat)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	meshes, err := Tessellate(a, cat, placements, &fakeKernel{})
	if err != nil {
		t.Fatalf("Tessellate: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("mesh count = %d, want 2", len(meshes))
	}
	names := map[string]bool{}
	for _, m := range meshes {
		names[m.PartName] = true
	}
	if !names["base"] || !names["mast"] {
		t.Errorf("mesh names = %v, want base and mast", names)
	}

	a.Part("mast").IsExposed = false
	meshes, err = Tessellate(a, cat, placements, &fakeKernel{})
	if err != nil {
		t.Fatalf("Tessellate: %v", err)
	}
	if len(meshes) != 1 || meshes[0].PartName != "base" {
		t.Errorf("unexposed part should be skipped, got %d meshes", len(meshes))
	}
}

func TestPlaceSolidPositionsBoundingBox(t *testing.T) {
	a := pairAssembly(t)
	cat := shape.DefaultCatalog()
	placements, err := place.Resolve(a, cat)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// The mast's Bottom center pins to the base top center (1, 1, 1); its
	// local solid spans (0.5, 0.5, 3), so the world box is centered there.
	solid, err := PlaceSolid(a.Part("mast"), cat, placements, &fakeKernel{})
	if err != nil {
		t.Fatalf("PlaceSolid: %v", err)
	}
	min, max := solid.BoundingBox()
	if min != [3]float64{0.75, 0.75, 1} {
		t.Errorf("min = %v, want [0.75 0.75 1]", min)
	}
	if max != [3]float64{1.25, 1.25, 4} {
		t.Errorf("max = %v, want [1.25 1.25 4]", max)
	}
}

func TestMergedCombinesMeshes(t *testing.T) {
	a := pairAssembly(t)
	cat := shape.DefaultCatalog()
	placements, err := place.Resolve(a, cat)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	merged, err := Merged(a, cat, placements, &fakeKernel{})
	if err != nil {
		t.Fatalf("Merged: %v", err)
	}
	if merged.TriangleCount() != 2 {
		t.Errorf("TriangleCount = %d, want 2", merged.TriangleCount())
	}
	if merged.PartName != "pair" {
		t.Errorf("PartName = %q, want pair", merged.PartName)
	}
}

func TestTessellateUnresolvedGeometryFails(t *testing.T) {
	a := pairAssembly(t)
	cat := shape.DefaultCatalog()
	placements, err := place.Resolve(a, cat)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	a.Part("mast").SetGeometry("radius", sym.Param("mast_radius"))
	if _, err := Tessellate(a, cat, placements, &fakeKernel{}); err == nil {
		t.Error("Tessellate should fail on unresolved geometry")
	}
}
