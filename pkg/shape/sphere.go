package shape

import (
	"math"

	"github.com/chazu/keel/pkg/kernel"
	"github.com/chazu/keel/pkg/sym"
)

// Sphere is a solid sphere.
type Sphere struct{}

var _ Capability = Sphere{}
var _ SolidModeler = Sphere{}

func (Sphere) Fields() []string {
	return []string{"radius"}
}

func (Sphere) Extents(g Resolved) sym.Vec3 {
	d := 2 * g["radius"]
	return sym.Vec3{X: d, Y: d, Z: d}
}

func (Sphere) Displaced(g Resolved) float64 {
	r := g["radius"]
	return (4.0 * math.Pi / 3.0) * r * r * r
}

func (s Sphere) Volume(g Resolved) float64 {
	return s.Displaced(g)
}

func (Sphere) SurfaceArea(g Resolved) float64 {
	r := g["radius"]
	return 4.0 * math.Pi * r * r
}

func (Sphere) CenterOfGravity(g Resolved) sym.Vec3 {
	r := g["radius"]
	return sym.Vec3{X: r, Y: r, Z: r}
}

func (Sphere) Solid(k kernel.Kernel, g Resolved) kernel.Solid {
	return k.Sphere(g["radius"])
}
