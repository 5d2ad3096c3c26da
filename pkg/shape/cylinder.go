package shape

import (
	"math"

	"github.com/chazu/keel/pkg/kernel"
	"github.com/chazu/keel/pkg/sym"
)

// Cylinder is a solid cylinder, axis along Z.
type Cylinder struct{}

var _ Capability = Cylinder{}
var _ SolidModeler = Cylinder{}

func (Cylinder) Fields() []string {
	return []string{"radius", "height"}
}

func (Cylinder) Extents(g Resolved) sym.Vec3 {
	r := g["radius"]
	return sym.Vec3{X: 2 * r, Y: 2 * r, Z: g["height"]}
}

func (Cylinder) Displaced(g Resolved) float64 {
	r := g["radius"]
	return math.Pi * r * r * g["height"]
}

func (c Cylinder) Volume(g Resolved) float64 {
	return c.Displaced(g)
}

func (Cylinder) SurfaceArea(g Resolved) float64 {
	r, h := g["radius"], g["height"]
	return 2.0*math.Pi*r*h + 2.0*math.Pi*r*r
}

func (Cylinder) CenterOfGravity(g Resolved) sym.Vec3 {
	r := g["radius"]
	return sym.Vec3{X: r, Y: r, Z: 0.5 * g["height"]}
}

func (Cylinder) Solid(k kernel.Kernel, g Resolved) kernel.Solid {
	return k.Cylinder(g["height"], g["radius"])
}

// Pipe is an open-ended hollow cylinder, axis along Z.
type Pipe struct{}

var _ Capability = Pipe{}
var _ SolidModeler = Pipe{}

func (Pipe) Fields() []string {
	return []string{"radius", "height", "thickness"}
}

func (Pipe) Extents(g Resolved) sym.Vec3 {
	r := g["radius"]
	return sym.Vec3{X: 2 * r, Y: 2 * r, Z: g["height"]}
}

func (Pipe) Displaced(g Resolved) float64 {
	r := g["radius"]
	return math.Pi * r * r * g["height"]
}

func (p Pipe) Volume(g Resolved) float64 {
	ri := g["radius"] - g["thickness"]
	return p.Displaced(g) - math.Pi*ri*ri*g["height"]
}

func (Pipe) SurfaceArea(g Resolved) float64 {
	return 2.0 * math.Pi * g["radius"] * g["height"]
}

func (Pipe) CenterOfGravity(g Resolved) sym.Vec3 {
	r := g["radius"]
	return sym.Vec3{X: r, Y: r, Z: 0.5 * g["height"]}
}

func (Pipe) Solid(k kernel.Kernel, g Resolved) kernel.Solid {
	r, h, t := g["radius"], g["height"], g["thickness"]
	outer := k.Cylinder(h, r)
	inner := k.Translate(k.Cylinder(h, r-t), t, t, 0)
	return k.Difference(outer, inner)
}
