package shape

import (
	"github.com/chazu/keel/pkg/kernel"
	"github.com/chazu/keel/pkg/sym"
)

// Cuboid is a solid rectangular block.
type Cuboid struct{}

var _ Capability = Cuboid{}
var _ SolidModeler = Cuboid{}

func (Cuboid) Fields() []string {
	return []string{"length", "width", "height"}
}

func (Cuboid) Extents(g Resolved) sym.Vec3 {
	return sym.Vec3{X: g["length"], Y: g["width"], Z: g["height"]}
}

func (Cuboid) Displaced(g Resolved) float64 {
	return g["length"] * g["width"] * g["height"]
}

func (c Cuboid) Volume(g Resolved) float64 {
	return c.Displaced(g)
}

func (Cuboid) SurfaceArea(g Resolved) float64 {
	l, w, h := g["length"], g["width"], g["height"]
	return 2.0 * (l*w + l*h + w*h)
}

func (Cuboid) CenterOfGravity(g Resolved) sym.Vec3 {
	return sym.Vec3{X: 0.5 * g["length"], Y: 0.5 * g["width"], Z: 0.5 * g["height"]}
}

func (Cuboid) Solid(k kernel.Kernel, g Resolved) kernel.Solid {
	return k.Box(g["length"], g["width"], g["height"])
}

// Box is a hollow rectangular shell with uniform wall thickness.
type Box struct{}

var _ Capability = Box{}
var _ SolidModeler = Box{}

func (Box) Fields() []string {
	return []string{"length", "width", "height", "thickness"}
}

func (Box) Extents(g Resolved) sym.Vec3 {
	return sym.Vec3{X: g["length"], Y: g["width"], Z: g["height"]}
}

func (Box) Displaced(g Resolved) float64 {
	return g["length"] * g["width"] * g["height"]
}

func (b Box) Volume(g Resolved) float64 {
	l, w, h, t := g["length"], g["width"], g["height"], g["thickness"]
	return b.Displaced(g) - (l-2*t)*(w-2*t)*(h-2*t)
}

func (Box) SurfaceArea(g Resolved) float64 {
	l, w, h := g["length"], g["width"], g["height"]
	return 2.0 * (l*w + l*h + w*h)
}

func (Box) CenterOfGravity(g Resolved) sym.Vec3 {
	return sym.Vec3{X: 0.5 * g["length"], Y: 0.5 * g["width"], Z: 0.5 * g["height"]}
}

func (Box) Solid(k kernel.Kernel, g Resolved) kernel.Solid {
	l, w, h, t := g["length"], g["width"], g["height"], g["thickness"]
	outer := k.Box(l, w, h)
	inner := k.Translate(k.Box(l-2*t, w-2*t, h-2*t), t, t, t)
	return k.Difference(outer, inner)
}
