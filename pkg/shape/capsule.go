package shape

import (
	"math"

	"github.com/chazu/keel/pkg/kernel"
	"github.com/chazu/keel/pkg/sym"
)

// Capsule is a hollow cylinder with ellipsoidal endcaps, axis along Z.
// Fields: cylinder_radius, cylinder_length, endcap_length (one endcap, tip
// to cylinder), thickness (shell).
type Capsule struct{}

var _ Capability = Capsule{}
var _ SolidModeler = Capsule{}

func (Capsule) Fields() []string {
	return []string{"cylinder_radius", "cylinder_length", "endcap_length", "thickness"}
}

func (Capsule) Extents(g Resolved) sym.Vec3 {
	r := g["cylinder_radius"]
	return sym.Vec3{
		X: 2 * r,
		Y: 2 * r,
		Z: g["cylinder_length"] + 2*g["endcap_length"],
	}
}

func (Capsule) Displaced(g Resolved) float64 {
	r, l, e := g["cylinder_radius"], g["cylinder_length"], g["endcap_length"]
	return math.Pi*r*r*l + (4.0*math.Pi/3.0)*e*r*r
}

func (c Capsule) Volume(g Resolved) float64 {
	r, l, e, t := g["cylinder_radius"], g["cylinder_length"], g["endcap_length"], g["thickness"]
	ri := r - t
	inner := math.Pi*ri*ri*l + (4.0*math.Pi/3.0)*(e-t)*ri*ri
	return c.Displaced(g) - inner
}

// SurfaceArea uses the Thomsen approximation for the ellipsoidal endcaps.
func (Capsule) SurfaceArea(g Resolved) float64 {
	r, l, e := g["cylinder_radius"], g["cylinder_length"], g["endcap_length"]
	caps := 4.0 * math.Pi * math.Pow((2.0*math.Pow(e*r, 1.6)+math.Pow(r, 3.2))/3.0, 1.0/1.6)
	return 2.0*math.Pi*r*l + caps
}

func (Capsule) CenterOfGravity(g Resolved) sym.Vec3 {
	r := g["cylinder_radius"]
	return sym.Vec3{X: r, Y: r, Z: g["endcap_length"] + 0.5*g["cylinder_length"]}
}

// Solid builds the capsule as a cylinder plus two Z-scaled spheres. The
// shell interior is not modeled; displaced geometry is what placement and
// rendering need.
func (Capsule) Solid(k kernel.Kernel, g Resolved) kernel.Solid {
	r, l, e := g["cylinder_radius"], g["cylinder_length"], g["endcap_length"]
	body := k.Translate(k.Cylinder(l, r), 0, 0, e)
	lowCap := k.Scale(k.Sphere(r), 1, 1, e/r)
	highCap := k.Translate(lowCap, 0, 0, l)
	return k.Union(k.Union(lowCap, highCap), body)
}
