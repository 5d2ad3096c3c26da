package shape

import (
	"math"

	"github.com/chazu/keel/pkg/kernel"
	"github.com/chazu/keel/pkg/sym"
)

// Cone is a truncated cone with its base at low Z. The bottom radius must
// be at least the top radius; a zero top radius gives a full cone.
type Cone struct{}

var _ Capability = Cone{}
var _ SolidModeler = Cone{}

func (Cone) Fields() []string {
	return []string{"bottom_radius", "top_radius", "height"}
}

func (Cone) Extents(g Resolved) sym.Vec3 {
	d := 2 * g["bottom_radius"]
	return sym.Vec3{X: d, Y: d, Z: g["height"]}
}

func (Cone) Displaced(g Resolved) float64 {
	br, tr, h := g["bottom_radius"], g["top_radius"], g["height"]
	return (math.Pi * h / 3.0) * (br*br + br*tr + tr*tr)
}

func (c Cone) Volume(g Resolved) float64 {
	return c.Displaced(g)
}

func (Cone) SurfaceArea(g Resolved) float64 {
	br, tr, h := g["bottom_radius"], g["top_radius"], g["height"]
	slant := math.Sqrt(h*h + (br-tr)*(br-tr))
	return math.Pi*(br*br+tr*tr) + math.Pi*(br+tr)*slant
}

// CenterOfGravity is the frustum centroid, measured from the base.
func (Cone) CenterOfGravity(g Resolved) sym.Vec3 {
	br, tr, h := g["bottom_radius"], g["top_radius"], g["height"]
	zbar := h * (br*br + 2.0*br*tr + 3.0*tr*tr) / (4.0 * (br*br + br*tr + tr*tr))
	return sym.Vec3{X: br, Y: br, Z: zbar}
}

func (Cone) Solid(k kernel.Kernel, g Resolved) kernel.Solid {
	return k.Cone(g["height"], g["bottom_radius"], g["top_radius"])
}
