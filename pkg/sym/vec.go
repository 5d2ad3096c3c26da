package sym

import "fmt"

// Vec3 is a concrete 3D vector. Resolved placements, bounding extents, and
// centers of gravity are expressed as Vec3s once all parameters are bound.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns the componentwise sum v+o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the componentwise difference v-o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Hadamard returns the componentwise product. Converting normalized
// part-local coordinates to local offsets multiplies by bounding extents.
func (v Vec3) Hadamard(o Vec3) Vec3 {
	return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
