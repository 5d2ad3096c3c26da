// Package kernel defines the abstract geometry kernel interface.
// Implementations (sdfx today) provide solid modeling and boolean
// operations behind this interface. The kernel abstraction allows swapping
// backends without changing the rest of the system.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface. Every primitive is
// returned with its bounding box minimum corner at the origin, so a part's
// normalized local frame maps directly onto its solid.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid
	Sphere(radius float64) Solid
	Cone(height, bottomRadius, topRadius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, roll, pitch, yaw float64) Solid // degrees, intrinsic yaw-pitch-roll
	Scale(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
