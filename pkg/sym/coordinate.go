package sym

// Coordinate is a named XYZ triple of symbolic values. It backs attachment
// points, connection ports, static origins, and static placements.
type Coordinate struct {
	Name    string
	X, Y, Z Value
}

// NewCoordinate returns a Coordinate with the given name and components.
func NewCoordinate(name string, x, y, z Value) *Coordinate {
	return &Coordinate{Name: name, X: x, Y: y, Z: z}
}

// IsResolved reports whether all three components are concrete.
func (c *Coordinate) IsResolved() bool {
	return c.X.IsResolved() && c.Y.IsResolved() && c.Z.IsResolved()
}

// Vec returns the concrete vector, or an UnresolvedParameterError listing
// every unbound component parameter.
func (c *Coordinate) Vec() (Vec3, error) {
	if !c.IsResolved() {
		e := &UnresolvedParameterError{}
		for _, v := range []Value{c.X, c.Y, c.Z} {
			if !v.IsResolved() {
				e.Symbols = append(e.Symbols, v.Symbol())
			}
		}
		return Vec3{}, e
	}
	x, _ := c.X.Float()
	y, _ := c.Y.Float()
	z, _ := c.Z.Float()
	return Vec3{x, y, z}, nil
}

// Bind substitutes the named parameter in place. Callers that need
// non-destructive binding operate on a Clone.
func (c *Coordinate) Bind(name string, val float64) {
	c.X = c.X.Bind(name, val)
	c.Y = c.Y.Bind(name, val)
	c.Z = c.Z.Bind(name, val)
}

// FreeParams adds every unbound component parameter to set.
func (c *Coordinate) FreeParams(set map[string]struct{}) {
	c.X.FreeParams(set)
	c.Y.FreeParams(set)
	c.Z.FreeParams(set)
}

// Clone returns an independent copy.
func (c *Coordinate) Clone() *Coordinate {
	cp := *c
	return &cp
}

// Equal reports structural equality of components. Names are identity, not
// geometry, and are compared too: two points with equal coordinates but
// different names are distinct.
func (c *Coordinate) Equal(o *Coordinate) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.Name == o.Name && c.X.Equal(o.X) && c.Y.Equal(o.Y) && c.Z.Equal(o.Z)
}
