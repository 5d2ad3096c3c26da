package graph

import (
	"fmt"

	"github.com/chazu/keel/pkg/sym"
)

// Part is a single node of an assembly: a typed geometry descriptor plus the
// placement-relevant metadata needed to join it to its neighbors.
type Part struct {
	Name     string
	Type     string // dotted category.kind identifier, resolved by the shape catalog
	Geometry map[string]sym.Value
	Density  sym.Value

	// StaticOrigin and StaticPlacement are nil unless the part is a
	// candidate anchor. Origin is a normalized local point, placement the
	// world position that point is pinned to.
	StaticOrigin    *sym.Coordinate
	StaticPlacement *sym.Coordinate

	Orientation *sym.Rotation

	AttachmentPoints []*sym.Coordinate
	ConnectionPorts  []*sym.Coordinate

	IsExposed bool
}

// NewPart returns a Part with no geometry fields set, zero orientation, and
// exposure on.
func NewPart(name, partType string) *Part {
	return &Part{
		Name:        name,
		Type:        partType,
		Geometry:    make(map[string]sym.Value),
		Density:     sym.Concrete(0),
		Orientation: sym.NewRotation(name + "_orientation"),
		IsExposed:   true,
	}
}

// SetGeometry assigns one geometry field.
func (p *Part) SetGeometry(field string, v sym.Value) *Part {
	p.Geometry[field] = v
	return p
}

// SetOrigin pins the part's normalized local origin point.
func (p *Part) SetOrigin(x, y, z sym.Value) *Part {
	p.StaticOrigin = sym.NewCoordinate(p.Name+"_origin", x, y, z)
	return p
}

// SetPlacement pins the world position of the part's origin point.
func (p *Part) SetPlacement(x, y, z sym.Value) *Part {
	p.StaticPlacement = sym.NewCoordinate(p.Name+"_placement", x, y, z)
	return p
}

// SetOrientation assigns the part's roll, pitch, and yaw in degrees.
func (p *Part) SetOrientation(roll, pitch, yaw sym.Value) *Part {
	p.Orientation = &sym.Rotation{
		Name: p.Name + "_orientation",
		Roll: roll, Pitch: pitch, Yaw: yaw,
	}
	return p
}

// AddAttachmentPoint registers a named attachment point in normalized local
// coordinates. The name must be unique among the part's attachment points.
func (p *Part) AddAttachmentPoint(name string, x, y, z sym.Value) error {
	if p.AttachmentPoint(name) != nil {
		return fmt.Errorf("part %q: duplicate attachment point %q", p.Name, name)
	}
	p.AttachmentPoints = append(p.AttachmentPoints, sym.NewCoordinate(name, x, y, z))
	return nil
}

// AddConnectionPort registers a named connection port. Ports carry no
// placement semantics; the coordinates are advisory.
func (p *Part) AddConnectionPort(name string, x, y, z sym.Value) error {
	if p.ConnectionPort(name) != nil {
		return fmt.Errorf("part %q: duplicate connection port %q", p.Name, name)
	}
	p.ConnectionPorts = append(p.ConnectionPorts, sym.NewCoordinate(name, x, y, z))
	return nil
}

// AttachmentPoint returns the named attachment point, or nil.
func (p *Part) AttachmentPoint(name string) *sym.Coordinate {
	for _, pt := range p.AttachmentPoints {
		if pt.Name == name {
			return pt
		}
	}
	return nil
}

// ConnectionPort returns the named connection port, or nil.
func (p *Part) ConnectionPort(name string) *sym.Coordinate {
	for _, pt := range p.ConnectionPorts {
		if pt.Name == name {
			return pt
		}
	}
	return nil
}

// HasAnchor reports whether the part carries a fully-resolved static origin
// and static placement. Only such parts qualify as the placement root; a
// part whose anchor fields are present but still symbolic does not.
func (p *Part) HasAnchor() bool {
	return p.StaticOrigin != nil && p.StaticOrigin.IsResolved() &&
		p.StaticPlacement != nil && p.StaticPlacement.IsResolved()
}

// Bind substitutes the named parameter across every symbolic field of the
// part. Mutates in place; callers needing the original intact bind a Clone.
func (p *Part) Bind(name string, val float64) {
	for k, v := range p.Geometry {
		p.Geometry[k] = v.Bind(name, val)
	}
	p.Density = p.Density.Bind(name, val)
	if p.StaticOrigin != nil {
		p.StaticOrigin.Bind(name, val)
	}
	if p.StaticPlacement != nil {
		p.StaticPlacement.Bind(name, val)
	}
	if p.Orientation != nil {
		p.Orientation.Bind(name, val)
	}
	for _, pt := range p.AttachmentPoints {
		pt.Bind(name, val)
	}
	for _, pt := range p.ConnectionPorts {
		pt.Bind(name, val)
	}
}

// FreeParams adds every unbound parameter name in the part to set.
func (p *Part) FreeParams(set map[string]struct{}) {
	for _, v := range p.Geometry {
		v.FreeParams(set)
	}
	p.Density.FreeParams(set)
	if p.StaticOrigin != nil {
		p.StaticOrigin.FreeParams(set)
	}
	if p.StaticPlacement != nil {
		p.StaticPlacement.FreeParams(set)
	}
	if p.Orientation != nil {
		p.Orientation.FreeParams(set)
	}
	for _, pt := range p.AttachmentPoints {
		pt.FreeParams(set)
	}
	for _, pt := range p.ConnectionPorts {
		pt.FreeParams(set)
	}
}

// Clone returns a deep copy of the part.
func (p *Part) Clone() *Part {
	cp := &Part{
		Name:      p.Name,
		Type:      p.Type,
		Geometry:  make(map[string]sym.Value, len(p.Geometry)),
		Density:   p.Density,
		IsExposed: p.IsExposed,
	}
	for k, v := range p.Geometry {
		cp.Geometry[k] = v
	}
	if p.StaticOrigin != nil {
		cp.StaticOrigin = p.StaticOrigin.Clone()
	}
	if p.StaticPlacement != nil {
		cp.StaticPlacement = p.StaticPlacement.Clone()
	}
	if p.Orientation != nil {
		cp.Orientation = p.Orientation.Clone()
	}
	cp.AttachmentPoints = make([]*sym.Coordinate, len(p.AttachmentPoints))
	for i, pt := range p.AttachmentPoints {
		cp.AttachmentPoints[i] = pt.Clone()
	}
	cp.ConnectionPorts = make([]*sym.Coordinate, len(p.ConnectionPorts))
	for i, pt := range p.ConnectionPorts {
		cp.ConnectionPorts[i] = pt.Clone()
	}
	return cp
}

// Equal reports deep structural equality, including the symbolic versus
// concrete status of every field.
func (p *Part) Equal(o *Part) bool {
	if p == nil || o == nil {
		return p == o
	}
	if p.Name != o.Name || p.Type != o.Type || p.IsExposed != o.IsExposed {
		return false
	}
	if !p.Density.Equal(o.Density) {
		return false
	}
	if len(p.Geometry) != len(o.Geometry) {
		return false
	}
	for k, v := range p.Geometry {
		ov, ok := o.Geometry[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	if !coordEqual(p.StaticOrigin, o.StaticOrigin) ||
		!coordEqual(p.StaticPlacement, o.StaticPlacement) {
		return false
	}
	if !p.Orientation.Equal(o.Orientation) {
		return false
	}
	if !coordSliceEqual(p.AttachmentPoints, o.AttachmentPoints) ||
		!coordSliceEqual(p.ConnectionPorts, o.ConnectionPorts) {
		return false
	}
	return true
}

func coordEqual(a, b *sym.Coordinate) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(b)
}

func coordSliceEqual(a, b []*sym.Coordinate) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
