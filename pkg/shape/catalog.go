// Package shape implements the per-type geometry capabilities: closed-form
// bounding extents, volume, surface area, and center-of-gravity formulas,
// plus optional solid construction through the geometry kernel. The rest of
// the system dispatches on a part's dotted type identifier through a
// Catalog and never hardcodes per-type formulas.
package shape

import (
	"fmt"
	"sort"

	"github.com/chazu/keel/pkg/kernel"
	"github.com/chazu/keel/pkg/sym"
)

// Resolved holds a fully-resolved geometry descriptor: every declared field
// mapped to a concrete number.
type Resolved map[string]float64

// Capability is the contract a part type implements. All methods take a
// Resolved descriptor whose field set matches Fields exactly; resolution is
// the caller's responsibility (see Resolve).
//
// Volume is the material volume (hollow interiors subtracted); Displaced is
// the volume of fluid the closed outer surface displaces. The two differ
// only for hollow types.
type Capability interface {
	Fields() []string
	Extents(g Resolved) sym.Vec3
	Volume(g Resolved) float64
	Displaced(g Resolved) float64
	SurfaceArea(g Resolved) float64
	CenterOfGravity(g Resolved) sym.Vec3
}

// SolidModeler is the optional solid-construction side of a Capability.
// The returned solid sits in the part's local frame: bounding box minimum
// corner at the origin, matching Extents.
type SolidModeler interface {
	Solid(k kernel.Kernel, g Resolved) kernel.Solid
}

// Catalog maps dotted part type identifiers to capabilities. It is an
// explicit value passed in by callers, never a process-wide registry.
type Catalog struct {
	types map[string]Capability
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{types: make(map[string]Capability)}
}

// DefaultCatalog returns a catalog with every built-in generic type
// registered.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	for name, cap := range map[string]Capability{
		"generic.Capsule":  Capsule{},
		"generic.Cuboid":   Cuboid{},
		"generic.Box":      Box{},
		"generic.Cylinder": Cylinder{},
		"generic.Pipe":     Pipe{},
		"generic.Sphere":   Sphere{},
		"generic.Cone":     Cone{},
	} {
		if err := c.Register(name, cap); err != nil {
			panic(err)
		}
	}
	return c
}

// Register adds a capability under the given type identifier.
func (c *Catalog) Register(partType string, cap Capability) error {
	if _, exists := c.types[partType]; exists {
		return fmt.Errorf("shape: type %q already registered", partType)
	}
	c.types[partType] = cap
	return nil
}

// Lookup returns the capability for a type identifier.
func (c *Catalog) Lookup(partType string) (Capability, bool) {
	cap, ok := c.types[partType]
	return cap, ok
}

// Fields returns the declared geometry field names for a type, sorted.
// This satisfies the graph package's field catalog interface.
func (c *Catalog) Fields(partType string) ([]string, bool) {
	cap, ok := c.types[partType]
	if !ok {
		return nil, false
	}
	fields := append([]string(nil), cap.Fields()...)
	sort.Strings(fields)
	return fields, true
}

// Resolve converts a symbolic geometry descriptor into a Resolved map,
// checking the field set against fields. It fails with an
// UnresolvedParameterError if any value is still symbolic.
func Resolve(geo map[string]sym.Value, fields []string) (Resolved, error) {
	resolved := make(Resolved, len(fields))
	var unresolved []string
	for _, f := range fields {
		v, ok := geo[f]
		if !ok {
			return nil, fmt.Errorf("shape: geometry field %q missing", f)
		}
		if !v.IsResolved() {
			unresolved = append(unresolved, v.Symbol())
			continue
		}
		resolved[f], _ = v.Float()
	}
	if len(fields) != len(geo) {
		for f := range geo {
			found := false
			for _, declared := range fields {
				if f == declared {
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("shape: geometry field %q not declared", f)
			}
		}
	}
	if len(unresolved) > 0 {
		sort.Strings(unresolved)
		return nil, &sym.UnresolvedParameterError{Symbols: unresolved}
	}
	return resolved, nil
}
