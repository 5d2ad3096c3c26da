// Package tessellate turns a fully-resolved, placed assembly into triangle
// meshes using a geometry kernel. One mesh is produced per exposed part.
package tessellate

import (
	"fmt"

	"github.com/chazu/keel/pkg/graph"
	"github.com/chazu/keel/pkg/kernel"
	"github.com/chazu/keel/pkg/place"
	"github.com/chazu/keel/pkg/shape"
)

// Tessellate builds one mesh per exposed part, positioned by the given
// placements. Parts without a placement entry are an error; resolve
// placement first. The tessellator is read-only and never mutates the
// assembly.
func Tessellate(a *graph.Assembly, cat *shape.Catalog, placements map[string]place.Placement, k kernel.Kernel) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh
	for _, p := range a.Parts {
		if !p.IsExposed {
			continue
		}
		solid, err := PlaceSolid(p, cat, placements, k)
		if err != nil {
			return nil, err
		}
		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for part %q: %w", p.Name, err)
		}
		mesh.PartName = p.Name
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// PlaceSolid builds one part's solid in world space: the local solid is
// shifted so its pinned origin point sits at the kernel origin, rotated by
// the part's orientation, then translated to its world position.
func PlaceSolid(p *graph.Part, cat *shape.Catalog, placements map[string]place.Placement, k kernel.Kernel) (kernel.Solid, error) {
	cap, ok := cat.Lookup(p.Type)
	if !ok {
		return nil, fmt.Errorf("tessellate: part %q has unknown type %q", p.Name, p.Type)
	}
	modeler, ok := cap.(shape.SolidModeler)
	if !ok {
		return nil, fmt.Errorf("tessellate: type %q cannot build solids", p.Type)
	}
	pl, ok := placements[p.Name]
	if !ok {
		return nil, fmt.Errorf("tessellate: part %q has no placement", p.Name)
	}
	resolved, err := shape.Resolve(p.Geometry, cap.Fields())
	if err != nil {
		return nil, fmt.Errorf("tessellate: part %q: %w", p.Name, err)
	}

	originLocal := pl.Origin.Hadamard(cap.Extents(resolved))
	solid := modeler.Solid(k, resolved)
	solid = k.Translate(solid, -originLocal.X, -originLocal.Y, -originLocal.Z)
	if pl.Roll != 0 || pl.Pitch != 0 || pl.Yaw != 0 {
		solid = k.Rotate(solid, pl.Roll, pl.Pitch, pl.Yaw)
	}
	return k.Translate(solid, pl.Position.X, pl.Position.Y, pl.Position.Z), nil
}

// Merged tessellates the assembly and merges the result into a single
// mesh, suitable for STL export.
func Merged(a *graph.Assembly, cat *shape.Catalog, placements map[string]place.Placement, k kernel.Kernel) (*kernel.Mesh, error) {
	meshes, err := Tessellate(a, cat, placements, k)
	if err != nil {
		return nil, err
	}
	merged := &kernel.Mesh{PartName: a.Name}
	for _, m := range meshes {
		merged.Merge(m)
	}
	return merged, nil
}
