// Package place computes absolute world-frame transforms for every part of
// an assembly from its attachment edges and a single anchored root. The
// computation is a pure function of the assembly; any valid traversal order
// yields the same transforms because each part's placement depends only on
// its parent edge in the attachment tree.
package place

import (
	"fmt"
	"sort"

	"github.com/chazu/keel/pkg/graph"
	"github.com/chazu/keel/pkg/shape"
	"github.com/chazu/keel/pkg/sym"
)

// Placement is a part's resolved world transform: which normalized local
// point is pinned, where that point sits in world space, and the part's
// orientation in degrees.
type Placement struct {
	Origin           sym.Vec3 // normalized local origin point
	Position         sym.Vec3 // world position of the origin point
	Roll, Pitch, Yaw float64  // degrees
}

// ToWorld maps a normalized local point into world space using the part's
// bounding extents.
func (p Placement) ToWorld(normalized, extents sym.Vec3) sym.Vec3 {
	offset := normalized.Sub(p.Origin).Hadamard(extents)
	return sym.RotatePointDeg(p.Position, p.Position.Add(offset), p.Roll, p.Pitch, p.Yaw)
}

// LocalToWorld maps an absolute part-local point (such as a center of
// gravity) into world space.
func (p Placement) LocalToWorld(local, extents sym.Vec3) sym.Vec3 {
	offset := local.Sub(p.Origin.Hadamard(extents))
	return sym.RotatePointDeg(p.Position, p.Position.Add(offset), p.Roll, p.Pitch, p.Yaw)
}

// Traversal selects the visit order of the attachment tree. Both orders
// produce identical placements; the option exists so callers and tests can
// verify that.
type Traversal int

const (
	BreadthFirst Traversal = iota
	DepthFirst
)

// Resolve computes a placement for every part using breadth-first
// traversal from the anchored root.
func Resolve(a *graph.Assembly, cat *shape.Catalog) (map[string]Placement, error) {
	return ResolveOrder(a, cat, BreadthFirst)
}

// adjEdge is one direction of an attachment edge as seen from a part.
type adjEdge struct {
	index       int    // position in a.Attachments
	neighbor    string // remote part
	localPoint  string // attachment point on this part
	remotePoint string // attachment point on the neighbor
}

// ResolveOrder is Resolve with an explicit traversal order.
func ResolveOrder(a *graph.Assembly, cat *shape.Catalog, order Traversal) (map[string]Placement, error) {
	root, err := findRoot(a)
	if err != nil {
		return nil, err
	}

	adjacency := make(map[string][]adjEdge)
	for i, e := range a.Attachments {
		adjacency[e.Source.Part] = append(adjacency[e.Source.Part], adjEdge{
			index: i, neighbor: e.Destination.Part,
			localPoint: e.Source.Point, remotePoint: e.Destination.Point,
		})
		adjacency[e.Destination.Part] = append(adjacency[e.Destination.Part], adjEdge{
			index: i, neighbor: e.Source.Part,
			localPoint: e.Destination.Point, remotePoint: e.Source.Point,
		})
	}
	// Deterministic neighbor order regardless of edge insertion order.
	for _, edges := range adjacency {
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].neighbor != edges[j].neighbor {
				return edges[i].neighbor < edges[j].neighbor
			}
			return edges[i].localPoint < edges[j].localPoint
		})
	}

	placements := make(map[string]Placement, len(a.Parts))
	rootPlacement, err := anchorPlacement(root)
	if err != nil {
		return nil, err
	}
	placements[root.Name] = rootPlacement

	extents := newExtentsCache(cat)

	// frontier holds parts whose neighbors still need placing, paired with
	// the edge index used to reach them so the reverse hop is skipped.
	type frontierEntry struct {
		part    string
		viaEdge int
	}
	frontier := []frontierEntry{{part: root.Name, viaEdge: -1}}

	for len(frontier) > 0 {
		var cur frontierEntry
		switch order {
		case DepthFirst:
			cur = frontier[len(frontier)-1]
			frontier = frontier[:len(frontier)-1]
		default:
			cur = frontier[0]
			frontier = frontier[1:]
		}

		known := a.Part(cur.part)
		knownPlacement := placements[cur.part]

		for _, edge := range adjacency[cur.part] {
			if edge.index == cur.viaEdge {
				continue
			}
			if _, seen := placements[edge.neighbor]; seen {
				return nil, &CyclicAttachmentError{
					Part: edge.neighbor,
					Edge: a.Attachments[edge.index].String(),
				}
			}

			next := a.Part(edge.neighbor)
			p, err := placeAcrossEdge(known, knownPlacement, next, edge, extents)
			if err != nil {
				return nil, err
			}
			placements[edge.neighbor] = p
			frontier = append(frontier, frontierEntry{part: edge.neighbor, viaEdge: edge.index})
		}
	}

	if len(placements) != len(a.Parts) {
		var missing []string
		for _, p := range a.Parts {
			if _, ok := placements[p.Name]; !ok {
				missing = append(missing, p.Name)
			}
		}
		sort.Strings(missing)
		return nil, &DisconnectedPartError{Root: root.Name, Parts: missing}
	}
	return placements, nil
}

// findRoot returns the unique fully-anchored part.
func findRoot(a *graph.Assembly) (*graph.Part, error) {
	var anchored []*graph.Part
	for _, p := range a.Parts {
		if p.HasAnchor() {
			anchored = append(anchored, p)
		}
	}
	switch len(anchored) {
	case 0:
		return nil, &NoRootError{Assembly: a.Name}
	case 1:
		return anchored[0], nil
	default:
		names := make([]string, len(anchored))
		for i, p := range anchored {
			names[i] = p.Name
		}
		sort.Strings(names)
		return nil, &AmbiguousRootError{Assembly: a.Name, Parts: names}
	}
}

// anchorPlacement converts the root's static origin, placement, and
// orientation into a Placement.
func anchorPlacement(root *graph.Part) (Placement, error) {
	origin, err := root.StaticOrigin.Vec()
	if err != nil {
		return Placement{}, contextualize(err, "part %q: static origin", root.Name)
	}
	position, err := root.StaticPlacement.Vec()
	if err != nil {
		return Placement{}, contextualize(err, "part %q: static placement", root.Name)
	}
	roll, pitch, yaw, err := root.Orientation.Angles()
	if err != nil {
		return Placement{}, contextualize(err, "part %q: orientation", root.Name)
	}
	return Placement{Origin: origin, Position: position, Roll: roll, Pitch: pitch, Yaw: yaw}, nil
}

// placeAcrossEdge solves the unknown part's placement from a known
// neighbor: the known part's attachment point is mapped into world space,
// and the unknown part's matching point becomes its pinned origin there.
// The unknown part keeps its own declared orientation.
func placeAcrossEdge(known *graph.Part, knownPlacement Placement, next *graph.Part, edge adjEdge, ext *extentsCache) (Placement, error) {
	knownExtents, err := ext.get(known)
	if err != nil {
		return Placement{}, err
	}
	localPt, err := known.AttachmentPoint(edge.localPoint).Vec()
	if err != nil {
		return Placement{}, contextualize(err, "part %q: attachment point %q", known.Name, edge.localPoint)
	}
	world := knownPlacement.ToWorld(localPt, knownExtents)

	remotePt, err := next.AttachmentPoint(edge.remotePoint).Vec()
	if err != nil {
		return Placement{}, contextualize(err, "part %q: attachment point %q", next.Name, edge.remotePoint)
	}
	roll, pitch, yaw, err := next.Orientation.Angles()
	if err != nil {
		return Placement{}, contextualize(err, "part %q: orientation", next.Name)
	}
	return Placement{Origin: remotePt, Position: world, Roll: roll, Pitch: pitch, Yaw: yaw}, nil
}

// extentsCache memoizes per-part bounding extents across the traversal.
type extentsCache struct {
	cat    *shape.Catalog
	byPart map[string]sym.Vec3
}

func newExtentsCache(cat *shape.Catalog) *extentsCache {
	return &extentsCache{cat: cat, byPart: make(map[string]sym.Vec3)}
}

func (c *extentsCache) get(p *graph.Part) (sym.Vec3, error) {
	if v, ok := c.byPart[p.Name]; ok {
		return v, nil
	}
	cap, ok := c.cat.Lookup(p.Type)
	if !ok {
		return sym.Vec3{}, fmt.Errorf("place: part %q has unknown type %q", p.Name, p.Type)
	}
	resolved, err := shape.Resolve(p.Geometry, cap.Fields())
	if err != nil {
		return sym.Vec3{}, contextualize(err, "part %q: geometry", p.Name)
	}
	v := cap.Extents(resolved)
	c.byPart[p.Name] = v
	return v, nil
}

// contextualize annotates an UnresolvedParameterError with the offending
// part and field; other errors pass through wrapped.
func contextualize(err error, format string, args ...interface{}) error {
	if ue, ok := err.(*sym.UnresolvedParameterError); ok {
		return ue.InContext(format, args...)
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
