// Package graph defines the assembly data model for Keel: parts with
// symbolic geometry, rigid attachment edges, and logical connection edges.
package graph

import (
	"fmt"
	"sort"
)

// Assembly is the top-level document: a named, ordered collection of parts
// plus the attachment and connection edges joining them. Part order is
// semantically irrelevant but preserved for stable serialization.
type Assembly struct {
	Name        string
	Parts       []*Part
	Attachments []Attachment
	Connections []Connection

	index map[string]int // part name to Parts slice position
}

// NewAssembly returns an empty assembly with the given name.
func NewAssembly(name string) *Assembly {
	return &Assembly{
		Name:  name,
		index: make(map[string]int),
	}
}

// AddPart appends a part, rejecting duplicate names.
func (a *Assembly) AddPart(p *Part) error {
	if p.Name == "" {
		return &MalformedDocumentError{Path: "parts", Reason: "part with empty name"}
	}
	if _, exists := a.index[p.Name]; exists {
		return &MalformedDocumentError{
			Path:   "parts/" + p.Name,
			Reason: fmt.Sprintf("duplicate part name %q", p.Name),
		}
	}
	a.index[p.Name] = len(a.Parts)
	a.Parts = append(a.Parts, p)
	return nil
}

// Part returns the named part, or nil.
func (a *Assembly) Part(name string) *Part {
	i, ok := a.index[name]
	if !ok {
		return nil
	}
	return a.Parts[i]
}

// checkAttachmentEndpoint verifies the referenced part and attachment point
// both exist.
func (a *Assembly) checkAttachmentEndpoint(ref EndpointRef) error {
	p := a.Part(ref.Part)
	if p == nil {
		return &MalformedDocumentError{
			Path:   "attachments",
			Reason: fmt.Sprintf("edge references unknown part %q", ref.Part),
		}
	}
	if p.AttachmentPoint(ref.Point) == nil {
		return &MalformedDocumentError{
			Path:   "attachments",
			Reason: fmt.Sprintf("part %q has no attachment point %q", ref.Part, ref.Point),
		}
	}
	return nil
}

func (a *Assembly) checkConnectionEndpoint(ref EndpointRef) error {
	p := a.Part(ref.Part)
	if p == nil {
		return &MalformedDocumentError{
			Path:   "connections",
			Reason: fmt.Sprintf("edge references unknown part %q", ref.Part),
		}
	}
	if p.ConnectionPort(ref.Point) == nil {
		return &MalformedDocumentError{
			Path:   "connections",
			Reason: fmt.Sprintf("part %q has no connection port %q", ref.Part, ref.Point),
		}
	}
	return nil
}

// Attach joins srcPart's attachment point srcPoint to dstPart's dstPoint.
// The mirrored duplicate of an existing edge is silently dropped.
func (a *Assembly) Attach(srcPart, srcPoint, dstPart, dstPoint string) error {
	edge := Attachment{
		Source:      EndpointRef{Part: srcPart, Point: srcPoint},
		Destination: EndpointRef{Part: dstPart, Point: dstPoint},
	}
	if err := a.checkAttachmentEndpoint(edge.Source); err != nil {
		return err
	}
	if err := a.checkAttachmentEndpoint(edge.Destination); err != nil {
		return err
	}
	for _, existing := range a.Attachments {
		if existing.Equal(edge) {
			return nil
		}
	}
	a.Attachments = append(a.Attachments, edge)
	return nil
}

// Connect joins srcPart's connection port srcPort to dstPart's dstPort.
// The mirrored duplicate of an existing edge is silently dropped.
func (a *Assembly) Connect(srcPart, srcPort, dstPart, dstPort string) error {
	edge := Connection{
		Source:      EndpointRef{Part: srcPart, Point: srcPort},
		Destination: EndpointRef{Part: dstPart, Point: dstPort},
	}
	if err := a.checkConnectionEndpoint(edge.Source); err != nil {
		return err
	}
	if err := a.checkConnectionEndpoint(edge.Destination); err != nil {
		return err
	}
	for _, existing := range a.Connections {
		if existing.Equal(edge) {
			return nil
		}
	}
	a.Connections = append(a.Connections, edge)
	return nil
}

// FreeParameters returns the sorted names of every unbound parameter in the
// assembly. No predefined catalog is consulted; the graph itself is the
// source of truth.
func (a *Assembly) FreeParameters() []string {
	set := make(map[string]struct{})
	for _, p := range a.Parts {
		p.FreeParams(set)
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy sharing no mutable state with the original.
func (a *Assembly) Clone() *Assembly {
	cp := NewAssembly(a.Name)
	for _, p := range a.Parts {
		cp.index[p.Name] = len(cp.Parts)
		cp.Parts = append(cp.Parts, p.Clone())
	}
	cp.Attachments = append([]Attachment(nil), a.Attachments...)
	cp.Connections = append([]Connection(nil), a.Connections...)
	return cp
}

// Equal reports deep structural equality: same parts in the same order with
// identical symbolic/concrete status, and the same edge sets.
func (a *Assembly) Equal(o *Assembly) bool {
	if a == nil || o == nil {
		return a == o
	}
	if a.Name != o.Name || len(a.Parts) != len(o.Parts) ||
		len(a.Attachments) != len(o.Attachments) ||
		len(a.Connections) != len(o.Connections) {
		return false
	}
	for i := range a.Parts {
		if !a.Parts[i].Equal(o.Parts[i]) {
			return false
		}
	}
	for i := range a.Attachments {
		if !a.Attachments[i].Equal(o.Attachments[i]) {
			return false
		}
	}
	for i := range a.Connections {
		if !a.Connections[i].Equal(o.Connections[i]) {
			return false
		}
	}
	return true
}
