package graph

import "fmt"

// EndpointRef names one end of an edge: a part plus one of its named points.
type EndpointRef struct {
	Part  string
	Point string
}

func (r EndpointRef) String() string {
	return r.Part + "#" + r.Point
}

// Attachment rigidly joins one part's attachment point to another's. The
// source/destination split records authoring order only; attachments are
// undirected for placement purposes.
type Attachment struct {
	Source      EndpointRef
	Destination EndpointRef
}

func (a Attachment) String() string {
	return fmt.Sprintf("%s <-> %s", a.Source, a.Destination)
}

// Equal reports undirected equality: the mirrored edge is the same edge.
func (a Attachment) Equal(o Attachment) bool {
	if a.Source == o.Source && a.Destination == o.Destination {
		return true
	}
	return a.Source == o.Destination && a.Destination == o.Source
}

// Connection is a purely logical link between two connection ports. It has
// no placement effect and no acyclicity requirement.
type Connection struct {
	Source      EndpointRef
	Destination EndpointRef
}

func (c Connection) String() string {
	return fmt.Sprintf("%s -- %s", c.Source, c.Destination)
}

// Equal reports undirected equality.
func (c Connection) Equal(o Connection) bool {
	if c.Source == o.Source && c.Destination == o.Destination {
		return true
	}
	return c.Source == o.Destination && c.Destination == o.Source
}
