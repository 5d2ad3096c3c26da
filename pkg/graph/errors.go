package graph

import (
	"fmt"
	"strings"
)

// MalformedDocumentError reports a structural violation in an assembly
// document: a missing required field, a duplicate part name, or an edge
// referencing a nonexistent part or point.
type MalformedDocumentError struct {
	Path   string // document location, e.g. "parts/capsule2/geometry"
	Reason string
}

func (e *MalformedDocumentError) Error() string {
	if e.Path == "" {
		return "malformed assembly document: " + e.Reason
	}
	return fmt.Sprintf("malformed assembly document at %s: %s", e.Path, e.Reason)
}

// UnknownParameterError reports that strict-mode binding supplied parameter
// names that match no symbol anywhere in the graph.
type UnknownParameterError struct {
	Names []string // sorted
}

func (e *UnknownParameterError) Error() string {
	return "unknown parameters: " + strings.Join(e.Names, ", ")
}
