package place

import (
	"fmt"
	"strings"
)

// NoRootError reports that no part carries a fully-resolved static origin
// and static placement, so placement has nowhere to start.
type NoRootError struct {
	Assembly string
}

func (e *NoRootError) Error() string {
	return fmt.Sprintf("assembly %q has no anchored part to place from", e.Assembly)
}

// AmbiguousRootError reports more than one fully-anchored part.
type AmbiguousRootError struct {
	Assembly string
	Parts    []string // sorted
}

func (e *AmbiguousRootError) Error() string {
	return fmt.Sprintf("assembly %q has multiple anchored parts: %s",
		e.Assembly, strings.Join(e.Parts, ", "))
}

// CyclicAttachmentError reports that the attachment edges do not form a
// tree: some part is reachable from the root by more than one path.
type CyclicAttachmentError struct {
	Part string // part reached a second time
	Edge string // edge that closed the cycle
}

func (e *CyclicAttachmentError) Error() string {
	return fmt.Sprintf("attachment cycle: edge %s reaches part %q a second time", e.Edge, e.Part)
}

// DisconnectedPartError reports parts with no attachment path to the root.
// Their placement is undefined.
type DisconnectedPartError struct {
	Root  string
	Parts []string // sorted
}

func (e *DisconnectedPartError) Error() string {
	return fmt.Sprintf("parts not reachable from root %q: %s",
		e.Root, strings.Join(e.Parts, ", "))
}
