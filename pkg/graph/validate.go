package graph

import "fmt"

// ValidationSeverity indicates whether a validation finding blocks
// downstream resolution or is merely advisory.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks resolution
	SeverityWarning                           // advisory
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Part     string // which part has the problem (empty if assembly-level)
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] part %s: %s", e.Severity, e.Part, e.Message)
}

// FieldCatalog answers which geometry fields a part type declares. The
// shape catalog satisfies this; validation never hardcodes per-type field
// sets.
type FieldCatalog interface {
	Fields(partType string) ([]string, bool)
}

// Validate checks the assembly against its structural invariants and the
// field catalog. An empty result means the assembly is well formed. The
// assembly is never mutated.
func Validate(a *Assembly, cat FieldCatalog) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateGeometryFields(a, cat)...)
	errs = append(errs, validateParts(a)...)
	errs = append(errs, validateEdges(a)...)
	errs = append(errs, validateAnchors(a)...)
	return errs
}

// validateGeometryFields checks each part's geometry descriptor against the
// exact field set its type declares. Extras and omissions are both errors.
func validateGeometryFields(a *Assembly, cat FieldCatalog) []ValidationError {
	var errs []ValidationError
	if cat == nil {
		return errs
	}
	for _, p := range a.Parts {
		fields, ok := cat.Fields(p.Type)
		if !ok {
			errs = append(errs, ValidationError{
				Part:     p.Name,
				Message:  fmt.Sprintf("unknown part type %q", p.Type),
				Severity: SeverityError,
			})
			continue
		}
		declared := make(map[string]struct{}, len(fields))
		for _, f := range fields {
			declared[f] = struct{}{}
			if _, present := p.Geometry[f]; !present {
				errs = append(errs, ValidationError{
					Part:     p.Name,
					Message:  fmt.Sprintf("geometry field %q missing for type %q", f, p.Type),
					Severity: SeverityError,
				})
			}
		}
		for f := range p.Geometry {
			if _, ok := declared[f]; !ok {
				errs = append(errs, ValidationError{
					Part:     p.Name,
					Message:  fmt.Sprintf("geometry field %q not declared by type %q", f, p.Type),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateParts checks per-part value constraints that do not need the
// catalog: resolved densities must be non-negative and resolved attachment
// point coordinates must be normalized.
func validateParts(a *Assembly) []ValidationError {
	var errs []ValidationError
	for _, p := range a.Parts {
		if p.Density.IsResolved() {
			if d, _ := p.Density.Float(); d < 0 {
				errs = append(errs, ValidationError{
					Part:     p.Name,
					Message:  fmt.Sprintf("material density %g is negative", d),
					Severity: SeverityError,
				})
			}
		}
		for _, pt := range p.AttachmentPoints {
			if !pt.IsResolved() {
				continue
			}
			v, _ := pt.Vec()
			for axis, c := range map[string]float64{"x": v.X, "y": v.Y, "z": v.Z} {
				if c < 0 || c > 1 {
					errs = append(errs, ValidationError{
						Part:     p.Name,
						Message:  fmt.Sprintf("attachment point %q %s=%g is outside [0,1]", pt.Name, axis, c),
						Severity: SeverityError,
					})
				}
			}
		}
	}
	return errs
}

// validateEdges re-checks every edge endpoint. Edges added through Attach
// and Connect are already checked; programmatically assembled structs may
// not be.
func validateEdges(a *Assembly) []ValidationError {
	var errs []ValidationError
	for _, e := range a.Attachments {
		if err := a.checkAttachmentEndpoint(e.Source); err != nil {
			errs = append(errs, ValidationError{Message: err.Error(), Severity: SeverityError})
		}
		if err := a.checkAttachmentEndpoint(e.Destination); err != nil {
			errs = append(errs, ValidationError{Message: err.Error(), Severity: SeverityError})
		}
		if e.Source.Part == e.Destination.Part {
			errs = append(errs, ValidationError{
				Part:     e.Source.Part,
				Message:  fmt.Sprintf("attachment %s joins a part to itself", e),
				Severity: SeverityError,
			})
		}
	}
	for _, e := range a.Connections {
		if err := a.checkConnectionEndpoint(e.Source); err != nil {
			errs = append(errs, ValidationError{Message: err.Error(), Severity: SeverityError})
		}
		if err := a.checkConnectionEndpoint(e.Destination); err != nil {
			errs = append(errs, ValidationError{Message: err.Error(), Severity: SeverityError})
		}
	}
	return errs
}

// validateAnchors flags anchor-count problems early. Zero anchors is only a
// warning here: binding may resolve a symbolic placement into an anchor
// before placement runs. Two resolved anchors can never become valid.
func validateAnchors(a *Assembly) []ValidationError {
	var errs []ValidationError
	var anchors []string
	for _, p := range a.Parts {
		if p.HasAnchor() {
			anchors = append(anchors, p.Name)
		}
	}
	switch {
	case len(anchors) > 1:
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("multiple anchored parts: %v", anchors),
			Severity: SeverityError,
		})
	case len(anchors) == 0 && len(a.Parts) > 0:
		errs = append(errs, ValidationError{
			Message:  "no part carries a fully resolved static origin and placement",
			Severity: SeverityWarning,
		})
	}
	return errs
}
