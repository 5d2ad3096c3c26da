package graph

import "sort"

// Bind returns a copy of the assembly with every symbolic value whose
// parameter name appears in params replaced by the mapped number. The input
// assembly is never mutated. Unmatched keys are ignored unless strict is
// set, in which case they fail with UnknownParameterError.
//
// Binding is idempotent and commutes across disjoint key sets: binding
// {a:1} then {b:2} equals binding {a:1, b:2} in one step.
func Bind(a *Assembly, params map[string]float64, strict bool) (*Assembly, error) {
	if strict {
		known := make(map[string]struct{})
		for _, p := range a.Parts {
			p.FreeParams(known)
		}
		var unknown []string
		for name := range params {
			if _, ok := known[name]; !ok {
				unknown = append(unknown, name)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return nil, &UnknownParameterError{Names: unknown}
		}
	}

	bound := a.Clone()
	for name, val := range params {
		for _, p := range bound.Parts {
			p.Bind(name, val)
		}
	}
	return bound, nil
}
