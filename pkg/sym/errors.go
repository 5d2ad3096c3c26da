package sym

import (
	"fmt"
	"strings"
)

// UnresolvedParameterError reports that a concrete number was required but
// one or more free parameters remained unbound. Callers add Context to name
// the part and field that triggered the failure.
type UnresolvedParameterError struct {
	Symbols []string // free parameter names blocking the operation
	Context string   // e.g. `part "capsule2": orientation.pitch`
}

func (e *UnresolvedParameterError) Error() string {
	msg := "unresolved parameter"
	if len(e.Symbols) > 0 {
		msg = fmt.Sprintf("unresolved parameters: %s", strings.Join(e.Symbols, ", "))
	}
	if e.Context != "" {
		return e.Context + ": " + msg
	}
	return msg
}

// InContext returns a copy of the error annotated with the given context.
// The original error is left untouched so it can be reused.
func (e *UnresolvedParameterError) InContext(format string, args ...interface{}) *UnresolvedParameterError {
	return &UnresolvedParameterError{
		Symbols: append([]string(nil), e.Symbols...),
		Context: fmt.Sprintf(format, args...),
	}
}
