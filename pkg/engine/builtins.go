package engine

import (
	"fmt"
	"sort"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/keel/pkg/graph"
	"github.com/chazu/keel/pkg/sym"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms Keel Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: place-at -> place_at
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value; treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toValue extracts a sym.Value from a Sexp. Numbers become concrete values;
// strings name free parameters to be bound later. A preprocessed keyword
// works as a parameter name too, so :hull-length and "hull_length" agree
// after kebab normalization.
func toValue(s zygo.Sexp) (sym.Value, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return sym.Concrete(float64(v.Val)), nil
	case *zygo.SexpFloat:
		return sym.Concrete(v.Val), nil
	case *zygo.SexpStr:
		name := strings.TrimPrefix(v.S, kwPrefix)
		name = strings.ReplaceAll(name, "-", "_")
		if name == "" {
			return sym.Value{}, fmt.Errorf("parameter name must not be empty")
		}
		return sym.Param(name), nil
	}
	return sym.Value{}, fmt.Errorf("expected number or parameter name, got %T (%s)", s, s.SexpString(nil))
}

// toValueTriple extracts three sym.Values from consecutive Sexps.
func toValueTriple(args []zygo.Sexp) (x, y, z sym.Value, err error) {
	if len(args) != 3 {
		return x, y, z, fmt.Errorf("expected 3 coordinates, got %d", len(args))
	}
	if x, err = toValue(args[0]); err != nil {
		return x, y, z, fmt.Errorf("x: %w", err)
	}
	if y, err = toValue(args[1]); err != nil {
		return x, y, z, fmt.Errorf("y: %w", err)
	}
	if z, err = toValue(args[2]); err != nil {
		return x, y, z, fmt.Errorf("z: %w", err)
	}
	return x, y, z, nil
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// partModifier is implemented by wrapper values that configure a part when
// passed as arguments to the part builtin.
type partModifier interface {
	zygo.Sexp
	apply(p *graph.Part) error
}

// sexpAssembly wraps a completed graph.Assembly.
type sexpAssembly struct {
	assembly *graph.Assembly
}

func (a *sexpAssembly) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(assembly %q parts=%d)", a.assembly.Name, len(a.assembly.Parts))
}
func (a *sexpAssembly) Type() *zygo.RegisteredType { return nil }

// sexpPart wraps a graph.Part built by the part builtin.
type sexpPart struct {
	part *graph.Part
}

func (p *sexpPart) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(part %q :type %q)", p.part.Name, p.part.Type)
}
func (p *sexpPart) Type() *zygo.RegisteredType { return nil }

// sexpGeometry carries geometry field assignments into a part.
type sexpGeometry struct {
	fields map[string]sym.Value
}

func (g *sexpGeometry) SexpString(ps *zygo.PrintState) string {
	names := make([]string, 0, len(g.fields))
	for name := range g.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("(geometry %s)", strings.Join(names, " "))
}
func (g *sexpGeometry) Type() *zygo.RegisteredType { return nil }

func (g *sexpGeometry) apply(p *graph.Part) error {
	for name, v := range g.fields {
		p.SetGeometry(name, v)
	}
	return nil
}

// sexpOrigin pins a part's static origin.
type sexpOrigin struct {
	x, y, z sym.Value
}

func (o *sexpOrigin) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(origin %s %s %s)", o.x, o.y, o.z)
}
func (o *sexpOrigin) Type() *zygo.RegisteredType { return nil }

func (o *sexpOrigin) apply(p *graph.Part) error {
	p.SetOrigin(o.x, o.y, o.z)
	return nil
}

// sexpPlacement pins a part's static world placement.
type sexpPlacement struct {
	x, y, z sym.Value
}

func (pl *sexpPlacement) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(place-at %s %s %s)", pl.x, pl.y, pl.z)
}
func (pl *sexpPlacement) Type() *zygo.RegisteredType { return nil }

func (pl *sexpPlacement) apply(p *graph.Part) error {
	p.SetPlacement(pl.x, pl.y, pl.z)
	return nil
}

// sexpOrientation sets a part's declared orientation.
type sexpOrientation struct {
	roll, pitch, yaw sym.Value
}

func (o *sexpOrientation) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(orient %s %s %s)", o.roll, o.pitch, o.yaw)
}
func (o *sexpOrientation) Type() *zygo.RegisteredType { return nil }

func (o *sexpOrientation) apply(p *graph.Part) error {
	p.SetOrientation(o.roll, o.pitch, o.yaw)
	return nil
}

// sexpPoint adds a named attachment point or connection port.
type sexpPoint struct {
	connection bool
	name       string
	x, y, z    sym.Value
}

func (pt *sexpPoint) SexpString(ps *zygo.PrintState) string {
	kind := "attachment-point"
	if pt.connection {
		kind = "connection-port"
	}
	return fmt.Sprintf("(%s %q)", kind, pt.name)
}
func (pt *sexpPoint) Type() *zygo.RegisteredType { return nil }

func (pt *sexpPoint) apply(p *graph.Part) error {
	if pt.connection {
		return p.AddConnectionPort(pt.name, pt.x, pt.y, pt.z)
	}
	return p.AddAttachmentPoint(pt.name, pt.x, pt.y, pt.z)
}

// sexpUnexposed marks a part as interior to the assembly.
type sexpUnexposed struct{}

func (u *sexpUnexposed) SexpString(ps *zygo.PrintState) string { return "(unexposed)" }
func (u *sexpUnexposed) Type() *zygo.RegisteredType            { return nil }

func (u *sexpUnexposed) apply(p *graph.Part) error {
	p.IsExposed = false
	return nil
}

// sexpEdge carries an attach or connect declaration into the assembly
// builtin.
type sexpEdge struct {
	connection bool
	srcPart    string
	srcPoint   string
	dstPart    string
	dstPoint   string
}

func (e *sexpEdge) SexpString(ps *zygo.PrintState) string {
	kind := "attach"
	if e.connection {
		kind = "connect"
	}
	return fmt.Sprintf("(%s %s#%s %s#%s)", kind, e.srcPart, e.srcPoint, e.dstPart, e.dstPoint)
}
func (e *sexpEdge) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builder collects the assembly produced during one evaluation. The last
// (assembly ...) form evaluated wins.
type builder struct {
	result *graph.Assembly
}

// registerBuiltins installs all Keel DSL builtins into a zygomys environment.
//
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens are converted to recognizable string literals and
// kebab-case builtin names resolve.
func registerBuiltins(env *zygo.Zlisp, b *builder) {

	// -----------------------------------------------------------------------
	// (geometry :cylinder-radius 0.5 :cylinder-length "hull_length")
	// -----------------------------------------------------------------------
	env.AddFunction("geometry", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 0 {
			return zygo.SexpNull, fmt.Errorf("geometry: only keyword arguments allowed")
		}
		fields := make(map[string]sym.Value, len(pa.kw))
		for field, raw := range pa.kw {
			v, err := toValue(raw)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("geometry: %s: %w", field, err)
			}
			fields[strings.ReplaceAll(field, "-", "_")] = v
		}
		return &sexpGeometry{fields: fields}, nil
	})

	// -----------------------------------------------------------------------
	// (origin 0 0 0)
	// -----------------------------------------------------------------------
	env.AddFunction("origin", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		x, y, z, err := toValueTriple(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("origin: %w", err)
		}
		return &sexpOrigin{x: x, y: y, z: z}, nil
	})

	// -----------------------------------------------------------------------
	// (place-at 0 0 "keel_depth")
	// -----------------------------------------------------------------------
	env.AddFunction("place_at", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		x, y, z, err := toValueTriple(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place-at: %w", err)
		}
		return &sexpPlacement{x: x, y: y, z: z}, nil
	})

	// -----------------------------------------------------------------------
	// (orient 0 0 90)  roll pitch yaw, degrees
	// -----------------------------------------------------------------------
	env.AddFunction("orient", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		roll, pitch, yaw, err := toValueTriple(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("orient: %w", err)
		}
		return &sexpOrientation{roll: roll, pitch: pitch, yaw: yaw}, nil
	})

	// -----------------------------------------------------------------------
	// (attachment-point "RearCenter" 0.5 0.5 1)
	// (connection-port "PowerIn" 0.5 0.5 0)
	// -----------------------------------------------------------------------
	pointFn := func(connection bool, label string) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 4 {
				return zygo.SexpNull, fmt.Errorf("%s: expected name and 3 coordinates", label)
			}
			ptName, err := toString(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: name: %w", label, err)
			}
			x, y, z, err := toValueTriple(args[1:])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s %q: %w", label, ptName, err)
			}
			return &sexpPoint{connection: connection, name: ptName, x: x, y: y, z: z}, nil
		}
	}
	env.AddFunction("attachment_point", pointFn(false, "attachment-point"))
	env.AddFunction("connection_port", pointFn(true, "connection-port"))

	// -----------------------------------------------------------------------
	// (unexposed)
	// -----------------------------------------------------------------------
	env.AddFunction("unexposed", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return zygo.SexpNull, fmt.Errorf("unexposed takes no arguments")
		}
		return &sexpUnexposed{}, nil
	})

	// -----------------------------------------------------------------------
	// (part "hull" :type "generic.Capsule" :density 1025
	//   (geometry ...) (attachment-point ...) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) == 0 {
			return zygo.SexpNull, fmt.Errorf("part: name required")
		}
		partName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}

		partType := ""
		if v, ok := pa.kw["type"]; ok {
			if partType, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: type: %w", partName, err)
			}
		}
		p := graph.NewPart(partName, partType)

		if v, ok := pa.kw["density"]; ok {
			d, err := toValue(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: density: %w", partName, err)
			}
			p.Density = d
		}

		for _, arg := range pa.positional[1:] {
			mod, ok := arg.(partModifier)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("part %q: unexpected argument %s", partName, arg.SexpString(nil))
			}
			if err := mod.apply(p); err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: %w", partName, err)
			}
		}
		return &sexpPart{part: p}, nil
	})

	// -----------------------------------------------------------------------
	// (attach "hull" "RearCenter" "motor" "FrontCenter")
	// (connect "battery" "PowerOut" "motor" "PowerIn")
	// -----------------------------------------------------------------------
	edgeFn := func(connection bool, label string) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 4 {
				return zygo.SexpNull, fmt.Errorf("%s: expected source part, source point, destination part, destination point", label)
			}
			fields := make([]string, 4)
			for i, arg := range args {
				s, err := toString(arg)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: argument %d: %w", label, i+1, err)
				}
				fields[i] = s
			}
			return &sexpEdge{
				connection: connection,
				srcPart:    fields[0],
				srcPoint:   fields[1],
				dstPart:    fields[2],
				dstPoint:   fields[3],
			}, nil
		}
	}
	env.AddFunction("attach", edgeFn(false, "attach"))
	env.AddFunction("connect", edgeFn(true, "connect"))

	// -----------------------------------------------------------------------
	// (assembly "sub" (part ...) (part ...) (attach ...) (connect ...))
	// -----------------------------------------------------------------------
	env.AddFunction("assembly", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) == 0 {
			return zygo.SexpNull, fmt.Errorf("assembly: name required")
		}
		asmName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("assembly: name: %w", err)
		}

		a := graph.NewAssembly(asmName)
		// Parts first, then edges, so declaration order inside the form
		// does not matter.
		var edges []*sexpEdge
		for _, arg := range pa.positional[1:] {
			switch v := arg.(type) {
			case *sexpPart:
				if err := a.AddPart(v.part); err != nil {
					return zygo.SexpNull, fmt.Errorf("assembly %q: %w", asmName, err)
				}
			case *sexpEdge:
				edges = append(edges, v)
			default:
				return zygo.SexpNull, fmt.Errorf("assembly %q: unexpected argument %s", asmName, arg.SexpString(nil))
			}
		}
		for _, e := range edges {
			if e.connection {
				err = a.Connect(e.srcPart, e.srcPoint, e.dstPart, e.dstPoint)
			} else {
				err = a.Attach(e.srcPart, e.srcPoint, e.dstPart, e.dstPoint)
			}
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("assembly %q: %w", asmName, err)
			}
		}

		b.result = a
		return &sexpAssembly{assembly: a}, nil
	})
}
