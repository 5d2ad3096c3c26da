package engine

import (
	"reflect"
	"testing"

	zygo "github.com/glycerine/zygomys/zygo"
)

func intSexp(v int64) zygo.Sexp  { return &zygo.SexpInt{Val: v} }
func strSexp(s string) zygo.Sexp { return &zygo.SexpStr{S: s} }

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(part "hull" :type "generic.Capsule")`,
			expect: `(part "hull" "__kw_type" "generic.Capsule")`,
		},
		{
			name:   "multiple keywords",
			input:  `(geometry :cylinder-radius 0.5 :thickness 0.01)`,
			expect: `(geometry "__kw_cylinder-radius" 0.5 "__kw_thickness" 0.01)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(place-at 0 0 0)`,
			expect: `(place_at 0 0 0)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:endcap-length`,
			expect: `"__kw_endcap-length"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// DSL tests
// ---------------------------------------------------------------------------

func TestSinglePartAssembly(t *testing.T) {
	eng := NewEngine()

	source := `
(assembly "probe"
  (part "hull" :type "generic.Capsule" :density 1025
    (geometry :cylinder-radius 0.5
              :cylinder-length "hull_length"
              :endcap-length 0.25
              :thickness 0.01)
    (origin 0 0 0)
    (place-at 0 0 0)
    (attachment-point "RearCenter" 0.5 0.5 1)))
`
	a, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if a == nil {
		t.Fatal("expected non-nil assembly")
	}
	if a.Name != "probe" {
		t.Errorf("assembly name = %q, want probe", a.Name)
	}
	if len(a.Parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(a.Parts))
	}

	hull := a.Part("hull")
	if hull == nil {
		t.Fatal("expected part named 'hull'")
	}
	if hull.Type != "generic.Capsule" {
		t.Errorf("type = %q, want generic.Capsule", hull.Type)
	}
	if d, err := hull.Density.Float(); err != nil || d != 1025 {
		t.Errorf("density = %v (%v), want 1025", d, err)
	}
	if r, err := hull.Geometry["cylinder_radius"].Float(); err != nil || r != 0.5 {
		t.Errorf("cylinder_radius = %v (%v), want 0.5", r, err)
	}
	if hull.Geometry["cylinder_length"].IsResolved() {
		t.Error("cylinder_length should be a free parameter")
	}
	if got := hull.Geometry["cylinder_length"].Symbol(); got != "hull_length" {
		t.Errorf("cylinder_length symbol = %q, want hull_length", got)
	}
	if !hull.HasAnchor() {
		t.Error("hull should be the anchored root")
	}
	if hull.AttachmentPoint("RearCenter") == nil {
		t.Error("expected attachment point RearCenter")
	}
}

func TestAttachedChain(t *testing.T) {
	eng := NewEngine()

	source := `
;; two capsules joined nose to tail
(assembly "chain"
  (part "front" :type "generic.Capsule" :density 1000
    (geometry :cylinder-radius 0.5 :cylinder-length 1.0
              :endcap-length 0.25 :thickness 0.01)
    (origin 0 0 0)
    (place-at 0 0 0)
    (attachment-point "RearCenter" 0.5 0.5 1))
  (part "rear" :type "generic.Capsule" :density 1000
    (geometry :cylinder-radius 0.5 :cylinder-length 1.0
              :endcap-length 0.25 :thickness 0.01)
    (unexposed)
    (attachment-point "FrontCenter" 0.5 0.5 0)
    (connection-port "PowerIn" 0.5 0.5 0.5))
  (attach "front" "RearCenter" "rear" "FrontCenter"))
`
	a, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if len(a.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(a.Parts))
	}
	if len(a.Attachments) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(a.Attachments))
	}
	at := a.Attachments[0]
	if at.Source.Part != "front" || at.Source.Point != "RearCenter" {
		t.Errorf("attachment source = %v", at.Source)
	}
	if at.Destination.Part != "rear" || at.Destination.Point != "FrontCenter" {
		t.Errorf("attachment destination = %v", at.Destination)
	}

	rear := a.Part("rear")
	if rear.IsExposed {
		t.Error("rear should be unexposed")
	}
	if rear.ConnectionPort("PowerIn") == nil {
		t.Error("expected connection port PowerIn")
	}
}

func TestOrientAndFreeParams(t *testing.T) {
	eng := NewEngine()

	source := `
(assembly "tilted"
  (part "body" :type "generic.Cuboid" :density "body_density"
    (geometry :length 2 :width 1 :height "body_height")
    (orient 0 0 90)
    (origin 0 0 0)
    (place-at 0 0 "depth")))
`
	a, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	body := a.Part("body")
	_, _, yaw, err := body.Orientation.Angles()
	if err != nil {
		t.Fatalf("Angles: %v", err)
	}
	if yaw != 90 {
		t.Errorf("yaw = %v, want 90", yaw)
	}

	free := a.FreeParameters()
	want := []string{"body_density", "body_height", "depth"}
	if !reflect.DeepEqual(free, want) {
		t.Errorf("FreeParameters = %v, want %v", free, want)
	}
	// A symbolic placement means this part cannot anchor the assembly.
	if body.HasAnchor() {
		t.Error("symbolic placement should not count as an anchor")
	}
}

func TestConnectEdge(t *testing.T) {
	eng := NewEngine()

	source := `
(assembly "wired"
  (part "battery" :type "generic.Cuboid" :density 2000
    (geometry :length 0.2 :width 0.1 :height 0.1)
    (connection-port "PowerOut" 0.5 0.5 1))
  (part "motor" :type "generic.Cylinder" :density 7800
    (geometry :radius 0.05 :height 0.2)
    (connection-port "PowerIn" 0.5 0.5 0))
  (connect "battery" "PowerOut" "motor" "PowerIn"))
`
	a, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if len(a.Connections) != 1 {
		t.Fatalf("expected 1 connection, got %d", len(a.Connections))
	}
	if len(a.Attachments) != 0 {
		t.Errorf("expected no attachments, got %d", len(a.Attachments))
	}
}

func TestUnknownEndpointFailsEvaluation(t *testing.T) {
	eng := NewEngine()

	source := `
(assembly "broken"
  (part "only" :type "generic.Sphere" :density 1
    (geometry :radius 1))
  (attach "only" "Nowhere" "ghost" "Nothing"))
`
	a, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if a != nil {
		t.Fatal("expected nil assembly when an edge endpoint is unknown")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
}

func TestToValue(t *testing.T) {
	v, err := toValue(intSexp(3))
	if err != nil {
		t.Fatalf("toValue(int): %v", err)
	}
	if f, _ := v.Float(); f != 3 {
		t.Errorf("int value = %v, want 3", f)
	}

	v, err = toValue(strSexp("hull_length"))
	if err != nil {
		t.Fatalf("toValue(string): %v", err)
	}
	if v.IsResolved() || v.Symbol() != "hull_length" {
		t.Errorf("string value = %v, want free param hull_length", v)
	}

	// Kebab parameter names normalize the same way identifiers do.
	v, err = toValue(strSexp("hull-length"))
	if err != nil {
		t.Fatalf("toValue(kebab string): %v", err)
	}
	if v.Symbol() != "hull_length" {
		t.Errorf("kebab symbol = %q, want hull_length", v.Symbol())
	}

	if _, err := toValue(strSexp("")); err == nil {
		t.Error("empty parameter name should fail")
	}
}
