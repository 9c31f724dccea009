package project

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Kind tags the variant of a [Declaration].
type Kind int

const (
	// KindFunction is a free function (`fn`).
	KindFunction Kind = iota
	// KindAggregate is a struct-like type (`struct`, `union`).
	KindAggregate
	// KindContract is a trait.
	KindContract
	// KindVariant is an enum.
	KindVariant
)

var kindNames = [...]string{
	KindFunction:  "function",
	KindAggregate: "aggregate",
	KindContract:  "contract",
	KindVariant:   "variant",
}

// Kinds returns every declaration kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindFunction, KindAggregate, KindContract, KindVariant}
}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind is the inverse of [Kind.String].
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown declaration kind %q", s)
}

// Location is a line span inside one source file. File is relative to the
// owning unit's root and uses forward slashes. Lines are 1-based and
// inclusive.
type Location struct {
	File      string
	StartLine int
	EndLine   int
}

// Lines returns the number of lines covered by the span.
func (l Location) Lines() int {
	if l.EndLine < l.StartLine {
		return 1
	}
	return l.EndLine - l.StartLine + 1
}

// String formats the location as file:line or file:start-end.
func (l Location) String() string {
	if l.EndLine <= l.StartLine {
		return fmt.Sprintf("%s:%d", l.File, l.StartLine)
	}
	return fmt.Sprintf("%s:%d-%d", l.File, l.StartLine, l.EndLine)
}

// Function is the payload of a [KindFunction] declaration.
type Function struct {
	Params    []string   // parameter names; `self` receivers are excluded
	Variables []Variable // bindings at the top level of the body, in order
	Public    bool       // carries a `pub` visibility modifier
	Lines     int        // size hint consumed by detail rendering and linting
}

// Variable is a named binding in a function body: a `let` with a plain
// identifier pattern, or a local `const`/`static` item.
type Variable struct {
	Name  string
	Type  string // written type annotation, empty when inferred
	Const bool   // declared with `const` or `static`
}

// VariableNames returns the binding names in declaration order.
func (f *Function) VariableNames() []string {
	if f == nil || len(f.Variables) == 0 {
		return nil
	}
	out := make([]string, len(f.Variables))
	for i, v := range f.Variables {
		out[i] = v.Name
	}
	return out
}

// Aggregate is the payload of a [KindAggregate] declaration.
type Aggregate struct {
	Fields  []string // named fields, or "0", "1", ... for tuple structs
	Methods []string // methods from impl blocks in the same file
}

// Method is one method signature declared by a contract.
type Method struct {
	Name  string
	Arity int // parameter count excluding the receiver
}

// String formats the method as name/arity.
func (m Method) String() string { return fmt.Sprintf("%s/%d", m.Name, m.Arity) }

// Contract is the payload of a [KindContract] declaration.
type Contract struct {
	Methods []Method
}

// Variant is the payload of a [KindVariant] declaration.
type Variant struct {
	Cases   []string
	Methods []string // methods from impl blocks in the same file
}

// Declaration is a named, located, kind-tagged code entity. Exactly one of
// the payload pointers is set, matching Kind.
type Declaration struct {
	Name string
	Kind Kind
	Loc  Location

	Function  *Function
	Aggregate *Aggregate
	Contract  *Contract
	Variant   *Variant
}

// NewFunction builds a function declaration. The line count is derived from
// the location.
func NewFunction(name string, loc Location, params []string, public bool) Declaration {
	return Declaration{
		Name:     name,
		Kind:     KindFunction,
		Loc:      loc,
		Function: &Function{Params: params, Public: public, Lines: loc.Lines()},
	}
}

// NewAggregate builds an aggregate declaration.
func NewAggregate(name string, loc Location, fields []string) Declaration {
	return Declaration{
		Name:      name,
		Kind:      KindAggregate,
		Loc:       loc,
		Aggregate: &Aggregate{Fields: fields},
	}
}

// NewContract builds a contract declaration.
func NewContract(name string, loc Location, methods []Method) Declaration {
	return Declaration{
		Name:     name,
		Kind:     KindContract,
		Loc:      loc,
		Contract: &Contract{Methods: methods},
	}
}

// NewVariant builds a variant declaration.
func NewVariant(name string, loc Location, cases []string) Declaration {
	return Declaration{
		Name:    name,
		Kind:    KindVariant,
		Loc:     loc,
		Variant: &Variant{Cases: cases},
	}
}

// Clone returns a copy that shares no memory with d.
func (d Declaration) Clone() Declaration {
	if d.Function != nil {
		f := *d.Function
		f.Params = slices.Clone(f.Params)
		f.Variables = slices.Clone(f.Variables)
		d.Function = &f
	}
	if d.Aggregate != nil {
		a := *d.Aggregate
		a.Fields = slices.Clone(a.Fields)
		a.Methods = slices.Clone(a.Methods)
		d.Aggregate = &a
	}
	if d.Contract != nil {
		c := *d.Contract
		c.Methods = slices.Clone(c.Methods)
		d.Contract = &c
	}
	if d.Variant != nil {
		v := *d.Variant
		v.Cases = slices.Clone(v.Cases)
		v.Methods = slices.Clone(v.Methods)
		d.Variant = &v
	}
	return d
}

var (
	// ErrEmptyDeclarationName is returned for declarations without a name.
	ErrEmptyDeclarationName = errors.New("declaration name must not be empty")

	// ErrPayloadMismatch is returned when the payload pointers do not match
	// the declaration kind.
	ErrPayloadMismatch = errors.New("declaration payload does not match kind")
)

// Validate checks that the declaration is well formed: a non-empty name and
// exactly one payload, the one matching Kind.
func (d Declaration) Validate() error {
	if d.Name == "" {
		return ErrEmptyDeclarationName
	}
	set := 0
	for _, ok := range []bool{d.Function != nil, d.Aggregate != nil, d.Contract != nil, d.Variant != nil} {
		if ok {
			set++
		}
	}
	var match bool
	switch d.Kind {
	case KindFunction:
		match = d.Function != nil
	case KindAggregate:
		match = d.Aggregate != nil
	case KindContract:
		match = d.Contract != nil
	case KindVariant:
		match = d.Variant != nil
	}
	if set != 1 || !match {
		return fmt.Errorf("%w: %s %q", ErrPayloadMismatch, d.Kind, d.Name)
	}
	return nil
}

// Members returns the kind-specific member names: parameters, fields,
// method signatures or cases.
func (d Declaration) Members() []string {
	switch d.Kind {
	case KindFunction:
		if d.Function != nil {
			return d.Function.Params
		}
	case KindAggregate:
		if d.Aggregate != nil {
			return d.Aggregate.Fields
		}
	case KindContract:
		if d.Contract != nil {
			out := make([]string, len(d.Contract.Methods))
			for i, m := range d.Contract.Methods {
				out[i] = m.String()
			}
			return out
		}
	case KindVariant:
		if d.Variant != nil {
			return d.Variant.Cases
		}
	}
	return nil
}

// Methods returns impl methods attached to aggregates and variants.
func (d Declaration) Methods() []string {
	switch {
	case d.Aggregate != nil:
		return d.Aggregate.Methods
	case d.Variant != nil:
		return d.Variant.Methods
	}
	return nil
}
