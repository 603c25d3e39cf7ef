// value.go — runtime values and lexical environments.
//
// Value is a small tagged struct rather than an interface: the evaluator
// switches on Tag constantly and the flat layout keeps that cheap. Exactly
// one payload field is meaningful per tag.
//
// Booleans exist at runtime even though no numeric variant carries them:
// comparisons produce them and ∧/∨/¬ and case guards consume them.
package am

// ValueTag discriminates runtime values.
type ValueTag int

const (
	TagNumber ValueTag = iota
	TagStr
	TagBool
	TagAlgorithm
)

func (t ValueTag) String() string {
	switch t {
	case TagNumber:
		return "number"
	case TagStr:
		return "string"
	case TagBool:
		return "boolean"
	case TagAlgorithm:
		return "algorithm"
	}
	return "value"
}

// Value is one AM runtime value.
type Value struct {
	Tag  ValueTag
	Num  Number
	Str  string
	Bool bool
	Alg  *Algorithm
}

func NumberVal(n Number) Value  { return Value{Tag: TagNumber, Num: n} }
func StrVal(s string) Value     { return Value{Tag: TagStr, Str: s} }
func BoolVal(b bool) Value      { return Value{Tag: TagBool, Bool: b} }
func AlgVal(a *Algorithm) Value { return Value{Tag: TagAlgorithm, Alg: a} }

// Algorithm is a first-class closure: parameters, an unevaluated body and
// the environment captured at definition time. Built-ins set Native instead
// of Body; exactly one of the two is non-nil.
type Algorithm struct {
	Name   string
	Params []string
	Body   Expr
	Env    *Env
	Native func(args []Value) (Value, error)
}

// Env is a lexical scope: a mutable name table chained to its parent.
// Lookup walks outward; definition always writes the local table, so a
// `let` for an existing name in the same scope overwrites it while an
// outer binding of the same name is shadowed, not modified.
type Env struct {
	vars   map[string]Value
	parent *Env
}

// NewEnv creates a scope chained to parent (nil for the root).
func NewEnv(parent *Env) *Env {
	return &Env{vars: make(map[string]Value), parent: parent}
}

// Define binds name in this scope, overwriting any same-scope binding.
func (e *Env) Define(name string, v Value) {
	e.vars[name] = v
}

// Get resolves name through the scope chain.
func (e *Env) Get(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}
