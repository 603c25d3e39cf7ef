// interp.go — the tree-walking evaluator.
//
// OVERVIEW
// --------
// Statements run in source order against one running environment; every
// statement yields a value (a `let` and an `@…` definition yield the bound
// value). Evaluation is eager except where the language says otherwise:
// ∧ and ∨ short-circuit, case arms evaluate their guards top to bottom and
// only the selected arm's result ever runs.
//
// Calls get a fresh scope whose parent is the closure's captured
// environment, so visibility follows definition sites, not call sites.
// An `@Name(…) = body` definition writes the closure into the defining
// scope before any call happens, which is all direct recursion needs.
//
// The recursion depth is bounded: exceeding MaxDepth is a reported
// RuntimeError, never a host stack fault.
//
// All runtime failures are *RuntimeError values carrying the position the
// parser recorded on the originating node.
package am

import "fmt"

// TraceFunc observes each completed statement and its value.
type TraceFunc func(s Stmt, v Value)

// DefaultMaxDepth bounds call nesting when the host sets nothing.
const DefaultMaxDepth = 2000

// Interp evaluates programs against a persistent root environment.
type Interp struct {
	Root     *Env
	Trace    TraceFunc
	MaxDepth int

	depth int
}

// NewInterp creates an interpreter whose root environment holds the
// built-in algorithms.
func NewInterp() *Interp {
	root := NewEnv(nil)
	defineBuiltins(root)
	return &Interp{Root: root, MaxDepth: DefaultMaxDepth}
}

// Run evaluates every statement of the program. It returns the values of
// the statements that completed; on error those values are still returned
// alongside it and the remaining statements do not run.
func (in *Interp) Run(prog *Program) ([]Value, error) {
	var out []Value
	for _, s := range prog.Stmts {
		v, err := in.evalStmt(in.Root, s)
		if err != nil {
			return out, err
		}
		out = append(out, v)
		if in.Trace != nil {
			in.Trace(s, v)
		}
	}
	return out, nil
}

// RunSource parses and runs src in one step.
func (in *Interp) RunSource(src string) ([]Value, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return in.Run(prog)
}

/* ---------- statements ---------- */

func (in *Interp) evalStmt(env *Env, s Stmt) (Value, error) {
	switch st := s.(type) {
	case *Let:
		v, err := in.eval(env, st.X)
		if err != nil {
			return Value{}, err
		}
		env.Define(st.Name, v)
		return v, nil

	case *AlgorithmDef:
		alg := &Algorithm{Name: st.Name, Params: st.Params, Body: st.Body, Env: env}
		v := AlgVal(alg)
		env.Define(st.Name, v)
		return v, nil

	case *ExprStmt:
		return in.eval(env, st.X)
	}
	return Value{}, runErr(RunTypeMismatch, s.Pos(), "unknown statement")
}

/* ---------- expressions ---------- */

func (in *Interp) eval(env *Env, e Expr) (Value, error) {
	switch ex := e.(type) {
	case *NumberLit:
		return NumberVal(ex.Val), nil

	case *BoolLit:
		return BoolVal(ex.Val), nil

	case *StringLit:
		return in.evalString(env, ex)

	case *Var:
		v, ok := env.Get(ex.Name)
		if !ok {
			return Value{}, runErr(RunUnboundVariable, ex.At, "name %q is not bound", ex.Name)
		}
		return v, nil

	case *AlgorithmRef:
		v, ok := env.Get(ex.Name)
		if !ok {
			return Value{}, runErr(RunUnboundVariable, ex.At, "algorithm @%s is not defined", ex.Name)
		}
		return v, nil

	case *Unary:
		return in.evalUnary(env, ex)

	case *Binary:
		return in.evalBinary(env, ex)

	case *Call:
		return in.evalCall(env, ex)

	case *CaseExpr:
		return in.evalCase(env, ex)

	case *Pipe:
		return in.evalPipe(env, ex)
	}
	return Value{}, runErr(RunTypeMismatch, e.Pos(), "unknown expression")
}

func (in *Interp) evalString(env *Env, s *StringLit) (Value, error) {
	var out string
	for _, part := range s.Parts {
		if part.X == nil {
			out += part.Text
			continue
		}
		v, err := in.eval(env, part.X)
		if err != nil {
			return Value{}, err
		}
		out += Render(v)
	}
	return StrVal(out), nil
}

func (in *Interp) evalUnary(env *Env, u *Unary) (Value, error) {
	x, err := in.eval(env, u.X)
	if err != nil {
		return Value{}, err
	}
	switch u.Op {
	case OpNeg:
		if x.Tag != TagNumber {
			return Value{}, runErr(RunTypeMismatch, u.At, "unary '-' needs a number, got %s", x.Tag)
		}
		return NumberVal(NumNeg(x.Num)), nil
	case OpNot:
		if x.Tag != TagBool {
			return Value{}, runErr(RunTypeMismatch, u.At, "'¬' needs a boolean, got %s", x.Tag)
		}
		return BoolVal(!x.Bool), nil
	}
	return Value{}, runErr(RunTypeMismatch, u.At, "unknown unary operator")
}

func (in *Interp) evalBinary(env *Env, b *Binary) (Value, error) {
	// Short-circuit forms first; their right side may never run.
	if b.Op == OpAnd || b.Op == OpOr {
		x, err := in.eval(env, b.X)
		if err != nil {
			return Value{}, err
		}
		if x.Tag != TagBool {
			return Value{}, runErr(RunTypeMismatch, b.At, "'%s' needs boolean operands, got %s", b.Op, x.Tag)
		}
		if b.Op == OpAnd && !x.Bool {
			return BoolVal(false), nil
		}
		if b.Op == OpOr && x.Bool {
			return BoolVal(true), nil
		}
		y, err := in.eval(env, b.Y)
		if err != nil {
			return Value{}, err
		}
		if y.Tag != TagBool {
			return Value{}, runErr(RunTypeMismatch, b.At, "'%s' needs boolean operands, got %s", b.Op, y.Tag)
		}
		return BoolVal(y.Bool), nil
	}

	x, err := in.eval(env, b.X)
	if err != nil {
		return Value{}, err
	}
	y, err := in.eval(env, b.Y)
	if err != nil {
		return Value{}, err
	}

	switch b.Op {
	case OpEq:
		return BoolVal(valueEqual(x, y)), nil
	case OpNe:
		return BoolVal(!valueEqual(x, y)), nil
	case OpLt, OpLe, OpGt, OpGe:
		return in.evalRelational(b, x, y)
	}

	// Arithmetic.
	if x.Tag != TagNumber || y.Tag != TagNumber {
		return Value{}, runErr(RunTypeMismatch, b.At, "'%s' needs numeric operands, got %s and %s", b.Op, x.Tag, y.Tag)
	}
	var n Number
	switch b.Op {
	case OpAdd:
		n, err = NumAdd(x.Num, y.Num)
	case OpSub:
		n, err = NumSub(x.Num, y.Num)
	case OpMul:
		n, err = NumMul(x.Num, y.Num)
	case OpDiv:
		n, err = NumDiv(x.Num, y.Num)
	case OpMod:
		n, err = NumMod(x.Num, y.Num)
	case OpPow:
		n, err = NumPow(x.Num, y.Num)
	default:
		return Value{}, runErr(RunTypeMismatch, b.At, "unknown operator '%s'", b.Op)
	}
	if err == ErrDivisionByZero {
		return Value{}, runErr(RunDivisionByZero, b.At, "division by zero")
	}
	if err != nil {
		return Value{}, runErr(RunTypeMismatch, b.At, "%s", err)
	}
	return NumberVal(n), nil
}

func (in *Interp) evalRelational(b *Binary, x, y Value) (Value, error) {
	if x.Tag != TagNumber || y.Tag != TagNumber {
		return Value{}, runErr(RunTypeMismatch, b.At, "'%s' needs numeric operands, got %s and %s", b.Op, x.Tag, y.Tag)
	}
	c, ok := NumCompare(x.Num, y.Num)
	if !ok {
		// NaN involved; every relational is false.
		return BoolVal(false), nil
	}
	switch b.Op {
	case OpLt:
		return BoolVal(c < 0), nil
	case OpLe:
		return BoolVal(c <= 0), nil
	case OpGt:
		return BoolVal(c > 0), nil
	default:
		return BoolVal(c >= 0), nil
	}
}

// valueEqual is structural equality across the value kinds. Values of
// different kinds are simply unequal; NaN is unequal to everything,
// itself included.
func valueEqual(x, y Value) bool {
	if x.Tag != y.Tag {
		return false
	}
	switch x.Tag {
	case TagNumber:
		return NumEqual(x.Num, y.Num)
	case TagStr:
		return x.Str == y.Str
	case TagBool:
		return x.Bool == y.Bool
	case TagAlgorithm:
		return x.Alg == y.Alg
	}
	return false
}

func (in *Interp) evalCall(env *Env, c *Call) (Value, error) {
	fn, err := in.eval(env, c.Fn)
	if err != nil {
		return Value{}, err
	}
	args := make([]Value, len(c.Args))
	for i, a := range c.Args {
		v, err := in.eval(env, a)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	return in.apply(fn, args, c.At)
}

// apply invokes a callable value with already-evaluated arguments.
func (in *Interp) apply(fn Value, args []Value, at Pos) (Value, error) {
	if fn.Tag != TagAlgorithm {
		return Value{}, runErr(RunNotCallable, at, "cannot call a %s", fn.Tag)
	}
	alg := fn.Alg
	if len(args) != len(alg.Params) {
		return Value{}, runErr(RunArityMismatch, at,
			"@%s takes %d argument(s), got %d", alg.Name, len(alg.Params), len(args))
	}

	if in.depth >= in.maxDepth() {
		return Value{}, runErr(RunStackOverflow, at, "call depth exceeded %d", in.maxDepth())
	}
	in.depth++
	defer func() { in.depth-- }()

	if alg.Native != nil {
		v, err := alg.Native(args)
		if err != nil {
			if _, ok := err.(*RuntimeError); ok {
				return Value{}, err
			}
			return Value{}, runErr(RunTypeMismatch, at, "@%s: %s", alg.Name, err)
		}
		return v, nil
	}

	frame := NewEnv(alg.Env)
	for i, p := range alg.Params {
		frame.Define(p, args[i])
	}
	return in.eval(frame, alg.Body)
}

func (in *Interp) maxDepth() int {
	if in.MaxDepth > 0 {
		return in.MaxDepth
	}
	return DefaultMaxDepth
}

func (in *Interp) evalCase(env *Env, c *CaseExpr) (Value, error) {
	for _, arm := range c.Arms {
		if arm.Guard == nil {
			return in.eval(env, arm.Result)
		}
		g, err := in.eval(env, arm.Guard)
		if err != nil {
			return Value{}, err
		}
		if g.Tag != TagBool {
			return Value{}, runErr(RunTypeMismatch, arm.Guard.Pos(), "case guard must be a boolean, got %s", g.Tag)
		}
		if g.Bool {
			return in.eval(env, arm.Result)
		}
	}
	return Value{}, runErr(RunNoMatchingArm, c.At, "no case arm matched")
}

// evalPipe feeds the head value through each step as its first argument.
// A bare callable step receives the value alone; a call step receives it
// prepended to the written arguments.
func (in *Interp) evalPipe(env *Env, p *Pipe) (Value, error) {
	cur, err := in.eval(env, p.Head)
	if err != nil {
		return Value{}, err
	}
	for _, step := range p.Steps {
		if call, ok := step.(*Call); ok {
			fn, err := in.eval(env, call.Fn)
			if err != nil {
				return Value{}, err
			}
			args := make([]Value, 0, len(call.Args)+1)
			args = append(args, cur)
			for _, a := range call.Args {
				v, err := in.eval(env, a)
				if err != nil {
					return Value{}, err
				}
				args = append(args, v)
			}
			cur, err = in.apply(fn, args, call.At)
			if err != nil {
				return Value{}, err
			}
			continue
		}
		fn, err := in.eval(env, step)
		if err != nil {
			return Value{}, err
		}
		cur, err = in.apply(fn, []Value{cur}, step.Pos())
		if err != nil {
			return Value{}, err
		}
	}
	return cur, nil
}

/* ---------- built-ins ---------- */

func defineBuiltins(root *Env) {
	root.Define("sqrt", AlgVal(&Algorithm{
		Name:   "sqrt",
		Params: []string{"x"},
		Native: func(args []Value) (Value, error) {
			if args[0].Tag != TagNumber {
				return Value{}, fmt.Errorf("needs a number, got %s", args[0].Tag)
			}
			return NumberVal(NumSqrt(args[0].Num)), nil
		},
	}))
	root.Define("abs", AlgVal(&Algorithm{
		Name:   "abs",
		Params: []string{"x"},
		Native: func(args []Value) (Value, error) {
			if args[0].Tag != TagNumber {
				return Value{}, fmt.Errorf("needs a number, got %s", args[0].Tag)
			}
			return NumberVal(NumAbs(args[0].Num)), nil
		},
	}))
}

func runErr(kind RuntimeErrorKind, at Pos, format string, args ...any) error {
	return &RuntimeError{Kind: kind, Msg: fmt.Sprintf(format, args...), Line: at.Line, Col: at.Col}
}
