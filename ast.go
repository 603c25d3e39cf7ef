// ast.go — the typed AM syntax tree.
//
// The tree is immutable once the parser returns it: every node owns its
// children exclusively and nothing rewrites a node after construction.
// Each node carries the source position of its first token so runtime
// errors can point back into the program text.
package am

import (
	"fmt"
	"strings"
)

// Pos is a 1-based line/column source position.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// Node is anything with a source position.
type Node interface {
	Pos() Pos
}

// Stmt is a top-level statement; Expr is an expression.
type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}

// Program is an ordered sequence of top-level statements.
type Program struct {
	Stmts []Stmt
}

/* ---------- statements ---------- */

// Let binds one name to the value of an expression.
type Let struct {
	Name string
	X    Expr
	At   Pos
}

// AlgorithmDef introduces a named closure: @Name(p1, …, pn) = body.
type AlgorithmDef struct {
	Name   string
	Params []string
	Body   Expr
	At     Pos
}

// ExprStmt is a bare expression whose value is a program result.
type ExprStmt struct {
	X Expr
}

func (s *Let) Pos() Pos          { return s.At }
func (s *AlgorithmDef) Pos() Pos { return s.At }
func (s *ExprStmt) Pos() Pos     { return s.X.Pos() }

func (*Let) stmtNode()          {}
func (*AlgorithmDef) stmtNode() {}
func (*ExprStmt) stmtNode()     {}

/* ---------- expressions ---------- */

// Op enumerates unary and binary operators in their canonical spelling.
type Op int

const (
	OpAdd Op = iota // +
	OpSub           // -
	OpMul           // *
	OpDiv           // /
	OpMod           // %
	OpPow           // ^
	OpEq            // =
	OpNe            // ≠
	OpLt            // <
	OpLe            // ≤
	OpGt            // >
	OpGe            // ≥
	OpAnd           // ∧
	OpOr            // ∨
	OpNot           // ¬
	OpNeg           // unary -
)

func (op Op) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub, OpNeg:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpPow:
		return "^"
	case OpEq:
		return "="
	case OpNe:
		return "≠"
	case OpLt:
		return "<"
	case OpLe:
		return "≤"
	case OpGt:
		return ">"
	case OpGe:
		return "≥"
	case OpAnd:
		return "∧"
	case OpOr:
		return "∨"
	case OpNot:
		return "¬"
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// NumberLit is a numeric literal (already decoded by the lexer).
type NumberLit struct {
	Val Number
	At  Pos
}

// BoolLit is true or false.
type BoolLit struct {
	Val bool
	At  Pos
}

// StrPart is one segment of a string literal: either literal text or an
// embedded expression. Exactly one of the two is set.
type StrPart struct {
	Text string
	X    Expr
}

// StringLit is a string literal; Parts preserves source order. A plain
// string has a single text part.
type StringLit struct {
	Parts []StrPart
	At    Pos
}

// Var references a bound name.
type Var struct {
	Name string
	At   Pos
}

// AlgorithmRef is @Name used as a value rather than invoked.
type AlgorithmRef struct {
	Name string
	At   Pos
}

// Unary applies ¬ or unary minus.
type Unary struct {
	Op Op
	X  Expr
	At Pos
}

// Binary applies an infix operator.
type Binary struct {
	Op   Op
	X, Y Expr
	At   Pos
}

// Call invokes a callee expression with arguments.
type Call struct {
	Fn   Expr
	Args []Expr
	At   Pos
}

// Arm is one case arm. A nil Guard is the wildcard `_`.
type Arm struct {
	Guard  Expr
	Result Expr
}

// CaseExpr is an ordered multi-branch conditional; the parser guarantees at
// least one arm and that a wildcard, if present, is last.
type CaseExpr struct {
	Arms []Arm
	At   Pos
}

// Pipe feeds the head value through each step as its first argument:
// x >> f >> @G(a) calls f(x) then G(f(x), a).
type Pipe struct {
	Head  Expr
	Steps []Expr
	At    Pos
}

func (e *NumberLit) Pos() Pos    { return e.At }
func (e *BoolLit) Pos() Pos      { return e.At }
func (e *StringLit) Pos() Pos    { return e.At }
func (e *Var) Pos() Pos          { return e.At }
func (e *AlgorithmRef) Pos() Pos { return e.At }
func (e *Unary) Pos() Pos        { return e.At }
func (e *Binary) Pos() Pos       { return e.At }
func (e *Call) Pos() Pos         { return e.At }
func (e *CaseExpr) Pos() Pos     { return e.At }
func (e *Pipe) Pos() Pos         { return e.At }

func (*NumberLit) exprNode()    {}
func (*BoolLit) exprNode()      {}
func (*StringLit) exprNode()    {}
func (*Var) exprNode()          {}
func (*AlgorithmRef) exprNode() {}
func (*Unary) exprNode()        {}
func (*Binary) exprNode()       {}
func (*Call) exprNode()         {}
func (*CaseExpr) exprNode()     {}
func (*Pipe) exprNode()         {}

/* ---------- tree formatting (the CLI's --ast view) ---------- */

// FormatProgram renders an indented tree of the whole program.
func FormatProgram(p *Program) string {
	var b strings.Builder
	for _, s := range p.Stmts {
		formatStmt(&b, s, 0)
	}
	return b.String()
}

func formatStmt(b *strings.Builder, s Stmt, depth int) {
	pad := strings.Repeat("  ", depth)
	switch st := s.(type) {
	case *Let:
		fmt.Fprintf(b, "%sLet %s\n", pad, st.Name)
		formatExpr(b, st.X, depth+1)
	case *AlgorithmDef:
		fmt.Fprintf(b, "%sAlgorithmDef %s(%s)\n", pad, st.Name, strings.Join(st.Params, ", "))
		formatExpr(b, st.Body, depth+1)
	case *ExprStmt:
		fmt.Fprintf(b, "%sExprStmt\n", pad)
		formatExpr(b, st.X, depth+1)
	}
}

func formatExpr(b *strings.Builder, e Expr, depth int) {
	pad := strings.Repeat("  ", depth)
	switch ex := e.(type) {
	case *NumberLit:
		fmt.Fprintf(b, "%sNumber %s\n", pad, ex.Val.Render())
	case *BoolLit:
		fmt.Fprintf(b, "%sBool %v\n", pad, ex.Val)
	case *StringLit:
		fmt.Fprintf(b, "%sString\n", pad)
		for _, part := range ex.Parts {
			if part.X == nil {
				fmt.Fprintf(b, "%s  Text %q\n", pad, part.Text)
			} else {
				fmt.Fprintf(b, "%s  Embed\n", pad)
				formatExpr(b, part.X, depth+2)
			}
		}
	case *Var:
		fmt.Fprintf(b, "%sVar %s\n", pad, ex.Name)
	case *AlgorithmRef:
		fmt.Fprintf(b, "%sAlgorithmRef @%s\n", pad, ex.Name)
	case *Unary:
		fmt.Fprintf(b, "%sUnary %s\n", pad, ex.Op)
		formatExpr(b, ex.X, depth+1)
	case *Binary:
		fmt.Fprintf(b, "%sBinary %s\n", pad, ex.Op)
		formatExpr(b, ex.X, depth+1)
		formatExpr(b, ex.Y, depth+1)
	case *Call:
		fmt.Fprintf(b, "%sCall\n", pad)
		formatExpr(b, ex.Fn, depth+1)
		for _, a := range ex.Args {
			formatExpr(b, a, depth+1)
		}
	case *CaseExpr:
		fmt.Fprintf(b, "%sCase\n", pad)
		for _, arm := range ex.Arms {
			if arm.Guard == nil {
				fmt.Fprintf(b, "%s  Wildcard =>\n", pad)
			} else {
				fmt.Fprintf(b, "%s  Arm\n", pad)
				formatExpr(b, arm.Guard, depth+2)
				fmt.Fprintf(b, "%s  =>\n", pad)
			}
			formatExpr(b, arm.Result, depth+2)
		}
	case *Pipe:
		fmt.Fprintf(b, "%sPipe\n", pad)
		formatExpr(b, ex.Head, depth+1)
		for _, s := range ex.Steps {
			fmt.Fprintf(b, "%s  >>\n", pad)
			formatExpr(b, s, depth+2)
		}
	}
}
