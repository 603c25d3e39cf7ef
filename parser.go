// parser.go — recursive-descent parser for AM.
//
// OVERVIEW
// --------
// The parser consumes the canonical token stream produced by the lexer
// (lexer.go) and builds the typed AST (ast.go). Alias resolution already
// happened in the lexer, so there is exactly one grammar here.
//
// Precedence ladder, lowest to highest:
//
//	pipe  >>                                   (left-assoc)
//	or    ∨                                    (left-assoc, short-circuit)
//	and   ∧                                    (left-assoc, short-circuit)
//	not   ¬                                    (prefix)
//	cmp   =  ≠  <  ≤  >  ≥                     (left-assoc, non-chaining)
//	add   +  -                                 (left-assoc)
//	mul   *  /  %                              (left-assoc)
//	neg   unary -                              (prefix)
//	pow   ^                                    (right-assoc, binds over neg)
//	primary: literals, names, @refs, (expr), case…end, calls
//
// `-2^2` parses as `-(2^2)` and `2^3^2` as `2^(3^2)`.
//
// Whitespace-sensitive signals from the lexer are respected:
//   - '(' can be LPAREN or CALLPAREN; only CALLPAREN continues a call.
//   - NEWLINE separates statements and case arms; runs were collapsed and
//     none are emitted inside parens or interpolation spans.
//
// The single EQUALS token is disambiguated by position: at a binding site
// (`let x = …`, `@F(…) = …`) it is the binder, anywhere in an expression it
// is equality.
//
// All failures are *ParseError values with a kind and the offending token's
// position. The parser is fail-fast: no recovery, no resynchronization.
package am

/* ---------- public API ---------- */

// Parse tokenizes and parses a complete AM source string.
func Parse(src string) (*Program, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

// ParseTokens parses an EOF-terminated token stream into a program.
func ParseTokens(toks []Token) (*Program, error) {
	p := &parser{toks: toks}
	return p.program()
}

/* ---------- parser state ---------- */

type parser struct {
	toks []Token
	pos  int
}

func (p *parser) peek() Token { return p.toks[p.pos] }

func (p *parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() Token {
	t := p.toks[p.pos]
	if t.Type != EOF {
		p.pos++
	}
	return t
}

func (p *parser) check(tt TokenType) bool { return p.peek().Type == tt }

func (p *parser) match(tt TokenType) bool {
	if p.check(tt) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(tt TokenType, expected string) (Token, error) {
	if p.check(tt) {
		return p.next(), nil
	}
	return Token{}, p.unexpected(expected)
}

func (p *parser) skipNewlines() {
	for p.check(NEWLINE) {
		p.next()
	}
}

func (p *parser) at() Pos {
	t := p.peek()
	return Pos{Line: t.Line, Col: t.Col}
}

/* ---------- errors ---------- */

func (p *parser) unexpected(expected string) error {
	t := p.peek()
	return &ParseError{
		Kind:     ParseUnexpectedToken,
		Expected: expected,
		Found:    describeToken(t),
		Line:     t.Line,
		Col:      t.Col,
	}
}

func (p *parser) errKind(kind ParseErrorKind, msg string, at Pos) error {
	return &ParseError{Kind: kind, Found: msg, Line: at.Line, Col: at.Col}
}

// describeToken names a token for error messages.
func describeToken(t Token) string {
	switch t.Type {
	case EOF:
		return "end of input"
	case NEWLINE:
		return "end of line"
	case STRING:
		return "string literal"
	case INT, RAT, FLOAT:
		return "number " + t.Lexeme
	case IDENT:
		return "'" + t.Lexeme + "'"
	}
	if t.Lexeme != "" {
		return "'" + t.Lexeme + "'"
	}
	return "token"
}

/* ---------- statements ---------- */

func (p *parser) program() (*Program, error) {
	prog := &Program{}
	for {
		p.skipNewlines()
		if p.check(EOF) {
			return prog, nil
		}
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, s)
		if !p.check(EOF) && !p.check(NEWLINE) {
			return nil, p.unexpected("end of statement")
		}
	}
}

func (p *parser) statement() (Stmt, error) {
	switch {
	case p.check(LET):
		return p.letStatement()
	case p.check(AT) && p.looksLikeDefinition():
		return p.algorithmDef()
	default:
		x, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &ExprStmt{X: x}, nil
	}
}

func (p *parser) letStatement() (Stmt, error) {
	at := p.at()
	p.next() // let
	name, err := p.expect(IDENT, "a name after 'let'")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(EQUALS, "'=' after the name"); err != nil {
		return nil, err
	}
	x, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &Let{Name: name.Lexeme, X: x, At: at}, nil
}

// looksLikeDefinition distinguishes `@Name(p1, …, pn) = body` from an
// expression statement that merely starts with an @-reference or a call.
// The definition shape is rigid: flat identifier parameters followed by '='.
func (p *parser) looksLikeDefinition() bool {
	i := 1 // past AT
	if p.peekAt(i).Type != IDENT {
		return false
	}
	i++
	if tt := p.peekAt(i).Type; tt != LPAREN && tt != CALLPAREN {
		return false
	}
	i++
	if p.peekAt(i).Type != RPAREN {
		for {
			if p.peekAt(i).Type != IDENT {
				return false
			}
			i++
			if p.peekAt(i).Type == COMMA {
				i++
				continue
			}
			break
		}
		if p.peekAt(i).Type != RPAREN {
			return false
		}
	}
	i++
	return p.peekAt(i).Type == EQUALS
}

func (p *parser) algorithmDef() (Stmt, error) {
	at := p.at()
	p.next() // @
	name := p.next()
	p.next() // ( — shape verified by looksLikeDefinition

	var params []string
	if !p.check(RPAREN) {
		for {
			params = append(params, p.next().Lexeme)
			if !p.match(COMMA) {
				break
			}
		}
	}
	p.next() // )
	p.next() // =

	body, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &AlgorithmDef{Name: name.Lexeme, Params: params, Body: body, At: at}, nil
}

/* ---------- expressions ---------- */

func (p *parser) expression() (Expr, error) { return p.pipe() }

func (p *parser) pipe() (Expr, error) {
	at := p.at()
	head, err := p.logicalOr()
	if err != nil {
		return nil, err
	}
	if !p.check(PIPE) {
		return head, nil
	}
	var steps []Expr
	for p.match(PIPE) {
		step, err := p.logicalOr()
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return &Pipe{Head: head, Steps: steps, At: at}, nil
}

func (p *parser) logicalOr() (Expr, error) {
	x, err := p.logicalAnd()
	if err != nil {
		return nil, err
	}
	for p.check(OR) {
		at := p.at()
		p.next()
		y, err := p.logicalAnd()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: OpOr, X: x, Y: y, At: at}
	}
	return x, nil
}

func (p *parser) logicalAnd() (Expr, error) {
	x, err := p.logicalNot()
	if err != nil {
		return nil, err
	}
	for p.check(AND) {
		at := p.at()
		p.next()
		y, err := p.logicalNot()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: OpAnd, X: x, Y: y, At: at}
	}
	return x, nil
}

func (p *parser) logicalNot() (Expr, error) {
	if p.check(NOT) {
		at := p.at()
		p.next()
		x, err := p.logicalNot()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: OpNot, X: x, At: at}, nil
	}
	return p.comparison()
}

func comparisonOp(tt TokenType) (Op, bool) {
	switch tt {
	case EQUALS:
		return OpEq, true
	case NEQ:
		return OpNe, true
	case LESS:
		return OpLt, true
	case LESSEQ:
		return OpLe, true
	case GREATER:
		return OpGt, true
	case GREATEREQ:
		return OpGe, true
	}
	return 0, false
}

func (p *parser) comparison() (Expr, error) {
	x, err := p.additive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisonOp(p.peek().Type)
		if !ok {
			return x, nil
		}
		at := p.at()
		p.next()
		y, err := p.additive()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: op, X: x, Y: y, At: at}
	}
}

func (p *parser) additive() (Expr, error) {
	x, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(PLUS) || p.check(MINUS) {
		at := p.at()
		op := OpAdd
		if p.next().Type == MINUS {
			op = OpSub
		}
		y, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: op, X: x, Y: y, At: at}
	}
	return x, nil
}

func (p *parser) multiplicative() (Expr, error) {
	x, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.check(STAR) || p.check(SLASH) || p.check(PERCENT) {
		at := p.at()
		var op Op
		switch p.next().Type {
		case STAR:
			op = OpMul
		case SLASH:
			op = OpDiv
		default:
			op = OpMod
		}
		y, err := p.unary()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: op, X: x, Y: y, At: at}
	}
	return x, nil
}

func (p *parser) unary() (Expr, error) {
	if p.check(MINUS) {
		at := p.at()
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: OpNeg, X: x, At: at}, nil
	}
	return p.power()
}

func (p *parser) power() (Expr, error) {
	base, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if !p.check(CARET) {
		return base, nil
	}
	at := p.at()
	p.next()
	// Right-assoc, and the exponent may itself be negated: 2^-1.
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: OpPow, X: base, Y: exp, At: at}, nil
}

func (p *parser) postfix() (Expr, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.check(CALLPAREN) {
		at := p.at()
		p.next()
		args, err := p.callArgs()
		if err != nil {
			return nil, err
		}
		x = &Call{Fn: x, Args: args, At: at}
	}
	return x, nil
}

// callArgs parses the argument list after a consumed CALLPAREN.
func (p *parser) callArgs() ([]Expr, error) {
	var args []Expr
	if p.match(RPAREN) {
		return args, nil
	}
	for {
		a, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if !p.match(COMMA) {
			break
		}
	}
	if !p.check(RPAREN) {
		t := p.peek()
		return nil, &ParseError{
			Kind:  ParseUnbalancedDelimiter,
			Found: "unbalanced '(': expected ')' after call arguments, found " + describeToken(t),
			Line:  t.Line, Col: t.Col,
		}
	}
	p.next()
	return args, nil
}

func (p *parser) primary() (Expr, error) {
	at := p.at()
	switch p.peek().Type {
	case INT, RAT, FLOAT:
		t := p.next()
		return &NumberLit{Val: t.Literal.(Number), At: at}, nil

	case PI:
		p.next()
		return &NumberLit{Val: Pi, At: at}, nil
	case EULER:
		p.next()
		return &NumberLit{Val: Euler, At: at}, nil
	case INF:
		p.next()
		return &NumberLit{Val: Infinity, At: at}, nil
	case NAN:
		p.next()
		return &NumberLit{Val: NaN, At: at}, nil

	case BOOL:
		t := p.next()
		return &BoolLit{Val: t.Literal.(bool), At: at}, nil

	case STRING:
		t := p.next()
		return p.stringLit(t, at)

	case IDENT:
		t := p.next()
		return &Var{Name: t.Lexeme, At: at}, nil

	case AT:
		p.next()
		name, err := p.expect(IDENT, "an algorithm name after '@'")
		if err != nil {
			return nil, err
		}
		return &AlgorithmRef{Name: name.Lexeme, At: at}, nil

	case LPAREN, CALLPAREN:
		open := p.next()
		x, err := p.expression()
		if err != nil {
			return nil, err
		}
		if !p.check(RPAREN) {
			t := p.peek()
			return nil, &ParseError{
				Kind:  ParseUnbalancedDelimiter,
				Found: "unbalanced '(' opened at " + Pos{open.Line, open.Col}.String() + ", found " + describeToken(t),
				Line:  t.Line, Col: t.Col,
			}
		}
		p.next()
		return x, nil

	case CASE:
		return p.caseExpr()
	}
	return nil, p.unexpected("an expression")
}

// stringLit assembles a StringLit, sub-parsing each interpolation span's
// token stream into an expression.
func (p *parser) stringLit(t Token, at Pos) (Expr, error) {
	raw := t.Literal.([]StringPart)
	parts := make([]StrPart, 0, len(raw))
	for _, part := range raw {
		if part.Toks == nil {
			parts = append(parts, StrPart{Text: part.Text})
			continue
		}
		sub := &parser{toks: part.Toks}
		x, err := sub.expression()
		if err != nil {
			return nil, err
		}
		if !sub.check(EOF) {
			return nil, sub.unexpected("end of interpolation")
		}
		parts = append(parts, StrPart{X: x})
	}
	return &StringLit{Parts: parts, At: at}, nil
}

/* ---------- case … end ---------- */

// caseExpr parses `case [of] arm… end` where each arm is `guard => result`
// or `_ => result`, arms separated by newlines. The wildcard must be the
// last arm and at least one arm is required.
func (p *parser) caseExpr() (Expr, error) {
	at := p.at()
	p.next() // case
	p.match(OF)
	p.skipNewlines()

	var arms []Arm
	sawWildcard := false
	for !p.check(END) {
		if p.check(EOF) {
			return nil, p.errKind(ParseUnbalancedDelimiter, "'case' opened at "+at.String()+" was never closed with 'end'", p.at())
		}
		armAt := p.at()
		var guard Expr
		if p.check(UNDERSCORE) {
			p.next()
		} else {
			g, err := p.expression()
			if err != nil {
				return nil, err
			}
			guard = g
		}
		if !p.match(FATARROW) && !p.match(ARROW) {
			return nil, p.unexpected("'=>' after the case guard")
		}
		result, err := p.expression()
		if err != nil {
			return nil, err
		}
		if sawWildcard {
			return nil, p.errKind(ParseWildcardNotLast, "wildcard arm '_' must be the last arm of a case", armAt)
		}
		if guard == nil {
			sawWildcard = true
		}
		arms = append(arms, Arm{Guard: guard, Result: result})
		p.skipNewlines()
	}
	end := p.at()
	p.next() // end
	if len(arms) == 0 {
		return nil, p.errKind(ParseEmptyCaseBlock, "a case needs at least one arm", end)
	}
	return &CaseExpr{Arms: arms, At: at}, nil
}
