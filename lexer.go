// lexer.go — tokenizer for AM source text.
//
// OVERVIEW
// --------
// The lexer turns raw UTF-8 source into a flat token stream. Two properties
// matter more than anything else here:
//
//  1. ASCII aliasing is resolved *now*, not later. `pi` and `π`, `and` and
//     `∧`, `!=` and `≠`, `->` and `→` produce the same token kind, so the
//     parser sees exactly one grammar regardless of how the program was
//     spelled. The alias table is fixed at compile time (see aliasRunes and
//     keywords below); nothing mutates it.
//  2. Scanning is maximal-munch: two-character ASCII operators (`<=`, `>=`,
//     `!=`, `->`, `=>`, `>>`, `==`) are recognized before their one-character
//     prefixes.
//
// Newlines are significant: a NEWLINE token separates statements and case
// arms. Runs of blank lines collapse into one NEWLINE, and no NEWLINE is
// emitted inside parentheses or inside a string interpolation, so wrapped
// expressions keep working.
//
// The lexer is also whitespace-sensitive in one spot: a '(' that directly
// follows something callable (an identifier, a ')' …) becomes CALLPAREN,
// while a '(' with space before it is plain LPAREN. Only CALLPAREN
// continues a call.
//
// String literals may embed `{expr}` interpolation spans. The lexer scans
// those recursively with the same machinery and stores the nested token
// stream in the string token's payload; the parser later runs a sub-parse
// per span.
package am

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TokenType is the canonical token kind after alias resolution.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	NEWLINE
	rbraceSentinel // closes an interpolation span; never reaches the parser

	// Delimiters
	LPAREN     // "(" preceded by whitespace (grouping only)
	CALLPAREN  // "(" glued to a callable (grouping or call)
	RPAREN     // ")"
	COMMA      // ","
	AT         // "@"
	UNDERSCORE // "_" (case wildcard)

	// Operators (canonical kinds; every ASCII alias maps here)
	PLUS      // +
	MINUS     // - or −
	STAR      // * or × or ∗
	SLASH     // / or ÷
	PERCENT   // %
	CARET     // ^
	EQUALS    // = or == or ≡ (binding or equality, by position)
	NEQ       // ≠ or !=
	LESS      // <
	LESSEQ    // ≤ or <=
	GREATER   // >
	GREATEREQ // ≥ or >=
	AND       // ∧ or "and"
	OR        // ∨ or "or"
	NOT       // ¬ or "not"
	ARROW     // → or ->
	FATARROW  // ⇒ or =>
	PIPE      // >>

	// Literals & identifiers
	INT    // integer literal (payload Number)
	RAT    // rational literal a/b (payload Number)
	FLOAT  // float literal (payload Number)
	STRING // string literal (payload []StringPart)
	BOOL   // true / false (payload bool)
	IDENT  // identifier

	// Keywords & named constants
	LET   // let
	CASE  // case
	OF    // of
	END   // end
	PI    // π or "pi"
	EULER // e
	INF   // ∞ or "inf"
	NAN   // NaN
)

// Token is a lexical token with its decoded payload and source position.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any // Number, bool, []StringPart, or nil
	Line    int // 1-based
	Col     int // 1-based, in runes
}

// StringPart is one segment of a string literal's payload: literal text or
// the token stream of an embedded {expr} span (EOF-terminated).
type StringPart struct {
	Text string
	Toks []Token
}

// keywords maps identifier spellings — including the ASCII operator and
// constant aliases — to canonical token kinds.
var keywords = map[string]TokenType{
	"let":   LET,
	"case":  CASE,
	"of":    OF,
	"end":   END,
	"true":  BOOL,
	"false": BOOL,
	"and":   AND,
	"or":    OR,
	"not":   NOT,
	"pi":    PI,
	"inf":   INF,
	"e":     EULER,
	"NaN":   NAN,
}

// aliasRunes maps single Unicode glyphs to canonical kinds. U+2212 (minus
// sign), U+00D7/U+2217 (times) and U+00F7 (divide) fold into the ASCII
// operators; U+2261 (≡) is equality.
var aliasRunes = map[rune]TokenType{
	'∧': AND,
	'∨': OR,
	'¬': NOT,
	'≠': NEQ,
	'≤': LESSEQ,
	'≥': GREATEREQ,
	'→': ARROW,
	'⇒': FATARROW,
	'π': PI,
	'∞': INF,
	'−': MINUS,
	'×': STAR,
	'∗': STAR,
	'÷': SLASH,
	'≡': EQUALS,
}

// Lexer scans one AM source string into tokens.
type Lexer struct {
	src    string
	start  int // byte index of current token start
	cur    int // current byte index
	line   int // 1-based
	col    int // 1-based rune column of cur
	tokens []Token

	whitespaceBefore bool
	parenDepth       int
	interpDepth      int

	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Tokenize scans the whole source in one pass. The returned stream ends
// with an EOF token. Any failure is a *LexError with position and kind.
func Tokenize(src string) ([]Token, error) {
	return NewLexer(src).Scan()
}

// Scan tokenizes the entire source and returns tokens (EOF included).
func (l *Lexer) Scan() ([]Token, error) {
	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return l.tokens, nil
		}
	}
}

/* ---------- low-level cursor ---------- */

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peekRune() (rune, int) {
	if l.isAtEnd() {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.src[l.cur:])
}

func (l *Lexer) peekByteAt(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advanceRune() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.cur:])
	l.cur += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) addToken(tt TokenType, lit any) Token {
	tok := Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	l.whitespaceBefore = false
	return tok
}

func (l *Lexer) previousToken() *Token {
	if len(l.tokens) == 0 {
		return nil
	}
	return &l.tokens[len(l.tokens)-1]
}

// errKind positions the error at the start of the token being scanned, not
// at the cursor, so carets point at the offending literal's first character.
func (l *Lexer) errKind(kind LexErrorKind, format string, args ...any) error {
	return &LexError{Kind: kind, Line: l.tokStartLine, Col: l.tokStartCol, Msg: fmt.Sprintf(format, args...)}
}

/* ---------- classification helpers ---------- */

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

// canBeLeftOperand reports whether a '(' glued after the given token should
// be read as a call opener rather than plain grouping.
func canBeLeftOperand(t TokenType) bool {
	switch t {
	case IDENT, RPAREN, INT, RAT, FLOAT, STRING, BOOL, PI, EULER, INF, NAN, END:
		return true
	}
	return false
}

/* ---------- main scanner ---------- */

// scanToken returns the next token, skipping insignificant whitespace and
// collapsing newline runs. Inside parens and interpolation spans newlines
// are insignificant.
func (l *Lexer) scanToken() (Token, error) {
	for {
		// Whitespace (including NBSP) and newline handling.
		sawNewline := false
		for !l.isAtEnd() {
			r, _ := l.peekRune()
			if r == '\n' {
				sawNewline = true
				l.advanceRune()
				l.start = l.cur
				l.whitespaceBefore = true
				continue
			}
			if r == ' ' || r == '\t' || r == '\r' || r == ' ' {
				l.advanceRune()
				l.start = l.cur
				l.whitespaceBefore = true
				continue
			}
			break
		}
		if sawNewline && l.parenDepth == 0 && l.interpDepth == 0 {
			if prev := l.previousToken(); prev != nil && prev.Type != NEWLINE {
				l.tokStartLine, l.tokStartCol = l.line, l.col
				return l.addToken(NEWLINE, nil), nil
			}
		}

		l.tokStartLine, l.tokStartCol = l.line, l.col
		l.start = l.cur

		if l.isAtEnd() {
			return l.addToken(EOF, nil), nil
		}

		wsBefore := l.whitespaceBefore
		r := l.advanceRune()

		// Unicode operator glyphs and constants.
		if tt, ok := aliasRunes[r]; ok {
			return l.addToken(tt, nil), nil
		}

		if r < utf8.RuneSelf {
			ch := byte(r)

			// Two-character ASCII operators first (maximal munch).
			if next, ok := l.peekByteAt(0); ok {
				switch {
				case ch == '<' && next == '=':
					l.advanceRune()
					return l.addToken(LESSEQ, nil), nil
				case ch == '>' && next == '=':
					l.advanceRune()
					return l.addToken(GREATEREQ, nil), nil
				case ch == '>' && next == '>':
					l.advanceRune()
					return l.addToken(PIPE, nil), nil
				case ch == '!' && next == '=':
					l.advanceRune()
					return l.addToken(NEQ, nil), nil
				case ch == '-' && next == '>':
					l.advanceRune()
					return l.addToken(ARROW, nil), nil
				case ch == '=' && next == '>':
					l.advanceRune()
					return l.addToken(FATARROW, nil), nil
				case ch == '=' && next == '=':
					l.advanceRune()
					return l.addToken(EQUALS, nil), nil
				}
			}

			switch ch {
			case '(':
				l.parenDepth++
				if prev := l.previousToken(); !wsBefore && prev != nil && canBeLeftOperand(prev.Type) {
					return l.addToken(CALLPAREN, nil), nil
				}
				return l.addToken(LPAREN, nil), nil
			case ')':
				if l.parenDepth > 0 {
					l.parenDepth--
				}
				return l.addToken(RPAREN, nil), nil
			case ',':
				return l.addToken(COMMA, nil), nil
			case '@':
				return l.addToken(AT, nil), nil
			case '+':
				return l.addToken(PLUS, nil), nil
			case '-':
				return l.addToken(MINUS, nil), nil
			case '*':
				return l.addToken(STAR, nil), nil
			case '/':
				return l.addToken(SLASH, nil), nil
			case '%':
				return l.addToken(PERCENT, nil), nil
			case '^':
				return l.addToken(CARET, nil), nil
			case '=':
				return l.addToken(EQUALS, nil), nil
			case '<':
				return l.addToken(LESS, nil), nil
			case '>':
				return l.addToken(GREATER, nil), nil
			case '}':
				if l.interpDepth > 0 {
					return l.addToken(rbraceSentinel, nil), nil
				}
				return Token{}, l.errKind(LexUnrecognizedCharacter, "unexpected character %q", ch)
			case '"':
				return l.scanString()
			}

			if isDigit(ch) {
				l.rewindToStart()
				return l.scanNumber()
			}
			if isAlpha(ch) {
				l.rewindToStart()
				return l.scanIdentifier()
			}
		}

		return Token{}, l.errKind(LexUnrecognizedCharacter, "unexpected character %q", r)
	}
}

// rewindToStart backs the cursor up to the current token start so a scanner
// can re-read from the first byte. Only safe within a single line prefix.
func (l *Lexer) rewindToStart() {
	l.col -= utf8.RuneCountInString(l.src[l.start:l.cur])
	l.cur = l.start
}

/* ---------- numbers ---------- */

// scanNumber reads an integer, a rational a/b, or a float literal.
// Exponent and digit-grouping notation are not part of the grammar: a digit
// run glued to a letter (1e5, 12_000) is a malformed literal, as is a bare
// trailing point (1.).
func (l *Lexer) scanNumber() (Token, error) {
	digits := func() {
		for {
			b, ok := l.peekByteAt(0)
			if !ok || !isDigit(b) {
				break
			}
			l.advanceRune()
		}
	}
	digits()
	intEnd := l.cur

	// Rational literal: digits '/' digits with no interior whitespace.
	// A zero denominator is not a literal — back off and leave '/' as the
	// division operator so the evaluator reports DivisionByZero.
	if b, ok := l.peekByteAt(0); ok && b == '/' {
		if b2, ok2 := l.peekByteAt(1); ok2 && isDigit(b2) {
			l.advanceRune() // '/'
			denStart := l.cur
			digits()
			den := l.src[denStart:l.cur]
			if err := l.rejectLiteralTail(); err != nil {
				return Token{}, err
			}
			if strings.Trim(den, "0") == "" {
				l.col -= l.cur - intEnd
				l.cur = intEnd
			} else {
				num := l.src[l.start:intEnd]
				n, ok := ParseRational(num, den)
				if !ok {
					return Token{}, l.errKind(LexMalformedNumericLiteral, "malformed rational literal %q", l.src[l.start:l.cur])
				}
				return l.addToken(RAT, n), nil
			}
		}
	}

	// Float literal: digits '.' digits.
	if b, ok := l.peekByteAt(0); ok && b == '.' {
		b2, ok2 := l.peekByteAt(1)
		if !ok2 || !isDigit(b2) {
			return Token{}, l.errKind(LexMalformedNumericLiteral, "malformed numeric literal %q", l.src[l.start:l.cur+1])
		}
		l.advanceRune() // '.'
		digits()
		if err := l.rejectLiteralTail(); err != nil {
			return Token{}, err
		}
		n, ok := ParseFloat(l.src[l.start:l.cur])
		if !ok {
			return Token{}, l.errKind(LexMalformedNumericLiteral, "malformed float literal %q", l.src[l.start:l.cur])
		}
		return l.addToken(FLOAT, n), nil
	}

	if err := l.rejectLiteralTail(); err != nil {
		return Token{}, err
	}
	n, ok := ParseInteger(l.src[l.start:l.cur])
	if !ok {
		return Token{}, l.errKind(LexMalformedNumericLiteral, "malformed integer literal %q", l.src[l.start:l.cur])
	}
	return l.addToken(INT, n), nil
}

// rejectLiteralTail fails when a numeric literal runs directly into letters
// or a second point (1e5, 1.2.3, 0x1f).
func (l *Lexer) rejectLiteralTail() error {
	if b, ok := l.peekByteAt(0); ok && (isAlpha(b) || b == '.') {
		return l.errKind(LexMalformedNumericLiteral, "malformed numeric literal %q", l.src[l.start:l.cur+1])
	}
	return nil
}

/* ---------- strings & interpolation ---------- */

// scanString reads a "…" literal, decoding escapes and extracting `{expr}`
// interpolation spans as nested token streams. The opening quote has
// already been consumed.
func (l *Lexer) scanString() (Token, error) {
	var parts []StringPart
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			parts = append(parts, StringPart{Text: text.String()})
			text.Reset()
		}
	}

	for {
		if l.isAtEnd() {
			return Token{}, l.errKind(LexUnterminatedString, "string literal was not terminated")
		}
		r := l.advanceRune()
		switch r {
		case '"':
			flush()
			if parts == nil {
				parts = []StringPart{{Text: ""}}
			}
			return l.addToken(STRING, parts), nil
		case '\\':
			if l.isAtEnd() {
				return Token{}, l.errKind(LexUnterminatedString, "unfinished escape sequence")
			}
			esc := l.advanceRune()
			switch esc {
			case 'n':
				text.WriteByte('\n')
			case 't':
				text.WriteByte('\t')
			case 'r':
				text.WriteByte('\r')
			default:
				// Covers \" \\ \{ \} and passes anything else through.
				text.WriteRune(esc)
			}
		case '{':
			flush()
			toks, err := l.scanInterpolation()
			if err != nil {
				return Token{}, err
			}
			parts = append(parts, StringPart{Toks: toks})
		default:
			text.WriteRune(r)
		}
	}
}

// scanInterpolation recursively lexes the expression between '{' and the
// matching '}' and returns its EOF-terminated token stream.
func (l *Lexer) scanInterpolation() ([]Token, error) {
	openLine, openCol := l.line, l.col
	mark := len(l.tokens)
	l.interpDepth++
	defer func() { l.interpDepth-- }()

	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == rbraceSentinel {
			sub := append([]Token(nil), l.tokens[mark:len(l.tokens)-1]...)
			l.tokens = l.tokens[:mark]
			sub = append(sub, Token{Type: EOF, Line: l.line, Col: l.col})
			return sub, nil
		}
		if tok.Type == EOF {
			l.tokens = l.tokens[:mark]
			return nil, &LexError{
				Kind: LexUnterminatedInterpolation,
				Line: openLine, Col: openCol,
				Msg: "interpolation brace was not terminated",
			}
		}
	}
}

/* ---------- identifiers & keywords ---------- */

func (l *Lexer) scanIdentifier() (Token, error) {
	for {
		b, ok := l.peekByteAt(0)
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advanceRune()
	}
	lex := l.src[l.start:l.cur]
	if lex == "_" {
		return l.addToken(UNDERSCORE, nil), nil
	}
	if tt, ok := keywords[lex]; ok {
		if tt == BOOL {
			return l.addToken(BOOL, lex == "true"), nil
		}
		return l.addToken(tt, nil), nil
	}
	return l.addToken(IDENT, lex), nil
}
