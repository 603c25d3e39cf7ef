// lexer_test.go
package am

import (
	"errors"
	"reflect"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	ts, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	return ts
}

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotTypes := typesWithoutEOF(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func wantLexError(t *testing.T, src string, kind LexErrorKind) *LexError {
	t.Helper()
	_, err := Tokenize(src)
	if err == nil {
		t.Fatalf("source %q: expected a lex error, got none", src)
	}
	var le *LexError
	if !errors.As(err, &le) {
		t.Fatalf("source %q: expected *LexError, got %T: %v", src, err, err)
	}
	if le.Kind != kind {
		t.Fatalf("source %q: expected kind %v, got %v (%v)", src, kind, le.Kind, le)
	}
	return le
}

func Test_Lexer_AliasEquivalence(t *testing.T) {
	pairs := []struct{ ascii, unicode string }{
		{"a and b", "a ∧ b"},
		{"a or b", "a ∨ b"},
		{"not a", "¬ a"},
		{"a != b", "a ≠ b"},
		{"a <= b", "a ≤ b"},
		{"a >= b", "a ≥ b"},
		{"a -> b", "a → b"},
		{"a => b", "a ⇒ b"},
		{"a == b", "a ≡ b"},
		{"a - b", "a − b"},
		{"a * b", "a × b"},
		{"a * b", "a ∗ b"},
		{"a / b", "a ÷ b"},
		{"pi", "π"},
		{"inf", "∞"},
	}
	for _, p := range pairs {
		a := typesWithoutEOF(toks(t, p.ascii))
		u := typesWithoutEOF(toks(t, p.unicode))
		if !reflect.DeepEqual(a, u) {
			t.Errorf("aliases diverge: %q → %v, %q → %v", p.ascii, a, p.unicode, u)
		}
	}
}

func Test_Lexer_Examples_AlgorithmDefinition(t *testing.T) {
	src := `@Add(a, b) = a + b`
	wantTypes(t, src, []TokenType{
		AT, IDENT, CALLPAREN, IDENT, COMMA, IDENT, RPAREN, EQUALS, IDENT, PLUS, IDENT,
	})
}

func Test_Lexer_Examples_LetAndCase(t *testing.T) {
	src := "let x = 2\ncase\n  x > 1 => \"big\"\n  _ => \"small\"\nend"
	wantTypes(t, src, []TokenType{
		LET, IDENT, EQUALS, INT, NEWLINE,
		CASE, NEWLINE,
		IDENT, GREATER, INT, FATARROW, STRING, NEWLINE,
		UNDERSCORE, FATARROW, STRING, NEWLINE,
		END,
	})
}

func Test_Lexer_CallParenVsGrouping(t *testing.T) {
	// Glued '(' continues a call; spaced '(' only groups.
	got := wantTypes(t, "f(1) (2)", []TokenType{
		IDENT, CALLPAREN, INT, RPAREN, LPAREN, INT, RPAREN,
	})
	if got[1].Line != 1 || got[1].Col != 2 {
		t.Fatalf("CALLPAREN position: got %d:%d", got[1].Line, got[1].Col)
	}
}

func Test_Lexer_NumberLiterals(t *testing.T) {
	got := wantTypes(t, "42 3/6 2.5", []TokenType{INT, RAT, FLOAT})
	if r := got[0].Literal.(Number).Render(); r != "42" {
		t.Errorf("integer literal rendered %q", r)
	}
	// Rational literals normalize at the lexer.
	if r := got[1].Literal.(Number).Render(); r != "1/2" {
		t.Errorf("rational literal 3/6 rendered %q, want 1/2", r)
	}
	if r := got[2].Literal.(Number).Render(); r != "2.5" {
		t.Errorf("float literal rendered %q", r)
	}
}

func Test_Lexer_RationalWithZeroDenominator_IsDivision(t *testing.T) {
	// 1/0 is not a rational literal; the '/' stays an operator so the
	// evaluator can report division by zero.
	wantTypes(t, "1/0", []TokenType{INT, SLASH, INT})
}

func Test_Lexer_SpacedSlash_IsDivision(t *testing.T) {
	wantTypes(t, "1 / 2", []TokenType{INT, SLASH, INT})
}

func Test_Lexer_MalformedNumbers(t *testing.T) {
	for _, src := range []string{"1e5", "1.2.3", "1.", "0x1f"} {
		wantLexError(t, src, LexMalformedNumericLiteral)
	}
}

func Test_Lexer_NewlineRunsCollapse(t *testing.T) {
	wantTypes(t, "1\n\n\n2", []TokenType{INT, NEWLINE, INT})
}

func Test_Lexer_NoNewlineInsideParens(t *testing.T) {
	wantTypes(t, "(1 +\n 2)", []TokenType{LPAREN, INT, PLUS, INT, RPAREN})
}

func Test_Lexer_StringPlain(t *testing.T) {
	got := wantTypes(t, `"hello\n"`, []TokenType{STRING})
	parts := got[0].Literal.([]StringPart)
	if len(parts) != 1 || parts[0].Text != "hello\n" {
		t.Fatalf("unexpected string parts: %#v", parts)
	}
}

func Test_Lexer_StringInterpolation(t *testing.T) {
	got := wantTypes(t, `"a {x + 1} b"`, []TokenType{STRING})
	parts := got[0].Literal.([]StringPart)
	if len(parts) != 3 {
		t.Fatalf("want 3 parts, got %d: %#v", len(parts), parts)
	}
	if parts[0].Text != "a " || parts[2].Text != " b" {
		t.Fatalf("text parts wrong: %#v", parts)
	}
	sub := typesWithoutEOF(parts[1].Toks)
	if !reflect.DeepEqual(sub, []TokenType{IDENT, PLUS, INT}) {
		t.Fatalf("interpolation tokens: %v", sub)
	}
	if last := parts[1].Toks[len(parts[1].Toks)-1]; last.Type != EOF {
		t.Fatalf("interpolation stream must end with EOF, got %v", last.Type)
	}
}

func Test_Lexer_StringErrors(t *testing.T) {
	wantLexError(t, `"abc`, LexUnterminatedString)
	le := wantLexError(t, `"abc {1 + 2`, LexUnterminatedInterpolation)
	if le.Line != 1 {
		t.Fatalf("interpolation error line: %d", le.Line)
	}
}

func Test_Lexer_UnrecognizedCharacter(t *testing.T) {
	wantLexError(t, "1 $ 2", LexUnrecognizedCharacter)
	wantLexError(t, "a } b", LexUnrecognizedCharacter)
}

func Test_Lexer_NonBreakingSpaceIsWhitespace(t *testing.T) {
	wantTypes(t, "1 + 2", []TokenType{INT, PLUS, INT})
}

func Test_Lexer_Positions(t *testing.T) {
	got := toks(t, "let x = π\nx")
	// π is the 9th rune on line 1.
	if got[3].Type != PI || got[3].Line != 1 || got[3].Col != 9 {
		t.Fatalf("π position: %+v", got[3])
	}
	if got[5].Type != IDENT || got[5].Line != 2 || got[5].Col != 1 {
		t.Fatalf("x position: %+v", got[5])
	}
}

func Test_Lexer_KeywordsAndConstants(t *testing.T) {
	wantTypes(t, "let case of end true false pi e inf NaN", []TokenType{
		LET, CASE, OF, END, BOOL, BOOL, PI, EULER, INF, NAN,
	})
}
