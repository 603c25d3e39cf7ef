// errors_test.go
package am

import (
	"strings"
	"testing"
)

func Test_Errors_Messages(t *testing.T) {
	le := &LexError{Kind: LexUnterminatedString, Line: 2, Col: 5, Msg: "string literal was not terminated"}
	if got := le.Error(); got != "LEX ERROR at 2:5: string literal was not terminated" {
		t.Fatalf("lex message: %q", got)
	}

	pe := &ParseError{Kind: ParseUnexpectedToken, Expected: "an expression", Found: "'end'", Line: 3, Col: 1}
	if got := pe.Error(); got != "PARSE ERROR at 3:1: expected an expression, found 'end'" {
		t.Fatalf("parse message: %q", got)
	}

	re := &RuntimeError{Kind: RunUnboundVariable, Msg: `name "x" is not bound`, Line: 1, Col: 1}
	if !strings.HasPrefix(re.Error(), "RUNTIME ERROR at 1:1:") {
		t.Fatalf("runtime message: %q", re.Error())
	}
}

func Test_Errors_KindNames(t *testing.T) {
	if LexMalformedNumericLiteral.String() != "MalformedNumericLiteral" {
		t.Fatal(LexMalformedNumericLiteral.String())
	}
	if ParseWildcardNotLast.String() != "WildcardNotLast" {
		t.Fatal(ParseWildcardNotLast.String())
	}
	if RunNoMatchingArm.String() != "NoMatchingArm" {
		t.Fatal(RunNoMatchingArm.String())
	}
}

func Test_Errors_CaretSnippet(t *testing.T) {
	src := "let x = 1\nlet y = x +\nx"
	_, err := Parse(src)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	wrapped := WrapErrorWithSource(err, src)
	out := wrapped.Error()

	if !strings.Contains(out, "PARSE ERROR at 2:") {
		t.Fatalf("missing header:\n%s", out)
	}
	// Shows the offending line with its number and a caret line.
	if !strings.Contains(out, "2 | let y = x +") {
		t.Fatalf("missing source line:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("missing caret:\n%s", out)
	}
	// One line of context either side.
	if !strings.Contains(out, "1 | let x = 1") || !strings.Contains(out, "3 | x") {
		t.Fatalf("missing context lines:\n%s", out)
	}
}

func Test_Errors_CaretColumn(t *testing.T) {
	src := "1 $ 2"
	_, err := Tokenize(src)
	if err == nil {
		t.Fatal("expected a lex error")
	}
	out := WrapErrorWithSource(err, src).Error()
	lines := strings.Split(out, "\n")
	var srcLine, caretLine string
	for i, ln := range lines {
		if strings.HasSuffix(ln, "| 1 $ 2") {
			srcLine = ln
			caretLine = lines[i+1]
		}
	}
	if srcLine == "" || caretLine == "" {
		t.Fatalf("snippet shape:\n%s", out)
	}
	// The caret must sit under the '$'.
	want := strings.Index(srcLine, "$")
	got := strings.Index(caretLine, "^")
	if want != got {
		t.Fatalf("caret at %d, want %d:\n%s", got, want, out)
	}
}

func Test_Errors_WrapPassesOtherErrorsThrough(t *testing.T) {
	err := &LexError{Kind: LexUnrecognizedCharacter, Line: 1, Col: 1, Msg: "x"}
	if WrapErrorWithSource(err, "abc") == error(err) {
		t.Fatal("typed errors must be re-rendered")
	}
	other := errNonPipeline{}
	if WrapErrorWithSource(other, "abc") != error(other) {
		t.Fatal("unknown errors must pass through unchanged")
	}
}

type errNonPipeline struct{}

func (errNonPipeline) Error() string { return "other" }
