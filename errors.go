// errors.go — the AM error taxonomy and caret-snippet rendering.
//
// Every stage of the pipeline fails fast with exactly one typed error value:
// *LexError from tokenization, *ParseError from parsing, *RuntimeError from
// evaluation. Each carries a discriminating Kind and a 1-based line/column.
// There is no recovery or resynchronization anywhere in the core; the first
// error aborts its stage.
//
// WrapErrorWithSource recognizes the three types and re-renders them as a
// multi-line snippet with a caret under the offending column:
//
//	PARSE ERROR at 3:12: expected ')' after call arguments
//
//	   2 | let x = (1 + 2
//	   3 | Add(1, 2
//	     |         ^
//	   4 | end
//
// Anything else passes through unchanged. The snippet is plain text (no
// ANSI escapes), suitable for logs and terminals; the CLI is the intended
// consumer.
package am

import (
	"fmt"
	"strings"
)

/* ---------- lexical errors ---------- */

// LexErrorKind discriminates tokenization failures.
type LexErrorKind int

const (
	LexUnterminatedString LexErrorKind = iota
	LexUnterminatedInterpolation
	LexUnrecognizedCharacter
	LexMalformedNumericLiteral
)

func (k LexErrorKind) String() string {
	switch k {
	case LexUnterminatedString:
		return "UnterminatedString"
	case LexUnterminatedInterpolation:
		return "UnterminatedInterpolation"
	case LexUnrecognizedCharacter:
		return "UnrecognizedCharacter"
	case LexMalformedNumericLiteral:
		return "MalformedNumericLiteral"
	}
	return fmt.Sprintf("LexErrorKind(%d)", int(k))
}

// LexError reports a tokenization failure at a source position.
type LexError struct {
	Kind LexErrorKind
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEX ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

/* ---------- parse errors ---------- */

// ParseErrorKind discriminates parsing failures.
type ParseErrorKind int

const (
	ParseUnexpectedToken ParseErrorKind = iota
	ParseUnbalancedDelimiter
	ParseEmptyCaseBlock
	ParseWildcardNotLast
)

func (k ParseErrorKind) String() string {
	switch k {
	case ParseUnexpectedToken:
		return "UnexpectedToken"
	case ParseUnbalancedDelimiter:
		return "UnbalancedDelimiter"
	case ParseEmptyCaseBlock:
		return "EmptyCaseBlock"
	case ParseWildcardNotLast:
		return "WildcardNotLast"
	}
	return fmt.Sprintf("ParseErrorKind(%d)", int(k))
}

// ParseError reports a grammar violation: what was expected, what was found,
// and where.
type ParseError struct {
	Kind     ParseErrorKind
	Expected string
	Found    string
	Line     int
	Col      int
}

func (e *ParseError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("PARSE ERROR at %d:%d: expected %s, found %s", e.Line, e.Col, e.Expected, e.Found)
	}
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col, e.Found)
}

/* ---------- runtime errors ---------- */

// RuntimeErrorKind discriminates evaluation failures.
type RuntimeErrorKind int

const (
	RunUnboundVariable RuntimeErrorKind = iota
	RunNotCallable
	RunArityMismatch
	RunTypeMismatch
	RunDivisionByZero
	RunNoMatchingArm
	RunStackOverflow
)

func (k RuntimeErrorKind) String() string {
	switch k {
	case RunUnboundVariable:
		return "UnboundVariable"
	case RunNotCallable:
		return "NotCallable"
	case RunArityMismatch:
		return "ArityMismatch"
	case RunTypeMismatch:
		return "TypeMismatch"
	case RunDivisionByZero:
		return "DivisionByZero"
	case RunNoMatchingArm:
		return "NoMatchingArm"
	case RunStackOverflow:
		return "StackOverflow"
	}
	return fmt.Sprintf("RuntimeErrorKind(%d)", int(k))
}

// RuntimeError reports an evaluation failure. The position is the one the
// parser recorded on the originating AST node.
type RuntimeError struct {
	Kind RuntimeErrorKind
	Msg  string
	Line int
	Col  int
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("RUNTIME ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

/* ---------- caret snippets ---------- */

// WrapErrorWithSource augments a pipeline error with a caret-annotated
// snippet of the source. Errors of other types are returned unchanged.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", snippet(src, "LEX ERROR", e.Line, e.Col, e.Msg))
	case *ParseError:
		msg := e.Found
		if e.Expected != "" {
			msg = fmt.Sprintf("expected %s, found %s", e.Expected, e.Found)
		}
		return fmt.Errorf("%s", snippet(src, "PARSE ERROR", e.Line, e.Col, msg))
	case *RuntimeError:
		return fmt.Errorf("%s", snippet(src, "RUNTIME ERROR", e.Line, e.Col, e.Msg))
	default:
		return err
	}
}

// snippet builds the caret view: header, one line of context either side,
// numbered lines, caret under the 1-based column. Out-of-range coordinates
// are clamped so rendering never fails.
func snippet(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
