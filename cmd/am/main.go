// Command am runs AM programs.
//
//	am <file.am> [flags]
//
// The program's statements are evaluated in order and one result per
// statement is printed to stdout. Flags:
//
//	--ast            print the parse tree instead of evaluating
//	--call "F(1,2)"  after running the file, evaluate this call and print
//	                 only its result
//	--trace          report each statement's position and value on stderr
//	--pretty         quote string results
//	--json           print results as JSON, one object per line
//
// Exit status: 0 on success, 1 on a lex/parse/runtime failure (reported to
// stderr with a caret-annotated snippet), 2 on bad usage.
package main

import (
	"flag"
	"fmt"
	"os"

	am "github.com/LeaveItToBeaver/algorithmic-mathematics"
)

const appName = "am"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	showAST := fs.Bool("ast", false, "print the parse tree and exit")
	callExpr := fs.String("call", "", "evaluate this call after the file runs and print only its result")
	trace := fs.Bool("trace", false, "report each statement's position and value on stderr")
	pretty := fs.Bool("pretty", false, "quote string results")
	asJSON := fs.Bool("json", false, "print results as JSON, one per line")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <file.am> [--ast] [--call \"F(args)\"] [--trace] [--pretty] [--json]\n", appName)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	file := fs.Arg(0)

	raw, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}
	src := string(raw)

	prog, err := am.Parse(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, am.WrapErrorWithSource(err, src))
		return 1
	}

	if *showAST {
		fmt.Print(am.FormatProgram(prog))
		return 0
	}

	ip := am.NewInterp()
	if *trace {
		ip.Trace = func(s am.Stmt, v am.Value) {
			fmt.Fprintf(os.Stderr, "trace %s = %s\n", s.Pos(), am.Render(v))
		}
	}

	emit := func(v am.Value) bool {
		switch {
		case *asJSON:
			b, err := am.MarshalValue(v)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
				return false
			}
			fmt.Println(string(b))
		case *pretty:
			fmt.Println(am.Pretty(v))
		default:
			fmt.Println(am.Render(v))
		}
		return true
	}

	vals, err := ip.Run(prog)
	if *callExpr == "" {
		for _, v := range vals {
			if !emit(v) {
				return 1
			}
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, am.WrapErrorWithSource(err, src))
		return 1
	}

	if *callExpr != "" {
		v, err := ip.RunSource(*callExpr)
		if err != nil {
			fmt.Fprintln(os.Stderr, am.WrapErrorWithSource(err, *callExpr))
			return 1
		}
		if len(v) == 0 {
			fmt.Fprintf(os.Stderr, "%s: --call %q produced no result\n", appName, *callExpr)
			return 2
		}
		if !emit(v[len(v)-1]) {
			return 1
		}
	}
	return 0
}
