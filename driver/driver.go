// Package driver reads top-level items from a source, compiles them and
// evaluates top-level expressions.
package driver

import (
	"fmt"
	"io"

	"github.com/kr/pretty"

	"github.com/pejato/kaleidoscope/codegen"
	"github.com/pejato/kaleidoscope/lexer"
	"github.com/pejato/kaleidoscope/parser"
)

// Options controls what the driver prints besides results.
type Options struct {
	// PrintIR prints the IR of every function that is generated.
	PrintIR bool
	// PrintParse dumps every parsed item.
	PrintParse bool
	// Prompt is written before each top-level item. Empty means none.
	Prompt string
}

// Driver feeds sources to one code generator, so definitions read from
// one source can be used by the next.
type Driver struct {
	gen    *codegen.Generator
	ops    *parser.OperatorTable
	out    io.Writer
	errOut io.Writer
	opts   Options

	lexer  *lexer.Lexer
	parser *parser.Parser
}

// New creates a driver generating into gen. Results go to out and
// diagnostics to errOut.
func New(gen *codegen.Generator, out, errOut io.Writer, opts Options) *Driver {
	return &Driver{
		gen:    gen,
		ops:    parser.DefaultOperators(),
		out:    out,
		errOut: errOut,
		opts:   opts,
	}
}

// Run handles every item in r until the input ends. Parse and codegen
// errors are reported and skipped; only an error that stops the lexer is
// returned.
//
//	top ::= definition | external | expression | ';'
func (d *Driver) Run(r io.Reader, filename string) error {
	d.lexer = lexer.New(r, filename)
	d.parser = parser.New(d.lexer, d.ops)

	d.prompt()
	d.lexer.Next()

	for {
		switch tok := d.lexer.Current(); {
		case tok.Kind == lexer.EOF:
			return d.lexer.Err()
		case tok.Is(';'):
			d.lexer.Next()
			continue
		case tok.Kind == lexer.Def:
			d.handleDefinition()
		case tok.Kind == lexer.Extern:
			d.handleExtern()
		default:
			d.handleTopLevelExpr()
		}
		d.prompt()
	}
}

func (d *Driver) prompt() {
	if d.opts.Prompt != "" {
		fmt.Fprint(d.out, d.opts.Prompt)
	}
}

// fail reports err and skips a token so the loop can make progress.
func (d *Driver) fail(err error) {
	fmt.Fprintf(d.errOut, "Error: %v\n", err)
	d.lexer.Next()
}

func (d *Driver) dump(v interface{}) {
	if d.opts.PrintParse {
		pretty.Fprintf(d.out, "%# v\n", v)
	}
}

func (d *Driver) handleDefinition() {
	fn, err := d.parser.ParseDefinition()
	if err != nil {
		d.fail(err)
		return
	}
	d.dump(fn)

	ir, err := d.gen.Generate(fn)
	if err != nil {
		fmt.Fprintf(d.errOut, "Error: %v\n", err)
		return
	}

	fmt.Fprintln(d.out, "Read function definition:")
	if d.opts.PrintIR {
		fmt.Fprintln(d.out, ir.String())
	}
}

func (d *Driver) handleExtern() {
	proto, err := d.parser.ParseExtern()
	if err != nil {
		d.fail(err)
		return
	}
	d.dump(proto)

	ir, err := d.gen.Generate(proto)
	if err != nil {
		fmt.Fprintf(d.errOut, "Error: %v\n", err)
		return
	}

	fmt.Fprintln(d.out, "Read extern:")
	if d.opts.PrintIR {
		fmt.Fprintln(d.out, ir.String())
	}
}

func (d *Driver) handleTopLevelExpr() {
	fn, err := d.parser.ParseTopLevelExpr()
	if err != nil {
		d.fail(err)
		return
	}
	d.dump(fn.Body)

	ir, err := d.gen.Generate(fn)
	if err != nil {
		fmt.Fprintf(d.errOut, "Error: %v\n", err)
		return
	}
	if d.opts.PrintIR {
		fmt.Fprintln(d.out, ir.String())
	}

	result, err := d.gen.Evaluate(fn.Proto.Name)
	if err != nil {
		fmt.Fprintf(d.errOut, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(d.out, "Evaluated to %f\n", result)
}
