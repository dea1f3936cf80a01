package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peterh/liner"

	"github.com/pejato/kaleidoscope/codegen"
	"github.com/pejato/kaleidoscope/driver"
)

const (
	historyFile = ".kaleidoscope_history"
	prompt      = "ready> "
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("kaleidoscope", flag.ContinueOnError)
	printIR := fs.Bool("print-ir", false, "print the IR of each function, and the module on exit")
	printParse := fs.Bool("print-parse", false, "dump each parsed item")
	optimize := fs.Bool("O", false, "run the optimisation pipeline after each definition")
	moduleName := fs.String("module", "main", "name of the generated module")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: kaleidoscope [flags] [file ...]\n\nWith no files, reads from standard input.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	gen := codegen.New(*moduleName)
	defer gen.Dispose()
	gen.Optimize = *optimize

	opts := driver.Options{PrintIR: *printIR, PrintParse: *printParse}

	var err error
	if fs.NArg() > 0 {
		err = runFiles(gen, opts, fs.Args())
	} else {
		err = runStdin(gen, opts)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *printIR {
		gen.Module().Dump()
	}
	return 0
}

func runFiles(gen *codegen.Generator, opts driver.Options, paths []string) error {
	d := driver.New(gen, os.Stdout, os.Stderr, opts)
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		err = d.Run(f, path)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func runStdin(gen *codegen.Generator, opts driver.Options) error {
	if !liner.TerminalSupported() {
		opts.Prompt = prompt
		return driver.New(gen, os.Stdout, os.Stderr, opts).Run(os.Stdin, "<stdin>")
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	return driver.New(gen, os.Stdout, os.Stderr, opts).Run(&lineReader{ln: ln}, "<stdin>")
}

// lineReader reads standard input one edited line at a time.
type lineReader struct {
	ln  *liner.State
	buf []byte
}

func (r *lineReader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		line, err := r.ln.Prompt(prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			line = ""
		case err != nil:
			fmt.Println()
			return 0, io.EOF
		}
		if line != "" {
			r.ln.AppendHistory(line)
		}
		r.buf = append(r.buf, line...)
		r.buf = append(r.buf, '\n')
	}

	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
