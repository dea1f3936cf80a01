package codegen

/*
#include <stdio.h>

static double kaleidoscope_putchard(double x) {
	fputc((char)x, stderr);
	fflush(stderr);
	return 0;
}

static double kaleidoscope_printd(double x) {
	fprintf(stderr, "%f\n", x);
	fflush(stderr);
	return 0;
}

static void *putchard_addr(void) { return (void *)kaleidoscope_putchard; }
static void *printd_addr(void) { return (void *)kaleidoscope_printd; }
*/
import "C"

import (
	"unsafe"

	"tinygo.org/x/go-llvm"
)

// library holds the host functions a program can declare with extern.
var library = map[string]func() unsafe.Pointer{
	// putchard writes the byte x to stderr.
	"putchard": func() unsafe.Pointer { return C.putchard_addr() },
	// printd writes x and a newline to stderr.
	"printd": func() unsafe.Pointer { return C.printd_addr() },
}

// bindLibrary points the declarations of host functions in mod at their
// native implementations.
func bindLibrary(engine llvm.ExecutionEngine, mod llvm.Module) {
	for name, addr := range library {
		fn := mod.NamedFunction(name)
		if fn.IsNil() || fn.BasicBlocksCount() != 0 || fn.ParamsCount() != 1 {
			continue
		}
		engine.AddGlobalMapping(fn, addr())
	}
}
