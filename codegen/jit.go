package codegen

import (
	"fmt"
	"sync"

	"tinygo.org/x/go-llvm"
)

var (
	nativeOnce sync.Once
	nativeErr  error
)

func initNative() error {
	nativeOnce.Do(func() {
		llvm.LinkInMCJIT()
		if err := llvm.InitializeNativeTarget(); err != nil {
			nativeErr = err
			return
		}
		nativeErr = llvm.InitializeNativeAsmPrinter()
	})
	return nativeErr
}

// Evaluate runs the parameterless function name and returns its result.
//
// The module is snapshotted and compiled by an execution engine that lives
// only for this call, so the generator's module stays editable and nothing
// accumulates between evaluations.
func (g *Generator) Evaluate(name string) (float64, error) {
	fn := g.module.NamedFunction(name)
	if fn.IsNil() {
		return 0, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	if fn.ParamsCount() != 0 {
		return 0, fmt.Errorf("%w: %s takes %d arguments, evaluation passes none",
			ErrArity, name, fn.ParamsCount())
	}

	if err := initNative(); err != nil {
		return 0, fmt.Errorf("codegen: initializing native target: %w", err)
	}

	snapshot, err := g.snapshot()
	if err != nil {
		return 0, err
	}

	engine, err := llvm.NewMCJITCompiler(snapshot, llvm.NewMCJITCompilerOptions())
	if err != nil {
		snapshot.Dispose()
		return 0, fmt.Errorf("codegen: creating execution engine: %w", err)
	}
	// the engine owns the snapshot from here on
	defer engine.Dispose()

	bindLibrary(engine, snapshot)

	result := engine.RunFunction(snapshot.NamedFunction(name), []llvm.GenericValue{})
	defer result.Dispose()

	return result.Float(g.double), nil
}

// snapshot copies the module through a bitcode round trip.
func (g *Generator) snapshot() (llvm.Module, error) {
	buf := llvm.WriteBitcodeToMemoryBuffer(g.module)
	mod, err := g.ctx.ParseIR(buf)
	if err != nil {
		return llvm.Module{}, fmt.Errorf("codegen: snapshotting module: %w", err)
	}
	return mod, nil
}
