// Package codegen lowers expression trees to LLVM IR and runs top-level
// expressions through a just-in-time compiler.
package codegen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/pejato/kaleidoscope/ast"
)

// optPipeline is run over the module after each definition when
// Generator.Optimize is set.
const optPipeline = "function(mem2reg,instcombine,reassociate,gvn,simplifycfg,tailcallelim)"

// Generator owns one LLVM module and emits every function into it.
// It is not safe for concurrent use.
type Generator struct {
	// Optimize runs the function pass pipeline after each definition.
	Optimize bool

	ctx     llvm.Context
	module  llvm.Module
	builder llvm.Builder
	double  llvm.Type

	// namedValues holds the parameters of the function being generated.
	namedValues map[string]llvm.Value
	// passes is the pipeline run by optimize.
	passes string
	// function is the function whose body is being generated, if any.
	function llvm.Value
}

// New creates a generator with an empty module called moduleName.
func New(moduleName string) *Generator {
	ctx := llvm.NewContext()
	return &Generator{
		ctx:         ctx,
		module:      ctx.NewModule(moduleName),
		builder:     ctx.NewBuilder(),
		double:      ctx.DoubleType(),
		namedValues: make(map[string]llvm.Value),
		passes:      optPipeline,
	}
}

// Module returns the module functions are generated into.
func (g *Generator) Module() llvm.Module {
	return g.module
}

// Dispose releases the builder, the module and the context.
func (g *Generator) Dispose() {
	g.builder.Dispose()
	g.module.Dispose()
	g.ctx.Dispose()
}

// Generate emits IR for e at the builder's insertion point. Prototypes and
// functions yield the function value. On error nothing is left registered
// that was not registered before, except prototypes that were generated
// successfully.
func (g *Generator) Generate(e ast.Expr) (llvm.Value, error) {
	switch e := e.(type) {
	case ast.NumberExpr:
		return llvm.ConstFloat(g.double, e.Value), nil
	case ast.VariableExpr:
		return g.genVariable(e)
	case ast.BinaryExpr:
		return g.genBinary(e)
	case ast.CallExpr:
		return g.genCall(e)
	case ast.Prototype:
		return g.genPrototype(e)
	case ast.Function:
		return g.genFunction(e)
	case ast.IfExpr:
		return g.genIf(e)
	}
	return llvm.Value{}, fmt.Errorf("codegen: unexpected node %T", e)
}

func (g *Generator) functionType(arity int) llvm.Type {
	params := make([]llvm.Type, arity)
	for i := range params {
		params[i] = g.double
	}
	return llvm.FunctionType(g.double, params, false)
}

func (g *Generator) genVariable(e ast.VariableExpr) (llvm.Value, error) {
	if v, ok := g.namedValues[e.Name]; ok {
		return v, nil
	}
	return llvm.Value{}, fmt.Errorf("%w %s", ErrUnknownVariable, e.Name)
}

func (g *Generator) genBinary(e ast.BinaryExpr) (llvm.Value, error) {
	switch e.Op {
	case '+', '-', '*', '<':
	default:
		return llvm.Value{}, fmt.Errorf("%w '%c'", ErrUnsupportedOperator, e.Op)
	}

	l, err := g.Generate(e.LHS)
	if err != nil {
		return llvm.Value{}, err
	}
	r, err := g.Generate(e.RHS)
	if err != nil {
		return llvm.Value{}, err
	}

	switch e.Op {
	case '+':
		return g.builder.CreateFAdd(l, r, "addtmp"), nil
	case '-':
		return g.builder.CreateFSub(l, r, "subtmp"), nil
	case '*':
		return g.builder.CreateFMul(l, r, "multmp"), nil
	default:
		l = g.builder.CreateFCmp(llvm.FloatULT, l, r, "cmptmp")
		return g.builder.CreateUIToFP(l, g.double, "booltmp"), nil
	}
}

func (g *Generator) genCall(e ast.CallExpr) (llvm.Value, error) {
	fn := g.module.NamedFunction(e.Callee)
	if fn.IsNil() {
		return llvm.Value{}, fmt.Errorf("%w: %s", ErrUnknownFunction, e.Callee)
	}

	if fn.ParamsCount() != len(e.Args) {
		return llvm.Value{}, fmt.Errorf("%w passed to %s: expected %d, got %d",
			ErrArity, e.Callee, fn.ParamsCount(), len(e.Args))
	}

	args := make([]llvm.Value, 0, len(e.Args))
	for _, arg := range e.Args {
		v, err := g.Generate(arg)
		if err != nil {
			return llvm.Value{}, err
		}
		args = append(args, v)
	}
	return g.builder.CreateCall(g.functionType(len(args)), fn, args, "calltmp"), nil
}

// genPrototype declares proto in the module, or reuses an existing
// declaration of the same arity that has no body yet.
func (g *Generator) genPrototype(proto ast.Prototype) (llvm.Value, error) {
	fn := g.module.NamedFunction(proto.Name)
	if fn.IsNil() {
		fn = llvm.AddFunction(g.module, proto.Name, g.functionType(len(proto.Args)))
	} else if fn.BasicBlocksCount() != 0 {
		return llvm.Value{}, fmt.Errorf("%w: %s", ErrRedefinition, proto.Name)
	} else if fn.ParamsCount() != len(proto.Args) {
		return llvm.Value{}, fmt.Errorf("%w: %s was declared with %d arguments",
			ErrRedefinition, proto.Name, fn.ParamsCount())
	}

	for i, param := range fn.Params() {
		param.SetName(proto.Args[i])
	}

	return fn, nil
}

// definition is what genFunction needs to undo a failed definition.
type definition struct {
	fn       llvm.Value
	declared bool
	// params are the parameter names of the earlier declaration.
	params []string
}

func (g *Generator) genFunction(f ast.Function) (llvm.Value, error) {
	name := f.Proto.Name

	existing := g.module.NamedFunction(name)
	if !existing.IsNil() && existing.BasicBlocksCount() != 0 {
		if !f.Proto.IsAnonymous() {
			return llvm.Value{}, fmt.Errorf("%w: %s", ErrRedefinition, name)
		}
		existing.EraseFromParentAsFunction()
		existing = llvm.Value{}
	}

	def := definition{declared: !existing.IsNil()}
	if def.declared {
		for _, param := range existing.Params() {
			def.params = append(def.params, param.Name())
		}
	}

	fn, err := g.genPrototype(f.Proto)
	if err != nil {
		return llvm.Value{}, err
	}
	def.fn = fn

	entry := g.ctx.AddBasicBlock(fn, "entry")
	g.builder.SetInsertPointAtEnd(entry)

	g.namedValues = make(map[string]llvm.Value, len(f.Proto.Args))
	for i, param := range fn.Params() {
		g.namedValues[f.Proto.Args[i]] = param
	}

	g.function = fn
	defer func() {
		g.function = llvm.Value{}
		g.builder.ClearInsertionPoint()
	}()

	body, err := g.Generate(f.Body)
	if err != nil {
		g.rollback(def)
		return llvm.Value{}, err
	}

	if body.Type() != g.double {
		g.rollback(def)
		return llvm.Value{}, fmt.Errorf("%w: %s must return a double", ErrTypeMismatch, name)
	}

	g.builder.CreateRet(body)

	if err := llvm.VerifyFunction(fn, llvm.ReturnStatusAction); err != nil {
		g.rollback(def)
		return llvm.Value{}, fmt.Errorf("%w: %s: %v", ErrInvalidFunction, name, err)
	}

	if g.Optimize {
		if err := g.optimize(); err != nil {
			g.rollback(def)
			return llvm.Value{}, fmt.Errorf("codegen: optimizing %s: %w", name, err)
		}
	}

	return fn, nil
}

// rollback removes a function whose body could not be generated. A function
// that was only declared before is put back as a bare declaration so any
// existing callers stay valid.
func (g *Generator) rollback(d definition) {
	name := d.fn.Name()
	g.builder.ClearInsertionPoint()

	if d.declared {
		decl := llvm.AddFunction(g.module, "", g.functionType(d.fn.ParamsCount()))
		d.fn.ReplaceAllUsesWith(decl)
		d.fn.EraseFromParentAsFunction()
		decl.SetName(name)
		for i, param := range decl.Params() {
			param.SetName(d.params[i])
		}
	} else {
		d.fn.EraseFromParentAsFunction()
	}
}

func (g *Generator) genIf(e ast.IfExpr) (llvm.Value, error) {
	if g.function.IsNil() {
		return llvm.Value{}, ErrNoFunction
	}

	cond, err := g.Generate(e.Cond)
	if err != nil {
		return llvm.Value{}, err
	}
	if cond.Type() != g.double {
		return llvm.Value{}, fmt.Errorf("%w: if condition must be a double", ErrTypeMismatch)
	}

	cond = g.builder.CreateFCmp(llvm.FloatONE, cond, llvm.ConstFloat(g.double, 0), "ifcond")

	thenBlock := g.ctx.AddBasicBlock(g.function, "then")
	elseBlock := g.ctx.AddBasicBlock(g.function, "else")
	mergeBlock := g.ctx.AddBasicBlock(g.function, "ifcont")

	g.builder.CreateCondBr(cond, thenBlock, elseBlock)

	g.builder.SetInsertPointAtEnd(thenBlock)
	then, err := g.Generate(e.Then)
	if err != nil {
		return llvm.Value{}, err
	}
	if then.Type() != g.double {
		return llvm.Value{}, fmt.Errorf("%w: then branch must be a double", ErrTypeMismatch)
	}

	g.builder.CreateBr(mergeBlock)
	// nested control flow may have moved us out of thenBlock
	thenBlock = g.builder.GetInsertBlock()

	g.builder.SetInsertPointAtEnd(elseBlock)
	el, err := g.Generate(e.Else)
	if err != nil {
		return llvm.Value{}, err
	}
	if el.Type() != g.double {
		return llvm.Value{}, fmt.Errorf("%w: else branch must be a double", ErrTypeMismatch)
	}

	g.builder.CreateBr(mergeBlock)
	elseBlock = g.builder.GetInsertBlock()

	g.builder.SetInsertPointAtEnd(mergeBlock)
	phi := g.builder.CreatePHI(g.double, "iftmp")
	phi.AddIncoming([]llvm.Value{then, el}, []llvm.BasicBlock{thenBlock, elseBlock})
	return phi, nil
}

func (g *Generator) optimize() error {
	opts := llvm.NewPassBuilderOptions()
	defer opts.Dispose()
	return g.module.RunPasses(g.passes, llvm.TargetMachine{}, opts)
}
