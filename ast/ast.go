// Package ast declares the expression tree built by the parser and
// consumed by the code generator.
//
// Every node is a value type that exclusively owns its children, so a tree
// is never shared or mutated once the parser has returned it.
package ast

import (
	"strconv"
	"strings"
)

// AnonymousName is the reserved prototype name of a top-level expression
// wrapped into a function. The lexer never produces it as an identifier.
const AnonymousName = "__anon_expr"

// Expr represents an expression node.
type Expr interface {
	String() string
	exprNode()
}

// NumberExpr represents a constant number.
type NumberExpr struct {
	Value float64
}

// VariableExpr represents a variable reference.
type VariableExpr struct {
	Name string
}

// BinaryExpr represents a binary operation.
type BinaryExpr struct {
	Op       rune
	LHS, RHS Expr
}

// CallExpr represents a function call.
type CallExpr struct {
	Callee string
	Args   []Expr
}

// Prototype represents the signature of a function: its name and the names
// of its parameters, all of which are floats.
type Prototype struct {
	Name string
	Args []string
}

// Function represents a function definition.
type Function struct {
	Proto Prototype
	Body  Expr
}

// IfExpr represents an if/then/else expression.
type IfExpr struct {
	Cond, Then, Else Expr
}

func (NumberExpr) exprNode()   {}
func (VariableExpr) exprNode() {}
func (BinaryExpr) exprNode()   {}
func (CallExpr) exprNode()     {}
func (Prototype) exprNode()    {}
func (Function) exprNode()     {}
func (IfExpr) exprNode()       {}

// IsAnonymous reports whether p is the prototype of a wrapped top-level
// expression.
func (p Prototype) IsAnonymous() bool {
	return p.Name == AnonymousName
}

func (e NumberExpr) String() string {
	return strconv.FormatFloat(e.Value, 'g', -1, 64)
}

func (e VariableExpr) String() string {
	return e.Name
}

func (e BinaryExpr) String() string {
	return "(" + e.LHS.String() + " " + string(e.Op) + " " + e.RHS.String() + ")"
}

func (e CallExpr) String() string {
	args := make([]string, len(e.Args))
	for i, arg := range e.Args {
		args[i] = arg.String()
	}
	return e.Callee + "(" + strings.Join(args, ", ") + ")"
}

func (p Prototype) String() string {
	return p.Name + "(" + strings.Join(p.Args, ", ") + ")"
}

func (f Function) String() string {
	if f.Proto.IsAnonymous() {
		return f.Body.String()
	}
	return "def " + f.Proto.String() + " " + f.Body.String()
}

func (e IfExpr) String() string {
	return "if " + e.Cond.String() + " then " + e.Then.String() + " else " + e.Else.String()
}
