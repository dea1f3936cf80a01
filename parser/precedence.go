package parser

import "github.com/pejato/kaleidoscope/lexer"

// OperatorTable maps binary operator characters to their precedence. Higher
// binds tighter.
type OperatorTable struct {
	prec map[rune]int
}

// NewOperatorTable returns an empty table.
func NewOperatorTable() *OperatorTable {
	return &OperatorTable{prec: make(map[rune]int)}
}

// DefaultOperators returns the table for the four built-in operators.
func DefaultOperators() *OperatorTable {
	t := NewOperatorTable()
	t.Register('<', 10)
	t.Register('+', 20)
	t.Register('-', 30)
	t.Register('*', 40)
	return t
}

// Register sets the precedence of op, replacing any earlier entry.
// Operators with a negative precedence never bind.
func (t *OperatorTable) Register(op rune, prec int) {
	t.prec[op] = prec
}

// Lookup returns the precedence of op, if it is registered.
func (t *OperatorTable) Lookup(op rune) (int, bool) {
	prec, ok := t.prec[op]
	return prec, ok
}

// tokenPrecedence returns the precedence of tok as a binary operator, or -1
// when tok cannot continue a binary expression.
func (t *OperatorTable) tokenPrecedence(tok lexer.Token) int {
	if tok.Kind != lexer.Misc {
		return -1
	}

	if prec, ok := t.Lookup(tok.Char); ok {
		return prec
	}

	return -1
}
