// Package parser builds expression trees from a token stream using
// recursive descent and operator-precedence climbing.
package parser

import (
	"github.com/pejato/kaleidoscope/ast"
	"github.com/pejato/kaleidoscope/lexer"
)

// Parser parses tokens from a lexer. It only looks at the lexer's current
// token and never resynchronises after an error; that is up to the caller.
type Parser struct {
	lexer *lexer.Lexer
	ops   *OperatorTable
}

// New creates a parser reading from l with the binary operators in ops.
func New(l *lexer.Lexer, ops *OperatorTable) *Parser {
	return &Parser{lexer: l, ops: ops}
}

func (p *Parser) next() lexer.Token {
	return p.lexer.Next()
}

func (p *Parser) current() lexer.Token {
	return p.lexer.Current()
}

func (p *Parser) have(ch rune) bool {
	return p.current().Is(ch)
}

func (p *Parser) expect(ch rune, msg string) error {
	if !p.have(ch) {
		return p.error(msg)
	}
	p.next()
	return nil
}

func (p *Parser) expectKind(kind lexer.Kind, msg string) error {
	if p.current().Kind != kind {
		return p.error(msg)
	}
	p.next()
	return nil
}

func (p *Parser) error(msg string) error {
	tok := p.current()
	return &ParseError{Pos: tok.Pos, Msg: msg, Got: tok}
}

// ParseNumberExpr ::= number
func (p *Parser) ParseNumberExpr() ast.Expr {
	result := ast.NumberExpr{Value: p.current().Value}
	p.next()
	return result
}

// ParseParenExpr ::= '(' expression ')'
func (p *Parser) ParseParenExpr() (ast.Expr, error) {
	p.next()
	v, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}

	if err := p.expect(')', "expected ')'"); err != nil {
		return nil, err
	}
	return v, nil
}

// ParseIdentifierExpr ::= identifier
// ::= identifier '(' (expression (',' expression)*)? ')'
func (p *Parser) ParseIdentifierExpr() (ast.Expr, error) {
	name := p.current().Name
	p.next()

	if !p.have('(') {
		return ast.VariableExpr{Name: name}, nil
	}

	p.next()
	var args []ast.Expr

	for !p.have(')') {
		arg, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if p.have(')') {
			break
		}

		if !p.have(',') {
			return nil, p.error("expected ')' or ',' in argument list")
		}
		p.next()
	}

	p.next()

	return ast.CallExpr{Callee: name, Args: args}, nil
}

// ParseIfExpr ::= 'if' expression 'then' expression 'else' expression
func (p *Parser) ParseIfExpr() (ast.Expr, error) {
	p.next()

	cond, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}

	if err := p.expectKind(lexer.Then, "expected 'then'"); err != nil {
		return nil, err
	}

	then, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}

	if err := p.expectKind(lexer.Else, "expected 'else'"); err != nil {
		return nil, err
	}

	el, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}

	return ast.IfExpr{Cond: cond, Then: then, Else: el}, nil
}

// ParsePrimaryExpr ::= identifierexpr
// ::= numberexpr
// ::= parenexpr
// ::= ifexpr
func (p *Parser) ParsePrimaryExpr() (ast.Expr, error) {
	switch tok := p.current(); {
	case tok.Kind == lexer.Identifier:
		return p.ParseIdentifierExpr()
	case tok.Kind == lexer.Number:
		return p.ParseNumberExpr(), nil
	case tok.Kind == lexer.If:
		return p.ParseIfExpr()
	case tok.Is('('):
		return p.ParseParenExpr()
	}

	return nil, p.error("unknown token when expecting an expression")
}

// ParseBinOpRHS ::= (binop primary)*
//
// Only operators binding at least as tightly as exprPrec are consumed.
// Equal precedence folds to the left; a tighter operator after the right
// operand is absorbed into it first.
func (p *Parser) ParseBinOpRHS(exprPrec int, lhs ast.Expr) (ast.Expr, error) {
	for {
		tokPrec := p.ops.tokenPrecedence(p.current())
		if tokPrec < exprPrec {
			return lhs, nil
		}

		binOp := p.current().Char
		p.next()

		rhs, err := p.ParsePrimaryExpr()
		if err != nil {
			return nil, err
		}

		nextPrec := p.ops.tokenPrecedence(p.current())
		if tokPrec < nextPrec {
			rhs, err = p.ParseBinOpRHS(tokPrec+1, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = ast.BinaryExpr{Op: binOp, LHS: lhs, RHS: rhs}
	}
}

// ParseExpr ::= primary binoprhs
func (p *Parser) ParseExpr() (ast.Expr, error) {
	lhs, err := p.ParsePrimaryExpr()
	if err != nil {
		return nil, err
	}

	return p.ParseBinOpRHS(0, lhs)
}

// ParsePrototype ::= identifier '(' (identifier (',' identifier)* ','?)? ')'
func (p *Parser) ParsePrototype() (ast.Prototype, error) {
	if p.current().Kind != lexer.Identifier {
		return ast.Prototype{}, p.error("expected function name in prototype")
	}

	name := p.current().Name
	p.next()

	if err := p.expect('(', "expected '(' in prototype"); err != nil {
		return ast.Prototype{}, err
	}

	var args []string
	for p.current().Kind == lexer.Identifier {
		args = append(args, p.current().Name)
		p.next()

		if !p.have(',') {
			break
		}
		p.next()
	}

	if err := p.expect(')', "expected ')' in prototype"); err != nil {
		return ast.Prototype{}, err
	}

	return ast.Prototype{Name: name, Args: args}, nil
}

// ParseDefinition ::= 'def' prototype expression
func (p *Parser) ParseDefinition() (ast.Function, error) {
	p.next()

	proto, err := p.ParsePrototype()
	if err != nil {
		return ast.Function{}, err
	}

	body, err := p.ParseExpr()
	if err != nil {
		return ast.Function{}, err
	}

	return ast.Function{Proto: proto, Body: body}, nil
}

// ParseExtern ::= 'extern' prototype
func (p *Parser) ParseExtern() (ast.Prototype, error) {
	p.next()
	return p.ParsePrototype()
}

// ParseTopLevelExpr ::= expression
//
// The expression becomes the body of a parameterless function named
// ast.AnonymousName so it can be compiled and run on its own.
func (p *Parser) ParseTopLevelExpr() (ast.Function, error) {
	body, err := p.ParseExpr()
	if err != nil {
		return ast.Function{}, err
	}

	return ast.Function{Proto: ast.Prototype{Name: ast.AnonymousName}, Body: body}, nil
}
