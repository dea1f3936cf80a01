package parser

import (
	"fmt"
	"text/scanner"

	"github.com/pejato/kaleidoscope/lexer"
)

// ParseError describes a structural error: a missing delimiter, a token of
// the wrong kind or a token that cannot start an expression.
type ParseError struct {
	Pos scanner.Position
	Msg string
	Got lexer.Token
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %s. Got %v instead", e.Pos, e.Msg, e.Got)
}
