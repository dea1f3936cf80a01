package lexer

import (
	"fmt"
	"strconv"
	"text/scanner"
)

//go:generate stringer -type=Kind

// Kind is the type of a token.
type Kind int

// The Kind of token
const (
	EOF Kind = iota
	Def
	Extern
	If
	Then
	Else
	Identifier
	Number
	Misc
)

var keywords = map[string]Kind{
	"def":    Def,
	"extern": Extern,
	"if":     If,
	"then":   Then,
	"else":   Else,
}

// Token represents a token. Name is set for identifiers and keywords,
// Value for numbers and Char for misc tokens.
type Token struct {
	Kind  Kind
	Name  string
	Value float64
	Char  rune
	Pos   scanner.Position
}

// Is reports whether t is the misc token ch.
func (t Token) Is(ch rune) bool {
	return t.Kind == Misc && t.Char == ch
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case Identifier:
		return fmt.Sprintf("identifier '%s'", t.Name)
	case Number:
		return "number " + strconv.FormatFloat(t.Value, 'g', -1, 64)
	case Misc:
		return fmt.Sprintf("'%c'", t.Char)
	default:
		return fmt.Sprintf("keyword '%s'", t.Name)
	}
}
