// Package lexer turns Kaleidoscope source into a stream of tokens.
package lexer

import (
	"fmt"
	"io"
	"strconv"
	"text/scanner"
	"unicode"
)

// Error is an unrecoverable input failure: a non-ASCII character, a
// malformed number or a failing reader.
type Error struct {
	Pos scanner.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Pos, e.Msg)
}

// Lexer handles everything to do with tokenising a source stream. It holds
// exactly one current token and reads more input only when asked to.
type Lexer struct {
	s       scanner.Scanner
	current Token
	err     error
}

// New creates a new lexer with a reader source. filename only shows up in
// token positions.
func New(r io.Reader, filename string) *Lexer {
	l := &Lexer{}
	l.s.Init(r)
	l.s.Filename = filename
	l.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats
	l.s.IsIdentRune = isIdentRune
	l.s.Error = func(s *scanner.Scanner, msg string) {
		l.fail(s.Pos(), msg)
	}
	return l
}

// Next reads the next token, makes it the current one and returns it.
// Once the input is exhausted or broken it keeps returning EOF.
func (l *Lexer) Next() Token {
	l.current = l.scan()
	return l.current
}

// Current returns the current token without consuming it.
func (l *Lexer) Current() Token {
	return l.current
}

// Err returns the error that stopped the lexer, if any.
func (l *Lexer) Err() error {
	return l.err
}

func (l *Lexer) scan() Token {
	for l.err == nil {
		tok := l.s.Scan()
		pos := l.s.Position
		if l.err != nil {
			break
		}

		switch {
		case tok == scanner.EOF:
			return Token{Kind: EOF, Pos: pos}
		case tok == '#':
			l.skipComment()
		case tok == scanner.Ident:
			name := l.s.TokenText()
			if kind, ok := keywords[name]; ok {
				return Token{Kind: kind, Name: name, Pos: pos}
			}
			return Token{Kind: Identifier, Name: name, Pos: pos}
		case tok == scanner.Int || tok == scanner.Float:
			text := l.s.TokenText()
			value, err := parseNumber(text)
			if err != nil {
				l.fail(pos, fmt.Sprintf("malformed number %q", text))
				break
			}
			return Token{Kind: Number, Value: value, Pos: pos}
		case tok > unicode.MaxASCII:
			l.fail(pos, fmt.Sprintf("non-ASCII character %q", tok))
		default:
			return Token{Kind: Misc, Char: tok, Pos: pos}
		}
	}
	return Token{Kind: EOF, Pos: l.s.Pos()}
}

// skipComment drops everything up to, not including, the end of the line.
func (l *Lexer) skipComment() {
	for ch := l.s.Peek(); ch != '\n' && ch != '\r' && ch != scanner.EOF; ch = l.s.Peek() {
		l.s.Next()
	}
}

func (l *Lexer) fail(pos scanner.Position, msg string) {
	if l.err == nil {
		l.err = &Error{Pos: pos, Msg: msg}
	}
}

func isIdentRune(ch rune, i int) bool {
	if ch > unicode.MaxASCII {
		return false
	}
	return unicode.IsLetter(ch) || (i > 0 && unicode.IsDigit(ch))
}

func parseNumber(text string) (float64, error) {
	value, err := strconv.ParseFloat(text, 64)
	if err == nil {
		return value, nil
	}
	// hexadecimal and underscored integers
	i, ierr := strconv.ParseInt(text, 0, 64)
	if ierr != nil {
		return 0, err
	}
	return float64(i), nil
}
