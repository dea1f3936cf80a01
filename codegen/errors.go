package codegen

import "errors"

// Code generation failures. They are returned wrapped with the offending
// name, so match them with errors.Is.
var (
	ErrUnknownVariable     = errors.New("unknown variable name")
	ErrUnknownFunction     = errors.New("unknown function referenced")
	ErrArity               = errors.New("incorrect number of arguments")
	ErrUnsupportedOperator = errors.New("invalid binary operator")
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrRedefinition        = errors.New("function cannot be redefined")
	ErrNoFunction          = errors.New("control flow outside of a function")
	ErrInvalidFunction     = errors.New("generated function failed verification")
)
