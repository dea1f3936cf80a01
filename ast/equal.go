package ast

// Equal reports whether a and b are structurally identical trees. Nil and
// empty argument lists compare equal.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch a := a.(type) {
	case NumberExpr:
		b, ok := b.(NumberExpr)
		return ok && a.Value == b.Value
	case VariableExpr:
		b, ok := b.(VariableExpr)
		return ok && a.Name == b.Name
	case BinaryExpr:
		b, ok := b.(BinaryExpr)
		return ok && a.Op == b.Op && Equal(a.LHS, b.LHS) && Equal(a.RHS, b.RHS)
	case CallExpr:
		b, ok := b.(CallExpr)
		if !ok || a.Callee != b.Callee || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case Prototype:
		b, ok := b.(Prototype)
		return ok && equalPrototypes(a, b)
	case Function:
		b, ok := b.(Function)
		return ok && equalPrototypes(a.Proto, b.Proto) && Equal(a.Body, b.Body)
	case IfExpr:
		b, ok := b.(IfExpr)
		return ok && Equal(a.Cond, b.Cond) && Equal(a.Then, b.Then) && Equal(a.Else, b.Else)
	}
	return false
}

func equalPrototypes(a, b Prototype) bool {
	if a.Name != b.Name || len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if a.Args[i] != b.Args[i] {
			return false
		}
	}
	return true
}
