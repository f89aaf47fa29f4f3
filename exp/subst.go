package exp

// Substitute replaces free occurrences of name in e with the expression with.
// It is capture-avoiding: a binder whose parameter occurs free in with is
// renamed to a fresh name before descending under it.
//
// Substituting into an ill-scoped term is a precondition violation on the
// caller, not a runtime failure: Substitute never errors.
func Substitute(e Expr, name string, with Expr, fresh *Fresh) Expr {
	return substitute(e, name, with, FreeVars(with), fresh)
}

func substitute(e Expr, name string, with Expr, avoid interface{ Contains(string) bool }, fresh *Fresh) Expr {
	switch e := e.(type) {
	case *Var:
		if e.Name == name {
			return with
		}
		return e
	case *Lambda:
		if e.Param == name {
			// occurrences below are bound by this lambda, not by name
			return e
		}
		if avoid.Contains(e.Param) {
			renamed := fresh.Name(e.Param)
			body := substitute(e.Body, e.Param, NewVar(fresh, renamed), neverContains{}, fresh)
			lam := NewLambda(fresh, renamed, body)
			return lam.WithChildren(substitute(lam.Body, name, with, avoid, fresh))
		}
		return e.WithChildren(substitute(e.Body, name, with, avoid, fresh))
	default:
		children := e.Children()
		if len(children) == 0 {
			return e
		}
		newChildren := make([]Expr, len(children))
		for i, child := range children {
			newChildren[i] = substitute(child, name, with, avoid, fresh)
		}
		return e.WithChildren(newChildren...)
	}
}

// neverContains is the avoid set for renaming to a fresh name: fresh names
// cannot be captured, so no further renaming is needed below.
type neverContains struct{}

func (neverContains) Contains(string) bool { return false }
