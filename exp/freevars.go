package exp

import (
	"github.com/hashicorp/go-set/v3"
)

// FreeVars returns the set of variable names occurring free in e.
func FreeVars(e Expr) *set.Set[string] {
	free := set.New[string](4)
	freeVarsInto(e, free, set.New[string](4))
	return free
}

// IsClosed reports whether e has no free variables.
func IsClosed(e Expr) bool {
	return FreeVars(e).Empty()
}

func freeVarsInto(e Expr, free, bound *set.Set[string]) {
	switch e := e.(type) {
	case *Var:
		if !bound.Contains(e.Name) {
			free.Insert(e.Name)
		}
	case *Lambda:
		if bound.Contains(e.Param) {
			freeVarsInto(e.Body, free, bound)
			return
		}
		bound.Insert(e.Param)
		freeVarsInto(e.Body, free, bound)
		bound.Remove(e.Param)
	default:
		for _, child := range e.Children() {
			freeVarsInto(child, free, bound)
		}
	}
}
