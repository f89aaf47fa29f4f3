package statics

import "github.com/lacuna-lang/lacuna/exp"

// Consistent is the gradual consistency relation over types. It is weaker
// than equality: the unknown type is consistent with everything, and arrows
// are consistent componentwise. It is reflexive and symmetric but not
// transitive.
func Consistent(a, b exp.Type) bool {
	if exp.IsHole(a) || exp.IsHole(b) {
		return true
	}
	switch a := a.(type) {
	case *exp.NumType:
		return a.Equal(b)
	case *exp.BoolType:
		return a.Equal(b)
	case *exp.ArrowType:
		asArrow, ok := b.(*exp.ArrowType)
		return ok && Consistent(a.Param, asArrow.Param) && Consistent(a.Result, asArrow.Result)
	default:
		return false
	}
}

// Meet is the precision meet of two consistent types: it keeps the more
// precise side wherever one of them is unknown. The boolean is false when
// the types are not consistent and no meet exists.
func Meet(a, b exp.Type) (exp.Type, bool) {
	if exp.IsHole(a) {
		return b, true
	}
	if exp.IsHole(b) {
		return a, true
	}
	switch a := a.(type) {
	case *exp.ArrowType:
		asArrow, ok := b.(*exp.ArrowType)
		if !ok {
			return nil, false
		}
		param, ok := Meet(a.Param, asArrow.Param)
		if !ok {
			return nil, false
		}
		result, ok := Meet(a.Result, asArrow.Result)
		if !ok {
			return nil, false
		}
		return exp.NewArrow(param, result), true
	default:
		if a.Equal(b) {
			return a, true
		}
		return nil, false
	}
}
