package statics

import (
	"github.com/lacuna-lang/lacuna/exp"
	"github.com/lacuna-lang/lacuna/zipper"
)

// At reconstructs the typing environment and the contextual type at the
// focus of z, by replaying the checking rules down the context spine from
// the root. A nil contextual type marks a synthesis position.
//
// rootWant is the expected type of the whole term; pass the unknown type
// when nothing is known.
func At(z zipper.Zipper, rootWant exp.Type) (Env, exp.Type) {
	env := NewEnv()
	want := rootWant
	for _, frame := range zipper.Spine(z) {
		env, want = step(env, want, frame)
	}
	return env, want
}

// ExpectedAt is At with synthesis positions collapsed to the unknown type,
// which is what hole creation and external consumers need.
func ExpectedAt(z zipper.Zipper, rootWant exp.Type) (Env, exp.Type) {
	env, want := At(z, rootWant)
	if want == nil {
		want = exp.Hole
	}
	return env, want
}

func step(env Env, want exp.Type, frame zipper.Context) (Env, exp.Type) {
	switch frame := frame.(type) {
	case *zipper.LambdaBody:
		arrow, matched := matchedWant(want)
		if !matched {
			arrow = exp.NewArrow(exp.Hole, nil)
		}
		return env.Bind(frame.Lam.Param, arrow.Param, frame.Lam.ID()), arrow.Result

	case *zipper.ApplyFn:
		return env, nil

	case *zipper.ApplyArg:
		fnT, err := Synth(env, frame.Ap.Fn)
		if err != nil {
			return env, exp.Hole
		}
		arrow, ok := exp.MatchedArrow(fnT)
		if !ok {
			return env, exp.Hole
		}
		return env, arrow.Param

	case *zipper.BinOpLeft:
		return env, exp.Num
	case *zipper.BinOpRight:
		return env, exp.Num

	case *zipper.IfGuard:
		return env, exp.Bool
	case *zipper.IfCons:
		return env, want
	case *zipper.IfAlt:
		return env, want

	case *zipper.HoleInner:
		// inside a non-empty hole the expression stands on its own terms
		return env, nil

	default:
		panic("unhandled context frame")
	}
}
