package action

import (
	"github.com/lacuna-lang/lacuna/exp"
	"github.com/lacuna-lang/lacuna/internal/log"
	"github.com/lacuna-lang/lacuna/lacerr"
	"github.com/lacuna-lang/lacuna/statics"
	"github.com/lacuna-lang/lacuna/zipper"
)

var logger = log.DefaultLogger.With("section", "action")

// State is what applying actions needs besides the zipper itself: the ID
// counter for new nodes, and the expected type of the whole term.
type State struct {
	Fresh    *exp.Fresh
	RootWant exp.Type
}

func NewState(rootWant exp.Type) *State {
	if rootWant == nil {
		rootWant = exp.Hole
	}
	return &State{Fresh: exp.NewFresh(), RootWant: rootWant}
}

// Apply maps (zipper, action) to the next zipper. On error the input zipper
// is returned unchanged; the possible error codes are lacerr.NoSuchChild,
// lacerr.AtTop and lacerr.NotConsistentYet.
//
// Type preservation holds by construction: if the plugged input term checks
// against st.RootWant, so does the plugged output term.
func Apply(z zipper.Zipper, a Action, st *State) (zipper.Zipper, error) {
	next, err := apply(z, a, st)
	if err != nil {
		return z, err
	}
	logger.Debug("applied action", "action", a.String(), "focus", next.Focus.Describe())
	return next, nil
}

func apply(z zipper.Zipper, a Action, st *State) (zipper.Zipper, error) {
	switch a := a.(type) {
	case MoveParent:
		up, ok := zipper.Up(z)
		if !ok {
			return z, lacerr.New(lacerr.NewAtTop{})
		}
		return up, nil

	case MoveChild:
		down, ok := zipper.Down(z, a.N)
		if !ok {
			return z, lacerr.New(lacerr.NewNoSuchChild{
				Child:      a.N,
				ChildCount: len(z.Focus.Children()),
			})
		}
		return down, nil

	case ConstructLiteral:
		return constructAtom(z, st, exp.NewNumLit(st.Fresh, a.Value), exp.Num), nil

	case ConstructBoolLit:
		return constructAtom(z, st, exp.NewBoolLit(st.Fresh, a.Value), exp.Bool), nil

	case ConstructVar:
		env, want := statics.ExpectedAt(z, st.RootWant)
		v := exp.NewVar(st.Fresh, a.Name)
		t, bound := env.Lookup(a.Name)
		if !bound {
			// out-of-scope names are holes from birth
			z.Focus = exp.NewNonEmptyHole(st.Fresh, v)
			return z, nil
		}
		z.Focus = wrapUnless(st, v, t, want)
		return z, nil

	case ConstructLambda:
		return constructLambda(z, a, st), nil

	case ConstructApply:
		return constructApply(z, st), nil

	case ConstructBinOp:
		return constructBinOp(z, a, st), nil

	case ConstructIf:
		return constructIf(z, st), nil

	case Delete:
		z.Focus = exp.NewEmptyHole(st.Fresh)
		return z, nil

	case Finish:
		return finish(z, st)

	default:
		panic("unhandled action " + a.String())
	}
}

// constructAtom replaces the focus with a leaf of known type, wrapping it
// when the position disagrees.
func constructAtom(z zipper.Zipper, st *State, e exp.Expr, t exp.Type) zipper.Zipper {
	_, want := statics.ExpectedAt(z, st.RootWant)
	z.Focus = wrapUnless(st, e, t, want)
	return z
}

func constructLambda(z zipper.Zipper, a ConstructLambda, st *State) zipper.Zipper {
	env, want := statics.ExpectedAt(z, st.RootWant)
	lam := exp.NewLambda(st.Fresh, a.Param, z.Focus)
	lamT := synthOrHole(env, lam)

	up := z.Ctx
	if !statics.Consistent(lamT, want) {
		outer := exp.NewNonEmptyHole(st.Fresh, lam)
		up = &zipper.HoleInner{Hole: outer, Parent: up}
	}
	return zipper.Zipper{
		Focus: lam.Body,
		Ctx:   &zipper.LambdaBody{Lam: lam, Parent: up},
	}
}

func constructApply(z zipper.Zipper, st *State) zipper.Zipper {
	env, want := statics.ExpectedAt(z, st.RootWant)
	fn := z.Focus
	arrow, ok := exp.MatchedArrow(synthOrHole(env, fn))
	if !ok {
		// applying something that is not a function: the function itself
		// becomes the hole, and the application types vacuously
		fn = exp.NewNonEmptyHole(st.Fresh, fn)
		arrow = exp.NewArrow(exp.Hole, exp.Hole)
	}
	ap := exp.NewApply(st.Fresh, fn, exp.NewEmptyHole(st.Fresh))

	up := z.Ctx
	if !statics.Consistent(arrow.Result, want) {
		outer := exp.NewNonEmptyHole(st.Fresh, ap)
		up = &zipper.HoleInner{Hole: outer, Parent: up}
	}
	return zipper.Zipper{
		Focus: ap.Arg,
		Ctx:   &zipper.ApplyArg{Ap: ap, Parent: up},
	}
}

func constructBinOp(z zipper.Zipper, a ConstructBinOp, st *State) zipper.Zipper {
	env, want := statics.ExpectedAt(z, st.RootWant)
	operand := wrapUnless(st, z.Focus, synthOrHole(env, z.Focus), exp.Num)

	var node *exp.BinOp
	if a.Side == SideLeft {
		node = exp.NewBinOp(st.Fresh, a.Op, operand, exp.NewEmptyHole(st.Fresh))
	} else {
		node = exp.NewBinOp(st.Fresh, a.Op, exp.NewEmptyHole(st.Fresh), operand)
	}

	up := z.Ctx
	if !statics.Consistent(a.Op.Synthesizes(), want) {
		outer := exp.NewNonEmptyHole(st.Fresh, node)
		up = &zipper.HoleInner{Hole: outer, Parent: up}
	}
	if a.Side == SideLeft {
		return zipper.Zipper{Focus: node.Left, Ctx: &zipper.BinOpLeft{Op: node, Parent: up}}
	}
	return zipper.Zipper{Focus: node.Right, Ctx: &zipper.BinOpRight{Op: node, Parent: up}}
}

func constructIf(z zipper.Zipper, st *State) zipper.Zipper {
	env, _ := statics.ExpectedAt(z, st.RootWant)
	guard := wrapUnless(st, z.Focus, synthOrHole(env, z.Focus), exp.Bool)
	node := exp.NewIf(st.Fresh, guard, exp.NewEmptyHole(st.Fresh), exp.NewEmptyHole(st.Fresh))
	// both branches are holes, so the conditional meets any expectation
	return zipper.Zipper{Focus: node.Guard, Ctx: &zipper.IfGuard{If: node, Parent: z.Ctx}}
}

func finish(z zipper.Zipper, st *State) (zipper.Zipper, error) {
	hole, ok := z.Focus.(*exp.NonEmptyHole)
	if !ok {
		// nothing to finish; deliberately not an error
		return z, nil
	}
	env, want := statics.ExpectedAt(z, st.RootWant)
	innerT := synthOrHole(env, hole.Inner)
	if !statics.Consistent(innerT, want) {
		return z, lacerr.New(lacerr.NewNotConsistentYet{
			Synthesized: innerT.String(),
			Wanted:      want.String(),
		})
	}
	z.Focus = hole.Inner
	return z, nil
}

// wrapUnless returns e, wrapped in a non-empty hole when its type t is not
// consistent with what the position wants. This is the wrapping rule: the
// single mechanism by which no action can produce an ill-typed program.
func wrapUnless(st *State, e exp.Expr, t, want exp.Type) exp.Expr {
	if statics.Consistent(t, want) {
		return e
	}
	logger.Debug("wrapping inconsistent expression in a hole",
		"expression", e.Describe(), "synthesized", t.String(), "wanted", want.String())
	return exp.NewNonEmptyHole(st.Fresh, e)
}

// synthOrHole is synthesis with bare holes collapsed to the unknown type,
// for positions where the engine itself synthesizes.
func synthOrHole(env statics.Env, e exp.Expr) exp.Type {
	t, err := statics.Synth(env, e)
	if err != nil {
		return exp.Hole
	}
	return t
}
