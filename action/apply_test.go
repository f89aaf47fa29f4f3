package action_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/lacuna-lang/lacuna/action"
	"github.com/lacuna-lang/lacuna/dynamics"
	"github.com/lacuna-lang/lacuna/exp"
	"github.com/lacuna-lang/lacuna/lacerr"
	"github.com/lacuna-lang/lacuna/statics"
	"github.com/lacuna-lang/lacuna/zipper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// applyAll applies the script in order, requiring every step to succeed, and
// asserts after each step that the plugged term still checks against the
// expected root type.
func applyAll(t *testing.T, z zipper.Zipper, st *action.State, script []action.Action) zipper.Zipper {
	t.Helper()
	for i, a := range script {
		next, err := action.Apply(z, a, st)
		require.NoError(t, err, "step %d: %s", i, a)
		_, ok := statics.Check(statics.NewEnv(), zipper.Plug(next), st.RootWant)
		require.True(t, ok, "term stopped checking after step %d: %s", i, a)
		z = next
	}
	return z
}

func TestBuildArithmetic(t *testing.T) {
	st := action.NewState(exp.Num)
	z := applyAll(t, zipper.Root(exp.NewEmptyHole(st.Fresh)), st, []action.Action{
		action.ConstructLiteral{Value: 1},
		action.ConstructBinOp{Op: exp.OpAdd, Side: action.SideLeft},
		action.MoveParent{},
		action.MoveChild{N: 1},
		action.ConstructLiteral{Value: 2},
	})

	term := zipper.Plug(z)
	assert.Equal(t, "1 + 2", exp.ExprString(term))

	got, err := statics.Synth(statics.NewEnv(), term)
	require.NoError(t, err)
	assert.True(t, got.Equal(exp.Num))
}

func TestConstructBinOpAbsorbsFocus(t *testing.T) {
	st := action.NewState(exp.Num)
	z := applyAll(t, zipper.Root(exp.NewEmptyHole(st.Fresh)), st, []action.Action{
		action.ConstructLiteral{Value: 3},
		action.ConstructBinOp{Op: exp.OpMul, Side: action.SideRight},
	})

	// the absorbed operand went to the right, the cursor stays on it
	lit, ok := z.Focus.(*exp.NumLit)
	require.True(t, ok)
	assert.Equal(t, 3, lit.Value)

	node, ok := zipper.Plug(z).(*exp.BinOp)
	require.True(t, ok)
	assert.IsType(t, &exp.EmptyHole{}, node.Left)
	assert.Same(t, lit, node.Right)
}

func TestConstructApplyWrapsNonFunction(t *testing.T) {
	st := action.NewState(exp.Hole)
	z := applyAll(t, zipper.Root(exp.NewEmptyHole(st.Fresh)), st, []action.Action{
		action.ConstructLiteral{Value: 1},
		action.ConstructApply{},
	})

	// cursor lands in the fresh argument hole
	assert.IsType(t, &exp.EmptyHole{}, z.Focus)

	ap, ok := zipper.Plug(z).(*exp.Apply)
	require.True(t, ok)
	wrapped, ok := ap.Fn.(*exp.NonEmptyHole)
	require.True(t, ok, "a literal in function position must be wrapped")
	assert.IsType(t, &exp.NumLit{}, wrapped.Inner)
}

func TestConstructApplyOnFunctionDoesNotWrap(t *testing.T) {
	st := action.NewState(exp.Hole)
	z := applyAll(t, zipper.Root(exp.NewEmptyHole(st.Fresh)), st, []action.Action{
		action.ConstructLambda{Param: "x"},
		action.MoveParent{},
		action.ConstructApply{},
	})

	ap, ok := zipper.Plug(z).(*exp.Apply)
	require.True(t, ok)
	assert.IsType(t, &exp.Lambda{}, ap.Fn)
}

func TestConstructVarOutOfScopeIsWrapped(t *testing.T) {
	st := action.NewState(exp.Hole)
	z := applyAll(t, zipper.Root(exp.NewEmptyHole(st.Fresh)), st, []action.Action{
		action.ConstructVar{Name: "nowhere"},
	})

	wrapped, ok := z.Focus.(*exp.NonEmptyHole)
	require.True(t, ok)
	v, ok := wrapped.Inner.(*exp.Var)
	require.True(t, ok)
	assert.Equal(t, "nowhere", v.Name)
}

func TestConstructLambdaAgainstNumIsWrapped(t *testing.T) {
	st := action.NewState(exp.Num)
	z := applyAll(t, zipper.Root(exp.NewEmptyHole(st.Fresh)), st, []action.Action{
		action.ConstructLambda{Param: "x"},
	})

	// cursor is inside the body hole, the whole function sits in a hole
	assert.IsType(t, &exp.EmptyHole{}, z.Focus)
	wrapped, ok := zipper.Plug(z).(*exp.NonEmptyHole)
	require.True(t, ok)
	assert.IsType(t, &exp.Lambda{}, wrapped.Inner)
}

func TestConstructIfWrapsNonBoolGuard(t *testing.T) {
	st := action.NewState(exp.Num)
	z := applyAll(t, zipper.Root(exp.NewEmptyHole(st.Fresh)), st, []action.Action{
		action.ConstructLiteral{Value: 1},
		action.ConstructIf{},
	})

	wrapped, ok := z.Focus.(*exp.NonEmptyHole)
	require.True(t, ok, "a numeric guard must be wrapped")
	assert.IsType(t, &exp.NumLit{}, wrapped.Inner)

	node, ok := zipper.Plug(z).(*exp.If)
	require.True(t, ok)
	assert.IsType(t, &exp.EmptyHole{}, node.Cons)
	assert.IsType(t, &exp.EmptyHole{}, node.Alt)
}

func TestLiteralAgainstBoolIsWrapped(t *testing.T) {
	st := action.NewState(exp.Bool)
	z := applyAll(t, zipper.Root(exp.NewEmptyHole(st.Fresh)), st, []action.Action{
		action.ConstructLiteral{Value: 1},
	})

	wrapped, ok := z.Focus.(*exp.NonEmptyHole)
	require.True(t, ok)
	assert.IsType(t, &exp.NumLit{}, wrapped.Inner)
}

func TestFinishRejectsInconsistentContents(t *testing.T) {
	st := action.NewState(exp.Num)
	z := applyAll(t, zipper.Root(exp.NewEmptyHole(st.Fresh)), st, []action.Action{
		action.ConstructBoolLit{Value: true},
	})
	require.IsType(t, &exp.NonEmptyHole{}, z.Focus)

	after, err := action.Apply(z, action.Finish{}, st)
	require.Error(t, err)
	assert.Equal(t, lacerr.NotConsistentYet, lacerr.CodeOf(err))
	assert.Same(t, z.Focus, after.Focus, "a failed action leaves the zipper unchanged")
}

func TestFinishUnwrapsConsistentContents(t *testing.T) {
	st := action.NewState(exp.Num)
	z := applyAll(t, zipper.Root(exp.NewEmptyHole(st.Fresh)), st, []action.Action{
		action.ConstructBoolLit{Value: true}, // wrapped: bool against num
		action.MoveChild{N: 0},
		action.Delete{},
		action.ConstructLiteral{Value: 7},
		action.MoveParent{},
		action.Finish{},
	})

	lit, ok := z.Focus.(*exp.NumLit)
	require.True(t, ok)
	assert.Equal(t, 7, lit.Value)
	assert.Equal(t, "7", exp.ExprString(zipper.Plug(z)))
}

func TestFinishOnNonHoleIsNoop(t *testing.T) {
	st := action.NewState(exp.Num)
	z := applyAll(t, zipper.Root(exp.NewEmptyHole(st.Fresh)), st, []action.Action{
		action.ConstructLiteral{Value: 5},
	})

	after, err := action.Apply(z, action.Finish{}, st)
	require.NoError(t, err)
	assert.Same(t, z.Focus, after.Focus)
}

func TestDeleteLeavesHoleInPosition(t *testing.T) {
	st := action.NewState(exp.Num)
	z := applyAll(t, zipper.Root(exp.NewEmptyHole(st.Fresh)), st, []action.Action{
		action.ConstructLiteral{Value: 1},
		action.ConstructBinOp{Op: exp.OpAdd, Side: action.SideLeft},
		action.Delete{},
	})

	assert.IsType(t, &exp.EmptyHole{}, z.Focus)
	_, want := statics.ExpectedAt(z, st.RootWant)
	assert.True(t, want.Equal(exp.Num), "deleting keeps the position's expectation")
}

func TestMoveErrors(t *testing.T) {
	st := action.NewState(exp.Num)
	z := zipper.Root(exp.NewEmptyHole(st.Fresh))

	_, err := action.Apply(z, action.MoveParent{}, st)
	require.Error(t, err)
	assert.Equal(t, lacerr.AtTop, lacerr.CodeOf(err))

	_, err = action.Apply(z, action.MoveChild{N: 0}, st)
	require.Error(t, err)
	assert.Equal(t, lacerr.NoSuchChild, lacerr.CodeOf(err))
}

// Every reachable editor state checks against the root expectation, even when
// the script is adversarial: wrong types everywhere, deletes, finishes that
// may or may not fire.
func TestTypePreservationUnderMixedScript(t *testing.T) {
	st := action.NewState(exp.NewArrow(exp.Num, exp.Num))
	z := zipper.Root(exp.NewEmptyHole(st.Fresh))

	script := []action.Action{
		action.ConstructBoolLit{Value: true},
		action.ConstructBinOp{Op: exp.OpEquals, Side: action.SideLeft},
		action.MoveParent{},
		action.ConstructIf{},
		action.MoveParent{},
		action.MoveChild{N: 1},
		action.ConstructLambda{Param: "x"},
		action.ConstructVar{Name: "x"},
		action.MoveParent{},
		action.Delete{},
		action.ConstructLiteral{Value: 0},
		action.Finish{},
	}
	for i, a := range script {
		next, err := action.Apply(z, a, st)
		if err != nil {
			assert.Equal(t, fmt.Sprint(z.Focus), fmt.Sprint(next.Focus))
			continue
		}
		z = next
		_, ok := statics.Check(statics.NewEnv(), zipper.Plug(z), st.RootWant)
		require.True(t, ok, "term stopped checking after step %d: %s", i, a)
	}
}

func randomAction(rng *rand.Rand) action.Action {
	names := []string{"x", "y", "f"}
	ops := []exp.Op{exp.OpAdd, exp.OpSub, exp.OpMul, exp.OpLessThan, exp.OpEquals}
	switch rng.Intn(12) {
	case 0:
		return action.MoveParent{}
	case 1:
		return action.MoveChild{N: rng.Intn(3)}
	case 2:
		return action.ConstructLambda{Param: names[rng.Intn(len(names))]}
	case 3:
		return action.ConstructApply{}
	case 4:
		return action.ConstructBinOp{Op: ops[rng.Intn(len(ops))], Side: action.Side(rng.Intn(2))}
	case 5:
		return action.ConstructLiteral{Value: rng.Intn(10)}
	case 6:
		return action.ConstructBoolLit{Value: rng.Intn(2) == 0}
	case 7:
		return action.ConstructVar{Name: names[rng.Intn(len(names))]}
	case 8:
		return action.ConstructIf{}
	case 9:
		return action.Delete{}
	default:
		return action.Finish{}
	}
}

// Seeded random scripts: whatever sequence of accepted and rejected actions
// an editing session takes, every reachable term checks against the root
// expectation, and evaluating it settles without failing.
func TestTypePreservationUnderRandomScripts(t *testing.T) {
	rootWants := []exp.Type{exp.Hole, exp.Num, exp.NewArrow(exp.Num, exp.Bool)}
	for seed, rootWant := range rootWants {
		t.Run(fmt.Sprintf("seed %d expecting %s", seed, rootWant), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(seed)))
			st := action.NewState(rootWant)
			z := zipper.Root(exp.NewEmptyHole(st.Fresh))

			for i := 0; i < 300; i++ {
				a := randomAction(rng)
				next, err := action.Apply(z, a, st)
				if err != nil {
					continue
				}
				z = next
				_, ok := statics.Check(statics.NewEnv(), zipper.Plug(z), st.RootWant)
				require.True(t, ok, "term stopped checking after step %d: %s", i, a)
			}

			res := dynamics.Evaluate(context.Background(), zipper.Plug(z), 2000)
			require.NotNil(t, res)
		})
	}
}
