package retype_test

import (
	"testing"

	"github.com/kr/pretty"
	"github.com/lacuna-lang/lacuna/action"
	"github.com/lacuna-lang/lacuna/exp"
	"github.com/lacuna-lang/lacuna/retype"
	"github.com/lacuna-lang/lacuna/statics"
	"github.com/lacuna-lang/lacuna/zipper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireSameTypes asserts that the cache assigns exactly the types a
// from-scratch analysis assigns.
func requireSameTypes(t *testing.T, c *retype.Cache, root exp.Expr, rootWant exp.Type) {
	t.Helper()
	scratch := statics.Analyze(root, rootWant).Types
	cached := c.Snapshot()
	require.Len(t, cached, len(scratch),
		"cache and scratch analysis disagree on the node set:\n%s", pretty.Sprint(cached, scratch))
	for id, want := range scratch {
		got, ok := cached[id]
		require.True(t, ok, "node %d missing from the cache", id)
		require.True(t, got.Equal(want), "node %d: cached %s, scratch %s", id, got, want)
	}
}

func TestSeedMatchesScratchAnalysis(t *testing.T) {
	f := exp.NewFresh()
	term := exp.NewIf(f,
		exp.NewBinOp(f, exp.OpLessThan, exp.NewNumLit(f, 1), exp.NewEmptyHole(f)),
		exp.NewApply(f, exp.NewLambda(f, "x", exp.NewVar(f, "x")), exp.NewNumLit(f, 3)),
		exp.NewEmptyHole(f),
	)

	c := retype.New(exp.Num)
	c.Seed(term)

	requireSameTypes(t, c, term, exp.Num)
	assert.Empty(t, c.DirtyIDs())
}

// Drives a whole editing session through the cache and checks after every
// edit that the incremental state equals a from-scratch analysis.
func TestIncrementalEqualsScratchOverEditSession(t *testing.T) {
	rootWant := exp.Num
	st := action.NewState(rootWant)
	z := zipper.Root(exp.NewEmptyHole(st.Fresh))

	c := retype.New(rootWant)
	c.Seed(zipper.Plug(z))

	script := []action.Action{
		action.ConstructLiteral{Value: 1},
		action.ConstructBinOp{Op: exp.OpAdd, Side: action.SideLeft},
		action.MoveParent{},
		action.MoveChild{N: 1},
		action.ConstructLiteral{Value: 2},
		action.MoveParent{},
		action.ConstructIf{},
		action.Delete{},
		action.ConstructBoolLit{Value: false},
		action.MoveParent{},
		action.MoveChild{N: 2},
		action.ConstructLambda{Param: "y"},
		action.ConstructVar{Name: "y"},
		action.MoveParent{},
		action.Finish{},
	}
	for i, a := range script {
		next, err := action.Apply(z, a, st)
		if err != nil {
			continue
		}
		z = next
		root := zipper.Plug(z)
		c.Invalidate(root, zipper.PathOf(z))
		c.Recheck(root)

		requireSameTypes(t, c, root, rootWant)
		assert.Empty(t, c.DirtyIDs(), "step %d left dirt behind", i)
	}
}

func TestInvalidateMarksSpineOnly(t *testing.T) {
	f := exp.NewFresh()
	left := exp.NewBinOp(f, exp.OpMul, exp.NewNumLit(f, 2), exp.NewNumLit(f, 3))
	right := exp.NewEmptyHole(f)
	term := exp.NewBinOp(f, exp.OpAdd, left, right)

	c := retype.New(exp.Num)
	c.Seed(term)

	c.Invalidate(term, exp.Path{1})
	dirty := c.DirtyIDs()
	assert.Contains(t, dirty, term.ID())
	assert.Contains(t, dirty, right.ID())
	assert.NotContains(t, dirty, left.ID(), "the untouched operand must stay clean")
	assert.NotContains(t, dirty, left.Left.ID())
	assert.NotContains(t, dirty, left.Right.ID())
}

func TestInvalidatedBinderDirtiesItsReaders(t *testing.T) {
	f := exp.NewFresh()
	occurrence := exp.NewVar(f, "x")
	lam := exp.NewLambda(f, "x", exp.NewApply(f, exp.NewLambda(f, "z", exp.NewNumLit(f, 0)), occurrence))

	c := retype.New(exp.NewArrow(exp.Num, exp.Num))
	c.Seed(lam)

	c.Invalidate(lam, exp.RootPath)
	assert.Contains(t, c.DirtyIDs(), occurrence.ID(),
		"re-typing a binder must reach the occurrences that read it")
}

func TestRecheckDropsStaleEntries(t *testing.T) {
	f := exp.NewFresh()
	original := exp.NewNumLit(f, 1)
	term := exp.NewBinOp(f, exp.OpAdd, original, exp.NewNumLit(f, 2))

	c := retype.New(exp.Num)
	c.Seed(term)
	require.True(t, c.TypeOf(original.ID()).Equal(exp.Num))

	z, ok := zipper.ToPath(term, exp.Path{0})
	require.True(t, ok)
	replacement := exp.NewEmptyHole(f)
	z.Focus = replacement
	edited := zipper.Plug(z)

	c.Invalidate(edited, exp.Path{0})
	c.Recheck(edited)

	snapshot := c.Snapshot()
	assert.NotContains(t, snapshot, original.ID(), "replaced nodes must not linger in the arena")
	assert.Contains(t, snapshot, replacement.ID())
	requireSameTypes(t, c, edited, exp.Num)
}

func TestCachedHoleAndExpectedLookups(t *testing.T) {
	f := exp.NewFresh()
	hole := exp.NewEmptyHole(f)
	term := exp.NewBinOp(f, exp.OpAdd, exp.NewNumLit(f, 1), hole)

	c := retype.New(exp.Num)
	c.Seed(term)

	assert.True(t, c.ExpectedOf(hole.ID()).Equal(exp.Num))
	hc, ok := c.HoleContextOf(hole.ID())
	require.True(t, ok)
	assert.True(t, hc.Expected.Equal(exp.Num))

	_, ok = c.HoleContextOf(term.ID())
	assert.False(t, ok, "only holes capture a context")
}
