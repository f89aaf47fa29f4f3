// Package statics implements the bidirectional, hole-aware type system: a
// synthesis judgment computing a type from an expression, a checking judgment
// verifying an expression against an expected type, and the consistency
// relation that stands in for type equality around holes.
//
// There are no user-facing type errors anywhere in this package: an
// inconsistency is always absorbed by the action layer wrapping the offending
// expression in a non-empty hole. The only failure is CannotSynthesize, which
// marks a caller bug.
package statics

import (
	"github.com/lacuna-lang/lacuna/exp"
	"github.com/lacuna-lang/lacuna/internal/log"
	"github.com/lacuna-lang/lacuna/lacerr"
)

var logger = log.DefaultLogger.With("section", "statics")

// Result is the outcome of one analysis pass over a term: a type for every
// node, the contextual type and environment each node was visited with, and
// the context captured for each hole.
type Result struct {
	Types map[exp.NodeID]exp.Type
	// Expected holds the contextual type a node was checked against.
	// Synthesis positions have no entry.
	Expected map[exp.NodeID]exp.Type
	Envs     map[exp.NodeID]Env
	Holes    map[exp.NodeID]HoleContext
	// Reads records, per node, the binder nodes whose bindings its type was
	// derived from. The retype cache consumes this to invalidate variable
	// occurrences when their binder is re-typed.
	Reads map[exp.NodeID][]exp.NodeID
	// Reused marks subtree roots whose analysis was skipped because a
	// Reuser vouched for them. Their descendants have no entries in this
	// Result; the caller that supplied the Reuser already holds them.
	Reused map[exp.NodeID]bool

	reuse Reuser
}

// Reuser lets a caller interpose cached analysis outcomes: when Reuse
// returns true for a node, the analysis takes the returned type as the
// node's type and does not descend into it. The contract is that the cached
// outcome was produced by analyzing the same node against an equal
// contextual type in an equivalent environment.
type Reuser interface {
	Reuse(e exp.Expr, env Env, want exp.Type) (exp.Type, bool)
}

func newResult() *Result {
	return &Result{
		Types:    make(map[exp.NodeID]exp.Type),
		Expected: make(map[exp.NodeID]exp.Type),
		Envs:     make(map[exp.NodeID]Env),
		Holes:    make(map[exp.NodeID]HoleContext),
		Reads:    make(map[exp.NodeID][]exp.NodeID),
		Reused:   make(map[exp.NodeID]bool),
	}
}

// TypeOf returns the type assigned to the node, or the unknown type when the
// node was not part of the analyzed tree.
func (r *Result) TypeOf(id exp.NodeID) exp.Type {
	if t, ok := r.Types[id]; ok {
		return t
	}
	return exp.Hole
}

// Analyze runs a full bidirectional pass over root, checked against expected.
// Pass the unknown type when nothing is known about the root.
func Analyze(root exp.Expr, expected exp.Type) *Result {
	r := newResult()
	r.analyze(NewEnv(), root, expected)
	return r
}

// AnalyzeWith is Analyze with a reuse oracle: subtrees the oracle vouches
// for are assigned their cached type without being re-analyzed. With a
// correct oracle the combined outcome is indistinguishable from Analyze.
func AnalyzeWith(root exp.Expr, expected exp.Type, reuse Reuser) *Result {
	r := newResult()
	r.reuse = reuse
	r.analyze(NewEnv(), root, expected)
	return r
}

// Synth computes a type from e under env, following the synthesis judgment.
// It fails only for a bare empty hole, which has no contextual type here: the
// caller must use Check instead.
func Synth(env Env, e exp.Expr) (exp.Type, error) {
	if _, isEmpty := e.(*exp.EmptyHole); isEmpty {
		return nil, lacerr.New(lacerr.NewCannotSynthesize{})
	}
	r := newResult()
	return r.analyze(env, e, nil), nil
}

// Check verifies e against want under env. Holes always check, capturing
// their HoleContext into the returned Result. A false return means the
// expression can only fit this position when wrapped in a non-empty hole.
func Check(env Env, e exp.Expr, want exp.Type) (*Result, bool) {
	r := newResult()
	t := r.analyze(env, e, want)
	return r, Consistent(t, want)
}

// analyze is the single recursion behind Synth, Check and Analyze. A nil
// want marks a synthesis position. It returns the type of e, which for holes
// is always the unknown type.
func (r *Result) analyze(env Env, e exp.Expr, want exp.Type) exp.Type {
	r.Envs[e.ID()] = env
	if want != nil {
		r.Expected[e.ID()] = want
	}
	if r.reuse != nil {
		if t, ok := r.reuse.Reuse(e, env, want); ok {
			r.Reused[e.ID()] = true
			r.Types[e.ID()] = t
			return t
		}
	}
	t := r.analyzeExpr(env, e, want)
	r.Types[e.ID()] = t
	return t
}

func (r *Result) analyzeExpr(env Env, e exp.Expr, want exp.Type) exp.Type {
	switch e := e.(type) {
	case *exp.NumLit:
		return exp.Num

	case *exp.BoolLit:
		return exp.Bool

	case *exp.Var:
		t, ok := env.Lookup(e.Name)
		if !ok {
			// free variables cannot be produced by edit actions; an
			// analysis over a hand-built ill-scoped term still gets a
			// gradual type rather than an error
			logger.Debug("free variable treated as unknown", "name", e.Name)
			return exp.Hole
		}
		if binder, ok := env.Binder(e.Name); ok {
			r.Reads[e.ID()] = append(r.Reads[e.ID()], binder)
		}
		return t

	case *exp.Lambda:
		arrow, matched := matchedWant(want)
		if !matched {
			// a lambda in a position expecting a non-arrow: type it on its
			// own. Check will report the inconsistency to the action layer.
			arrow = exp.NewArrow(exp.Hole, nil)
		}
		bodyEnv := env.Bind(e.Param, arrow.Param, e.ID())
		bodyT := r.analyze(bodyEnv, e.Body, arrow.Result)
		return exp.NewArrow(arrow.Param, bodyT)

	case *exp.Apply:
		fnT := r.analyze(env, e.Fn, nil)
		arrow, ok := exp.MatchedArrow(fnT)
		if !ok {
			// applying a non-arrow: the application gets the unknown type;
			// at runtime this settles as a stuck result
			r.analyze(env, e.Arg, nil)
			return exp.Hole
		}
		r.analyze(env, e.Arg, arrow.Param)
		return arrow.Result

	case *exp.BinOp:
		r.analyze(env, e.Left, exp.Num)
		r.analyze(env, e.Right, exp.Num)
		return e.Op.Synthesizes()

	case *exp.If:
		r.analyze(env, e.Guard, exp.Bool)
		branchWant := want
		consT := r.analyze(env, e.Cons, branchWant)
		altT := r.analyze(env, e.Alt, branchWant)
		if met, ok := Meet(consT, altT); ok {
			return met
		}
		return exp.Hole

	case *exp.EmptyHole:
		r.recordHole(e, env, want)
		return exp.Hole

	case *exp.NonEmptyHole:
		// the wrapped expression is analyzed on its own terms; that is the
		// whole point of the wrapper
		r.analyze(env, e.Inner, nil)
		r.recordHole(e, env, want)
		return exp.Hole

	default:
		panic("unhandled expression " + e.ExprName())
	}
}

func (r *Result) recordHole(e exp.HoleExpr, env Env, want exp.Type) {
	expected := want
	if expected == nil {
		expected = exp.Hole
	}
	r.Holes[e.ID()] = HoleContext{
		Expected: expected,
		Bound:    env,
		Source:   e.ID(),
	}
}

// matchedWant is exp.MatchedArrow lifted to the nil contextual type: a
// synthesis position leaves the lambda body in synthesis position too.
func matchedWant(want exp.Type) (*exp.ArrowType, bool) {
	if want == nil {
		return exp.NewArrow(exp.Hole, nil), true
	}
	return exp.MatchedArrow(want)
}
