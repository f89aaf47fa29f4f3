// Package dynamics implements the live evaluator: a budgeted reduction over
// terms which may contain holes. Evaluation proceeds as far as genuine data
// and control dependency allows; a hole yields an indeterminate result
// rather than an error, and a conditional that can pick its branch without
// the hole stays fully determinate. The evaluator is total over editor
// states: where the unknown type lets a value of the wrong shape reach an
// elimination position, the outcome is a stuck result, never a failure.
package dynamics

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lacuna-lang/lacuna/exp"
	"github.com/lacuna-lang/lacuna/internal/log"
	"github.com/lacuna-lang/lacuna/statics"
)

var logger = log.DefaultLogger.With("section", "dynamics")

// memoSize bounds the cache of determinate results. Evaluation is
// deterministic, so a cached value never goes stale; the bound only caps
// memory.
const memoSize = 256

// Evaluator evaluates terms against an optional statics result, which lets
// indeterminate outcomes report the blocked hole's expected type.
type Evaluator struct {
	holes map[exp.NodeID]statics.HoleContext
	memo  *lru.Cache[uint64, Value]
}

func NewEvaluator() *Evaluator {
	memo, err := lru.New[uint64, Value](memoSize)
	if err != nil {
		panic(err)
	}
	return &Evaluator{memo: memo}
}

// WithHoleContexts derives an evaluator that knows the hole contexts of the
// current analysis, so Indeterminate results carry each hole's expected
// type. The memo is shared with the receiver; it is safe under concurrent
// use, so a background session can keep running while the caller derives new
// evaluators for later analyses.
func (ev *Evaluator) WithHoleContexts(holes map[exp.NodeID]statics.HoleContext) *Evaluator {
	derived := *ev
	derived.holes = holes
	return &derived
}

// Evaluate reduces e for at most budget steps. A step is one beta reduction,
// arithmetic operation or branch dispatch; no step is ever partially
// applied, and cancellation via ctx is honored between steps only.
//
// Re-running with a larger budget can turn Unfinished into another result,
// but never changes an already-determinate one.
func Evaluate(ctx context.Context, e exp.Expr, budget int) Result {
	return NewEvaluator().Evaluate(ctx, e, budget)
}

func (ev *Evaluator) Evaluate(ctx context.Context, e exp.Expr, budget int) Result {
	closed := exp.IsClosed(e)
	if closed {
		if v, ok := ev.memo.Get(e.Hash()); ok {
			return v
		}
	}
	st := &evalState{ctx: ctx, fuel: budget, ev: ev}
	res := st.eval(NewEnv(), e)
	if v, isValue := res.(Value); isValue && closed {
		ev.memo.Add(e.Hash(), v)
	}
	logger.Debug("evaluated", "term", exp.ExprString(e), "result", res.String(), "stepsLeft", st.fuel)
	return res
}

type evalState struct {
	ctx  context.Context
	fuel int
	ev   *Evaluator
}

// step burns one unit of budget. It returns false when the budget is gone or
// the caller cancelled, in which case the current reduction must stop.
func (st *evalState) step() bool {
	if st.ctx != nil && st.ctx.Err() != nil {
		return false
	}
	if st.fuel <= 0 {
		return false
	}
	st.fuel--
	return true
}

func (st *evalState) eval(env Env, e exp.Expr) Result {
	switch e := e.(type) {
	case *exp.NumLit:
		return &NumVal{Value: e.Value}

	case *exp.BoolLit:
		return &BoolVal{Value: e.Value}

	case *exp.Var:
		v, ok := env.Lookup(e.Name)
		if !ok {
			// reachable: finishing a hole around an out-of-scope name
			// commits a bare unbound variable
			return &Stuck{At: e.ID(), Reason: fmt.Sprintf("variable %s is not bound", e.Name)}
		}
		return v

	case *exp.Lambda:
		return &Closure{Param: e.Param, Body: e.Body, Env: env}

	case *exp.Apply:
		// the function is reduced first; when it blocks on a hole the
		// argument is not evaluated at all, so the application blocks on
		// the function's hole
		fn := st.eval(env, e.Fn)
		if !isValue(fn) {
			return fn
		}
		arg := st.eval(env, e.Arg)
		if !isValue(arg) {
			return arg
		}
		closure, ok := fn.(*Closure)
		if !ok {
			// statically admitted: an unknown-typed term, such as a
			// conditional with disagreeing branches, may stand in function
			// position and still evaluate to a non-function
			return &Stuck{At: e.ID(), Reason: fmt.Sprintf("applying the non-function value %s", fn)}
		}
		if !st.step() {
			return &Unfinished{}
		}
		return st.eval(closure.Env.Bind(closure.Param, arg.(Value)), closure.Body)

	case *exp.BinOp:
		left := st.eval(env, e.Left)
		if !isValue(left) {
			return left
		}
		right := st.eval(env, e.Right)
		if !isValue(right) {
			return right
		}
		if !st.step() {
			return &Unfinished{}
		}
		return applyBinOp(e, left, right)

	case *exp.If:
		guard := st.eval(env, e.Guard)
		if !isValue(guard) {
			return guard
		}
		cond, ok := guard.(*BoolVal)
		if !ok {
			return &Stuck{At: e.ID(), Reason: fmt.Sprintf("branching on the non-boolean value %s", guard)}
		}
		if !st.step() {
			return &Unfinished{}
		}
		// only the taken branch is evaluated: a hole in the other branch
		// cannot make this conditional indeterminate
		if cond.Value {
			return st.eval(env, e.Cons)
		}
		return st.eval(env, e.Alt)

	case *exp.EmptyHole:
		return st.indeterminate(e, env)

	case *exp.NonEmptyHole:
		return st.indeterminate(e, env)

	default:
		panic("unhandled expression " + e.ExprName())
	}
}

func (st *evalState) indeterminate(e exp.HoleExpr, env Env) Result {
	expected := exp.Hole
	if holeCtx, ok := st.ev.holes[e.ID()]; ok {
		expected = holeCtx.Expected
	}
	return &Indeterminate{Hole: e.ID(), Expected: expected, Env: env}
}

func isValue(r Result) bool {
	_, ok := r.(Value)
	return ok
}

func applyBinOp(e *exp.BinOp, left, right Result) Result {
	l, lok := left.(*NumVal)
	r, rok := right.(*NumVal)
	if !lok || !rok {
		return &Stuck{At: e.ID(), Reason: fmt.Sprintf("'%s' on the non-number values %s and %s", e.Op, left, right)}
	}
	switch op := e.Op; op {
	case exp.OpAdd:
		return &NumVal{Value: l.Value + r.Value}
	case exp.OpSub:
		return &NumVal{Value: l.Value - r.Value}
	case exp.OpMul:
		return &NumVal{Value: l.Value * r.Value}
	case exp.OpLessThan:
		return &BoolVal{Value: l.Value < r.Value}
	case exp.OpEquals:
		return &BoolVal{Value: l.Value == r.Value}
	default:
		panic(fmt.Sprintf("unknown operator %d", int(op)))
	}
}
