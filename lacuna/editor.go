// Package lacuna is the external surface of the structure-editor engine. An
// Editor owns a cursor over one term, applies edit actions to it, keeps the
// incremental retype cache current, and answers the type and hole-context
// queries that rendering, collaboration and hole-filling layers consume.
//
// Everything an Editor hands out is immutable: callers may hold a Term or
// Log snapshot across any number of later edits.
package lacuna

import (
	"context"

	"github.com/lacuna-lang/lacuna/action"
	"github.com/lacuna-lang/lacuna/dynamics"
	"github.com/lacuna-lang/lacuna/exp"
	"github.com/lacuna-lang/lacuna/lacerr"
	"github.com/lacuna-lang/lacuna/internal/log"
	"github.com/lacuna-lang/lacuna/retype"
	"github.com/lacuna-lang/lacuna/statics"
	"github.com/lacuna-lang/lacuna/zipper"
	"github.com/pkg/errors"
)

var logger = log.DefaultLogger.With("section", "editor")

// Editor is a single editing session: one term, one cursor, one edit log.
// All methods must be called from one goroutine; sessions process one edit
// at a time.
type Editor struct {
	state *action.State
	z     zipper.Zipper
	cache *retype.Cache
	log   *action.Log
	eval  *dynamics.Evaluator
}

// New starts a session on a single empty hole expected to have the given
// type. Pass nil when nothing is known about the program yet.
func New(rootWant exp.Type) *Editor {
	st := action.NewState(rootWant)
	root := exp.NewEmptyHole(st.Fresh)
	ed := &Editor{
		state: st,
		z:     zipper.Root(root),
		cache: retype.New(st.RootWant),
		log:   &action.Log{},
		eval:  dynamics.NewEvaluator(),
	}
	ed.cache.Seed(root)
	return ed
}

// Apply processes one edit action to completion: navigate or edit, then
// bring the retype cache up to date. On error the session is unchanged.
func (ed *Editor) Apply(a action.Action) error {
	prePath := zipper.PathOf(ed.z)
	next, err := action.Apply(ed.z, a, ed.state)
	if err != nil {
		return errors.Wrapf(err, "apply %s", a)
	}
	ed.z = next
	ed.log.Record(prePath, a)

	root := zipper.Plug(ed.z)
	ed.cache.Invalidate(root, zipper.PathOf(ed.z))
	ed.cache.Recheck(root)
	return nil
}

// ApplyAll applies a script of actions in order. A rejected action leaves
// the session unchanged and is collected rather than aborting the script,
// the way an editor surface swallows a rejected keystroke and moves on.
func (ed *Editor) ApplyAll(actions ...action.Action) *lacerr.Errors {
	var errs *lacerr.Errors
	for _, a := range actions {
		err := ed.Apply(a)
		if err == nil {
			continue
		}
		var lacErr lacerr.LacError
		if errors.As(err, &lacErr) {
			errs = errs.With(lacErr)
		}
	}
	if errs.HasError() {
		logger.Debug("script had rejected actions", "errors", errs)
	}
	return errs
}

// Term returns the current whole term. The returned tree is immutable and
// safe to hold across later edits.
func (ed *Editor) Term() exp.Expr {
	return zipper.Plug(ed.z)
}

// Cursor returns the current focus path.
func (ed *Editor) Cursor() exp.Path {
	return zipper.PathOf(ed.z)
}

// TypeAt returns the type of the focused expression, possibly the unknown
// type; in a session every focused node has one.
func (ed *Editor) TypeAt() exp.Type {
	return ed.cache.TypeOf(ed.z.Focus.ID())
}

// ContextAt describes the focused position for external consumers: the
// expected type there and the variables in scope with their types. For a
// focused hole this is exactly the hole's captured context. It never exposes
// raw cache state.
func (ed *Editor) ContextAt() statics.HoleContext {
	if holeCtx, ok := ed.cache.HoleContextOf(ed.z.Focus.ID()); ok {
		return holeCtx
	}
	env, want := statics.ExpectedAt(ed.z, ed.state.RootWant)
	return statics.HoleContext{
		Expected: want,
		Bound:    env,
		Source:   ed.z.Focus.ID(),
	}
}

// Evaluate runs the live evaluator over the current term with the given
// step budget. Cancellation via ctx is honored between steps.
func (ed *Editor) Evaluate(ctx context.Context, budget int) dynamics.Result {
	root := zipper.Plug(ed.z)
	res := ed.eval.WithHoleContexts(ed.holeContexts(root)).Evaluate(ctx, root, budget)
	logger.Debug("evaluated session term", "result", res.String())
	return res
}

// EvaluateBackground offloads evaluation of an immutable snapshot of the
// current term; the session may keep editing while it runs.
func (ed *Editor) EvaluateBackground(ctx context.Context, budget int) *dynamics.Session {
	root := zipper.Plug(ed.z)
	return ed.eval.WithHoleContexts(ed.holeContexts(root)).Background(ctx, root, budget)
}

func (ed *Editor) holeContexts(root exp.Expr) map[exp.NodeID]statics.HoleContext {
	holes := make(map[exp.NodeID]statics.HoleContext)
	collectHoles(root, ed.cache, holes)
	return holes
}

func collectHoles(e exp.Expr, cache *retype.Cache, holes map[exp.NodeID]statics.HoleContext) {
	if _, isHole := e.(exp.HoleExpr); isHole {
		if holeCtx, ok := cache.HoleContextOf(e.ID()); ok {
			holes[e.ID()] = holeCtx
		}
	}
	for _, child := range e.Children() {
		collectHoles(child, cache, holes)
	}
}

// Log returns the replayable record of this session's applied actions.
func (ed *Editor) Log() []action.Entry {
	return ed.log.Entries()
}

// Replay rebuilds a session from an edit log. Given the same log, the
// resulting term always equals the term of the session that produced it.
func Replay(rootWant exp.Type, entries []action.Entry) (*Editor, error) {
	st := action.NewState(rootWant)
	root := exp.NewEmptyHole(st.Fresh)
	z, err := action.Replay(root, st, entries)
	if err != nil {
		return nil, err
	}
	ed := &Editor{
		state: st,
		z:     z,
		cache: retype.New(st.RootWant),
		log:   &action.Log{},
		eval:  dynamics.NewEvaluator(),
	}
	for _, entry := range entries {
		ed.log.Record(entry.Path, entry.Act)
	}
	ed.cache.Seed(zipper.Plug(z))
	return ed, nil
}
