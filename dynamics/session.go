package dynamics

import (
	"context"

	"github.com/lacuna-lang/lacuna/exp"
	"golang.org/x/sync/errgroup"
)

// Session is an evaluation offloaded to a background goroutine. The core
// stays single-threaded: the session only reads an immutable term snapshot,
// and the caller collects the result when it is ready.
type Session struct {
	cancel context.CancelFunc
	group  *errgroup.Group
	result Result
}

// Background starts evaluating e with the given budget. Cancel the session
// to stop it between steps; Wait blocks until it settles.
func (ev *Evaluator) Background(ctx context.Context, e exp.Expr, budget int) *Session {
	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)
	s := &Session{cancel: cancel, group: group}
	group.Go(func() error {
		s.result = ev.Evaluate(ctx, e, budget)
		return nil
	})
	return s
}

// Cancel stops the evaluation between steps. Wait will return Unfinished if
// no result had been reached.
func (s *Session) Cancel() {
	s.cancel()
}

// Wait blocks until the session settles and returns its result.
func (s *Session) Wait() Result {
	_ = s.group.Wait()
	s.cancel()
	return s.result
}
