// Package action implements the edit action semantics: the small state
// machine that maps a cursor state and an action to the next cursor state.
// Every action either fails cleanly, returning the input unchanged, or
// produces a term that still type-checks; the wrapping rule makes an
// ill-typed result structurally impossible.
package action

import (
	"fmt"

	"github.com/lacuna-lang/lacuna/exp"
)

var (
	_ Action = MoveParent{}
	_ Action = MoveChild{}
	_ Action = ConstructLambda{}
	_ Action = ConstructApply{}
	_ Action = ConstructBinOp{}
	_ Action = ConstructLiteral{}
	_ Action = ConstructBoolLit{}
	_ Action = ConstructVar{}
	_ Action = ConstructIf{}
	_ Action = Delete{}
	_ Action = Finish{}
)

// Action is one atomic edit. Applying an action is a pure function of the
// prior zipper and the action, which is what makes the edit log replayable.
type Action interface {
	actionNode()
	String() string
}

// Side selects which operand of a new binary operation absorbs the focus.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// MoveParent moves the cursor to the enclosing expression.
type MoveParent struct{}

// MoveChild moves the cursor to child N of the focus.
type MoveChild struct{ N int }

// ConstructLambda wraps the focus as the body of a new function.
type ConstructLambda struct{ Param string }

// ConstructApply turns the focus into a function applied to a new hole, and
// moves the cursor into that hole.
type ConstructApply struct{}

// ConstructBinOp absorbs the focus as one operand of a new binary operation,
// with a hole in the other position. The cursor stays on the absorbed
// operand.
type ConstructBinOp struct {
	Op   exp.Op
	Side Side
}

// ConstructLiteral replaces the focus with a number literal.
type ConstructLiteral struct{ Value int }

// ConstructBoolLit replaces the focus with a boolean literal.
type ConstructBoolLit struct{ Value bool }

// ConstructVar replaces the focus with a variable occurrence. An occurrence
// of a name not in scope is wrapped in a non-empty hole immediately.
type ConstructVar struct{ Name string }

// ConstructIf absorbs the focus as the condition of a new conditional with
// holes for both branches.
type ConstructIf struct{}

// Delete replaces the focus with a fresh empty hole. The hole's context
// keeps the position's expected type and scope, so nothing the editor knew
// is lost.
type Delete struct{}

// Finish unwraps a non-empty hole once its contents have become consistent
// with what the position expects. On anything but a non-empty hole it is a
// no-op.
type Finish struct{}

func (MoveParent) actionNode()       {}
func (MoveChild) actionNode()        {}
func (ConstructLambda) actionNode()  {}
func (ConstructApply) actionNode()   {}
func (ConstructBinOp) actionNode()   {}
func (ConstructLiteral) actionNode() {}
func (ConstructBoolLit) actionNode() {}
func (ConstructVar) actionNode()     {}
func (ConstructIf) actionNode()      {}
func (Delete) actionNode()           {}
func (Finish) actionNode()           {}

func (MoveParent) String() string        { return "move(parent)" }
func (a MoveChild) String() string       { return fmt.Sprintf("move(child %d)", a.N) }
func (a ConstructLambda) String() string { return fmt.Sprintf("construct(fn %s)", a.Param) }
func (ConstructApply) String() string    { return "construct(apply)" }
func (a ConstructBinOp) String() string  { return fmt.Sprintf("construct(%s, %s)", a.Op, a.Side) }
func (a ConstructLiteral) String() string {
	return fmt.Sprintf("construct(lit %d)", a.Value)
}
func (a ConstructBoolLit) String() string {
	return fmt.Sprintf("construct(lit %v)", a.Value)
}
func (a ConstructVar) String() string { return fmt.Sprintf("construct(var %s)", a.Name) }
func (ConstructIf) String() string    { return "construct(if)" }
func (Delete) String() string         { return "delete" }
func (Finish) String() string         { return "finish" }
