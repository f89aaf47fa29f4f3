package lacerr

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// enableDebugErrorPrinting makes errors include their stacktrace when printed
const enableDebugErrorPrinting bool = false
const enableDebugFullStacktrace bool = false

type ErrCode int

const (
	None ErrCode = iota
	// NoSuchChild reports a MoveChild action whose index does not exist
	// under the focused expression.
	NoSuchChild
	// AtTop reports a MoveParent action applied at the root of the term.
	AtTop
	// NotConsistentYet reports a Finish action on a hole whose contents do
	// not yet synthesize a type consistent with the hole's expectation.
	NotConsistentYet
	// CannotSynthesize reports a synthesis request on a bare hole with no
	// contextual type. It indicates a caller bug, never a user condition.
	CannotSynthesize
	// BadReplay reports an edit-log entry that does not apply to the term
	// it is being replayed against.
	BadReplay
)

type LacError interface {
	Error() string
	Code() ErrCode

	withStack([]byte) LacError
	getStack() []byte
}

func FormatWithCode(e LacError) string {
	if enableDebugErrorPrinting && e.getStack() != nil {
		stack := string(e.getStack())
		if !enableDebugFullStacktrace {
			stack = strings.Split(stack, "\n")[6]
		}
		return fmt.Sprintf("%s:(E%03d) %s", stack, e.Code(), e.Error())
	}
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

func New[E LacError](err E) LacError {
	return err.withStack(debug.Stack())
}

// CodeOf returns the ErrCode of err, unwrapping as needed, and None when no
// LacError is in the chain.
func CodeOf(err error) ErrCode {
	var lacErr LacError
	if errors.As(err, &lacErr) {
		return lacErr.Code()
	}
	return None
}

type NewNoSuchChild struct {
	Child      int
	ChildCount int
	stack      []byte
}

func (e NewNoSuchChild) Error() string {
	return fmt.Sprintf("no child %d here: the focused expression has %d children", e.Child, e.ChildCount)
}
func (e NewNoSuchChild) Code() ErrCode    { return NoSuchChild }
func (e NewNoSuchChild) getStack() []byte { return e.stack }
func (e NewNoSuchChild) withStack(stack []byte) LacError {
	e.stack = stack
	return e
}

type NewAtTop struct {
	stack []byte
}

func (e NewAtTop) Error() string {
	return "cannot move to the parent: the cursor is at the top of the term"
}
func (e NewAtTop) Code() ErrCode    { return AtTop }
func (e NewAtTop) getStack() []byte { return e.stack }
func (e NewAtTop) withStack(stack []byte) LacError {
	e.stack = stack
	return e
}

type NewNotConsistentYet struct {
	Synthesized string
	Wanted      string
	stack       []byte
}

func (e NewNotConsistentYet) Error() string {
	return fmt.Sprintf("cannot finish this hole yet: its contents synthesize '%s', but '%s' is expected", e.Synthesized, e.Wanted)
}
func (e NewNotConsistentYet) Code() ErrCode    { return NotConsistentYet }
func (e NewNotConsistentYet) getStack() []byte { return e.stack }
func (e NewNotConsistentYet) withStack(stack []byte) LacError {
	e.stack = stack
	return e
}

type NewCannotSynthesize struct {
	stack []byte
}

func (e NewCannotSynthesize) Error() string {
	return "a bare hole does not synthesize a type: analyse it against an expected type instead"
}
func (e NewCannotSynthesize) Code() ErrCode    { return CannotSynthesize }
func (e NewCannotSynthesize) getStack() []byte { return e.stack }
func (e NewCannotSynthesize) withStack(stack []byte) LacError {
	e.stack = stack
	return e
}

type NewBadReplay struct {
	Seq    int
	Reason string
	stack  []byte
}

func (e NewBadReplay) Error() string {
	return fmt.Sprintf("edit log entry %d does not apply: %s", e.Seq, e.Reason)
}
func (e NewBadReplay) Code() ErrCode    { return BadReplay }
func (e NewBadReplay) getStack() []byte { return e.stack }
func (e NewBadReplay) withStack(stack []byte) LacError {
	e.stack = stack
	return e
}
