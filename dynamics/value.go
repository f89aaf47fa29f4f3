package dynamics

import (
	"fmt"

	"github.com/benbjohnson/immutable"
	"github.com/lacuna-lang/lacuna/exp"
)

var (
	_ Result = (*NumVal)(nil)
	_ Result = (*BoolVal)(nil)
	_ Result = (*Closure)(nil)
	_ Result = (*Indeterminate)(nil)
	_ Result = (*Stuck)(nil)
	_ Result = (*Unfinished)(nil)

	_ Value = (*NumVal)(nil)
	_ Value = (*BoolVal)(nil)
	_ Value = (*Closure)(nil)
)

// Result is the outcome of evaluating a term.
//
// The following results are possible:
//
//	NumVal, BoolVal, Closure:  values
//	Indeterminate:             evaluation is blocked on an unfilled hole
//	Stuck:                     evaluation reached a value whose runtime
//	                           shape does not fit its position, which the
//	                           unknown type permits statically
//	Unfinished:                the step budget ran out, or the caller
//	                           cancelled; resume with a larger budget
//
// None of Indeterminate, Stuck or Unfinished is an error: all are ordinary
// outcomes of evaluating a program that is still being written.
type Result interface {
	resultNode()
	String() string
}

// Value is a Result which evaluation cannot take further.
type Value interface {
	Result
	valueNode()
}

// NumVal is a number value.
type NumVal struct {
	Value int
}

func (v *NumVal) resultNode()    {}
func (v *NumVal) valueNode()     {}
func (v *NumVal) String() string { return fmt.Sprint(v.Value) }

// BoolVal is a boolean value.
type BoolVal struct {
	Value bool
}

func (v *BoolVal) resultNode()    {}
func (v *BoolVal) valueNode()     {}
func (v *BoolVal) String() string { return fmt.Sprint(v.Value) }

// Closure is a function value: a lambda together with the environment it was
// evaluated in.
type Closure struct {
	Param string
	Body  exp.Expr
	Env   Env
}

func (v *Closure) resultNode()    {}
func (v *Closure) valueNode()     {}
func (v *Closure) String() string { return fmt.Sprintf("fn %s -> %s", v.Param, exp.ExprString(v.Body)) }

// Indeterminate reports that evaluation reached a hole it cannot step past.
// It names the blocking hole, the type its position expects, and the runtime
// environment at the hole, which is exactly what a hole-filling assistant
// needs to propose contents.
type Indeterminate struct {
	Hole     exp.NodeID
	Expected exp.Type
	Env      Env
}

func (v *Indeterminate) resultNode() {}
func (v *Indeterminate) String() string {
	return fmt.Sprintf("indeterminate (blocked on hole %d, expecting %s)", v.Hole, v.Expected)
}

// Stuck reports that evaluation cannot continue at the named node: a value
// of the wrong runtime shape reached an elimination position there. The
// static side admits this whenever the unknown type flows into a function,
// guard or operand position, for instance out of a conditional whose
// branches disagree; it is a recoverable outcome, and filling or editing the
// offending node resolves it.
type Stuck struct {
	At     exp.NodeID
	Reason string
}

func (v *Stuck) resultNode() {}
func (v *Stuck) String() string {
	return fmt.Sprintf("stuck at node %d: %s", v.At, v.Reason)
}

// Unfinished reports that the step budget was exhausted or the evaluation
// context cancelled before a result was reached.
type Unfinished struct{}

func (v *Unfinished) resultNode()    {}
func (v *Unfinished) String() string { return "unfinished" }

// Env is the runtime environment: a persistent map from names to values, so
// closures and indeterminate results can safely share snapshots of it.
type Env struct {
	vals *immutable.Map[string, Value]
}

func NewEnv() Env {
	return Env{vals: immutable.NewMap[string, Value](immutable.NewHasher(""))}
}

func (e Env) Bind(name string, v Value) Env {
	return Env{vals: e.vals.Set(name, v)}
}

func (e Env) Lookup(name string) (Value, bool) {
	if e.vals == nil {
		return nil, false
	}
	return e.vals.Get(name)
}

func (e Env) Len() int {
	if e.vals == nil {
		return 0
	}
	return e.vals.Len()
}
