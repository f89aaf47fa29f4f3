package exp

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

var (
	_ Expr = (*NumLit)(nil)
	_ Expr = (*BoolLit)(nil)
	_ Expr = (*Var)(nil)
	_ Expr = (*Lambda)(nil)
	_ Expr = (*Apply)(nil)
	_ Expr = (*BinOp)(nil)
	_ Expr = (*If)(nil)
	_ Expr = (*EmptyHole)(nil)
	_ Expr = (*NonEmptyHole)(nil)

	_ HoleExpr = (*EmptyHole)(nil)
	_ HoleExpr = (*NonEmptyHole)(nil)
)

// Expr is the base for all expressions.
//
// The following expressions are supported:
//
//	NumLit:        number literal
//	BoolLit:       boolean literal
//	Var:           variable
//	Lambda:        function abstraction
//	Apply:         function application
//	BinOp:         binary operation
//	If:            conditional
//	EmptyHole:     a typed placeholder for code not yet written
//	NonEmptyHole:  a hole wrapping an expression whose type does not fit
//
// Every node is immutable; edits produce new trees with structural sharing.
type Expr interface {
	exprNode()
	// ExprName is the name of the syntax-type of the expression.
	ExprName() string
	// Describe is what to call this expression in messages to the editor
	Describe() string
	// ID identifies this node within the editing session. Rebuilding a node
	// with different children via WithChildren preserves it; constructing a
	// node mints a new one.
	ID() NodeID
	// Hash is a structural hash. It ignores the NodeIDs of ordinary nodes,
	// so two separately built but identical terms collide; holes keep their
	// identity, since distinct holes are distinct even when both are empty.
	Hash() uint64
	// Children returns the direct subexpressions in canonical order.
	Children() []Expr
	// WithChildren rebuilds this node with the given children, which must
	// match Children in length. The NodeID is preserved.
	WithChildren(children ...Expr) Expr
}

// HoleExpr is an Expr which is a hole: its NodeID doubles as the hole ID.
type HoleExpr interface {
	Expr
	holeNode()
}

func (e *NumLit) Describe() string       { return "number literal" }
func (e *BoolLit) Describe() string      { return "boolean literal" }
func (e *Var) Describe() string          { return "variable" }
func (e *Lambda) Describe() string       { return "function" }
func (e *Apply) Describe() string        { return "function application" }
func (e *BinOp) Describe() string        { return fmt.Sprintf("'%s' operation", e.Op) }
func (e *If) Describe() string           { return "conditional" }
func (e *EmptyHole) Describe() string    { return "hole" }
func (e *NonEmptyHole) Describe() string { return "hole around an expression" }

func (e *NumLit) ExprName() string       { return "NumLit" }
func (e *BoolLit) ExprName() string      { return "BoolLit" }
func (e *Var) ExprName() string          { return "Var" }
func (e *Lambda) ExprName() string       { return "Lambda" }
func (e *Apply) ExprName() string        { return "Apply" }
func (e *BinOp) ExprName() string        { return "BinOp" }
func (e *If) ExprName() string           { return "If" }
func (e *EmptyHole) ExprName() string    { return "EmptyHole" }
func (e *NonEmptyHole) ExprName() string { return "NonEmptyHole" }

// Op enumerates the binary operators.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpLessThan
	OpEquals
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpLessThan:
		return "<"
	case OpEquals:
		return "=="
	default:
		panic(fmt.Sprintf("unknown operator %d", int(o)))
	}
}

// Synthesizes is the type a well-formed application of this operator has.
// Both operands are always expected to be numbers.
func (o Op) Synthesizes() Type {
	switch o {
	case OpLessThan, OpEquals:
		return Bool
	default:
		return Num
	}
}

// NumLit represents a number literal.
type NumLit struct {
	id    NodeID
	Value int
}

func NewNumLit(f *Fresh, value int) *NumLit {
	return &NumLit{id: f.NextID(), Value: value}
}

func (e *NumLit) exprNode()        {}
func (e *NumLit) ID() NodeID       { return e.id }
func (e *NumLit) Children() []Expr { return nil }
func (e *NumLit) WithChildren(children ...Expr) Expr {
	mustChildren(e, children, 0)
	return e
}
func (e *NumLit) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("NumLit")
	arr = binary.LittleEndian.AppendUint64(arr, uint64(e.Value))
	_, _ = h.Write(arr)
	return h.Sum64()
}

// BoolLit represents a boolean literal.
type BoolLit struct {
	id    NodeID
	Value bool
}

func NewBoolLit(f *Fresh, value bool) *BoolLit {
	return &BoolLit{id: f.NextID(), Value: value}
}

func (e *BoolLit) exprNode()        {}
func (e *BoolLit) ID() NodeID       { return e.id }
func (e *BoolLit) Children() []Expr { return nil }
func (e *BoolLit) WithChildren(children ...Expr) Expr {
	mustChildren(e, children, 0)
	return e
}
func (e *BoolLit) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("BoolLit")
	if e.Value {
		arr = append(arr, 1)
	} else {
		arr = append(arr, 0)
	}
	_, _ = h.Write(arr)
	return h.Sum64()
}

// Var represents a variable occurrence.
type Var struct {
	id   NodeID
	Name string
}

func NewVar(f *Fresh, name string) *Var {
	return &Var{id: f.NextID(), Name: name}
}

func (e *Var) exprNode()        {}
func (e *Var) ID() NodeID       { return e.id }
func (e *Var) Children() []Expr { return nil }
func (e *Var) WithChildren(children ...Expr) Expr {
	mustChildren(e, children, 0)
	return e
}
func (e *Var) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("Var"))
	_, _ = h.Write([]byte(e.Name))
	return h.Sum64()
}

// Lambda represents a function abstraction. Parameters carry no annotation:
// unannotated parameters have the unknown type until the context refines them.
type Lambda struct {
	id    NodeID
	Param string
	Body  Expr
}

func NewLambda(f *Fresh, param string, body Expr) *Lambda {
	return &Lambda{id: f.NextID(), Param: param, Body: body}
}

func (e *Lambda) exprNode()        {}
func (e *Lambda) ID() NodeID       { return e.id }
func (e *Lambda) Children() []Expr { return []Expr{e.Body} }
func (e *Lambda) WithChildren(children ...Expr) Expr {
	mustChildren(e, children, 1)
	if children[0] == e.Body {
		return e
	}
	return &Lambda{id: e.id, Param: e.Param, Body: children[0]}
}
func (e *Lambda) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("Lambda")
	_, _ = h.Write([]byte(e.Param))
	arr = binary.LittleEndian.AppendUint64(arr, e.Body.Hash())
	_, _ = h.Write(arr)
	return h.Sum64()
}

// Apply represents a function application.
type Apply struct {
	id  NodeID
	Fn  Expr
	Arg Expr
}

func NewApply(f *Fresh, fn, arg Expr) *Apply {
	return &Apply{id: f.NextID(), Fn: fn, Arg: arg}
}

func (e *Apply) exprNode()        {}
func (e *Apply) ID() NodeID       { return e.id }
func (e *Apply) Children() []Expr { return []Expr{e.Fn, e.Arg} }
func (e *Apply) WithChildren(children ...Expr) Expr {
	mustChildren(e, children, 2)
	if children[0] == e.Fn && children[1] == e.Arg {
		return e
	}
	return &Apply{id: e.id, Fn: children[0], Arg: children[1]}
}
func (e *Apply) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("Apply")
	arr = binary.LittleEndian.AppendUint64(arr, e.Fn.Hash())
	arr = binary.LittleEndian.AppendUint64(arr, e.Arg.Hash())
	_, _ = h.Write(arr)
	return h.Sum64()
}

// BinOp represents a binary operation between two numbers.
type BinOp struct {
	id    NodeID
	Op    Op
	Left  Expr
	Right Expr
}

func NewBinOp(f *Fresh, op Op, left, right Expr) *BinOp {
	return &BinOp{id: f.NextID(), Op: op, Left: left, Right: right}
}

func (e *BinOp) exprNode()        {}
func (e *BinOp) ID() NodeID       { return e.id }
func (e *BinOp) Children() []Expr { return []Expr{e.Left, e.Right} }
func (e *BinOp) WithChildren(children ...Expr) Expr {
	mustChildren(e, children, 2)
	if children[0] == e.Left && children[1] == e.Right {
		return e
	}
	return &BinOp{id: e.id, Op: e.Op, Left: children[0], Right: children[1]}
}
func (e *BinOp) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("BinOp")
	_, _ = h.Write([]byte(e.Op.String()))
	arr = binary.LittleEndian.AppendUint64(arr, e.Left.Hash())
	arr = binary.LittleEndian.AppendUint64(arr, e.Right.Hash())
	_, _ = h.Write(arr)
	return h.Sum64()
}

// If represents a conditional. Its branches may disagree in precision: the
// conditional is typed at the meet of the branch types under consistency.
type If struct {
	id    NodeID
	Guard Expr
	Cons  Expr
	Alt   Expr
}

func NewIf(f *Fresh, guard, cons, alt Expr) *If {
	return &If{id: f.NextID(), Guard: guard, Cons: cons, Alt: alt}
}

func (e *If) exprNode()        {}
func (e *If) ID() NodeID       { return e.id }
func (e *If) Children() []Expr { return []Expr{e.Guard, e.Cons, e.Alt} }
func (e *If) WithChildren(children ...Expr) Expr {
	mustChildren(e, children, 3)
	if children[0] == e.Guard && children[1] == e.Cons && children[2] == e.Alt {
		return e
	}
	return &If{id: e.id, Guard: children[0], Cons: children[1], Alt: children[2]}
}
func (e *If) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("If")
	arr = binary.LittleEndian.AppendUint64(arr, e.Guard.Hash())
	arr = binary.LittleEndian.AppendUint64(arr, e.Cons.Hash())
	arr = binary.LittleEndian.AppendUint64(arr, e.Alt.Hash())
	_, _ = h.Write(arr)
	return h.Sum64()
}

// EmptyHole is a typed placeholder for code not yet written.
type EmptyHole struct {
	id NodeID
}

func NewEmptyHole(f *Fresh) *EmptyHole {
	return &EmptyHole{id: f.NextID()}
}

func (e *EmptyHole) exprNode()        {}
func (e *EmptyHole) holeNode()        {}
func (e *EmptyHole) ID() NodeID       { return e.id }
func (e *EmptyHole) Children() []Expr { return nil }
func (e *EmptyHole) WithChildren(children ...Expr) Expr {
	mustChildren(e, children, 0)
	return e
}
func (e *EmptyHole) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("EmptyHole")
	arr = binary.LittleEndian.AppendUint64(arr, uint64(e.id))
	_, _ = h.Write(arr)
	return h.Sum64()
}

// NonEmptyHole wraps an expression whose synthesized type is not consistent
// with what its position expects. Wrapping is what makes an ill-typed program
// structurally impossible: the wrapped expression keeps its shape, and the
// hole synthesizes the unknown type.
type NonEmptyHole struct {
	id    NodeID
	Inner Expr
}

func NewNonEmptyHole(f *Fresh, inner Expr) *NonEmptyHole {
	return &NonEmptyHole{id: f.NextID(), Inner: inner}
}

func (e *NonEmptyHole) exprNode()        {}
func (e *NonEmptyHole) holeNode()        {}
func (e *NonEmptyHole) ID() NodeID       { return e.id }
func (e *NonEmptyHole) Children() []Expr { return []Expr{e.Inner} }
func (e *NonEmptyHole) WithChildren(children ...Expr) Expr {
	mustChildren(e, children, 1)
	if children[0] == e.Inner {
		return e
	}
	return &NonEmptyHole{id: e.id, Inner: children[0]}
}
func (e *NonEmptyHole) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("NonEmptyHole")
	arr = binary.LittleEndian.AppendUint64(arr, uint64(e.id))
	arr = binary.LittleEndian.AppendUint64(arr, e.Inner.Hash())
	_, _ = h.Write(arr)
	return h.Sum64()
}

func mustChildren(e Expr, children []Expr, want int) {
	if len(children) != want {
		panic(fmt.Sprintf("%s takes %d children, got %d", e.ExprName(), want, len(children)))
	}
}
