// Package zipper implements the cursor representation over terms: a focused
// subexpression paired with the one-hole context that reconstructs the
// surrounding tree. Contexts are immutable linked frames, so previous zipper
// states stay valid snapshots after further edits.
package zipper

import (
	"github.com/lacuna-lang/lacuna/exp"
	"github.com/lacuna-lang/lacuna/util"
)

var (
	_ Context = Top{}
	_ Context = (*LambdaBody)(nil)
	_ Context = (*ApplyFn)(nil)
	_ Context = (*ApplyArg)(nil)
	_ Context = (*BinOpLeft)(nil)
	_ Context = (*BinOpRight)(nil)
	_ Context = (*IfGuard)(nil)
	_ Context = (*IfCons)(nil)
	_ Context = (*IfAlt)(nil)
	_ Context = (*HoleInner)(nil)
)

// Context is a one-hole context: the tree surrounding the focus, with one
// case per expression position the cursor can stand in.
type Context interface {
	ctxNode()
	// Up is the context enclosing this frame's expression, or nil for Top.
	Up() Context
	// Enclosing is the original parent node the focus was carved out of, or
	// nil for Top.
	Enclosing() exp.Expr
	// Index is the child position the focus occupies in Enclosing.
	Index() int
}

// Top is the empty context: the focus is the whole term.
type Top struct{}

func (Top) ctxNode()            {}
func (Top) Up() Context         { return nil }
func (Top) Enclosing() exp.Expr { return nil }
func (Top) Index() int          { return 0 }

// LambdaBody focuses the body of a function.
type LambdaBody struct {
	Lam    *exp.Lambda
	Parent Context
}

func (f *LambdaBody) ctxNode()            {}
func (f *LambdaBody) Up() Context         { return f.Parent }
func (f *LambdaBody) Enclosing() exp.Expr { return f.Lam }
func (f *LambdaBody) Index() int          { return 0 }

// ApplyFn focuses the function position of an application.
type ApplyFn struct {
	Ap     *exp.Apply
	Parent Context
}

func (f *ApplyFn) ctxNode()            {}
func (f *ApplyFn) Up() Context         { return f.Parent }
func (f *ApplyFn) Enclosing() exp.Expr { return f.Ap }
func (f *ApplyFn) Index() int          { return 0 }

// ApplyArg focuses the argument position of an application.
type ApplyArg struct {
	Ap     *exp.Apply
	Parent Context
}

func (f *ApplyArg) ctxNode()            {}
func (f *ApplyArg) Up() Context         { return f.Parent }
func (f *ApplyArg) Enclosing() exp.Expr { return f.Ap }
func (f *ApplyArg) Index() int          { return 1 }

// BinOpLeft focuses the left operand of a binary operation.
type BinOpLeft struct {
	Op     *exp.BinOp
	Parent Context
}

func (f *BinOpLeft) ctxNode()            {}
func (f *BinOpLeft) Up() Context         { return f.Parent }
func (f *BinOpLeft) Enclosing() exp.Expr { return f.Op }
func (f *BinOpLeft) Index() int          { return 0 }

// BinOpRight focuses the right operand of a binary operation.
type BinOpRight struct {
	Op     *exp.BinOp
	Parent Context
}

func (f *BinOpRight) ctxNode()            {}
func (f *BinOpRight) Up() Context         { return f.Parent }
func (f *BinOpRight) Enclosing() exp.Expr { return f.Op }
func (f *BinOpRight) Index() int          { return 1 }

// IfGuard focuses the condition of a conditional.
type IfGuard struct {
	If     *exp.If
	Parent Context
}

func (f *IfGuard) ctxNode()            {}
func (f *IfGuard) Up() Context         { return f.Parent }
func (f *IfGuard) Enclosing() exp.Expr { return f.If }
func (f *IfGuard) Index() int          { return 0 }

// IfCons focuses the then-branch of a conditional.
type IfCons struct {
	If     *exp.If
	Parent Context
}

func (f *IfCons) ctxNode()            {}
func (f *IfCons) Up() Context         { return f.Parent }
func (f *IfCons) Enclosing() exp.Expr { return f.If }
func (f *IfCons) Index() int          { return 1 }

// IfAlt focuses the else-branch of a conditional.
type IfAlt struct {
	If     *exp.If
	Parent Context
}

func (f *IfAlt) ctxNode()            {}
func (f *IfAlt) Up() Context         { return f.Parent }
func (f *IfAlt) Enclosing() exp.Expr { return f.If }
func (f *IfAlt) Index() int          { return 2 }

// HoleInner focuses the expression wrapped by a non-empty hole.
type HoleInner struct {
	Hole   *exp.NonEmptyHole
	Parent Context
}

func (f *HoleInner) ctxNode()            {}
func (f *HoleInner) Up() Context         { return f.Parent }
func (f *HoleInner) Enclosing() exp.Expr { return f.Hole }
func (f *HoleInner) Index() int          { return 0 }

// Zipper pairs a focused subexpression with its surrounding context.
// Invariant: Plug always reconstructs a well-formed expression, and plugging
// then walking back to the same path yields an equal zipper.
type Zipper struct {
	Focus exp.Expr
	Ctx   Context
}

// Root is the zipper focused on the whole of t.
func Root(t exp.Expr) Zipper {
	return Zipper{Focus: t, Ctx: Top{}}
}

// AtTop reports whether the cursor is on the whole term.
func (z Zipper) AtTop() bool {
	_, ok := z.Ctx.(Top)
	return ok
}

// Plug reconstructs the whole term from the focus outwards. Ancestors are
// rebuilt with exp.Expr.WithChildren, so their NodeIDs are preserved and
// untouched siblings are shared with the previous tree.
func Plug(z Zipper) exp.Expr {
	node := z.Focus
	for ctx := z.Ctx; ; ctx = ctx.Up() {
		if _, ok := ctx.(Top); ok {
			return node
		}
		node = plugOne(ctx, node)
	}
}

func plugOne(ctx Context, focus exp.Expr) exp.Expr {
	parent := ctx.Enclosing()
	children := parent.Children()
	if children[ctx.Index()] == focus {
		return parent
	}
	rebuilt := make([]exp.Expr, len(children))
	copy(rebuilt, children)
	rebuilt[ctx.Index()] = focus
	return parent.WithChildren(rebuilt...)
}

// Up moves the cursor to the enclosing expression.
func Up(z Zipper) (Zipper, bool) {
	if z.AtTop() {
		return z, false
	}
	return Zipper{Focus: plugOne(z.Ctx, z.Focus), Ctx: z.Ctx.Up()}, true
}

// Down moves the cursor to child n of the focus, in the canonical child
// order of exp.Expr.Children.
func Down(z Zipper, n int) (Zipper, bool) {
	frame, child, ok := frameFor(z.Focus, n, z.Ctx)
	if !ok {
		return z, false
	}
	return Zipper{Focus: child, Ctx: frame}, true
}

func frameFor(focus exp.Expr, n int, up Context) (Context, exp.Expr, bool) {
	switch focus := focus.(type) {
	case *exp.Lambda:
		if n == 0 {
			return &LambdaBody{Lam: focus, Parent: up}, focus.Body, true
		}
	case *exp.Apply:
		switch n {
		case 0:
			return &ApplyFn{Ap: focus, Parent: up}, focus.Fn, true
		case 1:
			return &ApplyArg{Ap: focus, Parent: up}, focus.Arg, true
		}
	case *exp.BinOp:
		switch n {
		case 0:
			return &BinOpLeft{Op: focus, Parent: up}, focus.Left, true
		case 1:
			return &BinOpRight{Op: focus, Parent: up}, focus.Right, true
		}
	case *exp.If:
		switch n {
		case 0:
			return &IfGuard{If: focus, Parent: up}, focus.Guard, true
		case 1:
			return &IfCons{If: focus, Parent: up}, focus.Cons, true
		case 2:
			return &IfAlt{If: focus, Parent: up}, focus.Alt, true
		}
	case *exp.NonEmptyHole:
		if n == 0 {
			return &HoleInner{Hole: focus, Parent: up}, focus.Inner, true
		}
	}
	return nil, nil, false
}

// PathOf returns the path from the root of the plugged term to the focus.
func PathOf(z Zipper) exp.Path {
	var steps util.Stack[int]
	for ctx := z.Ctx; ; ctx = ctx.Up() {
		if _, ok := ctx.(Top); ok {
			break
		}
		steps.Push(ctx.Index())
	}
	// frames were pushed innermost-first, so popping walks root to focus
	path := make(exp.Path, 0, steps.Len())
	for {
		step, ok := steps.Pop()
		if !ok {
			break
		}
		path = append(path, step)
	}
	return path
}

// ToPath walks down from the root of t to the node addressed by path.
func ToPath(t exp.Expr, path exp.Path) (Zipper, bool) {
	z := Root(t)
	for _, step := range path {
		next, ok := Down(z, step)
		if !ok {
			return Root(t), false
		}
		z = next
	}
	return z, true
}

// Spine returns the context frames from the outside in, Top excluded. It is
// what the statics layer walks to reconstruct the typing environment at the
// cursor.
func Spine(z Zipper) []Context {
	var inner []Context
	for ctx := z.Ctx; ; ctx = ctx.Up() {
		if _, ok := ctx.(Top); ok {
			break
		}
		inner = append(inner, ctx)
	}
	frames := make([]Context, 0, len(inner))
	for frame := range util.Reverse(inner) {
		frames = append(frames, frame)
	}
	return frames
}
