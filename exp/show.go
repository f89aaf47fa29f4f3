package exp

import (
	"fmt"
	"strings"
)

// ExprString renders e in a compact single-line surface form, for logs, test
// failure messages and the demo driver. It is not a persistence format.
func ExprString(expr Expr) string {
	ctx := &showContext{Builder: &strings.Builder{}}
	ctx.showExprWalker(expr, 0)
	return ctx.String()
}

type showContext struct {
	*strings.Builder
}

func (ctx *showContext) showExprWalker(expr Expr, outerPrecedence int16) {
	if expr == nil {
		ctx.WriteString("nil")
		return
	}
	switch expr := expr.(type) {
	case *NumLit:
		ctx.WriteString(fmt.Sprint(expr.Value))
	case *BoolLit:
		ctx.WriteString(fmt.Sprint(expr.Value))
	case *Var:
		ctx.WriteString(expr.Name)
	case *Lambda:
		if outerPrecedence > 0 {
			ctx.WriteString("(")
			defer ctx.WriteString(")")
		}
		ctx.WriteString(fmt.Sprintf("fn %s -> ", expr.Param))
		ctx.showExprWalker(expr.Body, 0)
	case *Apply:
		ctx.showExprWalker(expr.Fn, 2)
		ctx.WriteString("(")
		ctx.showExprWalker(expr.Arg, 0)
		ctx.WriteString(")")
	case *BinOp:
		if outerPrecedence > 1 {
			ctx.WriteString("(")
			defer ctx.WriteString(")")
		}
		ctx.showExprWalker(expr.Left, 2)
		ctx.WriteString(fmt.Sprintf(" %s ", expr.Op))
		ctx.showExprWalker(expr.Right, 2)
	case *If:
		if outerPrecedence > 0 {
			ctx.WriteString("(")
			defer ctx.WriteString(")")
		}
		ctx.WriteString("if ")
		ctx.showExprWalker(expr.Guard, 0)
		ctx.WriteString(" then ")
		ctx.showExprWalker(expr.Cons, 0)
		ctx.WriteString(" else ")
		ctx.showExprWalker(expr.Alt, 0)
	case *EmptyHole:
		ctx.WriteString(fmt.Sprintf("⦇⦈%d", expr.id))
	case *NonEmptyHole:
		ctx.WriteString("⦇")
		ctx.showExprWalker(expr.Inner, 0)
		ctx.WriteString(fmt.Sprintf("⦈%d", expr.id))
	default:
		ctx.WriteString(expr.ExprName())
	}
}
