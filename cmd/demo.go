package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lacuna-lang/lacuna/action"
	"github.com/lacuna-lang/lacuna/exp"
	"github.com/lacuna-lang/lacuna/internal/log"
	"github.com/lacuna-lang/lacuna/lacuna"
	"github.com/spf13/cobra"
)

var DemoCmd = &cobra.Command{
	Use:          "demo",
	Short:        "Build a small program through edit actions and live-evaluate it at every step",
	RunE:         runDemo,
	SilenceUsage: true,
}

func runDemo(cobraCmd *cobra.Command, args []string) error {
	log.SetLevel(slog.LevelError)

	ed := lacuna.New(exp.Num)
	script := []action.Action{
		action.ConstructBinOp{Op: exp.OpAdd, Side: action.SideLeft},
		action.ConstructLiteral{Value: 1},
		action.MoveParent{},
		action.MoveChild{N: 1},
		action.ConstructLiteral{Value: 2},
	}

	show(ed)
	for _, a := range script {
		if err := ed.Apply(a); err != nil {
			return fmt.Errorf("demo script should always apply: %w", err)
		}
		fmt.Printf("\n» %s\n", a)
		show(ed)
	}
	return nil
}

func show(ed *lacuna.Editor) {
	fmt.Printf("  term:   %s\n", exp.ExprString(ed.Term()))
	fmt.Printf("  cursor: %s (type %s)\n", ed.Cursor(), ed.TypeAt())
	holeCtx := ed.ContextAt()
	fmt.Printf("  expects %s, %d variable(s) in scope\n", holeCtx.Expected, holeCtx.Bound.Len())
	fmt.Printf("  value:  %s\n", ed.Evaluate(context.Background(), 10_000))
}
