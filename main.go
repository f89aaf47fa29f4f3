package main

import (
	"os"

	"github.com/lacuna-lang/lacuna/cmd"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "lacuna [subcommand]",
	Short:        "lacuna ◌\n a structure-editor engine for programs with typed holes",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.DemoCmd)
}
