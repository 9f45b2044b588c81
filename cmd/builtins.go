package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/josephlewis42/rshell/commands"
	"github.com/spf13/cobra"
)

var listPrograms bool

// builtinsCmd lists the commands that run inside the interpreter
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the interpreter.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		defer tw.Flush()

		for _, name := range commands.BuiltinNames() {
			fmt.Fprintf(tw, "%s\t%s\n", name, commands.BuiltinSummary(name))
		}

		if listPrograms {
			for _, name := range commands.ProgramNames() {
				fmt.Fprintf(tw, "%s\t%s\n", name, "playground program")
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
	builtinsCmd.Flags().BoolVar(&listPrograms, "programs", false, "also list the playground's programs")
}
